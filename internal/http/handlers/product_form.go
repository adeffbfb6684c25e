package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/productform-backend/internal/data/aggregates"
	"github.com/yungbote/productform-backend/internal/domain"
	domainagg "github.com/yungbote/productform-backend/internal/domain/aggregates"
	"github.com/yungbote/productform-backend/internal/domain/forms"
	"github.com/yungbote/productform-backend/internal/http/response"
	"github.com/yungbote/productform-backend/internal/observability"
	"github.com/yungbote/productform-backend/internal/platform/ctxutil"
	"github.com/yungbote/productform-backend/internal/platform/logger"
	"github.com/yungbote/productform-backend/internal/services/drafts"
)

const maxFormBytes = 1 << 20

type ProductFormHandlerDeps struct {
	Log     *logger.Logger
	Forms   aggregates.ProductFormDeps
	Drafts  drafts.Store
	Metrics *observability.Metrics
}

type ProductFormHandler struct {
	log     *logger.Logger
	forms   aggregates.ProductFormDeps
	drafts  drafts.Store
	metrics *observability.Metrics
}

func NewProductFormHandlerWithDeps(deps ProductFormHandlerDeps) *ProductFormHandler {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	store := deps.Drafts
	if store == nil {
		store = drafts.NewNoopStore()
	}
	return &ProductFormHandler{
		log:     log.With("handler", "ProductFormHandler"),
		forms:   deps.Forms,
		drafts:  store,
		metrics: deps.Metrics,
	}
}

type parcelRowView struct {
	Key    forms.RowKey   `json:"key"`
	Kind   string         `json:"kind"`
	Parcel *domain.Parcel `json:"parcel"`
	Errors []string       `json:"errors"`
}

type productFormView struct {
	Product *domain.Product `json:"product"`
	Errors  []string        `json:"errors"`
	Parcels []parcelRowView `json:"parcels"`
}

type formFailure struct {
	Error      response.APIError `json:"error"`
	Form       productFormView   `json:"form"`
	Report     forms.Report      `json:"report"`
	DraftToken string            `json:"draft_token,omitempty"`
}

// POST /api/products
func (h *ProductFormHandler) Create(c *gin.Context) {
	ctx := c.Request.Context()
	payload, ok := h.readPayload(c)
	if !ok {
		return
	}
	f, err := aggregates.NewProductForm(ctx, h.forms)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	h.submit(c, f, payload, nil)
}

// PUT /api/products/:id
func (h *ProductFormHandler) Update(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := productID(c)
	if !ok {
		return
	}
	payload, ok := h.readPayload(c)
	if !ok {
		return
	}
	f, err := aggregates.LoadProductForm(ctx, h.forms, id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	h.submit(c, f, payload, &id)
}

// GET /api/products/:id/form
func (h *ProductFormHandler) Form(c *gin.Context) {
	ctx := c.Request.Context()
	id, ok := productID(c)
	if !ok {
		return
	}
	f, err := aggregates.LoadProductForm(ctx, h.forms, id)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	view, err := formView(ctx, f)
	if err != nil {
		response.RespondAggregateError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"form": view})
}

// GET /api/parcels/new-row
func (h *ProductFormHandler) NewRow(c *gin.Context) {
	key := forms.NewPendingKey()
	response.RespondOK(c, gin.H{
		"row": parcelRowView{
			Key:    key,
			Kind:   key.Kind().String(),
			Parcel: domain.NewParcel(),
			Errors: []string{},
		},
		"placeholder": forms.PlaceholderToken,
	})
}

// GET /api/products/drafts/:token
func (h *ProductFormHandler) Draft(c *gin.Context) {
	d, err := h.drafts.Get(c.Request.Context(), c.Param("token"))
	switch {
	case errors.Is(err, drafts.ErrDisabled):
		response.RespondError(c, http.StatusNotImplemented, "drafts_disabled", err)
		return
	case errors.Is(err, drafts.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
		return
	case err != nil:
		h.log.Error("draft lookup failed", append(ctxutil.LogFields(c.Request.Context()), "error", err)...)
		response.RespondError(c, http.StatusInternalServerError, "internal", errors.New("internal error"))
		return
	}
	response.RespondOK(c, gin.H{"draft": d})
}

func (h *ProductFormHandler) submit(c *gin.Context, f *aggregates.ProductForm, payload forms.Payload, id *uuid.UUID) {
	ctx := c.Request.Context()
	if err := f.Apply(ctx, payload); err != nil {
		response.RespondAggregateError(c, err)
		return
	}

	err := f.ValidateAndSave(ctx)
	if err != nil && (domainagg.IsCode(err, domainagg.CodeContractViolation) || !isFormFailure(err)) {
		response.RespondAggregateError(c, err)
		return
	}
	view, viewErr := formView(ctx, f)
	if viewErr != nil {
		response.RespondAggregateError(c, viewErr)
		return
	}
	if err == nil {
		if id == nil {
			product, _ := f.Parent()
			response.RespondCreated(c, "/api/products/"+product.ID.String()+"/form", gin.H{"form": view})
			return
		}
		response.RespondOK(c, gin.H{"form": view})
		return
	}

	code := string(domainagg.CodeOf(err))
	out := formFailure{
		Error:  response.APIError{Code: code, Message: failureMessage(err)},
		Form:   view,
		Report: f.ErrorReport(),
	}
	out.DraftToken = h.parkDraft(ctx, payload, out.Report, code, id)

	status := response.StatusFor(err)
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	c.JSON(status, out)
}

func (h *ProductFormHandler) parkDraft(ctx context.Context, payload forms.Payload, report forms.Report, code string, id *uuid.UUID) string {
	if !h.drafts.Enabled() {
		return ""
	}
	d := drafts.FromPayload(payload, report, code)
	d.ProductID = id
	token, err := h.drafts.Put(ctx, d)
	if err != nil {
		h.metrics.IncDraft("error")
		h.log.Warn("draft store failed", append(ctxutil.LogFields(ctx), "error", err)...)
		return ""
	}
	h.metrics.IncDraft("stored")
	return token
}

// isFormFailure reports whether err is a validation or save failure the
// client should see together with the form.
func isFormFailure(err error) bool {
	return errors.Is(err, aggregates.ErrFormInvalid) || errors.Is(err, aggregates.ErrSaveFailed)
}

func failureMessage(err error) string {
	if errors.Is(err, aggregates.ErrFormInvalid) {
		return "form has errors"
	}
	return "form could not be saved"
}

func (h *ProductFormHandler) readPayload(c *gin.Context) (forms.Payload, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxFormBytes)
	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.RespondError(c, http.StatusRequestEntityTooLarge, "payload_too_large", err)
		return forms.Payload{}, false
	}

	var payload forms.Payload
	switch {
	case strings.HasPrefix(c.ContentType(), gin.MIMEJSON):
		payload, err = forms.ParseJSON(raw, aggregates.ProductPayloadRoles)
	case len(raw) > 0:
		payload, err = forms.ParseForm(string(raw), aggregates.ProductPayloadRoles)
	default:
		payload, err = forms.ParseForm(c.Request.URL.RawQuery, aggregates.ProductPayloadRoles)
	}
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "malformed_payload", err)
		return forms.Payload{}, false
	}
	return payload, true
}

func productID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param("id")))
	if err != nil || id == uuid.Nil {
		response.RespondError(c, http.StatusNotFound, string(domainagg.CodeNotFound), errors.New("product not found"))
		return uuid.Nil, false
	}
	return id, true
}

func formView(ctx context.Context, f *aggregates.ProductForm) (productFormView, error) {
	product, _ := f.Parent()
	rows, err := f.Rows(ctx)
	if err != nil {
		return productFormView{}, err
	}
	view := productFormView{
		Product: product,
		Errors:  f.ParentErrors().Messages(),
		Parcels: make([]parcelRowView, 0, len(rows)),
	}
	for _, row := range rows {
		view.Parcels = append(view.Parcels, parcelRowView{
			Key:    row.Key,
			Kind:   row.Key.Kind().String(),
			Parcel: row.Entity,
			Errors: row.Errors.Messages(),
		})
	}
	return view, nil
}
