package aggregates

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	domainagg "github.com/yungbote/productform-backend/internal/domain/aggregates"
	"github.com/yungbote/productform-backend/internal/domain/forms"
	"github.com/yungbote/productform-backend/internal/platform/ctxutil"
	"github.com/yungbote/productform-backend/internal/platform/dbctx"
)

const tracerName = "github.com/yungbote/productform-backend/internal/data/aggregates"

// Record is an entity the coordinator can assign submitted attributes to.
type Record interface {
	GetID() uuid.UUID
	SetID(id uuid.UUID)
	Assign(attrs forms.Attributes)
}

// ChildRecord is a Record that references exactly one parent.
type ChildRecord interface {
	Record
	GetParentID() uuid.UUID
	SetParentID(id uuid.UUID)
}

// ParentStore is the persistence collaborator for the parent entity.
type ParentStore[P Record] interface {
	Validate(dbc dbctx.Context, p P) forms.FieldErrors
	Save(dbc dbctx.Context, p P, runValidation bool) error
}

// ChildStore is the persistence collaborator for child rows. New returns an
// entity seeded with the type's default attribute values.
type ChildStore[C ChildRecord] interface {
	New() C
	FindForParent(dbc dbctx.Context, id, parentID uuid.UUID) (C, bool, error)
	ListForParent(dbc dbctx.Context, parentID uuid.UUID) ([]C, error)
	Validate(dbc dbctx.Context, c C) forms.FieldErrors
	Save(dbc dbctx.Context, c C, runValidation bool) error
}

type MultiFormConfig[P Record, C ChildRecord] struct {
	Contract domainagg.Contract
	// Name prefixes operation names in logs, metrics and spans.
	Name string
	// ParentRole labels the parent in error reports, e.g. "Product".
	ParentRole string
	// ChildRole prefixes child labels in error reports, e.g. "Parcel".
	ChildRole string
	Parents   ParentStore[P]
	Children  ChildStore[C]
}

// Child is one resolved row.
type Child[C ChildRecord] struct {
	Key    forms.RowKey
	Entity C
	Errors forms.FieldErrors
}

// MultiForm coordinates one parent and its keyed child rows through
// load, validation and a single all-or-nothing save.
//
// A MultiForm serves one caller for one save attempt and is not safe for
// concurrent use.
type MultiForm[P Record, C ChildRecord] struct {
	deps BaseDeps
	cfg  MultiFormConfig[P, C]

	parent     P
	hasParent  bool
	parentErrs forms.FieldErrors

	rows    []Child[C]
	rowsSet bool

	state   forms.State
	invalid bool
}

func NewMultiForm[P Record, C ChildRecord](deps BaseDeps, cfg MultiFormConfig[P, C]) *MultiForm[P, C] {
	deps = deps.withDefaults()
	cfg.Name = strings.TrimSpace(cfg.Name)
	if cfg.Name == "" {
		cfg.Name = "aggregate.multi_form"
	}
	deps.Log = deps.Log.With("aggregate", cfg.Name)
	return &MultiForm[P, C]{deps: deps, cfg: cfg}
}

func (f *MultiForm[P, C]) Contract() domainagg.Contract { return f.cfg.Contract }

func (f *MultiForm[P, C]) op(name string) string {
	return f.cfg.Name + "." + name
}

func (f *MultiForm[P, C]) violation(ctx context.Context, op, msg string) error {
	err := contractViolation(op, msg)
	f.deps.Log.Error("aggregate contract violation", append(ctxutil.LogFields(ctx), "op", op, "error", err)...)
	return err
}

// Parent returns the held parent and whether one is held.
func (f *MultiForm[P, C]) Parent() (P, bool) { return f.parent, f.hasParent }

func (f *MultiForm[P, C]) ParentErrors() forms.FieldErrors { return f.parentErrs }

func (f *MultiForm[P, C]) State() forms.State { return f.state }

// Invalid reports whether the last ValidateAndSave was blocked by
// validation.
func (f *MultiForm[P, C]) Invalid() bool { return f.invalid }

// SetParent replaces the held parent with an entity handle, or merges an
// attribute update onto the held parent. An attribute update with no parent
// held is a contract violation.
func (f *MultiForm[P, C]) SetParent(ctx context.Context, in forms.Input[P]) error {
	op := f.op("set_parent")
	if f.state == forms.StatePersisted {
		return f.violation(ctx, op, "form already saved")
	}
	if p, ok := in.Entity(); ok {
		f.parent = p
		f.hasParent = true
		f.parentErrs = nil
		f.state = forms.StateUnvalidated
		return nil
	}
	attrs, ok := in.Attributes()
	if !ok {
		return f.violation(ctx, op, "empty parent input")
	}
	if !f.hasParent {
		return f.violation(ctx, op, "attribute update without a parent")
	}
	f.parent.Assign(attrs)
	f.state = forms.StateUnvalidated
	return nil
}

// SetChildren rebuilds the child mapping from rows in order. The placeholder
// row is dropped. An attribute row whose key is the id of a child of the
// current parent updates that child; any other key yields a new child seeded
// with defaults. The previous mapping is replaced, never merged. A repeated
// key keeps its first position and later input is applied on top.
func (f *MultiForm[P, C]) SetChildren(ctx context.Context, rows []forms.Row[C]) error {
	op := f.op("set_children")
	if f.state == forms.StatePersisted {
		return f.violation(ctx, op, "form already saved")
	}
	if !f.hasParent {
		return f.violation(ctx, op, "children set without a parent")
	}
	dbc := dbctx.Context{Ctx: ctx}
	parentID := f.parent.GetID()

	built := make([]Child[C], 0, len(rows))
	index := make(map[string]int, len(rows))
	for _, row := range rows {
		if row.Key.IsPlaceholder() {
			continue
		}
		if strings.TrimSpace(row.Key.String()) == "" {
			return f.violation(ctx, op, "row with empty key")
		}
		pos, seen := index[row.Key.String()]

		if entity, ok := row.Input.Entity(); ok {
			if seen {
				built[pos].Entity = entity
				continue
			}
			index[row.Key.String()] = len(built)
			built = append(built, Child[C]{Key: row.Key, Entity: entity})
			continue
		}

		attrs, ok := row.Input.Attributes()
		if !ok {
			return f.violation(ctx, op, "row "+row.Key.String()+" has empty input")
		}
		if seen {
			built[pos].Entity.Assign(attrs)
			continue
		}
		base, err := f.resolveChild(dbc, row.Key, parentID)
		if err != nil {
			return MapError(op, err)
		}
		base.Assign(attrs)
		index[row.Key.String()] = len(built)
		built = append(built, Child[C]{Key: row.Key, Entity: base})
	}

	f.rows = built
	f.rowsSet = true
	f.state = forms.StateUnvalidated
	return nil
}

func (f *MultiForm[P, C]) resolveChild(dbc dbctx.Context, key forms.RowKey, parentID uuid.UUID) (C, error) {
	if id, ok := key.ID(); ok && parentID != uuid.Nil {
		existing, found, err := f.cfg.Children.FindForParent(dbc, id, parentID)
		if err != nil {
			var zero C
			return zero, err
		}
		if found {
			return existing, nil
		}
	}
	return f.cfg.Children.New(), nil
}

// Apply feeds a decoded payload to the form. Absent sections leave the held
// parent or rows untouched; a present children section replaces all rows.
func (f *MultiForm[P, C]) Apply(ctx context.Context, payload forms.Payload) error {
	if payload.HasParent {
		if err := f.SetParent(ctx, forms.AttributeUpdate[P](payload.Parent)); err != nil {
			return err
		}
	}
	if !payload.HasChildren {
		return nil
	}
	rows := make([]forms.Row[C], 0, len(payload.Children))
	for _, c := range payload.Children {
		rows = append(rows, forms.AttributeRow[C](c.Key, c.Attrs))
	}
	return f.SetChildren(ctx, rows)
}

// Rows returns the child rows in order. Before SetChildren has run it loads
// the persisted children of a persisted parent once and caches them.
func (f *MultiForm[P, C]) Rows(ctx context.Context) ([]Child[C], error) {
	if !f.rowsSet {
		if err := f.loadRows(ctx); err != nil {
			return nil, err
		}
	}
	out := make([]Child[C], len(f.rows))
	copy(out, f.rows)
	return out, nil
}

func (f *MultiForm[P, C]) loadRows(ctx context.Context) error {
	var rows []Child[C]
	if f.hasParent && f.parent.GetID() != uuid.Nil {
		children, err := f.cfg.Children.ListForParent(dbctx.Context{Ctx: ctx}, f.parent.GetID())
		if err != nil {
			return MapError(f.op("load_children"), err)
		}
		rows = make([]Child[C], 0, len(children))
		for _, c := range children {
			rows = append(rows, Child[C]{Key: forms.PersistedKey(c.GetID()), Entity: c})
		}
	}
	f.rows = rows
	f.rowsSet = true
	return nil
}

// ValidateAndSave validates the parent and every row, then saves them in one
// transaction: the parent first, then each row in order with its parent id
// set to the saved parent's id. Field errors stay on the form for
// ErrorReport.
//
// A validation failure returns CodeValidation wrapping ErrFormInvalid and
// touches no storage. A storage failure returns its mapped code wrapping
// ErrSaveFailed; the transaction is rolled back and ids assigned during the
// attempt are cleared again.
func (f *MultiForm[P, C]) ValidateAndSave(ctx context.Context) error {
	op := f.op("validate_and_save")
	ctx, span := otel.Tracer(tracerName).Start(ctx, op)
	defer span.End()

	if !f.hasParent {
		err := f.violation(ctx, op, "validate without a parent")
		span.SetStatus(codes.Error, "contract violation")
		return err
	}
	if f.state == forms.StatePersisted {
		err := f.violation(ctx, op, "form already saved")
		span.SetStatus(codes.Error, "contract violation")
		return err
	}
	if !f.rowsSet {
		if err := f.loadRows(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "load children")
			return err
		}
	}
	span.SetAttributes(attribute.Int("form.rows", len(f.rows)))

	if !f.validate(ctx) {
		f.invalid = true
		span.SetStatus(codes.Error, "validation failed")
		return domainagg.Wrap(domainagg.CodeValidation, op, ErrFormInvalid)
	}
	f.invalid = false
	f.state = forms.StateValidated

	if err := f.persist(ctx, op); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
		f.deps.Log.Warn("form save failed",
			append(ctxutil.LogFields(ctx), "op", op, "code", string(domainagg.CodeOf(err)), "error", err)...)
		return err
	}
	span.SetAttributes(attribute.String("form.parent_id", f.parent.GetID().String()))
	return nil
}

func (f *MultiForm[P, C]) validate(ctx context.Context) bool {
	start := time.Now()
	dbc := dbctx.Context{Ctx: ctx}

	failing := 0
	f.parentErrs = f.cfg.Parents.Validate(dbc, f.parent)
	if !f.parentErrs.Empty() {
		failing++
	}
	for i := range f.rows {
		f.rows[i].Errors = f.cfg.Children.Validate(dbc, f.rows[i].Entity)
		if !f.rows[i].Errors.Empty() {
			failing++
		}
	}

	name := f.op("validate")
	status := "success"
	if failing > 0 {
		status = string(domainagg.CodeValidation)
	}
	f.deps.Hooks.ObserveValidation(name, 1+len(f.rows), failing)
	f.deps.Hooks.ObserveOperation(name, status, time.Since(start))
	return failing == 0
}

type identitySnapshot struct {
	id       uuid.UUID
	parentID uuid.UUID
}

func (f *MultiForm[P, C]) persist(ctx context.Context, op string) error {
	if f.state != forms.StateValidated {
		return f.violation(ctx, op, "save requested before validation")
	}

	parentID := f.parent.GetID()
	snaps := make([]identitySnapshot, len(f.rows))
	for i, row := range f.rows {
		snaps[i] = identitySnapshot{id: row.Entity.GetID(), parentID: row.Entity.GetParentID()}
	}
	committed := false
	defer func() {
		if committed {
			return
		}
		f.parent.SetID(parentID)
		for i, row := range f.rows {
			row.Entity.SetID(snaps[i].id)
			row.Entity.SetParentID(snaps[i].parentID)
		}
		f.state = forms.StateUnvalidated
	}()

	err := executeWrite(ctx, f.deps, op, func(dbc dbctx.Context) error {
		if err := f.cfg.Parents.Save(dbc, f.parent, false); err != nil {
			return errors.Join(ErrSaveFailed, err)
		}
		id := f.parent.GetID()
		for _, row := range f.rows {
			if err := dbc.Ctx.Err(); err != nil {
				return errors.Join(ErrSaveFailed, err)
			}
			row.Entity.SetParentID(id)
			if err := f.cfg.Children.Save(dbc, row.Entity, false); err != nil {
				return errors.Join(ErrSaveFailed, err)
			}
		}
		return nil
	})
	if err != nil {
		if !errors.Is(err, ErrSaveFailed) {
			err = domainagg.Wrap(domainagg.CodeOf(err), op, errors.Join(ErrSaveFailed, err))
		}
		return err
	}
	committed = true
	f.state = forms.StatePersisted
	return nil
}

// ErrorReport lists every held entity in order: the parent first, then each
// row. Valid entities carry an empty message list.
func (f *MultiForm[P, C]) ErrorReport() forms.Report {
	out := make(forms.Report, 0, 1+len(f.rows))
	if f.hasParent {
		out = append(out, forms.ReportEntry{
			Label:    f.cfg.ParentRole,
			Role:     f.cfg.ParentRole,
			Messages: f.parentErrs.Messages(),
		})
	}
	for _, row := range f.rows {
		key := row.Key
		out = append(out, forms.ReportEntry{
			Label:    forms.ChildLabel(f.cfg.ChildRole, key),
			Role:     f.cfg.ChildRole,
			Key:      &key,
			Messages: row.Errors.Messages(),
		})
	}
	return out
}
