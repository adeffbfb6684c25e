package aggregates

import (
	"context"

	"github.com/google/uuid"

	repos "github.com/yungbote/productform-backend/internal/data/repos/catalog"
	types "github.com/yungbote/productform-backend/internal/domain"
	domainagg "github.com/yungbote/productform-backend/internal/domain/aggregates"
	"github.com/yungbote/productform-backend/internal/domain/forms"
	"github.com/yungbote/productform-backend/internal/platform/dbctx"
)

const (
	ProductRole = "Product"
	ParcelRole  = "Parcel"
)

// ProductPayloadRoles names the payload sections of a product form
// submission: `Product[...]` and `Parcels[<rowKey>][...]`.
var ProductPayloadRoles = forms.Roles{Parent: "Product", Children: "Parcels"}

type ProductForm = MultiForm[*types.Product, *types.Parcel]

type ProductFormDeps struct {
	BaseDeps
	Products repos.ProductRepo
	Parcels  repos.ParcelRepo
}

func (d ProductFormDeps) config() MultiFormConfig[*types.Product, *types.Parcel] {
	return MultiFormConfig[*types.Product, *types.Parcel]{
		Contract:   domainagg.ProductFormContract,
		Name:       "catalog.product_form",
		ParentRole: ProductRole,
		ChildRole:  ParcelRole,
		Parents:    productStore{repo: d.Products},
		Children:   parcelStore{repo: d.Parcels},
	}
}

// NewProductForm starts the create path with a fresh product.
func NewProductForm(ctx context.Context, deps ProductFormDeps) (*ProductForm, error) {
	f := NewMultiForm(deps.BaseDeps, deps.config())
	if err := f.SetParent(ctx, forms.EntityHandle(types.NewProduct())); err != nil {
		return nil, err
	}
	return f, nil
}

// LoadProductForm starts the update path from a stored product.
func LoadProductForm(ctx context.Context, deps ProductFormDeps, id uuid.UUID) (*ProductForm, error) {
	op := "catalog.product_form.load"
	if id == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "product id is required", nil)
	}
	p, err := deps.Products.GetByID(dbctx.Context{Ctx: ctx}, id)
	if err != nil {
		return nil, MapError(op, err)
	}
	if p == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "product "+id.String()+" not found", nil)
	}
	f := NewMultiForm(deps.BaseDeps, deps.config())
	if err := f.SetParent(ctx, forms.EntityHandle(p)); err != nil {
		return nil, err
	}
	return f, nil
}

type productStore struct {
	repo repos.ProductRepo
}

func (s productStore) Validate(dbc dbctx.Context, p *types.Product) forms.FieldErrors {
	return s.repo.Validate(dbc, p)
}

func (s productStore) Save(dbc dbctx.Context, p *types.Product, runValidation bool) error {
	return s.repo.Save(dbc, p, runValidation)
}

type parcelStore struct {
	repo repos.ParcelRepo
}

func (parcelStore) New() *types.Parcel { return types.NewParcel() }

func (s parcelStore) FindForParent(dbc dbctx.Context, id, productID uuid.UUID) (*types.Parcel, bool, error) {
	p, err := s.repo.GetByIDForProduct(dbc, id, productID)
	if err != nil || p == nil {
		return nil, false, err
	}
	return p, true, nil
}

func (s parcelStore) ListForParent(dbc dbctx.Context, productID uuid.UUID) ([]*types.Parcel, error) {
	return s.repo.ListByProductID(dbc, productID)
}

func (s parcelStore) Validate(dbc dbctx.Context, p *types.Parcel) forms.FieldErrors {
	return s.repo.Validate(dbc, p)
}

func (s parcelStore) Save(dbc dbctx.Context, p *types.Parcel, runValidation bool) error {
	return s.repo.Save(dbc, p, runValidation)
}
