package catalog

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/productform-backend/internal/domain"
	domaincat "github.com/yungbote/productform-backend/internal/domain/catalog"
	"github.com/yungbote/productform-backend/internal/domain/forms"
	"github.com/yungbote/productform-backend/internal/platform/dbctx"
	"github.com/yungbote/productform-backend/internal/platform/logger"
)

type ParcelRepo interface {
	GetByIDForProduct(dbc dbctx.Context, id, productID uuid.UUID) (*types.Parcel, error)
	ListByProductID(dbc dbctx.Context, productID uuid.UUID) ([]*types.Parcel, error)
	Validate(dbc dbctx.Context, p *types.Parcel) forms.FieldErrors
	Save(dbc dbctx.Context, p *types.Parcel, runValidation bool) error
}

type parcelRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewParcelRepo(db *gorm.DB, log *logger.Logger) ParcelRepo {
	return &parcelRepo{db: db, log: log.With("repo", "ParcelRepo")}
}

// GetByIDForProduct returns nil unless a parcel with id belongs to productID.
func (r *parcelRepo) GetByIDForProduct(dbc dbctx.Context, id, productID uuid.UUID) (*types.Parcel, error) {
	if id == uuid.Nil || productID == uuid.Nil {
		return nil, nil
	}
	var out types.Parcel
	err := dbc.DB(r.db).
		Model(&types.Parcel{}).
		Where("id = ? AND product_id = ?", id, productID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *parcelRepo) ListByProductID(dbc dbctx.Context, productID uuid.UUID) ([]*types.Parcel, error) {
	out := []*types.Parcel{}
	if productID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Model(&types.Parcel{}).
		Where("product_id = ?", productID).
		Order("created_at ASC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// Validate runs the parcel rule set plus the product reference check.
func (r *parcelRepo) Validate(dbc dbctx.Context, p *types.Parcel) forms.FieldErrors {
	errs := domaincat.ValidateParcel(p)
	if p == nil || p.ProductID == uuid.Nil || len(errs.On("product_id")) > 0 {
		return errs
	}
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.Product{}).
		Where("id = ?", p.ProductID).
		Count(&n).Error; err != nil {
		r.log.Warn("product reference check failed", "product_id", p.ProductID.String(), "error", err)
		errs.Add("product_id", "could not be verified")
		return errs
	}
	if n == 0 {
		errs.Add("product_id", "must reference an existing product")
	}
	return errs
}

// Save inserts a parcel without an id (assigning one) and updates otherwise.
func (r *parcelRepo) Save(dbc dbctx.Context, p *types.Parcel, runValidation bool) error {
	if p == nil {
		return fmt.Errorf("nil parcel")
	}
	if runValidation {
		if errs := r.Validate(dbc, p); !errs.Empty() {
			return &InvalidRecordError{Table: types.Parcel{}.TableName(), Errors: errs}
		}
	}
	txx := dbc.DB(r.db)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
		if err := txx.Create(p).Error; err != nil {
			p.ID = uuid.Nil
			return err
		}
		return nil
	}
	return txx.Save(p).Error
}
