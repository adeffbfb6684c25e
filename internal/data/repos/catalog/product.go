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

type ProductRepo interface {
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Product, error)
	Exists(dbc dbctx.Context, id uuid.UUID) (bool, error)
	Validate(dbc dbctx.Context, p *types.Product) forms.FieldErrors
	Save(dbc dbctx.Context, p *types.Product, runValidation bool) error
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, log *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: log.With("repo", "ProductRepo")}
}

// GetByID returns nil when no product has the id.
func (r *productRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Product, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Product
	err := dbc.DB(r.db).
		Model(&types.Product{}).
		Where("id = ?", id).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *productRepo) Exists(dbc dbctx.Context, id uuid.UUID) (bool, error) {
	if id == uuid.Nil {
		return false, nil
	}
	var n int64
	if err := dbc.DB(r.db).
		Model(&types.Product{}).
		Where("id = ?", id).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *productRepo) Validate(_ dbctx.Context, p *types.Product) forms.FieldErrors {
	return domaincat.ValidateProduct(p)
}

// Save inserts a product without an id (assigning one) and updates otherwise.
func (r *productRepo) Save(dbc dbctx.Context, p *types.Product, runValidation bool) error {
	if p == nil {
		return fmt.Errorf("nil product")
	}
	if runValidation {
		if errs := r.Validate(dbc, p); !errs.Empty() {
			return &InvalidRecordError{Table: types.Product{}.TableName(), Errors: errs}
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
