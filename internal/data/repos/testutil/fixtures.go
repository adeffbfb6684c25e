package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/productform-backend/internal/domain"
)

func SeedProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, name string) *types.Product {
	tb.Helper()
	p := types.NewProduct()
	p.ID = uuid.New()
	p.Name = name
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	return p
}

func SeedParcel(tb testing.TB, ctx context.Context, tx *gorm.DB, productID uuid.UUID, code string, width int) *types.Parcel {
	tb.Helper()
	p := types.NewParcel()
	p.ID = uuid.New()
	p.ProductID = productID
	p.Code = code
	p.Width = width
	p.Height = 5
	p.Depth = 20
	if err := tx.WithContext(ctx).Create(p).Error; err != nil {
		tb.Fatalf("seed parcel: %v", err)
	}
	return p
}

func LoadParcel(tb testing.TB, ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Parcel, bool) {
	tb.Helper()
	var p types.Parcel
	res := tx.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&p)
	if res.Error != nil {
		tb.Fatalf("load parcel: %v", res.Error)
	}
	return &p, res.RowsAffected == 1
}

func LoadProduct(tb testing.TB, ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Product, bool) {
	tb.Helper()
	var p types.Product
	res := tx.WithContext(ctx).Where("id = ?", id).Limit(1).Find(&p)
	if res.Error != nil {
		tb.Fatalf("load product: %v", res.Error)
	}
	return &p, res.RowsAffected == 1
}

func CountRows(tb testing.TB, ctx context.Context, tx *gorm.DB, model any) int64 {
	tb.Helper()
	var n int64
	if err := tx.WithContext(ctx).Model(model).Count(&n).Error; err != nil {
		tb.Fatalf("count rows: %v", err)
	}
	return n
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }
