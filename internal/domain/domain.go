package domain

import (
	"github.com/yungbote/productform-backend/internal/domain/catalog"
)

type Product = catalog.Product
type Parcel = catalog.Parcel

var (
	NewProduct = catalog.NewProduct
	NewParcel  = catalog.NewParcel
)
