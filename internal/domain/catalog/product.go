package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/productform-backend/internal/domain/forms"
)

type Product struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string         `gorm:"column:name;not null" json:"name" validate:"required,max=255"`
	Description string         `gorm:"column:description;type:text" json:"description"`
	Metadata    datatypes.JSON `gorm:"column:metadata" json:"metadata" validate:"json_object"`
	CreatedAt   time.Time      `gorm:"not null" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

// NewProduct returns a product seeded with default attribute values.
func NewProduct() *Product {
	return &Product{Metadata: datatypes.JSON([]byte("{}"))}
}

func (p *Product) GetID() uuid.UUID   { return p.ID }
func (p *Product) SetID(id uuid.UUID) { p.ID = id }

// Assign merges submitted attributes. Unknown attributes and the id are ignored.
func (p *Product) Assign(attrs forms.Attributes) {
	for _, name := range attrs.Names() {
		v := attrs[name]
		switch name {
		case "name":
			p.Name = strings.TrimSpace(v)
		case "description":
			p.Description = v
		case "metadata":
			if strings.TrimSpace(v) == "" {
				p.Metadata = datatypes.JSON([]byte("{}"))
				continue
			}
			p.Metadata = datatypes.JSON([]byte(v))
		}
	}
}
