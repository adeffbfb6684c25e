package catalog

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/productform-backend/internal/domain/forms"
)

const (
	DefaultParcelQuantity = 1
	DefaultParcelUnit     = "cm"
)

type Parcel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`

	Code     string `gorm:"column:code;not null" json:"code" validate:"required,max=64"`
	Width    int    `gorm:"column:width;not null" json:"width" validate:"gt=0"`
	Height   int    `gorm:"column:height;not null" json:"height" validate:"gt=0"`
	Depth    int    `gorm:"column:depth;not null" json:"depth" validate:"gt=0"`
	Quantity int    `gorm:"column:quantity;not null" json:"quantity" validate:"gte=1"`
	Unit     string `gorm:"column:unit;not null" json:"unit" validate:"oneof=mm cm in"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`

	assignErrs assignErrors
}

func (Parcel) TableName() string { return "parcel" }

// NewParcel returns a parcel seeded with default attribute values.
func NewParcel() *Parcel {
	return &Parcel{
		Quantity: DefaultParcelQuantity,
		Unit:     DefaultParcelUnit,
	}
}

func (p *Parcel) GetID() uuid.UUID         { return p.ID }
func (p *Parcel) SetID(id uuid.UUID)       { p.ID = id }
func (p *Parcel) GetParentID() uuid.UUID   { return p.ProductID }
func (p *Parcel) SetParentID(id uuid.UUID) { p.ProductID = id }

// Assign merges submitted attributes. Values that cannot be parsed leave the
// field untouched and are reported by validation.
func (p *Parcel) Assign(attrs forms.Attributes) {
	for _, name := range attrs.Names() {
		v := strings.TrimSpace(attrs[name])
		switch name {
		case "code":
			p.Code = v
		case "width":
			p.assignInt(name, v, &p.Width)
		case "height":
			p.assignInt(name, v, &p.Height)
		case "depth":
			p.assignInt(name, v, &p.Depth)
		case "quantity":
			p.assignInt(name, v, &p.Quantity)
		case "unit":
			p.Unit = strings.ToLower(v)
		case "product_id":
			p.assignErrs.clear(name)
			if v == "" {
				p.ProductID = uuid.Nil
				continue
			}
			id, err := uuid.Parse(v)
			if err != nil {
				p.assignErrs.set(name, "is invalid")
				continue
			}
			p.ProductID = id
		}
	}
}

func (p *Parcel) assignInt(field, raw string, dst *int) {
	p.assignErrs.clear(field)
	if raw == "" {
		*dst = 0
		return
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.assignErrs.set(field, "is not a number")
		return
	}
	*dst = n
}

type assignErrors struct {
	fields []string
	msgs   map[string]string
}

func (a *assignErrors) set(field, msg string) {
	if a.msgs == nil {
		a.msgs = map[string]string{}
	}
	if _, ok := a.msgs[field]; !ok {
		a.fields = append(a.fields, field)
	}
	a.msgs[field] = msg
}

func (a *assignErrors) clear(field string) {
	if _, ok := a.msgs[field]; !ok {
		return
	}
	delete(a.msgs, field)
	for i, f := range a.fields {
		if f == field {
			a.fields = append(a.fields[:i], a.fields[i+1:]...)
			break
		}
	}
}

func (a assignErrors) has(field string) bool {
	_, ok := a.msgs[field]
	return ok
}

func (a assignErrors) appendTo(fe *forms.FieldErrors) {
	for _, f := range a.fields {
		fe.Add(f, a.msgs[f])
	}
}
