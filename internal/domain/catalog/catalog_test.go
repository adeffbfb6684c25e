package catalog

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/yungbote/productform-backend/internal/domain/forms"
)

func TestNewParcelSeedsDefaults(t *testing.T) {
	p := NewParcel()
	p.Assign(forms.Attributes{"code": "mouse", "width": "20", "height": "10", "depth": "20"})
	if p.Quantity != DefaultParcelQuantity || p.Unit != DefaultParcelUnit {
		t.Fatalf("defaults lost: quantity=%d unit=%q", p.Quantity, p.Unit)
	}
	if errs := ValidateParcel(p); !errs.Empty() {
		t.Fatalf("expected valid parcel, got=%v", errs.Messages())
	}
}

func TestParcelAssignIgnoresID(t *testing.T) {
	p := NewParcel()
	p.Assign(forms.Attributes{"id": uuid.NewString(), "code": "x"})
	if p.ID != uuid.Nil {
		t.Fatalf("id must not be assignable, got=%s", p.ID)
	}
}

func TestValidateParcelRequiresCode(t *testing.T) {
	p := NewParcel()
	p.Assign(forms.Attributes{"code": "  ", "width": "20", "height": "10", "depth": "20"})
	errs := ValidateParcel(p)
	if got := errs.On("code"); len(got) != 1 || got[0] != "can't be blank" {
		t.Fatalf("code errors: %v", errs.Messages())
	}
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got=%v", errs.Messages())
	}
}

func TestValidateParcelReportsUnparsableNumbersOnce(t *testing.T) {
	p := NewParcel()
	p.Assign(forms.Attributes{"code": "box", "width": "wide", "height": "10", "depth": "20"})
	errs := ValidateParcel(p)
	got := errs.On("width")
	if len(got) != 1 || got[0] != "is not a number" {
		t.Fatalf("width errors: %v", errs.Messages())
	}

	p.Assign(forms.Attributes{"width": "7"})
	if errs := ValidateParcel(p); !errs.Empty() {
		t.Fatalf("reassigning should clear parse error, got=%v", errs.Messages())
	}
}

func TestValidateParcelRules(t *testing.T) {
	p := NewParcel()
	p.Assign(forms.Attributes{
		"code":     strings.Repeat("x", 65),
		"width":    "0",
		"height":   "-1",
		"depth":    "3",
		"quantity": "0",
		"unit":     "furlong",
	})
	errs := ValidateParcel(p)
	for _, field := range []string{"code", "width", "height", "quantity", "unit"} {
		if len(errs.On(field)) == 0 {
			t.Fatalf("expected error on %s, got=%v", field, errs.Messages())
		}
	}
	if len(errs.On("depth")) != 0 {
		t.Fatalf("depth should be valid, got=%v", errs.On("depth"))
	}
}

func TestParcelAssignProductID(t *testing.T) {
	p := NewParcel()
	p.Assign(forms.Attributes{"product_id": "nope"})
	if got := ValidateParcel(p).On("product_id"); len(got) != 1 || got[0] != "is invalid" {
		t.Fatalf("product_id errors: %v", got)
	}
	id := uuid.New()
	p.Assign(forms.Attributes{"product_id": id.String()})
	if p.ProductID != id || len(ValidateParcel(p).On("product_id")) != 0 {
		t.Fatalf("product_id not assigned: %s", p.ProductID)
	}
}

func TestValidateProduct(t *testing.T) {
	p := NewProduct()
	if got := ValidateProduct(p).On("name"); len(got) != 1 {
		t.Fatalf("expected name error, got=%v", got)
	}
	p.Assign(forms.Attributes{"name": "Keyboard and Mouse", "metadata": `{"color":"black"}`})
	if errs := ValidateProduct(p); !errs.Empty() {
		t.Fatalf("expected valid product, got=%v", errs.Messages())
	}
	p.Assign(forms.Attributes{"metadata": `[1,2]`})
	if got := ValidateProduct(p).On("metadata"); len(got) != 1 || got[0] != "must be a JSON object" {
		t.Fatalf("metadata errors: %v", got)
	}
	p.Assign(forms.Attributes{"metadata": ""})
	if string(p.Metadata) != "{}" {
		t.Fatalf("blank metadata should reset to {}, got=%s", p.Metadata)
	}
}
