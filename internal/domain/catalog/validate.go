package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/yungbote/productform-backend/internal/domain/forms"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func rules() *validator.Validate {
	validateOnce.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			return name
		})
		_ = v.RegisterValidation("json_object", isJSONObject)
		validate = v
	})
	return validate
}

func isJSONObject(fl validator.FieldLevel) bool {
	f := fl.Field()
	var raw []byte
	switch f.Kind() {
	case reflect.Slice:
		raw = f.Bytes()
	case reflect.String:
		raw = []byte(f.String())
	default:
		return false
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return true
	}
	var obj map[string]any
	return json.Unmarshal(raw, &obj) == nil
}

// ValidateProduct runs the product rule set.
func ValidateProduct(p *Product) forms.FieldErrors {
	var out forms.FieldErrors
	if p == nil {
		out.Add("", "is missing")
		return out
	}
	appendRuleErrors(&out, rules().Struct(p), nil)
	return out
}

// ValidateParcel runs the parcel rule set. The foreign-key existence rule
// needs storage and is applied by the parcel store.
func ValidateParcel(p *Parcel) forms.FieldErrors {
	var out forms.FieldErrors
	if p == nil {
		out.Add("", "is missing")
		return out
	}
	p.assignErrs.appendTo(&out)
	appendRuleErrors(&out, rules().Struct(p), p.assignErrs.has)
	return out
}

func appendRuleErrors(out *forms.FieldErrors, err error, skip func(string) bool) {
	if err == nil {
		return
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		out.Add("", err.Error())
		return
	}
	for _, fe := range verrs {
		field := fe.Field()
		if skip != nil && skip(field) {
			continue
		}
		out.Add(field, ruleMessage(fe))
	}
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "can't be blank"
	case "max":
		return fmt.Sprintf("is too long (maximum is %s characters)", fe.Param())
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "oneof":
		return "is not included in the list"
	case "json_object":
		return "must be a JSON object"
	default:
		return "is invalid"
	}
}
