package catalog

import (
	"errors"
	"strings"

	"github.com/yungbote/productform-backend/internal/domain/forms"
)

// ErrRecordInvalid is returned by Save when validation is requested and fails.
var ErrRecordInvalid = errors.New("record invalid")

type InvalidRecordError struct {
	Table  string
	Errors forms.FieldErrors
}

func (e *InvalidRecordError) Error() string {
	return e.Table + " invalid: " + strings.Join(e.Errors.Messages(), "; ")
}

func (e *InvalidRecordError) Unwrap() error { return ErrRecordInvalid }
