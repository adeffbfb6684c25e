package forms

import "strings"

// FieldError is one field-level validation message. Field is empty for
// entity-wide messages.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (e FieldError) String() string {
	if e.Field == "" {
		return e.Message
	}
	return humanize(e.Field) + " " + e.Message
}

type FieldErrors []FieldError

func (fe *FieldErrors) Add(field, message string) {
	*fe = append(*fe, FieldError{Field: strings.TrimSpace(field), Message: strings.TrimSpace(message)})
}

func (fe FieldErrors) Empty() bool { return len(fe) == 0 }

// On returns the messages recorded for one field.
func (fe FieldErrors) On(field string) []string {
	var out []string
	for _, e := range fe {
		if e.Field == field {
			out = append(out, e.Message)
		}
	}
	return out
}

// Messages returns full messages in recording order.
func (fe FieldErrors) Messages() []string {
	out := make([]string, 0, len(fe))
	for _, e := range fe {
		out = append(out, e.String())
	}
	return out
}

func humanize(field string) string {
	s := strings.TrimSuffix(field, "_id")
	s = strings.ReplaceAll(s, "_", " ")
	if s == "" {
		return field
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
