package aggregates

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorFormatting(t *testing.T) {
	cases := []struct {
		err  *Error
		want string
	}{
		{err: &Error{Code: CodeValidation, Op: "op", Message: "bad"}, want: "op: bad (validation)"},
		{err: &Error{Code: CodeInternal, Op: "op"}, want: "op (internal)"},
		{err: &Error{Code: CodeConflict, Message: "stale"}, want: "stale (conflict)"},
		{err: &Error{Code: CodeRetryable}, want: "retryable"},
	}
	for _, tc := range cases {
		if got := tc.err.Error(); got != tc.want {
			t.Fatalf("Error(): want=%q got=%q", tc.want, got)
		}
	}
}

func TestIsCodeSeesThroughWrapping(t *testing.T) {
	cause := errors.New("boom")
	err := fmt.Errorf("outer: %w", NewError(CodeContractViolation, "op", "misuse", cause))
	if !IsCode(err, CodeContractViolation) {
		t.Fatalf("expected contract violation code, got=%q", CodeOf(err))
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected cause to unwrap")
	}
	if CodeOf(cause) != "" {
		t.Fatalf("plain errors carry no code")
	}
	if Wrap(CodeInternal, "op", nil) != nil {
		t.Fatalf("Wrap(nil) must be nil")
	}
}
