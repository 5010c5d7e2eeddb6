package errors

import (
	"errors"
	"testing"
)

func TestErrors_ErrorMethod(t *testing.T) {
	errs := []error{
		&FilterNotFoundError{Name: "f1"},
		&FilterExistsError{Name: "f1"},
		&PendingDeleteError{Name: "f1"},
		&NotProxiedError{Name: "f1"},
		WrapInternal("op", errors.New("boom")),
	}

	for _, e := range errs {
		if e.Error() == "" {
			t.Errorf("Error() returned empty string for %T", e)
		}
	}
}

func TestAsCode(t *testing.T) {
	cases := []struct {
		err  error
		want Code
	}{
		{nil, CodeOK},
		{&FilterNotFoundError{Name: "f1"}, CodePrecondition},
		{&FilterExistsError{Name: "f1"}, CodePrecondition},
		{&PendingDeleteError{Name: "f1"}, CodeConflict},
		{&NotProxiedError{Name: "f1"}, CodeInternal},
		{WrapInternal("op", errors.New("boom")), CodeInternal},
		{errors.New("untyped"), CodeInternal},
	}

	for _, c := range cases {
		if got := AsCode(c.err); got != c.want {
			t.Errorf("AsCode(%v) = %v, want %v", c.err, got, c.want)
		}
	}
}

func TestWrapInternal_Unwraps(t *testing.T) {
	cause := errors.New("underlying failure")
	wrapped := WrapInternal("Create", cause)

	if !errors.Is(wrapped, cause) {
		t.Error("expected WrapInternal's error to unwrap to the original cause")
	}
}
