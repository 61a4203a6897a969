package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestNew_Error(t *testing.T) {
	err := New(ErrCodeUndefinedTarget, "unknown element %q", "title")
	if want := `UNDEFINED_TARGET: unknown element "title"`; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if err.Message != `unknown element "title"` {
		t.Errorf("Message = %q", err.Message)
	}
}

func TestWrap_Unwrap(t *testing.T) {
	cause := errors.New("required constraint conflicts")
	err := Wrap(ErrCodeInfeasible, cause, "add width of %s", "avatar")

	if want := "INFEASIBLE: add width of avatar: required constraint conflicts"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false")
	}
}

func TestIs(t *testing.T) {
	inner := New(ErrCodeInvalidSyntax, "bad size %q", "3x")

	tests := map[string]struct {
		err  error
		code Code
		want bool
	}{
		"direct":              {inner, ErrCodeInvalidSyntax, true},
		"other code":          {inner, ErrCodeInfeasible, false},
		"wrapped by Wrap":     {Wrap(ErrCodeInvalidScene, inner, "element 2"), ErrCodeInvalidSyntax, true},
		"outer code":          {Wrap(ErrCodeInvalidScene, inner, "element 2"), ErrCodeInvalidScene, true},
		"wrapped by fmt %w":   {fmt.Errorf("load card.yaml: %w", inner), ErrCodeInvalidSyntax, true},
		"plain error":         {errors.New("boom"), ErrCodeInvalidSyntax, false},
		"nil":                 {nil, ErrCodeInvalidSyntax, false},
		"plain cause no code": {Wrap(ErrCodeInternal, errors.New("io"), "x"), ErrCodeInvalidSyntax, false},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is(%v, %s) = %v, want %v", tt.err, tt.code, got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := map[string]struct {
		err  error
		want Code
	}{
		"coded":     {New(ErrCodePassOrder, "arrange before measure"), ErrCodePassOrder},
		"outermost": {Wrap(ErrCodeInvalidScene, New(ErrCodeDuplicateID, "a"), "b"), ErrCodeInvalidScene},
		"fmt wrap":  {fmt.Errorf("x: %w", New(ErrCodeImmutable, "id")), ErrCodeImmutable},
		"plain":     {errors.New("plain"), ""},
		"nil":       {nil, ""},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.want {
				t.Errorf("GetCode() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidPole, "unknown pole %q", "middle")); got != `unknown pole "middle"` {
		t.Errorf("UserMessage(coded) = %q", got)
	}
	if got := UserMessage(errors.New("plain")); got != "plain" {
		t.Errorf("UserMessage(plain) = %q", got)
	}
}
