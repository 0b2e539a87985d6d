package validation

import (
	"errors"
	"testing"
)

type sample struct {
	Name   string `validate:"required"`
	Amount string `validate:"required,numeric,nonnegative"`
	Kind   string `validate:"omitempty,oneof=a b"`
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		in      sample
		field   string
		message string
	}{
		{"valid", sample{Name: "x", Amount: "10"}, "", ""},
		{"missing name", sample{Amount: "1"}, "Name", MsgFieldRequired},
		{"non numeric", sample{Name: "x", Amount: "ten"}, "Amount", MsgNotNumeric},
		{"negative", sample{Name: "x", Amount: "-3"}, "Amount", MsgBelowMin},
		{"not allowed", sample{Name: "x", Amount: "1", Kind: "c"}, "Kind", MsgNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.in)
			if tt.field == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			var verr *Error
			if !errors.As(err, &verr) {
				t.Fatalf("expected *Error, got %v", err)
			}
			if verr.Field != tt.field || verr.Message != tt.message {
				t.Fatalf("expected %s/%s, got %s/%s", tt.field, tt.message, verr.Field, verr.Message)
			}
			if !errors.Is(err, ErrInvalid) {
				t.Fatal("expected error to match ErrInvalid")
			}
		})
	}
}

func TestInvalid(t *testing.T) {
	err := Invalid("Capacity", MsgBelowMin)
	if !errors.Is(err, ErrInvalid) {
		t.Fatal("expected ErrInvalid")
	}
	if err.Error() != MsgBelowMin+": Capacity" {
		t.Fatalf("unexpected message %q", err.Error())
	}
}
