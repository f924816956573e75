package core

import (
	"testing"

	"github.com/pkg/errors"
)

func TestValidationError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		wantMsg string
	}{
		{name: "nil inner error", err: NewValidationError(nil), wantMsg: ""},
		{name: "inner error only", err: NewValidationError(errors.New("invalid credentials")), wantMsg: "invalid credentials"},
		{
			name:    "field errors",
			err:     NewValidationError(nil, FieldError{Field: "end_date", Error: "end date must be after the start date"}),
			wantMsg: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vErr, ok := tt.err.(*ValidationError)
			if !ok {
				t.Fatalf("NewValidationError() returned %T, want *ValidationError", tt.err)
			}
			if got := vErr.Error(); got != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", got, tt.wantMsg)
			}
		})
	}
}

func TestIsShutdown(t *testing.T) {
	shutdownErr := NewShutdownError("integrity issue: connection lost")

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "shutdown error", err: shutdownErr, want: true},
		{name: "wrapped shutdown error", err: errors.Wrap(shutdownErr, "handling request"), want: true},
		{name: "ordinary error", err: errors.New("lol"), want: false},
		{name: "validation error", err: NewValidationError(errors.New("lol")), want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsShutdown(tt.err); got != tt.want {
				t.Errorf("IsShutdown() = %v, want %v", got, tt.want)
			}
		})
	}
}
