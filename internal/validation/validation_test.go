package validation

import (
	"errors"
	"testing"
)

func TestRequireEmail(t *testing.T) {
	tests := []struct {
		name  string
		email string
		want  error
	}{
		{name: "valid", email: "user@example.com", want: nil},
		{name: "blank", email: "", want: ErrBlankField},
		{name: "spaces only", email: "   ", want: ErrBlankField},
		{name: "no at sign", email: "user.example.com", want: ErrInvalidEmail},
		{name: "display name form", email: "User <user@example.com>", want: ErrInvalidEmail},
		{name: "trailing garbage", email: "user@example.com extra", want: ErrInvalidEmail},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RequireEmail(tt.email); !errors.Is(got, tt.want) {
				t.Errorf("RequireEmail(%q) = %v, want %v", tt.email, got, tt.want)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	if err := Require("value"); err != nil {
		t.Errorf("Require(\"value\") = %v, want nil", err)
	}
	if err := Require("  "); !errors.Is(err, ErrBlankField) {
		t.Errorf("Require(\"  \") = %v, want ErrBlankField", err)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{name: "positive", value: "1280", want: 1280},
		{name: "with spaces", value: " 42 ", want: 42},
		{name: "zero", value: "0", wantErr: true},
		{name: "negative", value: "-5", wantErr: true},
		{name: "not a number", value: "12.5", wantErr: true},
		{name: "empty", value: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseAmount(tt.value)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidAmount) {
					t.Errorf("ParseAmount(%q) err = %v, want ErrInvalidAmount", tt.value, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseAmount(%q) error: %v", tt.value, err)
			}
			if got != tt.want {
				t.Errorf("ParseAmount(%q) = %d, want %d", tt.value, got, tt.want)
			}
		})
	}
}
