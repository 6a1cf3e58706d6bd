package errors

import (
	"strings"
	"testing"
)

func TestValidateUserID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"Valid", "alice", false},
		{"ValidWithDots", "alice.b-42", false},
		{"Empty", "", true},
		{"ControlCharacter", "ali\x01ce", true},
		{"Newline", "alice\n", true},
		{"LeadingSpace", " alice", true},
		{"TrailingSpace", "alice ", true},
		{"TooLong", strings.Repeat("a", 257), true},
		{"MaxLength", strings.Repeat("a", 256), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUserID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateUserID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
			if err != nil && GetCode(err) != ErrCodeInvalidUser {
				t.Errorf("code = %s, want %s", GetCode(err), ErrCodeInvalidUser)
			}
		})
	}
}

func TestValidateNetworkPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{"Valid", "networks/q3.json", false},
		{"Empty", "", true},
		{"Traversal", "../secrets.json", true},
		{"NullByte", "net\x00.json", true},
		{"TooLong", strings.Repeat("a", 501), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNetworkPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateNetworkPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestValidateProbability(t *testing.T) {
	for _, p := range []float64{0, 0.5, 1} {
		if err := ValidateProbability(p); err != nil {
			t.Errorf("ValidateProbability(%v) = %v, want nil", p, err)
		}
	}
	for _, p := range []float64{-0.01, 1.01} {
		if err := ValidateProbability(p); err == nil {
			t.Errorf("ValidateProbability(%v) = nil, want error", p)
		}
	}
}
