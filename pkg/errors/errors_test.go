package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeInvalidUser, "invalid user id: %s", "x\n")

	if err.Code != ErrCodeInvalidUser {
		t.Errorf("Code = %s, want %s", err.Code, ErrCodeInvalidUser)
	}
	if want := "INVALID_USER: invalid user id: x\n"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestWrap(t *testing.T) {
	cause := stderrors.New("file missing")
	err := Wrap(ErrCodeInvalidNetwork, cause, "load %s", "net.json")

	if !stderrors.Is(err, cause) {
		t.Error("wrapped error should match cause via errors.Is")
	}
	if want := "INVALID_NETWORK: load net.json: file missing"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code Code
		want bool
	}{
		{"MatchingCode", New(ErrCodeUnknownUser, "nope"), ErrCodeUnknownUser, true},
		{"DifferentCode", New(ErrCodeUnknownUser, "nope"), ErrCodeNotFound, false},
		{"PlainError", stderrors.New("plain"), ErrCodeUnknownUser, false},
		{"WrappedInFmt", fmt.Errorf("outer: %w", New(ErrCodeInvalidTarget, "neg")), ErrCodeInvalidTarget, true},
		{"Nil", nil, ErrCodeUnknownUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.want {
				t.Errorf("Is = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	if got := GetCode(New(ErrCodeInvalidCurve, "bad curve")); got != ErrCodeInvalidCurve {
		t.Errorf("GetCode = %s, want %s", got, ErrCodeInvalidCurve)
	}
	if got := GetCode(stderrors.New("plain")); got != "" {
		t.Errorf("GetCode = %s, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeNotFound, "no such report")); got != "no such report" {
		t.Errorf("UserMessage = %q, want %q", got, "no such report")
	}
	if got := UserMessage(stderrors.New("plain failure")); got != "plain failure" {
		t.Errorf("UserMessage = %q, want %q", got, "plain failure")
	}
}
