package errors

import (
	"errors"
	"testing"
)

func TestNew(t *testing.T) {
	err := New(ErrCodeMissingIdentity, "no artifactId in %s", "pom.xml")

	if err.Code != ErrCodeMissingIdentity {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeMissingIdentity)
	}

	if err.Message != "no artifactId in pom.xml" {
		t.Errorf("Message = %v, want %v", err.Message, "no artifactId in pom.xml")
	}

	expected := "MISSING_IDENTITY: no artifactId in pom.xml"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestWrap(t *testing.T) {
	cause := errors.New("permission denied")
	err := Wrap(ErrCodeUnreadableFile, cause, "read pom.xml")

	if err.Code != ErrCodeUnreadableFile {
		t.Errorf("Code = %v, want %v", err.Code, ErrCodeUnreadableFile)
	}

	if errors.Unwrap(err) != cause {
		t.Errorf("Unwrap() = %v, want %v", errors.Unwrap(err), cause)
	}

	if !errors.Is(err, cause) {
		t.Error("errors.Is(err, cause) = false, want true")
	}

	expected := "UNREADABLE_FILE: read pom.xml: permission denied"
	if err.Error() != expected {
		t.Errorf("Error() = %v, want %v", err.Error(), expected)
	}
}

func TestIs(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     Code
		expected bool
	}{
		{
			name:     "matching code",
			err:      New(ErrCodeCyclicParentChain, "test"),
			code:     ErrCodeCyclicParentChain,
			expected: true,
		},
		{
			name:     "non-matching code",
			err:      New(ErrCodeCyclicParentChain, "test"),
			code:     ErrCodeNetwork,
			expected: false,
		},
		{
			name:     "outermost code wins",
			err:      Wrap(ErrCodeNetwork, New(ErrCodeNotFound, "inner"), "outer"),
			code:     ErrCodeNetwork,
			expected: true,
		},
		{
			name:     "non-Error type",
			err:      errors.New("plain error"),
			code:     ErrCodeInvalidInput,
			expected: false,
		},
		{
			name:     "nil error",
			err:      nil,
			code:     ErrCodeInvalidInput,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Is(tt.err, tt.code); got != tt.expected {
				t.Errorf("Is() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected Code
	}{
		{"Error type", New(ErrCodeParentPathUnresolvable, "test"), ErrCodeParentPathUnresolvable},
		{"plain error", errors.New("plain"), ""},
		{"nil", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := GetCode(tt.err); got != tt.expected {
				t.Errorf("GetCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestUserMessage(t *testing.T) {
	if got := UserMessage(New(ErrCodeInvalidConfig, "workers must be positive")); got != "workers must be positive" {
		t.Errorf("UserMessage() = %q", got)
	}
	if got := UserMessage(errors.New("plain error")); got != "plain error" {
		t.Errorf("UserMessage() = %q", got)
	}
}

func TestFileScoped(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{New(ErrCodeUnreadableFile, "x"), true},
		{New(ErrCodeMalformedContent, "x"), true},
		{New(ErrCodeMissingIdentity, "x"), true},
		{New(ErrCodeCyclicParentChain, "x"), true},
		{New(ErrCodeInvalidPath, "x"), true},
		{New(ErrCodeParentPathUnresolvable, "x"), false},
		{New(ErrCodeInvalidConfig, "x"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		if got := FileScoped(tt.err); got != tt.want {
			t.Errorf("FileScoped(%v) = %v, want %v", tt.err, got, tt.want)
		}
	}
}

func TestErrorCodesAreUnique(t *testing.T) {
	codes := []Code{
		ErrCodeUnreadableFile,
		ErrCodeMalformedContent,
		ErrCodeMissingIdentity,
		ErrCodeParentPathUnresolvable,
		ErrCodeCyclicParentChain,
		ErrCodeInvalidInput,
		ErrCodeInvalidPath,
		ErrCodeInvalidConfig,
		ErrCodeInvalidCoordinate,
		ErrCodeInvalidFormat,
		ErrCodeNotFound,
		ErrCodeNetwork,
		ErrCodeTimeout,
		ErrCodeInternal,
	}

	seen := make(map[Code]bool)
	for _, code := range codes {
		if seen[code] {
			t.Errorf("Duplicate error code: %s", code)
		}
		seen[code] = true
	}
}
