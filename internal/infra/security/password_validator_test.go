package security

import (
	"errors"
	"testing"
)

func TestDefaultPasswordValidator_TooShort(t *testing.T) {
	validator := DefaultPasswordValidator()

	err := validator.Validate("abc")
	if err == nil {
		t.Fatalf("expected error for short password")
	}

	var validationErr *PasswordValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected PasswordValidationError, got %T", err)
	}
}

func TestDefaultPasswordValidator_WeakPassword(t *testing.T) {
	validator := DefaultPasswordValidator()

	for _, password := range []string{"password", "12345678", "qwertyui"} {
		if err := validator.Validate(password); err == nil {
			t.Fatalf("expected %q to be rejected as weak", password)
		}
	}
}

func TestDefaultPasswordValidator_StrongPassword(t *testing.T) {
	validator := DefaultPasswordValidator()

	if err := validator.Validate("correct horse battery staple"); err != nil {
		t.Fatalf("expected strong password to pass, got: %v", err)
	}
}

func TestMinLengthRule(t *testing.T) {
	rule := MinLengthRule(10)

	if err := rule.Validate("short"); err == nil {
		t.Fatalf("expected error below minimum length")
	}
	if err := rule.Validate("long enough password"); err != nil {
		t.Fatalf("expected password at length to pass, got: %v", err)
	}
}
