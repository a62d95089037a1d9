package handler

import (
	"strings"
	"testing"
)

func TestValidate_MinMessage(t *testing.T) {
	v := NewValidator()
	payload := resetConfirmPayload{Email: "a@b.co", OTP: "123456", NewPassword: "short"}

	err := v.Validate(payload)
	if err == nil {
		t.Fatalf("expected a validation error for a short password")
	}
	if !strings.Contains(err.Error(), "must be at least 8 characters") {
		t.Fatalf("unexpected message: %v", err)
	}
}

func TestValidate_OneofMessage(t *testing.T) {
	v := NewValidator()
	payload := loginRequest{Username: "u", Password: "p", Rol: "superuser"}

	err := v.Validate(payload)
	if err == nil {
		t.Fatalf("expected a validation error for an unknown role")
	}
	if !strings.Contains(err.Error(), "must be one of") {
		t.Fatalf("unexpected message: %v", err)
	}
}
