package domain

import (
	"fmt"
	"testing"
)

func TestErrorPredicatesSeeThroughWrapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		is   func(error) bool
	}{
		{"validation", ValidationError{Field: "name", Msg: "required"}, IsValidation},
		{"auth", AuthenticationError{}, IsAuthentication},
		{"forbidden", AuthorizationError{}, IsAuthorization},
		{"not found", NotFoundError{Resource: "facility"}, IsNotFound},
		{"capacity", CapacityExceededError{Capacity: 8, Existing: 6, Requested: 3}, IsCapacityExceeded},
		{"transition", InvalidTransitionError{From: "completed", To: "pending"}, IsInvalidTransition},
		{"conflict", ConflictError{Resource: "user"}, IsConflict},
		{"internal", InternalError{Err: fmt.Errorf("boom")}, IsInternal},
	}
	for _, tc := range cases {
		wrapped := fmt.Errorf("layer: %w", tc.err)
		if !tc.is(wrapped) {
			t.Fatalf("%s: predicate did not match wrapped error", tc.name)
		}
	}
	if IsCapacityExceeded(ValidationError{}) {
		t.Fatalf("validation error must not look like capacity error")
	}
}

func TestRequireRole(t *testing.T) {
	if err := RequireRole(Actor{}, RoleAdmin); !IsAuthentication(err) {
		t.Fatalf("anonymous actor should be unauthenticated, got %v", err)
	}
	if err := RequireRole(Actor{UserID: 2, Role: RoleGuest}, RoleAdmin); !IsAuthorization(err) {
		t.Fatalf("guest should be forbidden, got %v", err)
	}
	if err := RequireRole(Actor{UserID: 1, Role: RoleAdmin}, RoleAdmin); err != nil {
		t.Fatalf("admin should pass, got %v", err)
	}
}
