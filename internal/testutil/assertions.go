package testutil

import (
	"errors"
	"testing"

	apperrors "nivesh/internal/errors"
)

// AssertAppError fails the test unless err is an *AppError with code. The
// matched error is returned for further checks.
func AssertAppError(t *testing.T, err error, code string) *apperrors.AppError {
	t.Helper()

	var appErr *apperrors.AppError
	switch {
	case err == nil:
		t.Fatalf("expected %s, got nil", code)
	case !errors.As(err, &appErr):
		t.Fatalf("expected *AppError %s, got %T: %v", code, err, err)
	case appErr.Code != code:
		t.Errorf("expected %s, got %s (%s)", code, appErr.Code, appErr.Message)
	}
	return appErr
}

// AssertFieldErrors fails the test unless err is a VALIDATION_ERROR naming
// every given field.
func AssertFieldErrors(t *testing.T, err error, fields ...string) {
	t.Helper()

	appErr := AssertAppError(t, err, apperrors.ErrValidation.Code)
	for _, f := range fields {
		if _, ok := appErr.Fields[f]; !ok {
			t.Errorf("expected a message for %q, got %v", f, appErr.Fields)
		}
	}
}

// AssertNoError fails the test if err is not nil.
func AssertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
