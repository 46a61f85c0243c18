package apperr

import (
	"errors"
	"fmt"
	"testing"
)

func TestValidationErrorIs(t *testing.T) {
	err := NewValidationError("track", "go", "title", "required")
	if !IsValidation(err) {
		t.Fatalf("IsValidation: want=true")
	}
	if IsNotFound(err) || IsLocked(err) {
		t.Fatalf("validation error matched unrelated sentinel")
	}
	want := `invalid track "go": field title: required`
	if got := err.Error(); got != want {
		t.Fatalf("Error: want=%q got=%q", want, got)
	}
}

func TestValidationErrorWithoutField(t *testing.T) {
	err := NewValidationError("video", "v1", "", "unreadable payload")
	want := `invalid video "v1": unreadable payload`
	if got := err.Error(); got != want {
		t.Fatalf("Error: want=%q got=%q", want, got)
	}
}

func TestStoreErrorWrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := NewStoreError("ping", cause)
	if !IsStoreUnavailable(err) {
		t.Fatalf("IsStoreUnavailable: want=true")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause must unwrap")
	}
	if IsVersionConflict(err) {
		t.Fatalf("store error matched unrelated sentinel")
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	wrapped := fmt.Errorf("update track %q: %w", "go", ErrVersionConflict)
	if !IsVersionConflict(wrapped) {
		t.Fatalf("IsVersionConflict through wrap: want=true")
	}
	if !IsNotFound(fmt.Errorf("lookup: %w", ErrNotFound)) {
		t.Fatalf("IsNotFound through wrap: want=true")
	}
}
