package apierr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestStatusOf(t *testing.T) {
	wrapped := fmt.Errorf("bind: %w", BadRequest("invalid_query", errors.New("limit must be positive")))
	if got := StatusOf(wrapped); got != http.StatusBadRequest {
		t.Fatalf("StatusOf(wrapped)=%d", got)
	}
	if got := StatusOf(errors.New("boom")); got != http.StatusInternalServerError {
		t.Fatalf("StatusOf(plain)=%d", got)
	}
}

func TestErrorMessage(t *testing.T) {
	if got := New(http.StatusNotFound, "run_not_found", nil).Error(); got != "run_not_found" {
		t.Fatalf("code fallback: %q", got)
	}
	if got := New(http.StatusTeapot, "", nil).Error(); got != "api error (418)" {
		t.Fatalf("status fallback: %q", got)
	}
	var nilErr *Error
	if nilErr.Error() != "" {
		t.Fatalf("nil error should render empty")
	}
}
