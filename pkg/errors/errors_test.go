package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataForKnownCodes(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:   http.StatusBadRequest,
		CodeUnauthorized: http.StatusUnauthorized,
		CodeForbidden:    http.StatusForbidden,
		CodeNotFound:     http.StatusNotFound,
		CodeConflict:     http.StatusConflict,
		CodeRateLimit:    http.StatusTooManyRequests,
		CodeInternal:     http.StatusInternalServerError,
		CodeDependency:   http.StatusServiceUnavailable,
	}
	for code, status := range cases {
		if got := MetadataFor(code).HTTPStatus; got != status {
			t.Fatalf("code %s: expected status %d, got %d", code, status, got)
		}
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	if got := MetadataFor(Code("NOPE")).HTTPStatus; got != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", got)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("original failure")
	wrapped := Wrap(CodeNotFound, cause, "product missing")

	if !stdErrors.Is(wrapped, cause) {
		t.Fatal("expected wrapped error to match its cause")
	}
	if wrapped.Code() != CodeNotFound {
		t.Fatalf("expected NOT_FOUND, got %s", wrapped.Code())
	}
	if wrapped.Error() != "NOT_FOUND: product missing" {
		t.Fatalf("unexpected error string %q", wrapped.Error())
	}
}

func TestAsUnwrapsThroughChain(t *testing.T) {
	inner := New(CodeConflict, "duplicate sku")
	outer := fmt.Errorf("saving product: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error from wrapped chain")
	}
	if typed.Code() != CodeConflict {
		t.Fatalf("expected CONFLICT, got %s", typed.Code())
	}
}

func TestAsReturnsNilForPlainErrors(t *testing.T) {
	if As(stdErrors.New("plain")) != nil {
		t.Fatal("expected nil for untagged error")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(CodeValidation, "validation failed").WithDetails(map[string]string{"name": "is required"})
	details, ok := err.Details().(map[string]string)
	if !ok {
		t.Fatalf("expected map details, got %T", err.Details())
	}
	if details["name"] != "is required" {
		t.Fatalf("unexpected details %v", details)
	}
}
