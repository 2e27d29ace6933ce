package services_test

import (
	"errors"
	"strings"
	"testing"

	"reelquery/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrStoreUnavailable, "catalog", "run", "query failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrStoreUnavailable) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"catalog", "run", "query failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapWithoutMarkerDefaultsToStoreUnavailable(t *testing.T) {
	err := services.Wrap(nil, "", "", "", nil)
	if !errors.Is(err, services.ErrStoreUnavailable) {
		t.Fatalf("expected default marker, got %v", err)
	}
	if !strings.Contains(err.Error(), "service failure") {
		t.Fatalf("expected generic detail, got %q", err.Error())
	}
}

func TestOutcomeMapping(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "ok"},
		{services.Wrap(services.ErrAmbiguous, "router", "search", "two matches", nil), "ambiguous"},
		{services.Wrap(services.ErrNotFound, "router", "search", "", nil), "not_found"},
		{services.Wrap(services.ErrUnsafeQuery, "sqlguard", "validate", "", nil), "unsafe_query"},
		{services.Wrap(services.ErrGenerativeUnavailable, "router", "fallback", "", nil), "generative_unavailable"},
		{services.Wrap(services.ErrValidation, "config", "", "", nil), "invalid"},
		{errors.New("disk on fire"), "store_unavailable"},
	}
	for _, tt := range tests {
		if got := services.Outcome(tt.err); got != tt.want {
			t.Fatalf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
