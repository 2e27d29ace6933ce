package services_test

import (
	"context"
	"testing"

	"reelquery/internal/services"
)

func TestContextHelpers(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRoute(ctx, "ranking")
	ctx = services.WithRequestID(ctx, "req-123")

	if route, ok := services.RouteFromContext(ctx); !ok || route != "ranking" {
		t.Fatalf("unexpected route: %v %v", route, ok)
	}
	if rid, ok := services.RequestIDFromContext(ctx); !ok || rid != "req-123" {
		t.Fatalf("unexpected request id: %v %v", rid, ok)
	}
}

func TestBlankValuesPreserveContext(t *testing.T) {
	ctx := context.Background()
	ctx = services.WithRoute(ctx, "")
	ctx = services.WithRequestID(ctx, "")
	if _, ok := services.RouteFromContext(ctx); ok {
		t.Fatal("expected no route value")
	}
	if _, ok := services.RequestIDFromContext(ctx); ok {
		t.Fatal("expected no request id value")
	}
}
