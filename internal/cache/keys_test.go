package cache

import "testing"

func TestDecisionKeyIgnoresRouteOrder(t *testing.T) {
	a := DecisionKey("top 10 series 2024", []string{"ranking", "identifier"})
	b := DecisionKey("top 10 series 2024", []string{"identifier", "ranking", "ranking", " "})
	if a != b {
		t.Fatal("route order or duplicates changed the key")
	}
	if a == DecisionKey("top 10 series 2023", []string{"identifier", "ranking"}) {
		t.Fatal("different questions share a key")
	}
	if DecisionKey("q", nil) == DecisionKey("q", []string{"ranking"}) {
		t.Fatal("visited routes should affect the key")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %q", a)
	}
}

func TestDataKeyStable(t *testing.T) {
	k1, err := DataKey("popularity.total", []any{"uid-1"}, map[string]any{"country": "MX", "year": 2024})
	if err != nil {
		t.Fatalf("DataKey returned error: %v", err)
	}
	k2, _ := DataKey("popularity.total", []any{"uid-1"}, map[string]any{"year": 2024, "country": "MX"})
	if k1 != k2 {
		t.Fatal("keyword order changed the key")
	}
	k3, _ := DataKey("popularity.breakdown", []any{"uid-1"}, map[string]any{"country": "MX", "year": 2024})
	if k1 == k3 {
		t.Fatal("operation name should affect the key")
	}
	empty1, _ := DataKey("search", nil, nil)
	empty2, _ := DataKey("search", []any{}, map[string]any{})
	if empty1 != empty2 {
		t.Fatal("nil and empty arguments should hash the same")
	}
	if _, err := DataKey("bad", []any{make(chan int)}, nil); err == nil {
		t.Fatal("expected encode error")
	}
}
