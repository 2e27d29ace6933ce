package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// DecisionKey hashes a normalized question with the set of routes already
// visited. Route order and duplicates do not change the key.
func DecisionKey(question string, visited []string) string {
	routes := make([]string, 0, len(visited))
	seen := make(map[string]struct{}, len(visited))
	for _, route := range visited {
		route = strings.TrimSpace(route)
		if route == "" {
			continue
		}
		if _, ok := seen[route]; ok {
			continue
		}
		seen[route] = struct{}{}
		routes = append(routes, route)
	}
	sort.Strings(routes)

	h := sha256.New()
	h.Write([]byte(question))
	h.Write([]byte{0})
	h.Write([]byte(strings.Join(routes, "\x1f")))
	return hex.EncodeToString(h.Sum(nil))
}

// DataKey hashes an operation name with its positional and keyword arguments.
// Keyword order does not change the key.
func DataKey(operation string, args []any, kwargs map[string]any) (string, error) {
	payload := struct {
		Op     string         `json:"op"`
		Args   []any          `json:"args"`
		Kwargs map[string]any `json:"kwargs"`
	}{Op: operation, Args: args, Kwargs: kwargs}
	if payload.Args == nil {
		payload.Args = []any{}
	}
	if payload.Kwargs == nil {
		payload.Kwargs = map[string]any{}
	}
	// encoding/json writes map keys sorted, which keeps the digest stable.
	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode cache key for %s: %w", operation, err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
