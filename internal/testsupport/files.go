package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"reelquery/internal/catalog"
)

// WriteDataset encodes ds as JSON at path, creating parent directories.
func WriteDataset(t testing.TB, path string, ds catalog.Dataset) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	data, err := json.MarshalIndent(ds, "", "  ")
	if err != nil {
		t.Fatalf("marshal dataset: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
