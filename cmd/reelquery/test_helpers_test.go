package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"reelquery/internal/config"
	"reelquery/internal/testsupport"
)

type cliTestEnv struct {
	cfg         *config.Config
	configPath  string
	datasetPath string
	baseDir     string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("REELQUERY_CATALOG_PATH", "")

	configPath := filepath.Join(base, "config.toml")
	writeTestConfig(t, configPath, cfg)

	datasetPath := filepath.Join(base, "fixtures", "catalog.json")
	testsupport.WriteDataset(t, datasetPath, testsupport.FixtureDataset())

	return &cliTestEnv{
		cfg:         cfg,
		configPath:  configPath,
		datasetPath: datasetPath,
		baseDir:     base,
	}
}

// importFixture loads the fixture dataset through the CLI.
func (e *cliTestEnv) importFixture(t *testing.T) {
	t.Helper()
	if _, _, err := runCLI(t, []string{"catalog", "import", e.datasetPath}, e.configPath); err != nil {
		t.Fatalf("catalog import: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\ndata_dir = %q\nlog_dir = %q\n\n[catalog]\npath = %q\n\n[logging]\nlevel = \"error\"\n",
		cfg.Paths.DataDir,
		cfg.Paths.LogDir,
		cfg.Catalog.Path,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
