package testsupport

import (
	"path/filepath"
	"testing"

	"reelquery/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Catalog.Path = filepath.Join(base, "data", "catalog.db")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithExperimentalSQL enables the generated-query route.
func WithExperimentalSQL() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Features.ExperimentalSQL = true
	}
}

// WithGenerativeFallback enables the free-form generative route.
func WithGenerativeFallback() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Features.GenerativeFallback = true
	}
}

// WithPolishAnswers enables rewriting of deterministic answers.
func WithPolishAnswers() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Features.PolishAnswers = true
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
