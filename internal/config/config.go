package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directories owned by the application.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Catalog configures the SQLite catalog store.
type Catalog struct {
	Path          string `toml:"path"`
	BusyTimeoutMS int    `toml:"busy_timeout_ms"`
}

// Search configures fuzzy title matching.
type Search struct {
	TopK          int     `toml:"top_k"`
	MinSimilarity float64 `toml:"min_similarity"`
}

// Disambiguation configures confidence-gated automatic selection.
type Disambiguation struct {
	AutopickThreshold float64 `toml:"autopick_threshold"`
	AutopickDelta     float64 `toml:"autopick_delta"`
}

// Ranking configures top-N answers.
type Ranking struct {
	DefaultCount int `toml:"default_count"`
	MaxCount     int `toml:"max_count"`
}

// DecisionCache configures the routing decision memo.
type DecisionCache struct {
	TTLSeconds int `toml:"ttl_seconds"`
	Capacity   int `toml:"capacity"`
}

// DataCache configures the query result cache. TTLs are per operation class.
type DataCache struct {
	Capacity             int `toml:"capacity"`
	PopularityTTLSeconds int `toml:"popularity_ttl_seconds"`
	RankingTTLSeconds    int `toml:"ranking_ttl_seconds"`
	SearchTTLSeconds     int `toml:"search_ttl_seconds"`
	MetadataTTLSeconds   int `toml:"metadata_ttl_seconds"`
}

// Guard configures the generated-query safety gate.
type Guard struct {
	MaxQueryLength int                 `toml:"max_query_length"`
	MaxRows        int                 `toml:"max_rows"`
	Tables         map[string][]string `toml:"tables"`
}

// Features toggles optional routes.
type Features struct {
	ExperimentalSQL    bool `toml:"experimental_sql"`
	GenerativeFallback bool `toml:"generative_fallback"`
	PolishAnswers      bool `toml:"polish_answers"`
}

// Logging contains logging preferences.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for reelquery.
type Config struct {
	Paths          Paths          `toml:"paths"`
	Catalog        Catalog        `toml:"catalog"`
	Search         Search         `toml:"search"`
	Disambiguation Disambiguation `toml:"disambiguation"`
	Ranking        Ranking        `toml:"ranking"`
	DecisionCache  DecisionCache  `toml:"decision_cache"`
	DataCache      DataCache      `toml:"data_cache"`
	Guard          Guard          `toml:"guard"`
	Features       Features       `toml:"features"`
	Logging        Logging        `toml:"logging"`
}

// DefaultConfigPath returns the absolute path of the per-user configuration file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/reelquery/config.toml")
}

// Load reads configuration from disk, applies defaults, and validates the result.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("reelquery.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir, filepath.Dir(c.Catalog.Path)} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DecisionCacheTTL returns the decision memo lifetime.
func (c *Config) DecisionCacheTTL() time.Duration {
	return seconds(c.DecisionCache.TTLSeconds)
}

// DataCacheTTLs returns the data cache lifetimes keyed by operation class.
func (c *Config) DataCacheTTLs() map[string]time.Duration {
	return map[string]time.Duration{
		"popularity": seconds(c.DataCache.PopularityTTLSeconds),
		"ranking":    seconds(c.DataCache.RankingTTLSeconds),
		"search":     seconds(c.DataCache.SearchTTLSeconds),
		"metadata":   seconds(c.DataCache.MetadataTTLSeconds),
	}
}

// CatalogBusyTimeout returns the SQLite busy timeout.
func (c *Config) CatalogBusyTimeout() time.Duration {
	return time.Duration(c.Catalog.BusyTimeoutMS) * time.Millisecond
}

func seconds(value int) time.Duration {
	return time.Duration(value) * time.Second
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath resolves a user-supplied path the same way configuration paths are resolved.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the provided path.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
