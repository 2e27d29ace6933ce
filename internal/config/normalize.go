package config

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeCatalog(); err != nil {
		return err
	}
	c.normalizeGuard()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeCatalog() error {
	if value, ok := os.LookupEnv(catalogPathEnv); ok && strings.TrimSpace(value) != "" {
		if strings.TrimSpace(c.Catalog.Path) == "" || c.Catalog.Path == defaultCatalogPath {
			c.Catalog.Path = strings.TrimSpace(value)
		}
	}
	if strings.TrimSpace(c.Catalog.Path) == "" {
		c.Catalog.Path = defaultCatalogPath
	}
	var err error
	if c.Catalog.Path, err = expandPath(c.Catalog.Path); err != nil {
		return fmt.Errorf("catalog.path: %w", err)
	}
	if c.Catalog.BusyTimeoutMS <= 0 {
		c.Catalog.BusyTimeoutMS = defaultCatalogBusyTimeoutMS
	}
	return nil
}

func (c *Config) normalizeGuard() {
	if len(c.Guard.Tables) == 0 {
		c.Guard.Tables = DefaultGuardTables()
		return
	}
	tables := make(map[string][]string, len(c.Guard.Tables))
	for name, columns := range c.Guard.Tables {
		key := strings.ToLower(strings.TrimSpace(name))
		if key == "" {
			continue
		}
		cleaned := make([]string, 0, len(columns))
		for _, column := range columns {
			if column = strings.ToLower(strings.TrimSpace(column)); column != "" {
				cleaned = append(cleaned, column)
			}
		}
		sort.Strings(cleaned)
		tables[key] = cleaned
	}
	c.Guard.Tables = tables
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
