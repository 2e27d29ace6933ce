package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSearch(); err != nil {
		return err
	}
	if err := c.validateDisambiguation(); err != nil {
		return err
	}
	if err := c.validateRanking(); err != nil {
		return err
	}
	if err := c.validateCaches(); err != nil {
		return err
	}
	if err := c.validateGuard(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateSearch() error {
	if c.Search.TopK <= 0 {
		return errors.New("search.top_k must be positive")
	}
	if c.Search.MinSimilarity < 0 || c.Search.MinSimilarity > 1 {
		return errors.New("search.min_similarity must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateDisambiguation() error {
	if c.Disambiguation.AutopickThreshold < 0 || c.Disambiguation.AutopickThreshold > 1 {
		return errors.New("disambiguation.autopick_threshold must be between 0 and 1")
	}
	if c.Disambiguation.AutopickDelta < 0 || c.Disambiguation.AutopickDelta > 1 {
		return errors.New("disambiguation.autopick_delta must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateRanking() error {
	if c.Ranking.MaxCount <= 0 {
		return errors.New("ranking.max_count must be positive")
	}
	if c.Ranking.DefaultCount <= 0 || c.Ranking.DefaultCount > c.Ranking.MaxCount {
		return fmt.Errorf("ranking.default_count must be between 1 and %d", c.Ranking.MaxCount)
	}
	return nil
}

func (c *Config) validateCaches() error {
	if c.DecisionCache.TTLSeconds <= 0 {
		return errors.New("decision_cache.ttl_seconds must be positive")
	}
	if c.DecisionCache.Capacity <= 0 {
		return errors.New("decision_cache.capacity must be positive")
	}
	if c.DataCache.Capacity <= 0 {
		return errors.New("data_cache.capacity must be positive")
	}
	for class, ttl := range c.DataCacheTTLs() {
		if ttl <= 0 {
			return fmt.Errorf("data_cache.%s_ttl_seconds must be positive", class)
		}
	}
	return nil
}

func (c *Config) validateGuard() error {
	if c.Guard.MaxQueryLength <= 0 {
		return errors.New("guard.max_query_length must be positive")
	}
	if c.Guard.MaxRows <= 0 {
		return errors.New("guard.max_rows must be positive")
	}
	if len(c.Guard.Tables) == 0 {
		return errors.New("guard.tables must list at least one table")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn or error, got %q", c.Logging.Level)
	}
	return nil
}
