package config

const (
	defaultDataDir                = "~/.local/share/reelquery"
	defaultLogDir                 = "~/.local/share/reelquery/logs"
	defaultCatalogPath            = "~/.local/share/reelquery/catalog.db"
	defaultCatalogBusyTimeoutMS   = 5000
	defaultSearchTopK             = 20
	defaultSearchMinSimilarity    = 0.80
	defaultAutopickThreshold      = 0.94
	defaultAutopickDelta          = 0.03
	defaultRankingCount           = 10
	defaultRankingMaxCount        = 50
	defaultDecisionCacheTTL       = 300
	defaultDecisionCacheCapacity  = 1000
	defaultDataCacheCapacity      = 5000
	defaultDataCachePopularityTTL = 15 * 60
	defaultDataCacheRankingTTL    = 30 * 60
	defaultDataCacheSearchTTL     = 30 * 60
	defaultDataCacheMetadataTTL   = 60 * 60
	defaultGuardMaxQueryLength    = 8000
	defaultGuardMaxRows           = 50
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"

	catalogPathEnv = "REELQUERY_CATALOG_PATH"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Catalog: Catalog{
			Path:          defaultCatalogPath,
			BusyTimeoutMS: defaultCatalogBusyTimeoutMS,
		},
		Search: Search{
			TopK:          defaultSearchTopK,
			MinSimilarity: defaultSearchMinSimilarity,
		},
		Disambiguation: Disambiguation{
			AutopickThreshold: defaultAutopickThreshold,
			AutopickDelta:     defaultAutopickDelta,
		},
		Ranking: Ranking{
			DefaultCount: defaultRankingCount,
			MaxCount:     defaultRankingMaxCount,
		},
		DecisionCache: DecisionCache{
			TTLSeconds: defaultDecisionCacheTTL,
			Capacity:   defaultDecisionCacheCapacity,
		},
		DataCache: DataCache{
			Capacity:             defaultDataCacheCapacity,
			PopularityTTLSeconds: defaultDataCachePopularityTTL,
			RankingTTLSeconds:    defaultDataCacheRankingTTL,
			SearchTTLSeconds:     defaultDataCacheSearchTTL,
			MetadataTTLSeconds:   defaultDataCacheMetadataTTL,
		},
		Guard: Guard{
			MaxQueryLength: defaultGuardMaxQueryLength,
			MaxRows:        defaultGuardMaxRows,
			Tables:         DefaultGuardTables(),
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultGuardTables returns the tables generated queries may read, with the
// columns each exposes.
func DefaultGuardTables() map[string][]string {
	return map[string][]string{
		"titles":         {"uid", "display_title", "clean_title"},
		"title_metadata": {"uid", "external_id", "release_year", "content_kind", "directors", "synopsis"},
		"popularity":     {"uid", "country_iso2", "period", "hits"},
		"availability":   {"uid", "country_iso2", "platform"},
	}
}
