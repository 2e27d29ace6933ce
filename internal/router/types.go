package router

import (
	"time"

	"reelquery/internal/catalog"
	"reelquery/internal/geo"
	"reelquery/internal/identification"
	"reelquery/internal/sqlguard"
	"reelquery/internal/temporal"
)

// Route names, in evaluation order.
const (
	RouteIdentifier   = "identifier"
	RouteRanking      = "ranking"
	RouteTitleSearch  = "title_search"
	RouteGeneratedSQL = "generated_sql"
	RouteGenerative   = "generative"
	RouteGuidance     = "guidance"
)

// Status summarizes how a question was answered.
type Status string

const (
	StatusAnswered            Status = "answered"
	StatusNeedsDisambiguation Status = "needs_disambiguation"
	StatusNotFound            Status = "not_found"
	StatusGuidance            Status = "guidance"
)

// Selection records how a title was chosen.
type Selection string

const (
	SelectionExplicit Selection = "explicit"
	SelectionHint     Selection = "hint"
	SelectionAutopick Selection = "autopick"
)

// Request is one question with optional host-supplied context. Explicit
// fields take precedence over anything inferred from Question.
type Request struct {
	Question   string
	CatalogUID string
	ExternalID string
	// Country is an ISO2 code or a country name.
	Country string
	From    *time.Time
	To      *time.Time
	// Refine answers an earlier disambiguation: an ordinal, a year or a
	// director clause. Its hint replaces any hint found in Question.
	Refine string
	// VisitedRoutes names routes the host already tried; they are skipped.
	VisitedRoutes []string
}

// Response is the answer to a Request. Exactly one payload is set, matching Route.
type Response struct {
	RequestID string `json:"request_id"`
	Route     string `json:"route"`
	Status    Status `json:"status"`
	Text      string `json:"text"`
	// Cached reports that the route was replayed from the decision memo.
	Cached bool `json:"cached"`

	Popularity     *PopularityReport `json:"popularity,omitempty"`
	Ranking        *RankingResult    `json:"ranking,omitempty"`
	Disambiguation *Disambiguation   `json:"disambiguation,omitempty"`
	Rows           *QueryRows        `json:"rows,omitempty"`
	Generative     *GenerativeAnswer `json:"generative,omitempty"`
	Guidance       *Guidance         `json:"guidance,omitempty"`
}

// PopularityReport is the popularity of one resolved title.
type PopularityReport struct {
	Title      identification.Candidate `json:"title"`
	Selection  Selection                `json:"selection"`
	Confidence float64                  `json:"confidence"`
	Country    geo.Resolution           `json:"country"`
	Range      temporal.Range           `json:"range"`
	Hits       int64                    `json:"hits"`
	// Breakdown lists the top countries when the report is global.
	Breakdown []catalog.CountryHits `json:"breakdown,omitempty"`
	Platforms []string              `json:"platforms,omitempty"`
}

// RankingResult is a top-N list.
type RankingResult struct {
	Kind    identification.ContentKind `json:"content_kind"`
	Country geo.Resolution             `json:"country"`
	Range   temporal.Range             `json:"range"`
	Count   int                        `json:"count"`
	Rows    []catalog.RankedTitle      `json:"rows"`
}

// Disambiguation asks the user to choose between candidates.
type Disambiguation struct {
	Term    string                     `json:"term"`
	Choices []identification.Candidate `json:"choices"`
}

// QueryRows is the result of a generated query.
type QueryRows struct {
	Rows      []sqlguard.Row `json:"rows"`
	Truncated bool           `json:"truncated"`
}

// GenerativeAnswer is free text produced by the generative collaborator.
type GenerativeAnswer struct {
	Text string `json:"text"`
}

// Guidance is the static help returned when nothing else applies.
type Guidance struct {
	Text     string   `json:"text"`
	Examples []string `json:"examples"`
}

// Decision is the memoized outcome of a deterministic route.
type Decision struct {
	Route      string
	Confidence float64
	Selection  Selection
	Candidates []identification.Candidate
	Pick       *identification.Candidate
	Term       string
	Country    geo.Resolution
	Window     temporal.Range
	Ranking    *catalog.RankingQuery
}
