package router

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"reelquery/internal/cache"
	"reelquery/internal/catalog"
	"reelquery/internal/config"
	"reelquery/internal/geo"
	"reelquery/internal/hints"
	"reelquery/internal/identification"
	"reelquery/internal/logging"
	"reelquery/internal/metrics"
	"reelquery/internal/services"
	"reelquery/internal/sqlguard"
	"reelquery/internal/temporal"
)

// Store is the catalog surface the router reads from.
type Store interface {
	identification.Catalog
	sqlguard.Runner
	PopularityTotal(ctx context.Context, uid, country string, r temporal.Range) (int64, error)
	CountryBreakdown(ctx context.Context, uid string, r temporal.Range, limit int) ([]catalog.CountryHits, error)
	Availability(ctx context.Context, uid, country string) ([]string, error)
	TopTitles(ctx context.Context, q catalog.RankingQuery) ([]catalog.RankedTitle, error)
	TitleByUID(ctx context.Context, uid string) (identification.Candidate, bool, error)
	TitleByExternalID(ctx context.Context, externalID string) (identification.Candidate, bool, error)
}

// Dependencies wires a Router. Config and Store are required.
type Dependencies struct {
	Config     *config.Config
	Store      Store
	Countries  *geo.Resolver
	Generative Generative
	Metrics    *metrics.Registry
	Logger     *slog.Logger
	// Clock defaults to time.Now.
	Clock func() time.Time
	// NewRequestID defaults to uuid.NewString.
	NewRequestID func() string
}

// Router resolves questions into answers.
type Router struct {
	cfg        *config.Config
	store      Store
	searcher   *identification.Searcher
	countries  *geo.Resolver
	dates      *temporal.Resolver
	gate       *sqlguard.Gate
	autopick   identification.AutopickPolicy
	decisions  *cache.Cache[Decision]
	data       *cache.DataCache
	generative Generative
	metrics    *metrics.Registry
	logger     *slog.Logger
	newID      func() string
	routes     []route
}

type route struct {
	name string
	run  func(ctx context.Context, state *requestState) (*Response, *Decision, error)
}

// requestState carries what was inferred from one request.
type requestState struct {
	req      Request
	question string
	hint     hints.Hint
	country  geo.Resolution
	window   temporal.Range
	// miss records the last lookup or title search that found nothing.
	miss error
}

// New builds a Router and its caches.
func New(deps Dependencies) (*Router, error) {
	if deps.Config == nil {
		return nil, services.Wrap(services.ErrConfiguration, "router", "new", "configuration required", nil)
	}
	if deps.Store == nil {
		return nil, services.Wrap(services.ErrConfiguration, "router", "new", "catalog store required", nil)
	}
	cfg := deps.Config
	clock := deps.Clock
	if clock == nil {
		clock = time.Now
	}
	countries := deps.Countries
	if countries == nil {
		var err error
		countries, err = geo.New()
		if err != nil {
			return nil, fmt.Errorf("load country table: %w", err)
		}
	}
	newID := deps.NewRequestID
	if newID == nil {
		newID = uuid.NewString
	}

	logger := logging.NewComponentLogger(deps.Logger, "router")
	data := cache.NewDataCache(cfg.DataCache.Capacity, cfg.DataCacheTTLs(), clock)
	r := &Router{
		cfg:        cfg,
		store:      deps.Store,
		searcher:   identification.NewSearcher(deps.Store, data, deps.Logger),
		countries:  countries,
		dates:      &temporal.Resolver{Now: clock},
		gate:       sqlguard.NewGate(sqlguard.NewPolicy(cfg.Guard.Tables), cfg.Guard.MaxQueryLength),
		autopick:   identification.AutopickPolicy{Threshold: cfg.Disambiguation.AutopickThreshold, Delta: cfg.Disambiguation.AutopickDelta},
		decisions:  cache.NewDecisionCache[Decision](cfg.DecisionCacheTTL(), cfg.DecisionCache.Capacity, clock),
		data:       data,
		generative: deps.Generative,
		metrics:    deps.Metrics,
		logger:     logger,
		newID:      newID,
	}
	r.gate.OnReject = r.metrics.ObserveRejection
	r.metrics.TrackCache("decision", r.decisions.Stats)
	r.metrics.TrackCache("data", r.data.Stats)

	r.routes = []route{
		{name: RouteIdentifier, run: r.identifierRoute},
		{name: RouteRanking, run: r.rankingRoute},
		{name: RouteTitleSearch, run: r.titleSearchRoute},
		{name: RouteGeneratedSQL, run: r.generatedSQLRoute},
		{name: RouteGenerative, run: r.generativeRoute},
	}
	return r, nil
}

// Answer resolves req. Route failures never surface as errors; only an empty
// request is rejected.
func (r *Router) Answer(ctx context.Context, req Request) (Response, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	question := hints.Normalize(req.Question)
	if question == "" && strings.TrimSpace(req.CatalogUID) == "" && strings.TrimSpace(req.ExternalID) == "" {
		return Response{}, services.Wrap(services.ErrValidation, "router", "answer", "question or identifier required", nil)
	}

	requestID := r.newID()
	ctx = services.WithRequestID(ctx, requestID)
	logger := logging.WithContext(ctx, r.logger)
	start := time.Now()

	visited := visitedSet(req.VisitedRoutes)
	memoKey := cache.DecisionKey(memoText(question, req), sortedKeys(visited))
	if decision, ok := r.decisions.Get(memoKey); ok {
		if resp, ok := r.replay(ctx, decision); ok {
			resp.RequestID = requestID
			resp.Cached = true
			r.metrics.ObserveRoute(resp.Route, "replayed")
			logger.Info("decision replayed",
				logging.String(logging.FieldEventType, "decision_replay"),
				logging.String(logging.FieldRoute, resp.Route),
			)
			return r.finish(ctx, resp), nil
		}
		r.decisions.Delete(memoKey)
	}

	state := r.inferState(question, req)
	for _, rt := range r.routes {
		if _, skip := visited[rt.name]; skip {
			continue
		}
		resp, decision, ok := r.runRoute(ctx, rt, state)
		if !ok {
			continue
		}
		resp.RequestID = requestID
		if decision != nil {
			r.decisions.Set(memoKey, *decision)
		}
		logger.Info("question answered",
			logging.String(logging.FieldEventType, "answer"),
			logging.String(logging.FieldRoute, resp.Route),
			logging.String("status", string(resp.Status)),
			logging.Duration("elapsed", time.Since(start)),
		)
		return r.finish(ctx, *resp), nil
	}

	resp := r.guidance(state)
	resp.RequestID = requestID
	r.metrics.ObserveRoute(RouteGuidance, "ok")
	logger.Info("no route produced an answer",
		logging.String(logging.FieldEventType, "answer"),
		logging.String(logging.FieldRoute, RouteGuidance),
		logging.String("status", string(resp.Status)),
	)
	return resp, nil
}

// runRoute evaluates one route, converting errors and panics into "inapplicable".
func (r *Router) runRoute(ctx context.Context, rt route, state *requestState) (resp *Response, decision *Decision, ok bool) {
	routeCtx := services.WithRoute(ctx, rt.name)
	logger := logging.WithContext(routeCtx, r.logger)

	defer func() {
		if recovered := recover(); recovered != nil {
			r.metrics.ObserveRoute(rt.name, "panic")
			logging.WarnWithContext(logger, "route panicked", "route_panic",
				logging.String("panic", fmt.Sprint(recovered)),
				logging.String(logging.FieldErrorHint, "route treated as inapplicable"),
			)
			resp, decision, ok = nil, nil, false
		}
	}()

	missBefore := state.miss
	resp, decision, err := rt.run(routeCtx, state)
	if err != nil {
		r.metrics.ObserveRoute(rt.name, services.Outcome(err))
		logging.WarnWithContext(logger, "route failed", "route_failure",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "route treated as inapplicable"),
		)
		return nil, nil, false
	}
	if resp == nil {
		outcome := "inapplicable"
		if state.miss != nil && state.miss != missBefore {
			outcome = services.Outcome(state.miss)
			logger.Debug("route found nothing", logging.Error(state.miss))
		} else {
			logger.Debug("route inapplicable")
		}
		r.metrics.ObserveRoute(rt.name, outcome)
		return nil, nil, false
	}
	resp.Route = rt.name
	outcome := "ok"
	if resp.Status == StatusNeedsDisambiguation {
		outcome = services.Outcome(services.ErrAmbiguous)
	}
	r.metrics.ObserveRoute(rt.name, outcome)
	return resp, decision, true
}

func (r *Router) inferState(question string, req Request) *requestState {
	state := &requestState{req: req, question: question}
	if hint, ok := hints.ExtractHint(question); ok {
		state.hint = hint
	}
	if hint, ok := hints.ExtractHint(req.Refine); ok {
		state.hint = hint
	}
	state.country = r.resolveCountry(question, req.Country)
	if req.From != nil && req.To != nil {
		state.window = r.dates.EnsureRange(req.From, req.To, state.country.ISO2)
	} else {
		state.window = r.dates.Resolve(question, state.country.ISO2)
	}
	return state
}

func (r *Router) resolveCountry(question, explicit string) geo.Resolution {
	explicit = strings.TrimSpace(explicit)
	if explicit != "" {
		if country, ok := r.countries.Lookup(explicit); ok {
			return geo.Resolution{ISO2: country.ISO2, Name: country.Name, Matched: strings.ToLower(explicit)}
		}
		if res := r.countries.Guess(explicit); res.Found() {
			return res
		}
	}
	return r.countries.Guess(question)
}

// replay re-runs a memoized decision without searching again.
func (r *Router) replay(ctx context.Context, d Decision) (Response, bool) {
	routeCtx := services.WithRoute(ctx, d.Route)
	var (
		resp *Response
		err  error
	)
	switch {
	case d.Ranking != nil:
		resp, err = r.rankingResponse(routeCtx, *d.Ranking, d.Country)
	case d.Pick != nil:
		resp, err = r.popularityResponse(routeCtx, *d.Pick, d.Selection, d.Confidence, d.Country, d.Window)
	case len(d.Candidates) > 0:
		resp = disambiguationResponse(d.Term, d.Candidates)
	}
	if err != nil || resp == nil {
		if err != nil {
			logging.WarnWithContext(logging.WithContext(routeCtx, r.logger), "decision replay failed", "decision_replay",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "routes evaluated from scratch"),
			)
		}
		return Response{}, false
	}
	resp.Route = d.Route
	return *resp, true
}

func visitedSet(routes []string) map[string]struct{} {
	set := make(map[string]struct{}, len(routes))
	for _, name := range routes {
		if name = strings.ToLower(strings.TrimSpace(name)); name != "" {
			set[name] = struct{}{}
		}
	}
	return set
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for key := range set {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// memoText folds the explicit request fields into the memo key so a question
// asked with a different country or window is not replayed.
func memoText(question string, req Request) string {
	parts := []string{
		strings.ToLower(question),
		strings.ToLower(strings.TrimSpace(req.CatalogUID)),
		strings.ToLower(strings.TrimSpace(req.ExternalID)),
		strings.ToLower(strings.TrimSpace(req.Country)),
		strings.ToLower(hints.Normalize(req.Refine)),
	}
	if req.From != nil {
		parts = append(parts, req.From.UTC().Format(time.DateOnly))
	}
	if req.To != nil {
		parts = append(parts, req.To.UTC().Format(time.DateOnly))
	}
	return strings.Join(parts, "\x1f")
}
