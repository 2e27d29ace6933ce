package router

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"reelquery/internal/cache"
	"reelquery/internal/catalog"
	"reelquery/internal/geo"
	"reelquery/internal/hints"
	"reelquery/internal/identification"
	"reelquery/internal/logging"
	"reelquery/internal/services"
	"reelquery/internal/temporal"
	"reelquery/internal/textutil"
)

const (
	breakdownCountries = 5
	maxChoices         = 5
)

var popularityPattern = regexp.MustCompile(
	`\b(?:popular|popularity|popularidad|hits|views|plays|visitas|vistas|reproducciones|watch|stream|available|availability|disponible|disponibilidad)\b`)

// titleLookup is the cached outcome of an identifier lookup.
type titleLookup struct {
	Title identification.Candidate
	Found bool
}

// identifierRoute answers questions that name a title by uid or external id.
func (r *Router) identifierRoute(ctx context.Context, state *requestState) (*Response, *Decision, error) {
	uid := strings.TrimSpace(state.req.CatalogUID)
	externalID := strings.TrimSpace(state.req.ExternalID)
	if uid == "" && externalID == "" {
		switch state.hint.Kind {
		case hints.KindCatalogID:
			uid = state.hint.Value
		case hints.KindExternalID:
			externalID = state.hint.Value
		}
	}
	if uid == "" && externalID == "" {
		return nil, nil, nil
	}

	lookup, err := cache.GetOrLoad(ctx, r.data, "metadata.title", []any{strings.ToLower(uid), strings.ToLower(externalID)}, nil,
		func(ctx context.Context) (titleLookup, error) {
			var (
				title identification.Candidate
				found bool
				err   error
			)
			if uid != "" {
				title, found, err = r.store.TitleByUID(ctx, uid)
			} else {
				title, found, err = r.store.TitleByExternalID(ctx, externalID)
			}
			return titleLookup{Title: title, Found: found}, err
		})
	if err != nil {
		return nil, nil, err
	}
	if !lookup.Found {
		state.miss = services.Wrap(services.ErrNotFound, "router", RouteIdentifier,
			"no title with id "+strings.TrimSpace(uid+externalID), nil)
		return nil, nil, nil
	}

	title := lookup.Title
	resp, err := r.popularityResponse(ctx, title, SelectionExplicit, 1, state.country, state.window)
	if err != nil {
		return nil, nil, err
	}
	return resp, &Decision{
		Route:      RouteIdentifier,
		Confidence: 1,
		Selection:  SelectionExplicit,
		Candidates: []identification.Candidate{title},
		Pick:       &title,
		Country:    state.country,
		Window:     state.window,
	}, nil
}

// rankingRoute answers "top N" questions.
func (r *Router) rankingRoute(ctx context.Context, state *requestState) (*Response, *Decision, error) {
	intent, ok := parseRanking(state.question)
	if !ok {
		return nil, nil, nil
	}
	query := catalog.RankingQuery{
		Kind:    intent.kind,
		Country: state.country.ISO2,
		Range:   state.window,
		Limit:   clampCount(intent.count, r.cfg.Ranking.DefaultCount, r.cfg.Ranking.MaxCount),
	}
	resp, err := r.rankingResponse(ctx, query, state.country)
	if err != nil || resp == nil {
		return nil, nil, err
	}
	return resp, &Decision{
		Route:      RouteRanking,
		Confidence: 1,
		Ranking:    &query,
		Country:    state.country,
		Window:     state.window,
	}, nil
}

// titleSearchRoute resolves a title named in free text, by hint or autopick.
func (r *Router) titleSearchRoute(ctx context.Context, state *requestState) (*Response, *Decision, error) {
	if !popularityPattern.MatchString(textutil.CleanTitle(state.question)) {
		return nil, nil, nil
	}
	logger := logging.WithContext(ctx, r.logger)

	hint := state.hint
	term, ok := hints.ExtractTitleQuery(hints.StripHint(state.question, hint), true, r.countries.Match)
	if !ok && (hint.Kind == hints.KindYear || hint.Kind == hints.KindDirector) {
		// The hint was the title itself, as in "popularity of Roma" or "hits of 1917".
		term = textutil.CleanTitle(hint.Value)
		ok = term != ""
		hint = hints.Hint{}
	}
	if !ok {
		return nil, nil, nil
	}

	candidates, err := r.searcher.Search(ctx, term, r.cfg.Search.TopK, r.cfg.Search.MinSimilarity)
	if err != nil {
		return nil, nil, err
	}
	if len(candidates) == 0 && hint.Kind == hints.KindDirector {
		// A trailing "of <Name>" may belong to the title, as in "Edge of Tomorrow".
		if full, ok := hints.ExtractTitleQuery(state.question, true, r.countries.Match); ok && full != term {
			if candidates, err = r.searcher.Search(ctx, full, r.cfg.Search.TopK, r.cfg.Search.MinSimilarity); err != nil {
				return nil, nil, err
			}
			if len(candidates) > 0 {
				logger.Info("director clause kept as part of the title",
					logging.Args(logging.DecisionAttrs("title_search", "retried", "no match without the clause")...)...)
				term = full
				hint = hints.Hint{}
			}
		}
	}
	if len(candidates) == 0 {
		state.miss = services.Wrap(services.ErrNotFound, "router", RouteTitleSearch,
			"no title matched "+strconv.Quote(term), nil)
		logger.Info("title search found nothing",
			logging.Args(logging.DecisionAttrs("title_search", "no_match", "no title above similarity threshold")...)...)
		return nil, nil, nil
	}

	decision := &Decision{
		Route:      RouteTitleSearch,
		Term:       term,
		Candidates: candidates,
		Country:    state.country,
		Window:     state.window,
	}

	if hint.Kind != hints.KindNone {
		if pick, ok := identification.Select(candidates, hint); ok {
			logger.Info("hint selected title",
				logging.Args(append(logging.DecisionAttrs("hint_select", "accepted", hint.Kind.String()),
					logging.String("catalog_uid", pick.CatalogUID))...)...)
			return r.resolved(ctx, decision, pick, SelectionHint, pick.Similarity)
		}
		logger.Info("hint matched no candidate",
			logging.Args(logging.DecisionAttrs("hint_select", "rejected", hint.Kind.String())...)...)
	}

	pick, margin, ok := r.autopick.Margin(candidates)
	if ok {
		if _, accepted := r.autopick.Autopick(candidates); accepted {
			logger.Info("autopick accepted",
				logging.Args(append(logging.DecisionAttrs("autopick", "accepted", "confident top candidate"),
					logging.Float64("similarity", pick.Similarity),
					logging.Float64("margin", margin))...)...)
			return r.resolved(ctx, decision, pick, SelectionAutopick, pick.Similarity)
		}
		logger.Info("autopick rejected",
			logging.Args(append(logging.DecisionAttrs("autopick", "rejected", "below threshold or margin"),
				logging.Float64("similarity", pick.Similarity),
				logging.Float64("margin", margin))...)...)
	}

	decision.Confidence = candidates[0].Similarity
	return disambiguationResponse(term, candidates), decision, nil
}

func (r *Router) resolved(ctx context.Context, decision *Decision, pick identification.Candidate, selection Selection, confidence float64) (*Response, *Decision, error) {
	resp, err := r.popularityResponse(ctx, pick, selection, confidence, decision.Country, decision.Window)
	if err != nil {
		return nil, nil, err
	}
	decision.Pick = &pick
	decision.Selection = selection
	decision.Confidence = confidence
	return resp, decision, nil
}

// popularityResponse reads hits, the country breakdown and availability for title.
func (r *Router) popularityResponse(ctx context.Context, title identification.Candidate, selection Selection, confidence float64, country geo.Resolution, window temporal.Range) (*Response, error) {
	from, to := window.From.Format("2006-01-02"), window.To.Format("2006-01-02")
	hits, err := cache.GetOrLoad(ctx, r.data, "popularity.total", []any{title.CatalogUID, country.ISO2, from, to}, nil,
		func(ctx context.Context) (int64, error) {
			return r.store.PopularityTotal(ctx, title.CatalogUID, country.ISO2, window)
		})
	if err != nil {
		return nil, err
	}

	report := &PopularityReport{
		Title:      title,
		Selection:  selection,
		Confidence: confidence,
		Country:    country,
		Range:      window,
		Hits:       hits,
	}
	if !country.Found() {
		report.Breakdown, err = cache.GetOrLoad(ctx, r.data, "popularity.breakdown", []any{title.CatalogUID, from, to, breakdownCountries}, nil,
			func(ctx context.Context) ([]catalog.CountryHits, error) {
				return r.store.CountryBreakdown(ctx, title.CatalogUID, window, breakdownCountries)
			})
		if err != nil {
			return nil, err
		}
	}
	report.Platforms, err = cache.GetOrLoad(ctx, r.data, "metadata.availability", []any{title.CatalogUID, country.ISO2}, nil,
		func(ctx context.Context) ([]string, error) {
			return r.store.Availability(ctx, title.CatalogUID, country.ISO2)
		})
	if err != nil {
		return nil, err
	}

	return &Response{
		Status:     StatusAnswered,
		Text:       formatPopularity(report),
		Popularity: report,
	}, nil
}

// rankingResponse runs a ranking query. An empty list yields no response.
func (r *Router) rankingResponse(ctx context.Context, query catalog.RankingQuery, country geo.Resolution) (*Response, error) {
	rows, err := cache.GetOrLoad(ctx, r.data, "ranking.top",
		[]any{string(query.Kind), query.Country, query.Range.From.Format("2006-01-02"), query.Range.To.Format("2006-01-02"), query.Limit}, nil,
		func(ctx context.Context) ([]catalog.RankedTitle, error) {
			return r.store.TopTitles(ctx, query)
		})
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	result := &RankingResult{
		Kind:    query.Kind,
		Country: country,
		Range:   query.Range,
		Count:   query.Limit,
		Rows:    rows,
	}
	return &Response{
		Status:  StatusAnswered,
		Text:    formatRanking(result),
		Ranking: result,
	}, nil
}

func disambiguationResponse(term string, candidates []identification.Candidate) *Response {
	choices := candidates
	if len(choices) > maxChoices {
		choices = choices[:maxChoices]
	}
	choices = append([]identification.Candidate(nil), choices...)
	payload := &Disambiguation{Term: term, Choices: choices}
	return &Response{
		Status:         StatusNeedsDisambiguation,
		Text:           formatDisambiguation(payload),
		Disambiguation: payload,
	}
}

func (r *Router) guidance(state *requestState) Response {
	notFound := errors.Is(state.miss, services.ErrNotFound)
	status := StatusGuidance
	if notFound {
		status = StatusNotFound
	}
	payload := &Guidance{Text: guidanceText(notFound), Examples: guidanceExamples}
	return Response{
		Route:    RouteGuidance,
		Status:   status,
		Text:     payload.Text,
		Guidance: payload,
	}
}
