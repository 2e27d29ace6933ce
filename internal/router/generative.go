package router

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"reelquery/internal/logging"
	"reelquery/internal/services"
	"reelquery/internal/sqlguard"
)

// Generative is the optional text collaborator. Implementations live outside
// this module; a nil Generative disables every route that needs one.
type Generative interface {
	// Rewrite returns free text for prompt.
	Rewrite(ctx context.Context, prompt string) (string, error)
	// Classify returns a single label for prompt.
	Classify(ctx context.Context, prompt string) (string, error)
}

const (
	labelSQL = "sql"

	classifyPrompt = `Decide whether the question can be answered with one read-only SQL query over the tables below. Reply with exactly "sql" or "other".

Tables:
%s
Question: %s`

	draftSQLPrompt = `Write one SQLite SELECT statement answering the question. Use only these tables and columns, no comments, at most %d rows. Reply with the statement only.

Tables:
%s
Question: %s`

	fallbackPrompt = `Answer the question about a film and series catalog in two sentences or fewer. If it cannot be answered, say so.

Question: %s`

	polishPrompt = `Rewrite the answer below so it reads naturally. Keep every title, number, country and date unchanged. Reply with the rewritten answer only.

Answer: %s`
)

var codeFencePattern = regexp.MustCompile("(?s)^```[a-zA-Z]*\\s*(.*?)\\s*```$")

// generatedSQLRoute asks the collaborator for a query and runs it only if the
// gate accepts it.
func (r *Router) generatedSQLRoute(ctx context.Context, state *requestState) (*Response, *Decision, error) {
	if !r.cfg.Features.ExperimentalSQL || r.generative == nil || state.question == "" {
		return nil, nil, nil
	}
	logger := logging.WithContext(ctx, r.logger)
	schema := r.gate.Policy().Describe()

	label, err := r.generative.Classify(ctx, fmt.Sprintf(classifyPrompt, schema, state.question))
	if err != nil {
		return nil, nil, services.Wrap(services.ErrGenerativeUnavailable, "router", "classify", "classification failed", err)
	}
	if !strings.EqualFold(strings.TrimSpace(label), labelSQL) {
		logger.Debug("question not classified as data query", logging.String("label", strings.TrimSpace(label)))
		return nil, nil, nil
	}

	maxRows := r.cfg.Guard.MaxRows
	draft, err := r.generative.Rewrite(ctx, fmt.Sprintf(draftSQLPrompt, maxRows, schema, state.question))
	if err != nil {
		return nil, nil, services.Wrap(services.ErrGenerativeUnavailable, "router", "draft query", "query drafting failed", err)
	}
	query, err := r.gate.Validate(stripCodeFence(draft))
	if err != nil {
		var rejection *sqlguard.RejectionError
		reason := "unknown"
		if errors.As(err, &rejection) {
			reason = rejection.Reason
		}
		logging.WarnWithContext(logger, "generated query rejected", "guard_rejection",
			logging.String("reason", reason),
			logging.String(logging.FieldErrorHint, "query discarded; rejected text is not logged"),
		)
		return nil, nil, nil
	}

	rows, err := r.store.Run(ctx, query)
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}
	kept := sqlguard.Truncate(rows, maxRows)
	payload := &QueryRows{Rows: kept, Truncated: len(kept) < len(rows)}
	return &Response{
		Status: StatusAnswered,
		Text:   fmt.Sprintf("The query returned %d rows.", len(kept)),
		Rows:   payload,
	}, nil, nil
}

// generativeRoute defers the whole question to the collaborator.
func (r *Router) generativeRoute(ctx context.Context, state *requestState) (*Response, *Decision, error) {
	if !r.cfg.Features.GenerativeFallback || r.generative == nil || state.question == "" {
		return nil, nil, nil
	}
	text, err := r.generative.Rewrite(ctx, fmt.Sprintf(fallbackPrompt, state.question))
	if err != nil {
		return nil, nil, services.Wrap(services.ErrGenerativeUnavailable, "router", "fallback", "generative answer failed", err)
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, nil, nil
	}
	return &Response{
		Status:     StatusAnswered,
		Text:       text,
		Generative: &GenerativeAnswer{Text: text},
	}, nil, nil
}

// finish polishes deterministic answers when enabled. Failures keep the
// deterministic text.
func (r *Router) finish(ctx context.Context, resp Response) Response {
	if !r.cfg.Features.PolishAnswers || r.generative == nil || resp.Status != StatusAnswered {
		return resp
	}
	switch resp.Route {
	case RouteIdentifier, RouteRanking, RouteTitleSearch:
	default:
		return resp
	}
	polished, err := r.generative.Rewrite(ctx, fmt.Sprintf(polishPrompt, resp.Text))
	if err != nil {
		logging.WithContext(ctx, r.logger).Debug("answer polishing failed",
			logging.String(logging.FieldImpact, "deterministic text kept"),
			logging.Error(err))
		return resp
	}
	if polished = strings.TrimSpace(polished); polished != "" {
		resp.Text = polished
	}
	return resp
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	if groups := codeFencePattern.FindStringSubmatch(text); len(groups) == 2 {
		return strings.TrimSpace(groups[1])
	}
	return text
}
