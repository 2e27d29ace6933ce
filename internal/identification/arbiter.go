package identification

import (
	"strings"

	"reelquery/internal/hints"
	"reelquery/internal/textutil"
)

const (
	DefaultAutopickThreshold = 0.94
	DefaultAutopickDelta     = 0.03

	// similarityEpsilon absorbs float error so 0.95-0.92 compares as 0.03.
	similarityEpsilon = 1e-9
)

// Select applies the rule for hint's kind and returns the matching candidate.
// The result is always an element of candidates.
func Select(candidates []Candidate, hint hints.Hint) (Candidate, bool) {
	if len(candidates) == 0 {
		return Candidate{}, false
	}
	switch hint.Kind {
	case hints.KindCatalogID:
		for _, c := range candidates {
			if textutil.EqualFold(c.CatalogUID, hint.Value) {
				return c, true
			}
		}
	case hints.KindExternalID:
		for _, c := range candidates {
			if textutil.EqualFold(c.ExternalID, hint.Value) {
				return c, true
			}
		}
	case hints.KindYear:
		return selectByYear(candidates, hint.Number)
	case hints.KindOrdinal:
		if hint.Number >= 1 && hint.Number <= len(candidates) {
			return candidates[hint.Number-1], true
		}
	case hints.KindDirector:
		for _, c := range candidates {
			if textutil.ContainsFolded(strings.Join(c.Directors, ", "), hint.Value) {
				return c, true
			}
		}
	}
	return Candidate{}, false
}

// selectByYear returns the only candidate from year, or among several the one
// with the highest similarity, earliest in list order on ties.
func selectByYear(candidates []Candidate, year int) (Candidate, bool) {
	best := -1
	for i, c := range candidates {
		if year == 0 || c.ReleaseYear != year {
			continue
		}
		if best < 0 || c.Similarity > candidates[best].Similarity+similarityEpsilon {
			best = i
		}
	}
	if best < 0 {
		return Candidate{}, false
	}
	return candidates[best], true
}

// AutopickPolicy gates automatic selection of the top candidate.
type AutopickPolicy struct {
	Threshold float64
	Delta     float64
}

// DefaultAutopickPolicy returns the 0.94 threshold and 0.03 margin policy.
func DefaultAutopickPolicy() AutopickPolicy {
	return AutopickPolicy{Threshold: DefaultAutopickThreshold, Delta: DefaultAutopickDelta}
}

// Autopick returns the first candidate when its similarity clears the
// threshold and leads the runner-up by at least the delta. A lone candidate's
// margin is its own similarity. candidates must be sorted best first.
func (p AutopickPolicy) Autopick(candidates []Candidate) (Candidate, bool) {
	top, margin, ok := p.Margin(candidates)
	if !ok {
		return Candidate{}, false
	}
	if top.Similarity+similarityEpsilon < p.Threshold {
		return Candidate{}, false
	}
	if margin+similarityEpsilon < p.Delta {
		return Candidate{}, false
	}
	return top, true
}

// Margin returns the top candidate and its lead over the runner-up.
func (p AutopickPolicy) Margin(candidates []Candidate) (Candidate, float64, bool) {
	if len(candidates) == 0 {
		return Candidate{}, 0, false
	}
	top := candidates[0]
	if len(candidates) == 1 {
		return top, top.Similarity, true
	}
	return top, top.Similarity - candidates[1].Similarity, true
}
