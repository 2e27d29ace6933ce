// Package temporal turns free text into a calendar date window.
package temporal

import (
	"regexp"
	"strconv"
	"time"

	"reelquery/internal/textutil"
)

const (
	minYear = 1900
	maxYear = 2100
)

var (
	yearPattern     = regexp.MustCompile(`\b(\d{4})\b`)
	thisYearPattern = regexp.MustCompile(`\b(?:this year|este ano|en lo que va del ano|so far this year)\b`)
	lastYearPattern = regexp.MustCompile(`\b(?:last year|el ano pasado|ano pasado|past year)\b`)
)

// Range is a closed date window. From and To are midnight UTC of the first
// and last day; Year is the calendar year the window was derived from.
type Range struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
	Year int       `json:"year,omitempty"`
}

// Contains reports whether t falls on a day inside the window.
func (r Range) Contains(t time.Time) bool {
	day := truncateDay(t)
	return !day.Before(r.From) && !day.After(r.To)
}

// Resolver extracts and defaults date windows. Now is injectable for tests.
type Resolver struct {
	Now func() time.Time
}

// NewResolver returns a resolver using the wall clock.
func NewResolver() *Resolver {
	return &Resolver{Now: time.Now}
}

func (r *Resolver) now() time.Time {
	if r == nil || r.Now == nil {
		return time.Now().UTC()
	}
	return r.Now().UTC()
}

// YearSpan returns January 1 through December 31 of year.
func YearSpan(year int) Range {
	return Range{
		From: time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC),
		Year: year,
	}
}

// ExtractDateRange returns the full span of the first year in [1900, 2100]
// mentioned in text, or of a relative phrase such as "last year".
func (r *Resolver) ExtractDateRange(text string) (from, to time.Time, ok bool) {
	for _, groups := range yearPattern.FindAllStringSubmatch(text, -1) {
		year, err := strconv.Atoi(groups[1])
		if err != nil || year < minYear || year > maxYear {
			continue
		}
		span := YearSpan(year)
		return span.From, span.To, true
	}

	folded := textutil.CleanTitle(text)
	current := r.now().Year()
	switch {
	case lastYearPattern.MatchString(folded):
		span := YearSpan(current - 1)
		return span.From, span.To, true
	case thisYearPattern.MatchString(folded):
		span := YearSpan(current)
		return span.From, span.To, true
	}
	return time.Time{}, time.Time{}, false
}

// EnsureRange returns a complete window. A complete input passes through,
// swapped if inverted; anything else yields the current year's full span.
// country is accepted for call symmetry with the country-scoped queries and
// does not change the default.
func (r *Resolver) EnsureRange(from, to *time.Time, country string) Range {
	if from != nil && to != nil && !from.IsZero() && !to.IsZero() {
		start, end := truncateDay(*from), truncateDay(*to)
		if end.Before(start) {
			start, end = end, start
		}
		return Range{From: start, To: end, Year: start.Year()}
	}
	return YearSpan(r.now().Year())
}

// Resolve combines extraction and defaulting for a question.
func (r *Resolver) Resolve(text string, country string) Range {
	from, to, ok := r.ExtractDateRange(text)
	if !ok {
		return r.EnsureRange(nil, nil, country)
	}
	return r.EnsureRange(&from, &to, country)
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
