package router

import (
	"fmt"
	"strings"
	"time"

	"reelquery/internal/identification"
	"reelquery/internal/temporal"
)

var guidanceExamples = []string{
	"how popular is The Matrix in Mexico",
	"top 10 series 2024",
	"popularity of tt0133093 last year",
	"where can I watch Dark in Germany",
}

func guidanceText(notFound bool) string {
	var b strings.Builder
	if notFound {
		b.WriteString("No catalog title matched the question. ")
	}
	b.WriteString("Ask about the popularity or availability of a title, optionally with a country and a year, or ask for a top list. For example: ")
	b.WriteString(strings.Join(guidanceExamples, "; "))
	b.WriteString(".")
	return b.String()
}

func formatPopularity(report *PopularityReport) string {
	var b strings.Builder
	scope := "worldwide"
	if report.Country.Found() {
		scope = "in " + report.Country.Name
	}
	fmt.Fprintf(&b, "%s had %d hits %s %s.", report.Title.Label(), report.Hits, scope, windowLabel(report.Range))
	if len(report.Breakdown) > 0 {
		parts := make([]string, 0, len(report.Breakdown))
		for _, row := range report.Breakdown {
			parts = append(parts, fmt.Sprintf("%s %d", row.Country, row.Hits))
		}
		fmt.Fprintf(&b, " Top countries: %s.", strings.Join(parts, ", "))
	}
	if len(report.Platforms) > 0 {
		fmt.Fprintf(&b, " Available on %s.", strings.Join(report.Platforms, ", "))
	}
	return b.String()
}

func formatRanking(result *RankingResult) string {
	var b strings.Builder
	scope := "worldwide"
	if result.Country.Found() {
		scope = "in " + result.Country.Name
	}
	fmt.Fprintf(&b, "Top %d %s %s %s:", len(result.Rows), kindLabel(result.Kind), scope, windowLabel(result.Range))
	for _, row := range result.Rows {
		label := row.DisplayTitle
		if row.ReleaseYear > 0 {
			label = fmt.Sprintf("%s (%d)", row.DisplayTitle, row.ReleaseYear)
		}
		fmt.Fprintf(&b, "\n%d. %s, %d hits", row.Rank, label, row.Hits)
	}
	return b.String()
}

func formatDisambiguation(payload *Disambiguation) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Several titles match %q:", payload.Term)
	for i, choice := range payload.Choices {
		fmt.Fprintf(&b, "\n%d. %s", i+1, choice.Label())
		if len(choice.Directors) > 0 {
			fmt.Fprintf(&b, ", directed by %s", strings.Join(choice.Directors, ", "))
		}
	}
	b.WriteString("\nReply with the number, the release year or the director.")
	return b.String()
}

func kindLabel(kind identification.ContentKind) string {
	switch kind {
	case identification.KindMovie:
		return "movies"
	case identification.KindSeries:
		return "series"
	default:
		return "titles"
	}
}

// windowLabel renders a full calendar year as "in 2024" and anything else as
// an explicit date span.
func windowLabel(r temporal.Range) string {
	if r.Year != 0 {
		span := temporal.YearSpan(r.Year)
		if r.From.Equal(span.From) && r.To.Equal(span.To) {
			return fmt.Sprintf("in %d", r.Year)
		}
	}
	return fmt.Sprintf("between %s and %s", r.From.Format(time.DateOnly), r.To.Format(time.DateOnly))
}
