package router

import (
	"regexp"
	"strconv"

	"reelquery/internal/identification"
	"reelquery/internal/textutil"
)

var (
	rankingPattern = regexp.MustCompile(
		`\b(?:top|ranking|most (?:popular|watched|viewed|streamed)|mas (?:populares|vistas|vistos)|(?:las|los) mejores)\b`)
	countPatterns = []*regexp.Regexp{
		regexp.MustCompile(`\btop\s+(\d{1,3})\b`),
		regexp.MustCompile(`\b(\d{1,3})\s+(?:most|mas|best|mejores)\b`),
		regexp.MustCompile(`\b(?:las|los)\s+(\d{1,3})\b`),
		regexp.MustCompile(`\b(\d{1,3})\s+(?:movies|films|series|shows|titles|peliculas|titulos)\b`),
	}
	seriesPattern = regexp.MustCompile(`\b(?:series|serie|shows|show|tv)\b`)
	moviePattern  = regexp.MustCompile(`\b(?:movies|movie|films|film|peliculas|pelicula|filmes)\b`)
)

// rankingIntent is what a ranking question asks for.
type rankingIntent struct {
	count int
	kind  identification.ContentKind
}

// parseRanking reports whether question asks for a ranked list and extracts
// the count and content kind. count is 0 when none was given.
func parseRanking(question string) (rankingIntent, bool) {
	folded := textutil.CleanTitle(question)
	if !rankingPattern.MatchString(folded) {
		return rankingIntent{}, false
	}
	intent := rankingIntent{kind: identification.KindUnknown}
	for _, pattern := range countPatterns {
		if groups := pattern.FindStringSubmatch(folded); len(groups) == 2 {
			if n, err := strconv.Atoi(groups[1]); err == nil {
				intent.count = n
				break
			}
		}
	}
	switch {
	case seriesPattern.MatchString(folded):
		intent.kind = identification.KindSeries
	case moviePattern.MatchString(folded):
		intent.kind = identification.KindMovie
	}
	return intent, true
}

// clampCount applies the default and the upper bound.
func clampCount(count, defaultCount, maxCount int) int {
	if count <= 0 {
		count = defaultCount
	}
	if maxCount > 0 && count > maxCount {
		count = maxCount
	}
	return count
}
