package hints

import (
	"regexp"
	"sort"
	"strings"

	"reelquery/internal/textutil"
)

// CountryFunc reports the country phrase found in text, in folded form, such
// as "mexico" or "mx". geo.Resolver.Match satisfies it.
type CountryFunc func(text string) (phrase string, ok bool)

// stopPhrases are removed anywhere in the folded question. They describe
// availability, synopsis and popularity wording in English and Spanish.
var stopPhrases = sortedByLength([]string{
	// popularity
	"how popular is", "how popular was", "how popular are", "how popular",
	"what is the popularity of", "what's the popularity of", "whats the popularity of",
	"popularity of", "the popularity of", "popularity for", "popularity",
	"how many hits does", "how many hits did", "how many hits", "how many views does",
	"how many views did", "how many views", "how many plays", "number of hits",
	"hits for", "hits of", "views of", "views for", "hits", "views", "plays",
	"is it popular", "is popular", "popular",
	"que tan popular es", "que tan popular fue", "que tan popular", "cual es la popularidad de",
	"popularidad de", "la popularidad de", "popularidad", "cuantas visitas tiene",
	"cuantas visitas tuvo", "cuantas vistas tiene", "cuantas vistas tuvo",
	"cuantas reproducciones tiene", "cuantas reproducciones tuvo", "cuantas visitas",
	"cuantas vistas", "cuantas reproducciones", "visitas de", "vistas de",
	"reproducciones de", "visitas", "vistas", "reproducciones", "es popular",
	// availability
	"where can i watch", "where can i stream", "where can i see", "where to watch",
	"where to stream", "where is", "is it available", "is available", "available on",
	"available in", "availability of", "availability", "available", "streaming on",
	"donde puedo ver", "donde ver", "donde esta disponible", "donde se puede ver",
	"esta disponible", "disponibilidad de", "disponibilidad", "disponible",
	// synopsis
	"what is it about", "what is the plot of", "synopsis of", "synopsis", "plot of",
	"tell me about", "summary of", "de que trata", "sinopsis de", "sinopsis",
	"resumen de", "argumento de",
	// framing
	"the movie", "the film", "the series", "the show", "tv show", "tv series",
	"la pelicula", "el filme", "la serie", "el programa", "pelicula", "serie",
})

// edgeWords are dropped only when they lead or trail the residue so titles
// like "pirates of the caribbean" keep their inner words.
var edgeWords = map[string]struct{}{
	"in": {}, "en": {}, "of": {}, "de": {}, "del": {}, "for": {}, "para": {},
	"is": {}, "es": {}, "was": {}, "fue": {}, "are": {}, "does": {}, "did": {},
	"has": {}, "have": {}, "tiene": {}, "tuvo": {}, "on": {}, "from": {},
	"what": {}, "que": {}, "cual": {}, "how": {}, "about": {}, "sobre": {},
	"movie": {}, "film": {}, "series": {}, "show": {}, "me": {}, "tell": {},
	"it": {},
}

// ExtractTitleQuery removes question phrasing from text and returns the folded
// residue. When stripCountry is set and countryFn resolves a country, the
// country phrase and its leading preposition are removed too. Returns false
// when nothing remains.
func ExtractTitleQuery(text string, stripCountry bool, countryFn CountryFunc) (string, bool) {
	folded := " " + textutil.CleanTitle(Normalize(text)) + " "
	if strings.TrimSpace(folded) == "" {
		return "", false
	}

	if stripCountry && countryFn != nil {
		if phrase, ok := countryFn(text); ok {
			phrase = textutil.CleanTitle(phrase)
			if phrase != "" {
				pattern := regexp.MustCompile(`\s(?:(?:in|en|from|de|del)\s)?` + regexp.QuoteMeta(phrase) + `\s`)
				folded = pattern.ReplaceAllString(folded, " ")
			}
		}
	}

	for _, phrase := range stopPhrases {
		needle := " " + phrase + " "
		for strings.Contains(folded, needle) {
			folded = strings.Replace(folded, needle, " ", 1)
		}
	}

	words := strings.Fields(folded)
	for len(words) > 0 {
		if _, ok := edgeWords[words[0]]; !ok {
			break
		}
		words = words[1:]
	}
	for len(words) > 0 {
		if _, ok := edgeWords[words[len(words)-1]]; !ok {
			break
		}
		words = words[:len(words)-1]
	}

	residue := strings.Join(words, " ")
	if residue == "" {
		return "", false
	}
	return residue, true
}

func sortedByLength(phrases []string) []string {
	out := append([]string(nil), phrases...)
	sort.SliceStable(out, func(i, j int) bool {
		return len(out[i]) > len(out[j])
	})
	return out
}
