package geo

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"

	"reelquery/internal/textutil"
)

//go:embed countries.json
var countriesJSON []byte

// DatasetEntry is one row of the country table keyed by English name.
type DatasetEntry struct {
	ISO2    string   `json:"iso2"`
	NameES  string   `json:"name_es"`
	Aliases []string `json:"aliases"`
}

// Country is a canonical country record.
type Country struct {
	ISO2   string
	Name   string
	NameES string
}

// Resolution is the outcome of Guess. The zero value means no country.
type Resolution struct {
	ISO2 string `json:"iso2,omitempty"`
	Name string `json:"name,omitempty"`
	// Matched is the folded phrase or lowercased code that matched.
	Matched string `json:"-"`
}

// Found reports whether a country was resolved.
func (r Resolution) Found() bool {
	return r.ISO2 != ""
}

// Resolver matches country names, aliases and codes.
type Resolver struct {
	phrases []string           // folded phrases, longest first
	byKey   map[string]Country // folded phrase -> country
	byISO   map[string]Country
}

var isoTokenPattern = regexp.MustCompile(`\b[A-Za-z]{2}\b`)

// shoutWords are two-letter words that read as country codes in all-caps text.
var shoutWords = map[string]struct{}{
	"IN": {}, "EN": {}, "DE": {}, "OF": {}, "TO": {}, "IS": {}, "ES": {}, "AT": {},
	"IT": {}, "NO": {}, "BE": {}, "ME": {}, "MY": {}, "ON": {}, "OR": {}, "SO": {},
	"UP": {}, "AN": {}, "AS": {}, "BY": {}, "DO": {}, "EL": {}, "LA": {}, "LO": {},
	"SE": {}, "SI": {}, "TV": {},
}

// New builds a resolver from the embedded country table.
func New() (*Resolver, error) {
	return NewFromJSON(countriesJSON)
}

// NewFromJSON builds a resolver from a JSON object keyed by English country name.
func NewFromJSON(data []byte) (*Resolver, error) {
	raw := map[string]DatasetEntry{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode country table: %w", err)
	}

	r := &Resolver{
		byKey: make(map[string]Country, len(raw)*3),
		byISO: make(map[string]Country, len(raw)),
	}
	for name, entry := range raw {
		name = strings.TrimSpace(name)
		iso := strings.ToUpper(strings.TrimSpace(entry.ISO2))
		if name == "" || len(iso) != 2 {
			continue
		}
		country := Country{ISO2: iso, Name: name, NameES: strings.TrimSpace(entry.NameES)}
		r.byISO[iso] = country

		add := func(s string) {
			key := textutil.CleanTitle(s)
			if key == "" {
				return
			}
			if _, exists := r.byKey[key]; !exists {
				r.byKey[key] = country
				r.phrases = append(r.phrases, key)
			}
		}
		add(name)
		add(country.NameES)
		for _, alias := range entry.Aliases {
			add(alias)
		}
	}
	if len(r.byISO) == 0 {
		return nil, fmt.Errorf("country table is empty")
	}

	// Longer phrases first so "south korea" wins over "korea".
	sort.Slice(r.phrases, func(i, j int) bool {
		if len(r.phrases[i]) == len(r.phrases[j]) {
			return r.phrases[i] < r.phrases[j]
		}
		return len(r.phrases[i]) > len(r.phrases[j])
	})
	return r, nil
}

// Guess resolves the country mentioned in text.
func (r *Resolver) Guess(text string) Resolution {
	if r == nil || strings.TrimSpace(text) == "" {
		return Resolution{}
	}
	key := textutil.CleanTitle(text)
	if country, ok := r.byKey[key]; ok {
		return resolution(country, key)
	}

	padded := " " + key + " "
	for _, phrase := range r.phrases {
		if strings.Contains(padded, " "+phrase+" ") {
			return resolution(r.byKey[phrase], phrase)
		}
	}

	shouting := !strings.ContainsFunc(text, unicode.IsLower)
	tokens := isoTokenPattern.FindAllString(text, -1)
	for i := len(tokens) - 1; i >= 0; i-- {
		token := tokens[i]
		if token != strings.ToUpper(token) {
			continue
		}
		if _, skip := shoutWords[token]; skip && shouting {
			continue
		}
		if country, ok := r.byISO[token]; ok {
			return resolution(country, strings.ToLower(token))
		}
	}
	return Resolution{}
}

// Match reports the phrase that resolved a country in text. It has the
// shape of hints.CountryFunc.
func (r *Resolver) Match(text string) (string, bool) {
	res := r.Guess(text)
	return res.Matched, res.Found()
}

// Lookup returns the country for an ISO2 code in any case.
func (r *Resolver) Lookup(iso2 string) (Country, bool) {
	if r == nil {
		return Country{}, false
	}
	country, ok := r.byISO[strings.ToUpper(strings.TrimSpace(iso2))]
	return country, ok
}

func resolution(country Country, matched string) Resolution {
	return Resolution{ISO2: country.ISO2, Name: country.Name, Matched: matched}
}
