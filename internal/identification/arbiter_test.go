package identification

import (
	"testing"

	"reelquery/internal/hints"
)

func sampleCandidates() []Candidate {
	return []Candidate{
		{CatalogUID: "9f86d081884c7d65aa", ExternalID: "tt0000001", DisplayTitle: "Dune", ReleaseYear: 2021, Directors: []string{"Denis Villeneuve"}, Similarity: 1},
		{CatalogUID: "1b4f0e9851971998bb", ExternalID: "tt0087182", DisplayTitle: "Dune", ReleaseYear: 1984, Directors: []string{"David Lynch"}, Similarity: 1},
		{CatalogUID: "60303ae22b998861cc", ExternalID: "tt1234567", DisplayTitle: "Dune", ReleaseYear: 2000, Directors: []string{"John Harrison"}, Similarity: 0.9},
		{CatalogUID: "fd61a03af4f77d87dd", ExternalID: "tt7654321", DisplayTitle: "Dunes", ReleaseYear: 2000, Directors: []string{"Alfonso Cuarón"}, Similarity: 0.95},
	}
}

func TestSelectExternalIDScenario(t *testing.T) {
	hint, ok := hints.ExtractHint("tt1234567")
	if !ok || hint.Kind != hints.KindExternalID || hint.Value != "tt1234567" {
		t.Fatalf("unexpected hint %+v", hint)
	}
	candidates := sampleCandidates()
	// Position must not matter.
	for shift := 0; shift < len(candidates); shift++ {
		rotated := append(append([]Candidate(nil), candidates[shift:]...), candidates[:shift]...)
		got, ok := Select(rotated, hint)
		if !ok || got.ExternalID != "tt1234567" {
			t.Fatalf("Select(shift=%d) = %+v, %v", shift, got, ok)
		}
	}
}

func TestSelect(t *testing.T) {
	candidates := sampleCandidates()
	tests := []struct {
		name string
		hint hints.Hint
		uid  string
	}{
		{"catalog id case insensitive", hints.CatalogID("1B4F0E9851971998BB"), "1b4f0e9851971998bb"},
		{"external id case insensitive", hints.ExternalID("TT0087182"), "1b4f0e9851971998bb"},
		{"single year", hints.Year(1984), "1b4f0e9851971998bb"},
		{"shared year prefers similarity", hints.Year(2000), "fd61a03af4f77d87dd"},
		{"ordinal", hints.Ordinal(2), "1b4f0e9851971998bb"},
		{"director accent insensitive", hints.Director("cuaron"), "fd61a03af4f77d87dd"},
		{"director substring", hints.Director("Lynch"), "1b4f0e9851971998bb"},
		{"missing year", hints.Year(1950), ""},
		{"ordinal out of range", hints.Ordinal(5), ""},
		{"unknown id", hints.ExternalID("tt9999999"), ""},
		{"no hint", hints.Hint{}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Select(candidates, tt.hint)
			if tt.uid == "" {
				if ok {
					t.Fatalf("expected no selection, got %+v", got)
				}
				return
			}
			if !ok || got.CatalogUID != tt.uid {
				t.Fatalf("Select = %+v, %v; want %s", got, ok, tt.uid)
			}
		})
	}
}

func TestSelectYearTieKeepsListOrder(t *testing.T) {
	candidates := []Candidate{
		{CatalogUID: "a", ReleaseYear: 2010, Similarity: 0.85},
		{CatalogUID: "b", ReleaseYear: 2010, Similarity: 0.85},
	}
	got, ok := Select(candidates, hints.Year(2010))
	if !ok || got.CatalogUID != "a" {
		t.Fatalf("Select = %+v, %v", got, ok)
	}
}

func TestSelectNeverInventsCandidates(t *testing.T) {
	candidates := sampleCandidates()
	hintsToTry := []hints.Hint{hints.Year(2021), hints.Ordinal(1), hints.Director("Denis"), hints.CatalogID("9f86d081884c7d65aa")}
	for _, hint := range hintsToTry {
		got, ok := Select(candidates, hint)
		if !ok {
			t.Fatalf("expected selection for %+v", hint)
		}
		found := false
		for _, c := range candidates {
			if c.CatalogUID == got.CatalogUID {
				found = true
			}
		}
		if !found {
			t.Fatalf("Select returned candidate outside input: %+v", got)
		}
	}
	if _, ok := Select(nil, hints.Ordinal(1)); ok {
		t.Fatal("empty list must not select")
	}
}

func TestAutopick(t *testing.T) {
	policy := DefaultAutopickPolicy()
	tests := []struct {
		name         string
		similarities []float64
		want         bool
	}{
		{"scenario clear winner", []float64{0.95, 0.40}, true},
		{"scenario narrow margin", []float64{0.95, 0.93}, false},
		{"margin exactly delta", []float64{0.95, 0.92}, true},
		{"below threshold", []float64{0.93, 0.10}, false},
		{"single candidate", []float64{0.96}, true},
		{"single below threshold", []float64{0.90}, false},
		{"empty", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := make([]Candidate, len(tt.similarities))
			for i, s := range tt.similarities {
				candidates[i] = Candidate{CatalogUID: string(rune('a' + i)), Similarity: s}
			}
			got, ok := policy.Autopick(candidates)
			if ok != tt.want {
				t.Fatalf("Autopick(%v) ok = %v, want %v", tt.similarities, ok, tt.want)
			}
			if ok && got.CatalogUID != "a" {
				t.Fatalf("Autopick picked %s, want first", got.CatalogUID)
			}
		})
	}
}
