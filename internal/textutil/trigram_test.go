package textutil

import (
	"math"
	"testing"
)

func TestTrigramsPadWords(t *testing.T) {
	got := Trigrams("Word")
	want := []string{"  w", " wo", "wor", "ord", "rd "}
	if len(got) != len(want) {
		t.Fatalf("Trigrams(word) = %v, want %v", got, want)
	}
	for _, gram := range want {
		if _, ok := got[gram]; !ok {
			t.Fatalf("missing trigram %q in %v", gram, got)
		}
	}
}

func TestSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b string
		want float64
	}{
		{"identical", "The Matrix", "the matrix", 1},
		{"accents fold", "Amélie", "amelie", 1},
		{"punctuation ignored", "Spider-Man", "spider man", 1},
		{"partial", "word", "words", 4.0 / 7.0},
		{"disjoint", "abc", "xyz", 0},
		{"empty", "", "matrix", 0},
		{"symbols only", "!!!", "matrix", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Similarity(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Fatalf("Similarity(%q, %q) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestSimilaritySymmetric(t *testing.T) {
	pairs := [][2]string{{"la casa de papel", "casa de papel"}, {"dark", "darker"}}
	for _, p := range pairs {
		if Similarity(p[0], p[1]) != Similarity(p[1], p[0]) {
			t.Fatalf("Similarity not symmetric for %q / %q", p[0], p[1])
		}
	}
}

func TestCleanTitle(t *testing.T) {
	tests := map[string]string{
		"  El Laberinto del Fauno! ": "el laberinto del fauno",
		"Amélie":                     "amelie",
		"Mission: Impossible 2":      "mission impossible 2",
		"":                           "",
	}
	for in, want := range tests {
		if got := CleanTitle(in); got != want {
			t.Errorf("CleanTitle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestContainsFolded(t *testing.T) {
	if !ContainsFolded("Alfonso Cuarón, Guillermo del Toro", "cuaron") {
		t.Fatal("expected accent-insensitive match")
	}
	if ContainsFolded("Nolan", "") {
		t.Fatal("empty needle must not match")
	}
	if ContainsFolded("Nolan", "Scott") {
		t.Fatal("unexpected match")
	}
}

func TestEqualFold(t *testing.T) {
	if !EqualFold(" TT0133093", "tt0133093") {
		t.Fatal("expected case-insensitive identifier match")
	}
	if EqualFold("", "") {
		t.Fatal("blank identifiers must not match")
	}
}

func TestDisplayTitle(t *testing.T) {
	if got := DisplayTitle("united states"); got != "United States" {
		t.Fatalf("DisplayTitle = %q", got)
	}
}
