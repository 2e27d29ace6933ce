package router

import (
	"testing"

	"reelquery/internal/identification"
)

func TestParseRanking(t *testing.T) {
	tests := []struct {
		question string
		ok       bool
		count    int
		kind     identification.ContentKind
	}{
		{"top 10 series 2024", true, 10, identification.KindSeries},
		{"Top 5 movies in Mexico", true, 5, identification.KindMovie},
		{"most watched shows last year", true, 0, identification.KindSeries},
		{"las 3 películas más vistas", true, 3, identification.KindMovie},
		{"ranking", true, 0, identification.KindUnknown},
		{"how popular is Dark", false, 0, identification.KindUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			intent, ok := parseRanking(tt.question)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if intent.count != tt.count || intent.kind != tt.kind {
				t.Fatalf("intent = %+v", intent)
			}
		})
	}
}

func TestClampCount(t *testing.T) {
	tests := []struct{ in, want int }{{0, 10}, {-3, 10}, {7, 7}, {50, 50}, {51, 50}}
	for _, tt := range tests {
		if got := clampCount(tt.in, 10, 50); got != tt.want {
			t.Errorf("clampCount(%d) = %d, want %d", tt.in, got, tt.want)
		}
	}
}
