package main

import (
	"fmt"
	"strings"
	"testing"
)

func TestRenderStatusLineNoColor(t *testing.T) {
	got := renderStatusLine("answered", statusOK, "ranking", false)
	want := fmt.Sprintf("%-*s %s", statusLabelWidth, "answered:", "[OK] ranking")
	if got != want {
		t.Fatalf("renderStatusLine mismatch\n got: %q\nwant: %q", got, want)
	}
}

func TestRenderStatusLineWithColor(t *testing.T) {
	got := renderStatusLine("not_found", statusError, "title_search", true)
	if !strings.HasPrefix(got, ansiRed) {
		t.Fatalf("expected red prefix, got %q", got)
	}
	if !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected reset suffix, got %q", got)
	}
}

func TestRenderTableAlignsColumns(t *testing.T) {
	out := renderTable([]string{"Country", "Hits"}, [][]string{{"US", "500"}, {"MX"}}, []columnAlignment{alignLeft, alignRight})
	for _, want := range []string{"COUNTRY", "HITS", "US", "500", "MX"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in table:\n%s", want, out)
		}
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty output without headers")
	}
}
