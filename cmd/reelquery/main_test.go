package main

import (
	"encoding/json"
	"strings"
	"testing"

	"reelquery/internal/identification"
	"reelquery/internal/router"
	"reelquery/internal/testsupport"
)

func TestCatalogImportAndStats(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"catalog", "import", env.datasetPath}, env.configPath)
	if err != nil {
		t.Fatalf("catalog import: %v", err)
	}
	requireContains(t, out, "Imported 7 titles")

	out, _, err = runCLI(t, []string{"catalog", "stats"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog stats: %v", err)
	}
	requireContains(t, out, "popularity")
	requireContains(t, out, "12")

	out, _, err = runCLI(t, []string{"catalog", "stats", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("catalog stats --json: %v", err)
	}
	var stats struct {
		Titles int64
	}
	if err := json.Unmarshal([]byte(out), &stats); err != nil {
		t.Fatalf("decode stats: %v\n%s", err, out)
	}
	if stats.Titles != 7 {
		t.Fatalf("expected 7 titles, got %d", stats.Titles)
	}
}

func TestCatalogImportRejectsMissingFile(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"catalog", "import", env.baseDir + "/missing.json"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "open dataset") {
		t.Fatalf("expected open dataset error, got %v", err)
	}
}

func TestAskRankingText(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importFixture(t)

	out, _, err := runCLI(t, []string{"ask", "top", "10", "series", "2024"}, env.configPath)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	requireContains(t, out, "[OK] ranking")
	requireContains(t, out, "1. La Casa de Papel")
	requireContains(t, out, "Breaking Bad")
}

func TestAskIdentifierJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importFixture(t)

	out, _, err := runCLI(t, []string{
		"ask", "--json", "--uid", testsupport.MatrixUID,
		"--from", "2024-01-01", "--to", "2024-12-31",
		"how popular is it",
	}, env.configPath)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	var resp router.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode response: %v\n%s", err, out)
	}
	if resp.Route != router.RouteIdentifier || resp.Status != router.StatusAnswered {
		t.Fatalf("unexpected route/status %s/%s", resp.Route, resp.Status)
	}
	if resp.Popularity == nil || resp.Popularity.Hits != 800 {
		t.Fatalf("expected 800 hits, got %+v", resp.Popularity)
	}
	if resp.RequestID == "" {
		t.Fatal("expected request id")
	}
}

func TestAskDisambiguationAndChoice(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importFixture(t)

	out, _, err := runCLI(t, []string{"ask", "how popular is Roma"}, env.configPath)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	requireContains(t, out, "needs_disambiguation")
	requireContains(t, out, "Federico Fellini")

	out, _, err = runCLI(t, []string{"ask", "--json", "--choose", "1972", "how popular is Roma"}, env.configPath)
	if err != nil {
		t.Fatalf("ask --choose: %v", err)
	}
	var resp router.Response
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Popularity == nil || resp.Popularity.Title.CatalogUID != testsupport.RomaFelliniUID {
		t.Fatalf("expected Fellini's Roma, got %+v", resp.Popularity)
	}
}

func TestAskGuidanceAndMetrics(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importFixture(t)

	out, _, err := runCLI(t, []string{"ask", "--metrics", "hello", "there"}, env.configPath)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	requireContains(t, out, "[INFO] guidance")
	requireContains(t, out, "reelquery_route_total")
}

func TestAskRejectsHalfWindow(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"ask", "--from", "2024-01-01", "how popular is Dark"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "--from and --to") {
		t.Fatalf("expected window error, got %v", err)
	}
}

func TestSearchCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	env.importFixture(t)

	out, _, err := runCLI(t, []string{"search", "--json", "the", "matrix"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var candidates []identification.Candidate
	if err := json.Unmarshal([]byte(out), &candidates); err != nil {
		t.Fatalf("decode candidates: %v\n%s", err, out)
	}
	if len(candidates) == 0 || candidates[0].CatalogUID != testsupport.MatrixUID {
		t.Fatalf("expected The Matrix first, got %+v", candidates)
	}

	out, _, err = runCLI(t, []string{"search", "zzyzx"}, env.configPath)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	requireContains(t, out, "No titles at or above similarity")
}

func TestGuardCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"guard", "check", "SELECT uid FROM titles"}, env.configPath)
	if err != nil {
		t.Fatalf("guard check: %v", err)
	}
	requireContains(t, out, "[OK] accepted")

	out, _, err = runCLI(t, []string{"guard", "check", "DELETE FROM titles"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "query rejected") {
		t.Fatalf("expected rejection, got %v", err)
	}
	requireContains(t, out, "[ERROR]")

	out, _, err = runCLI(t, []string{"guard", "tables"}, env.configPath)
	if err != nil {
		t.Fatalf("guard tables: %v", err)
	}
	requireContains(t, out, "popularity")
}
