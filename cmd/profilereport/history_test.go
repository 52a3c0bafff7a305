package main

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/profilereport/internal/catalog"
)

// seedCatalog records two pages named census and one named income.
func seedCatalog(t *testing.T, dir string) {
	t.Helper()

	cat, err := catalog.Open(dir, catalog.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open catalog: %v", err)
	}
	defer cat.Close()

	records := []*catalog.PageRecord{
		{ReportID: "r1", Name: "census", Path: "census.html", Lineage: "graph LR\nA --> B",
			DataSets: []catalog.DataSetEntry{{Name: "All Ages", ID: "d1", Reports: []string{"All ages"}}}},
		{ReportID: "r2", Name: "income", Path: "income.html"},
		{ReportID: "r3", Name: "census", Path: "out/census.html"},
	}
	for _, rec := range records {
		if _, err := cat.RecordPage(context.Background(), rec); err != nil {
			t.Fatalf("failed to record page: %v", err)
		}
	}
}

func TestRunHistoryCmd(t *testing.T) {
	t.Parallel()

	t.Run("empty catalog", func(t *testing.T) {
		t.Parallel()

		stdout, err := runCmd(t, NewHistoryCmd(), "--db-dir", t.TempDir())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "No dataset pages recorded.") {
			t.Errorf("unexpected output: %q", stdout)
		}
	})

	t.Run("lists all pages", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedCatalog(t, dir)

		stdout, err := runCmd(t, NewHistoryCmd(), "--db-dir", dir)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Dataset pages (3)") {
			t.Errorf("unexpected output: %q", stdout)
		}
		if !strings.Contains(stdout, "income.html") {
			t.Errorf("expected income page: %q", stdout)
		}
	})

	t.Run("limit", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedCatalog(t, dir)

		stdout, err := runCmd(t, NewHistoryCmd(), "--db-dir", dir, "-n", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(stdout, "Dataset pages (1)") {
			t.Errorf("unexpected output: %q", stdout)
		}
	})

	t.Run("filters by name as json", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedCatalog(t, dir)

		stdout, err := runCmd(t, NewHistoryCmd(), "--db-dir", dir, "--json", "census")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var records []catalog.PageRecord
		if err := json.Unmarshal([]byte(stdout), &records); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("expected 2 census pages, got %d", len(records))
		}
		for _, rec := range records {
			if rec.Name != "census" {
				t.Errorf("unexpected page %q", rec.Name)
			}
		}
	})

	t.Run("shows one page", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		seedCatalog(t, dir)

		stdout, err := runCmd(t, NewHistoryCmd(), "--db-dir", dir, "--id", "1")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, want := range []string{"Page #1: census", "Report ID: r1", "A --> B", "All Ages (d1)", "All ages"} {
			if !strings.Contains(stdout, want) {
				t.Errorf("expected %q in output: %q", want, stdout)
			}
		}
	})

	t.Run("unknown id", func(t *testing.T) {
		t.Parallel()

		_, err := runCmd(t, NewHistoryCmd(), "--db-dir", filepath.Join(t.TempDir(), "db"), "--id", "42")
		if !errors.Is(err, catalog.ErrPageNotFound) {
			t.Errorf("expected ErrPageNotFound, got %v", err)
		}
	})
}
