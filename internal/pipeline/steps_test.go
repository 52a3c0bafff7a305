package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nao1215/profilereport/internal/catalog"
	"github.com/nao1215/profilereport/internal/config"
	"github.com/nao1215/profilereport/internal/dataset"
	"github.com/nao1215/profilereport/internal/identity"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/overview"
	"github.com/nao1215/profilereport/internal/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSummary = `{
  "table": {"n_var": 2, "n": 100, "n_cells_missing": 0, "p_cells_missing": 0.0,
            "n_duplicates": 0, "p_duplicates": 0.0, "memory_size": 1600,
            "record_size": 16.0, "types": {"Numeric": 2}},
  "variables": {"age": {"type": "Numeric", "mean": 38.5}}
}`

// writeManifest writes two summaries and a manifest grouping them into two
// datasets, the first holding both reports.
func writeManifest(t *testing.T) *config.Manifest {
	t.Helper()

	dir := t.TempDir()
	for _, name := range []string{"all.json", "young.json"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(testSummary), 0o600))
	}
	manifest := `name: census
output: ` + filepath.Join(dir, "census") + `
lineage: A[All Ages] -->|age < 35| B[Young]
datasets:
  - name: All Ages
    reports:
      - title: All
        summary: all.json
      - summary: young.json
  - name: Young
    reports:
      - title: Young
        summary: young.json
`
	path := filepath.Join(dir, "manifest.yaml")
	require.NoError(t, os.WriteFile(path, []byte(manifest), 0o600))

	m, err := config.LoadManifest(path)
	require.NoError(t, err)
	return m
}

func TestLoadSummariesStep(t *testing.T) {
	t.Parallel()

	t.Run("loads each file once", func(t *testing.T) {
		t.Parallel()

		job := NewJob(writeManifest(t), overview.Settings{})
		require.NoError(t, NewLoadSummariesStep(nil).Do(context.Background(), job))
		assert.Len(t, job.Summaries, 2)
	})

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		m := &config.Manifest{Name: "x", DataSets: []config.ManifestDataSet{{
			Name:    "d",
			Reports: []config.ManifestReport{{Summary: filepath.Join(t.TempDir(), "missing.json")}},
		}}}
		err := NewLoadSummariesStep(nil).Do(context.Background(), NewJob(m, overview.Settings{}))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewLoadSummariesStep(nil).Do(ctx, NewJob(writeManifest(t), overview.Settings{}))
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("no manifest", func(t *testing.T) {
		t.Parallel()

		err := NewLoadSummariesStep(nil).Do(context.Background(), &Job{})
		assert.ErrorIs(t, err, ErrMissingInput)
	})
}

func TestBuildProfilesStep(t *testing.T) {
	t.Parallel()

	t.Run("groups profiles by dataset", func(t *testing.T) {
		t.Parallel()

		job := NewJob(writeManifest(t), overview.Settings{})
		require.NoError(t, NewLoadSummariesStep(nil).Do(context.Background(), job))

		step := NewBuildProfilesStep(render.New(nil), WithProfileIDs(identity.NewSequence("id")))
		require.NoError(t, step.Do(context.Background(), job))

		require.Len(t, job.DataSets, 2)
		assert.Equal(t, "All Ages", job.DataSets[0].Name())
		reports := job.DataSets[0].Reports()
		require.Len(t, reports, 2)
		assert.Equal(t, "All", reports[0].Title())
		assert.Equal(t, "young.json", reports[1].Title())
		assert.NotEqual(t, job.DataSets[0].ID(), job.DataSets[1].ID())
	})

	t.Run("summary not loaded", func(t *testing.T) {
		t.Parallel()

		job := NewJob(writeManifest(t), overview.Settings{})
		err := NewBuildProfilesStep(render.New(nil)).Do(context.Background(), job)
		assert.ErrorIs(t, err, ErrMissingInput)
	})
}

func TestStepsRequireInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		step Step
	}{
		{"assemble", NewAssembleStep(nil, nil, nil)},
		{"write", NewWriteStep()},
		{"verify", NewVerifyStep()},
		{"record", NewRecordStep(nil)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.step.Do(context.Background(), &Job{})
			assert.ErrorIs(t, err, ErrMissingInput)
		})
	}
}

func TestVerifyStep(t *testing.T) {
	t.Parallel()

	t.Run("dangling link", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		page := `<html><body><a href="#missing">x</a><div id="present"></div></body></html>`
		require.NoError(t, os.WriteFile(path, []byte(page), 0o600))

		err := NewVerifyStep().Do(context.Background(), &Job{Path: path})
		assert.ErrorIs(t, err, render.ErrDanglingLink)
	})

	t.Run("duplicate id", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "page.html")
		page := `<html><body><div id="a"></div><div id="a"></div></body></html>`
		require.NoError(t, os.WriteFile(path, []byte(page), 0o600))

		err := NewVerifyStep().Do(context.Background(), &Job{Path: path})
		assert.ErrorIs(t, err, render.ErrDuplicateAnchor)
	})
}

func TestRecordStep(t *testing.T) {
	t.Parallel()

	cat, err := catalog.Open(t.TempDir(), catalog.DefaultOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = cat.Close() })

	summary, err := model.ParseSummary([]byte(testSummary))
	require.NoError(t, err)
	profile := dataset.NewProfile("All", summary, overview.Settings{}, dataset.WithIDs(identity.NewSequence("p")))
	ds := dataset.NewDataSet("All Ages", []dataset.Report{profile}, dataset.WithIDs(identity.Fixed("set1")))
	rep := dataset.NewDataSetReport("census", []*dataset.DataSet{ds}, dataset.WithIDs(identity.Fixed("page1")))

	job := &Job{Report: rep, Path: "census.html"}
	require.NoError(t, NewRecordStep(cat).Do(context.Background(), job))
	require.NotZero(t, job.RecordID)

	rec, err := cat.GetPage(context.Background(), job.RecordID)
	require.NoError(t, err)
	assert.Equal(t, "page1", rec.ReportID)
	assert.Equal(t, "census", rec.Name)
	require.Len(t, rec.DataSets, 1)
	assert.Equal(t, "set1", rec.DataSets[0].ID)
	assert.Equal(t, []string{"All"}, rec.DataSets[0].Reports)
}

func TestDefaultPipeline(t *testing.T) {
	t.Parallel()

	t.Run("step names", func(t *testing.T) {
		t.Parallel()

		p := DefaultPipeline(nil, nil)
		assert.Equal(t, []string{"load_summaries", "build_profiles", "assemble", "write", "verify_anchors"}, p.StepNames())
	})

	t.Run("catalog adds record step", func(t *testing.T) {
		t.Parallel()

		cat, err := catalog.Open(t.TempDir(), catalog.DefaultOptions())
		require.NoError(t, err)
		t.Cleanup(func() { _ = cat.Close() })

		p := DefaultPipeline(nil, nil, WithPipelineCatalog(cat))
		names := p.StepNames()
		assert.Equal(t, "record", names[len(names)-1])
	})

	t.Run("writes a verified page and records it", func(t *testing.T) {
		t.Parallel()

		cat, err := catalog.Open(t.TempDir(), catalog.DefaultOptions())
		require.NoError(t, err)
		t.Cleanup(func() { _ = cat.Close() })

		manifest := writeManifest(t)
		job := NewJob(manifest, overview.Settings{})
		p := DefaultPipeline(render.New(nil), nil,
			WithPipelineIDs(identity.NewSequence("id")),
			WithPipelineCatalog(cat),
		)

		require.NoError(t, p.Execute(context.Background(), job))
		assert.Equal(t, manifest.Output+".html", job.Path)
		assert.Len(t, job.PerformedSteps, 6)
		assert.NoError(t, job.Err)

		data, err := os.ReadFile(job.Path)
		require.NoError(t, err)
		page := string(data)
		assert.Contains(t, page, "<title>census</title>")
		assert.Contains(t, page, "graph LR")
		assert.Equal(t, 3, strings.Count(page, `class="dataset-report"`))

		pages, err := cat.PagesByName(context.Background(), "census")
		require.NoError(t, err)
		require.Len(t, pages, 1)
		assert.Equal(t, job.RecordID, pages[0].ID)
		assert.Equal(t, job.Path, pages[0].Path)
	})

	t.Run("failure stops before writing", func(t *testing.T) {
		t.Parallel()

		m := &config.Manifest{Name: "x", Output: filepath.Join(t.TempDir(), "x"), DataSets: []config.ManifestDataSet{{
			Name:    "d",
			Reports: []config.ManifestReport{{Summary: filepath.Join(t.TempDir(), "missing.json")}},
		}}}
		job := NewJob(m, overview.Settings{})

		err := DefaultPipeline(nil, nil).Execute(context.Background(), job)
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
		assert.Empty(t, job.Path)
		_, statErr := os.Stat(m.Output + ".html")
		assert.ErrorIs(t, statErr, os.ErrNotExist)
	})
}
