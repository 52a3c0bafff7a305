package overview

import (
	"errors"
	"html"
	"net/url"
	"strings"
	"testing"

	"github.com/nao1215/profilereport/internal/format"
	"github.com/nao1215/profilereport/internal/identity"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/presentation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalSummary = `{"table": {"n_var": 3, "n": 100, "n_cells_missing": 0, "p_cells_missing": 0.0,
 "n_duplicates": 0, "p_duplicates": 0.0, "memory_size": 240, "record_size": 2.4,
 "types": {"Numeric": 2, "Categorical": 1}}}`

const fullSummary = `
table:
  n_var: 14
  n: 32561
  n_cells_missing: 4262
  p_cells_missing: 0.0093
  n_duplicates: 24
  p_duplicates: 0.0007
  memory_size: 3647032
  record_size: 112.0
  types:
    Numeric: 6
    Categorical: 8
package:
  pandas_profiling_version: "2.9.0"
  pandas_profiling_config: "title: DEMO\nvars: {num: {low_categorical_threshold: 5}}\nurl: a&b=c d%e/f?g#h+i"
analysis:
  date_start: "2020-11-02 10:00:00.000000"
  date_end: "2020-11-02 10:00:12.500000"
  duration: 12.5
messages:
  - message_type: HIGH_CARDINALITY
    column_name: native-country
  - message_type: REJECTED
    column_name: education-num
  - MISSING
`

func mustParse(t *testing.T, doc string) *model.Summary {
	t.Helper()
	s, err := model.ParseSummary([]byte(doc))
	require.NoError(t, err)
	return s
}

func table(t *testing.T, n presentation.Node, index int) *presentation.Table {
	t.Helper()
	c, ok := n.(*presentation.Container)
	require.True(t, ok, "expected container, got %T", n)
	require.Greater(t, len(c.Items), index)
	tbl, ok := c.Items[index].(*presentation.Table)
	require.True(t, ok, "expected table, got %T", c.Items[index])
	return tbl
}

func TestOverview(t *testing.T) {
	t.Parallel()

	t.Run("dataset statistics", func(t *testing.T) {
		t.Parallel()

		c, err := Overview(mustParse(t, minimalSummary), "abc")
		require.NoError(t, err)

		assert.Equal(t, "Overview", c.Name)
		assert.Equal(t, "dataset_overview_abc", c.AnchorID)
		assert.Equal(t, presentation.Grid, c.Sequence)

		stats := table(t, c, 0)
		assert.Equal(t, "Dataset statistics", stats.Name)
		require.Len(t, stats.Rows, 8)

		var names []string
		var directives []format.Directive
		for _, r := range stats.Rows {
			names = append(names, r.Name)
			directives = append(directives, r.Fmt)
		}
		assert.Equal(t, []string{
			"Number of variables", "Number of observations", "Missing cells", "Missing cells (%)",
			"Duplicate rows", "Duplicate rows (%)", "Total size in memory", "Average record size in memory",
		}, names)
		assert.Equal(t, []format.Directive{
			format.Number, format.Number, format.Number, format.Percent,
			format.Number, format.Percent, format.Bytesize, format.Bytesize,
		}, directives)
		assert.Equal(t, "100", stats.Rows[1].Text())
		assert.Equal(t, "240.0 B", stats.Rows[6].Text())
		assert.Equal(t, "2.4 B", stats.Rows[7].Text())
	})

	t.Run("type rows follow mapping order", func(t *testing.T) {
		t.Parallel()

		doc := strings.Replace(minimalSummary, `{"Numeric": 2, "Categorical": 1}`,
			`{"Unsupported": 1, "Categorical": 4, "Boolean": 0, "Numeric": 7}`, 1)
		c, err := Overview(mustParse(t, doc), "abc")
		require.NoError(t, err)

		types := table(t, c, 1)
		assert.Equal(t, "Variable types", types.Name)
		require.Len(t, types.Rows, 4)
		for i, name := range []string{"Unsupported", "Categorical", "Boolean", "Numeric"} {
			assert.Equal(t, name, types.Rows[i].Name)
			assert.Equal(t, format.Numeric, types.Rows[i].Fmt)
		}
		assert.Equal(t, "7", types.Rows[3].Text())
	})

	t.Run("missing key", func(t *testing.T) {
		t.Parallel()

		_, err := Overview(mustParse(t, `{"table": {"n_var": 3}}`), "abc")
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrMissingKey))
		assert.Contains(t, err.Error(), "table.n")
	})

	t.Run("fractional count", func(t *testing.T) {
		t.Parallel()

		doc := strings.Replace(minimalSummary, `"n_var": 3,`, `"n_var": 3.7,`, 1)
		require.NotEqual(t, minimalSummary, doc)
		_, err := Overview(mustParse(t, doc), "abc")
		require.ErrorIs(t, err, model.ErrInvalidValue)
		assert.Contains(t, err.Error(), "table.n_var")
	})
}

func TestSchema(t *testing.T) {
	t.Parallel()

	t.Run("empty metadata yields nothing", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, Schema(model.Metadata{}, "abc"))
	})

	t.Run("year alone yields nothing", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, Schema(model.Metadata{CopyrightYear: "1996"}, "abc"))
	})

	t.Run("fixed row order", func(t *testing.T) {
		t.Parallel()

		c := Schema(model.Metadata{
			URL:             "https://archive.ics.uci.edu/ml/datasets/adult",
			CopyrightHolder: "UCI",
			CopyrightYear:   "1996",
			Author:          "Ronny Kohavi and Barry Becker",
			Creator:         "Barry Becker",
			Description:     "Census income",
		}, "abc")
		require.NotNil(t, c)
		assert.Equal(t, "Dataset", c.Name)
		assert.Equal(t, "dataset_abc", c.AnchorID)

		tbl := table(t, c, 0)
		assert.Equal(t, "metadata_dataset_abc", tbl.AnchorID)
		require.Len(t, tbl.Rows, 5)
		assert.Equal(t, []string{"Description", "Creator", "Author", "URL", "Copyright"},
			[]string{tbl.Rows[0].Name, tbl.Rows[1].Name, tbl.Rows[2].Name, tbl.Rows[3].Name, tbl.Rows[4].Name})
		assert.Equal(t, format.Raw, tbl.Rows[3].Fmt)
		assert.Equal(t, `<a href="https://archive.ics.uci.edu/ml/datasets/adult">https://archive.ics.uci.edu/ml/datasets/adult</a>`, tbl.Rows[3].Value)
		assert.Equal(t, "(c) UCI 1996", tbl.Rows[4].Value)
	})

	t.Run("copyright without year", func(t *testing.T) {
		t.Parallel()

		c := Schema(model.Metadata{CopyrightHolder: "UCI"}, "abc")
		require.NotNil(t, c)
		tbl := table(t, c, 0)
		require.Len(t, tbl.Rows, 1)
		assert.Equal(t, "(c) UCI", tbl.Rows[0].Value)
	})

	t.Run("url is escaped", func(t *testing.T) {
		t.Parallel()

		c := Schema(model.Metadata{URL: `https://example.com/?a=1&b="2"`}, "abc")
		require.NotNil(t, c)
		tbl := table(t, c, 0)
		assert.Equal(t, `<a href="https://example.com/?a=1&amp;b=&#34;2&#34;">https://example.com/?a=1&amp;b=&#34;2&#34;</a>`, tbl.Rows[0].Value)
	})
}

func TestReproduction(t *testing.T) {
	t.Parallel()

	t.Run("five rows", func(t *testing.T) {
		t.Parallel()

		c, err := Reproduction(mustParse(t, fullSummary), "abc", Engine{})
		require.NoError(t, err)
		assert.Equal(t, "reproduction_abc", c.AnchorID)

		tbl := table(t, c, 0)
		assert.Equal(t, "overview_reproduction_abc", tbl.AnchorID)
		require.Len(t, tbl.Rows, 5)
		assert.Equal(t, "Analysis started", tbl.Rows[0].Name)
		assert.Equal(t, "2020-11-02 10:00:00.000000", tbl.Rows[0].Value)
		assert.Equal(t, "Analysis finished", tbl.Rows[1].Name)
		assert.Equal(t, "Duration", tbl.Rows[2].Name)
		assert.Equal(t, "12.5 seconds", tbl.Rows[2].Text())
		assert.Equal(t, `<a href="https://github.com/pandas-profiling/pandas-profiling">pandas-profiling v2.9.0</a>`, tbl.Rows[3].Value)
		assert.Equal(t, "Download configuration", tbl.Rows[4].Name)
		assert.Equal(t, format.Raw, tbl.Rows[4].Fmt)
	})

	t.Run("custom engine", func(t *testing.T) {
		t.Parallel()

		c, err := Reproduction(mustParse(t, fullSummary), "abc", Engine{Name: "ydata-profiling", URL: "https://example.com/ydata"})
		require.NoError(t, err)
		assert.Equal(t, `<a href="https://example.com/ydata">ydata-profiling v2.9.0</a>`, table(t, c, 0).Rows[3].Value)
	})

	t.Run("absent provenance leaves cells blank", func(t *testing.T) {
		t.Parallel()

		c, err := Reproduction(mustParse(t, minimalSummary), "abc", Engine{})
		require.NoError(t, err)
		tbl := table(t, c, 0)
		require.Len(t, tbl.Rows, 5)
		assert.Equal(t, "", tbl.Rows[0].Text())
		assert.Equal(t, "", tbl.Rows[2].Text())
	})

	t.Run("wrong kind is an error", func(t *testing.T) {
		t.Parallel()

		_, err := Reproduction(mustParse(t, `{"analysis": {"duration": "soon"}}`), "abc", Engine{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, model.ErrInvalidValue))
	})
}

func TestConfigDataURIRoundTrip(t *testing.T) {
	t.Parallel()

	testCases := []string{
		"",
		"title: DEMO",
		"a&b=c d%e/f?g#h+i",
		"html:\n  style:\n    theme: flatly\n",
		"unicode: été, 日本語 \"quoted\" <tag>",
		"%25 already %2F encoded",
	}

	for _, config := range testCases {
		config := config
		t.Run(config, func(t *testing.T) {
			t.Parallel()

			uri := ConfigDataURI(config)
			payload, ok := strings.CutPrefix(uri, "data:text/plain;charset=utf-8,")
			require.True(t, ok)
			assert.NotContains(t, payload, " ")
			assert.NotContains(t, payload, "\"")
			assert.NotContains(t, payload, "#")

			decoded, err := url.PathUnescape(payload)
			require.NoError(t, err)
			assert.Equal(t, config, decoded)
		})
	}
}

func TestConfigLink(t *testing.T) {
	t.Parallel()

	link := ConfigLink("a&b")
	assert.Equal(t, `<a download="config.yaml" href="data:text/plain;charset=utf-8,a&amp;b">config.yaml</a>`, link)

	href := strings.TrimSuffix(strings.TrimPrefix(link, `<a download="config.yaml" href="`), `">config.yaml</a>`)
	payload := strings.TrimPrefix(html.UnescapeString(href), "data:text/plain;charset=utf-8,")
	decoded, err := url.PathUnescape(payload)
	require.NoError(t, err)
	assert.Equal(t, "a&b", decoded)
}

func TestColumnDefinitions(t *testing.T) {
	t.Parallel()

	defs := model.Descriptions{
		{Column: "age", Description: "Age of the person"},
		{Column: "workclass", Description: "Employment type"},
	}
	c := ColumnDefinitions(defs, "abc")

	assert.Equal(t, "Variables", c.Name)
	assert.Equal(t, "variable_descriptions_abc", c.AnchorID)
	tbl := table(t, c, 0)
	assert.Equal(t, "Variable descriptions", tbl.Name)
	assert.Equal(t, "variable_definition_table_abc", tbl.AnchorID)
	require.Len(t, tbl.Rows, 2)
	assert.Equal(t, "age", tbl.Rows[0].Name)
	assert.Equal(t, "Employment type", tbl.Rows[1].Value)
}

func TestWarnings(t *testing.T) {
	t.Parallel()

	rejected := model.Warning{Type: model.MessageTypeRejected, Column: "x"}
	missing := model.Warning{Type: model.MessageTypeMissing, Column: "y"}
	constant := model.Warning{Type: model.MessageTypeConstant, Column: "z"}

	testCases := []struct {
		name     string
		warnings []model.Warning
		title    string
	}{
		{"empty", nil, "Warnings (0)"},
		{"only rejected", []model.Warning{rejected}, "Warnings (0)"},
		{"mixed", []model.Warning{missing, rejected, constant}, "Warnings (2)"},
		{"none rejected", []model.Warning{missing, constant}, "Warnings (2)"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			w := Warnings(tc.warnings, "abc")
			assert.Equal(t, tc.title, w.Name)
			assert.Equal(t, "warnings_abc", w.AnchorID)
			assert.Len(t, w.Items, len(tc.warnings))
		})
	}
}

func TestDatasetItems(t *testing.T) {
	t.Parallel()

	t.Run("example scenario", func(t *testing.T) {
		t.Parallel()

		items, err := DatasetItems(mustParse(t, minimalSummary), []model.Warning{}, Settings{}, identity.Fixed("u1"))
		require.NoError(t, err)
		require.Len(t, items, 2)

		assert.Equal(t, "dataset_overview_u1", presentation.AnchorID(items[0]))
		assert.Equal(t, "reproduction_u1", presentation.AnchorID(items[1]))

		types := table(t, items[0], 1)
		require.Len(t, types.Rows, 2)
		assert.Equal(t, "Numeric", types.Rows[0].Name)
		assert.EqualValues(t, 2, types.Rows[0].Value)
		assert.Equal(t, "Categorical", types.Rows[1].Name)
		assert.EqualValues(t, 1, types.Rows[1].Value)
	})

	t.Run("all sections", func(t *testing.T) {
		t.Parallel()

		summary := mustParse(t, fullSummary)
		warnings, err := summary.Warnings()
		require.NoError(t, err)

		settings := Settings{
			Metadata:     model.Metadata{Creator: "Barry Becker"},
			Descriptions: model.Descriptions{{Column: "age", Description: "Age"}},
		}
		items, err := DatasetItems(summary, warnings, settings, identity.Fixed("u1"))
		require.NoError(t, err)
		require.Len(t, items, 5)

		assert.Equal(t, []string{"Overview", "Dataset", "Variables", "Warnings (2)", "Reproduction"},
			[]string{
				presentation.Name(items[0]), presentation.Name(items[1]), presentation.Name(items[2]),
				presentation.Name(items[3]), presentation.Name(items[4]),
			})
	})

	t.Run("one identifier per call", func(t *testing.T) {
		t.Parallel()

		ids := identity.NewSequence("r")
		summary := mustParse(t, fullSummary)
		settings := Settings{Metadata: model.Metadata{Author: "A"}}

		first, err := DatasetItems(summary, nil, settings, ids)
		require.NoError(t, err)
		second, err := DatasetItems(summary, nil, settings, ids)
		require.NoError(t, err)

		for _, n := range first {
			assert.True(t, strings.HasSuffix(presentation.AnchorID(n), "_r1"), presentation.AnchorID(n))
		}
		for _, n := range second {
			assert.True(t, strings.HasSuffix(presentation.AnchorID(n), "_r2"), presentation.AnchorID(n))
		}

		root := presentation.NewContainer("Overview", "overview", presentation.Tabs, first...)
		require.NoError(t, presentation.ValidateAnchors(root))
	})

	t.Run("fresh nodes each call", func(t *testing.T) {
		t.Parallel()

		summary := mustParse(t, minimalSummary)
		a, err := DatasetItems(summary, nil, Settings{}, identity.Fixed("x"))
		require.NoError(t, err)
		b, err := DatasetItems(summary, nil, Settings{}, identity.Fixed("x"))
		require.NoError(t, err)

		assert.Equal(t, a, b)
		assert.NotSame(t, a[0], b[0])
	})

	t.Run("missing table", func(t *testing.T) {
		t.Parallel()

		_, err := DatasetItems(mustParse(t, `{"package": {}}`), nil, Settings{}, identity.Fixed("x"))
		require.ErrorIs(t, err, model.ErrMissingKey)
	})
}
