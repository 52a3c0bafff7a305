package presentation

import (
	"encoding/json"
	"testing"

	"github.com/nao1215/profilereport/internal/format"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *Root {
	body := NewContainer("Root", "", Sections,
		NewContainer("Overview", "overview", Tabs,
			NewTable("Statistics", "stats_1", Row{Name: "n", Value: 3, Fmt: format.Number}),
			&Warnings{Name: "Warnings (1)", AnchorID: "warnings_1", Items: []model.Warning{{Type: model.MessageTypeMissing, Column: "a"}}},
		),
		NewContainer("Variables", "variables", Accordion),
	)
	return NewRoot("Root", body, &HTML{Content: "<p>footer</p>"})
}

func TestWalk(t *testing.T) {
	t.Parallel()

	t.Run("parents before children", func(t *testing.T) {
		t.Parallel()

		var kinds []Kind
		Walk(sampleTree(), func(n Node) {
			kinds = append(kinds, n.Kind())
		})
		assert.Equal(t, []Kind{KindRoot, KindContainer, KindContainer, KindTable, KindWarnings, KindContainer, KindHTML}, kinds)
	})

	t.Run("nil nodes are skipped", func(t *testing.T) {
		t.Parallel()

		var table *Table
		count := 0
		Walk(NewContainer("c", "", List, table, nil), func(Node) { count++ })
		assert.Equal(t, 1, count)

		Walk(nil, func(Node) { count++ })
		assert.Equal(t, 1, count)
	})
}

func TestAnchors(t *testing.T) {
	t.Parallel()

	root := sampleTree()
	assert.Equal(t, []string{"overview", "stats_1", "warnings_1", "variables"}, Anchors(root))
	require.NoError(t, ValidateAnchors(root))

	root.Body.Items = append(root.Body.Items, NewTable("Again", "stats_1"))
	err := ValidateAnchors(root)
	require.ErrorIs(t, err, ErrDuplicateAnchor)
	assert.Contains(t, err.Error(), "stats_1")
}

func TestFind(t *testing.T) {
	t.Parallel()

	root := sampleTree()

	testCases := []struct {
		name string
		key  string
		want string
	}{
		{"by anchor", "stats_1", "Statistics"},
		{"by name", "Variables", "Variables"},
		{"root by name", "Root", "Root"},
		{"missing", "nope", ""},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			found := Find(root, tc.key)
			if tc.want == "" {
				assert.Nil(t, found)
				return
			}
			require.NotNil(t, found)
			assert.Equal(t, tc.want, Name(found))
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	t.Parallel()

	data, err := json.Marshal(sampleTree())
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "root", doc["type"])

	body := doc["body"].(map[string]any)
	assert.Equal(t, "container", body["type"])
	assert.NotContains(t, body, "anchor_id")

	tab := body["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "tabs", tab["sequence_type"])
	assert.Equal(t, "overview", tab["anchor_id"])

	items := tab["items"].([]any)
	assert.Equal(t, "table", items[0].(map[string]any)["type"])
	assert.Equal(t, "warnings", items[1].(map[string]any)["type"])

	footer := doc["footer"].(map[string]any)
	assert.Equal(t, "html", footer["type"])
	assert.Equal(t, "<p>footer</p>", footer["content"])
}
