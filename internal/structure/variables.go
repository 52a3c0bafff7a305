package structure

import (
	"strconv"
	"strings"

	"github.com/nao1215/profilereport/internal/format"
	"github.com/nao1215/profilereport/internal/identity"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/presentation"
)

// VariablesSection produces the items of the "Variables" accordion.
type VariablesSection interface {
	Variables(summary *model.Summary, ids identity.Generator) ([]presentation.Node, error)
}

// VariablesFunc adapts a function to VariablesSection.
type VariablesFunc func(summary *model.Summary, ids identity.Generator) ([]presentation.Node, error)

// Variables calls f.
func (f VariablesFunc) Variables(summary *model.Summary, ids identity.Generator) ([]presentation.Node, error) {
	return f(summary, ids)
}

// DefaultVariables lists every entry of summary.variables as a grid holding
// one table of the variable's scalar statistics. Nested values such as
// histograms and value counts are skipped.
type DefaultVariables struct{}

// Variables implements VariablesSection.
func (DefaultVariables) Variables(summary *model.Summary, ids identity.Generator) ([]presentation.Node, error) {
	if !summary.Has("variables") {
		return []presentation.Node{}, nil
	}

	names, err := summary.Keys("variables")
	if err != nil {
		return nil, err
	}

	id := ids.NewID()
	items := make([]presentation.Node, 0, len(names))
	for i, name := range names {
		entries, err := summary.Entries("variables", name)
		if err != nil {
			return nil, err
		}

		rows := make([]presentation.Row, 0, len(entries))
		for _, e := range entries {
			directive, ok := statisticFormat(e.Key, e.Value)
			if !ok {
				continue
			}
			rows = append(rows, presentation.Row{Name: e.Key, Value: e.Value, Fmt: directive})
		}

		suffix := strconv.Itoa(i) + "_" + id
		items = append(items, presentation.NewContainer(name, identity.Anchor("variable", suffix), presentation.Grid,
			presentation.NewTable(name, identity.Anchor("variable_statistics", suffix), rows...),
		))
	}
	return items, nil
}

// statisticFormat picks the directive for one variable statistic.
// It returns false for values that are not scalars.
func statisticFormat(key string, v any) (format.Directive, bool) {
	switch v.(type) {
	case map[string]any, []any:
		return "", false
	case int, int64, float64:
		switch {
		case strings.HasPrefix(key, "p_"):
			return format.Percent, true
		case key == "memory_size":
			return format.Bytesize, true
		default:
			return format.Numeric, true
		}
	default:
		return format.Plain, true
	}
}
