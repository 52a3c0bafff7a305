package overview

import (
	"errors"
	"fmt"
	"html"
	"net/url"

	"github.com/nao1215/profilereport/internal/format"
	"github.com/nao1215/profilereport/internal/identity"
	"github.com/nao1215/profilereport/internal/model"
	"github.com/nao1215/profilereport/internal/presentation"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Anchor prefixes. Each section anchor is "<prefix>_<id>" where id is shared
// by all sections built in one DatasetItems call.
const (
	AnchorOverview         = "dataset_overview"
	AnchorDataset          = "dataset"
	AnchorMetadata         = "metadata_dataset"
	AnchorReproduction     = "reproduction"
	AnchorReproductionItem = "overview_reproduction"
	AnchorDefinitions      = "variable_descriptions"
	AnchorDefinitionsTable = "variable_definition_table"
	AnchorWarnings         = "warnings"
)

var titleCaser = cases.Title(language.English)

// statistic is one fixed row of the "Dataset statistics" table.
type statistic struct {
	name    string
	key     string
	fmt     format.Directive
	integer bool
}

var datasetStatistics = []statistic{
	{"Number of variables", "n_var", format.Number, true},
	{"Number of observations", "n", format.Number, true},
	{"Missing cells", "n_cells_missing", format.Number, true},
	{"Missing cells (%)", "p_cells_missing", format.Percent, false},
	{"Duplicate rows", "n_duplicates", format.Number, true},
	{"Duplicate rows (%)", "p_duplicates", format.Percent, false},
	{"Total size in memory", "memory_size", format.Bytesize, false},
	{"Average record size in memory", "record_size", format.Bytesize, false},
}

// Overview builds the dataset statistics and variable type tables.
func Overview(summary *model.Summary, id string) (*presentation.Container, error) {
	rows := make([]presentation.Row, 0, len(datasetStatistics))
	for _, stat := range datasetStatistics {
		var (
			v   any
			err error
		)
		if stat.integer {
			v, err = summary.Int("table", stat.key)
		} else {
			v, err = summary.Float("table", stat.key)
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, presentation.Row{Name: stat.name, Value: v, Fmt: stat.fmt})
	}

	types, err := summary.Entries("table", "types")
	if err != nil {
		return nil, err
	}
	typeRows := make([]presentation.Row, 0, len(types))
	for _, t := range types {
		typeRows = append(typeRows, presentation.Row{Name: t.Key, Value: t.Value, Fmt: format.Numeric})
	}

	return presentation.NewContainer("Overview", identity.Anchor(AnchorOverview, id), presentation.Grid,
		presentation.NewTable("Dataset statistics", "", rows...),
		presentation.NewTable("Variable types", "", typeRows...),
	), nil
}

// Schema builds the "Dataset" section from the metadata. It returns nil when
// no row would be shown.
//
// Row order is fixed: description, creator, author, URL, copyright.
func Schema(metadata model.Metadata, id string) *presentation.Container {
	var rows []presentation.Row

	for _, field := range []struct{ key, value string }{
		{"description", metadata.Description},
		{"creator", metadata.Creator},
		{"author", metadata.Author},
	} {
		if field.value == "" {
			continue
		}
		rows = append(rows, presentation.Row{Name: titleCaser.String(field.key), Value: field.value, Fmt: format.Plain})
	}

	if metadata.URL != "" {
		escaped := html.EscapeString(metadata.URL)
		rows = append(rows, presentation.Row{
			Name:  "URL",
			Value: fmt.Sprintf(`<a href="%s">%s</a>`, escaped, escaped),
			Fmt:   format.Raw,
		})
	}

	if metadata.CopyrightHolder != "" {
		copyright := "(c) " + metadata.CopyrightHolder
		if metadata.CopyrightYear != "" {
			copyright += " " + metadata.CopyrightYear
		}
		rows = append(rows, presentation.Row{Name: "Copyright", Value: copyright, Fmt: format.Plain})
	}

	if len(rows) == 0 {
		return nil
	}

	return presentation.NewContainer("Dataset", identity.Anchor(AnchorDataset, id), presentation.Grid,
		presentation.NewTable("Dataset", identity.Anchor(AnchorMetadata, id), rows...),
	)
}

// Reproduction builds the provenance section: run timestamps, duration,
// engine version and a download link for the configuration used.
//
// Provenance is optional in the summary document: an absent field leaves its
// cell blank, while a field of the wrong kind is an error.
func Reproduction(summary *model.Summary, id string, engine Engine) (*presentation.Container, error) {
	engine = engine.orDefault()

	var p provenance
	for _, f := range []struct {
		dst  *string
		path []string
	}{
		{&p.version, []string{"package", "pandas_profiling_version"}},
		{&p.config, []string{"package", "pandas_profiling_config"}},
		{&p.start, []string{"analysis", "date_start"}},
		{&p.end, []string{"analysis", "date_end"}},
	} {
		v, err := summary.String(f.path...)
		if err != nil && !errors.Is(err, model.ErrMissingKey) {
			return nil, err
		}
		*f.dst = v
	}

	var duration any
	if d, err := summary.Float("analysis", "duration"); err == nil {
		duration = d
	} else if !errors.Is(err, model.ErrMissingKey) {
		return nil, err
	}

	table := presentation.NewTable("Reproduction", identity.Anchor(AnchorReproductionItem, id),
		presentation.Row{Name: "Analysis started", Value: p.start, Fmt: format.Plain},
		presentation.Row{Name: "Analysis finished", Value: p.end, Fmt: format.Plain},
		presentation.Row{Name: "Duration", Value: duration, Fmt: format.Timespan},
		presentation.Row{Name: "Software version", Value: VersionLink(engine, p.version), Fmt: format.Raw},
		presentation.Row{Name: "Download configuration", Value: ConfigLink(p.config), Fmt: format.Raw},
	)

	return presentation.NewContainer("Reproduction", identity.Anchor(AnchorReproduction, id), presentation.Grid, table), nil
}

// provenance is the reproduction data read from the summary.
type provenance struct {
	version string
	config  string
	start   string
	end     string
}

// VersionLink returns the HTML link crediting the engine and its version.
func VersionLink(engine Engine, version string) string {
	engine = engine.orDefault()
	return fmt.Sprintf(`<a href="%s">%s v%s</a>`,
		html.EscapeString(engine.URL), html.EscapeString(engine.Name), html.EscapeString(version))
}

// ConfigDataURI returns a data URI holding config as text. The payload is
// percent-encoded so that url.PathUnescape yields config exactly.
func ConfigDataURI(config string) string {
	return "data:text/plain;charset=utf-8," + url.PathEscape(config)
}

// ConfigLink returns the HTML link that downloads config as config.yaml.
func ConfigLink(config string) string {
	return fmt.Sprintf(`<a download="config.yaml" href="%s">config.yaml</a>`, html.EscapeString(ConfigDataURI(config)))
}

// ColumnDefinitions builds the "Variables" section listing one description
// per column in the given order.
func ColumnDefinitions(definitions model.Descriptions, id string) *presentation.Container {
	rows := make([]presentation.Row, 0, len(definitions))
	for _, d := range definitions {
		rows = append(rows, presentation.Row{Name: d.Column, Value: d.Description, Fmt: format.Plain})
	}

	return presentation.NewContainer("Variables", identity.Anchor(AnchorDefinitions, id), presentation.Grid,
		presentation.NewTable("Variable descriptions", identity.Anchor(AnchorDefinitionsTable, id), rows...),
	)
}

// Warnings wraps all warnings. The count in the title leaves out rejected
// columns, which are still listed.
func Warnings(warnings []model.Warning, id string) *presentation.Warnings {
	items := make([]model.Warning, len(warnings))
	copy(items, warnings)

	return &presentation.Warnings{
		Name:     fmt.Sprintf("Warnings (%d)", model.CountWarnings(warnings)),
		AnchorID: identity.Anchor(AnchorWarnings, id),
		Items:    items,
	}
}

// DatasetItems returns the sections of the Overview tab in display order:
// overview, schema, column definitions, warnings and reproduction.
// Overview and reproduction are always present; the others only when they
// have content. All sections share one identifier drawn from ids.
func DatasetItems(summary *model.Summary, warnings []model.Warning, settings Settings, ids identity.Generator) ([]presentation.Node, error) {
	if ids == nil {
		ids = identity.Default()
	}
	id := ids.NewID()

	overview, err := Overview(summary, id)
	if err != nil {
		return nil, fmt.Errorf("dataset overview: %w", err)
	}
	items := []presentation.Node{overview}

	if settings.Metadata.HasAny() {
		if schema := Schema(settings.Metadata, id); schema != nil {
			items = append(items, schema)
		}
	}

	if len(settings.Descriptions) > 0 {
		items = append(items, ColumnDefinitions(settings.Descriptions, id))
	}

	if len(warnings) > 0 {
		items = append(items, Warnings(warnings, id))
	}

	reproduction, err := Reproduction(summary, id, settings.Engine)
	if err != nil {
		return nil, fmt.Errorf("reproduction: %w", err)
	}
	return append(items, reproduction), nil
}
