package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/nao1215/profilereport/internal/catalog"
	"github.com/nao1215/profilereport/internal/config"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is the number of pages listed without --limit.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [name]",
		Short: "List dataset pages recorded in the catalog",
		Long: `History lists the dataset pages written by 'profilereport dataset',
newest first.

Examples:
  # List the most recent pages
  profilereport history

  # List every page written for the "census" manifest
  profilereport history census

  # Show one page with its datasets and reports
  profilereport history --id 3

  # Machine-readable output
  profilereport history --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of pages to list (0 lists all)")
	cmd.Flags().Int64P("id", "i", 0,
		"Show the page with this catalog id")
	cmd.Flags().BoolP("json", "j", false,
		"Output the records as JSON")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Catalog directory")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	setupLogger(getVerboseFlag(cmd))

	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}

	cat, err := catalog.Open(dbDir, catalog.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open catalog: %w", err)
	}
	defer cat.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	if id != 0 {
		rec, err := cat.GetPage(ctx, id)
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(out, rec)
		}
		printPage(out, rec)
		return nil
	}

	var records []catalog.PageRecord
	if len(args) == 1 {
		records, err = cat.PagesByName(ctx, args[0])
		if err == nil && limit > 0 && len(records) > limit {
			records = records[:limit]
		}
	} else {
		records, err = cat.ListPages(ctx, limit)
	}
	if err != nil {
		return fmt.Errorf("failed to list pages: %w", err)
	}

	if jsonOutput {
		return writeJSON(out, records)
	}
	printHistory(out, records)
	return nil
}

// printHistory lists records as a table.
func printHistory(out io.Writer, records []catalog.PageRecord) {
	if len(records) == 0 {
		fmt.Fprintln(out, "No dataset pages recorded.")
		fmt.Fprintln(out, "\nUse 'profilereport dataset <manifest>' to build one.")
		return
	}

	fmt.Fprintf(out, "Dataset pages (%d):\n\n", len(records))
	fmt.Fprintf(out, "  %-6s  %-20s  %-16s  %-8s  %s\n", "ID", "Name", "Created", "Datasets", "Path")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 72))
	for _, rec := range records {
		fmt.Fprintf(out, "  %-6d  %-20s  %-16s  %-8d  %s\n",
			rec.ID,
			rec.Name,
			humanize.Time(rec.CreatedAt),
			len(rec.DataSets),
			rec.Path,
		)
	}
	fmt.Fprintln(out, "\nUse 'profilereport history --id <id>' to show a page.")
}

// printPage shows one record with its datasets and reports.
func printPage(out io.Writer, rec *catalog.PageRecord) {
	fmt.Fprintf(out, "Page #%d: %s\n", rec.ID, rec.Name)
	fmt.Fprintf(out, "  Report ID: %s\n", rec.ReportID)
	fmt.Fprintf(out, "  Path:      %s\n", rec.Path)
	fmt.Fprintf(out, "  Created:   %s (%s)\n", rec.CreatedAt.Format("2006-01-02 15:04:05"), humanize.Time(rec.CreatedAt))
	if rec.Lineage != "" {
		fmt.Fprintln(out, "  Lineage:")
		for _, line := range strings.Split(rec.Lineage, "\n") {
			fmt.Fprintf(out, "    %s\n", line)
		}
	}
	for _, ds := range rec.DataSets {
		fmt.Fprintf(out, "\n  %s (%s)\n", ds.Name, ds.ID)
		if len(ds.Reports) == 0 {
			fmt.Fprintln(out, "    (no reports)")
		}
		for _, title := range ds.Reports {
			fmt.Fprintf(out, "    • %s\n", title)
		}
	}
}

func writeJSON(out io.Writer, v any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
