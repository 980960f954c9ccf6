package main

import (
	"encoding/json"
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"

	"github.com/couchcryptid/hazard-verify-service/internal/domain"
)

type aggregateFlags struct {
	history string
	format  string
}

func newAggregateCmd() *cobra.Command {
	var flags aggregateFlags

	cmd := &cobra.Command{
		Use:   "aggregate",
		Short: "Summarize corroboration per (type, pincode) over recent history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAggregate(cmd, flags)
		},
	}

	f := cmd.Flags()
	f.StringVar(&flags.history, "history", "data/reports.json", "report history file")
	f.StringVarP(&flags.format, "format", "o", "table", "output format: table, markdown or json")
	return cmd
}

func runAggregate(cmd *cobra.Command, flags aggregateFlags) error {
	v := newLocalVerifier(cmd, flags.history, domain.CorroborationPolicy(), classifierFlags{})
	entries, status := v.Aggregates(cmd.Context())
	out := cmd.OutOrStdout()

	switch flags.format {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(map[string]any{"aggregates": entries, "historyStatus": status})
	case "table", "markdown":
	default:
		return fmt.Errorf("unknown format %q", flags.format)
	}

	if status == domain.HistoryUnavailable {
		return fmt.Errorf("history %s is unavailable", flags.history)
	}

	_, err := fmt.Fprintln(out, renderAggregates(entries, flags.format == "markdown"))
	return err
}

func renderAggregates(entries []domain.AggregateEntry, markdown bool) string {
	w := table.NewWriter()
	w.SetStyle(table.StyleLight)
	w.Style().Format.Footer = text.FormatDefault
	w.AppendHeader(table.Row{"Type", "Pincode", "Count", "Consensus", "History", "Confidence"})

	total := 0
	for _, e := range entries {
		total += e.Count
		w.AppendRow(table.Row{e.Type, e.Pincode, e.Count,
			fmt.Sprintf("%.3f", e.Consensus), fmt.Sprintf("%.3f", e.History), fmt.Sprintf("%.3f", e.Confidence)})
	}
	w.AppendFooter(table.Row{"", fmt.Sprintf("%d pairs", len(entries)), total, "", "", ""})

	right := make([]table.ColumnConfig, 0, 4)
	for n := 3; n <= 6; n++ {
		right = append(right, table.ColumnConfig{Number: n, Align: text.AlignRight, AlignFooter: text.AlignRight})
	}
	w.SetColumnConfigs(right)

	if markdown {
		return w.RenderMarkdown()
	}
	return w.Render()
}
