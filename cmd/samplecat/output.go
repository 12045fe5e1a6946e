package main

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/fcc-hep/samplecat/internal/samples"
)

func writeRows(w io.Writer, format string, rows []samples.Row, lastUpdate string, useColors bool) error {
	switch format {
	case "json":
		return writeJSON(w, rows, lastUpdate)
	case "csv":
		return writeCSV(w, rows)
	case "table":
		return writeTable(w, rows, lastUpdate, useColors)
	default:
		return fmt.Errorf("unknown format: %q", format)
	}
}

func writeJSON(w io.Writer, rows []samples.Row, lastUpdate string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(samples.TableResponse{
		LastUpdate: lastUpdate,
		Rows:       rows,
		Visible:    samples.Visible(rows),
	})
}

func writeCSV(w io.Writer, rows []samples.Row) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{
		"name", "status", "cross_section", "efficiency",
		"sum_of_weights", "events", "events_per_file", "paths",
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, row := range rows {
		if row.Hidden {
			continue
		}
		record := []string{
			row.Label(),
			row.StatusClass,
			row.CrossSection,
			row.Efficiency,
			row.SumOfWeights,
			row.Events,
			row.EventsPerFile,
			strings.Join(row.Paths, "|"),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func writeTable(w io.Writer, rows []samples.Row, lastUpdate string, useColors bool) error {
	table := tablewriter.NewWriter(w)
	defer func() { _ = table.Close() }()

	table.Header([]string{
		"Name", "Status", "Cross section", "Efficiency",
		"Events", "Events/file", "Paths",
	})

	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	paint := statusPainter(useColors)

	var data [][]string
	visible := 0
	for _, row := range rows {
		if row.Hidden {
			continue
		}
		visible++
		data = append(data, []string{
			row.Label(),
			paint(row.StatusClass),
			row.CrossSection,
			row.Efficiency,
			row.Events,
			row.EventsPerFile,
			strings.Join(row.Paths, "\n"),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%d samples shown, last update %s\n", visible, lastUpdate)
	return err
}

// statusPainter colors a status class token by its lifecycle state.
func statusPainter(useColors bool) func(string) string {
	if !useColors {
		return func(s string) string { return s }
	}

	done := color.New(color.FgGreen).SprintFunc()
	running := color.New(color.FgYellow).SprintFunc()
	failed := color.New(color.FgRed, color.Bold).SprintFunc()
	unknown := color.New(color.FgHiBlack).SprintFunc()

	return func(s string) string {
		switch s {
		case "status-done":
			return done(s)
		case "status-running":
			return running(s)
		case "status-failed":
			return failed(s)
		default:
			return unknown(s)
		}
	}
}
