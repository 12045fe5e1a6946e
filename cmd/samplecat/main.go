// Command samplecat merges the sample metadata sources from the command line
// and prints the resulting table, for operators inspecting a merge without
// running the web service.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/fcc-hep/samplecat/internal/samples"
)

func main() {
	var (
		augments  = flag.String("augments", "data/sample-augments.json", "Path to the sample augments document")
		transinfo = flag.String("transinfo", "data/transformation-info.json", "Path to the transformation info document")
		out       = flag.String("out", "", "Write the merged database document to this path")
		format    = flag.String("format", "table", "Output format: table, json, or csv")
		filter    = flag.String("filter", "", "Case-insensitive substring filter on the name/ID column")
		noColor   = flag.Bool("no-color", false, "Disable colored status output")
		quiet     = flag.Bool("quiet", false, "Suppress merge progress logging")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	if *quiet {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	var store *samples.DocumentStore
	if *out != "" {
		store = samples.NewDocumentStore(*out)
	}

	merger := samples.NewMerger(
		samples.FileLoader{},
		store,
		*augments,
		*transinfo,
		logger,
		nil,
	)

	db, stats, err := merger.Run(context.Background())
	if err != nil {
		log.Fatal("merge failed: ", err)
	}

	rows, lastUpdate := samples.Render(db)
	if *filter != "" {
		rows = samples.Filter(rows, *filter)
	}

	if err := writeRows(os.Stdout, *format, rows, lastUpdate, !*noColor); err != nil {
		log.Fatal("output failed: ", err)
	}

	if stats.DroppedOverrides > 0 {
		fmt.Fprintf(os.Stderr, "dropped %d override-only entries: %v\n",
			stats.DroppedOverrides, stats.DroppedIDs)
	}
}
