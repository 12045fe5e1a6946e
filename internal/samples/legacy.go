package samples

import (
	"strconv"
	"strings"

	"github.com/fcc-hep/samplecat/pkg/formatting"
)

// legacyColumns is the fixed column layout of pre-merge campaign tables:
// newline-delimited records with double-comma delimited fields mapped
// positionally. Field values carry no escaping for the delimiter; that is an
// accepted limitation of the format.
var legacyColumns = []string{
	"name",
	"total-number-of-events",
	"number-of-events-per-file",
	"cross-section",
	"matching-efficiency",
	"k-factor",
	"path",
	"size",
}

const legacyDelimiter = ",,"

// LegacyColumns returns the legacy header list in display order.
func LegacyColumns() []string {
	return legacyColumns
}

// ParseLegacyTable parses a legacy flat-file campaign table directly into
// display rows, bypassing the merger. Short records leave trailing columns
// empty; blank lines are skipped.
func ParseLegacyTable(data []byte) []Row {
	rows := []Row{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rows = append(rows, legacyRow(strings.Split(line, legacyDelimiter)))
	}
	return rows
}

func legacyRow(fields []string) Row {
	get := func(i int) string {
		if i < len(fields) {
			return strings.TrimSpace(fields[i])
		}
		return ""
	}

	row := Row{
		ID:           get(0),
		StatusClass:  statusClass(""),
		CrossSection: UnknownCrossSection,
		Efficiency:   get(4),
		PathHeading:  pathHeading(1),
	}
	if xs := get(3); xs != "" {
		row.CrossSection = xs
	}
	if k := get(5); k != "" {
		row.EfficiencyInfo = "k-factor " + k
	}
	if events := get(1); events != "" {
		if n, err := strconv.ParseInt(events, 10, 64); err == nil {
			row.Events = formatting.FormatCount(n)
		} else {
			row.Events = events
		}
	}
	if perFile := get(2); perFile != "" {
		if n, err := strconv.ParseInt(perFile, 10, 64); err == nil {
			row.EventsPerFile = formatting.FormatCount(n)
		} else {
			row.EventsPerFile = perFile
		}
	}
	if path := get(6); path != "" {
		row.Paths = []string{path}
	}
	if size := get(7); size != "" {
		if n, err := strconv.ParseInt(size, 10, 64); err == nil {
			row.Size = formatting.FormatBytes(n, 1)
		} else {
			row.Size = size
		}
	}
	return row
}
