package samples

import (
	"strconv"
	"strings"

	"github.com/fcc-hep/samplecat/pkg/formatting"
)

// UnknownCrossSection is rendered when a record lacks either the cross-section
// value or its error.
const UnknownCrossSection = "Unknown"

// Row is one rendered table row. Hidden marks rows suppressed by the current
// filter query; filtered rows stay in place so order and count never change.
type Row struct {
	ID             string   `json:"id"`
	Name           string   `json:"name,omitempty"`
	StatusClass    string   `json:"status_class"`
	CrossSection   string   `json:"cross_section"`
	Efficiency     string   `json:"efficiency"`
	EfficiencyInfo string   `json:"efficiency_info,omitempty"`
	SumOfWeights   string   `json:"sum_of_weights,omitempty"`
	Events         string   `json:"events,omitempty"`
	EventsPerFile  string   `json:"events_per_file,omitempty"`
	Paths          []string `json:"paths,omitempty"`
	PathHeading    string   `json:"path_heading"`
	Size           string   `json:"size,omitempty"`
	Hidden         bool     `json:"hidden,omitempty"`
}

// Label returns the text of the name/ID column: the sample name when the
// source provides one, else the ID. Legacy sources may lack names.
func (r Row) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.ID
}

// Render converts the database into display rows, preserving insertion order,
// and returns the last-updated string verbatim. An empty database yields zero
// rows, not an error.
func Render(db *Database) ([]Row, string) {
	if db == nil {
		return []Row{}, ""
	}

	rows := make([]Row, 0, db.Len())
	if db.Samples != nil {
		db.Samples.Each(func(id string, rec Record) error {
			rows = append(rows, renderRecord(id, rec))
			return nil
		})
	}
	return rows, db.LastUpdate
}

func renderRecord(id string, rec Record) Row {
	row := Row{
		ID:             id,
		Name:           rec.Name,
		StatusClass:    statusClass(rec.Status),
		CrossSection:   formatCrossSection(rec.CrossSection, rec.CrossSectionError),
		Efficiency:     formatFloat(rec.Efficiency),
		EfficiencyInfo: rec.EfficiencyInfo,
		Paths:          rec.Path,
		PathHeading:    pathHeading(len(rec.Path)),
	}
	if rec.TotalSumOfWeights != nil {
		row.SumOfWeights = formatFloat(*rec.TotalSumOfWeights)
	}
	if rec.TotalNumberOfEvents != nil {
		row.Events = formatting.FormatCount(*rec.TotalNumberOfEvents)
	}
	if rec.NumberOfEventsPerFile != nil {
		row.EventsPerFile = formatting.FormatCount(*rec.NumberOfEventsPerFile)
	}
	return row
}

// Filter marks rows whose name/ID column does not contain query as Hidden,
// case-insensitively. The result has the same order and count as the input;
// an empty query is the identity.
func Filter(rows []Row, query string) []Row {
	query = strings.ToLower(strings.TrimSpace(query))

	out := make([]Row, len(rows))
	for i, row := range rows {
		row.Hidden = query != "" && !strings.Contains(strings.ToLower(row.Label()), query)
		out[i] = row
	}
	return out
}

// Visible returns how many rows the current filter leaves shown.
func Visible(rows []Row) int {
	n := 0
	for _, row := range rows {
		if !row.Hidden {
			n++
		}
	}
	return n
}

func formatCrossSection(value, errVal *float64) string {
	if value == nil || errVal == nil {
		return UnknownCrossSection
	}
	return formatFloat(*value) + " ± " + formatFloat(*errVal)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func statusClass(status string) string {
	if status == "" {
		return "status-unknown"
	}
	return "status-" + status
}

func pathHeading(n int) string {
	if n > 1 {
		return "Paths"
	}
	return "Path"
}
