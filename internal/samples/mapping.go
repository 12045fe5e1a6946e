package samples

import (
	"strings"

	"github.com/fcc-hep/samplecat/pkg/query"
	"github.com/fcc-hep/samplecat/pkg/repository"
)

// pathSeparator joins the ordered path list into a single text column.
// Storage paths never contain newlines.
const pathSeparator = "\n"

var projection = query.NewProjectionMap("public", "samples", "s").
	Project("id", "ID").
	Project("sample_id", "SampleID").
	Project("name", "Name").
	Project("status", "Status").
	Project("cross_section", "CrossSection").
	Project("cross_section_error", "CrossSectionError").
	Project("efficiency", "Efficiency").
	Project("efficiency_info", "EfficiencyInfo").
	Project("total_sum_of_weights", "TotalSumOfWeights").
	Project("total_number_of_events", "TotalNumberOfEvents").
	Project("number_of_events_per_file", "NumberOfEventsPerFile").
	Project("paths", "Paths").
	Project("updated_at", "UpdatedAt")

var defaultSort = query.SortField{Field: "SampleID"}

func scanSample(s repository.Scanner) (StoredSample, error) {
	var (
		rec   StoredSample
		paths *string
	)

	err := s.Scan(
		&rec.ID,
		&rec.SampleID,
		&rec.Name,
		&rec.Status,
		&rec.CrossSection,
		&rec.CrossSectionError,
		&rec.Efficiency,
		&rec.EfficiencyInfo,
		&rec.TotalSumOfWeights,
		&rec.TotalNumberOfEvents,
		&rec.NumberOfEventsPerFile,
		&paths,
		&rec.UpdatedAt,
	)
	if err != nil {
		return StoredSample{}, err
	}

	rec.Paths = splitPaths(paths)
	return rec, nil
}

func joinPaths(paths []string) *string {
	if len(paths) == 0 {
		return nil
	}
	joined := strings.Join(paths, pathSeparator)
	return &joined
}

func splitPaths(joined *string) []string {
	if joined == nil || *joined == "" {
		return nil
	}
	return strings.Split(*joined, pathSeparator)
}

// Filters carries the optional query criteria of the sample listing API.
type Filters struct {
	Status *string `json:"status,omitempty"`
}

// Apply adds the filter conditions to the query builder.
func (f Filters) Apply(qb *query.Builder) {
	if f.Status != nil {
		qb.WhereEquals("Status", canonicalStatus(*f.Status))
	}
}

// FiltersFromQuery parses listing filters from URL query parameters.
func FiltersFromQuery(values map[string][]string) Filters {
	var f Filters
	if v, ok := values["status"]; ok && len(v) > 0 && v[0] != "" {
		status := v[0]
		f.Status = &status
	}
	return f
}
