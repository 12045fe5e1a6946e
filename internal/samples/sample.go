// Package samples implements the sample metadata domain for samplecat.
// It merges the manually curated augment overrides with the auto-generated
// transformation info into a single sample database document, renders that
// document into display rows, and optionally mirrors the merged set into
// PostgreSQL for paginated API queries.
package samples

// Record is one merged sample entry. Optional numeric fields use pointers so
// that an absent value never collapses into zero; a nil field is omitted from
// the serialized document entirely.
type Record struct {
	Name                  string   `json:"name,omitempty"`
	Status                string   `json:"status,omitempty"`
	CrossSection          *float64 `json:"cross-section,omitempty"`
	CrossSectionError     *float64 `json:"cross-section-error,omitempty"`
	Efficiency            float64  `json:"efficiency"`
	EfficiencyInfo        string   `json:"efficiency-info,omitempty"`
	TotalSumOfWeights     *float64 `json:"total-sum-of-weights,omitempty"`
	TotalNumberOfEvents   *int64   `json:"total-number-of-events,omitempty"`
	NumberOfEventsPerFile *int64   `json:"number-of-events-per-file,omitempty"`
	Path                  []string `json:"path,omitempty"`
}

// Database is the merged sample database document. It is rebuilt in full on
// every refresh; records iterate in the insertion order of the base source.
type Database struct {
	LastUpdate string     `json:"last_update"`
	Samples    *RecordSet `json:"samples"`
}

// Len returns the number of samples in the database.
func (d *Database) Len() int {
	if d == nil || d.Samples == nil {
		return 0
	}
	return d.Samples.Len()
}

// sourceRecord is one entry of an augment or transformation source document.
// Every field is a pointer so presence can be distinguished from a zero value
// when resolving overrides field by field.
type sourceRecord struct {
	Name                  *string  `json:"name"`
	Status                *string  `json:"status"`
	CrossSection          *float64 `json:"cross-section"`
	CrossSectionError     *float64 `json:"cross-section-error"`
	Efficiency            *float64 `json:"efficiency"`
	EfficiencyInfo        *string  `json:"efficiency-info"`
	TotalSumOfWeights     *float64 `json:"total-sum-of-weights"`
	TotalNumberOfEvents   *int64   `json:"total-number-of-events"`
	NumberOfEventsPerFile *int64   `json:"number-of-events-per-file"`
	Path                  []string `json:"path"`
}
