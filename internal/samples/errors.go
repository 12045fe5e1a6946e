package samples

import (
	"errors"
	"net/http"
)

// Domain errors for sample operations. Missing and malformed sources are the
// only hard stops of the merge step; an empty sample set or a record with
// absent optional fields is an expected steady state, not an error.
var (
	ErrMissingSource   = errors.New("source document missing")
	ErrMalformedSource = errors.New("source document malformed")
	ErrNotFound        = errors.New("sample not found")
)

// MapHTTPStatus maps sample domain errors to HTTP status codes. Source
// failures surface as 503 so viewers see an unambiguous message instead of a
// silently empty table.
func MapHTTPStatus(err error) int {
	if errors.Is(err, ErrMissingSource) || errors.Is(err, ErrMalformedSource) {
		return http.StatusServiceUnavailable
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
