package models

// SearchQuery is one job-title search to run to completion independently.
// Location is an opaque LinkedIn geo identifier; empty means unfiltered.
type SearchQuery struct {
	JobTitle string
	Location string
}
