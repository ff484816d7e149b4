package models

// ProfileRecord holds the visible attributes of one person result. Fields
// that could not be resolved from the page markup are empty strings.
type ProfileRecord struct {
	Name        string
	Title       string
	Company     string
	Location    string
	ProfileURL  string
	About       string
	Connections string
}

// ResultBatch is the ordered set of records extracted from a single
// search-results page. Order within a batch follows page order.
type ResultBatch []ProfileRecord
