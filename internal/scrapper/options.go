package scrapper

import "fmt"

// Options is the caller configuration held by a Controller.
// The controller stores it but none of its operations read it; the CLI uses
// SearchValue as the default search input and MaxRecords to cap results.
type Options struct {
	SearchValue string `json:"searchValue"`
	MaxRecords  int    `json:"maxRecords"`
}

// Validate checks field ranges.
func (o Options) Validate() error {
	if o.MaxRecords < 0 {
		return fmt.Errorf("max records must be >= 0, got %d", o.MaxRecords)
	}
	return nil
}
