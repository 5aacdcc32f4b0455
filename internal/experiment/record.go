// Package experiment maps rows of the growth-experiments spreadsheet export
// into normalized records.
package experiment

// Column names as they appear in the spreadsheet export header.
const (
	ColumnIndex        = "#"
	ColumnTactic       = "Tactic"
	ColumnDescription  = "Description/Hypothesis"
	ColumnFunnelStep   = "Funnel Step"
	ColumnProbability  = "Probabiliy of Success" // sic, matches the export header
	ColumnBusinessType = "Business Type"
	ColumnEffort       = "Effort"
	ColumnDevNeeded    = "Dev needed"
)

// RequiredColumns lists every column a row must carry, in record field order.
var RequiredColumns = []string{
	ColumnIndex,
	ColumnTactic,
	ColumnDescription,
	ColumnFunnelStep,
	ColumnProbability,
	ColumnBusinessType,
	ColumnEffort,
	ColumnDevNeeded,
}

// Record is one normalized experiment entry. Field order is the JSON output order.
type Record struct {
	ID           int    `json:"id"`
	Tactic       string `json:"tactic"`
	Description  string `json:"description"`
	FunnelStep   string `json:"funnel_step"`
	Probability  string `json:"probability"`
	BusinessType string `json:"business_type"`
	Effort       string `json:"effort"`
	DevNeeded    bool   `json:"dev_needed"`
}
