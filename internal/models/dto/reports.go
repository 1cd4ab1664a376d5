package dto

import "time"

// ReportSection is one titled table of a financial report.
type ReportSection struct {
	Title string           `json:"title"`
	Data  []map[string]any `json:"data"`
}

// Report is the export payload: every section of the caller's finances
// over the requested window.
type Report struct {
	ReportType  string          `json:"reportType"`
	GeneratedAt time.Time       `json:"generatedAt"`
	Sections    []ReportSection `json:"sections"`
}
