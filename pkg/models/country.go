package models

import "encoding/json"

// Document is the full countryData.json payload. It is the only persistent
// store: read in full, mutated in memory, written back in full.
type Document struct {
	Countries []*Country `json:"countries"`
}

// Country is one entry of the tracker dataset. Score fields are pointers so
// a null/absent value in the source JSON survives a read-modify-write cycle.
// DEED_event_counts is carried opaquely; the maintenance tools never
// interpret it.
type Country struct {
	Name            string          `json:"name"`
	ISO2            string          `json:"iso2"`
	Region          string          `json:"region"`
	Polyarchy       *float64        `json:"V-Dem_polyarchy_index"`
	Libdem          *float64        `json:"libdem_index"`
	BTI             *float64        `json:"BTI_governance_score"`
	Status          string          `json:"status_indicator"`
	Episodes        []Episode       `json:"ERT_episodes"`
	DEEDEventCounts json.RawMessage `json:"DEED_event_counts"`
	Trend           []TrendPoint    `json:"polyarchy_trend,omitempty"`
}
