package models

// Episode is one ERT regime-transformation span. EndYear is nil while the
// episode is still ongoing.
type Episode struct {
	Type        string `json:"type"`
	StartYear   int    `json:"start_year"`
	EndYear     *int   `json:"end_year"`
	Description string `json:"description"`
}
