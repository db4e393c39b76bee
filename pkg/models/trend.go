package models

// TrendPoint is one year of the polyarchy time series.
type TrendPoint struct {
	Year  int     `json:"year"`
	Value float64 `json:"value"`
}
