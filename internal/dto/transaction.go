package dto

// SummaryParams narrows the transaction set a summary is computed over.
// Period is one of week, month, year or custom; custom uses StartDate.
type SummaryParams struct {
	Period    string `json:"period,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty"`
}

type Summary struct {
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Balance  float64 `json:"balance"`
}

type CategoryAnalysis struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type MonthlyTrend struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
}
