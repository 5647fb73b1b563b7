package service

import (
	"sort"
	"time"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"

	"github.com/shopspring/decimal"
)

// The aggregate derivations below are the single source for every offline or
// fallback read; the fully-offline path and the online-fetch-failed path go
// through the same functions.

// Summarize derives income/expense totals from a cached transaction set.
// Decimal accumulation keeps repeated float additions from drifting.
func Summarize(transactions []models.Transaction, params dto.SummaryParams, now time.Time) dto.Summary {
	transactions = filterByPeriod(transactions, params, now)

	income, expenses := decimal.Zero, decimal.Zero
	for _, t := range transactions {
		amount := decimal.NewFromFloat(t.Amount)
		switch t.Type {
		case models.TypeIncome:
			income = income.Add(amount)
		case models.TypeExpense:
			expenses = expenses.Add(amount)
		}
	}

	return dto.Summary{
		Income:   income.InexactFloat64(),
		Expenses: expenses.InexactFloat64(),
		Balance:  income.Sub(expenses).InexactFloat64(),
	}
}

// AnalyzeCategories sums expense amounts per category, sorted by category
// name for stable output.
func AnalyzeCategories(transactions []models.Transaction) []dto.CategoryAnalysis {
	byCategory := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		if t.Type != models.TypeExpense {
			continue
		}
		byCategory[t.Category] = byCategory[t.Category].Add(decimal.NewFromFloat(t.Amount))
	}

	out := make([]dto.CategoryAnalysis, 0, len(byCategory))
	for category, amount := range byCategory {
		out = append(out, dto.CategoryAnalysis{Category: category, Amount: amount.InexactFloat64()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// TrendByMonth buckets income and expenses per YYYY-MM month, ascending.
func TrendByMonth(transactions []models.Transaction) []dto.MonthlyTrend {
	income := make(map[string]decimal.Decimal)
	expenses := make(map[string]decimal.Decimal)
	for _, t := range transactions {
		date, ok := parseDate(t.Date)
		if !ok {
			continue
		}
		month := date.Format("2006-01")
		if t.Type == models.TypeIncome {
			income[month] = income[month].Add(decimal.NewFromFloat(t.Amount))
		} else {
			expenses[month] = expenses[month].Add(decimal.NewFromFloat(t.Amount))
		}
	}

	months := make(map[string]struct{}, len(income)+len(expenses))
	for m := range income {
		months[m] = struct{}{}
	}
	for m := range expenses {
		months[m] = struct{}{}
	}

	out := make([]dto.MonthlyTrend, 0, len(months))
	for month := range months {
		out = append(out, dto.MonthlyTrend{
			Month:    month,
			Income:   income[month].InexactFloat64(),
			Expenses: expenses[month].InexactFloat64(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

// filterByPeriod applies the same window the backend applies to summary
// queries: a rolling week/month/year ending now, or a custom start date,
// optionally capped by an end date.
func filterByPeriod(transactions []models.Transaction, params dto.SummaryParams, now time.Time) []models.Transaction {
	var start time.Time
	switch params.Period {
	case "week":
		start = now.AddDate(0, 0, -7)
	case "month":
		start = now.AddDate(0, -1, 0)
	case "year":
		start = now.AddDate(-1, 0, 0)
	case "custom":
		if params.StartDate != "" {
			if t, ok := parseDate(params.StartDate); ok {
				start = t
			}
		}
	}

	var end time.Time
	if params.EndDate != "" {
		if t, ok := parseDate(params.EndDate); ok {
			end = t
		}
	}

	if start.IsZero() && end.IsZero() {
		return transactions
	}

	out := make([]models.Transaction, 0, len(transactions))
	for _, t := range transactions {
		date, ok := parseDate(t.Date)
		if !ok {
			continue
		}
		if !start.IsZero() && date.Before(start) {
			continue
		}
		if !end.IsZero() && date.After(end) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// parseDate accepts the backend's RFC3339 timestamps as well as bare
// YYYY-MM-DD dates.
func parseDate(s string) (time.Time, bool) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true
	}
	return time.Time{}, false
}
