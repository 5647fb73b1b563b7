package service_test

import (
	"testing"
	"time"

	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/dto"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/models"
	"github.com/mdtanvirahamedshanto/finance-tracker-frontend/internal/service"
)

func tx(id string, amount float64, category, date string, typ models.TransactionType) models.Transaction {
	return models.Transaction{ID: id, Amount: amount, Category: category, Date: date, Type: typ}
}

func TestSummarizeTotals(t *testing.T) {
	transactions := []models.Transaction{
		tx("a", 1000, "Salary", "2024-01-01", models.TypeIncome),
		tx("b", 0.1, "Food", "2024-01-02", models.TypeExpense),
		tx("c", 0.2, "Food", "2024-01-03", models.TypeExpense),
	}

	summary := service.Summarize(transactions, dto.SummaryParams{}, time.Now())
	if summary.Income != 1000 {
		t.Errorf("income = %v, want 1000", summary.Income)
	}
	// Decimal accumulation: 0.1 + 0.2 is exactly 0.3, not 0.30000000000000004.
	if summary.Expenses != 0.3 {
		t.Errorf("expenses = %v, want 0.3", summary.Expenses)
	}
	if summary.Balance != 999.7 {
		t.Errorf("balance = %v, want 999.7", summary.Balance)
	}
}

func TestSummarizePeriodWindow(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)
	transactions := []models.Transaction{
		tx("recent", 50, "Food", "2024-06-12", models.TypeExpense),
		tx("old", 70, "Food", "2024-05-01", models.TypeExpense),
	}

	summary := service.Summarize(transactions, dto.SummaryParams{Period: "week"}, now)
	if summary.Expenses != 50 {
		t.Errorf("week expenses = %v, want only the recent 50", summary.Expenses)
	}

	summary = service.Summarize(transactions, dto.SummaryParams{Period: "year"}, now)
	if summary.Expenses != 120 {
		t.Errorf("year expenses = %v, want 120", summary.Expenses)
	}
}

func TestSummarizeCustomRange(t *testing.T) {
	now := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)
	transactions := []models.Transaction{
		tx("before", 10, "Food", "2024-02-01", models.TypeExpense),
		tx("inside", 20, "Food", "2024-03-15", models.TypeExpense),
		tx("after", 30, "Food", "2024-05-01", models.TypeExpense),
	}

	params := dto.SummaryParams{Period: "custom", StartDate: "2024-03-01", EndDate: "2024-04-01"}
	summary := service.Summarize(transactions, params, now)
	if summary.Expenses != 20 {
		t.Errorf("custom range expenses = %v, want 20", summary.Expenses)
	}
}

func TestAnalyzeCategoriesExpensesOnly(t *testing.T) {
	transactions := []models.Transaction{
		tx("a", 1000, "Salary", "2024-01-01", models.TypeIncome),
		tx("b", 30, "Transport", "2024-01-02", models.TypeExpense),
		tx("c", 20, "Food", "2024-01-03", models.TypeExpense),
		tx("d", 10, "Food", "2024-01-04", models.TypeExpense),
	}

	analysis := service.AnalyzeCategories(transactions)
	if len(analysis) != 2 {
		t.Fatalf("got %d categories, want 2 (income excluded)", len(analysis))
	}
	// Sorted by category name.
	if analysis[0].Category != "Food" || analysis[0].Amount != 30 {
		t.Errorf("analysis[0] = %+v, want {Food 30}", analysis[0])
	}
	if analysis[1].Category != "Transport" || analysis[1].Amount != 30 {
		t.Errorf("analysis[1] = %+v, want {Transport 30}", analysis[1])
	}
}

func TestTrendByMonthBuckets(t *testing.T) {
	transactions := []models.Transaction{
		tx("a", 1000, "Salary", "2024-02-01", models.TypeIncome),
		tx("b", 100, "Food", "2024-02-10", models.TypeExpense),
		tx("c", 50, "Food", "2024-01-20", models.TypeExpense),
		tx("d", 25, "Food", "not-a-date", models.TypeExpense),
	}

	trends := service.TrendByMonth(transactions)
	if len(trends) != 2 {
		t.Fatalf("got %d months, want 2 (unparseable date skipped)", len(trends))
	}
	if trends[0].Month != "2024-01" || trends[0].Expenses != 50 {
		t.Errorf("trends[0] = %+v, want {2024-01 0 50}", trends[0])
	}
	if trends[1].Month != "2024-02" || trends[1].Income != 1000 || trends[1].Expenses != 100 {
		t.Errorf("trends[1] = %+v, want {2024-02 1000 100}", trends[1])
	}
}
