package core

import (
	"testing"
	"time"
)

func cat(id int64) *int64 { return &id }

func TestTotalsAndBalance(t *testing.T) {
	ts := []Transaction{
		{Kind: Income, Amount: Money{Cents: 10010}},
		{Kind: Expense, Amount: Money{Cents: 3005}},
		{Kind: Expense, Amount: Money{Cents: 2005}},
	}

	if got := TotalIncome(ts); got.String() != "100.10" {
		t.Fatalf("income = %s, want 100.10", got)
	}
	if got := TotalExpenses(ts); got.String() != "50.10" {
		t.Fatalf("expenses = %s, want 50.10", got)
	}
	if got := Balance(ts); got.String() != "50.00" {
		t.Fatalf("balance = %s, want 50.00", got)
	}
}

func TestTotalsEmpty(t *testing.T) {
	if got := TotalIncome(nil); got.Cents != 0 {
		t.Fatalf("income over empty ledger = %d, want 0", got.Cents)
	}
	if got := TotalExpenses(nil); got.Cents != 0 {
		t.Fatalf("expenses over empty ledger = %d, want 0", got.Cents)
	}
	if got := Balance(nil); got.Cents != 0 {
		t.Fatalf("balance over empty ledger = %d, want 0", got.Cents)
	}
}

func TestSpendPerCategory(t *testing.T) {
	ts := []Transaction{
		{Kind: Expense, CategoryID: cat(1), CategoryName: "Food", Amount: Money{Cents: 2000}},
		{Kind: Income, CategoryID: cat(1), CategoryName: "Food", Amount: Money{Cents: 5000}},
		{Kind: Expense, CategoryID: nil, Amount: Money{Cents: 500}},
		{Kind: Expense, CategoryID: cat(1), CategoryName: "Food", Amount: Money{Cents: 1000}},
	}

	got := SpendPerCategory(ts)
	if len(got) != 1 {
		t.Fatalf("expected a single category, got %v", got)
	}
	if got[0].Name != "Food" || got[0].Amount.String() != "30.00" {
		t.Fatalf("expected Food=30.00, got %s=%s", got[0].Name, got[0].Amount)
	}
}

func TestSpendPerCategorySorted(t *testing.T) {
	ts := []Transaction{
		{Kind: Expense, CategoryID: cat(2), CategoryName: "Transport", Amount: Money{Cents: 100}},
		{Kind: Expense, CategoryID: cat(1), CategoryName: "Food", Amount: Money{Cents: 200}},
		{Kind: Expense, CategoryID: cat(3), CategoryName: "Bills", Amount: Money{Cents: 300}},
	}
	got := SpendPerCategory(ts)
	if len(got) != 3 || got[0].Name != "Bills" || got[1].Name != "Food" || got[2].Name != "Transport" {
		t.Fatalf("expected name-sorted categories, got %v", got)
	}
}

func TestBuildOverview(t *testing.T) {
	p := NormalizePeriod(date(2024, time.March, 1))
	ts := []Transaction{
		{Kind: Income, Amount: Money{Cents: 200000}, Date: date(2024, time.March, 1)},
		{Kind: Expense, CategoryID: cat(7), CategoryName: "Food", Amount: Money{Cents: 12000}, Date: date(2024, time.March, 5)},
		{Kind: Expense, CategoryID: cat(7), CategoryName: "Food", Amount: Money{Cents: 8000}, Date: date(2024, time.March, 20)},
		// Outside the budget month: counts toward totals, not the budget.
		{Kind: Expense, CategoryID: cat(7), CategoryName: "Food", Amount: Money{Cents: 9900}, Date: date(2024, time.April, 2)},
	}
	bs := []Budget{
		{ID: 1, CategoryID: 7, CategoryName: "Food", Amount: Money{Cents: 30000}, StartDate: p.Start, EndDate: p.End},
	}

	o := BuildOverview(ts, bs)
	if o.TotalIncome.String() != "2000.00" || o.TotalExpenses.String() != "299.00" {
		t.Fatalf("totals wrong: income=%s expenses=%s", o.TotalIncome, o.TotalExpenses)
	}
	if o.Balance.String() != "1701.00" {
		t.Fatalf("balance = %s, want 1701.00", o.Balance)
	}
	if len(o.Budgets) != 1 {
		t.Fatalf("expected one budget status, got %d", len(o.Budgets))
	}
	bs0 := o.Budgets[0]
	if bs0.Spent.String() != "200.00" {
		t.Fatalf("budget spent = %s, want 200.00", bs0.Spent)
	}
	if bs0.Remaining.String() != "100.00" {
		t.Fatalf("budget remaining = %s, want 100.00", bs0.Remaining)
	}
}
