package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// BudgetStatus pairs a budget with the expense total of its category inside
// the budget period. Derived on every read, never persisted.
type BudgetStatus struct {
	Budget
	Spent     Money
	Remaining Money
}

// Overview is the view model the presentation layer renders for one user:
// totals, balance, per-category spend, and budget consumption.
type Overview struct {
	TotalIncome   Money
	TotalExpenses Money
	Balance       Money
	ByCategory    []CategoryAmount
	Budgets       []BudgetStatus
}

// TotalIncome sums the amounts of all income transactions. Zero if none.
func TotalIncome(ts []Transaction) Money {
	var cents int64
	for _, t := range ts {
		if t.Kind == Income {
			cents += t.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// TotalExpenses sums the amounts of all expense transactions. Zero if none.
func TotalExpenses(ts []Transaction) Money {
	var cents int64
	for _, t := range ts {
		if t.Kind == Expense {
			cents += t.Amount.Cents
		}
	}
	return Money{Cents: cents}
}

// Balance is total income minus total expenses.
func Balance(ts []Transaction) Money {
	return Money{Cents: TotalIncome(ts).Cents - TotalExpenses(ts).Cents}
}

// SpendPerCategory maps category name to the summed expense amounts tagged
// with it. Income rows and uncategorized rows are excluded. The result is
// sorted by category name so output is deterministic.
func SpendPerCategory(ts []Transaction) []CategoryAmount {
	byName := make(map[string]int64)
	for _, t := range ts {
		if t.Kind != Expense || t.CategoryID == nil {
			continue
		}
		byName[t.CategoryName] += t.Amount.Cents
	}
	out := make([]CategoryAmount, 0, len(byName))
	for name, cents := range byName {
		out = append(out, CategoryAmount{Name: name, Amount: Money{Cents: cents}})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// BuildOverview derives the full overview from transactions and budgets
// already scoped to one owner.
func BuildOverview(ts []Transaction, bs []Budget) Overview {
	o := Overview{
		TotalIncome:   TotalIncome(ts),
		TotalExpenses: TotalExpenses(ts),
		ByCategory:    SpendPerCategory(ts),
	}
	o.Balance = Money{Cents: o.TotalIncome.Cents - o.TotalExpenses.Cents}

	o.Budgets = make([]BudgetStatus, 0, len(bs))
	for _, b := range bs {
		period := Period{Start: b.StartDate, End: b.EndDate}
		var spent int64
		for _, t := range ts {
			if t.Kind != Expense || t.CategoryID == nil || *t.CategoryID != b.CategoryID {
				continue
			}
			if period.Contains(t.Date) {
				spent += t.Amount.Cents
			}
		}
		o.Budgets = append(o.Budgets, BudgetStatus{
			Budget:    b,
			Spent:     Money{Cents: spent},
			Remaining: Money{Cents: b.Amount.Cents - spent},
		})
	}
	return o
}
