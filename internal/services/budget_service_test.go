package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

func TestSetBudgetDuplicateMonth(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")
	food := e.category(t, u.ID, "Food")

	b, err := e.budgets.SetBudget(context.Background(), u.ID, food.ID, core.Money{Cents: 50000}, day(2024, time.February, 15))
	if err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if !b.StartDate.Equal(day(2024, time.February, 1)) || !b.EndDate.Equal(day(2024, time.February, 29)) {
		t.Fatalf("period not snapped to leap February: %+v", b)
	}

	// Any other day within the same month is the same budget key.
	_, err = e.budgets.SetBudget(context.Background(), u.ID, food.ID, core.Money{Cents: 10000}, day(2024, time.February, 3))
	if !errors.Is(err, core.ErrDuplicateBudget) {
		t.Fatalf("expected ErrDuplicateBudget, got %v", err)
	}
}

func TestSetBudgetForeignCategory(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	bobCat := e.category(t, bob.ID, "Food")

	_, err := e.budgets.SetBudget(context.Background(), alice.ID, bobCat.ID, core.Money{Cents: 100}, day(2024, time.March, 1))
	if !errors.Is(err, core.ErrCategoryNotOwned) {
		t.Fatalf("expected ErrCategoryNotOwned, got %v", err)
	}

	list, err := e.budgets.ListBudgets(context.Background(), alice.ID)
	if err != nil || len(list) != 0 {
		t.Fatalf("no budget may be created: %+v err=%v", list, err)
	}
}

func TestSetBudgetInvalidAmount(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")
	food := e.category(t, u.ID, "Food")

	_, err := e.budgets.SetBudget(context.Background(), u.ID, food.ID, core.Money{}, day(2024, time.March, 1))
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestUpdateBudgetRenormalizes(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")
	food := e.category(t, u.ID, "Food")

	b, err := e.budgets.SetBudget(context.Background(), u.ID, food.ID, core.Money{Cents: 50000}, day(2024, time.March, 1))
	if err != nil {
		t.Fatalf("set budget: %v", err)
	}

	// A mid-month date snaps to the whole of April.
	updated, err := e.budgets.UpdateBudget(context.Background(), b.ID, u.ID, core.Money{Cents: 60000}, day(2024, time.April, 17))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !updated.StartDate.Equal(day(2024, time.April, 1)) || !updated.EndDate.Equal(day(2024, time.April, 30)) {
		t.Fatalf("update did not re-normalize the period: %+v", updated)
	}
}

func TestUpdateBudgetCrossUser(t *testing.T) {
	e := newEnv(t)
	alice := e.user(t, "alice")
	bob := e.user(t, "bob")
	food := e.category(t, alice.ID, "Food")

	b, err := e.budgets.SetBudget(context.Background(), alice.ID, food.ID, core.Money{Cents: 50000}, day(2024, time.March, 1))
	if err != nil {
		t.Fatalf("set budget: %v", err)
	}

	if _, err := e.budgets.UpdateBudget(context.Background(), b.ID, bob.ID, core.Money{Cents: 1}, day(2024, time.March, 1)); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := e.budgets.DeleteBudget(context.Background(), b.ID, bob.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestDeleteBudgetNotFound(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")

	if err := e.budgets.DeleteBudget(context.Background(), 42, u.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListBudgetsWithCategoryNames(t *testing.T) {
	e := newEnv(t)
	u := e.user(t, "alice")
	food := e.category(t, u.ID, "Food")
	transport := e.category(t, u.ID, "Transport")

	if _, err := e.budgets.SetBudget(context.Background(), u.ID, food.ID, core.Money{Cents: 50000}, day(2024, time.March, 1)); err != nil {
		t.Fatalf("set budget: %v", err)
	}
	if _, err := e.budgets.SetBudget(context.Background(), u.ID, transport.ID, core.Money{Cents: 20000}, day(2024, time.April, 1)); err != nil {
		t.Fatalf("set budget: %v", err)
	}

	list, err := e.budgets.ListBudgets(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 budgets, got %+v", list)
	}
	// Newest period first.
	if list[0].CategoryName != "Transport" || list[1].CategoryName != "Food" {
		t.Fatalf("unexpected order or names: %+v", list)
	}
}
