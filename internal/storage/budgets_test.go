package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

func seedBudget(t *testing.T, r *Repository, ownerID, categoryID int64, cents int64, anyDay time.Time) core.Budget {
	t.Helper()
	p := core.NormalizePeriod(anyDay)
	b, err := r.InsertBudget(context.Background(), core.Budget{
		OwnerID:    ownerID,
		CategoryID: categoryID,
		Amount:     core.Money{Cents: cents},
		StartDate:  p.Start,
		EndDate:    p.End,
	})
	if err != nil {
		t.Fatalf("seed budget: %v", err)
	}
	return b
}

func TestInsertBudgetAndList(t *testing.T) {
	r := newTestRepo(t)
	u := seedUser(t, r, "alice")
	food := seedCategory(t, r, u.ID, "Food")

	b := seedBudget(t, r, u.ID, food.ID, 50000, day(2024, time.March, 15))
	if !b.StartDate.Equal(day(2024, time.March, 1)) || !b.EndDate.Equal(day(2024, time.March, 31)) {
		t.Fatalf("period not normalized: %+v", b)
	}

	list, err := r.ListBudgets(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].CategoryName != "Food" || list[0].Amount.String() != "500.00" {
		t.Fatalf("unexpected listing: %+v", list)
	}
}

func TestDuplicateBudgetSameMonth(t *testing.T) {
	r := newTestRepo(t)
	u := seedUser(t, r, "alice")
	food := seedCategory(t, r, u.ID, "Food")

	seedBudget(t, r, u.ID, food.ID, 50000, day(2024, time.March, 2))

	// Any other day of the same month normalizes to the same start date.
	p := core.NormalizePeriod(day(2024, time.March, 28))
	_, err := r.InsertBudget(context.Background(), core.Budget{
		OwnerID: u.ID, CategoryID: food.ID,
		Amount: core.Money{Cents: 10000}, StartDate: p.Start, EndDate: p.End,
	})
	if !errors.Is(err, core.ErrDuplicateBudget) {
		t.Fatalf("expected ErrDuplicateBudget, got %v", err)
	}

	// A different month is fine.
	seedBudget(t, r, u.ID, food.ID, 10000, day(2024, time.April, 1))
}

func TestBudgetsScopedToOwner(t *testing.T) {
	r := newTestRepo(t)
	alice := seedUser(t, r, "alice")
	bob := seedUser(t, r, "bob")
	aliceFood := seedCategory(t, r, alice.ID, "Food")
	bobFood := seedCategory(t, r, bob.ID, "Food")

	b := seedBudget(t, r, alice.ID, aliceFood.ID, 50000, day(2024, time.March, 1))

	// Same category name and month for a different user is not a duplicate.
	seedBudget(t, r, bob.ID, bobFood.ID, 20000, day(2024, time.March, 1))

	if _, err := r.GetBudget(context.Background(), b.ID, bob.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign budget, got %v", err)
	}
	if err := r.DeleteBudget(context.Background(), b.ID, bob.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("foreign delete should report ErrNotFound, got %v", err)
	}
	if _, err := r.GetBudget(context.Background(), b.ID, alice.ID); err != nil {
		t.Fatalf("budget should survive foreign delete: %v", err)
	}
}

func TestUpdateBudget(t *testing.T) {
	r := newTestRepo(t)
	u := seedUser(t, r, "alice")
	food := seedCategory(t, r, u.ID, "Food")

	b := seedBudget(t, r, u.ID, food.ID, 50000, day(2024, time.March, 1))

	p := core.NormalizePeriod(day(2024, time.April, 10))
	updated, err := r.UpdateBudget(context.Background(), b.ID, u.ID, core.Money{Cents: 60000}, p.Start, p.End)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Amount.String() != "600.00" || !updated.StartDate.Equal(day(2024, time.April, 1)) {
		t.Fatalf("unexpected update result: %+v", updated)
	}

	if _, err := r.UpdateBudget(context.Background(), 9999, u.ID, core.Money{Cents: 100}, p.Start, p.End); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for missing budget, got %v", err)
	}
}

func TestUpdateBudgetMonthCollision(t *testing.T) {
	r := newTestRepo(t)
	u := seedUser(t, r, "alice")
	food := seedCategory(t, r, u.ID, "Food")

	seedBudget(t, r, u.ID, food.ID, 50000, day(2024, time.March, 1))
	b := seedBudget(t, r, u.ID, food.ID, 20000, day(2024, time.April, 1))

	// Moving April's budget onto March collides with the existing one.
	p := core.NormalizePeriod(day(2024, time.March, 20))
	if _, err := r.UpdateBudget(context.Background(), b.ID, u.ID, core.Money{Cents: 20000}, p.Start, p.End); !errors.Is(err, core.ErrDuplicateBudget) {
		t.Fatalf("expected ErrDuplicateBudget, got %v", err)
	}

	// Keeping its own month is not a collision.
	p = core.NormalizePeriod(day(2024, time.April, 20))
	if _, err := r.UpdateBudget(context.Background(), b.ID, u.ID, core.Money{Cents: 30000}, p.Start, p.End); err != nil {
		t.Fatalf("self-month update failed: %v", err)
	}
}

func TestDeleteBudget(t *testing.T) {
	r := newTestRepo(t)
	u := seedUser(t, r, "alice")
	food := seedCategory(t, r, u.ID, "Food")

	b := seedBudget(t, r, u.ID, food.ID, 50000, day(2024, time.March, 1))

	if err := r.DeleteBudget(context.Background(), b.ID, u.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := r.DeleteBudget(context.Background(), b.ID, u.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete should report ErrNotFound, got %v", err)
	}
}
