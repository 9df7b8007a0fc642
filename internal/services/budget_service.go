package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
	"github.com/MilanBeharee27/finance-tracker/internal/storage"
)

// BudgetService enforces the budget rules: whole-calendar-month periods,
// one budget per category per month, owner-only mutations.
type BudgetService struct {
	repo      *storage.Repository
	overviews OverviewInvalidator
}

func NewBudgetService(repo *storage.Repository, overviews OverviewInvalidator) *BudgetService {
	return &BudgetService{repo: repo, overviews: overviews}
}

func (s *BudgetService) assertOwnsCategory(ctx context.Context, categoryID, ownerID int64) error {
	_, err := s.repo.GetCategory(ctx, categoryID, ownerID)
	if errors.Is(err, core.ErrNotFound) {
		return core.ErrCategoryNotOwned
	}
	return err
}

// SetBudget creates a budget for the calendar month containing anyDay.
// A second budget for the same category and month fails with
// core.ErrDuplicateBudget; the caller should direct the user to edit the
// existing one instead.
func (s *BudgetService) SetBudget(ctx context.Context, ownerID, categoryID int64, amount core.Money, anyDay time.Time) (core.Budget, error) {
	if err := amount.Validate(); err != nil {
		return core.Budget{}, err
	}
	if anyDay.IsZero() {
		return core.Budget{}, core.ErrInvalidDate
	}
	if err := s.assertOwnsCategory(ctx, categoryID, ownerID); err != nil {
		return core.Budget{}, err
	}

	p := core.NormalizePeriod(anyDay)
	created, err := s.repo.InsertBudget(ctx, core.Budget{
		OwnerID:    ownerID,
		CategoryID: categoryID,
		Amount:     amount,
		StartDate:  p.Start,
		EndDate:    p.End,
	})
	if err != nil {
		if errors.Is(err, core.ErrDuplicateBudget) {
			return core.Budget{}, err
		}
		return core.Budget{}, fmt.Errorf("set budget: %w", err)
	}

	s.afterMutation(ownerID)
	slog.InfoContext(ctx, "Budget set",
		"user_id", ownerID, "budget_id", created.ID,
		"category_id", categoryID, "amount_cents", amount.Cents,
		"month", p.Start.Format("2006-01"))
	return created, nil
}

// UpdateBudget changes amount and month of an owned budget. Update enforces
// the same invariants as create: the period is re-normalized to the month
// containing anyDay and the new month must not collide with another budget
// for the same category.
func (s *BudgetService) UpdateBudget(ctx context.Context, budgetID, ownerID int64, amount core.Money, anyDay time.Time) (core.Budget, error) {
	if err := amount.Validate(); err != nil {
		return core.Budget{}, err
	}
	if anyDay.IsZero() {
		return core.Budget{}, core.ErrInvalidDate
	}

	p := core.NormalizePeriod(anyDay)
	updated, err := s.repo.UpdateBudget(ctx, budgetID, ownerID, amount, p.Start, p.End)
	if err != nil {
		return core.Budget{}, err
	}

	s.afterMutation(ownerID)
	slog.InfoContext(ctx, "Budget updated",
		"user_id", ownerID, "budget_id", budgetID,
		"month", p.Start.Format("2006-01"))
	return updated, nil
}

// DeleteBudget removes an owned budget; a missing or foreign id reports
// core.ErrNotFound.
func (s *BudgetService) DeleteBudget(ctx context.Context, budgetID, ownerID int64) error {
	if err := s.repo.DeleteBudget(ctx, budgetID, ownerID); err != nil {
		return err
	}

	s.afterMutation(ownerID)
	slog.InfoContext(ctx, "Budget deleted",
		"user_id", ownerID, "budget_id", budgetID)
	return nil
}

// ListBudgets returns the owner's budgets with their category names.
func (s *BudgetService) ListBudgets(ctx context.Context, ownerID int64) ([]core.Budget, error) {
	return s.repo.ListBudgets(ctx, ownerID)
}

func (s *BudgetService) afterMutation(ownerID int64) {
	if s.overviews != nil {
		s.overviews.InvalidateUser(ownerID)
	}
}
