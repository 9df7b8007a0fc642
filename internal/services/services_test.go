package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
	"github.com/MilanBeharee27/finance-tracker/internal/storage"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

type env struct {
	repo       *storage.Repository
	categories *CategoryService
	ledger     *LedgerService
	budgets    *BudgetService
	overviews  *OverviewService
	publisher  *fakePublisher
}

// fakePublisher records export messages instead of talking to a broker.
type fakePublisher struct {
	synced  []int64
	deleted []int64
	fail    bool
}

func (p *fakePublisher) PublishTransactionSync(_ context.Context, id, _ int64) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.synced = append(p.synced, id)
	return nil
}

func (p *fakePublisher) PublishTransactionDelete(_ context.Context, id int64) error {
	if p.fail {
		return errors.New("broker down")
	}
	p.deleted = append(p.deleted, id)
	return nil
}

func newEnv(t *testing.T) *env {
	t.Helper()
	repo, err := storage.NewRepository(":memory:", 5*time.Second)
	if err != nil {
		t.Fatalf("open repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })

	overviews := NewOverviewService(repo)
	publisher := &fakePublisher{}
	return &env{
		repo:       repo,
		categories: NewCategoryService(repo),
		ledger:     NewLedgerService(repo, publisher, overviews),
		budgets:    NewBudgetService(repo, overviews),
		overviews:  overviews,
		publisher:  publisher,
	}
}

func (e *env) user(t *testing.T, name string) core.User {
	t.Helper()
	u, err := e.repo.CreateUser(context.Background(), name, "x")
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (e *env) category(t *testing.T, ownerID int64, name string) core.Category {
	t.Helper()
	c, err := e.categories.CreateCategory(context.Background(), ownerID, name)
	if err != nil {
		t.Fatalf("create category: %v", err)
	}
	return c
}

func (e *env) expense(t *testing.T, ownerID int64, cents int64, categoryID *int64, desc string, date time.Time) core.Transaction {
	t.Helper()
	tr, err := e.ledger.AddTransaction(context.Background(), ownerID, TransactionInput{
		Amount:      core.Money{Cents: cents},
		Kind:        core.Expense,
		CategoryID:  categoryID,
		Description: desc,
		Date:        date,
	})
	if err != nil {
		t.Fatalf("add expense %q: %v", desc, err)
	}
	return tr
}

func (e *env) income(t *testing.T, ownerID int64, cents int64, desc string, date time.Time) core.Transaction {
	t.Helper()
	tr, err := e.ledger.AddTransaction(context.Background(), ownerID, TransactionInput{
		Amount:      core.Money{Cents: cents},
		Kind:        core.Income,
		Description: desc,
		Date:        date,
	})
	if err != nil {
		t.Fatalf("add income %q: %v", desc, err)
	}
	return tr
}
