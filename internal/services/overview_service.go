package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/MilanBeharee27/finance-tracker/internal/cache"
	"github.com/MilanBeharee27/finance-tracker/internal/core"
	"github.com/MilanBeharee27/finance-tracker/internal/storage"
)

const (
	overviewCacheSize = 256
	overviewCacheTTL  = 30 * time.Second
)

// OverviewService assembles the dashboard view model: the full ledger and
// budget list for one user, reduced to totals, balance, per-category spend
// and budget consumption. The unfiltered overview is memoized briefly;
// searches always hit storage.
type OverviewService struct {
	repo  *storage.Repository
	cache *cache.LRUCache[core.Overview]
}

func NewOverviewService(repo *storage.Repository) *OverviewService {
	return &OverviewService{
		repo:  repo,
		cache: cache.NewLRUCache[core.Overview](overviewCacheSize, overviewCacheTTL),
	}
}

// Overview computes the owner's aggregates, optionally restricted to
// transactions matching search. Transactions and budgets load
// concurrently; both queries are owner-scoped.
func (s *OverviewService) Overview(ctx context.Context, ownerID int64, search string) (core.Overview, error) {
	cacheable := search == ""
	if cacheable {
		if o, ok := s.cache.Get(overviewKey(ownerID)); ok {
			return o, nil
		}
	}

	var (
		transactions []core.Transaction
		budgets      []core.Budget
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		transactions, err = s.repo.ListTransactions(gctx, ownerID, search)
		return err
	})
	g.Go(func() error {
		var err error
		budgets, err = s.repo.ListBudgets(gctx, ownerID)
		return err
	})
	if err := g.Wait(); err != nil {
		return core.Overview{}, fmt.Errorf("load overview: %w", err)
	}

	o := core.BuildOverview(transactions, budgets)
	if cacheable {
		s.cache.Set(overviewKey(ownerID), o)
	}
	return o, nil
}

// InvalidateUser drops the cached overview after any ledger or budget
// mutation. Implements OverviewInvalidator.
func (s *OverviewService) InvalidateUser(userID int64) {
	s.cache.Delete(overviewKey(userID))
}

func overviewKey(userID int64) string {
	return strconv.FormatInt(userID, 10)
}
