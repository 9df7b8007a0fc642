package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

// Store is an in-process stand-in for the sheet export target. It keeps the
// same keyed-by-id semantics as the Google adapter so worker tests can
// assert on idempotent appends and removals.
type Store struct {
	mu    sync.Mutex
	rows  map[int64]core.Transaction
	order []int64
	fail  error
}

func New() *Store {
	return &Store{rows: make(map[int64]core.Transaction)}
}

// FailWith makes every subsequent call return err; pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Append stores the transaction keyed by id and returns a synthetic row
// reference. Re-appending an id overwrites the stored row.
func (s *Store) Append(_ context.Context, t core.Transaction) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	if _, ok := s.rows[t.ID]; !ok {
		s.order = append(s.order, t.ID)
	}
	s.rows[t.ID] = t
	return fmt.Sprintf("mem:%d", t.ID), nil
}

// Remove drops the row for the given id. Missing ids are not an error.
func (s *Store) Remove(_ context.Context, transactionID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	if _, ok := s.rows[transactionID]; !ok {
		return nil
	}
	delete(s.rows, transactionID)
	for i, id := range s.order {
		if id == transactionID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// Rows returns the stored transactions in first-append order.
func (s *Store) Rows() []core.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.rows[id])
	}
	return out
}
