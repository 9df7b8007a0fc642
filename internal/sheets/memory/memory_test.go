package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

func TestStoreAppendIsKeyedByID(t *testing.T) {
	s := New()

	ref, err := s.Append(context.Background(), core.Transaction{ID: 1, Description: "first"})
	if err != nil || ref != "mem:1" {
		t.Fatalf("unexpected append: ref=%q err=%v", ref, err)
	}
	if _, err := s.Append(context.Background(), core.Transaction{ID: 2, Description: "second"}); err != nil {
		t.Fatalf("append: %v", err)
	}

	// Same id overwrites instead of duplicating.
	if _, err := s.Append(context.Background(), core.Transaction{ID: 1, Description: "updated"}); err != nil {
		t.Fatalf("re-append: %v", err)
	}

	rows := s.Rows()
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Description != "updated" {
		t.Errorf("row 1 = %q, want the overwritten value", rows[0].Description)
	}
}

func TestStoreRemove(t *testing.T) {
	s := New()
	s.Append(context.Background(), core.Transaction{ID: 1})
	s.Append(context.Background(), core.Transaction{ID: 2})

	if err := s.Remove(context.Background(), 1); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if err := s.Remove(context.Background(), 99); err != nil {
		t.Fatalf("removing a missing id should be a no-op, got %v", err)
	}

	rows := s.Rows()
	if len(rows) != 1 || rows[0].ID != 2 {
		t.Fatalf("unexpected rows after remove: %+v", rows)
	}
}

func TestStoreFailWith(t *testing.T) {
	s := New()
	boom := errors.New("sheet unavailable")
	s.FailWith(boom)

	if _, err := s.Append(context.Background(), core.Transaction{ID: 1}); !errors.Is(err, boom) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	s.FailWith(nil)
	if _, err := s.Append(context.Background(), core.Transaction{ID: 1}); err != nil {
		t.Fatalf("expected recovery, got %v", err)
	}
}
