package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

func TestCreateAndListCategories(t *testing.T) {
	r := newTestRepo(t)
	u := seedUser(t, r, "alice")

	c := seedCategory(t, r, u.ID, "Food")
	if c.ID == 0 || c.OwnerID != u.ID || c.CreatedBy != u.ID {
		t.Fatalf("unexpected category: %+v", c)
	}

	seedCategory(t, r, u.ID, "Transport")

	cats, err := r.ListCategories(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 2 || cats[0].Name != "Food" || cats[1].Name != "Transport" {
		t.Fatalf("unexpected listing: %+v", cats)
	}
}

func TestCategoriesScopedToOwner(t *testing.T) {
	r := newTestRepo(t)
	alice := seedUser(t, r, "alice")
	bob := seedUser(t, r, "bob")

	c := seedCategory(t, r, alice.ID, "Food")

	cats, err := r.ListCategories(context.Background(), bob.ID)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 0 {
		t.Fatalf("bob should see no categories, got %+v", cats)
	}

	// Supplying a valid foreign id must look like a missing row.
	if _, err := r.GetCategory(context.Background(), c.ID, bob.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign category, got %v", err)
	}
	if _, err := r.GetCategory(context.Background(), c.ID, alice.ID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
}
