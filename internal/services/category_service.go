package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
	"github.com/MilanBeharee27/finance-tracker/internal/storage"
)

// CategoryService is CRUD over user-owned categories. Deletion is
// deliberately absent: transactions and budgets reference categories and
// nothing in the product removes them yet.
type CategoryService struct {
	repo *storage.Repository
}

func NewCategoryService(repo *storage.Repository) *CategoryService {
	return &CategoryService{repo: repo}
}

// CreateCategory validates the name and stores a category owned by ownerID.
func (s *CategoryService) CreateCategory(ctx context.Context, ownerID int64, name string) (core.Category, error) {
	name = strings.TrimSpace(name)
	if err := (core.Category{Name: name}).Validate(); err != nil {
		return core.Category{}, err
	}

	c, err := s.repo.CreateCategory(ctx, ownerID, name)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}

	slog.InfoContext(ctx, "Category created",
		"user_id", ownerID, "category_id", c.ID, "name", c.Name)
	return c, nil
}

// ListCategories returns the owner's categories.
func (s *CategoryService) ListCategories(ctx context.Context, ownerID int64) ([]core.Category, error) {
	return s.repo.ListCategories(ctx, ownerID)
}
