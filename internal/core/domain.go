package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Income  Kind = "income"
	Expense Kind = "expense"
)

// MaxDescriptionLen bounds transaction descriptions.
const MaxDescriptionLen = 300

type (
	// Kind distinguishes money coming in from money going out.
	Kind string

	// User is the owner of everything else. Created at registration by the
	// excluded web layer; the core only ever reads it.
	User struct {
		ID           int64
		Username     string
		PasswordHash string
	}

	// Category is a user-defined label for transactions. Categories belong
	// to exactly one user and are never visible to anyone else.
	Category struct {
		ID         int64
		Name       string
		OwnerID    int64
		CreatedBy  int64
		CreatedAt  time.Time
		ModifiedAt time.Time
	}

	// Transaction is a single ledger entry. CategoryID is optional; when
	// set it must reference a category owned by OwnerID. CategoryName is
	// filled by list queries that join the categories table and is never
	// written back.
	Transaction struct {
		ID           int64
		OwnerID      int64
		Amount       Money
		Kind         Kind
		CategoryID   *int64
		CategoryName string
		Description  string
		Date         time.Time
		CreatedAt    time.Time
		ModifiedAt   time.Time
	}

	// Budget caps spending for one category over one calendar month.
	// StartDate is always the first day of the month and EndDate the last.
	Budget struct {
		ID           int64
		OwnerID      int64
		CategoryID   int64
		CategoryName string
		Amount       Money
		StartDate    time.Time
		EndDate      time.Time
		CreatedAt    time.Time
		ModifiedAt   time.Time
	}
)

var (
	ErrInvalidAmount      = errors.New("invalid amount")
	ErrInvalidKind        = errors.New("invalid transaction kind")
	ErrEmptyDescription   = errors.New("empty description")
	ErrDescriptionTooLong = errors.New("description too long (max 300 characters)")
	ErrInvalidDate        = errors.New("invalid date")
	ErrEmptyCategoryName  = errors.New("empty category name")
	ErrCategoryNotOwned   = errors.New("category does not belong to user")

	// ErrNotFound covers both genuinely missing rows and rows owned by a
	// different user. Callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")

	ErrDuplicateBudget = errors.New("a budget for this category and month already exists")

	ErrBackendUnavailable = errors.New("storage backend unavailable")
)

// validationErrs is the set of user-correctable input errors.
var validationErrs = []error{
	ErrInvalidAmount,
	ErrInvalidKind,
	ErrEmptyDescription,
	ErrDescriptionTooLong,
	ErrInvalidDate,
	ErrEmptyCategoryName,
	ErrCategoryNotOwned,
}

// IsValidation reports whether err is (or wraps) one of the validation
// sentinels. Validation failures are never fatal and must leave the store
// unchanged.
func IsValidation(err error) bool {
	for _, v := range validationErrs {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}

// Valid reports whether k is one of the two supported transaction kinds.
func (k Kind) Valid() bool {
	return k == Income || k == Expense
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return ErrEmptyCategoryName
	}
	return nil
}

func (t Transaction) Validate() error {
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Kind.Valid() {
		return ErrInvalidKind
	}
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if len(t.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (b Budget) Validate() error {
	if err := b.Amount.Validate(); err != nil {
		return err
	}
	if b.CategoryID <= 0 {
		return ErrCategoryNotOwned
	}
	if b.StartDate.IsZero() || b.EndDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
