package google

import (
	"testing"
	"time"

	"github.com/MilanBeharee27/finance-tracker/internal/core"
)

func TestParseRowID(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want int64
	}{
		{name: "plain id", in: "42", want: 42},
		{name: "padded", in: " 7 ", want: 7},
		{name: "header cell", in: "ID", want: 0},
		{name: "empty", in: "", want: 0},
		{name: "zero", in: "0", want: 0},
		{name: "negative", in: "-3", want: 0},
		{name: "decimal", in: "4.5", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseRowID(tt.in); got != tt.want {
				t.Errorf("parseRowID(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestRowValues(t *testing.T) {
	tr := core.Transaction{
		ID:           12,
		Amount:       core.Money{Cents: 10010},
		Kind:         core.Expense,
		CategoryName: "Food",
		Description:  "Groceries",
		Date:         time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
	}

	row := rowValues(tr)
	if len(row) != 6 {
		t.Fatalf("expected 6 columns, got %d", len(row))
	}
	if row[0] != int64(12) {
		t.Errorf("id column = %v", row[0])
	}
	if row[1] != "2024-03-05" {
		t.Errorf("date column = %v", row[1])
	}
	if row[2] != "expense" {
		t.Errorf("kind column = %v", row[2])
	}
	if row[3] != 100.10 {
		t.Errorf("amount column = %v", row[3])
	}
	if row[4] != "Food" || row[5] != "Groceries" {
		t.Errorf("tail columns = %v %v", row[4], row[5])
	}
}
