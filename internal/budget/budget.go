// Package budget rolls up the estimated, actual and paid amounts of the
// wedding budget.
package budget

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/B1shwas/Khumbaya-sub000/internal/models"
	"github.com/B1shwas/Khumbaya-sub000/internal/validation"
)

// Summary is the aggregate over all budget items.
// TotalPending always equals TotalActual - TotalPaid.
type Summary struct {
	TotalEstimated float64 `json:"total_estimated"`
	TotalActual    float64 `json:"total_actual"`
	TotalPaid      float64 `json:"total_paid"`
	TotalPending   float64 `json:"total_pending"`
	Remaining      float64 `json:"remaining"`
	PercentUsed    int     `json:"percent_used"`
	IsOverBudget   bool    `json:"is_over_budget"`
	CategoryCount  int     `json:"category_count"`
}

// CategoryTotal is the rollup of one category
type CategoryTotal struct {
	Category  string  `json:"category"`
	Estimated float64 `json:"estimated"`
	Actual    float64 `json:"actual"`
	Paid      float64 `json:"paid"`
	Items     int     `json:"items"`
}

// NewItemInput carries raw form values for a budget line
type NewItemInput struct {
	Category  string `validate:"required"`
	Estimated string `validate:"required,numeric,nonnegative"`
	Actual    string `validate:"omitempty,numeric,nonnegative"`
	Notes     string
}

// Summarize aggregates items. PercentUsed is 0 when nothing was estimated.
func Summarize(items []models.BudgetItem) Summary {
	var s Summary
	categories := make(map[string]struct{})
	for _, item := range items {
		s.TotalEstimated += item.Estimated
		s.TotalActual += item.Actual
		if item.IsPaid {
			s.TotalPaid += item.Actual
		}
		categories[item.Category] = struct{}{}
	}

	s.TotalPending = s.TotalActual - s.TotalPaid
	s.Remaining = s.TotalEstimated - s.TotalActual
	if s.TotalEstimated != 0 {
		s.PercentUsed = int(math.Round(s.TotalActual / s.TotalEstimated * 100))
	}
	s.IsOverBudget = s.TotalActual > s.TotalEstimated
	s.CategoryCount = len(categories)
	return s
}

// TogglePaid returns a copy of items with IsPaid flipped on the item with id.
// Unknown ids return an unchanged copy.
func TogglePaid(items []models.BudgetItem, id string) []models.BudgetItem {
	out := make([]models.BudgetItem, len(items))
	copy(out, items)
	for i := range out {
		if out[i].ID == id {
			out[i].IsPaid = !out[i].IsPaid
			break
		}
	}
	return out
}

// ByCategory groups items per category, ordered by category name
func ByCategory(items []models.BudgetItem) []CategoryTotal {
	totals := make(map[string]*CategoryTotal)
	for _, item := range items {
		ct, ok := totals[item.Category]
		if !ok {
			ct = &CategoryTotal{Category: item.Category}
			totals[item.Category] = ct
		}
		ct.Estimated += item.Estimated
		ct.Actual += item.Actual
		if item.IsPaid {
			ct.Paid += item.Actual
		}
		ct.Items++
	}

	out := make([]CategoryTotal, 0, len(totals))
	for _, ct := range totals {
		out = append(out, *ct)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Category < out[j].Category })
	return out
}

// NewItem validates the form values and builds an unpaid budget item
func NewItem(in NewItemInput) (models.BudgetItem, error) {
	in.Category = strings.TrimSpace(in.Category)
	in.Estimated = strings.TrimSpace(in.Estimated)
	in.Actual = strings.TrimSpace(in.Actual)

	if err := validation.Validate(in); err != nil {
		return models.BudgetItem{}, err
	}

	estimated, err := strconv.ParseFloat(in.Estimated, 64)
	if err != nil {
		return models.BudgetItem{}, validation.Invalid("Estimated", validation.MsgNotNumeric)
	}
	var actual float64
	if in.Actual != "" {
		actual, err = strconv.ParseFloat(in.Actual, 64)
		if err != nil {
			return models.BudgetItem{}, validation.Invalid("Actual", validation.MsgNotNumeric)
		}
	}

	return models.BudgetItem{
		ID:        uuid.NewString(),
		Category:  in.Category,
		Estimated: estimated,
		Actual:    actual,
		Notes:     in.Notes,
	}, nil
}
