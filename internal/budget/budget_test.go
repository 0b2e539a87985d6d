package budget

import (
	"errors"
	"reflect"
	"testing"

	"github.com/B1shwas/Khumbaya-sub000/internal/models"
	"github.com/B1shwas/Khumbaya-sub000/internal/validation"
)

func TestSummarize_OverspentItemWithinTotal(t *testing.T) {
	items := []models.BudgetItem{
		{ID: "1", Category: "Venue", Estimated: 100, Actual: 120, IsPaid: true},
		{ID: "2", Category: "Flowers", Estimated: 50, Actual: 0, IsPaid: false},
	}

	got := Summarize(items)
	want := Summary{
		TotalEstimated: 150,
		TotalActual:    120,
		TotalPaid:      120,
		TotalPending:   0,
		Remaining:      30,
		PercentUsed:    80,
		IsOverBudget:   false,
		CategoryCount:  2,
	}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
	if !items[0].IsOverBudget() {
		t.Fatal("expected the venue line to be over budget on its own")
	}
	if items[0].Remaining() != -20 {
		t.Fatalf("expected venue remaining -20, got %v", items[0].Remaining())
	}
}

func TestSummarize_ZeroEstimate(t *testing.T) {
	tests := [][]models.BudgetItem{
		nil,
		{{Category: "Misc", Actual: 40}},
		{{Category: "Misc", Estimated: 0, Actual: 0}},
	}

	for i, items := range tests {
		got := Summarize(items)
		if got.PercentUsed != 0 {
			t.Fatalf("case %d: expected 0 percent, got %d", i, got.PercentUsed)
		}
	}

	if !Summarize(tests[1]).IsOverBudget {
		t.Fatal("expected spending without an estimate to be over budget")
	}
}

func TestSummarize_PendingReconciles(t *testing.T) {
	items := []models.BudgetItem{
		{Category: "A", Estimated: 10, Actual: 7.5, IsPaid: true},
		{Category: "B", Estimated: 20, Actual: 12.25},
		{Category: "A", Estimated: 5, Actual: 9, IsPaid: true},
	}

	s := Summarize(items)
	if s.TotalPending != s.TotalActual-s.TotalPaid {
		t.Fatalf("expected pending %v, got %v", s.TotalActual-s.TotalPaid, s.TotalPending)
	}
	if s.PercentUsed != 82 {
		t.Fatalf("expected rounded 82 percent, got %d", s.PercentUsed)
	}
	if s.CategoryCount != 2 {
		t.Fatalf("expected 2 categories, got %d", s.CategoryCount)
	}
}

func TestTogglePaid(t *testing.T) {
	items := []models.BudgetItem{
		{ID: "1", Actual: 10},
		{ID: "2", Actual: 20, IsPaid: true},
	}

	got := TogglePaid(items, "1")
	if !got[0].IsPaid || !got[1].IsPaid {
		t.Fatalf("expected only item 1 flipped to paid, got %+v", got)
	}
	if items[0].IsPaid {
		t.Fatal("expected input slice untouched")
	}
	if got[0].Actual != 10 {
		t.Fatal("expected other fields untouched")
	}

	back := TogglePaid(got, "1")
	if back[0].IsPaid {
		t.Fatal("expected second toggle to flip back")
	}

	if same := TogglePaid(items, "missing"); !reflect.DeepEqual(same, items) {
		t.Fatal("expected unknown id to be a no-op")
	}
}

func TestByCategory(t *testing.T) {
	items := []models.BudgetItem{
		{Category: "Venue", Estimated: 100, Actual: 90, IsPaid: true},
		{Category: "Catering", Estimated: 50, Actual: 60},
		{Category: "Venue", Estimated: 20, Actual: 10},
	}

	got := ByCategory(items)
	want := []CategoryTotal{
		{Category: "Catering", Estimated: 50, Actual: 60, Items: 1},
		{Category: "Venue", Estimated: 120, Actual: 100, Paid: 90, Items: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestNewItem(t *testing.T) {
	item, err := NewItem(NewItemInput{Category: " Music ", Estimated: "800", Actual: "250.50"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID == "" || item.Category != "Music" || item.Estimated != 800 || item.Actual != 250.5 || item.IsPaid {
		t.Fatalf("unexpected item: %+v", item)
	}

	item, err = NewItem(NewItemInput{Category: "Cake", Estimated: "120"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Actual != 0 {
		t.Fatalf("expected zero actual, got %v", item.Actual)
	}

	for _, in := range []NewItemInput{
		{Estimated: "10"},
		{Category: "x", Estimated: "lots"},
		{Category: "x", Estimated: "-1"},
		{Category: "x", Estimated: "1", Actual: "abc"},
	} {
		if _, err := NewItem(in); !errors.Is(err, validation.ErrInvalid) {
			t.Fatalf("expected validation error for %+v, got %v", in, err)
		}
	}
}
