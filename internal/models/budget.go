package models

// BudgetItem is one line of the wedding budget
type BudgetItem struct {
	ID        string  `json:"id"`
	Category  string  `json:"category"`
	Estimated float64 `json:"estimated"`
	Actual    float64 `json:"actual"`
	IsPaid    bool    `json:"is_paid"`
	Notes     string  `json:"notes,omitempty"`
}

// Remaining is the estimate left after actual spending; negative when over budget.
func (b BudgetItem) Remaining() float64 {
	return b.Estimated - b.Actual
}

// IsOverBudget reports whether actual spending exceeds the estimate
func (b BudgetItem) IsOverBudget() bool {
	return b.Actual > b.Estimated
}
