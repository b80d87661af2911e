package findings

import (
	"fmt"
)

// Priority ranks how urgently a piece of technical debt should be paid down.
type Priority string

const (
	PriorityLow    Priority = "Low"
	PriorityMedium Priority = "Medium"
	PriorityHigh   Priority = "High"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// TechDebtInfo is the remediation metadata attached to rules and results.
// Values are treated as immutable once built; callers receive copies.
type TechDebtInfo struct {
	Minutes        int      `json:"minutes" yaml:"minutes"`
	Category       string   `json:"category" yaml:"category"`
	Priority       Priority `json:"priority" yaml:"priority"`
	Rationale      string   `json:"rationale,omitempty" yaml:"rationale,omitempty"`
	Recommendation string   `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// Validate checks the invariants every catalog entry must hold.
func (i TechDebtInfo) Validate() error {
	if i.Minutes <= 0 {
		return fmt.Errorf("minutes must be positive, got %d", i.Minutes)
	}
	if i.Category == "" {
		return fmt.Errorf("category is empty")
	}
	if !i.Priority.Valid() {
		return fmt.Errorf("unknown priority %q", i.Priority)
	}
	return nil
}

// TechDebtProperties is the properties bag content this module owns.
// TechDebt stays nil when no catalog entry exists; it is never defaulted.
type TechDebtProperties struct {
	TechDebt *TechDebtInfo `json:"techDebt"`
}
