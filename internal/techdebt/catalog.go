package techdebt

import (
	"strconv"
	"strings"

	"github.com/agoda-com/codecompass/internal/findings"
)

// Hint property names analyzers use to describe their own rules.
const (
	HintMinutes        = "TechDebtInMinutes"
	HintCategory       = "Category"
	HintRationale      = "Rationale"
	HintRecommendation = "Recommendation"
)

const (
	defaultMinutes  = 15
	defaultCategory = "BestPractices"
)

// Catalog resolves rule ids to tech-debt metadata: built-in table first,
// then the runtime overlay, then absent.
type Catalog struct {
	builtin *Table
	overlay *Overlay
}

// New creates a catalog over the built-in table and the given overlay.
// A nil overlay gets a fresh, private one.
func New(overlay *Overlay) *Catalog {
	return NewWithTable(Builtin(), overlay)
}

// NewWithTable is New with an explicit base table.
func NewWithTable(table *Table, overlay *Overlay) *Catalog {
	if overlay == nil {
		overlay = NewOverlay()
	}
	return &Catalog{builtin: table, overlay: overlay}
}

// Lookup returns a copy of the metadata for ruleID, or nil when none exists.
func (c *Catalog) Lookup(ruleID string) *findings.TechDebtInfo {
	if info, ok := c.builtin.Lookup(ruleID); ok {
		return &info
	}
	if info, ok := c.overlay.lookup(ruleID); ok {
		return &info
	}
	return nil
}

// Properties wraps Lookup in the properties bag attached to rules and results.
func (c *Catalog) Properties(ruleID string) findings.TechDebtProperties {
	return findings.TechDebtProperties{TechDebt: c.Lookup(ruleID)}
}

// Builtin exposes the read-only base table.
func (c *Catalog) Builtin() *Table {
	return c.builtin
}

// RegisterFromFindingProperties derives metadata for every diagnostic whose rule
// is not in the built-in table and adds it to the overlay. The first diagnostic
// seen for a rule id wins; repeated calls with the same input change nothing.
// It returns the number of newly registered rule ids.
func (c *Catalog) RegisterFromFindingProperties(diags []findings.Diagnostic) int {
	registered := 0
	for _, d := range diags {
		if d.RuleID == "" || c.builtin.Contains(d.RuleID) {
			continue
		}
		if c.overlay.add(d.RuleID, deriveInfo(d)) {
			registered++
		}
	}
	return registered
}

func deriveInfo(d findings.Diagnostic) findings.TechDebtInfo {
	minutes := defaultMinutes
	if raw, ok := d.Property(HintMinutes); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil && parsed > 0 {
			minutes = parsed
		}
	}

	category := defaultCategory
	if hint, ok := d.Property(HintCategory); ok && hint != "" {
		category = hint
	} else if d.Category != "" {
		category = d.Category
	}

	rationale := d.Description
	if hint, ok := d.Property(HintRationale); ok {
		rationale = hint
	}

	recommendation := d.HelpURI
	if recommendation == "" {
		recommendation = d.MessageFormat
	}
	if hint, ok := d.Property(HintRecommendation); ok {
		recommendation = hint
	}

	return findings.TechDebtInfo{
		Minutes:        minutes,
		Category:       category,
		Priority:       d.Severity.Priority(),
		Rationale:      rationale,
		Recommendation: recommendation,
	}
}
