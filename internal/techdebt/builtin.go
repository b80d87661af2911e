package techdebt

import (
	_ "embed"
	"fmt"
	"sort"

	yaml "gopkg.in/yaml.v2"

	"github.com/agoda-com/codecompass/internal/findings"
)

//go:embed catalog.yaml
var builtinYAML []byte

// builtin is decoded once and never written afterwards.
var builtin = mustLoadTable(builtinYAML)

// Table is a read-only rule id -> metadata mapping.
type Table struct {
	entries map[string]findings.TechDebtInfo
}

// Builtin returns the compiled-in table covering compiler, analyzer, style-checker,
// test-framework and organization-specific rule families.
func Builtin() *Table {
	return builtin
}

func loadTable(data []byte) (*Table, error) {
	entries := map[string]findings.TechDebtInfo{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode catalog: %w", err)
	}
	for id, info := range entries {
		if err := info.Validate(); err != nil {
			return nil, fmt.Errorf("catalog entry %q is invalid: %w", id, err)
		}
	}
	return &Table{entries: entries}, nil
}

func mustLoadTable(data []byte) *Table {
	t, err := loadTable(data)
	if err != nil {
		panic(err)
	}
	return t
}

// Lookup returns a copy of the entry for ruleID.
func (t *Table) Lookup(ruleID string) (findings.TechDebtInfo, bool) {
	info, ok := t.entries[ruleID]
	return info, ok
}

// Contains reports whether ruleID has an entry.
func (t *Table) Contains(ruleID string) bool {
	_, ok := t.entries[ruleID]
	return ok
}

// Len returns the number of entries.
func (t *Table) Len() int {
	return len(t.entries)
}

// IDs returns all rule ids in lexical order.
func (t *Table) IDs() []string {
	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
