package enrich

import (
	"sort"

	"github.com/hashicorp/go-hclog"

	"github.com/agoda-com/codecompass/internal/findings"
)

// Summary aggregates the tech debt attached to the results of a report.
type Summary struct {
	Results      int
	Enriched     int
	TotalMinutes int
	ByCategory   map[string]int
	ByPriority   map[findings.Priority]int
}

// Summarize collects minutes per category and result counts per priority.
// Results without metadata only count towards Results; unreadable results are not counted.
func Summarize(report *findings.Report) Summary {
	summary := Summary{
		ByCategory: map[string]int{},
		ByPriority: map[findings.Priority]int{
			findings.PriorityLow:    0,
			findings.PriorityMedium: 0,
			findings.PriorityHigh:   0,
		},
	}

	for _, run := range report.Runs {
		for _, result := range run.Results {
			if result.Verbatim {
				continue
			}
			summary.Results++
			info := result.Properties.TechDebt
			if info == nil {
				continue
			}
			summary.Enriched++
			summary.TotalMinutes += info.Minutes
			summary.ByCategory[info.Category] += info.Minutes
			summary.ByPriority[info.Priority]++
		}
	}
	return summary
}

// Log writes the summary as one line plus one line per category, largest first.
func (s Summary) Log(logger hclog.Logger, name string) {
	logger.Info("tech debt summary",
		"report", name,
		"results", s.Results,
		"enriched", s.Enriched,
		"minutes", s.TotalMinutes,
		"high", s.ByPriority[findings.PriorityHigh],
		"medium", s.ByPriority[findings.PriorityMedium],
		"low", s.ByPriority[findings.PriorityLow])

	for _, category := range s.categoriesByMinutes() {
		logger.Debug("tech debt by category", "report", name, "category", category, "minutes", s.ByCategory[category])
	}
}

func (s Summary) categoriesByMinutes() []string {
	categories := make([]string, 0, len(s.ByCategory))
	for category := range s.ByCategory {
		categories = append(categories, category)
	}
	sort.Slice(categories, func(i, j int) bool {
		if s.ByCategory[categories[i]] != s.ByCategory[categories[j]] {
			return s.ByCategory[categories[i]] > s.ByCategory[categories[j]]
		}
		return categories[i] < categories[j]
	})
	return categories
}
