package ledger

import (
	"sort"

	"github.com/yannesss/finreport/internal/core"
)

// DefaultBreakdownThreshold is the distinct-category count above which the
// chart series collapses the long tail into a single "Others" bucket.
const DefaultBreakdownThreshold = 8

// ChartOthersLabel names the synthetic long-tail bucket in the chart series
// when the caller supplies no localized label.
const ChartOthersLabel = "Others"

type (
	// CategoryAmount is one slice of the chart series.
	CategoryAmount struct {
		Category string  `json:"category"`
		Expense  float64 `json:"expense"`
	}

	// CategoryShare is one row of the detailed list, with its share of the
	// total filtered expense.
	CategoryShare struct {
		Category string  `json:"category"`
		Expense  float64 `json:"expense"`
		Percent  float64 `json:"percent"`
	}

	// Breakdown groups expense totals by category. Detailed always lists
	// every category ungrouped; Chart applies the long-tail policy.
	Breakdown struct {
		TotalExpense float64          `json:"totalExpense"`
		Detailed     []CategoryShare  `json:"detailed"`
		Chart        []CategoryAmount `json:"chart"`
	}
)

// NewBreakdown groups transactions with expense > 0 by category, sorted by
// summed expense descending. When more than threshold distinct categories
// exist, the chart keeps the top threshold-1 and merges the rest into a
// bucket named othersLabel (ChartOthersLabel when empty). Percentages are
// always shares of the total expense, so they sum to 100 across the detailed
// list. A threshold < 2 falls back to the default.
func NewBreakdown(list []core.Transaction, threshold int, othersLabel string) Breakdown {
	if threshold < 2 {
		threshold = DefaultBreakdownThreshold
	}
	if othersLabel == "" {
		othersLabel = ChartOthersLabel
	}

	index := make(map[string]int)
	groups := make([]CategoryAmount, 0)
	for _, tx := range list {
		if tx.Expense <= 0 {
			continue
		}
		i, ok := index[tx.Category]
		if !ok {
			i = len(groups)
			index[tx.Category] = i
			groups = append(groups, CategoryAmount{Category: tx.Category})
		}
		groups[i].Expense += tx.Expense
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Expense > groups[j].Expense
	})

	b := Breakdown{
		Detailed: make([]CategoryShare, 0, len(groups)),
		Chart:    make([]CategoryAmount, 0, len(groups)),
	}
	for _, g := range groups {
		b.TotalExpense += g.Expense
	}
	for _, g := range groups {
		share := CategoryShare{Category: g.Category, Expense: g.Expense}
		if b.TotalExpense > 0 {
			share.Percent = g.Expense / b.TotalExpense * 100
		}
		b.Detailed = append(b.Detailed, share)
	}

	if len(groups) > threshold {
		top := groups[:threshold-1]
		var tail float64
		for _, g := range groups[threshold-1:] {
			tail += g.Expense
		}
		b.Chart = append(b.Chart, top...)
		b.Chart = append(b.Chart, CategoryAmount{Category: othersLabel, Expense: tail})
	} else {
		b.Chart = append(b.Chart, groups...)
	}

	return b
}
