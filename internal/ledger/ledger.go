// Package ledger derives filtered views, summaries and groupings from a
// transaction collection. Every function is pure: inputs are treated as
// immutable snapshots and outputs are freshly allocated.
package ledger

import (
	"sort"
	"strings"

	"github.com/yannesss/finreport/internal/core"
)

const (
	SortAsc  SortOrder = "asc"
	SortDesc SortOrder = "desc"
)

type (
	SortOrder string

	// FilterParams are the session-scoped view parameters. Zero dates leave
	// that side of the range open.
	FilterParams struct {
		Start  core.Date
		End    core.Date
		Search string
		Sort   SortOrder
	}

	// Summary is a fold over the currently filtered transaction set.
	Summary struct {
		TotalIncome  float64 `json:"totalIncome"`
		TotalExpense float64 `json:"totalExpense"`
		NetIncome    float64 `json:"netIncome"`
	}

	// DailyFlowEntry carries the income and expense totals of one calendar date.
	DailyFlowEntry struct {
		Date    core.Date `json:"date"`
		Income  float64   `json:"income"`
		Expense float64   `json:"expense"`
	}

	// View bundles everything the surrounding UI needs for one render pass.
	View struct {
		Transactions []core.Transaction `json:"transactions"`
		Summary      Summary            `json:"summary"`
		Breakdown    Breakdown          `json:"categoryBreakdown"`
		DailyFlow    []DailyFlowEntry   `json:"dailyFlow"`
	}
)

// Filter retains transactions inside the inclusive date range whose
// description or category matches the search term. Relative input order is
// preserved.
func Filter(list []core.Transaction, p FilterParams) []core.Transaction {
	term := strings.ToLower(strings.TrimSpace(p.Search))
	out := make([]core.Transaction, 0, len(list))
	for _, tx := range list {
		if !p.Start.IsZero() && tx.Date.Before(p.Start.Time) {
			continue
		}
		if !p.End.IsZero() && tx.Date.After(p.End.Time) {
			continue
		}
		if term != "" &&
			!strings.Contains(strings.ToLower(tx.Description), term) &&
			!strings.Contains(strings.ToLower(tx.Category), term) {
			continue
		}
		out = append(out, tx)
	}
	return out
}

// SortByDate returns a copy sorted by date only. The sort is stable: equal
// dates keep their relative input order.
func SortByDate(list []core.Transaction, order SortOrder) []core.Transaction {
	out := make([]core.Transaction, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool {
		if order == SortAsc {
			return out[i].Date.Before(out[j].Date.Time)
		}
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}

// Summarize folds income and expense totals left to right. Net income is
// derived from the running totals, not accumulated independently.
func Summarize(list []core.Transaction) Summary {
	var s Summary
	for _, tx := range list {
		s.TotalIncome += tx.Income
		s.TotalExpense += tx.Expense
	}
	s.NetIncome = s.TotalIncome - s.TotalExpense
	return s
}

// DailyFlow groups transactions by exact date value, summing income and
// expense per date, sorted ascending. A date with only income still appears
// with expense = 0.
func DailyFlow(list []core.Transaction) []DailyFlowEntry {
	index := make(map[string]int)
	out := make([]DailyFlowEntry, 0)
	for _, tx := range list {
		key := tx.Date.String()
		i, ok := index[key]
		if !ok {
			i = len(out)
			index[key] = i
			out = append(out, DailyFlowEntry{Date: tx.Date})
		}
		out[i].Income += tx.Income
		out[i].Expense += tx.Expense
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}

// BuildView runs the full aggregation pass for one set of parameters.
// othersLabel localizes the chart long-tail bucket.
func BuildView(list []core.Transaction, p FilterParams, threshold int, othersLabel string) View {
	order := p.Sort
	if order != SortAsc {
		order = SortDesc
	}
	filtered := SortByDate(Filter(list, p), order)
	return View{
		Transactions: filtered,
		Summary:      Summarize(filtered),
		Breakdown:    NewBreakdown(filtered, threshold, othersLabel),
		DailyFlow:    DailyFlow(filtered),
	}
}
