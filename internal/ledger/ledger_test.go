package ledger

import (
	"math"
	"testing"

	"github.com/yannesss/finreport/internal/core"
)

func tx(id string, date core.Date, category string, income, expense float64) core.Transaction {
	return core.Transaction{
		ID:          id,
		Date:        date,
		Category:    category,
		Description: "desc " + id,
		Income:      income,
		Expense:     expense,
	}
}

func sampleLedger() []core.Transaction {
	return []core.Transaction{
		tx("1", core.NewDate(2025, 9, 30), "薪金 SALARY", 0, 30000),
		tx("2", core.NewDate(2025, 9, 30), "薪金 SALARY", 0, 63120),
		tx("3", core.NewDate(2025, 10, 1), "租金 Rental Fee", 0, 25000),
		tx("4", core.NewDate(2025, 10, 2), "銷售 Sales", 45000, 0),
		tx("5", core.NewDate(2025, 10, 3), "公司用品 Supplies", 0, 1200.50),
	}
}

func TestFilterDateRange(t *testing.T) {
	list := sampleLedger()

	tests := []struct {
		name    string
		params  FilterParams
		wantIDs []string
	}{
		{name: "open range keeps all", params: FilterParams{}, wantIDs: []string{"1", "2", "3", "4", "5"}},
		{name: "start only", params: FilterParams{Start: core.NewDate(2025, 10, 1)}, wantIDs: []string{"3", "4", "5"}},
		{name: "end only", params: FilterParams{End: core.NewDate(2025, 9, 30)}, wantIDs: []string{"1", "2"}},
		{
			name:    "inclusive bounds",
			params:  FilterParams{Start: core.NewDate(2025, 10, 1), End: core.NewDate(2025, 10, 2)},
			wantIDs: []string{"3", "4"},
		},
		{name: "search matches category", params: FilterParams{Search: "salary"}, wantIDs: []string{"1", "2"}},
		{name: "search matches description", params: FilterParams{Search: "DESC 4"}, wantIDs: []string{"4"}},
		{name: "search matches chinese category", params: FilterParams{Search: "租金"}, wantIDs: []string{"3"}},
		{name: "search misses", params: FilterParams{Search: "nothing"}, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(list, tt.params)
			if len(got) != len(tt.wantIDs) {
				t.Fatalf("Filter() kept %d transactions, want %d", len(got), len(tt.wantIDs))
			}
			for i, want := range tt.wantIDs {
				if got[i].ID != want {
					t.Errorf("Filter()[%d].ID = %s, want %s (order must be preserved)", i, got[i].ID, want)
				}
			}
		})
	}
}

func TestSortByDateStable(t *testing.T) {
	list := sampleLedger()

	asc := SortByDate(list, SortAsc)
	wantAsc := []string{"1", "2", "3", "4", "5"}
	for i, want := range wantAsc {
		if asc[i].ID != want {
			t.Errorf("asc[%d] = %s, want %s", i, asc[i].ID, want)
		}
	}

	// Ties (IDs 1 and 2 share a date) keep relative input order in both
	// directions.
	desc := SortByDate(list, SortDesc)
	wantDesc := []string{"5", "4", "3", "1", "2"}
	for i, want := range wantDesc {
		if desc[i].ID != want {
			t.Errorf("desc[%d] = %s, want %s", i, desc[i].ID, want)
		}
	}

	// Input must not be mutated.
	if list[0].ID != "1" || list[4].ID != "5" {
		t.Error("SortByDate mutated its input")
	}
}

func TestSummarizeMatchesRunningFold(t *testing.T) {
	list := sampleLedger()
	s := Summarize(list)

	var income, expense float64
	for _, tx := range list {
		income += tx.Income
		expense += tx.Expense
	}
	if s.TotalIncome != income {
		t.Errorf("TotalIncome = %v, want %v", s.TotalIncome, income)
	}
	if s.TotalExpense != expense {
		t.Errorf("TotalExpense = %v, want %v", s.TotalExpense, expense)
	}
	if s.NetIncome != income-expense {
		t.Errorf("NetIncome = %v, want %v", s.NetIncome, income-expense)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.TotalIncome != 0 || s.TotalExpense != 0 || s.NetIncome != 0 {
		t.Errorf("Summarize(nil) = %+v, want zeroes", s)
	}
}

func TestDailyFlow(t *testing.T) {
	flow := DailyFlow(sampleLedger())

	want := []struct {
		date    string
		income  float64
		expense float64
	}{
		{"2025-09-30", 0, 93120},
		{"2025-10-01", 0, 25000},
		{"2025-10-02", 45000, 0}, // income-only date still appears with expense 0
		{"2025-10-03", 0, 1200.50},
	}
	if len(flow) != len(want) {
		t.Fatalf("DailyFlow() has %d entries, want %d", len(flow), len(want))
	}
	for i, w := range want {
		if flow[i].Date.String() != w.date {
			t.Errorf("flow[%d].Date = %s, want %s", i, flow[i].Date, w.date)
		}
		if flow[i].Income != w.income || flow[i].Expense != w.expense {
			t.Errorf("flow[%d] = %v/%v, want %v/%v", i, flow[i].Income, flow[i].Expense, w.income, w.expense)
		}
	}
}

func TestBuildView(t *testing.T) {
	v := BuildView(sampleLedger(), FilterParams{Start: core.NewDate(2025, 10, 1), Sort: SortAsc}, 0, "")

	if len(v.Transactions) != 3 {
		t.Fatalf("view has %d transactions, want 3", len(v.Transactions))
	}
	if v.Transactions[0].ID != "3" {
		t.Errorf("first transaction = %s, want 3", v.Transactions[0].ID)
	}
	if v.Summary.TotalIncome != 45000 {
		t.Errorf("TotalIncome = %v, want 45000", v.Summary.TotalIncome)
	}
	if v.Summary.NetIncome != 45000-25000-1200.50 {
		t.Errorf("NetIncome = %v", v.Summary.NetIncome)
	}
	if len(v.DailyFlow) != 3 {
		t.Errorf("daily flow entries = %d, want 3", len(v.DailyFlow))
	}
	if len(v.Breakdown.Detailed) != 2 {
		t.Errorf("breakdown categories = %d, want 2", len(v.Breakdown.Detailed))
	}
}

func TestBuildViewDefaultsToDescending(t *testing.T) {
	v := BuildView(sampleLedger(), FilterParams{}, 0, "")
	if v.Transactions[0].ID != "5" {
		t.Errorf("first transaction = %s, want 5 (newest first)", v.Transactions[0].ID)
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
