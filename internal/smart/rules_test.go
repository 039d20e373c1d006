package smart

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/yannesss/finreport/internal/core"
)

// fixedNow pins the parser clock so relative dates are deterministic.
var fixedNow = time.Date(2025, 10, 15, 9, 30, 0, 0, time.UTC)

func newTestParser() *RuleParser {
	p := NewRuleParser(0)
	p.now = func() time.Time { return fixedNow }
	return p
}

func TestRuleParserParse(t *testing.T) {
	today := core.NewDate(2025, 10, 15)
	yesterday := core.NewDate(2025, 10, 14)

	tests := []struct {
		name         string
		input        string
		wantAmount   float64
		wantType     core.TxType
		wantCategory string
		wantDate     core.Date
	}{
		{
			name:         "bare digits default to expense and others",
			input:        "Taxi 200",
			wantAmount:   200,
			wantType:     core.Expense,
			wantCategory: core.CategoryOthers,
			wantDate:     today,
		},
		{
			name:         "chinese income phrase",
			input:        "收到訂金 5000",
			wantAmount:   5000,
			wantType:     core.Income,
			wantCategory: "銷售 Sales",
			wantDate:     today,
		},
		{
			name:         "yesterday keyword with category",
			input:        "Rent 25000 yesterday",
			wantAmount:   25000,
			wantType:     core.Expense,
			wantCategory: "租金 Rental Fee",
			wantDate:     yesterday,
		},
		{
			name:         "cantonese yesterday",
			input:        "琴日 的士 80蚊",
			wantAmount:   80,
			wantType:     core.Expense,
			wantCategory: core.CategoryOthers,
			wantDate:     yesterday,
		},
		{
			name:         "today keyword",
			input:        "today lunch 500",
			wantAmount:   500,
			wantType:     core.Expense,
			wantCategory: core.CategoryOthers,
			wantDate:     today,
		},
		{
			name:         "explicit slash date literal",
			input:        "internet bill 300 2025/1/5",
			wantAmount:   300,
			wantType:     core.Expense,
			wantCategory: "網絡費 Internet Service",
			wantDate:     core.NewDate(2025, 1, 5),
		},
		{
			name:         "currency marker and unit",
			input:        "HK$1,234.50元 electricity",
			wantAmount:   1234.50,
			wantType:     core.Expense,
			wantCategory: "電費 Electricity For Office",
			wantDate:     today,
		},
		{
			name:         "income keyword in english",
			input:        "received salary deposit 30000",
			wantAmount:   30000,
			wantType:     core.Income,
			wantCategory: "薪金 SALARY",
			wantDate:     today,
		},
		{
			name:         "zero amount still parses",
			input:        "refund 0.00",
			wantAmount:   0,
			wantType:     core.Expense,
			wantCategory: core.CategoryOthers,
			wantDate:     today,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestParser()
			draft, err := p.Parse(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.input, err)
			}
			if draft.Amount != tt.wantAmount {
				t.Errorf("amount = %v, want %v", draft.Amount, tt.wantAmount)
			}
			if draft.Type != tt.wantType {
				t.Errorf("type = %s, want %s", draft.Type, tt.wantType)
			}
			if draft.Category != tt.wantCategory {
				t.Errorf("category = %q, want %q", draft.Category, tt.wantCategory)
			}
			if !draft.Date.Equal(tt.wantDate) {
				t.Errorf("date = %s, want %s", draft.Date, tt.wantDate)
			}
			if draft.Description != tt.input {
				t.Errorf("description = %q, want original input %q", draft.Description, tt.input)
			}
		})
	}
}

func TestRuleParserNoAmount(t *testing.T) {
	p := newTestParser()
	for _, input := range []string{"lunch", "午餐", "", "no digits here"} {
		draft, err := p.Parse(context.Background(), input)
		if !errors.Is(err, ErrNoAmount) {
			t.Errorf("Parse(%q) error = %v, want ErrNoAmount", input, err)
		}
		if draft != nil {
			t.Errorf("Parse(%q) produced partial draft %+v", input, draft)
		}
	}
}

func TestRuleParserFirstNumberWins(t *testing.T) {
	p := newTestParser()
	draft, err := p.Parse(context.Background(), "taxi 80 then dinner 300")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if draft.Amount != 80 {
		t.Errorf("amount = %v, want first match 80", draft.Amount)
	}
}

func TestRuleParserCategoryPriorityOrder(t *testing.T) {
	// "office" belongs to the rental rule, which sits before the supplies
	// rules; later overlapping keywords must be unreachable.
	p := newTestParser()
	draft, err := p.Parse(context.Background(), "office paper 50")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if draft.Category != "租金 Rental Fee" {
		t.Errorf("category = %q, want earlier rule to win", draft.Category)
	}

	// "針" is claimed by supplies before the medical consumables rule.
	draft, err = p.Parse(context.Background(), "紋繡針 1200")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if draft.Category != "公司用品 Supplies Expenses" {
		t.Errorf("category = %q, want 公司用品 Supplies Expenses", draft.Category)
	}
}

func TestRuleParserMalformedLiteralFallsBack(t *testing.T) {
	p := newTestParser()
	draft, err := p.Parse(context.Background(), "paid 100 on 2025-13-45")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if !draft.Date.Equal(core.NewDate(2025, 10, 15)) {
		t.Errorf("date = %s, want today fallback", draft.Date)
	}
}

func TestRuleParserDelayCancellation(t *testing.T) {
	p := NewRuleParser(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Parse(ctx, "Taxi 200")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Parse() error = %v, want context.Canceled", err)
	}
}
