package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"
)

// CategoryOthers is the sentinel category assigned when nothing more specific applies.
const CategoryOthers = "其他 Others"

type (
	TxType string

	// Date is a calendar date without a time component.
	Date struct {
		time.Time
	}

	// Transaction is one dated income-or-expense record.
	Transaction struct {
		ID          string  `json:"id"`
		Date        Date    `json:"date"`
		Category    string  `json:"category"`
		Description string  `json:"description"`
		Income      float64 `json:"income"`
		Expense     float64 `json:"expense"`
	}

	// Draft is a partially populated, not-yet-committed transaction produced
	// by the smart-entry parser. Zero values mean the field was not inferred.
	Draft struct {
		Date        Date    `json:"date"`
		Category    string  `json:"category,omitempty"`
		Description string  `json:"description,omitempty"`
		Amount      float64 `json:"amount,omitempty"`
		Type        TxType  `json:"type,omitempty"`
	}
)

var (
	ErrInvalidDate    = errors.New("invalid date")
	ErrNegativeAmount = errors.New("negative amount")
	ErrBothSides      = errors.New("transaction cannot carry both income and expense")
	ErrNoAmount       = errors.New("transaction must carry an income or an expense")
	ErrEmptyCategory  = errors.New("empty category")
	ErrInvalidType    = errors.New("invalid transaction type")
)

// SuggestedCategories is the advisory category list presented to users.
// It does not constrain Transaction.Category, which stays free-form.
var SuggestedCategories = []string{
	"租金 Rental Fee",
	"廣告費 Advertising Fees",
	"電費 Electricity For Office",
	"公司用品 Supplies Expenses",
	"管理費 Management Fees",
	"網絡費 Internet Service",
	"現金 Cash",
	"銀行手續費 Bank Charge",
	"薪金 SALARY",
	"銷售 Sales",
	CategoryOthers,
}

const dateLayout = "2006-01-02"

// parseLayout also accepts single-digit months and days (2025-1-5).
const parseLayout = "2006-1-2"

// NewDate creates a Date from year, month, day in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar date in UTC.
func Today() Date {
	return DateOf(time.Now().UTC())
}

// DateOf truncates a time.Time to its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate parses a YYYY-M-D or YYYY/M/D string, with or without zero padding.
func ParseDate(s string) (Date, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), "/", "-")
	t, err := time.Parse(parseLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(dateLayout)
}

// Equal compares by calendar-date value.
func (d Date) Equal(o Date) bool {
	return d.Time.Equal(o.Time)
}

// AddDays returns the date shifted by the given number of calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.AddDate(0, 0, n))
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// IsValid reports whether the type is one of the two known sides.
func (t TxType) IsValid() bool {
	return t == Income || t == Expense
}

// Net is the transaction's contribution to net income.
func (t Transaction) Net() float64 {
	return t.Income - t.Expense
}

// Validate enforces the creation policy: a non-zero date, non-negative
// amounts, and exactly one non-zero side. Imported records are checked with
// the weaker CheckImported instead, so existing files round-trip untouched.
func (t Transaction) Validate() error {
	if err := t.CheckImported(); err != nil {
		return err
	}
	if t.Income > 0 && t.Expense > 0 {
		return ErrBothSides
	}
	if t.Income == 0 && t.Expense == 0 {
		return ErrNoAmount
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	return nil
}

// CheckImported validates only the structural invariants of the data model:
// a usable date and non-negative amounts.
func (t Transaction) CheckImported() error {
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	if t.Income < 0 || t.Expense < 0 {
		return ErrNegativeAmount
	}
	return nil
}

// Transaction converts a draft into a transaction, applying safe defaults for
// fields the parser could not infer. The ID is left empty for the caller to
// assign.
func (d Draft) Transaction() Transaction {
	tx := Transaction{
		Date:        d.Date,
		Category:    d.Category,
		Description: d.Description,
	}
	if tx.Date.IsZero() {
		tx.Date = Today()
	}
	if tx.Category == "" {
		tx.Category = CategoryOthers
	}
	switch d.Type {
	case Income:
		tx.Income = d.Amount
	default:
		tx.Expense = d.Amount
	}
	return tx
}
