// Package export serializes transaction collections for backup and
// spreadsheet use, and validates imported backups at the boundary.
package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/yannesss/finreport/internal/core"
	"github.com/yannesss/finreport/internal/i18n"
)

// ErrMalformed reports an import payload that is not a JSON transaction
// array. The caller surfaces it as a user-facing message and keeps state
// unchanged.
var ErrMalformed = errors.New("import payload is not a JSON transaction array")

// utf8BOM keeps Excel happy with UTF-8 CSV files.
const utf8BOM = "\uFEFF"

// JSON renders the collection as an indented JSON array, the backup and
// persistence format. A nil collection still renders as an empty array.
func JSON(list []core.Transaction) ([]byte, error) {
	if list == nil {
		list = []core.Transaction{}
	}
	data, err := json.MarshalIndent(list, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal transactions: %w", err)
	}
	return data, nil
}

// ImportJSON parses a backup payload. Only a JSON array is accepted; an
// empty array is a valid "clear all data" input. Each record is checked
// structurally (usable date, non-negative amounts) but not against the
// creation policy, so exported files always re-import unchanged.
func ImportJSON(data []byte) ([]core.Transaction, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrMalformed
	}

	var list []core.Transaction
	if err := json.Unmarshal(trimmed, &list); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	for i, tx := range list {
		if err := tx.CheckImported(); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformed, i, err)
		}
	}
	if list == nil {
		list = []core.Transaction{}
	}
	return list, nil
}

// CSV renders the currently filtered transactions as spreadsheet rows:
// UTF-8 BOM prefix, localized header, category and description quoted with
// inner quotes doubled, amounts fixed to two decimals plus a derived net
// column.
func CSV(list []core.Transaction, lang i18n.Lang) []byte {
	labels := i18n.For(lang)

	var b strings.Builder
	b.WriteString(utf8BOM)
	b.WriteString(strings.Join([]string{
		labels.Date,
		labels.Category,
		labels.Description,
		labels.Income,
		labels.Expense,
		labels.NetIncome,
	}, ","))

	for _, tx := range list {
		b.WriteString("\n")
		b.WriteString(strings.Join([]string{
			tx.Date.String(),
			quote(tx.Category),
			quote(tx.Description),
			amount(tx.Income),
			amount(tx.Expense),
			amount(tx.Net()),
		}, ","))
	}
	return []byte(b.String())
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func amount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
