// Package i18n carries the bilingual user-facing strings the core hands to
// its collaborators: export column labels and boundary error messages.
package i18n

const (
	EN Lang = "en"
	ZH Lang = "zh"
)

// DefaultLang matches the original product default.
const DefaultLang = ZH

type (
	Lang string

	// Labels holds every localized string for one language.
	Labels struct {
		Date        string
		Category    string
		Description string
		Income      string
		Expense     string
		NetIncome   string
		Others      string

		ErrSmartEntry string
		ErrImport     string
		ImportOK      string
	}
)

var tables = map[Lang]Labels{
	EN: {
		Date:          "Date",
		Category:      "Category",
		Description:   "Description",
		Income:        "Income",
		Expense:       "Expense",
		NetIncome:     "Net Income",
		Others:        "Others",
		ErrSmartEntry: "Could not detect an amount. Please try again.",
		ErrImport:     "Invalid file format. Expected a JSON transaction array.",
		ImportOK:      "Data restored successfully.",
	},
	ZH: {
		Date:          "日期",
		Category:      "項目類別",
		Description:   "說明",
		Income:        "收入",
		Expense:       "支出",
		NetIncome:     "淨收入",
		Others:        "其他",
		ErrSmartEntry: "無法識別金額，請確保輸入包含數字。",
		ErrImport:     "檔案格式無效，請提供 JSON 交易陣列。",
		ImportOK:      "資料已成功還原。",
	},
}

// IsValid reports whether the language is supported.
func (l Lang) IsValid() bool {
	_, ok := tables[l]
	return ok
}

// For returns the label table for a language, falling back to the default
// for anything unknown.
func For(lang Lang) Labels {
	if t, ok := tables[lang]; ok {
		return t
	}
	return tables[DefaultLang]
}
