package smart

import (
	"context"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/yannesss/finreport/internal/core"
)

// DefaultDelay is the artificial pause before the rule parser answers, kept
// for perceived-responsiveness parity with the remote variant. It is a pure
// timer wait, cancellable through the context.
const DefaultDelay = 400 * time.Millisecond

var (
	// First currency marker + number + unit marker occurrence wins. Both
	// markers are optional, so bare digits match too. Thousands separators
	// are stripped before matching.
	amountRe = regexp.MustCompile(`(?i)(\$|HKD|HK\$)?\s?(\d+(?:\.\d+)?)\s?(元|HKD|dollars|蚊)?`)

	// YYYY-M-D or YYYY/M/D literals, 1-2 digit month and day.
	dateLiteralRe = regexp.MustCompile(`\d{4}[-/]\d{1,2}[-/]\d{1,2}`)
)

// incomeKeywords flips the default expense classification to income on the
// first substring hit. Matching is substring-based, not whole-word: partial
// overlaps are an accepted, reproducible quirk.
var incomeKeywords = []string{
	"income", "deposit", "receive", "saved", "sales", "revenue",
	"收入", "存入", "收到", "銷售", "訂金", "入數",
}

var (
	yesterdayKeywords = []string{"yesterday", "昨天", "琴日"}
	todayKeywords     = []string{"today", "今天", "今日"}
)

// categoryRule pairs a category label with its bilingual trigger keywords.
type categoryRule struct {
	label    string
	keywords []string
}

// categoryRules is an ordered priority list: the first rule with a matching
// keyword wins, and later rules with overlapping keywords are unreachable
// once an earlier one matches. The order is a first-class invariant.
var categoryRules = []categoryRule{
	{"租金 Rental Fee", []string{"rent", "rental", "lease", "租金", "租", "office"}},
	{"廣告費 Advertising Fees", []string{"ad", "advertising", "promo", "promotion", "marketing", "fb", "instagram", "廣告", "推廣", "宣傳"}},
	{"電費 Electricity For Office", []string{"electric", "power", "utility", "電費", "電", "港燈", "中電"}},
	{"公司用品 Supplies Expenses", []string{"supplies", "paper", "stationery", "pen", "ink", "用品", "文具", "雜物", "針", "needle", "tissue"}},
	{"管理費 Management Fees", []string{"management", "admin", "管理費"}},
	{"網絡費 Internet Service", []string{"internet", "wifi", "broadband", "network", "sim", "data", "網絡", "上網", "寬頻", "網費"}},
	{"現金 Cash", []string{"cash", "withdraw", "atm", "現金", "提款"}},
	{"銀行手續費 Bank Charge", []string{"bank", "charge", "fee", "handling", "手續費", "銀行"}},
	{"薪金 SALARY", []string{"salary", "wage", "payroll", "bonus", "mpf", "薪金", "人工", "糧", "佣金"}},
	{"強積金供款 MPF Contribution", []string{"mpf", "contribution", "pension", "強積金", "供款"}},
	{"員工福利 Staff Entertainment", []string{"staff", "entertainment", "welfare", "meal", "gift", "福利", "員工餐", "禮物"}},
	{"營運費用 Operating Expense", []string{"operation", "operating", "subscription", "system", "software", "營運", "系統", "訂閱"}},
	{"銷售 Sales", []string{"sales", "sell", "sold", "revenue", "client", "customer", "銷售", "訂金", "生意", "客"}},
	{"集運及運費 Logistics & Shipping Expenses", []string{"shipping", "logistics", "delivery", "集運", "運費", "快遞", "sf", "順豐"}},
	{"利得稅－交稅 Tax Expense – Profits Tax", []string{"profits tax", "tax expense", "利得稅", "交稅"}},
	{"利得稅－預繳 Tax Prepayment – Profits Tax", []string{"tax prepayment", "provisional tax", "預繳稅", "預繳"}},
	{"差餉及地租 Rates & Government Rent", []string{"rates", "government rent", "差餉", "地租"}},
	{"固定資產－裝修費 Fixed Asset – Renovation", []string{"renovation", "decoration", "fitting", "裝修", "裝飾"}},
	{"員工保險－勞工保險 Staff Insurance – Employees' Compensation", []string{"insurance", "compensation", "ec", "勞保", "保險"}},
	{"維修及安裝費 Repair & Installation", []string{"repair", "fix", "maintain", "installation", "install", "維修", "安裝", "修理"}},
	{"市場推廣－拍攝及模特費 Marketing & Promotion – Shooting & Model", []string{"shooting", "model", "photo", "video", "拍攝", "模特", "攝影"}},
	{"美容療程用品 Supplies – Beauty & Treatment", []string{"beauty", "treatment", "facial", "mask", "cream", "美容", "療程", "精華", "面膜"}},
	{"辦公用品 Supplies – Office", []string{"office supplies", "paper", "stationery", "辦公", "文具", "紙"}},
	{"醫療耗材 Supplies – Medical & Consumables", []string{"medical", "consumable", "glove", "mask", "needle", "醫療", "耗材", "手套", "針", "口罩"}},
	{"制服及鞋類 Supplies – Uniform & Shoes", []string{"uniform", "shoes", "clothes", "制服", "鞋", "工作服"}},
	{"大廈管理費 Building Management Fees", []string{"building management", "mgt fee", "大廈管理", "管理費"}},
}

// CategoryLabels returns the category labels in priority order. The remote
// parser backend feeds them to the model as the allowed vocabulary.
func CategoryLabels() []string {
	labels := make([]string, 0, len(categoryRules)+1)
	for _, rule := range categoryRules {
		labels = append(labels, rule.label)
	}
	return append(labels, core.CategoryOthers)
}

// RuleParser is the deterministic, offline backend: ordered pattern-matching
// rules with no network dependency, so smart entry works without connectivity
// or credentials.
type RuleParser struct {
	delay time.Duration
	now   func() time.Time
}

var _ Parser = (*RuleParser)(nil)

// NewRuleParser creates the rule-based parser. A zero delay answers
// immediately; pass DefaultDelay for interactive use.
func NewRuleParser(delay time.Duration) *RuleParser {
	return &RuleParser{delay: delay, now: time.Now}
}

// Parse applies the extraction rules in strict order: amount, type, date,
// category. Each step is independent; only a missing amount fails the whole
// parse. The draft description is always the original, unmodified input.
func (p *RuleParser) Parse(ctx context.Context, text string) (*core.Draft, error) {
	if p.delay > 0 {
		select {
		case <-time.After(p.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	clean := strings.ReplaceAll(text, ",", "")
	m := amountRe.FindStringSubmatch(clean)
	if m == nil {
		return nil, ErrNoAmount
	}
	amount, err := strconv.ParseFloat(m[2], 64)
	if err != nil {
		return nil, ErrNoAmount
	}

	lower := strings.ToLower(text)

	txType := core.Expense
	if containsAny(lower, incomeKeywords) {
		txType = core.Income
	}

	date := p.resolveDate(lower, text)

	category := core.CategoryOthers
	for _, rule := range categoryRules {
		if containsAny(lower, rule.keywords) {
			category = rule.label
			break
		}
	}

	return &core.Draft{
		Date:        date,
		Category:    category,
		Description: text,
		Amount:      amount,
		Type:        txType,
	}, nil
}

// resolveDate picks the first matching rule: yesterday keyword, today
// keyword, explicit literal, then today as the default. A literal that fails
// calendar validation falls back to today.
func (p *RuleParser) resolveDate(lower, original string) core.Date {
	today := core.DateOf(p.now())
	switch {
	case containsAny(lower, yesterdayKeywords):
		return today.AddDays(-1)
	case containsAny(lower, todayKeywords):
		return today
	}
	if literal := dateLiteralRe.FindString(original); literal != "" {
		if d, err := core.ParseDate(literal); err == nil {
			return d
		}
	}
	return today
}

func containsAny(haystack string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(haystack, n) {
			return true
		}
	}
	return false
}
