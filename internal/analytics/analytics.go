// Package analytics derives summary statistics from raw transaction and
// budget collections. Every function is pure: no I/O, inputs are never
// mutated, results are freshly allocated.
//
// Months are 0-based (January = 0) throughout, matching the wire contract
// of the analytics endpoints.
package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

var hundred = decimal.NewFromInt(100)

type (
	// MonthBucket is one entry of a 12-month spending series.
	MonthBucket struct {
		MonthIndex int             `json:"monthIndex"`
		Amount     decimal.Decimal `json:"amount"`
	}

	// CategorySlice is a category's share of spend within a period.
	CategorySlice struct {
		CategoryID string          `json:"categoryId"`
		Amount     decimal.Decimal `json:"amount"`
	}

	// ComparisonRow compares budgeted and actual spend for one category.
	ComparisonRow struct {
		CategoryID   string          `json:"categoryId"`
		BudgetAmount decimal.Decimal `json:"budgetAmount"`
		ActualAmount decimal.Decimal `json:"actualAmount"`
		Difference   decimal.Decimal `json:"difference"`
	}

	// ReportRow is one line of the full per-category spending report.
	ReportRow struct {
		Category   core.Category   `json:"category"`
		Spending   decimal.Decimal `json:"spending"`
		Budget     decimal.Decimal `json:"budget"`
		Remaining  decimal.Decimal `json:"remaining"`
		Percentage decimal.Decimal `json:"percentage"`
	}

	// Insight summarizes month-over-month movement around a reference date.
	Insight struct {
		CurrentMonth          string          `json:"currentMonth"`
		PreviousMonth         string          `json:"previousMonth"`
		CurrentTotal          decimal.Decimal `json:"currentTotal"`
		PreviousTotal         decimal.Decimal `json:"previousTotal"`
		PercentChange         decimal.Decimal `json:"percentChange"`
		IsIncrease            bool            `json:"isIncrease"`
		TopCategory           string          `json:"topCategory"`
		TopCategoryAmount     decimal.Decimal `json:"topCategoryAmount"`
		TopCategoryPercentage decimal.Decimal `json:"topCategoryPercentage"`
	}
)

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// inMonth reports whether the transaction date falls in the given 0-based
// month of year, by calendar components rather than elapsed time.
func inMonth(t core.Transaction, month, year int) bool {
	return int(t.Date.Month())-1 == month && t.Date.Year() == year
}

// TotalSpend sums all transaction amounts. Empty input yields zero.
func TotalSpend(ts []core.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		total = total.Add(t.Amount)
	}
	return total
}

// PeriodSpend sums amounts of transactions in the given 0-based month of
// year.
func PeriodSpend(ts []core.Transaction, month, year int) decimal.Decimal {
	total := decimal.Zero
	for _, t := range ts {
		if inMonth(t, month, year) {
			total = total.Add(t.Amount)
		}
	}
	return total
}

// CategoryTotals maps category id to summed amount, resolving missing and
// unknown categories to "other". Only categories with at least one
// transaction appear as keys.
func CategoryTotals(ts []core.Transaction) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range ts {
		id := core.ResolveCategory(t)
		totals[id] = totals[id].Add(t.Amount)
	}
	return totals
}

// TopCategory returns the category id with the largest total spend. Ties go
// to the category encountered first while scanning transactions in their
// given order (strict > when updating the running max). Returns
// core.TopCategoryNone when there are no transactions.
func TopCategory(ts []core.Transaction) string {
	totals := make(map[string]decimal.Decimal)
	var order []string
	for _, t := range ts {
		id := core.ResolveCategory(t)
		if _, seen := totals[id]; !seen {
			order = append(order, id)
		}
		totals[id] = totals[id].Add(t.Amount)
	}

	top := core.TopCategoryNone
	topAmount := decimal.Zero
	for _, id := range order {
		if totals[id].GreaterThan(topAmount) {
			topAmount = totals[id]
			top = id
		}
	}
	return top
}

// MonthlySeries buckets a year's transactions into 12 calendar-ordered
// monthly totals. Months without transactions report zero.
func MonthlySeries(ts []core.Transaction, year int) []MonthBucket {
	series := make([]MonthBucket, 12)
	for i := range series {
		series[i] = MonthBucket{MonthIndex: i, Amount: decimal.Zero}
	}
	for _, t := range ts {
		if t.Date.Year() != year {
			continue
		}
		m := int(t.Date.Month()) - 1
		series[m].Amount = series[m].Amount.Add(t.Amount)
	}
	return series
}

// CategoryBreakdown returns per-category spend for the given month, in
// registry order, omitting categories with no spend.
func CategoryBreakdown(ts []core.Transaction, month, year int) []CategorySlice {
	totals := periodCategoryTotals(ts, month, year)
	out := make([]CategorySlice, 0, len(totals))
	for _, c := range core.Categories {
		if amt, ok := totals[c.ID]; ok && amt.IsPositive() {
			out = append(out, CategorySlice{CategoryID: c.ID, Amount: amt})
		}
	}
	return out
}

// BudgetComparison pairs each category's budget with its actual spend for
// the given month. Rows where both budget and actual are zero are omitted;
// the rest come out in registry order.
func BudgetComparison(ts []core.Transaction, bs []core.Budget, month, year int) []ComparisonRow {
	actuals := periodCategoryTotals(ts, month, year)
	out := make([]ComparisonRow, 0, len(core.Categories))
	for _, c := range core.Categories {
		budget := budgetFor(bs, c.ID)
		actual := actuals[c.ID]
		if !budget.IsPositive() && !actual.IsPositive() {
			continue
		}
		out = append(out, ComparisonRow{
			CategoryID:   c.ID,
			BudgetAmount: budget,
			ActualAmount: actual,
			Difference:   budget.Sub(actual),
		})
	}
	return out
}

// CategorySpendingReport produces one row per registry category, always all
// of them, with spending, budget, remaining and percent-of-budget for the
// given month. Percentage is zero (not NaN) when the budget is zero.
func CategorySpendingReport(ts []core.Transaction, bs []core.Budget, month, year int) []ReportRow {
	actuals := periodCategoryTotals(ts, month, year)
	out := make([]ReportRow, 0, len(core.Categories))
	for _, c := range core.Categories {
		spending := actuals[c.ID]
		budget := budgetFor(bs, c.ID)
		percentage := decimal.Zero
		if budget.IsPositive() {
			percentage = spending.Div(budget).Mul(hundred)
		}
		out = append(out, ReportRow{
			Category:   c,
			Spending:   spending,
			Budget:     budget,
			Remaining:  budget.Sub(spending),
			Percentage: percentage,
		})
	}
	return out
}

// MonthOverMonthInsight compares spending in the reference date's month
// against the month before it, wrapping the year boundary. When the
// previous month had no spend the change reports as 100%. The top category
// considers current-month transactions only; its share of the month is zero
// when the month total is zero.
func MonthOverMonthInsight(ts []core.Transaction, ref time.Time) Insight {
	curMonth := int(ref.Month()) - 1
	curYear := ref.Year()
	prevMonth := curMonth - 1
	prevYear := curYear
	if prevMonth < 0 {
		prevMonth = 11
		prevYear = curYear - 1
	}

	var current []core.Transaction
	for _, t := range ts {
		if inMonth(t, curMonth, curYear) {
			current = append(current, t)
		}
	}

	currentTotal := TotalSpend(current)
	previousTotal := PeriodSpend(ts, prevMonth, prevYear)

	percentChange := hundred
	if previousTotal.IsPositive() {
		percentChange = currentTotal.Sub(previousTotal).Div(previousTotal).Mul(hundred)
	}

	top := TopCategory(current)
	topAmount := decimal.Zero
	if top != core.TopCategoryNone {
		topAmount = CategoryTotals(current)[top]
	}
	topPct := decimal.Zero
	if currentTotal.IsPositive() {
		topPct = topAmount.Div(currentTotal).Mul(hundred)
	}

	return Insight{
		CurrentMonth:          monthNames[curMonth],
		PreviousMonth:         monthNames[prevMonth],
		CurrentTotal:          currentTotal,
		PreviousTotal:         previousTotal,
		PercentChange:         percentChange,
		IsIncrease:            percentChange.IsPositive(),
		TopCategory:           top,
		TopCategoryAmount:     topAmount,
		TopCategoryPercentage: topPct,
	}
}

// AvailableYears lists the distinct transaction years, most recent first.
func AvailableYears(ts []core.Transaction) []int {
	seen := make(map[int]bool)
	var years []int
	for _, t := range ts {
		y := t.Date.Year()
		if !seen[y] {
			seen[y] = true
			years = append(years, y)
		}
	}
	for i := 0; i < len(years); i++ {
		for j := i + 1; j < len(years); j++ {
			if years[j] > years[i] {
				years[i], years[j] = years[j], years[i]
			}
		}
	}
	return years
}

func periodCategoryTotals(ts []core.Transaction, month, year int) map[string]decimal.Decimal {
	totals := make(map[string]decimal.Decimal)
	for _, t := range ts {
		if !inMonth(t, month, year) {
			continue
		}
		id := core.ResolveCategory(t)
		totals[id] = totals[id].Add(t.Amount)
	}
	return totals
}

func budgetFor(bs []core.Budget, categoryID string) decimal.Decimal {
	for _, b := range bs {
		if b.CategoryID == categoryID {
			return b.Amount
		}
	}
	return decimal.Zero
}
