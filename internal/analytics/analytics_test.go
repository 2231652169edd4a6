package analytics

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

func tx(desc string, amount float64, category string, date time.Time) core.Transaction {
	return core.Transaction{
		Description: desc,
		Amount:      decimal.NewFromFloat(amount),
		Date:        date,
		Category:    category,
	}
}

func budget(categoryID string, amount float64) core.Budget {
	return core.Budget{CategoryID: categoryID, Amount: decimal.NewFromFloat(amount)}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func eq(t *testing.T, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(decimal.RequireFromString(want)) {
		t.Fatalf("got %s, want %s", got, want)
	}
}

func TestTotalSpend(t *testing.T) {
	if !TotalSpend(nil).IsZero() {
		t.Fatalf("empty input must sum to zero")
	}

	ts := []core.Transaction{
		tx("a", 10.50, "groceries", date(2023, time.April, 1)),
		tx("b", 4.25, "dining", date(2023, time.May, 2)),
		tx("c", 100, "housing", date(2024, time.January, 3)),
	}
	eq(t, TotalSpend(ts), "114.75")

	// Order independence.
	reversed := []core.Transaction{ts[2], ts[1], ts[0]}
	if !TotalSpend(ts).Equal(TotalSpend(reversed)) {
		t.Fatalf("total depends on order")
	}
}

func TestPeriodSpend(t *testing.T) {
	ts := []core.Transaction{
		tx("rent", 1200, "housing", date(2023, time.April, 1)),
		tx("food", 85.75, "groceries", date(2023, time.April, 15)),
		tx("march", 50, "dining", date(2023, time.March, 31)),
		tx("lastyear", 40, "dining", date(2022, time.April, 10)),
	}
	eq(t, PeriodSpend(ts, 3, 2023), "1285.75") // April is month index 3
	eq(t, PeriodSpend(ts, 2, 2023), "50")
	eq(t, PeriodSpend(ts, 3, 2022), "40")
	if !PeriodSpend(ts, 0, 2023).IsZero() {
		t.Fatalf("month without transactions must be zero")
	}
}

func TestCategoryTotalsFallback(t *testing.T) {
	ts := []core.Transaction{
		tx("a", 10, "groceries", date(2023, time.April, 1)),
		tx("b", 5, "", date(2023, time.April, 2)),
		tx("c", 3, "not-a-category", date(2023, time.April, 3)),
	}
	totals := CategoryTotals(ts)
	if len(totals) != 2 {
		t.Fatalf("expected 2 keys, got %d: %v", len(totals), totals)
	}
	eq(t, totals["groceries"], "10")
	eq(t, totals["other"], "8")
	if _, ok := totals["housing"]; ok {
		t.Fatalf("category without transactions must be absent")
	}
}

func TestTopCategoryTieBreak(t *testing.T) {
	ts := []core.Transaction{
		tx("a", 10, "groceries", date(2023, time.April, 1)),
		tx("b", 10, "housing", date(2023, time.April, 2)),
	}
	if got := TopCategory(ts); got != "groceries" {
		t.Fatalf("tie must go to first encountered, got %q", got)
	}

	// Swapped order flips the winner.
	swapped := []core.Transaction{ts[1], ts[0]}
	if got := TopCategory(swapped); got != "housing" {
		t.Fatalf("tie must go to first encountered, got %q", got)
	}

	if got := TopCategory(nil); got != core.TopCategoryNone {
		t.Fatalf("empty input must return sentinel, got %q", got)
	}
}

func TestTopCategoryMax(t *testing.T) {
	ts := []core.Transaction{
		tx("a", 10, "groceries", date(2023, time.April, 1)),
		tx("b", 6, "housing", date(2023, time.April, 2)),
		tx("c", 7, "housing", date(2023, time.April, 3)),
	}
	if got := TopCategory(ts); got != "housing" {
		t.Fatalf("got %q, want housing", got)
	}
}

func TestMonthlySeries(t *testing.T) {
	for _, ts := range [][]core.Transaction{
		nil,
		{tx("a", 10, "dining", date(2023, time.July, 4))},
	} {
		series := MonthlySeries(ts, 2023)
		if len(series) != 12 {
			t.Fatalf("expected 12 buckets, got %d", len(series))
		}
		for i, b := range series {
			if b.MonthIndex != i {
				t.Fatalf("bucket %d has index %d", i, b.MonthIndex)
			}
		}
	}

	ts := []core.Transaction{
		tx("dec", 20, "dining", date(2023, time.December, 24)),
		tx("jan", 5, "dining", date(2023, time.January, 1)),
		tx("jan2", 7, "groceries", date(2023, time.January, 15)),
		tx("otheryear", 99, "dining", date(2022, time.January, 1)),
	}
	series := MonthlySeries(ts, 2023)
	eq(t, series[0].Amount, "12")
	eq(t, series[11].Amount, "20")
	for i := 1; i < 11; i++ {
		if !series[i].Amount.IsZero() {
			t.Fatalf("month %d should be zero", i)
		}
	}
}

func TestCategoryBreakdown(t *testing.T) {
	ts := []core.Transaction{
		tx("net", 65.99, "utilities", date(2023, time.April, 5)),
		tx("food", 85.75, "groceries", date(2023, time.April, 15)),
		tx("march", 10, "dining", date(2023, time.March, 1)),
	}
	got := CategoryBreakdown(ts, 3, 2023)
	if len(got) != 2 {
		t.Fatalf("expected 2 slices, got %d: %v", len(got), got)
	}
	// Registry order: groceries before utilities.
	if got[0].CategoryID != "groceries" || got[1].CategoryID != "utilities" {
		t.Fatalf("wrong order: %v", got)
	}
	eq(t, got[0].Amount, "85.75")
	eq(t, got[1].Amount, "65.99")

	if out := CategoryBreakdown(nil, 3, 2023); len(out) != 0 {
		t.Fatalf("empty input must produce no slices")
	}
}

func TestBudgetComparisonFiltering(t *testing.T) {
	ts := []core.Transaction{
		tx("snacks", 5, "dining", date(2023, time.April, 2)),
	}
	bs := []core.Budget{
		budget("groceries", 400),
		budget("housing", 0), // zero budget, zero actual: excluded
	}
	rows := BudgetComparison(ts, bs, 3, 2023)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d: %v", len(rows), rows)
	}
	// Registry order: groceries, then dining.
	if rows[0].CategoryID != "groceries" {
		t.Fatalf("row 0 = %q", rows[0].CategoryID)
	}
	eq(t, rows[0].BudgetAmount, "400")
	eq(t, rows[0].ActualAmount, "0")
	eq(t, rows[0].Difference, "400")

	// budget=0, actual=5 still included.
	if rows[1].CategoryID != "dining" {
		t.Fatalf("row 1 = %q", rows[1].CategoryID)
	}
	eq(t, rows[1].BudgetAmount, "0")
	eq(t, rows[1].ActualAmount, "5")
	eq(t, rows[1].Difference, "-5")
}

func TestCategorySpendingReport(t *testing.T) {
	ts := []core.Transaction{
		tx("Groceries", 85.75, "groceries", date(2023, time.April, 15)),
		tx("Monthly Rent", 1200, "housing", date(2023, time.April, 1)),
	}
	bs := []core.Budget{
		budget("groceries", 400),
		budget("housing", 1500),
	}
	rows := CategorySpendingReport(ts, bs, 3, 2023)
	if len(rows) != len(core.Categories) {
		t.Fatalf("report must include every category, got %d rows", len(rows))
	}

	byID := map[string]ReportRow{}
	for _, r := range rows {
		byID[r.Category.ID] = r
	}

	g := byID["groceries"]
	eq(t, g.Spending, "85.75")
	eq(t, g.Budget, "400")
	eq(t, g.Remaining, "314.25")
	eq(t, g.Percentage, "21.4375")

	h := byID["housing"]
	eq(t, h.Spending, "1200")
	eq(t, h.Budget, "1500")
	eq(t, h.Remaining, "300")
	eq(t, h.Percentage, "80")

	// Zero budget yields zero percentage, never NaN or infinity.
	d := byID["dining"]
	eq(t, d.Percentage, "0")
	eq(t, d.Remaining, "0")
}

func TestMonthOverMonthInsight(t *testing.T) {
	ref := date(2023, time.April, 20)

	t.Run("previous month empty", func(t *testing.T) {
		ts := []core.Transaction{
			tx("a", 50, "dining", date(2023, time.April, 2)),
		}
		in := MonthOverMonthInsight(ts, ref)
		eq(t, in.CurrentTotal, "50")
		eq(t, in.PreviousTotal, "0")
		eq(t, in.PercentChange, "100")
		if !in.IsIncrease {
			t.Fatalf("expected increase")
		}
		if in.TopCategory != "dining" {
			t.Fatalf("top = %q", in.TopCategory)
		}
		eq(t, in.TopCategoryAmount, "50")
		eq(t, in.TopCategoryPercentage, "100")
		if in.CurrentMonth != "April" || in.PreviousMonth != "March" {
			t.Fatalf("month names: %q / %q", in.CurrentMonth, in.PreviousMonth)
		}
	})

	t.Run("decrease", func(t *testing.T) {
		ts := []core.Transaction{
			tx("cur", 50, "dining", date(2023, time.April, 2)),
			tx("prev", 200, "dining", date(2023, time.March, 2)),
		}
		in := MonthOverMonthInsight(ts, ref)
		eq(t, in.PercentChange, "-75")
		if in.IsIncrease {
			t.Fatalf("expected decrease")
		}
	})

	t.Run("year wrap", func(t *testing.T) {
		ts := []core.Transaction{
			tx("jan", 30, "dining", date(2024, time.January, 5)),
			tx("dec", 60, "dining", date(2023, time.December, 5)),
		}
		in := MonthOverMonthInsight(ts, date(2024, time.January, 10))
		eq(t, in.CurrentTotal, "30")
		eq(t, in.PreviousTotal, "60")
		eq(t, in.PercentChange, "-50")
		if in.CurrentMonth != "January" || in.PreviousMonth != "December" {
			t.Fatalf("month names: %q / %q", in.CurrentMonth, in.PreviousMonth)
		}
	})

	t.Run("empty month", func(t *testing.T) {
		in := MonthOverMonthInsight(nil, ref)
		eq(t, in.CurrentTotal, "0")
		eq(t, in.PercentChange, "100")
		if in.TopCategory != core.TopCategoryNone {
			t.Fatalf("top = %q", in.TopCategory)
		}
		eq(t, in.TopCategoryPercentage, "0")
	})
}

func TestAvailableYears(t *testing.T) {
	ts := []core.Transaction{
		tx("a", 1, "dining", date(2022, time.March, 1)),
		tx("b", 1, "dining", date(2024, time.March, 1)),
		tx("c", 1, "dining", date(2022, time.June, 1)),
		tx("d", 1, "dining", date(2023, time.June, 1)),
	}
	years := AvailableYears(ts)
	want := []int{2024, 2023, 2022}
	if len(years) != len(want) {
		t.Fatalf("got %v", years)
	}
	for i := range want {
		if years[i] != want[i] {
			t.Fatalf("got %v, want %v", years, want)
		}
	}
	if out := AvailableYears(nil); len(out) != 0 {
		t.Fatalf("empty input must yield no years")
	}
}

func TestAggregationDoesNotMutateInput(t *testing.T) {
	ts := []core.Transaction{
		tx("a", 10, "groceries", date(2023, time.April, 1)),
		tx("b", 20, "", date(2023, time.April, 2)),
	}
	before := make([]core.Transaction, len(ts))
	copy(before, ts)

	TotalSpend(ts)
	CategoryTotals(ts)
	TopCategory(ts)
	MonthlySeries(ts, 2023)
	CategoryBreakdown(ts, 3, 2023)
	CategorySpendingReport(ts, nil, 3, 2023)
	MonthOverMonthInsight(ts, date(2023, time.April, 20))

	for i := range ts {
		if ts[i].Category != before[i].Category || !ts[i].Amount.Equal(before[i].Amount) {
			t.Fatalf("input mutated at %d", i)
		}
	}
}
