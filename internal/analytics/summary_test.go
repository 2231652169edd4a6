package analytics

import (
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestSummarize(t *testing.T) {
	now := date(2023, time.April, 20)
	ts := []core.Transaction{
		tx("rent", 1200, "housing", date(2023, time.April, 1)),
		tx("food", 85.75, "groceries", date(2023, time.April, 15)),
		tx("old", 300, "groceries", date(2023, time.February, 1)),
	}

	sum := Summarize(ts, now)
	eq(t, sum.TotalSpend, "1585.75")
	eq(t, sum.CurrentMonthSpend, "1285.75")
	if sum.TransactionCount != 3 {
		t.Fatalf("count = %d", sum.TransactionCount)
	}
	if sum.CurrentMonth != "April" || sum.CurrentYear != 2023 {
		t.Fatalf("period: %s %d", sum.CurrentMonth, sum.CurrentYear)
	}
	if sum.TopCategory != "housing" || sum.TopCategoryName != "Housing" {
		t.Fatalf("top: %q", sum.TopCategory)
	}
	eq(t, sum.TopCategoryAmount, "1200")
}

func TestSummarizeEmpty(t *testing.T) {
	sum := Summarize(nil, date(2023, time.April, 20))
	eq(t, sum.TotalSpend, "0")
	if sum.TopCategory != core.TopCategoryNone || sum.TopCategoryName != "None" {
		t.Fatalf("empty summary top: %+v", sum)
	}
}
