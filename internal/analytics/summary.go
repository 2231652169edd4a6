package analytics

import (
	"time"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

// Summary is the dashboard headline view over a whole transaction set.
type Summary struct {
	TotalSpend        decimal.Decimal `json:"totalSpend"`
	TransactionCount  int             `json:"transactionCount"`
	CurrentMonthSpend decimal.Decimal `json:"currentMonthSpend"`
	CurrentMonth      string          `json:"currentMonth"`
	CurrentYear       int             `json:"currentYear"`
	TopCategory       string          `json:"topCategory"`
	TopCategoryName   string          `json:"topCategoryName"`
	TopCategoryAmount decimal.Decimal `json:"topCategoryAmount"`
}

// Summarize derives the headline numbers as of the given moment: all-time
// spend, current-month spend and the top category across the full set.
func Summarize(ts []core.Transaction, now time.Time) Summary {
	top := TopCategory(ts)
	topAmount := decimal.Zero
	if top != core.TopCategoryNone {
		topAmount = CategoryTotals(ts)[top]
	}

	return Summary{
		TotalSpend:        TotalSpend(ts),
		TransactionCount:  len(ts),
		CurrentMonthSpend: PeriodSpend(ts, int(now.Month())-1, now.Year()),
		CurrentMonth:      monthNames[int(now.Month())-1],
		CurrentYear:       now.Year(),
		TopCategory:       top,
		TopCategoryName:   core.CategoryName(top),
		TopCategoryAmount: topAmount,
	}
}
