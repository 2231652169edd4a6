package http

import (
	"net/http"
	"time"

	"fintrack/internal/analytics"
)

func (s *Server) handleSummary(r *http.Request) (any, error) {
	ts, err := s.backend.ListTransactions(r.Context())
	if err != nil {
		return nil, err
	}
	return analytics.Summarize(ts, time.Now()), nil
}

func (s *Server) handleMonthlySeries(r *http.Request) (any, error) {
	year, err := parseYear(r)
	if err != nil {
		return nil, err
	}
	ts, err := s.backend.ListTransactions(r.Context())
	if err != nil {
		return nil, err
	}
	return analytics.MonthlySeries(ts, year), nil
}

func (s *Server) handleBreakdown(r *http.Request) (any, error) {
	month, year, err := parseMonthYear(r)
	if err != nil {
		return nil, err
	}
	ts, err := s.backend.ListTransactions(r.Context())
	if err != nil {
		return nil, err
	}
	return analytics.CategoryBreakdown(ts, month, year), nil
}

func (s *Server) handleBudgetComparison(r *http.Request) (any, error) {
	month, year, err := parseMonthYear(r)
	if err != nil {
		return nil, err
	}
	ts, err := s.backend.ListTransactions(r.Context())
	if err != nil {
		return nil, err
	}
	bs, err := s.backend.ListBudgets(r.Context())
	if err != nil {
		return nil, err
	}
	return analytics.BudgetComparison(ts, bs, month, year), nil
}

func (s *Server) handleSpendingReport(r *http.Request) (any, error) {
	month, year, err := parseMonthYear(r)
	if err != nil {
		return nil, err
	}
	ts, err := s.backend.ListTransactions(r.Context())
	if err != nil {
		return nil, err
	}
	bs, err := s.backend.ListBudgets(r.Context())
	if err != nil {
		return nil, err
	}
	return analytics.CategorySpendingReport(ts, bs, month, year), nil
}

func (s *Server) handleInsights(r *http.Request) (any, error) {
	month, year, err := parseMonthYear(r)
	if err != nil {
		return nil, err
	}
	ts, err := s.backend.ListTransactions(r.Context())
	if err != nil {
		return nil, err
	}
	ref := time.Date(year, time.Month(month+1), 1, 0, 0, 0, 0, time.UTC)
	return analytics.MonthOverMonthInsight(ts, ref), nil
}

func (s *Server) handleYears(r *http.Request) (any, error) {
	ts, err := s.backend.ListTransactions(r.Context())
	if err != nil {
		return nil, err
	}
	return analytics.AvailableYears(ts), nil
}
