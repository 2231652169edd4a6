package http

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"fintrack/internal/store"
)

// parseMonthYear reads the month (0-based, January is 0) and year query
// parameters, defaulting to the current period when absent.
func parseMonthYear(r *http.Request) (month, year int, err error) {
	now := time.Now()
	month = int(now.Month()) - 1
	year = now.Year()

	if raw := r.URL.Query().Get("month"); raw != "" {
		month, err = strconv.Atoi(raw)
		if err != nil || month < 0 || month > 11 {
			return 0, 0, fmt.Errorf("%w: month must be between 0 and 11", store.ErrValidation)
		}
	}
	if raw := r.URL.Query().Get("year"); raw != "" {
		year, err = strconv.Atoi(raw)
		if err != nil || year < 1 {
			return 0, 0, fmt.Errorf("%w: year must be a positive number", store.ErrValidation)
		}
	}
	return month, year, nil
}

// parseYear reads the year query parameter, defaulting to the current year.
func parseYear(r *http.Request) (int, error) {
	raw := r.URL.Query().Get("year")
	if raw == "" {
		return time.Now().Year(), nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < 1 {
		return 0, fmt.Errorf("%w: year must be a positive number", store.ErrValidation)
	}
	return year, nil
}

// parseDate accepts both RFC 3339 timestamps and bare calendar dates.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: date must be RFC 3339 or YYYY-MM-DD", store.ErrValidation)
	}
	return t, nil
}
