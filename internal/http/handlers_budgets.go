package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
)

type budgetRequest struct {
	Category string           `json:"categoryId"`
	Amount   *decimal.Decimal `json:"amount"`
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	bs, err := s.backend.ListBudgets(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "Failed to fetch budgets")
		return
	}
	if bs == nil {
		bs = []core.Budget{}
	}
	respondJSON(w, http.StatusOK, bs)
}

func (s *Server) handleUpsertBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Category == "" || req.Amount == nil {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}
	if _, ok := core.CategoryByID(req.Category); !ok {
		respondError(w, http.StatusBadRequest, "Unknown category")
		return
	}

	// Distinguish create from replace for the status code: the port keeps
	// at most one budget per category either way.
	existing, err := s.backend.ListBudgets(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "Failed to save budget")
		return
	}
	status := http.StatusCreated
	for _, b := range existing {
		if b.CategoryID == req.Category {
			status = http.StatusOK
			break
		}
	}

	saved, err := s.backend.UpsertBudget(r.Context(), req.Category, *req.Amount)
	if err != nil {
		respondStoreError(w, r, err, "Failed to save budget")
		return
	}

	s.invalidateAnalytics()
	respondJSON(w, status, saved)
}

func (s *Server) handleListCategories(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, core.Categories)
}
