package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type transactionRequest struct {
	Description string           `json:"description"`
	Amount      *decimal.Decimal `json:"amount"`
	Date        string           `json:"date"`
	Category    string           `json:"category"`
}

type mutationResponse struct {
	Success bool   `json:"success"`
	ID      string `json:"id,omitempty"`
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	ts, err := s.backend.ListTransactions(r.Context())
	if err != nil {
		respondStoreError(w, r, err, "Failed to fetch transactions")
		return
	}
	if ts == nil {
		ts = []core.Transaction{}
	}
	respondJSON(w, http.StatusOK, ts)
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Description == "" || req.Amount == nil || req.Date == "" {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	date, err := parseDate(req.Date)
	if err != nil {
		respondStoreError(w, r, err, "Failed to create transaction")
		return
	}

	t := core.Transaction{
		Description: req.Description,
		Amount:      *req.Amount,
		Date:        date,
		Category:    req.Category,
	}
	t.Category = core.ResolveCategory(t)

	created, err := s.backend.CreateTransaction(r.Context(), t)
	if err != nil {
		respondStoreError(w, r, err, "Failed to create transaction")
		return
	}

	s.invalidateAnalytics()
	respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	t, err := s.backend.GetTransaction(r.Context(), r.PathValue("id"))
	if err != nil {
		respondStoreError(w, r, err, "Failed to fetch transaction")
		return
	}
	respondJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var patch store.TransactionPatch
	if req.Description != "" {
		patch.Description = &req.Description
	}
	if req.Amount != nil {
		patch.Amount = req.Amount
	}
	if req.Date != "" {
		date, err := parseDate(req.Date)
		if err != nil {
			respondStoreError(w, r, err, "Failed to update transaction")
			return
		}
		patch.Date = &date
	}
	if req.Category != "" {
		resolved := core.ResolveCategory(core.Transaction{Category: req.Category})
		patch.Category = &resolved
	}
	if patch.Empty() {
		respondError(w, http.StatusBadRequest, "Missing required fields")
		return
	}

	id := r.PathValue("id")
	if err := s.backend.UpdateTransaction(r.Context(), id, patch); err != nil {
		respondStoreError(w, r, err, "Failed to update transaction")
		return
	}

	s.invalidateAnalytics()
	respondJSON(w, http.StatusOK, mutationResponse{Success: true, ID: id})
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	if err := s.backend.DeleteTransaction(r.Context(), r.PathValue("id")); err != nil {
		respondStoreError(w, r, err, "Failed to delete transaction")
		return
	}

	s.invalidateAnalytics()
	respondJSON(w, http.StatusOK, mutationResponse{Success: true})
}
