package http

import (
	"net/http"
	"strconv"

	"financx/internal/ledger"
)

type transactionRequest struct {
	AccountID   int64  `json:"account_id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	Amount      string `json:"amount"`
	CategoryID  *int64 `json:"category_id"`
}

func (req transactionRequest) input() ledger.TransactionInput {
	return ledger.TransactionInput{
		AccountID:   req.AccountID,
		Date:        req.Date,
		Description: req.Description,
		Amount:      req.Amount,
		CategoryID:  req.CategoryID,
	}
}

func (s *Server) handleListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	// start+end selects a date range; otherwise the newest-first list with
	// optional account filter and limit.
	if q.Has("start") || q.Has("end") {
		transactions, err := s.svc.TransactionsInRange(r.Context(), q.Get("start"), q.Get("end"))
		if err != nil {
			s.writeError(w, r, err)
			return
		}
		s.writeData(w, http.StatusOK, transactions)
		return
	}

	var accountID *int64
	if raw := q.Get("account_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			s.writeBadRequest(w, "invalid account_id filter")
			return
		}
		accountID = &id
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			s.writeBadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	transactions, err := s.svc.ListTransactions(r.Context(), accountID, limit)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, transactions)
}

func (s *Server) handleAddTransaction(w http.ResponseWriter, r *http.Request) {
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "invalid JSON body")
		return
	}
	tx, err := s.svc.AddTransaction(r.Context(), req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusCreated, tx)
}

func (s *Server) handleGetTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, "invalid transaction id")
		return
	}
	tx, err := s.svc.GetTransaction(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, tx)
}

func (s *Server) handleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, "invalid transaction id")
		return
	}
	var req transactionRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "invalid JSON body")
		return
	}
	tx, err := s.svc.UpdateTransaction(r.Context(), id, req.input())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, tx)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, "invalid transaction id")
		return
	}
	if err := s.svc.DeleteTransaction(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, map[string]int64{"deleted": id})
}
