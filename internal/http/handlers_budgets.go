package http

import "net/http"

type budgetRequest struct {
	CategoryID int64  `json:"category_id"`
	Month      string `json:"month"`
	Amount     string `json:"amount"`
}

func (s *Server) handleSetBudget(w http.ResponseWriter, r *http.Request) {
	var req budgetRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.svc.SetBudget(r.Context(), req.CategoryID, req.Month, req.Amount); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, req)
}

func (s *Server) handleListBudgets(w http.ResponseWriter, r *http.Request) {
	rows, err := s.svc.BudgetRows(r.Context(), r.URL.Query().Get("month"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, rows)
}
