package http

import "net/http"

func (s *Server) handleSpendingReport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := s.svc.SpendingByCategory(r.Context(), q.Get("start"), q.Get("end"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, rows)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := s.svc.Dashboard(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, dash)
}
