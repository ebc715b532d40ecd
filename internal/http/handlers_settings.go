package http

import "net/http"

type themeRequest struct {
	Theme string `json:"theme"`
}

func (s *Server) handleGetTheme(w http.ResponseWriter, r *http.Request) {
	theme, err := s.svc.Theme(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, themeRequest{Theme: theme})
}

func (s *Server) handleSetTheme(w http.ResponseWriter, r *http.Request) {
	var req themeRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "invalid JSON body")
		return
	}
	if err := s.svc.SetTheme(r.Context(), req.Theme); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, req)
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if s.exportFn == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		s.writeRaw(w, envelope{
			Success: false,
			Error:   &apiError{Kind: "export_disabled", Message: "no export destination configured"},
		})
		return
	}
	if err := s.exportFn(r.Context()); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusAccepted, map[string]string{"status": "export requested"})
}
