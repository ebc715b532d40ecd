package http

import "net/http"

type accountRequest struct {
	Name           string `json:"name"`
	InitialBalance string `json:"initial_balance"`
}

func (s *Server) handleListAccounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := s.svc.ListAccounts(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, accounts)
}

func (s *Server) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "invalid JSON body")
		return
	}
	account, err := s.svc.CreateAccount(r.Context(), req.Name, req.InitialBalance)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusCreated, account)
}

func (s *Server) handleUpdateAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, "invalid account id")
		return
	}
	var req accountRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "invalid JSON body")
		return
	}
	account, err := s.svc.UpdateAccount(r.Context(), id, req.Name, req.InitialBalance)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, account)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, "invalid account id")
		return
	}
	if err := s.svc.DeleteAccount(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, map[string]int64{"deleted": id})
}
