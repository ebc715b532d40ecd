package http

import "net/http"

type categoryRequest struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

func (s *Server) handleListCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := s.svc.ListCategories(r.Context(), r.URL.Query().Get("type"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, categories)
}

func (s *Server) handleCreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "invalid JSON body")
		return
	}
	category, err := s.svc.CreateCategory(r.Context(), req.Name, req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusCreated, category)
}

func (s *Server) handleUpdateCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, "invalid category id")
		return
	}
	var req categoryRequest
	if err := decodeBody(r, &req); err != nil {
		s.writeBadRequest(w, "invalid JSON body")
		return
	}
	category, err := s.svc.UpdateCategory(r.Context(), id, req.Name, req.Type)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, category)
}

func (s *Server) handleDeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		s.writeBadRequest(w, "invalid category id")
		return
	}
	if err := s.svc.DeleteCategory(r.Context(), id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, map[string]int64{"deleted": id})
}
