package server

import (
	"errors"
	"net/http"
	"strings"

	"filmoteca/store"
)

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Movies())
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	m, ok := s.store.Movie(s.param(r, "id"))
	if !ok {
		s.notFound(w, "movie not found")
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var in store.MovieInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(in.Title) == "" {
		s.badRequest(w, "title is required")
		return
	}

	m, err := s.store.CreateMovie(in)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	var upd store.MovieUpdate
	if err := s.readJSON(w, r, &upd); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	m, err := s.store.UpdateMovie(s.param(r, "id"), upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, "movie not found")
			return
		}
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDeleteMovie(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteMovie(s.param(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, "movie not found")
			return
		}
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
