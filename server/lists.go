package server

import (
	"errors"
	"net/http"
	"strings"

	"filmoteca/store"
)

func (s *Server) handleListLists(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.store.Lists())
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	l, ok := s.store.List(s.param(r, "id"))
	if !ok {
		s.notFound(w, "list not found")
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var in store.ListInput
	if err := s.readJSON(w, r, &in); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if strings.TrimSpace(in.Name) == "" {
		s.badRequest(w, "name is required")
		return
	}

	l, err := s.store.CreateList(in)
	if err != nil {
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, l)
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	var upd store.ListUpdate
	if err := s.readJSON(w, r, &upd); err != nil {
		s.badRequest(w, err.Error())
		return
	}

	l, err := s.store.UpdateList(s.param(r, "id"), upd)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, "list not found")
			return
		}
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteList(s.param(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, "list not found")
			return
		}
		s.serverError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMoviesInList(w http.ResponseWriter, r *http.Request) {
	movies, err := s.store.MoviesInList(s.param(r, "id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, "list not found")
			return
		}
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, movies)
}

func (s *Server) handleAddMovieToList(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.AddMovieToList(s.param(r, "id"), s.param(r, "movie_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, "list or movie not found")
			return
		}
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}

func (s *Server) handleRemoveMovieFromList(w http.ResponseWriter, r *http.Request) {
	l, err := s.store.RemoveMovieFromList(s.param(r, "id"), s.param(r, "movie_id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			s.notFound(w, "list not found")
			return
		}
		s.serverError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, l)
}
