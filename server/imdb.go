package server

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"filmoteca/imdb"
)

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if utf8.RuneCountInString(query) < 2 {
		s.badRequest(w, "search query must be at least 2 characters")
		return
	}

	results, err := s.catalog.Search(r.Context(), query)
	if err != nil {
		s.upstreamError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, results)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	var req struct {
		IMDbIDs []string `json:"imdb_ids"`
	}
	if err := s.readJSON(w, r, &req); err != nil {
		s.badRequest(w, err.Error())
		return
	}
	if req.IMDbIDs == nil {
		s.badRequest(w, "imdb_ids is required")
		return
	}

	result := s.importer.Run(r.Context(), req.IMDbIDs)
	s.writeJSON(w, http.StatusOK, result.Movies)
}

func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	imdbID := s.param(r, "id")

	images, err := s.catalog.GetImages(r.Context(), imdbID)
	if err != nil {
		s.upstreamError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, struct {
		IMDbID string       `json:"imdb_id"`
		Images []imdb.Image `json:"images"`
		Total  int          `json:"total"`
	}{imdbID, images, len(images)})
}

func (s *Server) handleVideos(w http.ResponseWriter, r *http.Request) {
	imdbID := s.param(r, "id")

	videos, err := s.catalog.GetVideos(r.Context(), imdbID)
	if err != nil {
		s.upstreamError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, struct {
		IMDbID string       `json:"imdb_id"`
		Videos []imdb.Video `json:"videos"`
		Total  int          `json:"total"`
	}{imdbID, videos, len(videos)})
}
