package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

func (s *Server) param(r *http.Request, name string) string {
	return httprouter.ParamsFromContext(r.Context()).ByName(name)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
	}
}

func (s *Server) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) badRequest(w http.ResponseWriter, message string) {
	s.errorResponse(w, http.StatusBadRequest, message)
}

func (s *Server) notFound(w http.ResponseWriter, message string) {
	s.errorResponse(w, http.StatusNotFound, message)
}

func (s *Server) serverError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("Internal server error")
	s.errorResponse(w, http.StatusInternalServerError, "internal server error")
}

// upstreamError maps a catalog failure to 502, keeping the underlying cause
// in the message.
func (s *Server) upstreamError(w http.ResponseWriter, err error) {
	s.logger.Error().Err(err).Msg("Catalog request failed")
	s.errorResponse(w, http.StatusBadGateway, fmt.Sprintf("catalog request failed: %v", err))
}
