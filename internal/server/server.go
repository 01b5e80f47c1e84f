// Package server exposes the local agent to pages on the same device: saving
// and reading hojas, and the reload WebSocket.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Lllllllleong/goldflowsync/internal/localstore"
	"github.com/Lllllllleong/goldflowsync/internal/models"
	"github.com/Lllllllleong/goldflowsync/internal/remote"
	"github.com/Lllllllleong/goldflowsync/internal/services"
	"github.com/gorilla/mux"
)

const maxPayloadBytes = 10 << 20

// RawReader returns the stored hoja array as serialized.
type RawReader interface {
	Raw(ctx context.Context) (string, error)
}

type Server struct {
	saver  services.Saver
	local  RawReader
	remote remote.Handle
	hub    *Hub
}

func New(saver services.Saver, local RawReader, h remote.Handle, hub *Hub) *Server {
	return &Server{saver: saver, local: local, remote: h, hub: hub}
}

func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/hojas", s.handleSaveHojas).Methods(http.MethodPost)
	r.HandleFunc("/hojas", s.handleGetHojas).Methods(http.MethodGet)
	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/ws", s.hub.ServeWS)
	r.Use(logRequests)
	return r
}

func (s *Server) handleSaveHojas(w http.ResponseWriter, r *http.Request) {
	if s.saver == nil {
		http.Error(w, "Service Unavailable: no saver configured", http.StatusServiceUnavailable)
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxPayloadBytes))
	if err != nil {
		slog.Warn("Could not read request body", "error", err)
		http.Error(w, "Bad Request: could not read body", http.StatusBadRequest)
		return
	}

	if err := s.saver.Save(r.Context(), json.RawMessage(body)); err != nil {
		if errors.Is(err, localstore.ErrInvalidJSON) {
			http.Error(w, "Bad Request: could not parse JSON", http.StatusBadRequest)
			return
		}
		slog.Error("Local save failed", "error", err)
		http.Error(w, "Internal Server Error: save failed", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetHojas(w http.ResponseWriter, r *http.Request) {
	raw, err := s.local.Raw(r.Context())
	if err != nil {
		slog.Error("Local read failed", "error", err)
		http.Error(w, "Internal Server Error: read failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, raw)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(models.HealthResponse{Status: "ok", Remote: s.remote.String()}); err != nil {
		slog.Error("Failed to write response", "error", err)
	}
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		slog.Debug("HTTP request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}
