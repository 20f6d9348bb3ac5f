// Package server provides the HTTP surface for Theremin: the embedded
// viewer page, the WebSocket stream, health, and the settings API.
package server

import (
	"encoding/json"
	"net/http"
	"os"
	"time"

	"github.com/ayusman/theremin/internal/server/api"
	"github.com/ayusman/theremin/internal/store"
)

// Config holds the server configuration.
type Config struct {
	Hub       *Hub
	Store     *store.Store
	Session   api.TuningApplier
	Defaults  store.Tuning
	TrackPath string // optional audio file served at /song.mp3
}

// Server represents the Theremin HTTP server.
type Server struct {
	config Config
	mux    *http.ServeMux
	start  time.Time
}

// New creates a new Server with the given configuration.
func New(config Config) *Server {
	s := &Server{
		config: config,
		mux:    http.NewServeMux(),
		start:  time.Now(),
	}
	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes for the server.
func (s *Server) setupRoutes() {
	s.mux.HandleFunc("/api/health", s.handleHealth)

	// Register settings API if the store is configured
	if s.config.Store != nil {
		settingsHandler := api.NewSettingsHandler(s.config.Store, s.config.Session, s.config.Defaults)
		s.mux.Handle("/api/settings", settingsHandler)
	}

	// WebSocket stream endpoint
	if s.config.Hub != nil {
		s.mux.Handle("/ws", s.config.Hub)
	}

	// Optional backing track for the browser audio graph
	if s.config.TrackPath != "" {
		s.mux.HandleFunc("/song.mp3", s.handleTrack)
	}

	s.mux.HandleFunc("/", s.handleIndex)
}

// ServeHTTP implements the http.Handler interface.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

// handleIndex serves the embedded viewer page at the root only.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(indexHTML)
}

// handleTrack serves the configured audio file, if it exists.
func (s *Server) handleTrack(w http.ResponseWriter, r *http.Request) {
	if _, err := os.Stat(s.config.TrackPath); err != nil {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, s.config.TrackPath)
}

// handleHealth handles GET requests to /api/health.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	uptime := time.Since(s.start)

	clients := 0
	if s.config.Hub != nil {
		clients = s.config.Hub.ClientCount()
	}

	response := map[string]interface{}{
		"status":  "ok",
		"uptime":  uptime.String(),
		"clients": clients,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
		return
	}
}

// ListenAndServe starts the HTTP server on the given address.
func (s *Server) ListenAndServe(addr string) error {
	return http.ListenAndServe(addr, s)
}
