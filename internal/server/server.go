package server

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"sync"
	"sync/atomic"

	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"codegraph/internal/export"
	"codegraph/internal/scan"
	"codegraph/internal/util/jsonutil"
)

// ScanTarget identifies what a scan request should analyze. Exactly one
// of Path or GitHubURL is set.
type ScanTarget struct {
	Path      string `json:"path,omitempty"`
	GitHubURL string `json:"github_url,omitempty"`
}

// Engine runs a full analysis of a target and returns the exported
// structure. onEvent receives per-file progress.
type Engine interface {
	Analyze(ctx context.Context, target ScanTarget, onEvent func(scan.Event)) (export.Structure, error)
}

// Server exposes the engine over HTTP: scans are started with POST
// /api/scan, the latest result is fetched with GET /api/export, and
// progress streams over the /ws websocket.
type Server struct {
	engine Engine
	hub    *Hub

	mu      sync.Mutex
	latest  *export.Structure
	lastErr string
	running atomic.Bool
}

func New(engine Engine) *Server {
	return &Server{engine: engine, hub: NewHub()}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/scan", s.handleScan)
	mux.HandleFunc("/api/export", s.handleExport)
	mux.HandleFunc("/api/status", s.handleStatus)
	mux.HandleFunc("/ws", s.handleWS)
	return withCORS(mux)
}

// ListenAndServe starts an h2c server so HTTP/2 works without TLS.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("starting server on %s", addr)
	return http.ListenAndServe(addr, h2c.NewHandler(s.Handler(), &http2.Server{}))
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	var target ScanTarget
	if err := json.NewDecoder(r.Body).Decode(&target); err != nil {
		http.Error(w, "invalid json body", http.StatusBadRequest)
		return
	}
	target.Path = strings.TrimSpace(target.Path)
	target.GitHubURL = strings.TrimSpace(target.GitHubURL)
	if (target.Path == "") == (target.GitHubURL == "") {
		http.Error(w, "exactly one of path or github_url is required", http.StatusBadRequest)
		return
	}
	if !s.running.CompareAndSwap(false, true) {
		http.Error(w, "a scan is already running", http.StatusConflict)
		return
	}

	go s.runScan(target)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	_ = json.NewEncoder(w).Encode(map[string]any{"started": true})
}

func (s *Server) runScan(target ScanTarget) {
	defer s.running.Store(false)

	s.hub.Publish(map[string]any{"type": "scan_started", "target": target})
	structure, err := s.engine.Analyze(context.Background(), target, func(evt scan.Event) {
		s.hub.Publish(map[string]any{
			"type":   "progress",
			"kind":   evt.Kind,
			"path":   evt.Path,
			"reason": evt.Reason,
		})
	})

	s.mu.Lock()
	if err != nil {
		s.lastErr = err.Error()
	} else {
		s.latest = &structure
		s.lastErr = ""
	}
	s.mu.Unlock()

	if err != nil {
		log.Printf("scan failed: %v", err)
		s.hub.Publish(map[string]any{"type": "scan_failed", "error": err.Error()})
		return
	}
	s.hub.Publish(map[string]any{"type": "scan_done", "files": len(structure.Files)})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	latest := s.latest
	s.mu.Unlock()
	if latest == nil {
		http.Error(w, "no scan result available", http.StatusNotFound)
		return
	}
	data, err := jsonutil.MarshalNoEscapeIndent(latest, "", "  ")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	s.mu.Lock()
	hasResult := s.latest != nil
	lastErr := s.lastErr
	s.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"running":     s.running.Load(),
		"has_result":  hasResult,
		"last_error":  lastErr,
		"subscribers": s.hub.Len(),
	})
}

// withCORS allows browser frontends on other origins to call the API.
func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := strings.TrimSpace(r.Header.Get("Origin"))
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")
		} else {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization")
		if r.Method == http.MethodOptions {
			return
		}
		next.ServeHTTP(w, r)
	})
}
