package health

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/jordandelbar/detr-mmap/internal/detector"
	"github.com/jordandelbar/detr-mmap/internal/pipeline"
)

// Status is the JSON body of /readiness (and the "status" field alone
// for /health).
type Status struct {
	Status          string `json:"status"`
	UptimeSeconds   int64  `json:"uptime_seconds"`
	EngineState     string `json:"engine_state"`
	ControlPlaneUp  bool   `json:"control_plane_up"`
	FramesProcessed uint64 `json:"frames_processed,omitempty"`
	FramesSkipped   uint64 `json:"frames_skipped,omitempty"`
	TotalDetections uint64 `json:"total_detections,omitempty"`
}

// Server exposes /health, /readiness, and /metrics over HTTP, reading
// live state from callbacks rather than owning the engine or driver
// directly: the same pattern lets cmd/inference wire in a *detector.Engine
// and *pipeline.Driver that it also owns and shuts down.
type Server struct {
	instanceID       string
	started          time.Time
	logger           *slog.Logger
	stats            func() pipeline.Snapshot
	engineState      func() detector.State
	controlConnected func() bool

	httpServer *http.Server
}

// New builds a Server. controlConnected may be nil when the MQTT control
// plane is disabled; it is then treated as always false.
func New(instanceID string, logger *slog.Logger, stats func() pipeline.Snapshot, engineState func() detector.State, controlConnected func() bool) *Server {
	return &Server{
		instanceID:       instanceID,
		started:          time.Now(),
		logger:           logger,
		stats:            stats,
		engineState:      engineState,
		controlConnected: controlConnected,
	}
}

func (s *Server) status() Status {
	engineState := s.engineState()
	snap := s.stats()

	controlUp := false
	if s.controlConnected != nil {
		controlUp = s.controlConnected()
	}

	status := "healthy"
	if engineState != detector.Loaded {
		status = "unhealthy"
	}

	return Status{
		Status:          status,
		UptimeSeconds:   int64(time.Since(s.started).Seconds()),
		EngineState:     engineState.String(),
		ControlPlaneUp:  controlUp,
		FramesProcessed: snap.FramesProcessed,
		FramesSkipped:   snap.FramesSkipped,
		TotalDetections: snap.TotalDetections,
	}
}

func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]any{
		"status":         "alive",
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
	})
}

func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	status := s.status()

	code := http.StatusOK
	if status.Status == "unhealthy" {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(status)
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	snap := s.stats()

	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "# TYPE inference_frames_processed_total counter\n")
	fmt.Fprintf(w, "inference_frames_processed_total{instance=%q} %d\n", s.instanceID, snap.FramesProcessed)
	fmt.Fprintf(w, "# TYPE inference_frames_skipped_total counter\n")
	fmt.Fprintf(w, "inference_frames_skipped_total{instance=%q} %d\n", s.instanceID, snap.FramesSkipped)
	fmt.Fprintf(w, "# TYPE inference_detections_total counter\n")
	fmt.Fprintf(w, "inference_detections_total{instance=%q} %d\n", s.instanceID, snap.TotalDetections)
	fmt.Fprintf(w, "# TYPE inference_uptime_seconds gauge\n")
	fmt.Fprintf(w, "inference_uptime_seconds{instance=%q} %d\n", s.instanceID, int64(time.Since(s.started).Seconds()))
}

// Handler returns the mux serving all three endpoints, for tests that
// want to drive it with httptest without opening a real listener.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.handleLiveness)
	mux.HandleFunc("/readiness", s.handleReadiness)
	mux.HandleFunc("/metrics", s.handleMetrics)
	return mux
}

// Start launches the HTTP server on addr in a background goroutine and
// returns immediately. A failure after startup (other than a clean
// Shutdown) is logged, not returned, since nothing is left to return it
// to by that point.
func (s *Server) Start(addr string) {
	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting health server", "addr", addr, "endpoints", []string{"/health", "/readiness", "/metrics"})

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("health server failed", "error", err)
		}
	}()
}

// Shutdown gracefully stops the HTTP server, if Start was ever called.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
