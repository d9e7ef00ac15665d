package health

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jordandelbar/detr-mmap/internal/detector"
	"github.com/jordandelbar/detr-mmap/internal/pipeline"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLivenessAlwaysOK(t *testing.T) {
	s := New("inference-0", testLogger(),
		func() pipeline.Snapshot { return pipeline.Snapshot{} },
		func() detector.State { return detector.Unloaded },
		nil,
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestReadinessUnhealthyWhenEngineNotLoaded(t *testing.T) {
	s := New("inference-0", testLogger(),
		func() pipeline.Snapshot { return pipeline.Snapshot{} },
		func() detector.State { return detector.Unloaded },
		nil,
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readiness", nil)
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}

	var body Status
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.Status != "unhealthy" {
		t.Errorf("Status = %q, want %q", body.Status, "unhealthy")
	}
}

func TestReadinessHealthyWhenEngineLoaded(t *testing.T) {
	s := New("inference-0", testLogger(),
		func() pipeline.Snapshot { return pipeline.Snapshot{FramesProcessed: 5} },
		func() detector.State { return detector.Loaded },
		func() bool { return true },
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/readiness", nil)
	s.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}

	var body Status
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if body.Status != "healthy" || !body.ControlPlaneUp || body.FramesProcessed != 5 {
		t.Errorf("body = %+v, want healthy/control-up/frames_processed=5", body)
	}
}

func TestMetricsReportsCounters(t *testing.T) {
	s := New("inference-0", testLogger(),
		func() pipeline.Snapshot { return pipeline.Snapshot{FramesProcessed: 3, TotalDetections: 9} },
		func() detector.State { return detector.Loaded },
		nil,
	)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	s.Handler().ServeHTTP(rec, req)

	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(body, `inference_frames_processed_total{instance="inference-0"} 3`) {
		t.Errorf("metrics body missing frames_processed line: %s", body)
	}
	if !strings.Contains(body, `inference_detections_total{instance="inference-0"} 9`) {
		t.Errorf("metrics body missing detections line: %s", body)
	}
}
