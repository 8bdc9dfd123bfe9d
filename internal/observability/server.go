package observability

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"thunder.klederson.com/internal/config"
)

// ErrNotPainted is reported by /readyz until the first full paint succeeds.
var ErrNotPainted = errors.New("panel not painted yet")

// PanelStatus describes the serial link behind the front panel.
type PanelStatus struct {
	Port      string
	Layout    string
	Paints    uint64    // successful redraws and report refreshes
	LastPaint time.Time // zero until the first paint
	Err       error     // first terminal write failure, sticky
}

// Ready returns nil once the panel has been painted and no write has failed.
func (p PanelStatus) Ready() error {
	if p.Err != nil {
		return p.Err
	}
	if p.Paints == 0 {
		return ErrNotPainted
	}
	return nil
}

// PanelReporter supplies the status served on /readyz.
type PanelReporter interface {
	PanelStatus() PanelStatus
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Sensor  string `json:"sensor"`
	Serial  string `json:"serial"`
}

type readyResponse struct {
	Status    string `json:"status"`
	Error     string `json:"error,omitempty"`
	Port      string `json:"port"`
	Layout    string `json:"layout"`
	Paints    uint64 `json:"paints"`
	LastPaint string `json:"last_paint,omitempty"`
}

// Server exposes /healthz, /readyz and /metrics for a running panel.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer creates the HTTP server. panel backs /readyz.
func NewServer(addr string, panel PanelReporter, logger *slog.Logger) *Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(panel))
	mux.Handle("GET /metrics", promhttp.Handler())

	return &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
	}
}

// Start listens until Shutdown. It returns http.ErrServerClosed after a
// graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("status server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown drains open requests before ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "healthy",
		Version: config.AppVersion,
		Sensor:  config.SensorModel,
		Serial:  config.SerialNumber,
	})
}

func handleReady(panel PanelReporter) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		st := panel.PanelStatus()
		resp := readyResponse{
			Status: "ready",
			Port:   st.Port,
			Layout: st.Layout,
			Paints: st.Paints,
		}
		if !st.LastPaint.IsZero() {
			resp.LastPaint = st.LastPaint.UTC().Format(time.RFC3339)
		}

		code := http.StatusOK
		if err := st.Ready(); err != nil {
			code = http.StatusServiceUnavailable
			resp.Status = "not ready"
			resp.Error = err.Error()
		}
		writeJSON(w, code, resp)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // response already committed
}
