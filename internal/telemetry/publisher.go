package telemetry

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

// PublisherConfig configures the monitoring HTTP server.
type PublisherConfig struct {
	// ListenAddr is the bind address, e.g. ":9100". Empty disables the
	// publisher entirely.
	ListenAddr string
	// AllowedOrigins for CORS; empty allows any origin.
	AllowedOrigins []string
}

// Publisher exposes the collector over HTTP: prometheus metrics, a JSON
// snapshot endpoint, and a websocket that streams one snapshot per flush
// interval. It runs off the hot path on its own goroutines.
type Publisher struct {
	cfg       PublisherConfig
	collector *Collector
	logger    *zap.Logger

	server   *http.Server
	upgrader websocket.Upgrader
}

// NewPublisher wires the publisher to a collector.
func NewPublisher(cfg PublisherConfig, collector *Collector, logger *zap.Logger) *Publisher {
	p := &Publisher{
		cfg:       cfg,
		collector: collector,
		logger:    logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}

	r := mux.NewRouter()
	r.HandleFunc("/healthz", p.handleHealth).Methods(http.MethodGet)
	r.HandleFunc("/snapshot", p.handleSnapshot).Methods(http.MethodGet)
	r.HandleFunc("/ws", p.handleWS)
	r.Handle("/metrics", promhttp.HandlerFor(collector.Registry(), promhttp.HandlerOpts{}))

	handler := cors.New(cors.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet},
	}).Handler(r)

	p.server = &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return p
}

// Start begins serving. Returns immediately; serve errors other than a
// clean shutdown are logged.
func (p *Publisher) Start() {
	go func() {
		if err := p.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			p.logger.Error("monitoring server failed", zap.Error(err))
		}
	}()
	p.logger.Info("monitoring publisher listening", zap.String("addr", p.cfg.ListenAddr))
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (p *Publisher) Stop() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := p.server.Shutdown(ctx); err != nil {
		p.logger.Warn("monitoring server shutdown", zap.Error(err))
	}
}

func (p *Publisher) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

func (p *Publisher) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(p.collector.LastSnapshot())
}

// handleWS streams snapshots to the client once per collector flush
// interval until the client goes away.
func (p *Publisher) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := p.upgrader.Upgrade(w, r, nil)
	if err != nil {
		p.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	ticker := time.NewTicker(p.collector.cfg.FlushInterval)
	defer ticker.Stop()
	for range ticker.C {
		if err := conn.WriteJSON(p.collector.LastSnapshot()); err != nil {
			return
		}
	}
}
