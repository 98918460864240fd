// Trishul — a single-process, low-latency trading pipeline.
//
// Architecture:
//
//	main.go                  — entry point: loads config, builds the logger, runs the engine
//	engine/engine.go         — orchestrator: three pinned threads joined by SPSC rings
//	itch/decoder.go          — zero-copy wire decoder with an FNV-1a symbol table
//	book/book.go             — arena-pooled incremental L2 book with BBO diffing
//	strategy/quoter.go       — reservation-price quoting against the book
//	risk/checker.go          — integer-only pre-trade size/position/notional checks
//	execution/router.go      — splits orders between the gateway sim and the register block
//	execution/gateway.go     — price-time crossing engine producing execution reports
//	hw/driver.go             — memory-mapped control block for the hardware path
//	feed/                    — multicast receiver (live) or synthetic source (simulation)
//	telemetry/               — prometheus counters, per-second snapshots, HTTP publisher
//
// Data flows one way through the rings:
//
//	feed → decode → [md ring] → strategy → [order ring] → risk → router → {gateway|hw}
//	                              ▲                                  │
//	                              └────── [exec ring] ◄──────────────┘
//
// Set ULTRA_LIVE_MODE to join the configured multicast group instead of
// running the in-process simulator.
package main

import (
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/shreejitverma/trishul-ultra-hft-project/internal/config"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/engine"
	"github.com/shreejitverma/trishul-ultra-hft-project/internal/logging"
)

func main() {
	cfgPath := "configs/engine.yaml"
	if p := os.Getenv("ULTRA_CONFIG"); p != "" {
		cfgPath = p
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		// No logger yet; this is the one place stderr is written directly.
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		os.Stderr.WriteString("invalid config: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger, syncLogs := logging.New(cfg.Logging)
	defer syncLogs()

	eng, err := engine.New(*cfg, logger)
	if err != nil {
		logger.Error("failed to create engine", zap.Error(err))
		syncLogs()
		os.Exit(1)
	}

	if err := eng.Run(); err != nil {
		logger.Error("failed to start engine", zap.Error(err))
		syncLogs()
		os.Exit(1)
	}

	mode := "SIMULATION"
	if cfg.LiveMode {
		mode = "LIVE"
	}
	logger.Info("trading engine started",
		zap.String("mode", mode),
		zap.String("strategy", cfg.Strategy.Model),
		zap.String("symbol", cfg.Strategy.Symbol),
	)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	sig := <-sigCh
	logger.Info("received shutdown signal", zap.String("signal", sig.String()))

	eng.Stop()
}
