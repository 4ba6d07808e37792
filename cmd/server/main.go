package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smilemakc/gegraph/internal/buffer"
	"github.com/smilemakc/gegraph/internal/config"
	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/engine"
	"github.com/smilemakc/gegraph/internal/infrastructure/logger"
	"github.com/smilemakc/gegraph/internal/infrastructure/monitoring"
	"github.com/smilemakc/gegraph/internal/infrastructure/storage"
	"github.com/smilemakc/gegraph/internal/infrastructure/websocket"
	"github.com/smilemakc/gegraph/internal/operation/builtin"
)

func main() {
	var (
		signalAddr  = flag.String("signal-addr", "", "WebSocket signal listen address (overrides config)")
		persist     = flag.Bool("persist", false, "Persist graph topology and cache tiles to Postgres instead of memory")
		maxParallel = flag.Int("max-parallel", 0, "Max parallel evaluations setting, logged at startup (overrides config)")
	)
	flag.Parse()

	cfg := config.Load()
	if *signalAddr != "" {
		cfg.SignalAddr = *signalAddr
	}
	if *maxParallel > 0 {
		cfg.MaxParallel = *maxParallel
	}

	log := logger.Setup(cfg.LogLevel)
	log.Info().
		Str("signal_addr", cfg.SignalAddr).
		Int("max_parallel", cfg.MaxParallel).
		Bool("persist", *persist).
		Msg("starting gegraph signal server")

	var store storage.Store
	if *persist {
		bunStore := storage.NewBunStore(cfg.CacheDSN)
		ctx := context.Background()
		if err := bunStore.InitSchema(ctx); err != nil {
			log.Error().Err(err).Msg("failed to initialize database schema")
			os.Exit(1)
		}
		store = bunStore
		log.Info().Msg("using BunStore (PostgreSQL) for graph and cache-tile persistence")
	} else {
		store = storage.NewMemoryStore()
		log.Info().Msg("using in-memory store for graph and cache-tile persistence")
	}

	hub := websocket.NewHub(log)
	go hub.Run()

	observers := monitoring.NewObserverManager()
	observers.Register(websocket.NewSocketObserver(hub))
	metrics := monitoring.NewMetricsCollector()

	mgr := engine.New(
		buffer.NewService(),
		engine.WithLogger(log),
		engine.WithObserver(observers),
		engine.WithMetrics(metrics),
	)

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/signals", websocket.NewHandler(hub, log))
	mux.Handle("/render", renderHandler(mgr, store, log))
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(metrics.AllSinkMetrics())
	})

	httpServer := &http.Server{
		Addr:         cfg.SignalAddr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("address", httpServer.Addr).Msg("signal server listening")
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server failed")
			os.Exit(1)
		}
	}()

	log.Info().
		Str("health", "GET /health").
		Str("signals", "GET /signals (websocket)").
		Msg("available endpoints")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exited gracefully")
}

// renderHandler builds a small solid-fill -> invert -> capture pipeline,
// runs it through the eval manager, and persists the resulting graph
// topology via store. It exists to give the wiring between engine,
// storage, and the websocket signal path a single exercised call path,
// not as a general graph-authoring API (spec §1 leaves that out of
// scope).
func renderHandler(mgr *engine.Manager, store storage.Store, log zerolog.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		graphID := uuid.NewString()

		solid, err := domain.New("solid", &builtin.Solid{Width: 32, Height: 32, Color: [4]float64{1, 0, 0, 1}})
		if err != nil {
			log.Error().Err(err).Msg("render: failed to create solid node")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		invert, err := domain.New("invert", builtin.NewInvertFactory()())
		if err != nil {
			log.Error().Err(err).Msg("render: failed to create invert node")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		sink, err := domain.New("sink", builtin.NewCaptureSinkFactory()())
		if err != nil {
			log.Error().Err(err).Msg("render: failed to create sink node")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if err := invert.Connect("input", solid, "output"); err != nil {
			log.Error().Err(err).Msg("render: failed to connect invert to solid")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		if err := sink.Connect("input", invert, "output"); err != nil {
			log.Error().Err(err).Msg("render: failed to connect sink to invert")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		roi := domain.Rectangle{X: 0, Y: 0, Width: 32, Height: 32}
		if _, err := mgr.Evaluate(ctx, sink, roi); err != nil {
			log.Error().Err(err).Str("graph_id", graphID).Msg("render: evaluation failed")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		graph := storage.NewGraphRecordBuilder().ID(graphID).Name("render-demo").Build()
		nodes := []storage.NodeRecord{
			storage.NewNodeRecordBuilder().ID("solid").GraphID(graphID).OperationType("Solid").Build(),
			storage.NewNodeRecordBuilder().ID("invert").GraphID(graphID).OperationType("Invert").Build(),
			storage.NewNodeRecordBuilder().ID("sink").GraphID(graphID).OperationType("CaptureSink").Build(),
		}
		conns := []storage.ConnectionRecord{
			storage.NewConnectionRecordBuilder().ID(uuid.NewString()).GraphID(graphID).Source("solid", "output").Sink("invert", "input").Build(),
			storage.NewConnectionRecordBuilder().ID(uuid.NewString()).GraphID(graphID).Source("invert", "output").Sink("sink", "input").Build(),
		}
		if err := store.SaveGraph(ctx, graph, nodes, conns); err != nil {
			log.Error().Err(err).Str("graph_id", graphID).Msg("render: failed to persist graph topology")
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"graph_id": graphID})
	})
}
