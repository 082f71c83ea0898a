package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/clinpipe/clinpipe/internal/api"
	"github.com/clinpipe/clinpipe/internal/config"
	"github.com/clinpipe/clinpipe/internal/nlp"
	"github.com/clinpipe/clinpipe/internal/pipeline"
	"github.com/clinpipe/clinpipe/internal/rules"
	"github.com/clinpipe/clinpipe/internal/store"
)

func main() {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load YAML rule files configured on top of the defaults.
	extra, err := rules.LoadFiles(cfg.RuleFiles()...)
	if err != nil {
		log.Error("failed to load rule files", "error", err)
		os.Exit(1)
	}

	// Build the NLP pipeline.
	p, err := nlp.Load(nlp.Options{
		Model:          cfg.Model,
		Enable:         cfg.EnablePipes,
		Disable:        cfg.DisablePipes,
		NoDefaultRules: !cfg.LoadDefaultRules,
		ExtraRules:     extra,
	})
	if err != nil {
		log.Error("failed to build pipeline", "error", err)
		os.Exit(1)
	}

	// Open storage.
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("failed to open store", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	// Initialize pipeline workers.
	orch := pipeline.NewOrchestrator(cfg, p, st, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		st.Close()
	}()

	log.Info("starting clinpiped", "port", cfg.Port, "model", cfg.Model, "pipes", p.PipeNames())
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
