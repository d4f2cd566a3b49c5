package main

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/bounce/internal/config"
	lconfig "github.com/tomz197/bounce/internal/loop/config"
	"github.com/tomz197/bounce/internal/stream"
)

const (
	defaultHost = "0.0.0.0"
	defaultPort = "8080"
)

//go:embed index.html
var htmlPage string

func main() {
	logger, err := config.NewLogger(os.Stderr, config.GetEnv("BOUNCE_LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bounce-web: %v\n", err)
		os.Exit(1)
	}
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("WEB_HOST", defaultHost)
	port := config.GetEnv("WEB_PORT", defaultPort)
	sshHost := config.GetEnv("SSH_DISPLAY_HOST", "your-server.com")

	settings, err := config.Load(config.GetEnv("BOUNCE_CONFIG", ""))
	if err != nil {
		return err
	}
	worldOpts, err := settings.WorldOptions()
	if err != nil {
		return err
	}
	worldOpts.Logger = logger

	hub := stream.NewHub(logger)
	sim, err := stream.NewServer(hub, stream.ServerOptions{
		World:        worldOpts,
		RestartAfter: lconfig.StreamRestartTicks,
	})
	if err != nil {
		return err
	}

	page := strings.ReplaceAll(htmlPage, "{{.SSHHost}}", sshHost)
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		fmt.Fprint(w, page)
	})
	mux.HandleFunc("/ws", hub.ServeWS)
	mux.HandleFunc("/frame", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(sim.Snapshot()); err != nil {
			logger.Warn("frame encode failed", "err", err)
		}
	})

	addr := net.JoinHostPort(host, port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Simulation started", "balls", settings.Balls, "policy", settings.Policy)
		return sim.Run(gctx)
	})
	g.Go(func() error {
		logger.Info("Starting web server", "url", "http://"+addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")
		sim.Shutdown(lconfig.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
