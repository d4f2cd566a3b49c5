package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/charmbracelet/log"
	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"github.com/charmbracelet/wish/activeterm"
	"github.com/charmbracelet/wish/logging"
	"golang.org/x/sync/errgroup"

	"github.com/tomz197/bounce/internal/config"
	"github.com/tomz197/bounce/internal/draw"
	"github.com/tomz197/bounce/internal/loop"
	lconfig "github.com/tomz197/bounce/internal/loop/config"
)

const (
	defaultHost        = "::"
	defaultPort        = "2222"
	defaultHostKeyPath = "/app/keys/host_key"
)

func main() {
	logger, err := config.NewLogger(os.Stderr, config.GetEnv("BOUNCE_LOG_LEVEL", "info"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "bounce-ssh: %v\n", err)
		os.Exit(1)
	}
	if err := run(logger); err != nil {
		logger.Error("server stopped", "err", err)
		os.Exit(1)
	}
}

func run(logger *log.Logger) error {
	host := config.GetEnv("SSH_HOST", defaultHost)
	port := config.GetEnv("SSH_PORT", defaultPort)
	hostKeyPath := config.GetEnv("SSH_HOST_KEY", defaultHostKeyPath)

	settings, err := config.Load(config.GetEnv("BOUNCE_CONFIG", ""))
	if err != nil {
		return err
	}
	worldOpts, err := settings.WorldOptions()
	if err != nil {
		return err
	}
	worldOpts.Logger = logger
	logger.Info("SSH config", "host", host, "port", port, "hostKey", hostKeyPath,
		"balls", settings.Balls, "policy", settings.Policy)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	h := &handler{
		ctx:      ctx,
		settings: settings,
		opts:     worldOpts,
		logger:   logger,
	}

	opts := []ssh.Option{
		wish.WithAddress(net.JoinHostPort(host, port)),
		wish.WithMiddleware(
			h.middleware,
			activeterm.Middleware(),
			logging.MiddlewareWithLogger(logger),
		),
		// Set TCP_NODELAY to reduce latency for key presses
		ssh.WrapConn(func(ctx ssh.Context, conn net.Conn) net.Conn {
			if tcpConn, ok := conn.(*net.TCPConn); ok {
				_ = tcpConn.SetNoDelay(true)
			}
			return conn
		}),
	}
	if hostKeyPath != "" {
		opts = append(opts, wish.WithHostKeyPath(hostKeyPath))
	}

	s, err := wish.NewServer(opts...)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Starting SSH server", "addr", s.Addr)
		if err := s.ListenAndServe(); err != nil && !errors.Is(err, ssh.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down server...")

		// Sessions watch ctx and end on their own; give them time to restore terminals
		h.wait(lconfig.ShutdownTimeout)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// handler runs one simulation per SSH session.
type handler struct {
	ctx      context.Context
	settings config.Settings
	opts     loop.Options
	logger   *log.Logger

	sessions sync.WaitGroup
}

func (h *handler) middleware(next ssh.Handler) ssh.Handler {
	return func(sess ssh.Session) {
		pty, winCh, ok := sess.Pty()
		if !ok {
			fmt.Fprintln(sess, "Error: PTY required. Please connect with: ssh -t user@host")
			return
		}
		h.sessions.Add(1)
		defer h.sessions.Done()

		logger := h.logger.With("user", sess.User(), "remote", sess.RemoteAddr().String())
		logger.Info("New session", "terminal", pty.Term,
			"size", fmt.Sprintf("%dx%d", pty.Window.Width, pty.Window.Height))

		// Create a terminal size tracker that updates on window changes
		sizeTracker := newSizeTracker(pty.Window.Width, pty.Window.Height)
		go func() {
			for win := range winCh {
				sizeTracker.update(win.Width, win.Height)
			}
		}()

		ctx, cancel := context.WithCancel(sess.Context())
		defer cancel()
		stopAfter := context.AfterFunc(h.ctx, cancel)
		defer stopAfter()

		opts := h.opts
		opts.Logger = logger
		opts.Seed = h.sessionSeed(sess)

		err := loop.Run(ctx, bufio.NewReader(sess), sess, loop.RunOptions{
			World:       opts,
			TermSize:    sizeTracker.getSize,
			IdleTimeout: lconfig.SessionIdleTimeout,
		})
		if err != nil {
			logger.Error("Session error", "err", err)
		}

		logger.Info("Session ended")
		next(sess)
	}
}

// sessionSeed gives every session its own run unless a seed is configured.
func (h *handler) sessionSeed(sess ssh.Session) uint64 {
	if h.settings.Seed != "" {
		return h.settings.SeedValue()
	}
	d := xxhash.New()
	_, _ = d.WriteString(sess.User())
	_, _ = d.WriteString(sess.RemoteAddr().String())
	_, _ = d.WriteString(time.Now().Format(time.RFC3339Nano))
	return d.Sum64()
}

// wait blocks until every session has ended or timeout passes.
func (h *handler) wait(timeout time.Duration) {
	done := make(chan struct{})
	go func() {
		h.sessions.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}

// sizeTracker tracks terminal size from SSH window change events.
type sizeTracker struct {
	mu     sync.RWMutex
	width  int
	height int
}

func newSizeTracker(width, height int) *sizeTracker {
	return &sizeTracker{width: width, height: height}
}

func (s *sizeTracker) update(width, height int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.width = width
	s.height = height
}

func (s *sizeTracker) getSize() (int, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.width, s.height, nil
}

// Ensure sizeTracker.getSize satisfies draw.TermSizeFunc
var _ draw.TermSizeFunc = (*sizeTracker)(nil).getSize
