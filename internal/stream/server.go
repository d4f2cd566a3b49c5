package stream

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/bounce/internal/event"
	"github.com/tomz197/bounce/internal/loop"
	"github.com/tomz197/bounce/internal/loop/config"
)

// Frame is the state of the shared world after one tick, as sent to viewers.
type Frame struct {
	Run      string           `json:"run"`
	Tick     uint64           `json:"tick"`
	Width    float64          `json:"width"`
	Height   float64          `json:"height"`
	Paused   bool             `json:"paused,omitempty"`
	Alive    int              `json:"alive"`
	Bodies   []loop.BodyState `json:"bodies"`
	Events   []EventState     `json:"events,omitempty"`
	Shutdown bool             `json:"shutdown,omitempty"`
}

// EventState is an event as sent to viewers.
type EventState struct {
	Kind string  `json:"kind"`
	Body int     `json:"body"`
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
}

// Viewer commands.
const (
	CommandRestart    = "restart"
	CommandPause      = "pause"
	CommandLabels     = "labels"
	CommandExplosions = "explosions"
)

// ServerOptions configures a Server.
type ServerOptions struct {
	World        loop.Options  // Template for every run
	TickTime     time.Duration // Defaults to the terminal frame time
	RestartAfter int           // Ticks to wait once at most one ball lives; 0 never restarts
}

// Server ticks one world shared by every viewer and broadcasts a frame
// after each tick.
type Server struct {
	opts     ServerOptions
	hub      *Hub
	world    *loop.World
	snapshot atomic.Pointer[Frame]
	commands chan string
	logger   *log.Logger

	mu      sync.Mutex // Guards pending
	pending []event.Event

	quietTicks int
}

// NewServer creates the first world and wires viewer commands from hub.
func NewServer(hub *Hub, opts ServerOptions) (*Server, error) {
	if opts.TickTime <= 0 {
		opts.TickTime = config.TargetFrameTime
	}
	logger := opts.World.Logger
	if logger == nil {
		logger = log.New(io.Discard)
		opts.World.Logger = logger
	}
	s := &Server{
		opts:     opts,
		hub:      hub,
		commands: make(chan string, 16),
		logger:   logger,
	}
	if err := s.restart(); err != nil {
		return nil, err
	}
	hub.OnCommand = s.Command
	return s, nil
}

// Command queues a viewer command for the next tick. Unknown or excess
// commands are dropped.
func (s *Server) Command(cmd string) {
	select {
	case s.commands <- strings.ToLower(strings.TrimSpace(cmd)):
	default:
	}
}

// Snapshot returns the most recent frame.
func (s *Server) Snapshot() *Frame {
	return s.snapshot.Load()
}

// Run ticks the world until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		frameStart := time.Now()
		if err := s.Tick(); err != nil {
			return err
		}

		elapsed := time.Since(frameStart)
		if elapsed < s.opts.TickTime {
			time.Sleep(s.opts.TickTime - elapsed)
		}
	}
}

// Tick applies queued commands, steps the world once and broadcasts the
// resulting frame.
func (s *Server) Tick() error {
	if err := s.processCommands(); err != nil {
		return err
	}

	if err := s.world.Step(); err != nil {
		return err
	}
	if err := s.restartIfDone(); err != nil {
		return err
	}

	frame := s.buildFrame()
	s.snapshot.Store(frame)
	b, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	s.hub.Broadcast(b)
	return nil
}

func (s *Server) processCommands() error {
	for {
		select {
		case cmd := <-s.commands:
			switch cmd {
			case CommandRestart:
				if err := s.restart(); err != nil {
					return err
				}
			case CommandPause:
				s.world.TogglePause()
			case CommandLabels:
				s.world.ToggleLabels()
			case CommandExplosions:
				s.world.ToggleExplosions()
			default:
				s.logger.Debug("unknown viewer command", "cmd", cmd)
			}
		default:
			return nil
		}
	}
}

// restartIfDone starts a new run once the world has had at most one live
// ball for RestartAfter ticks.
func (s *Server) restartIfDone() error {
	if s.opts.RestartAfter <= 0 || s.world.Paused {
		return nil
	}
	if s.world.Live() > 1 {
		s.quietTicks = 0
		return nil
	}
	s.quietTicks++
	if s.quietTicks < s.opts.RestartAfter {
		return nil
	}
	return s.restart()
}

func (s *Server) restart() error {
	opts := s.opts.World
	if s.world != nil {
		s.logger.Info("run finished", "run", s.world.ID, "ticks", s.world.Tick, "survivors", s.world.Live())
		opts.Labels = s.world.Labels()
		opts.Explosions = s.world.Explosions
		if opts.Seed != 0 {
			// Same seed would replay the same run
			opts.Seed += uint64(s.world.Tick)
		}
	}
	world, err := loop.NewWorld(opts)
	if err != nil {
		return err
	}
	world.Subscribe(event.SinkFunc(s.collect))

	s.mu.Lock()
	s.pending = s.pending[:0]
	s.mu.Unlock()
	s.world = world
	s.quietTicks = 0
	s.snapshot.Store(s.buildFrame())
	return nil
}

func (s *Server) collect(e event.Event) {
	s.mu.Lock()
	s.pending = append(s.pending, e)
	s.mu.Unlock()
}

func (s *Server) buildFrame() *Frame {
	w := s.world
	frame := &Frame{
		Run:    w.ID.String(),
		Tick:   w.Tick,
		Width:  w.Arena.Width,
		Height: w.Arena.Height,
		Paused: w.Paused,
		Alive:  w.Live(),
		Bodies: w.Snapshot(),
	}

	s.mu.Lock()
	for _, e := range s.pending {
		frame.Events = append(frame.Events, EventState{
			Kind: e.Kind.String(),
			Body: e.BodyID,
			X:    e.Position.X,
			Y:    e.Position.Y,
		})
	}
	s.pending = s.pending[:0]
	s.mu.Unlock()
	return frame
}

// Shutdown tells viewers the server is going away and waits up to timeout
// for them to disconnect. Cancel the Run context after it returns.
func (s *Server) Shutdown(timeout time.Duration) {
	if b, err := json.Marshal(Frame{Shutdown: true}); err == nil {
		s.hub.Broadcast(b)
	}
	s.hub.Close()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for s.hub.Len() > 0 {
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}
