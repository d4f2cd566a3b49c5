// Package loop drives the simulation: the World that owns the balls, the
// pairwise collision sweep, ball spawning and the terminal frame loop.
package loop

import (
	"bufio"
	"context"
	"io"
	"math"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/bounce/internal/draw"
	"github.com/tomz197/bounce/internal/event"
	"github.com/tomz197/bounce/internal/input"
	"github.com/tomz197/bounce/internal/loop/config"
	"github.com/tomz197/bounce/internal/object"
	"github.com/tomz197/bounce/internal/physics"
)

// Scene is the phase a terminal session is in.
type Scene int

const (
	SceneTitle   Scene = iota // Title screen, waiting for a key
	SceneRunning              // Simulation running
	SceneSummary              // Run ended, showing results
)

// Audio plays sounds for simulation events and owns the soundtrack.
type Audio interface {
	event.Sink
	ToggleMusic() bool
}

// RunOptions configures a terminal session.
type RunOptions struct {
	World       Options           // Template for every run; flags carry over between runs
	TermSize    draw.TermSizeFunc // Defaults to the size of os.Stdout
	Audio       Audio             // Optional
	Music       bool              // Whether the soundtrack is playing at start
	IdleTimeout time.Duration     // Ends the session after this long without input; 0 disables
}

// Session renders one simulation to one terminal and handles its keys.
type Session struct {
	opts   RunOptions
	logger *log.Logger

	scene   Scene
	world   *World
	effects []object.Object
	toSpawn []object.Object // Effects to add after the current frame

	canvas  *draw.Canvas
	frame   *draw.ChunkWriter // Whole frame, flushed to the writer once per frame
	overlay *draw.ChunkWriter // Text over the canvas, offset to the render area
	writer  io.Writer
	termW   int
	termH   int

	stream    *input.Stream
	in        input.Input
	lastInput time.Time
	idle      bool

	sound      bool
	labels     bool
	explosions bool
	music      bool
	runs       int
	running    bool
}

// NewSession creates a session reading keys from r and drawing to w.
func NewSession(r *bufio.Reader, w io.Writer, opts RunOptions) *Session {
	if opts.TermSize == nil {
		opts.TermSize = draw.DefaultTermSizeFunc
	}
	if opts.World.Arena == (physics.Rect{}) {
		opts.World.Arena = DefaultArena()
	}
	logger := opts.World.Logger
	if logger == nil {
		logger = log.New(io.Discard)
		opts.World.Logger = logger
	}

	arena := opts.World.Arena
	frame := draw.NewChunkWriter(w, 0, 0)
	s := &Session{
		opts:       opts,
		logger:     logger,
		scene:      SceneTitle,
		canvas:     draw.NewScaledCanvas(1, 1, arena.Width, arena.Height),
		frame:      frame,
		overlay:    draw.NewChunkWriter(frame, 0, 0),
		writer:     w,
		stream:     input.StartStream(r),
		lastInput:  time.Now(),
		sound:      opts.World.Sound,
		labels:     opts.World.Labels,
		explosions: opts.World.Explosions,
		music:      opts.Music,
		running:    true,
	}
	s.updateScreen()
	return s
}

// Run starts the main loop with the standard Input → Update → Draw cycle.
func Run(ctx context.Context, r *bufio.Reader, w io.Writer, opts RunOptions) error {
	return NewSession(r, w, opts).Run(ctx)
}

// Run blocks until the user quits, the input closes, the session idles out
// or ctx is cancelled.
func (s *Session) Run(ctx context.Context) error {
	draw.HideCursor(s.writer)
	defer draw.ShowCursor(s.writer)
	draw.ClearScreen(s.writer)

	for s.running {
		select {
		case <-ctx.Done():
			s.running = false
			continue
		default:
		}

		frameStart := time.Now()

		// ===== INPUT PHASE =====
		s.processInput(input.ReadInput(s.stream), frameStart)

		// ===== UPDATE + DRAW =====
		if err := s.Frame(); err != nil {
			return err
		}

		// ===== FRAME TIMING =====
		elapsed := time.Since(frameStart)
		if elapsed < config.TargetFrameTime {
			time.Sleep(config.TargetFrameTime - elapsed)
		}
	}

	s.finishRun()
	draw.ClearScreen(s.writer)
	return nil
}

// Scene returns the current scene.
func (s *Session) Scene() Scene {
	return s.scene
}

// World returns the world of the current or last run, nil before the first.
func (s *Session) World() *World {
	return s.world
}

// Running reports whether the session loop should continue.
func (s *Session) Running() bool {
	return s.running
}

// processInput records the keys of this frame and tracks inactivity.
func (s *Session) processInput(in input.Input, now time.Time) {
	s.in = in

	if in.Any() {
		s.lastInput = now
		s.idle = false
	} else if s.opts.IdleTimeout > 0 {
		idleFor := now.Sub(s.lastInput)
		if idleFor > s.opts.IdleTimeout {
			s.logger.Info("session idle, disconnecting", "after", idleFor.Round(time.Second))
			s.running = false
		} else if idleFor > s.opts.IdleTimeout*3/4 {
			s.idle = true
		}
	}

	if in.Quit || in.Closed {
		s.running = false
	}
	if in.ToggleMusic && s.opts.Audio != nil {
		s.music = s.opts.Audio.ToggleMusic()
	}
}

// Frame runs the update and draw phases for the keys recorded by the last
// input phase.
func (s *Session) Frame() error {
	if !s.running {
		return nil
	}
	s.updateScreen()

	switch s.scene {
	case SceneTitle:
		if s.in.Any() {
			if err := s.startRun(); err != nil {
				return err
			}
		}
	case SceneRunning:
		if err := s.updateRunning(); err != nil {
			return err
		}
	case SceneSummary:
		if s.in.Start {
			if err := s.startRun(); err != nil {
				return err
			}
		}
	}

	return s.drawFrame()
}

// Press feeds keys to the session as if they were typed, for driving it
// without a terminal.
func (s *Session) Press(keys string) error {
	s.processInput(input.Parse([]byte(keys)), time.Now())
	return s.Frame()
}

// startRun creates a fresh world using the current flags.
func (s *Session) startRun() error {
	input.Reset(s.stream)

	opts := s.opts.World
	opts.Sound = s.sound
	opts.Labels = s.labels
	opts.Explosions = s.explosions
	world, err := NewWorld(opts)
	if err != nil {
		return err
	}
	if s.opts.Audio != nil {
		world.Subscribe(s.opts.Audio)
	}
	world.Subscribe(event.SinkFunc(s.onEvent))

	s.releaseEffects()
	s.world = world
	s.runs++
	s.scene = SceneRunning
	draw.ClearScreen(s.writer)
	return nil
}

// finishRun logs the result of the run in progress, if any.
func (s *Session) finishRun() {
	if s.world == nil || s.scene != SceneRunning {
		return
	}
	s.logger.Info("run finished",
		"run", s.world.ID,
		"ticks", s.world.Tick,
		"survivors", s.world.Live(),
		"balls", len(s.world.Balls))
}

// onEvent turns explosion requests into animations.
func (s *Session) onEvent(e event.Event) {
	if e.Kind == event.Explosion {
		s.Spawn(object.NewExplosion(e.Position))
	}
}

// Spawn queues an effect to be added after the current frame.
func (s *Session) Spawn(obj object.Object) {
	s.toSpawn = append(s.toSpawn, obj)
}

// FlushSpawned adds all queued effects and clears the queue.
func (s *Session) FlushSpawned() {
	s.effects = append(s.effects, s.toSpawn...)
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

func (s *Session) releaseEffects() {
	for _, obj := range s.effects {
		object.ReleaseObject(obj)
	}
	clear(s.effects)
	s.effects = s.effects[:0]
	for _, obj := range s.toSpawn {
		object.ReleaseObject(obj)
	}
	clear(s.toSpawn)
	s.toSpawn = s.toSpawn[:0]
}

// updateRunning applies toggles, steps the world and ages the effects.
func (s *Session) updateRunning() error {
	w := s.world
	if s.in.ToggleLabels {
		s.labels = w.ToggleLabels()
	}
	if s.in.TogglePause {
		w.TogglePause()
	}
	if s.in.ToggleExplosions {
		s.explosions = w.ToggleExplosions()
	}
	if s.in.ToggleSound {
		s.sound = w.ToggleSound()
	}
	if s.in.Exit {
		s.finishRun()
		s.scene = SceneSummary
		input.Reset(s.stream)
		return nil
	}

	if err := w.Step(); err != nil {
		return err
	}
	if !w.Paused {
		if err := s.updateEffects(); err != nil {
			return err
		}
	}
	s.FlushSpawned()
	return nil
}

// updateEffects updates all effects and removes any that request removal.
func (s *Session) updateEffects() error {
	ctx := s.world.UpdateContext()

	kept := s.effects[:0] // reuse backing array
	for _, obj := range s.effects {
		remove, err := obj.Update(ctx)
		if err != nil {
			return err
		}
		if remove {
			object.ReleaseObject(obj)
			continue
		}
		kept = append(kept, obj)
	}
	clear(s.effects[len(kept):])
	s.effects = kept
	return nil
}

// updateScreen handles terminal resize, fitting the arena into the terminal.
func (s *Session) updateScreen() {
	termW, termH, err := draw.TerminalSizeRawWith(s.opts.TermSize)
	if err != nil {
		return
	}
	arena := s.opts.World.Arena
	cols, rows, offCol, offRow := fitArena(termW, termH, arena.Width/arena.Height)

	if termW != s.termW || termH != s.termH {
		draw.ClearScreen(s.writer)
	}
	s.termW, s.termH = termW, termH
	s.canvas.Resize(cols, rows)
	s.canvas.SetOffset(offCol, offRow)
	s.overlay.SetOffset(offCol, offRow)
}

// fitArena picks the largest render area with the arena's aspect ratio that
// fits the terminal, leaving the top row for the HUD and room for a border.
// A terminal cell holds two square-ish sub-pixels stacked vertically.
func fitArena(termW, termH int, aspect float64) (cols, rows, offCol, offRow int) {
	availW := max(min(termW-2, config.MaxTermWidth), 1)
	availH := max(min(termH-3, config.MaxTermHeight), 1)

	cols = availW
	rows = int(math.Round(float64(cols) / aspect / 2))
	if rows > availH {
		rows = availH
		cols = int(math.Round(float64(rows) * 2 * aspect))
	}
	cols = max(min(cols, availW), 1)
	rows = max(rows, 1)

	offCol = max((termW-cols)/2, 0)
	offRow = max(1+(termH-1-rows)/2, 1)
	return cols, rows, offCol, offRow
}
