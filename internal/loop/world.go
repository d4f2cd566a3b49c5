package loop

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/tomz197/bounce/internal/event"
	"github.com/tomz197/bounce/internal/loop/config"
	"github.com/tomz197/bounce/internal/object"
	"github.com/tomz197/bounce/internal/physics"
)

var (
	// ErrInvalidArena is returned when the arena has no area.
	ErrInvalidArena = errors.New("invalid arena")
	// ErrBodyOutOfArena is returned when an explicit body does not fit inside the arena.
	ErrBodyOutOfArena = errors.New("body outside arena")
	// ErrDuplicateBody is returned when two explicit bodies share an ID.
	ErrDuplicateBody = errors.New("duplicate body id")
)

// Options configures a new World.
type Options struct {
	Arena      physics.Rect      // Zero value means the default arena
	Balls      int               // Clamped to [MinBalls, MaxBalls]; 0 means DefaultBalls
	Bodies     []object.BallSpec // Explicit bodies; replaces random spawning when set
	Policy     Policy            // Pair resolution policy
	Seed       uint64            // Used when Rand is nil
	Rand       object.RandSource // Optional; overrides Seed
	Sound      bool              // Initial sound flag of every ball
	Labels     bool              // Initial label visibility
	Explosions bool              // Whether deaths request explosions
	Logger     *log.Logger       // Optional; defaults to a discarding logger
}

// DefaultArena is the arena used when Options.Arena is empty.
func DefaultArena() physics.Rect {
	return physics.NewRect(0, 0, config.ArenaWidth, config.ArenaHeight)
}

// ClampBalls limits a requested ball count to the supported range.
func ClampBalls(n int) int {
	return min(max(n, config.MinBalls), config.MaxBalls)
}

// World owns the arena and the balls and advances them one tick at a time.
// A World is not safe for concurrent use.
type World struct {
	ID         uuid.UUID
	Arena      physics.Rect
	Balls      []*object.Ball // Spawn order; never reordered or shrunk
	Tick       uint64
	Paused     bool
	Explosions bool
	Policy     Policy

	sound  bool
	labels bool
	deaths int
	queue  event.Queue
	bus    event.Bus
	logger *log.Logger
}

// NewWorld creates a world and spawns its balls.
func NewWorld(opts Options) (*World, error) {
	arena := opts.Arena
	if arena == (physics.Rect{}) {
		arena = DefaultArena()
	}
	if arena.Empty() {
		return nil, fmt.Errorf("%w: %vx%v", ErrInvalidArena, arena.Width, arena.Height)
	}
	if opts.Policy > PolicySymmetric {
		return nil, fmt.Errorf("%v: %w", opts.Policy, ErrUnknownPolicy)
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	rng := opts.Rand
	if rng == nil {
		seed := opts.Seed
		if seed == 0 {
			seed = uint64(time.Now().UnixNano())
		}
		rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	}

	w := &World{
		ID:         uuid.New(),
		Arena:      arena,
		Explosions: opts.Explosions,
		Policy:     opts.Policy,
		sound:      opts.Sound,
		labels:     opts.Labels,
		logger:     logger,
	}

	if len(opts.Bodies) > 0 {
		if err := w.addBodies(opts.Bodies); err != nil {
			return nil, err
		}
	} else {
		n := opts.Balls
		if n == 0 {
			n = config.DefaultBalls
		}
		if err := w.spawnBalls(ClampBalls(n), rng); err != nil {
			return nil, err
		}
	}

	w.logger.Info("run started", "run", w.ID, "balls", len(w.Balls), "policy", w.Policy)
	return w, nil
}

func (w *World) addBodies(specs []object.BallSpec) error {
	seen := make(map[int]bool, len(specs))
	for i, spec := range specs {
		if spec.ID == 0 {
			spec.ID = i + 1
		}
		if seen[spec.ID] {
			return fmt.Errorf("body %d: %w", spec.ID, ErrDuplicateBody)
		}
		seen[spec.ID] = true
		spec.SoundOn = w.sound
		b := object.NewBallFromSpec(spec)
		if !w.Arena.Contains(b.BoundingBox()) {
			return fmt.Errorf("body %d at (%v, %v): %w", b.ID(), b.Center().X, b.Center().Y, ErrBodyOutOfArena)
		}
		b.SetLabelVisible(w.labels)
		w.Balls = append(w.Balls, b)
	}
	return nil
}

func (w *World) spawnBalls(n int, rng object.RandSource) error {
	centers, err := SpawnCenters(w.Arena, config.BallRadius, n, rng)
	if err != nil {
		return err
	}
	for i, c := range centers {
		b := object.NewBall(i+1, c, w.sound, rng)
		b.SetLabelVisible(w.labels)
		w.Balls = append(w.Balls, b)
	}
	return nil
}

// Subscribe registers a sink for the events of every following tick.
func (w *World) Subscribe(s event.Sink) {
	w.bus.Subscribe(s)
}

// UpdateContext returns the context balls are updated with on the current tick.
func (w *World) UpdateContext() object.UpdateContext {
	return object.UpdateContext{
		Tick:       w.Tick,
		Arena:      w.Arena,
		Events:     &w.queue,
		Explosions: w.Explosions,
	}
}

// Step advances the world by one tick: every ball moves, then every pair is
// resolved, then the tick's events are delivered to subscribers. A paused
// world does nothing.
func (w *World) Step() error {
	if w.Paused {
		return nil
	}
	w.Tick++
	ctx := w.UpdateContext()

	for _, b := range w.Balls {
		if _, err := b.Update(ctx); err != nil {
			return fmt.Errorf("update ball %d: %w", b.ID(), err)
		}
	}
	w.sweep(ctx)
	w.relax()

	w.queue.Flush(&w.bus)
	return nil
}

// Live returns the number of balls still alive.
func (w *World) Live() int {
	n := 0
	for _, b := range w.Balls {
		if b.IsAlive() {
			n++
		}
	}
	return n
}

// Deaths returns how many balls have died so far.
func (w *World) Deaths() int {
	return w.deaths
}

// TogglePause pauses or resumes the world.
func (w *World) TogglePause() bool {
	w.Paused = !w.Paused
	return w.Paused
}

// ToggleExplosions switches whether deaths request explosions.
func (w *World) ToggleExplosions() bool {
	w.Explosions = !w.Explosions
	return w.Explosions
}

// ToggleSound flips the sound flag of every ball.
func (w *World) ToggleSound() bool {
	w.sound = !w.sound
	for _, b := range w.Balls {
		b.SetSound(w.sound)
	}
	return w.sound
}

// ToggleLabels flips label visibility of every ball.
func (w *World) ToggleLabels() bool {
	w.labels = !w.labels
	for _, b := range w.Balls {
		b.SetLabelVisible(w.labels)
	}
	return w.labels
}

// Sound reports the current sound flag.
func (w *World) Sound() bool {
	return w.sound
}

// Labels reports whether labels are visible.
func (w *World) Labels() bool {
	return w.labels
}

// BodyState is a read-only view of one ball, for viewers.
type BodyState struct {
	ID         int     `json:"id"`
	Name       string  `json:"name"`
	X          float64 `json:"x"`
	Y          float64 `json:"y"`
	Radius     float64 `json:"r"`
	Color      string  `json:"color"`
	Alive      bool    `json:"alive"`
	Collisions int     `json:"collisions"`
	Threshold  int     `json:"threshold"`
	Label      bool    `json:"label,omitempty"`
}

// Snapshot copies the state of every ball in spawn order.
func (w *World) Snapshot() []BodyState {
	out := make([]BodyState, 0, len(w.Balls))
	for _, b := range w.Balls {
		c := b.Center()
		out = append(out, BodyState{
			ID:         b.ID(),
			Name:       b.Name(),
			X:          c.X,
			Y:          c.Y,
			Radius:     b.Radius(),
			Color:      b.Color().Hex(),
			Alive:      b.IsAlive(),
			Collisions: b.Collisions(),
			Threshold:  b.Threshold(),
			Label:      b.LabelVisible(),
		})
	}
	return out
}
