package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/tomz197/bounce/internal/loop"
	lconfig "github.com/tomz197/bounce/internal/loop/config"
	"github.com/tomz197/bounce/internal/object"
	"github.com/tomz197/bounce/internal/physics"
)

var (
	// ErrInvalidPolicy is returned when the policy name is not legacy or symmetric.
	ErrInvalidPolicy = errors.New("invalid collision policy")
	// ErrInvalidArena is returned when the arena width or height is not positive.
	ErrInvalidArena = errors.New("invalid arena size")
)

// Settings describes a simulation run. It is read from an optional YAML
// file and then overridden by BOUNCE_* environment variables.
type Settings struct {
	Balls      int          `yaml:"balls"`
	Arena      ArenaSize    `yaml:"arena"`
	Policy     string       `yaml:"policy"`
	Seed       string       `yaml:"seed"`
	Sound      bool         `yaml:"sound"`
	Explosions bool         `yaml:"explosions"`
	Labels     bool         `yaml:"labels"`
	LogLevel   string       `yaml:"log_level"`
	LogFile    string       `yaml:"log_file"`
	Bodies     []BodyConfig `yaml:"bodies,omitempty"`
}

// ArenaSize is the size of the arena, which always starts at the origin.
type ArenaSize struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// BodyConfig places one ball explicitly, for reproducible scenarios.
type BodyConfig struct {
	ID        int     `yaml:"id"`
	Name      string  `yaml:"name,omitempty"`
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	VX        float64 `yaml:"vx"`
	VY        float64 `yaml:"vy"`
	Threshold int     `yaml:"threshold,omitempty"`
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		Balls: lconfig.DefaultBalls,
		Arena: ArenaSize{
			Width:  lconfig.ArenaWidth,
			Height: lconfig.ArenaHeight,
		},
		Policy:     loop.PolicyLegacy.String(),
		Explosions: true,
		LogLevel:   "info",
	}
}

// LoadYAML decodes settings from r on top of the defaults.
func LoadYAML(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("decode settings: %w", err)
	}
	return s, nil
}

// Load reads the settings file at path, applies environment overrides and
// validates the result. An empty path skips the file.
func Load(path string) (Settings, error) {
	s := DefaultSettings()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return Settings{}, fmt.Errorf("open settings: %w", err)
		}
		defer f.Close()
		if s, err = LoadYAML(f); err != nil {
			return Settings{}, err
		}
	}
	s.ApplyEnv()
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// ApplyEnv overrides fields with BOUNCE_* environment variables.
func (s *Settings) ApplyEnv() {
	s.Balls = GetEnvInt("BOUNCE_BALLS", s.Balls)
	s.Arena.Width = GetEnvFloat("BOUNCE_ARENA_WIDTH", s.Arena.Width)
	s.Arena.Height = GetEnvFloat("BOUNCE_ARENA_HEIGHT", s.Arena.Height)
	s.Policy = GetEnv("BOUNCE_POLICY", s.Policy)
	s.Seed = GetEnv("BOUNCE_SEED", s.Seed)
	s.Sound = GetEnvBool("BOUNCE_SOUND", s.Sound)
	s.Explosions = GetEnvBool("BOUNCE_EXPLOSIONS", s.Explosions)
	s.Labels = GetEnvBool("BOUNCE_LABELS", s.Labels)
	s.LogLevel = GetEnv("BOUNCE_LOG_LEVEL", s.LogLevel)
	s.LogFile = GetEnv("BOUNCE_LOG_FILE", s.LogFile)
}

// Validate clamps the ball count and checks the policy and arena.
func (s *Settings) Validate() error {
	s.Balls = loop.ClampBalls(s.Balls)
	s.Policy = strings.ToLower(strings.TrimSpace(s.Policy))
	if _, err := loop.ParsePolicy(s.Policy); err != nil {
		return fmt.Errorf("%w: %q", ErrInvalidPolicy, s.Policy)
	}
	if s.Arena.Width <= 0 || s.Arena.Height <= 0 {
		return fmt.Errorf("%w: %vx%v", ErrInvalidArena, s.Arena.Width, s.Arena.Height)
	}
	return nil
}

// SeedValue derives the simulation seed from the seed string. An empty
// seed gives a time-based one.
func (s Settings) SeedValue() uint64 {
	if s.Seed == "" {
		return uint64(time.Now().UnixNano())
	}
	return xxhash.Sum64String(s.Seed)
}

// WorldOptions converts validated settings into options for loop.NewWorld.
func (s Settings) WorldOptions() (loop.Options, error) {
	policy, err := loop.ParsePolicy(s.Policy)
	if err != nil {
		return loop.Options{}, fmt.Errorf("%w: %q", ErrInvalidPolicy, s.Policy)
	}
	opts := loop.Options{
		Arena:      physics.NewRect(0, 0, s.Arena.Width, s.Arena.Height),
		Balls:      s.Balls,
		Policy:     policy,
		Seed:       s.SeedValue(),
		Sound:      s.Sound,
		Labels:     s.Labels,
		Explosions: s.Explosions,
	}
	for _, b := range s.Bodies {
		opts.Bodies = append(opts.Bodies, object.BallSpec{
			ID:        b.ID,
			Name:      b.Name,
			Center:    physics.V(b.X, b.Y),
			Velocity:  physics.V(b.VX, b.VY),
			Threshold: b.Threshold,
		})
	}
	return opts, nil
}
