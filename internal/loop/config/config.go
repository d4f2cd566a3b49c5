// Package config centralizes all tunable simulation parameters.
package config

import "time"

// Arena - the logical area the balls live in.
// Rendering scales it to fit the terminal or browser canvas.
const (
	ArenaWidth  = 800
	ArenaHeight = 800
)

// Balls
const (
	BallRadius   = 25.0
	MinBallSpeed = 1 // Per-axis speed range, units per tick
	MaxBallSpeed = 5
	MinLives     = 5 // Death threshold range, collisions
	MaxLives     = 10
	DefaultBalls = 5
	MinBalls     = 3
	MaxBalls     = 49
)

// Collision resolution
const (
	SeparationPadding = 1.0 // Extra distance added when pushing bodies apart
)

// Spawning
const (
	SpawnWallGap  = 1.0 // Room left between a spawned ball and the arena edge
	SpawnGridStep = 5.0 // Spacing of candidate spawn positions
	SpawnGap      = 2.0 // Extra room kept between spawned balls
)

// Explosion animation
const (
	ExplosionLife      = 12 // Ticks
	ExplosionAnimCycle = 3  // Ticks per image
	ExplosionRadius    = BallRadius * 1.4
)

// Frame rate
const (
	TargetFPS       = 60
	TargetFrameTime = time.Second / TargetFPS
)

// Terminal rendering
const (
	MaxTermWidth  = 160 // Columns; larger terminals get a centered render area
	MaxTermHeight = 80  // Rows
)

// Servers
const (
	SessionIdleTimeout = 5 * time.Minute // SSH sessions without input are closed
	StreamRestartTicks = 3 * TargetFPS   // Shared web world restarts this long after the last collision is possible
	ShutdownTimeout    = 10 * time.Second
)
