package loop

import (
	"errors"
	"fmt"

	"github.com/tomz197/bounce/internal/loop/config"
	"github.com/tomz197/bounce/internal/object"
	"github.com/tomz197/bounce/internal/physics"
)

// ErrSpawnExhausted is returned when no free position is left for another ball.
var ErrSpawnExhausted = errors.New("spawn positions exhausted")

// SpawnCenters picks n ball centers inside arena so that no two balls of the
// given radius overlap and every ball keeps config.SpawnWallGap from the walls.
// Candidates lie on a grid; each pick removes every candidate closer than one
// diameter plus config.SpawnGap.
func SpawnCenters(arena physics.Rect, radius float64, n int, rng object.RandSource) ([]physics.Vec2, error) {
	pool := spawnPool(arena.Inset(radius+config.SpawnWallGap), config.SpawnGridStep)
	minDist := 2*radius + config.SpawnGap
	minDistSq := minDist * minDist

	centers := make([]physics.Vec2, 0, n)
	for len(centers) < n {
		if len(pool) == 0 {
			return centers, fmt.Errorf("placed %d of %d balls: %w", len(centers), n, ErrSpawnExhausted)
		}
		pick := pool[rng.IntN(len(pool))]
		centers = append(centers, pick)

		kept := pool[:0] // reuse backing array
		for _, p := range pool {
			if physics.DistanceSquared(p.X, p.Y, pick.X, pick.Y) >= minDistSq {
				kept = append(kept, p)
			}
		}
		pool = kept
	}
	return centers, nil
}

// spawnPool lists grid points covering area, edges included.
func spawnPool(area physics.Rect, step float64) []physics.Vec2 {
	if area.Width < 0 || area.Height < 0 {
		return nil
	}
	cols := int(area.Width/step) + 1
	rows := int(area.Height/step) + 1
	pool := make([]physics.Vec2, 0, cols*rows)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			pool = append(pool, physics.V(area.X+float64(c)*step, area.Y+float64(r)*step))
		}
	}
	return pool
}
