package audio

import (
	"testing"
	"time"

	"github.com/gopxl/beep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/bounce/internal/event"
)

// drain streams s to the end and returns the number of samples produced.
func drain(t *testing.T, s beep.Streamer, limit int) int {
	t.Helper()
	buf := make([][2]float64, 512)
	total := 0
	for total < limit {
		n, ok := s.Stream(buf)
		for i := 0; i < n; i++ {
			require.GreaterOrEqual(t, buf[i][0], -1.0)
			require.LessOrEqual(t, buf[i][0], 1.0)
		}
		total += n
		if !ok {
			break
		}
	}
	return total
}

func TestSweepLength(t *testing.T) {
	s := newSweep(300, 150, 100*time.Millisecond, 4, sampleRate)
	assert.Equal(t, sampleRate.N(100*time.Millisecond), drain(t, s, 1<<20))

	n, ok := s.Stream(make([][2]float64, 16))
	assert.Zero(t, n)
	assert.False(t, ok)
	assert.NoError(t, s.Err())
}

func TestNoiseBurstLength(t *testing.T) {
	b := newNoiseBurst(popDuration, 7, sampleRate)
	assert.Equal(t, sampleRate.N(popDuration), drain(t, b, 1<<20))
}

func TestDroneNeverEnds(t *testing.T) {
	d := &drone{rate: sampleRate}
	assert.Equal(t, 1<<16, drain(t, d, 1<<16))
}

func TestSoundFor(t *testing.T) {
	for _, k := range []event.Kind{event.Bounce, event.Reflect, event.Explosion} {
		s := soundFor(event.Event{Kind: k, BodyID: 3}, sampleRate)
		require.NotNil(t, s, k.String())
		assert.Positive(t, drain(t, s, 1<<20))
	}
	assert.Nil(t, soundFor(event.Event{Kind: event.Kind(99)}, sampleRate))
}

func TestPlayerIgnoresEventsBeforeInitialize(t *testing.T) {
	p := NewPlayer(nil)
	p.Emit(event.Event{Kind: event.Bounce, SoundOn: true})
	assert.Equal(t, 1, p.Playing())
	assert.Zero(t, p.Dropped())
	p.Close()
}

func TestPlayerPlaysQueuedEvents(t *testing.T) {
	p := NewPlayer(nil)
	p.mu.Lock()
	p.start()
	p.mu.Unlock()
	defer p.Close()

	p.Emit(event.Event{Kind: event.Bounce, SoundOn: false})
	p.Emit(event.Event{Kind: event.Reflect, SoundOn: true})
	require.Eventually(t, func() bool { return p.Playing() == 2 },
		time.Second, 5*time.Millisecond)

	// Stream past the end of the chirp; only the soundtrack remains.
	drain(t, p.mixer, sampleRate.N(200*time.Millisecond))
	assert.Equal(t, 1, p.Playing())
}

func TestPlayerDropsWhenQueueFull(t *testing.T) {
	p := NewPlayer(nil)
	p.queue = make(chan event.Event, queueSize)
	p.initialized = true

	for i := 0; i < queueSize+5; i++ {
		p.Emit(event.Event{Kind: event.Bounce, SoundOn: true})
	}
	assert.Equal(t, 5, p.Dropped())
}

func TestToggleMusic(t *testing.T) {
	p := NewPlayer(nil)
	assert.True(t, p.music.Paused)
	assert.True(t, p.ToggleMusic())
	assert.False(t, p.ToggleMusic())
}
