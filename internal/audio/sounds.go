package audio

import (
	"math"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"

	"github.com/tomz197/bounce/internal/event"
)

const sampleRate = beep.SampleRate(44100)

const (
	boingDuration = 140 * time.Millisecond
	chirpDuration = 60 * time.Millisecond
	popDuration   = 250 * time.Millisecond
)

// sweep is a sine tone gliding from one frequency to another while its
// amplitude decays exponentially.
type sweep struct {
	from, to float64
	decay    float64 // Amplitude falls by e^-decay over the whole tone
	phase    float64
	pos      int
	total    int
	rate     beep.SampleRate
}

func newSweep(from, to float64, d time.Duration, decay float64, rate beep.SampleRate) *sweep {
	return &sweep{from: from, to: to, decay: decay, total: rate.N(d), rate: rate}
}

func (s *sweep) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if s.pos >= s.total {
			return i, i > 0
		}
		progress := float64(s.pos) / float64(s.total)
		freq := s.from + (s.to-s.from)*progress
		val := math.Exp(-s.decay*progress) * math.Sin(2*math.Pi*s.phase)

		samples[i][0] = val
		samples[i][1] = val

		s.phase += freq / float64(s.rate)
		s.phase -= math.Floor(s.phase)
		s.pos++
	}
	return len(samples), true
}

func (s *sweep) Err() error { return nil }

// noiseBurst is decaying noise mixed with a low rumble.
type noiseBurst struct {
	seed  uint32
	pos   int
	total int
	rate  beep.SampleRate
}

func newNoiseBurst(d time.Duration, seed uint32, rate beep.SampleRate) *noiseBurst {
	return &noiseBurst{seed: seed | 1, total: rate.N(d), rate: rate}
}

func (b *noiseBurst) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		if b.pos >= b.total {
			return i, i > 0
		}
		t := float64(b.pos) / float64(b.rate)

		// xorshift32
		b.seed ^= b.seed << 13
		b.seed ^= b.seed >> 17
		b.seed ^= b.seed << 5
		noise := float64(b.seed)/float64(math.MaxUint32)*2 - 1

		val := math.Exp(-t*10) * (0.6*noise + 0.4*math.Sin(2*math.Pi*70*t))
		samples[i][0] = val
		samples[i][1] = val
		b.pos++
	}
	return len(samples), true
}

func (b *noiseBurst) Err() error { return nil }

// drone is the endless soundtrack: two detuned low sines with a slow swell.
type drone struct {
	pos  int
	rate beep.SampleRate
}

func (d *drone) Stream(samples [][2]float64) (n int, ok bool) {
	for i := range samples {
		t := float64(d.pos) / float64(d.rate)
		swell := 0.6 + 0.4*math.Sin(2*math.Pi*0.125*t)
		left := math.Sin(2*math.Pi*55*t) + 0.5*math.Sin(2*math.Pi*82.5*t)
		right := math.Sin(2*math.Pi*55.4*t) + 0.5*math.Sin(2*math.Pi*82.5*t)
		samples[i][0] = swell * left / 1.5
		samples[i][1] = swell * right / 1.5
		d.pos++
	}
	return len(samples), true
}

func (d *drone) Err() error { return nil }

// withVolume scales a streamer linearly; vol <= 0 is silent.
func withVolume(s beep.Streamer, vol float64) beep.Streamer {
	if vol <= 0 {
		return &effects.Volume{Streamer: s, Base: 2, Silent: true}
	}
	return &effects.Volume{Streamer: s, Base: 2, Volume: math.Log2(vol)}
}

// soundFor returns the sound of an event, or nil if the kind is silent.
func soundFor(e event.Event, rate beep.SampleRate) beep.Streamer {
	switch e.Kind {
	case event.Bounce:
		return withVolume(newSweep(320, 140, boingDuration, 4, rate), 0.35)
	case event.Reflect:
		return withVolume(newSweep(700, 1050, chirpDuration, 3, rate), 0.2)
	case event.Explosion:
		return withVolume(newNoiseBurst(popDuration, uint32(e.BodyID)*2654435761, rate), 0.4)
	default:
		return nil
	}
}
