// Package audio plays simulation events through the speaker and owns the
// soundtrack.
package audio

import (
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/bounce/internal/event"
)

const queueSize = 64

// Player turns events into sounds. Emit never blocks: events are dropped
// when the queue is full or the speaker has not been initialized.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	music       *beep.Ctrl
	queue       chan event.Event
	done        chan struct{}
	wg          sync.WaitGroup
	initialized bool
	dropped     int
	logger      *log.Logger
}

var _ event.Sink = (*Player)(nil)

// NewPlayer creates a silent player. Call Initialize to open the speaker.
func NewPlayer(logger *log.Logger) *Player {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	mixer := &beep.Mixer{}
	music := &beep.Ctrl{Streamer: withVolume(&drone{rate: sampleRate}, 0.08), Paused: true}
	mixer.Add(music)
	return &Player{
		mixer:  mixer,
		music:  music,
		logger: logger,
	}
}

// Initialize opens the speaker and starts playing queued events.
func (p *Player) Initialize() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}
	if err := speaker.Init(sampleRate, sampleRate.N(50*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(p.mixer)
	p.start()
	return nil
}

// start launches the worker that feeds the mixer. Callers hold p.mu.
func (p *Player) start() {
	p.queue = make(chan event.Event, queueSize)
	p.done = make(chan struct{})
	p.initialized = true

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		for {
			select {
			case <-p.done:
				return
			case e := <-p.queue:
				p.play(e)
			}
		}
	}()
}

// Emit queues the sound of e if the ball that raised it has sound enabled.
func (p *Player) Emit(e event.Event) {
	if !e.SoundOn {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}
	select {
	case p.queue <- e:
	default:
		p.dropped++
		if p.dropped%100 == 1 {
			p.logger.Debug("audio queue full, dropping", "dropped", p.dropped)
		}
	}
}

func (p *Player) play(e event.Event) {
	s := soundFor(e, sampleRate)
	if s == nil {
		return
	}
	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

// ToggleMusic starts or stops the soundtrack and reports whether it plays.
func (p *Player) ToggleMusic() bool {
	speaker.Lock()
	defer speaker.Unlock()
	p.music.Paused = !p.music.Paused
	return !p.music.Paused
}

// Playing returns the number of sounds in the mixer, soundtrack included.
func (p *Player) Playing() int {
	speaker.Lock()
	defer speaker.Unlock()
	return p.mixer.Len()
}

// Dropped returns the number of events dropped because the queue was full.
func (p *Player) Dropped() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dropped
}

// Close stops the worker and silences the player for good.
func (p *Player) Close() {
	p.mu.Lock()
	if !p.initialized {
		p.mu.Unlock()
		return
	}
	p.initialized = false
	close(p.done)
	p.mu.Unlock()

	p.wg.Wait()
	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
}
