// Package event carries side effects out of the simulation to its
// collaborators (audio, animation, viewers) without the physics code
// depending on any of them.
package event

import (
	"github.com/tomz197/bounce/internal/physics"
)

// Kind identifies what happened.
type Kind uint8

const (
	Bounce    Kind = iota + 1 // Body bounced off another body
	Reflect                   // Body reflected off an arena wall
	Explosion                 // Body died; an explosion was requested at its position
)

func (k Kind) String() string {
	switch k {
	case Bounce:
		return "bounce"
	case Reflect:
		return "reflect"
	case Explosion:
		return "explosion"
	default:
		return "unknown"
	}
}

// Event is a single notification emitted during a tick.
type Event struct {
	Kind     Kind
	Tick     uint64
	BodyID   int
	Position physics.Vec2
	SoundOn  bool // Sound flag of the body at emission time
}

// Sink receives events. Implementations must not block: the simulation
// never waits for a collaborator.
type Sink interface {
	Emit(e Event)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(e Event)

// Emit calls f(e).
func (f SinkFunc) Emit(e Event) {
	f(e)
}

// Discard is a Sink that drops everything.
var Discard Sink = SinkFunc(func(Event) {})
