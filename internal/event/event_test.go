package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/bounce/internal/physics"
)

func TestQueueFlushPreservesOrderAndEmpties(t *testing.T) {
	var q Queue
	q.Emit(Event{Kind: Reflect, BodyID: 1})
	q.Emit(Event{Kind: Bounce, BodyID: 2})
	q.Emit(Event{Kind: Explosion, BodyID: 3, Position: physics.V(10, 20)})
	require.Equal(t, 3, q.Len())

	var got []Event
	q.Flush(SinkFunc(func(e Event) { got = append(got, e) }))

	require.Len(t, got, 3)
	assert.Equal(t, []Kind{Reflect, Bounce, Explosion}, []Kind{got[0].Kind, got[1].Kind, got[2].Kind})
	assert.Equal(t, physics.V(10, 20), got[2].Position)
	assert.Zero(t, q.Len())

	q.Flush(SinkFunc(func(Event) { t.Fatal("empty queue delivered an event") }))
}

func TestBusFansOut(t *testing.T) {
	var b Bus
	var first, second int
	b.Subscribe(SinkFunc(func(Event) { first++ }))
	b.Subscribe(SinkFunc(func(Event) { second++ }))
	b.Subscribe(nil)

	b.Emit(Event{Kind: Bounce})
	b.Emit(Event{Kind: Reflect})

	assert.Equal(t, 2, first)
	assert.Equal(t, 2, second)
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "bounce", Bounce.String())
	assert.Equal(t, "reflect", Reflect.String())
	assert.Equal(t, "explosion", Explosion.String())
	assert.Equal(t, "unknown", Kind(0).String())
}

func TestDiscardAcceptsEvents(t *testing.T) {
	assert.NotPanics(t, func() { Discard.Emit(Event{Kind: Bounce}) })
}
