package object

import (
	"github.com/tomz197/bounce/internal/draw"
	"github.com/tomz197/bounce/internal/event"
	"github.com/tomz197/bounce/internal/physics"
)

// UpdateContext provides everything an object needs during update.
type UpdateContext struct {
	Tick       uint64
	Arena      physics.Rect // Read-only; shared by every object in the world
	Events     event.Sink   // Receives side effects; may be nil
	Explosions bool         // Whether deaths request an explosion animation
}

// emit stamps e with the current tick and forwards it to the event sink.
func (ctx UpdateContext) emit(e event.Event) {
	if ctx.Events == nil {
		return
	}
	e.Tick = ctx.Tick
	ctx.Events.Emit(e)
}

// DrawContext provides drawing resources for objects.
type DrawContext struct {
	Canvas *draw.Canvas      // High-resolution canvas (2x vertical)
	Text   *draw.ChunkWriter // Text overlay, drawn after the canvas; may be nil
}

// Object is a drawable and updatable entity.
type Object interface {
	// Update updates the object state. Returns true if the object should be removed.
	Update(ctx UpdateContext) (remove bool, err error)

	// Draw draws the object. Use ctx.Canvas for shapes, ctx.Text for text.
	Draw(ctx DrawContext) error
}

// Releasable is implemented by pooled objects that can be returned to a pool.
type Releasable interface {
	// Release returns the object to its pool for reuse.
	Release()
}

// ReleaseObject releases an object back to its pool if it implements Releasable.
func ReleaseObject(obj Object) {
	if r, ok := obj.(Releasable); ok {
		r.Release()
	}
}
