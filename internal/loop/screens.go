package loop

import (
	"fmt"

	"github.com/tomz197/bounce/internal/draw"
	"github.com/tomz197/bounce/internal/object"
)

const controlsHelp = "a labels  p pause  e explosions  s sound  t music  x end run  q quit"

// drawFrame clears the screen and draws the canvas, the overlay and the UI.
func (s *Session) drawFrame() error {
	f := s.frame
	draw.ClearScreen(f)
	s.canvas.Clear()

	if s.world != nil && s.scene != SceneTitle {
		ctx := object.DrawContext{
			Canvas: s.canvas,
			Text:   s.overlay,
		}
		for _, b := range s.world.Balls {
			if err := b.Draw(ctx); err != nil {
				return err
			}
		}
		for _, obj := range s.effects {
			if err := obj.Draw(ctx); err != nil {
				return err
			}
		}
	}

	// Render canvas, then text on top of it
	if err := s.canvas.Render(f); err != nil {
		return err
	}
	if err := s.canvas.RenderBorder(f); err != nil {
		return err
	}
	if err := s.overlay.Flush(); err != nil {
		return err
	}

	s.drawUI()
	return f.Flush()
}

// drawUI draws the text of the current scene in terminal coordinates.
func (s *Session) drawUI() {
	centerX := s.termW / 2
	centerY := s.termH / 2

	if s.idle {
		s.drawIdleWarning(centerX, centerY)
		return
	}

	switch s.scene {
	case SceneTitle:
		s.drawTitleScreen(centerX, centerY)
	case SceneRunning:
		s.drawRunningHUD()
	case SceneSummary:
		s.drawSummaryScreen(centerX, centerY)
	}
}

// drawTitleScreen draws the title screen.
func (s *Session) drawTitleScreen(centerX, centerY int) {
	s.frame.WriteCentered(centerX, centerY-2, "B O U N C E")
	s.frame.WriteCentered(centerX, centerY+1, "Press any key to start")
	s.frame.WriteCentered(centerX, centerY+4, controlsHelp)
}

// drawRunningHUD draws the status line above the arena.
func (s *Session) drawRunningHUD() {
	w := s.world
	left := fmt.Sprintf("tick %d  alive %d/%d", w.Tick, w.Live(), len(w.Balls))
	s.frame.WriteAt(2, 1, left)

	right := fmt.Sprintf("sound %s  labels %s  explosions %s  music %s  %s",
		onOff(s.sound), onOff(s.labels), onOff(s.explosions), onOff(s.music), w.Policy)
	col := s.termW - len(right)
	if col > len(left)+3 {
		s.frame.WriteAt(col, 1, right)
	}

	if w.Paused {
		s.frame.WriteCentered(s.termW/2, s.termH/2, "PAUSED")
	}
}

// drawSummaryScreen draws the results of the run that just ended.
func (s *Session) drawSummaryScreen(centerX, centerY int) {
	w := s.world
	s.frame.WriteCentered(centerX, centerY-3, "RUN OVER")
	s.frame.WriteCentered(centerX, centerY-1, fmt.Sprintf("Survivors: %d of %d", w.Live(), len(w.Balls)))
	s.frame.WriteCentered(centerX, centerY, fmt.Sprintf("Ticks: %d", w.Tick))
	s.frame.WriteCentered(centerX, centerY+1, fmt.Sprintf("Run: %s", w.ID))
	s.frame.WriteCentered(centerX, centerY+3, "Press SPACE for another run, Q to quit")
}

// drawIdleWarning draws the inactivity warning.
func (s *Session) drawIdleWarning(centerX, centerY int) {
	s.frame.WriteCentered(centerX, centerY-1, "Still there?")
	s.frame.WriteCentered(centerX, centerY+1, "Press any key or you will be disconnected")
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}
