package draw

import (
	"bytes"
	"strings"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var red = colorful.Color{R: 1}

func TestFillCircleCoversCenterAndStaysInside(t *testing.T) {
	// 1 logical unit per pixel on both axes
	c := NewScaledCanvas(40, 20, 40, 40)
	c.FillCircle(Point{X: 20, Y: 20}, 5, red)

	assert.True(t, c.IsSet(20, 20))
	assert.True(t, c.IsSet(17, 20))
	assert.False(t, c.IsSet(27, 20))
	assert.False(t, c.IsSet(20, 27))
}

func TestFillCircleTinyRadiusDrawsCenter(t *testing.T) {
	c := NewScaledCanvas(10, 5, 1000, 1000)
	c.FillCircle(Point{X: 500, Y: 500}, 1, red)
	assert.True(t, c.IsSet(5, 5))
}

func TestSetOutsideCanvasIsIgnored(t *testing.T) {
	c := NewScaledCanvas(10, 5, 10, 10)
	assert.NotPanics(t, func() {
		c.SetFloat(-5, -5, red)
		c.SetFloat(50, 50, red)
	})
	assert.False(t, c.IsSet(-5, -5))
}

func TestRenderEmitsColoredHalfBlocks(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	// Row 1: top half at col 2, full block at col 3, bottom half at col 4
	c.SetFloat(1, 0, red)
	c.SetFloat(2, 0, red)
	c.SetFloat(2, 1, red)
	c.SetFloat(3, 1, colorful.Color{B: 1})

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	out := buf.String()

	assert.Contains(t, out, "\033[1;2H\033[38;2;255;0;0m▀")
	assert.Contains(t, out, "\033[1;3H\033[38;2;255;0;0m█")
	assert.Contains(t, out, "\033[1;4H\033[38;2;0;0;255m▄")
	assert.Equal(t, 3, strings.Count(out, "\033[0m"))
}

func TestRenderMixedColorsUsesBackground(t *testing.T) {
	c := NewScaledCanvas(1, 1, 1, 2)
	c.SetFloat(0, 0, red)
	c.SetFloat(0, 1, colorful.Color{G: 1})

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Contains(t, buf.String(), "\033[38;2;255;0;0m\033[48;2;0;255;0m▀")
}

func TestClearRemovesPixels(t *testing.T) {
	c := NewScaledCanvas(4, 2, 4, 4)
	c.SetFloat(1, 1, red)
	c.Clear()

	var buf bytes.Buffer
	require.NoError(t, c.Render(&buf))
	assert.Empty(t, buf.String())
}

func TestResizeKeepsLogicalMapping(t *testing.T) {
	c := NewScaledCanvas(80, 24, 800, 800)
	c.Resize(160, 48)

	col, row := c.LogicalToTerminal(800, 800)
	assert.Equal(t, 161, col)
	assert.Equal(t, 49, row)
	assert.Equal(t, 800.0, c.LogicalWidth())
}

func TestChunkWriterOffsetsAndFlushes(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 2, 3)
	cw.WriteAt(1, 1, "hi")
	cw.WriteCentered(10, 2, "abcd")
	require.NoError(t, cw.Flush())

	assert.Equal(t, "\033[4;3Hhi\033[5;10Habcd", out.String())
	assert.Zero(t, cw.Len())
}

func TestChunkWriterStyledText(t *testing.T) {
	var out bytes.Buffer
	cw := NewChunkWriter(&out, 0, 0)
	cw.WriteStyled(3, 2, Style{FG: colorful.Color{R: 1}}, "a")
	cw.WriteStyled(1, 1, Style{BG: colorful.Color{B: 1}, HasBG: true}, "b")
	require.NoError(t, cw.Flush())

	assert.Equal(t, "\033[2;3H\033[38;2;255;0;0ma\033[0m"+
		"\033[1;1H\033[38;2;0;0;0m\033[48;2;0;0;255mb\033[0m", out.String())
	assert.Equal(t, 1, CenteredCol(2, "abcd"))
	assert.Equal(t, 8, CenteredCol(10, "abcd"))
}

type countingWriter struct {
	writes int
	bytes.Buffer
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.writes++
	return w.Buffer.Write(p)
}

func TestChunkWriterSplitsLargeFrames(t *testing.T) {
	var out countingWriter
	cw := NewChunkWriter(&out, 0, 0)
	big := strings.Repeat("x", maxChunkSize*3+7)
	cw.WriteString(big)
	require.NoError(t, cw.Flush())
	assert.Equal(t, big, out.String())
	assert.Equal(t, 4, out.writes)
	assert.Zero(t, cw.Len())
}

func TestRenderBorderNeedsOffset(t *testing.T) {
	c := NewScaledCanvas(3, 2, 3, 4)

	var none bytes.Buffer
	require.NoError(t, c.RenderBorder(&none))
	assert.Empty(t, none.String())

	c.SetOffset(1, 1)
	var framed bytes.Buffer
	require.NoError(t, c.RenderBorder(&framed))
	assert.Contains(t, framed.String(), "┌───┐")
	assert.Contains(t, framed.String(), "└───┘")
	assert.Equal(t, 4, strings.Count(framed.String(), "│"))
}
