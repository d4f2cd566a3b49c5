package object

import "github.com/tomz197/bounce/internal/draw"

// Label is a text overlay. Col and Row are 1-based canvas positions; the
// chunk writer applies the canvas offset.
type Label struct {
	Col      int
	Row      int
	Value    string
	Centered bool        // Center Value on Col instead of starting there
	Style    *draw.Style // Optional colors; nil writes plain text
}

// Draw writes the label to the text overlay.
func (l Label) Draw(ctx DrawContext) error {
	if l.Value == "" || ctx.Text == nil {
		return nil
	}
	col, row := l.Col, l.Row
	if row < 1 {
		row = 1
	}
	if l.Centered {
		col = draw.CenteredCol(col, l.Value)
	}
	col = max(col, 1)
	if l.Style != nil {
		ctx.Text.WriteStyled(col, row, *l.Style, l.Value)
		return nil
	}
	ctx.Text.WriteAt(col, row, l.Value)
	return nil
}

// Update is a no-op for static text.
func (l Label) Update(ctx UpdateContext) (bool, error) {
	return false, nil
}
