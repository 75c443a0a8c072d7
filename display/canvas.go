// =================================================================================
//
//			fox-spl - https://www.foxhollow.cc/projects/fox-spl/
//
//		 Fox SPL is a touchscreen sound level meter that watches one or two
//	  audio inputs and flags material that is too quiet or too loud
//
//		 Copyright (c) 2024 Steve Cross <flip@foxhollow.cc>
//
//			Licensed under the Apache License, Version 2.0 (the "License");
//			you may not use this file except in compliance with the License.
//			You may obtain a copy of the License at
//
//			     http://www.apache.org/licenses/LICENSE-2.0
//
//			Unless required by applicable law or agreed to in writing, software
//			distributed under the License is distributed on an "AS IS" BASIS,
//			WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
//			See the License for the specific language governing permissions and
//			limitations under the License.
//
// =================================================================================
package display

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// Target is anything cells can be drawn onto. tcell.Screen satisfies it, as
// does Canvas.
type Target interface {
	SetContent(x, y int, primary rune, combining []rune, style tcell.Style)
	Size() (width, height int)
}

type cell struct {
	r     rune
	style tcell.Style
	set   bool
}

// Canvas is an off screen block of cells owned by a single widget. Cells that
// were never written are transparent when blitted.
type Canvas struct {
	width  int
	height int
	cells  []cell
}

func NewCanvas(width, height int) *Canvas {
	canvas := &Canvas{}
	canvas.Resize(width, height)

	return canvas
}

func (canvas *Canvas) Size() (int, int) {
	return canvas.width, canvas.height
}

// Resize reallocates the canvas when the dimensions change, reporting
// whether they did. The content is discarded.
func (canvas *Canvas) Resize(width, height int) bool {
	width = max(width, 0)
	height = max(height, 0)

	if canvas.cells != nil && width == canvas.width && height == canvas.height {
		return false
	}

	canvas.width = width
	canvas.height = height
	canvas.cells = make([]cell, width*height)

	return true
}

func (canvas *Canvas) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < canvas.width && y < canvas.height
}

func (canvas *Canvas) SetContent(x, y int, primary rune, combining []rune, style tcell.Style) {
	canvas.Set(x, y, primary, style)
}

func (canvas *Canvas) Set(x, y int, r rune, style tcell.Style) {
	if !canvas.inside(x, y) {
		return
	}

	canvas.cells[y*canvas.width+x] = cell{r: r, style: style, set: true}
}

// Cell returns the rune and style at x,y. Unwritten cells read as a blank.
func (canvas *Canvas) Cell(x, y int) (rune, tcell.Style) {
	if !canvas.inside(x, y) {
		return ' ', tcell.StyleDefault
	}

	c := canvas.cells[y*canvas.width+x]
	if !c.set {
		return ' ', tcell.StyleDefault
	}

	return c.r, c.style
}

// Overlay draws r in the given colour while keeping whatever background the
// cell already has
func (canvas *Canvas) Overlay(x, y int, r rune, foreground tcell.Color) {
	_, style := canvas.Cell(x, y)
	canvas.Set(x, y, r, style.Foreground(foreground))
}

// Clear makes every cell transparent
func (canvas *Canvas) Clear() {
	clear(canvas.cells)
}

func (canvas *Canvas) Fill(r rune, style tcell.Style) {
	canvas.FillRect(0, 0, canvas.width, canvas.height, r, style)
}

func (canvas *Canvas) FillRect(x, y, width, height int, r rune, style tcell.Style) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+width, canvas.width), min(y+height, canvas.height)

	for row := y0; row < y1; row++ {
		for col := x0; col < x1; col++ {
			canvas.cells[row*canvas.width+col] = cell{r: r, style: style, set: true}
		}
	}
}

// Text writes a single line starting at x,y and returns the number of
// columns used. Text running off the right edge is dropped.
func (canvas *Canvas) Text(x, y int, text string, style tcell.Style) int {
	col := x

	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}

		if col+w > canvas.width {
			break
		}

		canvas.Set(col, y, r, style)

		// the second half of a wide rune is covered by the terminal
		for extra := 1; extra < w; extra++ {
			if canvas.inside(col+extra, y) {
				canvas.cells[y*canvas.width+col+extra] = cell{}
			}
		}

		col += w
	}

	return col - x
}

// CenteredText writes text centred on row y, truncating it to the width
func (canvas *Canvas) CenteredText(y int, text string, style tcell.Style) {
	text = runewidth.Truncate(text, canvas.width, "")
	x := (canvas.width - runewidth.StringWidth(text)) / 2

	canvas.Text(x, y, text, style)
}

// Blit copies every written cell onto dst with the canvas' top left corner
// at x,y, clipped to dst
func (canvas *Canvas) Blit(dst Target, x, y int) {
	dstWidth, dstHeight := dst.Size()

	for row := 0; row < canvas.height; row++ {
		ty := y + row
		if ty < 0 || ty >= dstHeight {
			continue
		}

		for col := 0; col < canvas.width; col++ {
			tx := x + col
			if tx < 0 || tx >= dstWidth {
				continue
			}

			c := canvas.cells[row*canvas.width+col]
			if !c.set {
				continue
			}

			dst.SetContent(tx, ty, c.r, nil, c.style)
		}
	}
}
