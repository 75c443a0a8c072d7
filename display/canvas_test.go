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
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
)

func TestCanvasClipsWrites(t *testing.T) {
	canvas := NewCanvas(4, 2)

	canvas.Set(-1, 0, 'a', tcell.StyleDefault)
	canvas.Set(4, 1, 'a', tcell.StyleDefault)
	canvas.FillRect(2, 1, 10, 10, 'b', tcell.StyleDefault)

	r, _ := canvas.Cell(3, 1)
	assert.Equal(t, 'b', r)

	r, _ = canvas.Cell(1, 1)
	assert.Equal(t, ' ', r)
}

func TestCanvasResizeReportsChange(t *testing.T) {
	canvas := NewCanvas(3, 3)

	assert.False(t, canvas.Resize(3, 3))
	assert.True(t, canvas.Resize(5, 2))

	width, height := canvas.Size()
	assert.Equal(t, 5, width)
	assert.Equal(t, 2, height)

	assert.True(t, canvas.Resize(-4, 2))
	width, _ = canvas.Size()
	assert.Zero(t, width)
}

func TestCanvasBlitSkipsUnwrittenCells(t *testing.T) {
	dst := NewCanvas(6, 3)
	dst.Fill('z', tcell.StyleDefault)

	src := NewCanvas(3, 2)
	src.Set(0, 0, 'a', tcell.StyleDefault)
	src.Set(2, 1, 'b', tcell.StyleDefault)

	src.Blit(dst, 4, 1)

	r, _ := dst.Cell(4, 1)
	assert.Equal(t, 'a', r)

	r, _ = dst.Cell(5, 1)
	assert.Equal(t, 'z', r)

	// (6,2) is off the edge of dst
	r, _ = dst.Cell(5, 2)
	assert.Equal(t, 'z', r)
}

func TestCanvasText(t *testing.T) {
	canvas := NewCanvas(6, 1)

	used := canvas.Text(0, 0, "日本x", tcell.StyleDefault)
	assert.Equal(t, 5, used)

	r, _ := canvas.Cell(2, 0)
	assert.Equal(t, '本', r)

	r, _ = canvas.Cell(4, 0)
	assert.Equal(t, 'x', r)

	canvas.Clear()
	used = canvas.Text(3, 0, "abcdef", tcell.StyleDefault)
	assert.Equal(t, 3, used)
}

func TestCanvasCenteredText(t *testing.T) {
	canvas := NewCanvas(10, 1)
	canvas.CenteredText(0, "SPLIT", tcell.StyleDefault)

	r, _ := canvas.Cell(2, 0)
	assert.Equal(t, 'S', r)

	canvas = NewCanvas(3, 1)
	canvas.CenteredText(0, "SPEECH", tcell.StyleDefault)

	r, _ = canvas.Cell(0, 0)
	assert.Equal(t, 'S', r)
	r, _ = canvas.Cell(2, 0)
	assert.Equal(t, 'E', r)
}

func TestCanvasOverlayKeepsBackground(t *testing.T) {
	canvas := NewCanvas(1, 1)
	canvas.Fill(' ', tcell.StyleDefault.Background(tcell.ColorNavy))

	canvas.Overlay(0, 0, '-', tcell.ColorWhite)

	r, style := canvas.Cell(0, 0)
	fg, bg, _ := style.Decompose()

	assert.Equal(t, '-', r)
	assert.Equal(t, tcell.ColorWhite, fg)
	assert.Equal(t, tcell.ColorNavy, bg)
}
