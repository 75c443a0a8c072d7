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
	"strings"

	"fox-spl/display/theme"

	"code.rocketnine.space/tslocum/cview"
	"github.com/gdamore/tcell/v2"
)

const dismissHint = "Tap anywhere to continue"

// MessageBox is a one shot modal. It is meant to be added straight to the
// root window and goes away on the next press or key.
type MessageBox struct {
	Pane

	theme   theme.Theme
	message string
}

func NewMessageBox(t theme.Theme, message string) *MessageBox {
	return &MessageBox{
		theme:   t,
		message: message,
	}
}

func (box *MessageBox) Message() string {
	return box.message
}

func (box *MessageBox) Event(ev Event) {
	if ev.Type == EventPress || ev.Type == EventKey {
		box.detach(box)
	}
}

// lines wraps the message to width, keeping the explicit line breaks
func (box *MessageBox) lines(width int) []string {
	lines := make([]string, 0)

	for _, paragraph := range strings.Split(box.message, "\n") {
		if paragraph == "" {
			lines = append(lines, "")
			continue
		}

		lines = append(lines, cview.WordWrap(paragraph, width)...)
	}

	return append(lines, "", dismissHint)
}

func (box *MessageBox) Draw(canvas *Canvas) {
	width, height := canvas.Size()
	t := box.theme

	// the margin is left transparent so the meter shows around the box
	canvas.Clear()

	x, y := 2, 1
	boxWidth, boxHeight := width-4, height-2
	if boxWidth < 3 || boxHeight < 3 {
		x, y, boxWidth, boxHeight = 0, 0, width, height
	}

	canvas.FillRect(x, y, boxWidth, boxHeight, ' ', t.Style(t.Foreground, t.BackgroundDark))
	canvas.FillRect(x+1, y+1, boxWidth-2, boxHeight-2, ' ', t.Style(t.Foreground, t.Background))

	lines := box.lines(max(boxWidth-4, 1))
	top := y + (boxHeight-len(lines))/2

	for i, line := range lines {
		style := t.Style(t.Foreground, t.Background)
		if line == dismissHint && i == len(lines)-1 {
			style = t.Style(t.Text, t.Background).Attributes(tcell.AttrItalic)
		}

		canvas.CenteredText(top+i, line, style)
	}
}
