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
	"sync/atomic"

	"fox-spl/display/theme"

	"github.com/gdamore/tcell/v2"
)

// Button toggles a boolean on every press. A disabled button ignores presses
// but keeps its state; whoever disables it decides what the state should be.
type Button struct {
	Pane

	theme    theme.Theme
	label    string
	state    atomic.Bool
	disabled atomic.Bool
	callback func(state bool)
}

func NewButton(t theme.Theme, label string, callback func(state bool)) *Button {
	return &Button{
		theme:    t,
		label:    label,
		callback: callback,
	}
}

func (button *Button) Label() string {
	return button.label
}

func (button *Button) State() bool {
	return button.state.Load()
}

// SetState changes the state without calling back
func (button *Button) SetState(state bool) {
	if button.state.Swap(state) != state {
		button.Invalidate()
	}
}

func (button *Button) Disabled() bool {
	return button.disabled.Load()
}

func (button *Button) SetDisabled(disabled bool) {
	if button.disabled.Swap(disabled) != disabled {
		button.Invalidate()
	}
}

// OnToggle replaces the callback. Only call this before the loop starts.
func (button *Button) OnToggle(callback func(state bool)) {
	button.callback = callback
}

func (button *Button) Event(ev Event) {
	if ev.Type != EventPress || button.Disabled() {
		return
	}

	state := !button.state.Load()
	button.state.Store(state)
	button.Invalidate()

	if button.callback != nil {
		button.callback(state)
	}
}

func (button *Button) Draw(canvas *Canvas) {
	background := button.theme.ButtonInactive
	switch {
	case button.Disabled():
		background = button.theme.ButtonDisabled
	case button.State():
		background = button.theme.ButtonActive
	}

	width, height := canvas.Size()
	style := button.theme.Style(button.theme.Foreground, background)

	canvas.Fill(' ', style)

	// bevel along the top and bottom edges when there is room for it
	if height >= 3 {
		edge := button.theme.Style(button.theme.BorderLight, background)
		shadow := button.theme.Style(button.theme.Border, background)

		for x := 0; x < width; x++ {
			canvas.Set(x, 0, theme.RuneUpperHalf, edge)
			canvas.Set(x, height-1, theme.RuneLowerHalf, shadow)
		}
	}

	canvas.CenteredText(height/2, button.label, style.Attributes(tcell.AttrBold))
}
