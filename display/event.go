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
)

type EventType int8

const (
	EventQuit EventType = iota
	EventResize
	EventPress
	EventKey
)

func (t EventType) String() string {
	switch t {
	case EventQuit:
		return "quit"
	case EventResize:
		return "resize"
	case EventPress:
		return "press"
	case EventKey:
		return "key"
	}
	return "unknown"
}

// Event is what travels down the widget tree. Only presses carry a screen
// position.
type Event struct {
	Type EventType
	X    int
	Y    int
	Key  tcell.Key
	Rune rune
}

func Press(x, y int) Event {
	return Event{Type: EventPress, X: x, Y: y}
}

func (ev Event) Positional() bool {
	return ev.Type == EventPress
}

// Within reports whether a positional event falls inside the rectangle
func (ev Event) Within(x, y, width, height int) bool {
	return ev.X >= x && ev.X < x+width && ev.Y >= y && ev.Y < y+height
}

// Translator turns raw tcell events into Events. It remembers which mouse
// buttons were down so that a held button or a drag produces a single press.
type Translator struct {
	buttons tcell.ButtonMask
}

func (t *Translator) Translate(raw tcell.Event) (Event, bool) {
	switch ev := raw.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC || ev.Key() == tcell.KeyEscape {
			return Event{Type: EventQuit}, true
		}

		if ev.Key() == tcell.KeyRune && (ev.Rune() == 'q' || ev.Rune() == 'Q') {
			return Event{Type: EventQuit}, true
		}

		return Event{Type: EventKey, Key: ev.Key(), Rune: ev.Rune()}, true

	case *tcell.EventResize:
		return Event{Type: EventResize}, true

	case *tcell.EventMouse:
		buttons := ev.Buttons()
		pressed := buttons&tcell.Button1 != 0 && t.buttons&tcell.Button1 == 0
		t.buttons = buttons

		if pressed {
			x, y := ev.Position()
			return Press(x, y), true
		}
	}

	return Event{}, false
}
