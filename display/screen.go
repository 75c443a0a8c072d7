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
	"fox-spl/util"

	"github.com/gdamore/tcell/v2"
)

// Screen is the part of tcell.Screen the root window drives
type Screen interface {
	Target
	Clear()
	Show()
	Sync()
	Fini()
	ChannelEvents(ch chan<- tcell.Event, quit <-chan struct{})
}

// NewTerminalScreen opens the controlling terminal. On a touch panel the
// cursor is hidden and the mouse reports presses.
func NewTerminalScreen(touch bool, background tcell.Style) (tcell.Screen, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, util.WrapError("create screen", err)
	}

	if err := screen.Init(); err != nil {
		return nil, util.WrapError("initialize screen", err)
	}

	screen.SetStyle(background)
	screen.EnableMouse(tcell.MouseButtonEvents)
	screen.HideCursor()

	if touch {
		screen.DisablePaste()
	}

	return screen, nil
}
