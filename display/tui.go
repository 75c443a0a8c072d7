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
	"log/slog"
	"sync"
	"sync/atomic"
)

// Tui runs the widget tree on a terminal
type Tui struct {
	screen Screen
	root   *RootWindow
	vu     *VUMeter

	started  atomic.Bool
	finiOnce sync.Once
}

//
// constructor
//

func NewTui(screen Screen, root *RootWindow, vu *VUMeter) *Tui {
	return &Tui{
		screen: screen,
		root:   root,
		vu:     vu,
	}
}

//
// lifecycle managment
//

// Run blocks in the frame loop and releases the terminal when it ends
func (tui *Tui) Run() {
	tui.started.Store(true)
	defer tui.fini()

	tui.root.Mainloop()
	slog.Info("Display closed")
}

// Shutdown stops the frame loop. If the loop never ran the terminal is
// released here instead.
func (tui *Tui) Shutdown() {
	tui.root.Stop()

	if !tui.started.Load() {
		tui.fini()
	}
}

func (tui *Tui) fini() {
	tui.finiOnce.Do(tui.screen.Fini)
}

func (tui *Tui) IncrementErrorCount() {
	if tui.vu != nil {
		tui.vu.IncrementErrorCount()
	}
}

// WriteLevelLog is a no-op, the screen has no room for a log and the log
// file already has everything
func (tui *Tui) WriteLevelLog(level slog.Level, message string) {}
