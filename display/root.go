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
	"time"

	"github.com/gdamore/tcell/v2"
)

// RootWindow owns the screen and a stack of children drawn bottom to top. It
// runs the frame loop on the calling goroutine.
type RootWindow struct {
	Manager

	screen     Screen
	translator Translator
	background tcell.Style
	frame      time.Duration

	running  atomic.Bool
	stopped  atomic.Bool
	quitOnce sync.Once
	onQuit   func()
	events   chan tcell.Event
	stop     chan struct{}
}

func NewRootWindow(screen Screen, fps int, padding int, background tcell.Style) *RootWindow {
	root := &RootWindow{
		screen:     screen,
		background: background,
		frame:      time.Second / time.Duration(max(fps, 1)),
		events:     make(chan tcell.Event, 64),
		stop:       make(chan struct{}),
	}
	root.layout = root
	root.padding = padding

	return root
}

//
// Container, the root has no parent and is always visible
//

func (root *RootWindow) Parent() Container { return nil }

func (root *RootWindow) SetParent(Container) {}

func (root *RootWindow) Span() (int, int) { return 1, 1 }

func (root *RootWindow) SetSpan(int, int) {}

func (root *RootWindow) Visible() bool { return true }

func (root *RootWindow) SetVisible(bool) {}

func (root *RootWindow) RequestSize(child Placeable) (int, int) {
	return root.screen.Size()
}

func (root *RootWindow) RequestPosition(child Placeable) (int, int) {
	return 0, 0
}

func (root *RootWindow) Remove(child Placeable) {
	root.detach(child, root)
}

// AddChild pushes child on top of the stack. Anything that is not already a
// container gets wrapped in a SingleManager, which is returned.
func (root *RootWindow) AddChild(child Placeable) Container {
	container, ok := child.(Container)
	if !ok {
		container = NewSingleManager(child, root.padding)
	}

	root.attach(container, root)

	return container
}

// OnQuit registers the function called once when the loop is asked to stop
func (root *RootWindow) OnQuit(fn func()) {
	root.onQuit = fn
}

func (root *RootWindow) Running() bool {
	return root.running.Load()
}

//
// frame loop
//

// Draw paints the background then every child, and shows the result
func (root *RootWindow) Draw() {
	width, height := root.screen.Size()

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			root.screen.SetContent(x, y, ' ', nil, root.background)
		}
	}

	root.Render(root.screen, 0, 0)
	root.screen.Show()
}

// Dispatch handles quit and resize itself and passes those to every child.
// Any other event only goes to the topmost child.
func (root *RootWindow) Dispatch(ev Event) {
	children := root.Children()

	switch ev.Type {
	case EventQuit:
		root.Stop()
	case EventResize:
		root.screen.Sync()
	default:
		if len(children) > 0 {
			dispatch(children[len(children)-1], ev, 0, 0)
		}
		return
	}

	for _, child := range children {
		dispatch(child, ev, 0, 0)
	}
}

func (root *RootWindow) drain() {
	for {
		select {
		case raw, ok := <-root.events:
			// tcell closes the channel once the screen is stopped
			if !ok {
				return
			}

			if ev, ok := root.translator.Translate(raw); ok {
				root.Dispatch(ev)
			}
		default:
			return
		}
	}
}

// Mainloop renders, handles pending input and ticks at a fixed rate until
// Stop is called. This blocks.
func (root *RootWindow) Mainloop() {
	root.running.Store(true)
	defer root.running.Store(false)

	go root.screen.ChannelEvents(root.events, root.stop)

	slog.Debug("Display loop started", slog.Duration("frame", root.frame))

	next := time.Now()

	for !root.stopped.Load() {
		root.Draw()
		root.drain()
		root.Tick()

		next = next.Add(root.frame)
		if delay := time.Until(next); delay > 0 {
			time.Sleep(delay)
		} else {
			// running behind, don't try to catch up
			next = time.Now()
		}
	}

	slog.Debug("Display loop stopped")
}

// Stop ends the loop after the current frame. Safe to call more than once
// and from any goroutine.
func (root *RootWindow) Stop() {
	root.stopped.Store(true)

	root.quitOnce.Do(func() {
		close(root.stop)

		if root.onQuit != nil {
			go root.onQuit()
		}
	})
}
