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
	"sync"
	"sync/atomic"
)

// Placeable is anything that can sit inside a container
type Placeable interface {
	Parent() Container
	SetParent(parent Container)
	Span() (columns, rows int)
	SetSpan(columns, rows int)
	Visible() bool
	SetVisible(visible bool)
	Tick()
}

// Container lays out children and passes render, event and tick calls down
// to them. x,y is the container's absolute origin.
type Container interface {
	Placeable
	RequestSize(child Placeable) (width, height int)
	RequestPosition(child Placeable) (x, y int)
	Render(dst Target, x, y int)
	Event(ev Event, x, y int)
	Remove(child Placeable)
}

// Widget is a leaf that draws into its own canvas. Every widget embeds Pane.
type Widget interface {
	Placeable
	Invalidate()
	Event(ev Event)
	Draw(canvas *Canvas)
	surface(width, height int) (*Canvas, bool)
}

// node holds the placement state shared by containers and leaves
type node struct {
	placeLock  sync.RWMutex
	parent     Container
	columnSpan int
	rowSpan    int
	hidden     atomic.Bool
}

func (n *node) Parent() Container {
	n.placeLock.RLock()
	defer n.placeLock.RUnlock()

	return n.parent
}

func (n *node) SetParent(parent Container) {
	n.placeLock.Lock()
	defer n.placeLock.Unlock()

	n.parent = parent
}

// Span defaults to a single cell
func (n *node) Span() (int, int) {
	n.placeLock.RLock()
	defer n.placeLock.RUnlock()

	return max(n.columnSpan, 1), max(n.rowSpan, 1)
}

func (n *node) SetSpan(columns, rows int) {
	n.placeLock.Lock()
	defer n.placeLock.Unlock()

	n.columnSpan = columns
	n.rowSpan = rows
}

func (n *node) Visible() bool {
	return !n.hidden.Load()
}

func (n *node) SetVisible(visible bool) {
	n.hidden.Store(!visible)
}

// Pane is the base of every leaf. It owns the canvas and the dirty flag;
// the embedding widget supplies Draw.
type Pane struct {
	node

	dirty  atomic.Bool
	canvas *Canvas
}

// Invalidate asks for a redraw on the next frame. Safe to call from any
// goroutine.
func (p *Pane) Invalidate() {
	p.dirty.Store(true)
}

func (p *Pane) Dirty() bool {
	return p.dirty.Load()
}

func (p *Pane) Tick() {}

func (p *Pane) Event(ev Event) {}

// detach removes the pane from whatever holds it
func (p *Pane) detach(self Placeable) {
	if parent := self.Parent(); parent != nil {
		parent.Remove(self)
	}
}

// surface sizes the canvas and reports whether it needs drawing, either
// because it was invalidated or because its size changed
func (p *Pane) surface(width, height int) (*Canvas, bool) {
	if p.canvas == nil {
		p.canvas = NewCanvas(width, height)
		p.dirty.Store(false)
		return p.canvas, true
	}

	resized := p.canvas.Resize(width, height)
	dirty := p.dirty.Swap(false)

	return p.canvas, resized || dirty
}
