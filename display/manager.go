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
	"slices"
	"sync"
)

// layout is the part each manager supplies; Manager does the rest
type layout interface {
	RequestSize(child Placeable) (int, int)
	RequestPosition(child Placeable) (int, int)
}

// Manager keeps the children of a container in insertion order and walks
// them for render, event and tick
type Manager struct {
	childLock sync.RWMutex
	children  []Placeable
	layout    layout
	padding   int
}

// Children returns a copy, so callers may add or remove while iterating
func (manager *Manager) Children() []Placeable {
	manager.childLock.RLock()
	defer manager.childLock.RUnlock()

	return slices.Clone(manager.children)
}

func (manager *Manager) Contains(child Placeable) bool {
	manager.childLock.RLock()
	defer manager.childLock.RUnlock()

	return slices.Contains(manager.children, child)
}

func (manager *Manager) attach(child Placeable, self Container) {
	if previous := child.Parent(); previous != nil && previous != self {
		previous.Remove(child)
	}

	manager.childLock.Lock()
	if !slices.Contains(manager.children, child) {
		manager.children = append(manager.children, child)
	}
	manager.childLock.Unlock()

	child.SetParent(self)
}

func (manager *Manager) detach(child Placeable, self Container) bool {
	manager.childLock.Lock()
	index := slices.Index(manager.children, child)
	if index >= 0 {
		manager.children = slices.Delete(manager.children, index, index+1)
	}
	manager.childLock.Unlock()

	if index < 0 {
		return false
	}

	if child.Parent() == self {
		child.SetParent(nil)
	}

	return true
}

// Render draws every visible child, bottom to top, with the container's
// origin at x,y
func (manager *Manager) Render(dst Target, x, y int) {
	for _, child := range manager.Children() {
		if !child.Visible() {
			continue
		}

		rx, ry := manager.layout.RequestPosition(child)

		switch c := child.(type) {
		case Container:
			c.Render(dst, x+rx, y+ry)
		case Widget:
			manager.renderWidget(c, dst, x+rx, y+ry)
		}
	}
}

func (manager *Manager) renderWidget(widget Widget, dst Target, x, y int) {
	width, height := manager.layout.RequestSize(widget)
	pad := manager.padding

	canvas, redraw := widget.surface(width-pad*2, height-pad*2)
	if redraw {
		widget.Draw(canvas)
	}

	canvas.Blit(dst, x+pad, y+pad)
}

// Event sends non positional events to every child. Positional events only
// reach visible children whose rectangle holds the point.
func (manager *Manager) Event(ev Event, x, y int) {
	for _, child := range manager.Children() {
		rx, ry := manager.layout.RequestPosition(child)
		ax, ay := x+rx, y+ry

		if ev.Positional() {
			if !child.Visible() {
				continue
			}

			width, height := manager.layout.RequestSize(child)
			if !ev.Within(ax, ay, width, height) {
				continue
			}
		}

		dispatch(child, ev, ax, ay)
	}
}

func dispatch(child Placeable, ev Event, x, y int) {
	switch c := child.(type) {
	case Container:
		c.Event(ev, x, y)
	case Widget:
		c.Event(ev)
	}
}

func (manager *Manager) Tick() {
	for _, child := range manager.Children() {
		child.Tick()
	}
}

type gridCell struct {
	column int
	row    int
}

// GridingManager places children on a grid of equal cells. The grid has as
// many rows and columns as the furthest registered child needs.
type GridingManager struct {
	node
	Manager

	cellLock sync.RWMutex
	cells    map[Placeable]gridCell
}

func NewGridingManager(padding int) *GridingManager {
	grid := &GridingManager{
		cells: make(map[Placeable]gridCell),
	}
	grid.layout = grid
	grid.padding = padding

	return grid
}

// Grid registers child at column,row using the child's own span. A child
// that is already registered moves.
func (grid *GridingManager) Grid(child Placeable, column, row int) Placeable {
	grid.cellLock.Lock()
	grid.cells[child] = gridCell{column: column, row: row}
	grid.cellLock.Unlock()

	grid.attach(child, grid)

	return child
}

// Place sets the span and grids the child in one go
func (grid *GridingManager) Place(child Placeable, column, row, columnSpan, rowSpan int) Placeable {
	child.SetSpan(columnSpan, rowSpan)
	return grid.Grid(child, column, row)
}

func (grid *GridingManager) Remove(child Placeable) {
	grid.cellLock.Lock()
	delete(grid.cells, child)
	grid.cellLock.Unlock()

	grid.detach(child, grid)
}

// Gridded reports whether child currently has a cell
func (grid *GridingManager) Gridded(child Placeable) bool {
	grid.cellLock.RLock()
	defer grid.cellLock.RUnlock()

	_, ok := grid.cells[child]
	return ok
}

// Cell returns the column and row of a registered child
func (grid *GridingManager) Cell(child Placeable) (int, int, bool) {
	grid.cellLock.RLock()
	defer grid.cellLock.RUnlock()

	c, ok := grid.cells[child]
	return c.column, c.row, ok
}

// Dimensions is the current column and row count
func (grid *GridingManager) Dimensions() (columns, rows int) {
	grid.cellLock.RLock()
	defer grid.cellLock.RUnlock()

	for _, c := range grid.cells {
		columns = max(columns, c.column+1)
		rows = max(rows, c.row+1)
	}

	return columns, rows
}

func (grid *GridingManager) size() (int, int) {
	parent := grid.Parent()
	if parent == nil {
		return 0, 0
	}

	return parent.RequestSize(grid)
}

// RequestSize gives a registered child its span of cells and anything else
// the whole grid
func (grid *GridingManager) RequestSize(child Placeable) (int, int) {
	width, height := grid.size()

	if !grid.Gridded(child) {
		return width, height
	}

	columns, rows := grid.Dimensions()
	columnSpan, rowSpan := child.Span()

	return width / columns * columnSpan, height / rows * rowSpan
}

func (grid *GridingManager) RequestPosition(child Placeable) (int, int) {
	column, row, ok := grid.Cell(child)
	if !ok {
		return 0, 0
	}

	width, height := grid.size()
	columns, rows := grid.Dimensions()

	return width / columns * column, height / rows * row
}

// SingleManager hands its one child the whole of its own space. The root
// window wraps bare widgets in one.
type SingleManager struct {
	node
	Manager
}

func NewSingleManager(child Placeable, padding int) *SingleManager {
	single := &SingleManager{}
	single.layout = single
	single.padding = padding

	single.attach(child, single)

	return single
}

func (single *SingleManager) Child() Placeable {
	children := single.Children()
	if len(children) == 0 {
		return nil
	}

	return children[0]
}

func (single *SingleManager) RequestSize(child Placeable) (int, int) {
	parent := single.Parent()
	if parent == nil {
		return 0, 0
	}

	return parent.RequestSize(single)
}

func (single *SingleManager) RequestPosition(child Placeable) (int, int) {
	return 0, 0
}

// Remove drops the child and, since an empty wrapper is useless, takes the
// wrapper out of its own parent too
func (single *SingleManager) Remove(child Placeable) {
	single.detach(child, single)

	if parent := single.Parent(); parent != nil {
		parent.Remove(single)
	}
}
