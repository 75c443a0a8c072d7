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
	"math"

	"fox-spl/display/theme"
	"fox-spl/dsp"
	"fox-spl/meter"

	"github.com/gdamore/tcell/v2"
)

// Graph plots the level history of both channels. The newest sample is at
// the right edge and louder levels sit higher.
type Graph struct {
	Pane

	theme         theme.Theme
	aggregator    *meter.Aggregator
	colourPadding int
}

func NewGraph(t theme.Theme, aggregator *meter.Aggregator, colourPadding int) *Graph {
	graph := &Graph{
		theme:         t,
		aggregator:    aggregator,
		colourPadding: colourPadding,
	}

	aggregator.BindLevel(graph)

	return graph
}

func (graph *Graph) Draw(canvas *Canvas) {
	width, height := canvas.Size()
	pad := graph.colourPadding

	canvas.Fill(' ', graph.theme.Style(graph.theme.Foreground, graph.theme.Background))
	canvas.FillRect(pad, pad, width-pad*2, height-pad*2, ' ', graph.theme.Style(graph.theme.Foreground, graph.theme.Border))

	graph.plot(canvas, graph.aggregator.History(meter.PrimaryChannel), graph.theme.Graph1)
	graph.plot(canvas, graph.aggregator.History(meter.SecondaryChannel), graph.theme.Graph2)
}

func (graph *Graph) plot(canvas *Canvas, series []dsp.Level, colour tcell.Color) {
	if len(series) < 2 {
		return
	}

	width, height := canvas.Size()
	pad := graph.colourPadding
	innerWidth, innerHeight := width-pad*2, height-pad*2

	if innerWidth <= 0 || innerHeight <= 0 {
		return
	}

	samples := max(graph.aggregator.GraphSamples(), 1)
	right := pad + innerWidth - 1
	previous := -1

	for age := range series {
		level := series[len(series)-1-age]

		x := right - age*innerWidth/samples
		if x < pad {
			break
		}

		y := pad + int(math.Round(float64(level)/float64(dsp.Silence)*float64(innerHeight-1)))

		// join to the previous point so steep changes stay a line
		top, bottom := y, y
		if previous >= 0 {
			top, bottom = min(y, previous), max(y, previous)
		}

		for row := top; row <= bottom; row++ {
			canvas.Overlay(x, row, theme.RuneDot, colour)
		}

		previous = y
	}
}
