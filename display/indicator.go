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
	"fox-spl/meter"

	"github.com/gdamore/tcell/v2"
)

// Indicator is a block of colour showing how one channel is classified:
// orange when too quiet, red when too loud and green otherwise
type Indicator struct {
	Pane

	theme         theme.Theme
	aggregator    *meter.Aggregator
	channel       int
	colourPadding int
	label         atomic.Pointer[string]
}

func NewIndicator(t theme.Theme, aggregator *meter.Aggregator, channel int, label string, colourPadding int) *Indicator {
	indicator := &Indicator{
		theme:         t,
		aggregator:    aggregator,
		channel:       channel,
		colourPadding: colourPadding,
	}
	indicator.label.Store(&label)

	aggregator.BindState(channel, indicator)

	return indicator
}

func (indicator *Indicator) Label() string {
	return *indicator.label.Load()
}

func (indicator *Indicator) SetLabel(label string) {
	if old := indicator.label.Swap(&label); *old != label {
		indicator.Invalidate()
	}
}

func (indicator *Indicator) colour(state meter.Classification) tcell.Color {
	switch state {
	case meter.TooQuiet:
		return indicator.theme.Orange
	case meter.TooLoud:
		return indicator.theme.Red
	}
	return indicator.theme.Green
}

func (indicator *Indicator) Draw(canvas *Canvas) {
	width, height := canvas.Size()
	pad := indicator.colourPadding
	fill := indicator.colour(indicator.aggregator.State(indicator.channel))

	canvas.Fill(' ', indicator.theme.Style(indicator.theme.Foreground, indicator.theme.Background))
	canvas.FillRect(pad, pad, width-pad*2, height-pad*2, ' ', indicator.theme.Style(indicator.theme.Foreground, fill))

	if label := indicator.Label(); label != "" {
		style := indicator.theme.Style(indicator.theme.Foreground, fill).Attributes(tcell.AttrBold)
		canvas.Text(pad+1, pad, label, style)
	}
}
