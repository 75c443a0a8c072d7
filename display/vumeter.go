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
	"fmt"
	"math"
	"strconv"
	"sync/atomic"

	"fox-spl/display/theme"
	"fox-spl/dsp"
	"fox-spl/meter"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
)

// scaleMarks are the levels labelled down the side of the meter. The scale
// is linear to 24 and compressed by half below that.
var scaleMarks = func() []dsp.Level {
	marks := make([]dsp.Level, 0, 13)
	for i := range 13 {
		mark := i * 3
		if i >= 8 {
			mark += 3 * (i - 8)
		}
		marks = append(marks, dsp.Level(mark))
	}
	return marks
}()

// MeterY maps a level onto a meter of the given height, returning the offset
// of the top of the bar and its length
func MeterY(height int, level dsp.Level) (int, int) {
	step := float64(height-4) / 12
	vu := float64(level)

	y := step * min(vu, 24) / 3
	if vu > 24 {
		y += step * (vu - 24) / 6
	}

	top := int(math.RoundToEven(y))

	return top + 1, height - top - 4
}

// VUMeter draws both channels as bars with their averages, the active
// thresholds and a level scale
type VUMeter struct {
	Pane

	theme      theme.Theme
	aggregator *meter.Aggregator
	watermark  string
	errors     atomic.Uint64
}

func NewVUMeter(t theme.Theme, aggregator *meter.Aggregator, watermark string) *VUMeter {
	vu := &VUMeter{
		theme:      t,
		aggregator: aggregator,
		watermark:  watermark,
	}

	aggregator.BindLevel(vu)

	return vu
}

// IncrementErrorCount bumps the counter shown in the corner
func (vu *VUMeter) IncrementErrorCount() {
	vu.errors.Add(1)
	vu.Invalidate()
}

func (vu *VUMeter) ErrorCount() uint64 {
	return vu.errors.Load()
}

func (vu *VUMeter) Draw(canvas *Canvas) {
	width, height := canvas.Size()
	t := vu.theme

	canvas.Fill(' ', t.Style(t.Text, t.BackgroundDark))

	half := width / 4
	meterWidth := half*2 + 1
	meterHeight := height - 2
	meterX := (width - meterWidth) / 2
	meterY := (height - meterHeight) / 2

	if half < 1 || meterHeight < 5 {
		return
	}

	// frame and the bar background
	canvas.FillRect(meterX, meterY, meterWidth, meterHeight-1, ' ', t.Style(t.Text, t.Border))
	canvas.FillRect(meterX+1, meterY+1, meterWidth-2, meterHeight-3, ' ', t.Style(t.Text, t.DarkBlue))

	for _, mark := range scaleMarks {
		y, _ := MeterY(meterHeight, mark)
		y += meterY + 1

		canvas.Overlay(meterX-1, y, theme.RuneHorizontal, t.Text)
		canvas.Text(meterX+meterWidth+1, y, strconv.Itoa(int(mark)), t.Style(t.Text, t.BackgroundDark))
	}

	bar := func(level dsp.Level, offset int, barWidth int, colour tcell.Color) {
		top, length := MeterY(meterHeight, level)
		if length <= 1 {
			return
		}

		canvas.FillRect(meterX+1+offset, meterY+1+top, barWidth, length, ' ', t.Style(t.Text, colour))
	}

	line := func(level dsp.Level, offset int, lineWidth int, r rune, colour tcell.Color) {
		top, length := MeterY(meterHeight, level)
		if length <= 1 {
			return
		}

		for x := range lineWidth {
			canvas.Overlay(meterX+1+offset+x, meterY+1+top, r, colour)
		}
	}

	for ch := range meter.Channels {
		bar(vu.aggregator.Current(ch), ch*half, half-1, t.LightBlue)
	}

	for ch := range meter.Channels {
		line(vu.aggregator.Average(ch), ch*half, half-1, theme.RuneHeavyLine, t.Red)
	}

	thresholds := vu.aggregator.Thresholds()
	line(thresholds.Quiet, 0, meterWidth-2, theme.RuneHorizontal, t.Text)
	line(thresholds.Loud, 0, meterWidth-2, theme.RuneHorizontal, t.Text)

	// central divider
	canvas.FillRect(meterX+half, meterY+1, 1, meterHeight-3, ' ', t.Style(t.Text, t.Border))

	if errors := vu.ErrorCount(); errors > 0 {
		label := fmt.Sprintf("%c %d", theme.RuneFailed, errors)
		canvas.Text(0, 0, label, t.Style(t.Red, t.BackgroundDark))
	}

	if vu.watermark != "" {
		x := max(width-runewidth.StringWidth(vu.watermark)-1, 0)
		canvas.Text(x, height-1, vu.watermark, t.Style(t.Text, t.BackgroundDark))
	}
}
