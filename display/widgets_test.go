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
	"bufio"
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"fox-spl/display/theme"
	"fox-spl/dsp"
	"fox-spl/meter"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testAggregator() *meter.Aggregator {
	return meter.NewAggregator(10, 3, meter.StatisticMean, meter.ThresholdSet{Quiet: 15, Loud: 3})
}

func background(canvas *Canvas, x, y int) tcell.Color {
	_, style := canvas.Cell(x, y)
	_, bg, _ := style.Decompose()
	return bg
}

func TestMeterY(t *testing.T) {
	top, length := MeterY(16, 0)
	assert.Equal(t, 1, top)
	assert.Equal(t, 12, length)

	top, length = MeterY(16, 24)
	assert.Equal(t, 9, top)
	assert.Equal(t, 4, length)

	top, length = MeterY(16, 48)
	assert.Equal(t, 13, top)
	assert.Equal(t, 0, length)

	// louder never sits lower on the meter
	previous := 0
	for level := dsp.Level(0); level <= dsp.Silence; level++ {
		top, _ := MeterY(40, level)
		assert.GreaterOrEqual(t, top, previous)
		previous = top
	}
}

func TestScaleMarks(t *testing.T) {
	expected := []dsp.Level{0, 3, 6, 9, 12, 15, 18, 21, 24, 30, 36, 42, 48}
	assert.Equal(t, expected, scaleMarks)
}

func TestIndicatorFollowsClassification(t *testing.T) {
	th := theme.Default()
	aggregator := testAggregator()
	indicator := NewIndicator(th, aggregator, 0, "MIC", 1)

	canvas := NewCanvas(10, 5)
	indicator.Draw(canvas)
	assert.Equal(t, th.Green, background(canvas, 5, 2))
	assert.Equal(t, th.Background, background(canvas, 0, 0))

	aggregator.Feed(0, 40)
	assert.True(t, indicator.Dirty())

	indicator.Draw(canvas)
	assert.Equal(t, th.Orange, background(canvas, 5, 2))

	for range 3 {
		aggregator.Feed(0, 1)
	}

	indicator.Draw(canvas)
	assert.Equal(t, th.Red, background(canvas, 5, 2))

	r, _ := canvas.Cell(2, 1)
	assert.Equal(t, 'M', r)
}

func TestIndicatorLabelChangeInvalidates(t *testing.T) {
	indicator := NewIndicator(theme.Default(), testAggregator(), 1, "OUT", 0)

	indicator.SetLabel("OUT")
	assert.False(t, indicator.Dirty())

	indicator.SetLabel("LOW")
	assert.True(t, indicator.Dirty())
	assert.Equal(t, "LOW", indicator.Label())
}

func TestGraphNewestAtRightEdge(t *testing.T) {
	aggregator := testAggregator()
	graph := NewGraph(theme.Default(), aggregator, 1)

	aggregator.Feed(0, dsp.Silence)
	aggregator.Feed(0, 0)
	assert.True(t, graph.Dirty())

	canvas := NewCanvas(12, 10)
	graph.Draw(canvas)

	// newest sample, loudest, top right of the plot area
	r, _ := canvas.Cell(10, 1)
	assert.Equal(t, theme.RuneDot, r)

	// the older silent sample one step left, at the bottom
	r, _ = canvas.Cell(9, 8)
	assert.Equal(t, theme.RuneDot, r)

	r, _ = canvas.Cell(1, 4)
	assert.NotEqual(t, theme.RuneDot, r)
}

func TestVUMeterDrawsBarsAndErrors(t *testing.T) {
	th := theme.Default()
	aggregator := testAggregator()
	vu := NewVUMeter(th, aggregator, "fox-spl")

	aggregator.Feed(0, 0)
	assert.True(t, vu.Dirty())

	canvas := NewCanvas(20, 18)
	vu.Draw(canvas)

	// channel 0 at full scale fills its half of the meter down to the floor
	meterX := (20 - 11) / 2
	assert.Equal(t, th.LightBlue, background(canvas, meterX+2, 10))

	// channel 1 is silent so its half only shows the background
	assert.Equal(t, th.DarkBlue, background(canvas, meterX+7, 10))

	r, _ := canvas.Cell(19-len("fox-spl"), 17)
	assert.Equal(t, 'f', r)

	vu.IncrementErrorCount()
	assert.Equal(t, uint64(1), vu.ErrorCount())
	assert.True(t, vu.Dirty())

	vu.Draw(canvas)
	r, _ = canvas.Cell(0, 0)
	assert.Equal(t, theme.RuneFailed, r)
}

func TestButtonColours(t *testing.T) {
	th := theme.Default()
	button := NewButton(th, "GRAPH", nil)
	canvas := NewCanvas(9, 3)

	button.Draw(canvas)
	assert.Equal(t, th.ButtonInactive, background(canvas, 0, 1))

	button.Event(Press(0, 0))
	assert.True(t, button.State())

	button.Draw(canvas)
	assert.Equal(t, th.ButtonActive, background(canvas, 0, 1))

	button.SetDisabled(true)
	button.Draw(canvas)
	assert.Equal(t, th.ButtonDisabled, background(canvas, 0, 1))

	r, _ := canvas.Cell(2, 1)
	assert.Equal(t, 'G', r)
}

func TestButtonIgnoresKeys(t *testing.T) {
	button := NewButton(theme.Default(), "SPLIT", nil)

	button.Event(Event{Type: EventKey, Rune: 'x'})

	assert.False(t, button.State())
}

func TestMessageBoxLeavesMarginTransparent(t *testing.T) {
	th := theme.Default()
	box := NewMessageBox(th, "No config file was found.\nThe default has been loaded.")

	dst := NewCanvas(40, 12)
	dst.Fill('z', tcell.StyleDefault)

	canvas := NewCanvas(40, 12)
	box.Draw(canvas)
	canvas.Blit(dst, 0, 0)

	r, _ := dst.Cell(0, 0)
	assert.Equal(t, 'z', r)

	r, _ = dst.Cell(2, 1)
	assert.NotEqual(t, 'z', r)

	lines := box.lines(36)
	assert.Equal(t, dismissHint, lines[len(lines)-1])
	assert.Contains(t, strings.Join(lines, "\n"), "The default has been loaded.")
}

func TestMessageBoxWrapsLongLines(t *testing.T) {
	box := NewMessageBox(theme.Default(), "one two three four five six")

	lines := box.lines(10)

	for _, line := range lines[:len(lines)-2] {
		assert.LessOrEqual(t, len(strings.TrimSpace(line)), 10)
	}
	assert.Greater(t, len(lines), 3)
}

type fixedModes struct {
	speech bool
	labels [meter.Channels]string
}

func (m *fixedModes) AWeighting() bool               { return true }
func (m *fixedModes) Split() bool                    { return false }
func (m *fixedModes) Speech() bool                   { return m.speech }
func (m *fixedModes) Labels() [meter.Channels]string { return m.labels }

func TestJsonUIPrintsSnapshots(t *testing.T) {
	aggregator := testAggregator()
	aggregator.Feed(0, 20)
	aggregator.Feed(1, 2)

	output := &bytes.Buffer{}
	modes := &fixedModes{speech: true, labels: [meter.Channels]string{"MIC", "OUT"}}
	ui := NewJsonUI(output, aggregator, modes, time.Hour)
	ui.IncrementErrorCount()

	done := make(chan bool)
	go func() {
		ui.Run()
		close(done)
	}()

	// the first snapshot goes out straight away
	ui.Shutdown()
	ui.Shutdown()
	<-done

	var status JsonStatus
	var levels JsonLevels

	scanner := bufio.NewScanner(output)
	require.True(t, scanner.Scan())
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &status))
	require.True(t, scanner.Scan())
	require.NoError(t, json.Unmarshal(scanner.Bytes(), &levels))

	assert.Equal(t, "status", status.MessageType)
	assert.Equal(t, uint64(1), status.ErrorCount)
	assert.True(t, status.Speech)
	assert.True(t, status.AWeighting)
	assert.Equal(t, "mean", status.Statistic)

	assert.Equal(t, "levels", levels.MessageType)
	assert.Equal(t, 15.0, levels.Thresholds.Quiet)
	require.Len(t, levels.Channels, 2)
	assert.Equal(t, "MIC", levels.Channels[0].Label)
	assert.Equal(t, "too_quiet", levels.Channels[0].State)
	assert.Equal(t, "too_loud", levels.Channels[1].State)
	assert.Equal(t, 2.0, levels.Channels[1].Current)
}
