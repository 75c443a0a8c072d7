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
package meter

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fox-spl/audio"
	"fox-spl/dsp"
	"fox-spl/reaper"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testRate = 44100

type testModes struct {
	aWeighting atomic.Bool
	split      atomic.Bool
}

func (m *testModes) AWeighting() bool { return m.aWeighting.Load() }
func (m *testModes) Split() bool      { return m.split.Load() }

// scriptedSource replays a list of read results and then blocks until closed
type scriptedSource struct {
	lock   sync.Mutex
	script []error
	block  []int16
	closed chan bool
	once   sync.Once
}

func newScriptedSource(block []int16, script ...error) *scriptedSource {
	return &scriptedSource{block: block, script: script, closed: make(chan bool)}
}

func (s *scriptedSource) Name() string    { return "scripted" }
func (s *scriptedSource) SampleRate() int { return testRate }
func (s *scriptedSource) Channels() int   { return 1 }

func (s *scriptedSource) Read(block []int16) error {
	s.lock.Lock()
	if len(s.script) > 0 {
		err := s.script[0]
		s.script = s.script[1:]
		s.lock.Unlock()

		if err == nil {
			copy(block, s.block)
		}
		return err
	}
	s.lock.Unlock()

	<-s.closed
	return audio.ErrClosed
}

func (s *scriptedSource) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

func sine(freq float64, amplitude float64, count int) []int16 {
	block := make([]int16, count)
	for i := range block {
		block[i] = int16(amplitude * math.Sin(2*math.Pi*freq*float64(i)/testRate))
	}
	return block
}

func newTestCapture(t *testing.T, stream Stream, hasSecondary bool) (*Capture, *Aggregator, *testModes) {
	t.Helper()

	bank, err := dsp.NewFilterBank(testRate, 125, dsp.DefaultOrder)
	require.NoError(t, err)

	aggregator := NewAggregator(200, 1, StatisticMean, musicThresholds)
	modes := &testModes{}
	source := newScriptedSource(nil)

	capture := NewCapture(source, aggregator, modes, reaper.New(), CaptureOptions{
		Stream:         stream,
		HasSecondary:   hasSecondary,
		FramesPerBlock: 4410,
		Filters:        bank,
	})

	return capture, aggregator, modes
}

func TestProcessRawPrimaryFlatLinesSecondary(t *testing.T) {
	capture, aggregator, _ := newTestCapture(t, PrimaryStream, false)

	block := make([]int16, 4410)
	for i := range block {
		block[i] = -32768
	}

	aggregator.Feed(SecondaryChannel, 10)
	capture.Process(block)

	assert.Equal(t, dsp.Loudest, aggregator.Current(PrimaryChannel))
	assert.Equal(t, dsp.Silence, aggregator.Current(SecondaryChannel))
	assert.Equal(t, uint64(1), capture.Stats().Blocks)
}

func TestProcessAWeighting(t *testing.T) {
	capture, aggregator, modes := newTestCapture(t, PrimaryStream, false)

	kilohertz := sine(1000, 16384, 4410)
	capture.Process(kilohertz)
	raw := aggregator.Current(PrimaryChannel)

	modes.aWeighting.Store(true)
	capture.Process(kilohertz)
	weighted := aggregator.Current(PrimaryChannel)

	assert.InDelta(t, float64(raw), float64(weighted), 1.0)
	assert.Equal(t, dsp.Silence, aggregator.Current(SecondaryChannel))

	// low frequencies are heavily attenuated
	rumble := sine(50, 16384, 4410)
	capture.Process(rumble)
	assert.Greater(t, float64(aggregator.Current(PrimaryChannel)), float64(raw)+20)
}

func TestProcessSplitRoutesBands(t *testing.T) {
	capture, aggregator, modes := newTestCapture(t, PrimaryStream, false)
	modes.split.Store(true)
	modes.aWeighting.Store(true)

	capture.Process(sine(50, 16384, 4410))

	high := aggregator.Current(PrimaryChannel)
	low := aggregator.Current(SecondaryChannel)

	// the low band carries the tone and is not flat lined
	assert.Less(t, float64(low), 12.0)
	assert.Greater(t, float64(high), float64(low)+10)

	capture.Process(sine(4000, 16384, 4410))
	assert.Less(t, float64(aggregator.Current(PrimaryChannel)), float64(aggregator.Current(SecondaryChannel)))
}

func TestProcessSplitIgnoredWithSecondStream(t *testing.T) {
	capture, aggregator, modes := newTestCapture(t, PrimaryStream, true)
	modes.split.Store(true)

	aggregator.Feed(SecondaryChannel, 10)
	capture.Process(sine(50, 16384, 4410))

	assert.Less(t, float64(aggregator.Current(PrimaryChannel)), 12.0)
	assert.Equal(t, dsp.Level(10), aggregator.Current(SecondaryChannel))
}

func TestProcessSecondaryStream(t *testing.T) {
	capture, aggregator, modes := newTestCapture(t, SecondaryStream, true)
	modes.split.Store(true)

	capture.Process(sine(1000, 16384, 4410))

	assert.Empty(t, aggregator.History(PrimaryChannel))
	assert.Less(t, float64(aggregator.Current(SecondaryChannel)), 12.0)
	assert.Equal(t, "capture secondary", capture.Name())
}

func TestCaptureLoopRecoversAndStops(t *testing.T) {
	bank, err := dsp.NewFilterBank(testRate, 125, dsp.DefaultOrder)
	require.NoError(t, err)

	aggregator := NewAggregator(200, 1, StatisticMean, musicThresholds)
	source := newScriptedSource(sine(1000, 16384, 1024), nil, audio.ErrOverflow, errors.New("device hiccup"), nil, nil)
	r := reaper.New()
	r.Callback("source", func() { source.Close() })

	capture := NewCapture(source, aggregator, &testModes{}, r, CaptureOptions{
		FramesPerBlock: 1024,
		Filters:        bank,
	})
	capture.Start()

	require.Eventually(t, func() bool {
		return capture.Stats().Blocks == 3
	}, 5*time.Second, 10*time.Millisecond)

	r.Reap()

	waited := make(chan bool)
	go func() {
		r.Wait()
		waited <- true
	}()

	select {
	case <-waited:
	case <-time.After(5 * time.Second):
		t.Fatal("capture loop did not stop")
	}

	stats := capture.Stats()
	assert.Equal(t, uint64(1), stats.Dropped)
	assert.Equal(t, uint64(1), stats.Errors)
	assert.Equal(t, uint64(3), aggregator.Snapshot(PrimaryChannel).Feeds)
}
