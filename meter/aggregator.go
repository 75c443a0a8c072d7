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
	"fmt"
	"sync"
	"sync/atomic"

	"fox-spl/dsp"
)

// Channels is the fixed number of metered channels
const Channels = 2

type Classification int8

const (
	Acceptable Classification = iota
	TooQuiet
	TooLoud
)

func (c Classification) String() string {
	switch c {
	case Acceptable:
		return "acceptable"
	case TooQuiet:
		return "too_quiet"
	case TooLoud:
		return "too_loud"
	}
	return "unknown"
}

// Statistic selects how the averaging window is reduced to a single value
type Statistic int8

const (
	StatisticMean Statistic = iota
	StatisticMin
)

func ParseStatistic(name string) (Statistic, error) {
	switch name {
	case "", "mean":
		return StatisticMean, nil
	case "min":
		return StatisticMin, nil
	}
	return StatisticMean, fmt.Errorf("unknown average statistic '%s'", name)
}

func (s Statistic) String() string {
	if s == StatisticMin {
		return "min"
	}
	return "mean"
}

func (s Statistic) reduce(window []dsp.Level) dsp.Level {
	if len(window) == 0 {
		return dsp.Silence
	}

	if s == StatisticMin {
		result := window[0]
		for _, level := range window[1:] {
			result = min(result, level)
		}
		return result
	}

	sum := 0.0
	for _, level := range window {
		sum += float64(level)
	}
	return dsp.Level(sum / float64(len(window)))
}

// ThresholdSet holds the quiet and loud boundaries. Because levels are
// inverted, Loud is the numerically smaller of the two.
type ThresholdSet struct {
	Quiet dsp.Level
	Loud  dsp.Level
}

func (ts ThresholdSet) Classify(average dsp.Level) Classification {
	if average >= ts.Quiet {
		return TooQuiet
	}

	if average <= ts.Loud {
		return TooLoud
	}

	return Acceptable
}

// Invalidator is anything that redraws lazily once told its data changed
type Invalidator interface {
	Invalidate()
}

// Snapshot is one consistent reading of a channel
type Snapshot struct {
	Current dsp.Level
	Average dsp.Level
	State   Classification
	Feeds   uint64
}

type channel struct {
	lock    sync.RWMutex
	history []dsp.Level
	window  []dsp.Level
	current dsp.Level
	average dsp.Level
	state   Classification
	feeds   uint64
}

// Aggregator keeps the rolling history of every channel and classifies the
// rolling statistic against the active ThresholdSet. Each channel is fed by
// one capture loop while any number of readers take snapshots.
type Aggregator struct {
	channels       [Channels]*channel
	graphSamples   int
	averageSamples int
	statistic      Statistic
	thresholds     atomic.Pointer[ThresholdSet]

	listenerLock   sync.RWMutex
	levelListeners []Invalidator
	stateListeners [Channels][]Invalidator
}

func NewAggregator(graphSamples int, averageSamples int, statistic Statistic, thresholds ThresholdSet) *Aggregator {
	aggregator := &Aggregator{
		graphSamples:   max(graphSamples, 1),
		averageSamples: max(averageSamples, 1),
		statistic:      statistic,
	}

	for i := range aggregator.channels {
		aggregator.channels[i] = &channel{
			history: make([]dsp.Level, 0, aggregator.graphSamples),
			window:  make([]dsp.Level, 0, aggregator.averageSamples),
			current: dsp.Silence,
			average: dsp.Silence,
			state:   Acceptable,
		}
	}

	aggregator.thresholds.Store(&thresholds)

	return aggregator
}

// BindLevel registers a listener invalidated on every feed of any channel
func (aggregator *Aggregator) BindLevel(listener Invalidator) {
	aggregator.listenerLock.Lock()
	defer aggregator.listenerLock.Unlock()

	aggregator.levelListeners = append(aggregator.levelListeners, listener)
}

// BindState registers a listener invalidated only when the classification of
// channel ch changes
func (aggregator *Aggregator) BindState(ch int, listener Invalidator) {
	aggregator.listenerLock.Lock()
	defer aggregator.listenerLock.Unlock()

	aggregator.stateListeners[ch] = append(aggregator.stateListeners[ch], listener)
}

// Feed records a new level for channel ch and returns the resulting
// classification.
func (aggregator *Aggregator) Feed(ch int, level dsp.Level) Classification {
	level = max(dsp.Loudest, min(dsp.Silence, level))
	c := aggregator.channels[ch]
	thresholds := aggregator.thresholds.Load()

	c.lock.Lock()
	c.history = appendBounded(c.history, level, aggregator.graphSamples)
	c.window = appendBounded(c.window, level, aggregator.averageSamples)
	c.current = level
	c.average = aggregator.statistic.reduce(c.window)
	c.feeds++

	state := thresholds.Classify(c.average)
	changed := state != c.state
	c.state = state
	c.lock.Unlock()

	aggregator.listenerLock.RLock()
	defer aggregator.listenerLock.RUnlock()

	if changed {
		for _, listener := range aggregator.stateListeners[ch] {
			listener.Invalidate()
		}
	}

	for _, listener := range aggregator.levelListeners {
		listener.Invalidate()
	}

	return state
}

// SetThresholds swaps the active set. Classifications catch up on the next
// feed of each channel.
func (aggregator *Aggregator) SetThresholds(thresholds ThresholdSet) {
	aggregator.thresholds.Store(&thresholds)
}

func (aggregator *Aggregator) Thresholds() ThresholdSet {
	return *aggregator.thresholds.Load()
}

func (aggregator *Aggregator) Statistic() Statistic {
	return aggregator.statistic
}

func (aggregator *Aggregator) GraphSamples() int {
	return aggregator.graphSamples
}

func (aggregator *Aggregator) Current(ch int) dsp.Level {
	c := aggregator.channels[ch]
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.current
}

func (aggregator *Aggregator) Average(ch int) dsp.Level {
	c := aggregator.channels[ch]
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.average
}

func (aggregator *Aggregator) State(ch int) Classification {
	c := aggregator.channels[ch]
	c.lock.RLock()
	defer c.lock.RUnlock()

	return c.state
}

// History returns a copy of the display history, oldest first
func (aggregator *Aggregator) History(ch int) []dsp.Level {
	c := aggregator.channels[ch]
	c.lock.RLock()
	defer c.lock.RUnlock()

	history := make([]dsp.Level, len(c.history))
	copy(history, c.history)

	return history
}

func (aggregator *Aggregator) Snapshot(ch int) Snapshot {
	c := aggregator.channels[ch]
	c.lock.RLock()
	defer c.lock.RUnlock()

	return Snapshot{
		Current: c.current,
		Average: c.average,
		State:   c.state,
		Feeds:   c.feeds,
	}
}

func appendBounded(buffer []dsp.Level, level dsp.Level, capacity int) []dsp.Level {
	if len(buffer) >= capacity {
		// shift in place so the backing array never grows
		copy(buffer, buffer[len(buffer)-capacity+1:])
		buffer = buffer[:capacity-1]
	}

	return append(buffer, level)
}
