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
	"sync"
	"sync/atomic"
	"testing"

	"fox-spl/dsp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var musicThresholds = ThresholdSet{Quiet: 15, Loud: 3}

type countingListener struct {
	count atomic.Int32
}

func (l *countingListener) Invalidate() {
	l.count.Add(1)
}

func TestAggregatorHistoryIsBounded(t *testing.T) {
	aggregator := NewAggregator(5, 3, StatisticMean, musicThresholds)

	for i := range 10 {
		aggregator.Feed(0, dsp.Level(i))
	}

	assert.Equal(t, []dsp.Level{5, 6, 7, 8, 9}, aggregator.History(0))
	assert.Equal(t, dsp.Level(9), aggregator.Current(0))
	assert.InDelta(t, 8.0, float64(aggregator.Average(0)), 1e-9)
	assert.Empty(t, aggregator.History(1))
}

func TestAggregatorHistoryCopyIsIndependent(t *testing.T) {
	aggregator := NewAggregator(5, 3, StatisticMean, musicThresholds)
	aggregator.Feed(0, 10)

	history := aggregator.History(0)
	history[0] = 40

	assert.Equal(t, dsp.Level(10), aggregator.History(0)[0])
}

func TestAggregatorMinStatistic(t *testing.T) {
	aggregator := NewAggregator(10, 3, StatisticMin, musicThresholds)

	for _, level := range []dsp.Level{1, 20, 30, 40} {
		aggregator.Feed(1, level)
	}

	// 1 has left the window
	assert.Equal(t, dsp.Level(20), aggregator.Average(1))
	assert.Equal(t, StatisticMin, aggregator.Statistic())
}

func TestAggregatorClampsLevels(t *testing.T) {
	aggregator := NewAggregator(10, 3, StatisticMean, musicThresholds)

	aggregator.Feed(0, 90)
	assert.Equal(t, dsp.Silence, aggregator.Current(0))

	aggregator.Feed(0, -4)
	assert.Equal(t, dsp.Loudest, aggregator.Current(0))
}

func TestClassificationDirection(t *testing.T) {
	assert.Equal(t, TooQuiet, musicThresholds.Classify(48))
	assert.Equal(t, TooQuiet, musicThresholds.Classify(15))
	assert.Equal(t, Acceptable, musicThresholds.Classify(14.9))
	assert.Equal(t, Acceptable, musicThresholds.Classify(3.1))
	assert.Equal(t, TooLoud, musicThresholds.Classify(3))
	assert.Equal(t, TooLoud, musicThresholds.Classify(0))
}

func TestClassificationIsMonotonic(t *testing.T) {
	rank := map[Classification]int{TooLoud: 0, Acceptable: 1, TooQuiet: 2}

	previous := rank[musicThresholds.Classify(0)]
	for level := 0.0; level <= 48; level += 0.25 {
		current := rank[musicThresholds.Classify(dsp.Level(level))]
		assert.GreaterOrEqual(t, current, previous, "level %v", level)
		previous = current
	}
}

func TestAggregatorInvalidation(t *testing.T) {
	aggregator := NewAggregator(10, 1, StatisticMean, musicThresholds)

	levelListener := &countingListener{}
	stateListener := &countingListener{}
	otherStateListener := &countingListener{}

	aggregator.BindLevel(levelListener)
	aggregator.BindState(0, stateListener)
	aggregator.BindState(1, otherStateListener)

	// starts acceptable, so the first quiet block is a change
	assert.Equal(t, TooQuiet, aggregator.Feed(0, 40))
	assert.Equal(t, TooQuiet, aggregator.Feed(0, 41))
	assert.Equal(t, TooQuiet, aggregator.Feed(0, 42))
	assert.Equal(t, TooLoud, aggregator.Feed(0, 1))

	assert.Equal(t, int32(4), levelListener.count.Load())
	assert.Equal(t, int32(2), stateListener.count.Load())
	assert.Equal(t, int32(0), otherStateListener.count.Load())
}

func TestAggregatorSetThresholds(t *testing.T) {
	aggregator := NewAggregator(10, 1, StatisticMean, musicThresholds)

	assert.Equal(t, TooQuiet, aggregator.Feed(0, 20))

	speech := ThresholdSet{Quiet: 30, Loud: 12}
	aggregator.SetThresholds(speech)

	assert.Equal(t, speech, aggregator.Thresholds())
	assert.Equal(t, Acceptable, aggregator.Feed(0, 20))
	assert.Equal(t, Acceptable, aggregator.Snapshot(0).State)
}

func TestAggregatorConcurrentAccess(t *testing.T) {
	aggregator := NewAggregator(50, 5, StatisticMean, musicThresholds)
	wg := sync.WaitGroup{}

	for ch := range Channels {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range 2000 {
				aggregator.Feed(ch, dsp.Level(i%49))
			}
		}()
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := range 500 {
			if i%2 == 0 {
				aggregator.SetThresholds(ThresholdSet{Quiet: 30, Loud: 12})
			} else {
				aggregator.SetThresholds(musicThresholds)
			}
			_ = aggregator.History(0)
			_ = aggregator.Snapshot(1)
		}
	}()

	wg.Wait()

	for ch := range Channels {
		snapshot := aggregator.Snapshot(ch)
		require.Equal(t, uint64(2000), snapshot.Feeds)
		assert.Len(t, aggregator.History(ch), 50)
	}
}

func TestParseStatistic(t *testing.T) {
	statistic, err := ParseStatistic("min")
	require.NoError(t, err)
	assert.Equal(t, StatisticMin, statistic)

	statistic, err = ParseStatistic("")
	require.NoError(t, err)
	assert.Equal(t, StatisticMean, statistic)

	_, err = ParseStatistic("median")
	assert.Error(t, err)
}
