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
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"fox-spl/audio"
	"fox-spl/dsp"
	"fox-spl/reaper"
	"fox-spl/util"
)

const (
	PrimaryChannel   = 0
	SecondaryChannel = 1

	initialRetryDelay = 100 * time.Millisecond
	maxRetryDelay     = 5 * time.Second
)

// Modes exposes the user toggles the capture loop consults once per block
type Modes interface {
	AWeighting() bool
	Split() bool
}

type Stream int8

const (
	PrimaryStream Stream = iota
	SecondaryStream
)

type CaptureOptions struct {
	Stream           Stream
	HasSecondary     bool
	FramesPerBlock   int
	Filters          *dsp.FilterBank
	CarryFilterState bool
}

type CaptureStats struct {
	Blocks          uint64
	Dropped         uint64
	Errors          uint64
	ProcessingNanos uint64
}

// Capture turns blocks from one audio source into levels on the aggregator.
type Capture struct {
	name         string
	source       audio.Source
	aggregator   *Aggregator
	modes        Modes
	stream       Stream
	hasSecondary bool
	block        []int16

	aWeighting *dsp.Filter
	lowPass    *dsp.Filter
	highPass   *dsp.Filter

	reaper  *reaper.Reaper
	backoff *util.Backoff

	blocks          atomic.Uint64
	dropped         atomic.Uint64
	errors          atomic.Uint64
	processingNanos atomic.Uint64
}

func NewCapture(source audio.Source, aggregator *Aggregator, modes Modes, r *reaper.Reaper, options CaptureOptions) *Capture {
	name := "capture primary"
	if options.Stream == SecondaryStream {
		name = "capture secondary"
	}

	blockSize := max(options.FramesPerBlock, 1) * max(source.Channels(), 1)

	return &Capture{
		name:         name,
		source:       source,
		aggregator:   aggregator,
		modes:        modes,
		stream:       options.Stream,
		hasSecondary: options.HasSecondary,
		block:        make([]int16, blockSize),

		aWeighting: dsp.NewFilter(options.Filters.AWeighting, options.CarryFilterState),
		lowPass:    dsp.NewFilter(options.Filters.LowPass, options.CarryFilterState),
		highPass:   dsp.NewFilter(options.Filters.HighPass, options.CarryFilterState),

		reaper:  r,
		backoff: util.NewBackoff(initialRetryDelay, maxRetryDelay),
	}
}

func (capture *Capture) Name() string {
	return capture.name
}

// Start launches the read loop on its own goroutine. It stops at the top of
// the next iteration once the reaper has been triggered.
func (capture *Capture) Start() {
	capture.reaper.Register(capture.name)

	go func() {
		defer capture.reaper.Done(capture.name)

		slog.Info(fmt.Sprintf("%s: reading from %s", capture.name, capture.source.Name()))

		for !capture.reaper.Reaped() {
			capture.readOnce()
		}

		slog.Info(capture.name + ": stopped")
	}()
}

func (capture *Capture) readOnce() {
	err := capture.source.Read(capture.block)

	switch {
	case err == nil:
		capture.backoff.Reset()
		capture.Process(capture.block)

	case errors.Is(err, audio.ErrOverflow):
		capture.dropped.Add(1)
		util.TraceLog(capture.name + ": dropped overflowed block")

	case capture.reaper.Reaped():
		// the source was closed to unblock us

	default:
		capture.errors.Add(1)
		delay := capture.backoff.Next()
		slog.Error(fmt.Sprintf("%s: %s, retrying in %s", capture.name, err.Error(), delay))
		capture.sleep(delay)
	}
}

func (capture *Capture) sleep(delay time.Duration) {
	deadline := time.Now().Add(delay)

	for time.Now().Before(deadline) && !capture.reaper.Reaped() {
		time.Sleep(min(50*time.Millisecond, time.Until(deadline)))
	}
}

// Process converts one block into levels and feeds them to the aggregator.
// The modes are sampled once so a block is never half processed in one mode
// and half in another.
func (capture *Capture) Process(block []int16) {
	start := time.Now()

	aWeighting := capture.modes.AWeighting()
	onlyStream := capture.stream == PrimaryStream && !capture.hasSecondary
	split := onlyStream && capture.modes.Split()

	target := PrimaryChannel
	if capture.stream == SecondaryStream {
		target = SecondaryChannel
	}

	switch {
	case split:
		high := dsp.BlockLevel(capture.highPass.Apply(block))
		low := dsp.BlockLevel(capture.lowPass.Apply(block))

		capture.aggregator.Feed(PrimaryChannel, high)
		capture.aggregator.Feed(SecondaryChannel, low)

	case aWeighting:
		capture.aggregator.Feed(target, dsp.BlockLevel(capture.aWeighting.Apply(block)))

	default:
		capture.aggregator.Feed(target, dsp.BlockLevel(block))
	}

	// nothing else drives the second channel
	if onlyStream && !split {
		capture.aggregator.Feed(SecondaryChannel, dsp.Silence)
	}

	capture.blocks.Add(1)
	capture.processingNanos.Add(uint64(time.Since(start).Nanoseconds()))
}

func (capture *Capture) Stats() CaptureStats {
	return CaptureStats{
		Blocks:          capture.blocks.Load(),
		Dropped:         capture.dropped.Load(),
		Errors:          capture.errors.Load(),
		ProcessingNanos: capture.processingNanos.Load(),
	}
}
