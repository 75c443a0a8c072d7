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
package app

import (
	"fmt"
	"log/slog"
	"time"

	"fox-spl/meter"
	"fox-spl/reaper"
	"fox-spl/util"
)

type captureSample struct {
	at    time.Time
	stats meter.CaptureStats
}

// statistics logs the throughput of every capture loop at a fixed interval
type statistics struct {
	captures []*meter.Capture
	previous map[string]captureSample
}

func initStatistics(r *reaper.Reaper, captures []*meter.Capture, interval time.Duration) {
	stats := &statistics{
		captures: captures,
		previous: make(map[string]captureSample),
	}

	processOnInterval(r, "capture stats", interval, stats.report)
}

func (stats *statistics) report() {
	now := time.Now()

	for _, capture := range stats.captures {
		current := capture.Stats()
		last, seen := stats.previous[capture.Name()]
		stats.previous[capture.Name()] = captureSample{at: now, stats: current}

		if !seen {
			continue
		}

		blocks := current.Blocks - last.stats.Blocks
		dropped := current.Dropped - last.stats.Dropped
		errors := current.Errors - last.stats.Errors
		elapsed := now.Sub(last.at).Seconds()

		meanProcess := 0.0
		if blocks > 0 {
			meanProcess = float64(current.ProcessingNanos-last.stats.ProcessingNanos) / float64(blocks) / 1000.0
		}

		if dropped > 0 || errors > 0 {
			slog.Warn(fmt.Sprintf("%s: %d blocks dropped and %d read errors in the last %0.1fs", capture.Name(), dropped, errors, elapsed))
		}

		util.TraceLog(fmt.Sprintf("%s: %d blocks (%0.1f/s), %d dropped, %0.0f us mean processing", capture.Name(), blocks, float64(blocks)/elapsed, dropped, meanProcess))
		slog.Debug(fmt.Sprintf("%s: total %d blocks, %d dropped, %d errors", capture.Name(), current.Blocks, current.Dropped, current.Errors))
	}
}

func processOnInterval(r *reaper.Reaper, name string, interval time.Duration, process func()) {
	r.Register(name)

	stop := make(chan struct{})
	r.Callback(name, func() { close(stop) })

	go func() {
		defer r.Done(name)

		process()

		t := time.NewTicker(interval)
		defer t.Stop()

		for {
			select {
			case <-stop:
				return
			case <-t.C:
				process()
			}
		}
	}()
}
