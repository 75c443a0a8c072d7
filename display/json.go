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
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"fox-spl/meter"
)

// ModeReporter is whatever holds the current mode switches and the labels
// the indicators show
type ModeReporter interface {
	AWeighting() bool
	Split() bool
	Speech() bool
	Labels() [meter.Channels]string
}

//
// types
//

// JsonUI replaces the screen with one JSON document per line on the output,
// for running without a display
type JsonUI struct {
	shutdownChannel chan bool
	shutdownOnce    sync.Once

	output     io.Writer
	outputLock sync.Mutex
	interval   time.Duration
	started    time.Time

	aggregator *meter.Aggregator
	modes      ModeReporter
	errorCount atomic.Uint64
}

//
// constructor
//

func NewJsonUI(output io.Writer, aggregator *meter.Aggregator, modes ModeReporter, interval time.Duration) *JsonUI {
	return &JsonUI{
		shutdownChannel: make(chan bool),

		output:   output,
		interval: max(interval, 10*time.Millisecond),

		aggregator: aggregator,
		modes:      modes,
	}
}

// Run prints a status and a level snapshot every interval until Shutdown
func (j *JsonUI) Run() {
	slog.Debug("JSON loop started")

	j.started = time.Now()
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		j.printJson(j.getStatus())
		j.printJson(j.getLevels())

		select {
		case <-j.shutdownChannel:
			slog.Info("JSON UI shutting down")
			return
		case <-ticker.C:
		}
	}
}

func (j *JsonUI) Shutdown() {
	j.shutdownOnce.Do(func() {
		slog.Debug("Shutting down JSON UI")
		close(j.shutdownChannel)
	})
}

func (j *JsonUI) IncrementErrorCount() {
	j.errorCount.Add(1)
}

func (j *JsonUI) WriteLevelLog(level slog.Level, message string) {
	logObj := JsonLog{
		MessageType: "log",

		Date:    time.Now().Format(time.RFC3339),
		Level:   level.String(),
		Message: message,
	}

	j.printJson(logObj)
}

//
// private functions
//

func (j *JsonUI) printJson(v any) {
	jsonBytes, err := json.Marshal(v)

	if err != nil {
		slog.Error("Error marshalling to JSON: " + err.Error())
		return
	}

	j.outputLock.Lock()
	defer j.outputLock.Unlock()

	fmt.Fprintln(j.output, string(jsonBytes))
}

func (j *JsonUI) getStatus() *JsonStatus {
	return &JsonStatus{
		MessageType: "status",

		Uptime:     time.Since(j.started).Seconds(),
		ErrorCount: j.errorCount.Load(),
		Statistic:  j.aggregator.Statistic().String(),
		Speech:     j.modes.Speech(),
		Split:      j.modes.Split(),
		AWeighting: j.modes.AWeighting(),
	}
}

func (j *JsonUI) getLevels() *JsonLevels {
	thresholds := j.aggregator.Thresholds()

	levels := &JsonLevels{
		MessageType: "levels",

		Thresholds: JsonThresholds{
			Quiet: float64(thresholds.Quiet),
			Loud:  float64(thresholds.Loud),
		},
		Channels: make([]JsonChannel, 0, meter.Channels),
	}

	// labels follow config reloads and split mode
	labels := j.modes.Labels()

	for ch := range meter.Channels {
		snapshot := j.aggregator.Snapshot(ch)

		levels.Channels = append(levels.Channels, JsonChannel{
			Label:   labels[ch],
			Current: float64(snapshot.Current),
			Average: float64(snapshot.Average),
			State:   snapshot.State.String(),
			Feeds:   snapshot.Feeds,
		})
	}

	return levels
}
