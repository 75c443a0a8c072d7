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
	"log/slog"
	"time"

	"fox-spl/audio"
	"fox-spl/model"
)

// simulatedSources stands in for the microphone, and the line input when
// there is one, with tones that wander in level
func simulatedSources(config *model.Config) []audio.Source {
	options := audio.SimulationOptions{
		SampleRate: config.Rate,
		Frequency:  config.Simulation.Frequency,
		MinLevel:   config.Simulation.MinLevel,
		MaxLevel:   config.Simulation.MaxLevel,
		Realtime:   true,
	}

	seed := uint64(time.Now().UnixNano())

	sources := []audio.Source{audio.NewSimulatedSource(options, seed)}

	if config.LineIn {
		// an octave up so the two streams differ
		second := options
		second.Frequency *= 2
		sources = append(sources, audio.NewSimulatedSource(second, seed+1))
	}

	slog.Info("Simulating audio input")

	return sources
}
