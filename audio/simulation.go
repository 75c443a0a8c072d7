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
package audio

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sync"
)

type SimulationOptions struct {
	SampleRate int
	Frequency  float64
	// the level wanders between these, in dB below full scale
	MinLevel float64
	MaxLevel float64
	// Realtime paces reads to the sample rate, tests turn it off
	Realtime bool
}

// SimulatedSource produces a tone whose loudness takes a random walk. It
// stands in for hardware when running with --simulate.
type SimulatedSource struct {
	options SimulationOptions

	lock   sync.Mutex
	phase  float64
	level  float64
	rng    *rand.Rand
	pace   *pacer
	closed bool
}

func NewSimulatedSource(options SimulationOptions, seed uint64) *SimulatedSource {
	if options.MaxLevel < options.MinLevel {
		options.MinLevel, options.MaxLevel = options.MaxLevel, options.MinLevel
	}

	return &SimulatedSource{
		options: options,
		level:   (options.MinLevel + options.MaxLevel) / 2,
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		pace:    newPacer(options.SampleRate),
	}
}

func (source *SimulatedSource) Name() string {
	return fmt.Sprintf("simulated %.0f Hz tone", source.options.Frequency)
}

func (source *SimulatedSource) SampleRate() int {
	return source.options.SampleRate
}

func (source *SimulatedSource) Channels() int {
	return 1
}

func (source *SimulatedSource) Read(block []int16) error {
	source.lock.Lock()

	if source.closed {
		source.lock.Unlock()
		return ErrClosed
	}

	source.level += (source.rng.Float64() - 0.5) * 4
	source.level = max(source.options.MinLevel, min(source.options.MaxLevel, source.level))

	amplitude := min(math.Pow(10, -source.level/20)*math.Sqrt2*32768, math.MaxInt16)
	step := 2 * math.Pi * source.options.Frequency / float64(max(source.options.SampleRate, 1))

	for i := range block {
		block[i] = int16(amplitude * math.Sin(source.phase))
		source.phase = math.Mod(source.phase+step, 2*math.Pi)
	}

	source.lock.Unlock()

	if source.options.Realtime {
		source.pace.wait(len(block))
	}

	return nil
}

// Level reports the level the last block was generated at
func (source *SimulatedSource) Level() float64 {
	source.lock.Lock()
	defer source.lock.Unlock()

	return source.level
}

func (source *SimulatedSource) Close() error {
	source.lock.Lock()
	defer source.lock.Unlock()

	source.closed = true

	return nil
}
