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
package dsp

import "math"

// Level is an inverted loudness in dB below full scale. 0 is the loudest a
// block can be and 48 means silence.
type Level float64

const (
	Loudest Level = 0
	Silence Level = 48

	pcmFullScale = 32768.0
)

type Sample interface {
	~int16 | ~float64
}

// RMS of a block normalized to 16-bit full scale. An empty block is 0.
func RMS[T Sample](samples []T) float64 {
	if len(samples) == 0 {
		return 0
	}

	sumSquares := 0.0
	for _, sample := range samples {
		n := float64(sample) / pcmFullScale
		sumSquares += n * n
	}

	return math.Sqrt(sumSquares / float64(len(samples)))
}

// ToLevel converts an RMS value to a Level clamped to [Loudest, Silence].
func ToLevel(rms float64) Level {
	if rms == 0 || math.IsNaN(rms) {
		return Silence
	}

	db := math.Abs(20 * math.Log10(rms))

	return Level(max(float64(Loudest), min(float64(Silence), db)))
}

func BlockLevel[T Sample](samples []T) Level {
	return ToLevel(RMS(samples))
}
