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
	"errors"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/transforms"
)

var (
	// ErrOverflow means samples were lost since the previous read. The
	// caller should drop the block it asked for.
	ErrOverflow = errors.New("input overflowed")

	// ErrClosed is returned by reads once Close has been called
	ErrClosed = errors.New("source closed")
)

// Source delivers blocks of interleaved signed 16-bit PCM. Read blocks until
// the whole block is filled, the source overflows or it is closed.
type Source interface {
	Name() string
	SampleRate() int
	Channels() int
	Read(block []int16) error
	Close() error
}

// floatToPCM16 scales [-1, 1] float samples onto the 16-bit PCM range
func floatToPCM16(dst []int16, samples []float32, sampleRate int) int {
	count := min(len(dst), len(samples))
	if count == 0 {
		return 0
	}

	fBuf := &audio.Float32Buffer{
		Data: append([]float32(nil), samples[:count]...),
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
	}

	transforms.PCMScaleF32(fBuf, 16)

	iBuf := fBuf.AsIntBuffer()

	for i, sample := range iBuf.Data {
		dst[i] = int16(max(math.MinInt16, min(math.MaxInt16, sample)))
	}

	return count
}
