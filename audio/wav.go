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
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WavSource loops a 16-bit WAV file in real time. Multi channel files are
// mixed down to mono.
type WavSource struct {
	FilePath string

	lock       sync.Mutex
	fileHandle *os.File
	decoder    *wav.Decoder
	sampleRate int
	channels   int
	intBuf     *audio.IntBuffer
	pace       *pacer
	closed     bool
}

func NewWavSource(filePath string) (*WavSource, error) {
	source := &WavSource{FilePath: filePath}

	if err := source.open(); err != nil {
		return nil, err
	}

	source.pace = newPacer(source.sampleRate)

	return source, nil
}

func (source *WavSource) open() error {
	f, err := os.Open(source.FilePath)
	if err != nil {
		return err
	}

	decoder := wav.NewDecoder(f)
	if !decoder.IsValidFile() {
		f.Close()
		return fmt.Errorf("%s is not a valid wav file", source.FilePath)
	}

	if decoder.BitDepth != 16 {
		f.Close()
		return fmt.Errorf("%s is %d bit, only 16 bit wav files are supported", source.FilePath, decoder.BitDepth)
	}

	if err := decoder.FwdToPCM(); err != nil {
		f.Close()
		return err
	}

	source.fileHandle = f
	source.decoder = decoder
	source.sampleRate = int(decoder.SampleRate)
	source.channels = int(decoder.NumChans)

	return nil
}

func (source *WavSource) rewind() error {
	source.fileHandle.Close()
	return source.open()
}

func (source *WavSource) Name() string {
	return "wav " + filepath.Base(source.FilePath)
}

func (source *WavSource) SampleRate() int {
	return source.sampleRate
}

func (source *WavSource) Channels() int {
	return 1
}

func (source *WavSource) Read(block []int16) error {
	source.lock.Lock()
	defer source.lock.Unlock()

	if source.closed {
		return ErrClosed
	}

	need := len(block) * source.channels
	if source.intBuf == nil || len(source.intBuf.Data) != need {
		source.intBuf = &audio.IntBuffer{
			Data: make([]int, need),
			Format: &audio.Format{
				NumChannels: source.channels,
				SampleRate:  source.sampleRate,
			},
		}
	}

	filled := 0
	rewound := false

	for filled < need {
		chunk := &audio.IntBuffer{Data: source.intBuf.Data[filled:need], Format: source.intBuf.Format}

		n, err := source.decoder.PCMBuffer(chunk)
		if err != nil {
			return err
		}

		if n == 0 {
			// an empty file would spin forever
			if rewound {
				return errors.New(source.FilePath + " has no samples")
			}

			if err := source.rewind(); err != nil {
				return err
			}
			rewound = true
			continue
		}

		filled += n
		rewound = false
	}

	for i := range block {
		sum := 0
		for ch := range source.channels {
			sum += source.intBuf.Data[i*source.channels+ch]
		}
		block[i] = int16(sum / source.channels)
	}

	source.pace.wait(len(block))

	return nil
}

func (source *WavSource) Close() error {
	source.lock.Lock()
	defer source.lock.Unlock()

	source.closed = true

	if source.fileHandle != nil {
		return source.fileHandle.Close()
	}

	return nil
}

// pacer sleeps so that frames are delivered no faster than the sample rate
type pacer struct {
	sampleRate int
	started    time.Time
	frames     int64
}

func newPacer(sampleRate int) *pacer {
	return &pacer{sampleRate: max(sampleRate, 1)}
}

func (p *pacer) wait(frames int) {
	if p.started.IsZero() {
		p.started = time.Now()
	}

	p.frames += int64(frames)
	due := p.started.Add(time.Duration(p.frames * int64(time.Second) / int64(p.sampleRate)))

	if delay := time.Until(due); delay > 0 {
		time.Sleep(delay)
	} else if delay < -time.Second {
		// fell far behind, start counting again rather than bursting
		p.started = time.Now()
		p.frames = 0
	}
}
