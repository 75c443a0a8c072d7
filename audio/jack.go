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
	"sync"
)

// JackSource reads one registered capture port of a JackServer
type JackSource struct {
	server  *JackServer
	port    *Port
	pending []float32
	closed  chan bool
	once    sync.Once
}

func NewJackSource(server *JackServer, port *Port) *JackSource {
	return &JackSource{
		server: server,
		port:   port,
		closed: make(chan bool),
	}
}

func (source *JackSource) Name() string {
	return "jack " + source.port.JackName()
}

func (source *JackSource) SampleRate() int {
	return source.server.GetSampleRate()
}

func (source *JackSource) Channels() int {
	return 1
}

func (source *JackSource) Read(block []int16) error {
	if source.port.overflowed.Swap(false) {
		source.pending = nil
		return ErrOverflow
	}

	filled := 0

	for filled < len(block) {
		if len(source.pending) == 0 {
			select {
			case period := <-source.port.buffer:
				source.pending = period
			case <-source.closed:
				return ErrClosed
			}
		}

		n := floatToPCM16(block[filled:], source.pending, source.SampleRate())
		source.pending = source.pending[n:]
		filled += n
	}

	return nil
}

func (source *JackSource) Close() error {
	source.once.Do(func() {
		close(source.closed)
	})

	return nil
}
