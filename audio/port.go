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
	"sync/atomic"

	"github.com/hairlesshobo/go-jack"
)

type PortDirection int8

const (
	In PortDirection = iota
	Out
)

// queued periods per port before the process callback starts dropping
const portQueueDepth = 64

type Port struct {
	portDirection PortDirection
	myName        string
	connected     bool
	jackName      string
	jackPort      *jack.Port
	buffer        chan []float32
	overflowed    atomic.Bool
}

func newPort(direction PortDirection, myName string, jackName string) *Port {
	return &Port{
		portDirection: direction,
		myName:        myName,
		jackName:      jackName,
		connected:     false,
		buffer:        make(chan []float32, portQueueDepth),
	}
}

func (port *Port) setJackPort(jackPort *jack.Port) {
	port.jackPort = jackPort
}

func (port *Port) Name() string {
	return port.myName
}

func (port *Port) JackName() string {
	return port.jackName
}

func (port *Port) Connected() bool {
	return port.connected
}

func (port *Port) GetJackBuffer(nframes uint32) []jack.AudioSample {
	return port.jackPort.GetBuffer(nframes)
}

// enqueue copies one period out of the JACK buffer. It never blocks the
// realtime thread, a full queue marks the port overflowed instead.
func (port *Port) enqueue(nframes uint32) {
	samplesIn := port.GetJackBuffer(nframes)
	period := make([]float32, len(samplesIn))

	for i, sample := range samplesIn {
		period[i] = float32(sample)
	}

	select {
	case port.buffer <- period:
	default:
		port.overflowed.Store(true)
	}
}

func (port *Port) markOverflowed() {
	port.overflowed.Store(true)
}

// Utilization is the share of the queue currently in use, 0 to 1
func (port *Port) Utilization() float64 {
	return float64(len(port.buffer)) / float64(cap(port.buffer))
}
