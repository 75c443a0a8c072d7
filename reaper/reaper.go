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
package reaper

import (
	"log/slog"
	"slices"
	"sync"
)

// Reaper coordinates a cooperative shutdown. Long running goroutines
// Register themselves and poll Reaped, while Callbacks release whatever
// they might be blocked on (devices, tickers, the screen).
type Reaper struct {
	lock          sync.Mutex
	reapRequested chan bool
	callbacks     []callback
	registrations []string
	waitgroup     sync.WaitGroup
}

type callback struct {
	name         string
	callbackFunc func()
}

var defaultReaper = New()

func New() *Reaper {
	return &Reaper{
		reapRequested: make(chan bool, 1),
		callbacks:     make([]callback, 0),
		registrations: make([]string, 0),
	}
}

// Default returns the process wide reaper used by the package level helpers
func Default() *Reaper {
	return defaultReaper
}

func (r *Reaper) Reaped() bool {
	return len(r.reapRequested) > 0
}

// Reap flags shutdown and runs the callbacks in reverse registration order.
// Only the first call has any effect.
func (r *Reaper) Reap() {
	select {
	case r.reapRequested <- true:
	default:
		return
	}

	r.lock.Lock()
	callbacksReversed := slices.Clone(r.callbacks)
	r.lock.Unlock()

	slices.Reverse(callbacksReversed)

	for _, callback := range callbacksReversed {
		slog.Info("reaper: calling reap callback for '" + callback.name + "'")
		callback.callbackFunc()
	}
}

func (r *Reaper) Callback(name string, callbackFunc func()) {
	r.lock.Lock()
	defer r.lock.Unlock()

	r.callbacks = append(r.callbacks, callback{
		name:         name,
		callbackFunc: callbackFunc,
	})
}

func (r *Reaper) Register(name string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if slices.Contains(r.registrations, name) {
		slog.Warn("reaper: already registered '" + name + "'")
		return
	}

	r.registrations = append(r.registrations, name)
	r.waitgroup.Add(1)
	slog.Debug("reaper: registered '" + name + "'")
}

func (r *Reaper) Done(name string) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !slices.Contains(r.registrations, name) {
		slog.Warn("reaper: already done or doesn't exist: '" + name + "'")
		return
	}

	r.registrations = slices.DeleteFunc(r.registrations, func(test string) bool {
		return test == name
	})

	slog.Debug("reaper: done: '" + name + "'")
	r.waitgroup.Done()
}

func (r *Reaper) Wait() {
	r.waitgroup.Wait()
}

func Reaped() bool {
	return defaultReaper.Reaped()
}

func Reap() {
	defaultReaper.Reap()
}

func Callback(name string, callbackFunc func()) {
	defaultReaper.Callback(name, callbackFunc)
}

func Register(name string) {
	defaultReaper.Register(name)
}

func Done(name string) {
	defaultReaper.Done(name)
}

func Wait() {
	defaultReaper.Wait()
}
