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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestReapRunsCallbacksInReverseOnce(t *testing.T) {
	r := New()
	order := make([]string, 0)

	r.Callback("first", func() { order = append(order, "first") })
	r.Callback("second", func() { order = append(order, "second") })

	assert.False(t, r.Reaped())

	r.Reap()
	r.Reap()

	assert.True(t, r.Reaped())
	assert.Equal(t, []string{"second", "first"}, order)
}

func TestWaitBlocksUntilDone(t *testing.T) {
	r := New()
	r.Register("worker")
	r.Register("worker")

	finished := make(chan bool)
	go func() {
		r.Wait()
		finished <- true
	}()

	select {
	case <-finished:
		t.Fatal("wait returned before the worker was done")
	case <-time.After(20 * time.Millisecond):
	}

	r.Done("worker")
	r.Done("worker")

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("wait never returned")
	}
}
