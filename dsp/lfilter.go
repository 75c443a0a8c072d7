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

// Filter runs a Coefficients set over blocks of samples in direct form II
// transposed. A Filter is owned by a single capture loop and is not safe
// for concurrent use.
type Filter struct {
	b          []float64
	a          []float64
	state      []float64
	carryState bool
}

// NewFilter prepares a filter for the given coefficients. When carryState is
// false every block starts from a zero delay line, like a fresh lfilter call.
func NewFilter(coefficients Coefficients, carryState bool) *Filter {
	n := max(len(coefficients.B), len(coefficients.A), 1)

	filter := &Filter{
		b:          make([]float64, n),
		a:          make([]float64, n),
		state:      make([]float64, n-1),
		carryState: carryState,
	}

	copy(filter.b, coefficients.B)
	copy(filter.a, coefficients.A)

	// normalize so a[0] == 1
	if a0 := filter.a[0]; a0 != 0 && a0 != 1 {
		for i := range filter.b {
			filter.b[i] /= a0
			filter.a[i] /= a0
		}
	}

	return filter
}

func (filter *Filter) CarriesState() bool {
	return filter.carryState
}

func (filter *Filter) Reset() {
	clear(filter.state)
}

// Apply filters a block of 16-bit PCM. The output keeps the PCM scale.
func (filter *Filter) Apply(samples []int16) []float64 {
	in := make([]float64, len(samples))
	for i, sample := range samples {
		in[i] = float64(sample)
	}

	return filter.Process(in)
}

func (filter *Filter) Process(samples []float64) []float64 {
	if !filter.carryState {
		filter.Reset()
	}

	out := make([]float64, len(samples))
	n := len(filter.b)
	z := filter.state

	for idx, x := range samples {
		if n == 1 {
			out[idx] = filter.b[0] * x
			continue
		}

		y := filter.b[0]*x + z[0]

		for i := 1; i < n-1; i++ {
			z[i-1] = filter.b[i]*x + z[i] - filter.a[i]*y
		}
		z[n-2] = filter.b[n-1]*x - filter.a[n-1]*y

		out[idx] = y
	}

	return out
}
