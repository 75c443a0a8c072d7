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

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-dsp/dsp/filter/biquad"
	"github.com/cwbudde/algo-dsp/dsp/filter/design/pass"
)

var ErrInvalidParameter = errors.New("invalid filter parameter")

type PassType int8

const (
	LowPass PassType = iota
	HighPass
)

// DefaultOrder is the Butterworth order used for the split filters
const DefaultOrder = 5

// analog A-weighting pole frequencies in Hz, and the gain (dB) that
// brings the curve to 0 dB at 1 kHz
const (
	aWeightingF1    = 20.598997
	aWeightingF2    = 107.65265
	aWeightingF3    = 737.86223
	aWeightingF4    = 12194.217
	aWeightingA1000 = 1.9997
)

func (p PassType) String() string {
	switch p {
	case LowPass:
		return "low"
	case HighPass:
		return "high"
	}
	return "unknown"
}

// Coefficients describes a direct form IIR filter. B is the numerator and A
// the denominator, both ordered by increasing delay, with A[0] == 1.
type Coefficients struct {
	B []float64
	A []float64
}

func (c Coefficients) Order() int {
	return max(len(c.B), len(c.A)) - 1
}

// Response evaluates the transfer function on the unit circle at freq Hz.
func (c Coefficients) Response(freq float64, sampleRate float64) complex128 {
	w := 2 * math.Pi * freq / sampleRate
	zInv := cmplx.Exp(complex(0, -w))

	eval := func(poly []float64) complex128 {
		sum := complex(0, 0)
		zk := complex(1, 0)
		for _, coefficient := range poly {
			sum += complex(coefficient, 0) * zk
			zk *= zInv
		}
		return sum
	}

	return eval(c.B) / eval(c.A)
}

func (c Coefficients) MagnitudeDB(freq float64, sampleRate float64) float64 {
	return 20 * math.Log10(cmplx.Abs(c.Response(freq, sampleRate)))
}

// FilterBank holds every coefficient set the capture loops need for one
// sample rate.
type FilterBank struct {
	SampleRate     float64
	SplitFrequency float64
	AWeighting     Coefficients
	LowPass        Coefficients
	HighPass       Coefficients
}

func NewFilterBank(sampleRate float64, splitFrequency float64, order int) (*FilterBank, error) {
	aWeighting, err := DeriveAWeighting(sampleRate)
	if err != nil {
		return nil, err
	}

	lowPass, err := DeriveBandFilter(splitFrequency, sampleRate, LowPass, order)
	if err != nil {
		return nil, err
	}

	highPass, err := DeriveBandFilter(splitFrequency, sampleRate, HighPass, order)
	if err != nil {
		return nil, err
	}

	return &FilterBank{
		SampleRate:     sampleRate,
		SplitFrequency: splitFrequency,
		AWeighting:     aWeighting,
		LowPass:        lowPass,
		HighPass:       highPass,
	}, nil
}

// DeriveAWeighting maps the analog A-weighting curve into the z domain with
// the bilinear transform. No frequency pre-warping is applied.
func DeriveAWeighting(sampleRate float64) (Coefficients, error) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return Coefficients{}, fmt.Errorf("%w: sample rate %v", ErrInvalidParameter, sampleRate)
	}

	w1 := 2 * math.Pi * aWeightingF1
	w2 := 2 * math.Pi * aWeightingF2
	w3 := 2 * math.Pi * aWeightingF3
	w4 := 2 * math.Pi * aWeightingF4

	num := []float64{w4 * w4 * math.Pow(10, aWeightingA1000/20), 0, 0, 0, 0}

	den := polymul([]float64{1, 2 * w4, w4 * w4}, []float64{1, 2 * w1, w1 * w1})
	den = polymul(den, []float64{1, w3})
	den = polymul(den, []float64{1, w2})

	b, a := bilinear(num, den, sampleRate)

	return Coefficients{B: b, A: a}, nil
}

// DeriveBandFilter designs a digital Butterworth low or high pass with the
// cutoff given in Hz. The cutoff must sit strictly between 0 and Nyquist.
func DeriveBandFilter(cutoff float64, sampleRate float64, kind PassType, order int) (Coefficients, error) {
	if sampleRate <= 0 || order <= 0 {
		return Coefficients{}, fmt.Errorf("%w: sample rate %v, order %d", ErrInvalidParameter, sampleRate, order)
	}

	normalCutoff := cutoff / (0.5 * sampleRate)
	if normalCutoff <= 0 || normalCutoff >= 1 || math.IsNaN(normalCutoff) {
		return Coefficients{}, fmt.Errorf("%w: cutoff %v Hz outside (0, %v)", ErrInvalidParameter, cutoff, sampleRate/2)
	}

	var sections []biquad.Coefficients

	switch kind {
	case LowPass:
		sections = pass.ButterworthLP(cutoff, order, sampleRate)
	case HighPass:
		sections = pass.ButterworthHP(cutoff, order, sampleRate)
	default:
		return Coefficients{}, fmt.Errorf("%w: pass type %d", ErrInvalidParameter, kind)
	}

	b := []float64{1}
	a := []float64{1}

	for _, section := range sections {
		b = polymul(b, []float64{section.B0, section.B1, section.B2})
		a = polymul(a, []float64{1, section.A1, section.A2})
	}

	// odd orders end in a first order section, leaving a zero tail
	return Coefficients{B: b[:order+1], A: a[:order+1]}, nil
}

// polymul multiplies two polynomials, highest power first.
func polymul(p []float64, q []float64) []float64 {
	out := make([]float64, len(p)+len(q)-1)

	for i, pv := range p {
		for j, qv := range q {
			out[i+j] += pv * qv
		}
	}

	return out
}

// bilinear converts an analog transfer function (highest power of s first)
// into digital coefficients ordered by increasing delay, normalized so that
// a[0] == 1.
func bilinear(b []float64, a []float64, sampleRate float64) ([]float64, []float64) {
	m := max(len(b), len(a)) - 1
	fs2 := 2 * sampleRate

	bPrime := bilinearPoly(b, m, fs2)
	aPrime := bilinearPoly(a, m, fs2)

	norm := aPrime[0]
	for i := range bPrime {
		bPrime[i] /= norm
	}
	for i := range aPrime {
		aPrime[i] /= norm
	}

	return bPrime, aPrime
}

func bilinearPoly(poly []float64, m int, fs2 float64) []float64 {
	n := len(poly) - 1
	out := make([]float64, m+1)

	for i := 0; i <= n; i++ {
		coefficient := poly[n-i] * math.Pow(fs2, float64(i))

		for k := 0; k <= i; k++ {
			sign := 1.0
			if k%2 == 1 {
				sign = -1.0
			}

			for l := 0; l <= m-i; l++ {
				out[k+l] += binomial(i, k) * binomial(m-i, l) * coefficient * sign
			}
		}
	}

	return out
}

func binomial(n int, k int) float64 {
	if k < 0 || k > n {
		return 0
	}

	result := 1.0
	for i := 1; i <= k; i++ {
		result = result * float64(n-k+i) / float64(i)
	}

	return result
}
