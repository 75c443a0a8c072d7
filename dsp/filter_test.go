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
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-dsp/dsp/filter/weighting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeriveAWeightingShape(t *testing.T) {
	coefficients, err := DeriveAWeighting(48000)
	require.NoError(t, err)

	assert.Len(t, coefficients.B, 7)
	assert.Len(t, coefficients.A, 7)
	assert.InDelta(t, 1.0, coefficients.A[0], 1e-12)
	assert.Equal(t, 6, coefficients.Order())
}

func TestDeriveAWeightingUnityNearOneKilohertz(t *testing.T) {
	for _, rate := range []float64{44100, 48000, 96000} {
		coefficients, err := DeriveAWeighting(rate)
		require.NoError(t, err)

		assert.InDelta(t, 0.0, coefficients.MagnitudeDB(1000, rate), 0.2, "rate %v", rate)
	}
}

func TestDeriveAWeightingMatchesReferenceCurve(t *testing.T) {
	const rate = 48000.0

	coefficients, err := DeriveAWeighting(rate)
	require.NoError(t, err)

	reference := weighting.New(weighting.TypeA, rate)

	for _, freq := range []float64{63, 125, 250, 500, 1000, 2000} {
		assert.InDelta(t, reference.MagnitudeDB(freq, rate), coefficients.MagnitudeDB(freq, rate), 0.5, "freq %v", freq)
	}

	// heavy attenuation at the low end
	assert.Less(t, coefficients.MagnitudeDB(50, rate), -25.0)
}

func TestDeriveAWeightingRejectsBadRate(t *testing.T) {
	_, err := DeriveAWeighting(0)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	_, err = DeriveAWeighting(-44100)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestDeriveBandFilterLowPass(t *testing.T) {
	coefficients, err := DeriveBandFilter(125, 44100, LowPass, DefaultOrder)
	require.NoError(t, err)

	assert.Len(t, coefficients.B, DefaultOrder+1)
	assert.Len(t, coefficients.A, DefaultOrder+1)

	assert.InDelta(t, 1.0, cmplx.Abs(coefficients.Response(0, 44100)), 1e-6)
	assert.InDelta(t, 0.0, cmplx.Abs(coefficients.Response(22050, 44100)), 1e-6)

	// -3 dB at the cutoff
	assert.InDelta(t, -3.01, coefficients.MagnitudeDB(125, 44100), 0.1)
}

func TestDeriveBandFilterHighPass(t *testing.T) {
	coefficients, err := DeriveBandFilter(125, 44100, HighPass, DefaultOrder)
	require.NoError(t, err)

	assert.InDelta(t, 0.0, cmplx.Abs(coefficients.Response(0, 44100)), 1e-6)
	assert.InDelta(t, 1.0, cmplx.Abs(coefficients.Response(22050, 44100)), 1e-6)
	assert.InDelta(t, -3.01, coefficients.MagnitudeDB(125, 44100), 0.1)
}

func TestDeriveBandFilterEvenOrder(t *testing.T) {
	coefficients, err := DeriveBandFilter(1000, 48000, LowPass, 4)
	require.NoError(t, err)

	assert.Len(t, coefficients.B, 5)
	assert.Len(t, coefficients.A, 5)
}

func TestDeriveBandFilterInvalidParameters(t *testing.T) {
	cases := []struct {
		name   string
		cutoff float64
		rate   float64
		order  int
	}{
		{"zero cutoff", 0, 44100, 5},
		{"negative cutoff", -10, 44100, 5},
		{"cutoff at nyquist", 22050, 44100, 5},
		{"cutoff above nyquist", 30000, 44100, 5},
		{"zero order", 125, 44100, 0},
		{"zero rate", 125, 0, 5},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DeriveBandFilter(tc.cutoff, tc.rate, LowPass, tc.order)
			assert.ErrorIs(t, err, ErrInvalidParameter)
		})
	}
}

func TestNewFilterBank(t *testing.T) {
	bank, err := NewFilterBank(44100, 125, DefaultOrder)
	require.NoError(t, err)

	assert.Equal(t, 44100.0, bank.SampleRate)
	assert.Len(t, bank.AWeighting.B, 7)
	assert.Len(t, bank.LowPass.B, 6)
	assert.Len(t, bank.HighPass.B, 6)

	_, err = NewFilterBank(44100, 30000, DefaultOrder)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestBinomial(t *testing.T) {
	assert.Equal(t, 1.0, binomial(6, 0))
	assert.Equal(t, 6.0, binomial(6, 1))
	assert.Equal(t, 20.0, binomial(6, 3))
	assert.Equal(t, 0.0, binomial(3, 4))
}

func TestPolymul(t *testing.T) {
	// (x + 1)(x - 1) = x^2 - 1
	assert.Equal(t, []float64{1, 0, -1}, polymul([]float64{1, 1}, []float64{1, -1}))
	assert.False(t, math.IsNaN(polymul([]float64{2}, []float64{3})[0]))
}
