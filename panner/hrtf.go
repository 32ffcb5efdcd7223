// SPDX-License-Identifier: EPL-2.0

package panner

import "math"

// HRTFMaxITD bounds the fractional interaural delay, in samples, that the
// Woodworth model is allowed to produce (spec §4.6).
const HRTFMaxITD = 64

// CrossfadeSamples is how many samples a lane blends its old and new pan
// parameters over after a direction change, rather than the full block.
const CrossfadeSamples = 64

const headRadiusMeters = 0.0875
const soundSpeedMPS = 343.0

// reduceAngle maps theta into [-pi, pi). Every angle-dependent quantity in
// this package is computed from a reduced angle, which is what makes those
// quantities exactly periodic with period 2*pi — azimuth and azimuth+2*pi
// always produce identical output (spec §8 wraparound property).
func reduceAngle(theta float64) float64 {
	const twoPi = 2 * math.Pi
	theta = math.Mod(theta, twoPi)
	if theta >= math.Pi {
		theta -= twoPi
	} else if theta < -math.Pi {
		theta += twoPi
	}
	return theta
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// woodworthITD returns the per-ear delay, in samples, for a source at the
// given azimuth (0 = front, positive = listener's right) and elevation.
// Exactly one of the two returns is nonzero: the far ear is delayed
// relative to the near one.
func woodworthITD(azimuth, elevation, sampleRate float64) (leftDelay, rightDelay float64) {
	theta := reduceAngle(azimuth)
	elevFactor := math.Max(0.3, math.Cos(elevation))
	itdSeconds := (headRadiusMeters / soundSpeedMPS) * (math.Sin(theta) + theta) * elevFactor
	itdSamples := itdSeconds * sampleRate
	itdSamples = clamp(itdSamples, -HRTFMaxITD, HRTFMaxITD)
	if itdSamples >= 0 {
		return itdSamples, 0
	}
	return 0, -itdSamples
}

// ildGains returns the per-ear amplitude gain and spectral-smoothing
// coefficient for a source at the given azimuth/elevation. The far ear gets
// both less gain and more smoothing (high-frequency loss), approximating
// head shadowing without a measured HRIR table.
func ildGains(azimuth, elevation float64) (leftGain, rightGain, leftSmooth, rightSmooth float64) {
	theta := reduceAngle(azimuth)
	pan := clamp(theta/(math.Pi/2), -1, 1)
	l, r := equalPowerGains(pan)
	elevAtten := math.Max(0.5, math.Cos(elevation))
	leftGain = l * elevAtten
	rightGain = r * elevAtten
	leftSmooth = 0.3 + 0.7*l
	rightSmooth = 0.3 + 0.7*r
	return
}

type hrtfParams struct {
	leftDelay, rightDelay     float64
	leftGain, rightGain       float64
	leftSmooth, rightSmooth   float64
}

func computeHRTFParams(azimuth, elevation, sampleRate float64) hrtfParams {
	ld, rd := woodworthITD(azimuth, elevation, sampleRate)
	lg, rg, ls, rs := ildGains(azimuth, elevation)
	return hrtfParams{leftDelay: ld, rightDelay: rd, leftGain: lg, rightGain: rg, leftSmooth: ls, rightSmooth: rs}
}

func lerp(a, b, w float64) float64 { return a + (b-a)*w }

func blendHRTFParams(a, b hrtfParams, w float64) hrtfParams {
	return hrtfParams{
		leftDelay:   lerp(a.leftDelay, b.leftDelay, w),
		rightDelay:  lerp(a.rightDelay, b.rightDelay, w),
		leftGain:    lerp(a.leftGain, b.leftGain, w),
		rightGain:   lerp(a.rightGain, b.rightGain, w),
		leftSmooth:  lerp(a.leftSmooth, b.leftSmooth, w),
		rightSmooth: lerp(a.rightSmooth, b.rightSmooth, w),
	}
}

// hrtfEarState is one ear's delay line and spectral-smoothing state. The
// delay line persists across blocks so a fractional delay can always read
// far enough back, even at the very start of a block.
type hrtfEarState struct {
	delay       [HRTFMaxITD + 8]float64
	writePos    int
	smoothState float64
}

func (e *hrtfEarState) push(x float64) {
	e.delay[e.writePos] = x
	e.writePos = (e.writePos + 1) % len(e.delay)
}

func (e *hrtfEarState) readDelayed(delaySamples float64) float64 {
	d := clamp(delaySamples, 0, float64(len(e.delay)-2))
	i0 := int(d)
	frac := d - float64(i0)
	n := len(e.delay)
	p0 := ((e.writePos-1-i0)%n + n) % n
	p1 := (p0 - 1 + n) % n
	return e.delay[p0]*(1-frac) + e.delay[p1]*frac
}

func (e *hrtfEarState) smooth(x, coeff float64) float64 {
	e.smoothState = coeff*x + (1-coeff)*e.smoothState
	return e.smoothState
}

// hrtfLane holds one source's HRTF spatialization state: two ear delay
// lines plus the crossfading pan-parameter pair.
type hrtfLane struct {
	sampleRate   float64
	left, right  hrtfEarState
	cur, pending hrtfParams
	crossfading  bool
	crossfadePos int
	haveParams   bool
}

func newHRTFLane(sampleRate float64) *hrtfLane {
	return &hrtfLane{sampleRate: sampleRate}
}

// setDirection updates the lane's target azimuth/elevation. If the lane
// already has a direction, the new parameters phase in over CrossfadeSamples
// rather than applying immediately, so a sudden direction change never
// clicks (spec §4.6).
func (h *hrtfLane) setDirection(azimuth, elevation float64) {
	p := computeHRTFParams(azimuth, elevation, h.sampleRate)
	if !h.haveParams {
		h.cur = p
		h.haveParams = true
		return
	}
	h.pending = p
	h.crossfading = true
	h.crossfadePos = 0
}

func (h *hrtfLane) processSample(x float64) (left, right float64) {
	h.left.push(x)
	h.right.push(x)

	params := h.cur
	if h.crossfading {
		w := float64(h.crossfadePos) / float64(CrossfadeSamples)
		params = blendHRTFParams(h.cur, h.pending, w)
		h.crossfadePos++
		if h.crossfadePos >= CrossfadeSamples {
			h.crossfading = false
			h.cur = h.pending
		}
	}

	l := h.left.readDelayed(params.leftDelay)
	r := h.right.readDelayed(params.rightDelay)
	l = h.left.smooth(l, params.leftSmooth) * params.leftGain
	r = h.right.smooth(r, params.rightSmooth) * params.rightGain
	return l, r
}
