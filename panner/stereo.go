// SPDX-License-Identifier: EPL-2.0

package panner

import "math"

// equalPowerGains maps a pan scalar in [-1, 1] (-1 = full left, +1 = full
// right) to a pair of gains whose squares sum to 1, so that a source panned
// hard to one side does not lose perceived loudness relative to center.
func equalPowerGains(pan float64) (left, right float64) {
	pan = clamp(pan, -1, 1)
	angle := (pan + 1) * math.Pi / 4 // 0 .. pi/2
	return math.Cos(angle), math.Sin(angle)
}

// stereoLane holds a source's stereo-strategy pan state. Unlike the HRTF
// lane, gain changes are not internally crossfaded: the source's own output
// gain fader (spec §4.9) already smooths any audible step.
type stereoLane struct {
	pan float64
}

func (s *stereoLane) setPanningScalar(v float64) { s.pan = clamp(v, -1, 1) }

// setAzimuth maps an azimuth (0 = front, positive = right) onto the same
// [-1, 1] pan scalar via the cosine/sine law, saturating beyond +-90
// degrees.
func (s *stereoLane) setAzimuth(azimuth float64) {
	s.pan = clamp(reduceAngle(azimuth)/(math.Pi/2), -1, 1)
}

func (s *stereoLane) gains() (left, right float64) { return equalPowerGains(s.pan) }
