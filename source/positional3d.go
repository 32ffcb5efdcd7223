// SPDX-License-Identifier: EPL-2.0

package source

import (
	"math"

	"github.com/auralengine/aural/engine"
	"github.com/auralengine/aural/panner"
	"github.com/auralengine/aural/router"
)

// DistanceModel selects how a Positional3D source's gain attenuates with
// listener distance (spec §4.9, WebAudio PannerNode semantics).
type DistanceModel int

const (
	DistanceModelNone DistanceModel = iota
	DistanceModelLinear
	DistanceModelExponential
	DistanceModelInverse
)

var positional3DPropertyTable = engine.NewPropertyTable([]engine.PropertySpec{
	{
		ID: engine.PropGain, Kind: engine.KindDouble, Min: 0, Max: 16,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Positional3D).userGain) },
		Set: func(obj any, v engine.Value) error {
			obj.(*Positional3D).userGain = v.D
			return nil
		},
	},
	{
		ID: engine.PropPaused, Kind: engine.KindInt,
		Get: func(obj any) engine.Value {
			if obj.(*Positional3D).base.paused {
				return engine.IntValue(1)
			}
			return engine.IntValue(0)
		},
		Set: func(obj any, v engine.Value) error {
			obj.(*Positional3D).base.paused = v.I != 0
			return nil
		},
	},
	{
		ID: engine.PropPosition, Kind: engine.KindDouble3,
		Get: func(obj any) engine.Value { return engine.Double3Value(obj.(*Positional3D).position) },
		Set: func(obj any, v engine.Value) error {
			obj.(*Positional3D).position = v.V3
			return nil
		},
	},
	{
		ID: engine.PropDistanceModel, Kind: engine.KindInt,
		Get: func(obj any) engine.Value { return engine.IntValue(int64(obj.(*Positional3D).model)) },
		Set: func(obj any, v engine.Value) error {
			obj.(*Positional3D).model = DistanceModel(v.I)
			return nil
		},
	},
	{
		ID: engine.PropDistanceRef, Kind: engine.KindDouble, Min: 0, Max: 1e9,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Positional3D).distanceRef) },
		Set: func(obj any, v engine.Value) error {
			obj.(*Positional3D).distanceRef = v.D
			return nil
		},
	},
	{
		ID: engine.PropDistanceMax, Kind: engine.KindDouble, Min: 0, Max: 1e9,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Positional3D).distanceMax) },
		Set: func(obj any, v engine.Value) error {
			obj.(*Positional3D).distanceMax = v.D
			return nil
		},
	},
	{
		ID: engine.PropRolloff, Kind: engine.KindDouble, Min: 0, Max: 1e9,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Positional3D).rolloff) },
		Set: func(obj any, v engine.Value) error {
			obj.(*Positional3D).rolloff = v.D
			return nil
		},
	},
	{
		ID: engine.PropClosenessBoost, Kind: engine.KindDouble, Min: 0, Max: 1e9,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Positional3D).closenessBoost) },
		Set: func(obj any, v engine.Value) error {
			obj.(*Positional3D).closenessBoost = v.D
			return nil
		},
	},
	{
		ID: engine.PropClosenessBoostDistance, Kind: engine.KindDouble, Min: 0, Max: 1e9,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Positional3D).closenessBoostDistance) },
		Set: func(obj any, v engine.Value) error {
			obj.(*Positional3D).closenessBoostDistance = v.D
			return nil
		},
	},
})

// Positional3D is a source placed in 3D space relative to the listener. It
// owns an HRTF panner lane and, every block, derives azimuth/elevation from
// the listener pose and folds a distance-model attenuation into the lane's
// dry signal before delivery (spec §4.9).
type Positional3D struct {
	base base
	ctx  *engine.Context
	lane *panner.Lane

	position [3]float64
	userGain float64

	model                  DistanceModel
	distanceRef            float64
	distanceMax            float64
	rolloff                float64
	closenessBoost         float64
	closenessBoostDistance float64

	writer    *router.WriterHandle
	blockTime uint64
}

// NewPositional3D creates a 3D source at the origin with an inverse
// distance model and unit reference distance, owning one HRTF lane.
// Callers wrap it in a Shared[Positional3D] to register it with the
// engine.
func NewPositional3D(ctx *engine.Context) Positional3D {
	p := Positional3D{
		ctx:         ctx,
		userGain:    1,
		model:       DistanceModelInverse,
		distanceRef: 1,
		distanceMax: 1e9,
		rolloff:     1,
		writer:      router.NewWriterHandle(),
	}
	p.base = *newBase(1)
	p.lane = ctx.PannerBank().AllocateLane(panner.StrategyHRTF)
	p.lane.SetChannels(1)
	return p
}

func (p *Positional3D) SetProperty(id int, v engine.Value) error {
	return positional3DPropertyTable.Set(p, id, v)
}

func (p *Positional3D) GetProperty(id int) (engine.Value, error) {
	return positional3DPropertyTable.Get(p, id)
}

func (p *Positional3D) pipeline() *base { return &p.base }

// Writer returns the routing identity effects connect sends to (spec §4.7).
func (p *Positional3D) Writer() *router.WriterHandle { return p.writer }

// Release returns the source's panner lane to the bank.
func (p *Positional3D) Release() { p.ctx.PannerBank().ReleaseLane(p.lane) }

// distanceGain computes the selected distance model's attenuation factor
// for the given listener-relative distance (WebAudio PannerNode
// semantics). closeness_boost/closeness_boost_distance are not part of the
// WebAudio model; this package defines them as an extra multiplier ramping
// linearly from 1 at closenessBoostDistance up to 1+closenessBoost at
// distance 0, since the spec names them without fixing a formula.
func (p *Positional3D) distanceGain(distance float64) float64 {
	var gain float64
	switch p.model {
	case DistanceModelLinear:
		if p.distanceMax <= p.distanceRef {
			gain = 1
		} else {
			frac := (distance - p.distanceRef) / (p.distanceMax - p.distanceRef)
			gain = 1 - p.rolloff*clamp01(frac)
		}
	case DistanceModelExponential:
		d := math.Max(distance, p.distanceRef)
		if p.distanceRef <= 0 {
			gain = 1
		} else {
			gain = math.Pow(d/p.distanceRef, -p.rolloff)
		}
	case DistanceModelInverse:
		if p.distanceRef <= 0 {
			gain = 1
		} else {
			gain = p.distanceRef / (p.distanceRef + p.rolloff*math.Max(distance-p.distanceRef, 0))
		}
	default: // DistanceModelNone
		gain = 1
	}

	if p.closenessBoostDistance > 0 && distance < p.closenessBoostDistance {
		boost := 1 + p.closenessBoost*(1-distance/p.closenessBoostDistance)
		gain *= boost
	}
	return gain
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// azimuthElevation derives the listener-relative azimuth and elevation of
// the source from relative (listener position minus source position): the
// direction toward the source is -relative, expressed in the listener's
// forward/up frame. Azimuth 0 is front, positive is the listener's right
// (spec §8's azimuth-convention Open Question).
func azimuthElevation(relative, forward, up [3]float64) (azimuth, elevation, distance float64) {
	distance = math.Sqrt(relative[0]*relative[0] + relative[1]*relative[1] + relative[2]*relative[2])
	if distance < 1e-9 {
		return 0, 0, 0
	}
	f := normalize(forward)
	u := normalize(up)
	right := normalize(cross(f, u))

	dir := [3]float64{-relative[0] / distance, -relative[1] / distance, -relative[2] / distance}
	x := dot(dir, right)
	y := dot(dir, f)
	z := dot(dir, u)

	azimuth = math.Atan2(x, y)
	elevation = math.Asin(clampUnit(z))
	return azimuth, elevation, distance
}

func dot(a, b [3]float64) float64 { return a[0]*b[0] + a[1]*b[1] + a[2]*b[2] }

func cross(a, b [3]float64) [3]float64 {
	return [3]float64{
		a[1]*b[2] - a[2]*b[1],
		a[2]*b[0] - a[0]*b[2],
		a[0]*b[1] - a[1]*b[0],
	}
}

func normalize(v [3]float64) [3]float64 {
	n := math.Sqrt(dot(v, v))
	if n < 1e-12 {
		return v
	}
	return [3]float64{v[0] / n, v[1] / n, v[2] / n}
}

func clampUnit(v float64) float64 {
	if v < -1 {
		return -1
	}
	if v > 1 {
		return 1
	}
	return v
}

// Tick derives this block's azimuth/elevation/distance from the listener
// pose, writes them as implicit property updates on the owned lane, runs
// the shared fill pipeline with the distance-model attenuation folded into
// the gain fader's next target, routes the result to any connected effect
// sends, and delivers it into the lane (spec §4.9).
func (p *Positional3D) Tick(blockTime uint64) {
	p.blockTime = blockTime
	listener := p.ctx.Listener()
	relative := [3]float64{
		listener.Position[0] - p.position[0],
		listener.Position[1] - p.position[1],
		listener.Position[2] - p.position[2],
	}
	azimuth, elevation, distance := azimuthElevation(relative, listener.Forward, listener.Up)
	p.lane.SetDirection(azimuth, elevation)

	p.base.gain.SetValue(blockTime, p.userGain*p.distanceGain(distance))

	out := p.base.fill(blockTime)
	p.ctx.Router().RouteAudio(p.writer, out, p.base.channels)
	dst := p.lane.Destination()
	copy(dst, out)
}
