// SPDX-License-Identifier: EPL-2.0

package source

import (
	"github.com/auralengine/aural/engine"
	"github.com/auralengine/aural/panner"
	"github.com/auralengine/aural/router"
)

var pannedPropertyTable = engine.NewPropertyTable([]engine.PropertySpec{
	{
		ID: engine.PropGain, Kind: engine.KindDouble, Min: 0, Max: 16,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Panned).base.gain.ValueAt(obj.(*Panned).blockTime)) },
		Set: func(obj any, v engine.Value) error {
			p := obj.(*Panned)
			p.base.gain.SetValue(p.blockTime, v.D)
			return nil
		},
	},
	{
		ID: engine.PropPaused, Kind: engine.KindInt,
		Get: func(obj any) engine.Value {
			if obj.(*Panned).base.paused {
				return engine.IntValue(1)
			}
			return engine.IntValue(0)
		},
		Set: func(obj any, v engine.Value) error {
			obj.(*Panned).base.paused = v.I != 0
			return nil
		},
	},
	{
		ID: engine.PropPannerStrategy, Kind: engine.KindInt,
		Get: func(obj any) engine.Value { return engine.IntValue(int64(obj.(*Panned).strategy)) },
		Set: func(obj any, v engine.Value) error {
			obj.(*Panned).setStrategy(panner.Strategy(v.I))
			return nil
		},
	},
	{
		ID: engine.PropPanningScalar, Kind: engine.KindDouble, Min: -1, Max: 1,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Panned).panningScalar) },
		Set: func(obj any, v engine.Value) error {
			p := obj.(*Panned)
			p.panningScalar = v.D
			p.lane.SetPanningScalar(v.D)
			return nil
		},
	},
	{
		ID: engine.PropAzimuth, Kind: engine.KindDouble, Min: -1e9, Max: 1e9,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Panned).azimuth) },
		Set: func(obj any, v engine.Value) error {
			p := obj.(*Panned)
			p.azimuth = v.D
			p.lane.SetAzimuth(v.D)
			p.lane.SetDirection(v.D, p.elevation)
			return nil
		},
	},
	{
		ID: engine.PropElevation, Kind: engine.KindDouble, Min: -1e9, Max: 1e9,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Panned).elevation) },
		Set: func(obj any, v engine.Value) error {
			p := obj.(*Panned)
			p.elevation = v.D
			p.lane.SetDirection(p.azimuth, v.D)
			return nil
		},
	},
})

// Panned is a source that delivers into a single owned panner lane rather
// than the engine's direct buffer, spatialized by a stereo or HRTF
// strategy under explicit azimuth/panning-scalar control (spec §4.9).
type Panned struct {
	base base
	ctx  *engine.Context
	lane *panner.Lane

	strategy      panner.Strategy
	panningScalar float64
	azimuth       float64
	elevation     float64

	writer    *router.WriterHandle
	blockTime uint64
}

// NewPanned builds a panned source value claiming one lane from ctx's
// panner bank under the given initial strategy. Callers wrap it in a
// Shared[Panned] to register it with the engine.
func NewPanned(ctx *engine.Context, strategy panner.Strategy) Panned {
	p := Panned{
		ctx:      ctx,
		strategy: strategy,
		writer:   router.NewWriterHandle(),
	}
	p.base = *newBase(2)
	p.lane = ctx.PannerBank().AllocateLane(strategy)
	p.lane.SetChannels(2)
	return p
}

func (p *Panned) setStrategy(s panner.Strategy) {
	if s == p.strategy {
		return
	}
	p.strategy = s
	p.ctx.PannerBank().ReleaseLane(p.lane)
	p.lane = p.ctx.PannerBank().AllocateLane(s)
	p.lane.SetChannels(2)
	p.lane.SetPanningScalar(p.panningScalar)
	p.lane.SetDirection(p.azimuth, p.elevation)
}

func (p *Panned) SetProperty(id int, v engine.Value) error { return pannedPropertyTable.Set(p, id, v) }
func (p *Panned) GetProperty(id int) (engine.Value, error) { return pannedPropertyTable.Get(p, id) }

func (p *Panned) pipeline() *base { return &p.base }

// Writer returns the routing identity effects connect sends to (spec §4.7).
func (p *Panned) Writer() *router.WriterHandle { return p.writer }

// Release returns the source's panner lane to the bank. Callers are
// expected to invoke this from the deletion record run when the source's
// last strong reference drops.
func (p *Panned) Release() { p.ctx.PannerBank().ReleaseLane(p.lane) }

// Tick runs the shared fill pipeline, routes the result to any connected
// effect sends, and writes it into the owned panner lane (spec §4.9:
// "Panned: delivery writes mono or stereo accumulation into the single
// owned panner lane").
func (p *Panned) Tick(blockTime uint64) {
	p.blockTime = blockTime
	out := p.base.fill(blockTime)
	p.ctx.Router().RouteAudio(p.writer, out, p.base.channels)
	dst := p.lane.Destination()
	for i := range dst {
		dst[i] = 0
	}
	mixChannels(dst, out, p.base.channels, 2)
}
