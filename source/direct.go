// SPDX-License-Identifier: EPL-2.0

package source

import (
	"github.com/auralengine/aural/engine"
	"github.com/auralengine/aural/router"
)

var directPropertyTable = engine.NewPropertyTable([]engine.PropertySpec{
	{
		ID: engine.PropGain, Kind: engine.KindDouble, Min: 0, Max: 16,
		Get: func(obj any) engine.Value { return engine.DoubleValue(obj.(*Direct).base.gain.ValueAt(obj.(*Direct).blockTime)) },
		Set: func(obj any, v engine.Value) error {
			d := obj.(*Direct)
			d.base.gain.SetValue(d.blockTime, v.D)
			return nil
		},
	},
	{
		ID: engine.PropPaused, Kind: engine.KindInt,
		Get: func(obj any) engine.Value {
			if obj.(*Direct).base.paused {
				return engine.IntValue(1)
			}
			return engine.IntValue(0)
		},
		Set: func(obj any, v engine.Value) error {
			obj.(*Direct).base.paused = v.I != 0
			return nil
		},
	},
})

// Direct is a source that delivers straight into the engine's direct
// accumulation buffer, bypassing the panner bank entirely (spec §4.9).
type Direct struct {
	base      base
	ctx       *engine.Context
	writer    *router.WriterHandle
	blockTime uint64
}

// NewDirect builds a direct source value bound to ctx's output channel
// count. Callers wrap it in a Shared[Direct] to register it with the
// engine (spec §3: sources live under deferred-destruction ownership).
func NewDirect(ctx *engine.Context) Direct {
	return Direct{base: *newBase(ctx.Channels()), ctx: ctx, writer: router.NewWriterHandle()}
}

func (d *Direct) SetProperty(id int, v engine.Value) error { return directPropertyTable.Set(d, id, v) }
func (d *Direct) GetProperty(id int) (engine.Value, error) { return directPropertyTable.Get(d, id) }

func (d *Direct) pipeline() *base { return &d.base }

// Writer returns the routing identity effects connect sends to (spec §4.7).
func (d *Direct) Writer() *router.WriterHandle { return d.writer }

// Tick runs the shared fill pipeline, routes the result to any connected
// effect sends, and adds it into the engine's direct buffer (spec §4.10
// step 5, §4.9: "Direct: delivery adds into the engine's direct buffer").
func (d *Direct) Tick(blockTime uint64) {
	d.blockTime = blockTime
	out := d.base.fill(blockTime)
	d.ctx.Router().RouteAudio(d.writer, out, d.base.channels)
	direct := d.ctx.Direct()
	n := len(out)
	if len(direct) < n {
		n = len(direct)
	}
	for i := 0; i < n; i++ {
		direct[i] += out[i]
	}
}
