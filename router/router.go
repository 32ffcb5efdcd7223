package router

import "github.com/auralengine/aural/dsp"

// WriterHandle is a source's routing identity. Sources own exactly one;
// the router keys edges by its pointer identity, never by the source
// itself, so the router never holds a strong (or even typed) reference to
// a source.
type WriterHandle struct{}

// NewWriterHandle allocates a fresh routing identity for a source.
func NewWriterHandle() *WriterHandle { return &WriterHandle{} }

// ReaderHandle is a global effect's routing identity: an input accumulation
// buffer plus a liveness check supplied by the owning effect. alive must
// upgrade-and-release a weak reference rather than returning a cached bool,
// so that an effect that has been dropped is detected the first block after
// the drop.
type ReaderHandle struct {
	buffer   []float32
	channels int
	alive    func() bool
}

// NewReaderHandle wires a reader to its effect's input accumulation buffer.
func NewReaderHandle(buffer []float32, channels int, alive func() bool) *ReaderHandle {
	return &ReaderHandle{buffer: buffer, channels: channels, alive: alive}
}

type edge struct {
	writer   *WriterHandle
	reader   *ReaderHandle
	fader    *dsp.Fader
	removing bool
}

// Router is a directed send-matrix from source outputs to effect inputs.
// Edges are owned entirely by the Router (spec §4.7); neither source nor
// effect holds a strong reference to the other.
type Router struct {
	edges []*edge
	time  uint64
}

// New creates an empty router.
func New() *Router { return &Router{} }

// SetBlockTime advances the router's notion of the current block, used to
// drive edge gain faders. The engine calls this once per block before any
// source routes audio.
func (r *Router) SetBlockTime(t uint64) { r.time = t }

// Connect adds an edge from writer to reader fading in to gain over one
// block, or retargets an existing edge's gain if one is already present.
func (r *Router) Connect(writer *WriterHandle, reader *ReaderHandle, gain float64) {
	for _, e := range r.edges {
		if e.writer == writer && e.reader == reader {
			e.fader.SetValue(r.time, gain)
			e.removing = false
			return
		}
	}
	f := dsp.NewFader(0)
	f.SetValue(r.time, gain)
	r.edges = append(r.edges, &edge{writer: writer, reader: reader, fader: f})
}

// Disconnect fades the edge from writer to reader to zero; the edge is
// dropped by the next Prune once the fade has settled.
func (r *Router) Disconnect(writer *WriterHandle, reader *ReaderHandle) {
	for _, e := range r.edges {
		if e.writer == writer && e.reader == reader {
			e.fader.SetValue(r.time, 0)
			e.removing = true
			return
		}
	}
}

// EdgeCount reports the number of edges currently tracked, including ones
// mid-fade-out.
func (r *Router) EdgeCount() int { return len(r.edges) }

// RouteAudio channel-mixes src (BlockSize frames, srcChannels channels) into
// every live edge originating at writer, scaled by that edge's driven gain
// (crossfaded across the block when the gain is mid-ramp).
func (r *Router) RouteAudio(writer *WriterHandle, src []float32, srcChannels int) {
	for _, e := range r.edges {
		if e.writer != writer {
			continue
		}
		if !e.reader.alive() {
			continue
		}
		gStart := e.fader.ValueAt(r.time)
		gEnd := e.fader.ValueAt(r.time + 1)
		mixInto(e.reader.buffer, src, srcChannels, e.reader.channels, gStart, gEnd)
	}
}

// Prune drops edges whose reader has expired, or whose removal fade has
// settled at zero. Call once per block after all sources have routed.
func (r *Router) Prune() {
	kept := r.edges[:0]
	for _, e := range r.edges {
		if !e.reader.alive() {
			continue
		}
		if e.removing && e.fader.ValueAt(r.time+1) == 0 {
			continue
		}
		kept = append(kept, e)
	}
	r.edges = kept
}

// mixInto channel-mixes src into dst, applying a per-frame gain crossfaded
// linearly between gStart and gEnd, using the same upmix/downmix rules as
// source delivery (spec §4.9): mono broadcasts, N-to-mono averages, a
// source wider than the destination folds channel c onto destination
// channel c % dstChannels, and a narrower multichannel source adds into the
// matching leading channels.
func mixInto(dst, src []float32, srcChannels, dstChannels int, gStart, gEnd float64) {
	if srcChannels == 0 || dstChannels == 0 {
		return
	}
	frames := len(src) / srcChannels
	for i := 0; i < frames; i++ {
		w2 := float64(i) / float64(frames)
		gain := float32(gStart*(1-w2) + gEnd*w2)
		srcBase := i * srcChannels
		dstBase := i * dstChannels

		switch {
		case srcChannels == dstChannels:
			for c := 0; c < dstChannels; c++ {
				dst[dstBase+c] += src[srcBase+c] * gain
			}
		case srcChannels == 1:
			for c := 0; c < dstChannels; c++ {
				dst[dstBase+c] += src[srcBase] * gain
			}
		case dstChannels == 1:
			var sum float32
			for c := 0; c < srcChannels; c++ {
				sum += src[srcBase+c]
			}
			dst[dstBase] += sum * gain / float32(srcChannels)
		case srcChannels > dstChannels:
			for c := 0; c < srcChannels; c++ {
				dst[dstBase+c%dstChannels] += src[srcBase+c] * gain
			}
		default:
			n := min(srcChannels, dstChannels)
			for c := 0; c < n; c++ {
				dst[dstBase+c] += src[srcBase+c] * gain
			}
		}
	}
}
