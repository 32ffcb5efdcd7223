// Package aural is a realtime 3D audio graph engine.
//
// An engine.Context, driven by one output backend (see the device package),
// runs a single dedicated audio thread that mixes generators (buffered samples,
// streamed files, noise) through sources (direct, panned, or 3D positional)
// into global effects (echo, reverb) via a send-matrix router, and finally
// into an interleaved output block. User goroutines never touch audio-visible
// state directly: they enqueue property writes and command invocables onto
// lock-free queues that the audio thread drains once per block.
//
// # Quick Start
//
//	ctx := engine.NewContext(2)
//	defer ctx.Shutdown()
//
//	buf, _ := buffer.Decode(wav.Decoder{}, file)
//	gen := engine.NewShared(ctx.Deletions(), generator.NewBufferGenerator(buf, ctx.Events()), nil)
//	src := engine.NewShared(ctx.Deletions(), source.NewDirect(ctx), nil)
//	engine.RegisterSource[source.Direct, *source.Direct](ctx, src)
//	source.AddGenerator[generator.BufferGenerator, *generator.BufferGenerator](src.Get(), gen.Downgrade())
//
// # Package Layout
//
//   - engine: Context, handle table, command/property rings, deletion queue, block loop
//   - dsp: biquad filter with crossfade, gain fader, filter design
//   - panner: HRTF and stereo panner bank
//   - router: source-to-effect send matrix
//   - source: direct, panned, and 3D positional source variants
//   - generator: buffer, streaming, and noise generators
//   - effect: echo and FDN reverb global effects
//   - buffer: chunked decoded-PCM storage
//   - device: realtime (oto) and headless output backends
//   - capi: flat handle-keyed ABI surface, cgo-exportable
//   - logging: leveled logger with stderr or callback backend
//
// # Decoding Audio Files
//
// The audio and formats subpackages, kept from this module's audio-utility
// lineage, supply the Source streaming interface and the WAV/MP3/Vorbis/AIFF
// decoders that buffer.Decode and generator.NewStreamingGenerator consume. buffer.Decode
// resamples non-44.1kHz sources to the engine's rate before paging them into a
// Buffer, and audio.MonoMixer downmixes a rendered block stream directly (see
// cmd/auralctl for a full decode/play/dump pipeline built on both):
//
//	decoder := wav.Decoder{}
//	src, _ := decoder.Decode(reader)
//	buf, _ := buffer.Decode(decoder, reader)
package aural
