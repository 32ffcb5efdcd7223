// SPDX-License-Identifier: EPL-2.0

// Package capi is the flat, handle-keyed function surface the rest of
// the engine is driven through (spec §6): every externally visible
// object — context, buffer, source, generator, effect — gets an opaque
// Handle here, and every call returns an engine.Code rather than a Go
// error, so the same entry points work whether the caller is Go code in
// this process or C code linked against export.go's cgo stubs.
//
// Handles are capi's own namespace, separate from engine.HandleTable's:
// a context predates any per-context handle table (CreateContext has to
// hand back an identifier for something that isn't itself inside one),
// and capi needs the concrete pointer and PropertyTarget for each object
// up front anyway, since engine.HandleTable's own target lookup is
// package-private. So capi keeps a flat registry of its own, and asks
// the engine package to do the actual ownership bookkeeping underneath.
package capi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/auralengine/aural/buffer"
	"github.com/auralengine/aural/device"
	"github.com/auralengine/aural/dsp"
	"github.com/auralengine/aural/effect"
	"github.com/auralengine/aural/engine"
	"github.com/auralengine/aural/formats/aiff"
	"github.com/auralengine/aural/formats/mp3"
	"github.com/auralengine/aural/formats/vorbis"
	"github.com/auralengine/aural/formats/wav"
	"github.com/auralengine/aural/generator"
	"github.com/auralengine/aural/panner"
	"github.com/auralengine/aural/router"
	"github.com/auralengine/aural/source"
)

// Handle is capi's own opaque object identifier. It is unrelated to
// engine.Handle, which each entry also carries once its object has been
// registered with a context's own handle table.
type Handle uint64

// entry is everything capi needs to service a handle without reaching
// into any package's unexported internals.
type entry struct {
	kind         engine.HandleKind
	ctx          *engine.Context // the entry's own context, for a KindContext entry
	engineHandle engine.Handle
	target       engine.PropertyTarget

	// ptr holds whatever concrete value a given kind needs for
	// operations engine.PropertyTarget can't express: the source's
	// concrete pointer (for routing and generator wiring), a
	// generatorBinding (for generator wiring), or a *buffer.Buffer.
	ptr any

	backend device.Backend
	cancel  context.CancelFunc
}

var (
	registryMu sync.Mutex
	nextHandle Handle = 1
	registry          = make(map[Handle]*entry)
)

func allocate(e *entry) Handle {
	registryMu.Lock()
	defer registryMu.Unlock()
	h := nextHandle
	nextHandle++
	registry[h] = e
	return h
}

func lookupAny(h Handle) (*entry, engine.Code) {
	registryMu.Lock()
	e, ok := registry[h]
	registryMu.Unlock()
	if !ok {
		return nil, engine.CodeInvalidHandle
	}
	if e.ctx != nil && e.ctx.ShuttingDown() {
		return nil, engine.CodeShutdownInProgress
	}
	return e, engine.CodeNone
}

func lookupKind(h Handle, want engine.HandleKind) (*entry, engine.Code) {
	e, code := lookupAny(h)
	if code != engine.CodeNone {
		return nil, code
	}
	if e.kind != want {
		return nil, engine.CodeHandleTypeMismatch
	}
	return e, engine.CodeNone
}

func lookupContext(h Handle) (*entry, engine.Code) {
	return lookupKind(h, engine.KindContext)
}

func lookupTarget(h Handle) (*entry, engine.Code) {
	e, code := lookupAny(h)
	if code != engine.CodeNone {
		return nil, code
	}
	if e.target == nil {
		return nil, engine.CodeHandleTypeMismatch
	}
	return e, engine.CodeNone
}

// fail records msg as the relevant last-error slot (process-wide if ctx
// is nil, otherwise the context's own) and returns code, so every
// rejection is both a Code and a retrievable message (spec §6, §7).
func fail(ctx *engine.Context, code engine.Code, msg string) engine.Code {
	err := &engine.Error{Code: code, Message: msg}
	if ctx == nil {
		engine.SetProcessLastError(err)
	} else {
		ctx.SetLastError(err)
	}
	return code
}

func codeFromErr(err error) engine.Code {
	var ee *engine.Error
	if errors.As(err, &ee) {
		return ee.Code
	}
	return engine.CodeInternal
}

// LastError returns the most recent error message recorded against
// ctxHandle, or the process-wide one if ctxHandle is 0 (spec §6: "the
// last error message is retrievable from thread-local storage" — capi
// substitutes the handle the call already operates on for the original's
// thread-local slot, same substitution engine.Context.LastError makes).
func LastError(ctxHandle Handle) (string, engine.Code) {
	if ctxHandle == 0 {
		if err := engine.ProcessLastError(); err != nil {
			return err.Message, engine.CodeNone
		}
		return "", engine.CodeNone
	}
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return "", code
	}
	if err := e.ctx.LastError(); err != nil {
		return err.Message, engine.CodeNone
	}
	return "", engine.CodeNone
}

// Initialize is a no-op hook kept for symmetry with Shutdown and with the
// original ABI's process-lifecycle pair; capi has no process-global state
// to set up before the first CreateContext.
func Initialize() engine.Code { return engine.CodeNone }

// Shutdown frees every handle this process still holds, contexts last so
// any resource still attached to one when its backend stops at least
// gets its deletion record enqueued (whether it ever drains depends on
// whether anything still drives that context's blocks afterward).
func Shutdown() engine.Code {
	registryMu.Lock()
	var rest, contexts []Handle
	for h, e := range registry {
		if e.kind == engine.KindContext {
			contexts = append(contexts, h)
		} else {
			rest = append(rest, h)
		}
	}
	registryMu.Unlock()

	for _, h := range rest {
		HandleFree(h)
	}
	for _, h := range contexts {
		HandleFree(h)
	}
	return engine.CodeNone
}

// CreateContext creates an engine bound to channels output channels. With
// headless set, the context drives no real device; its blocks must be
// pulled explicitly via Pull, matching spec §6 "headless mode substitutes
// a caller-driven pull with the same semantics." Otherwise it opens and
// starts a real output backend immediately.
func CreateContext(channels int, headless bool) (Handle, engine.Code) {
	if channels < 1 || channels > engine.MaxChannels {
		return 0, fail(nil, engine.CodeInvalidArgument, fmt.Sprintf("channels %d out of range", channels))
	}

	ctx := engine.NewContext(channels)

	var backend device.Backend
	if headless {
		ctx.SetHeadless(true)
		backend = device.NewHeadlessBackend(channels)
	} else {
		b, err := device.NewOtoBackend(engine.SampleRate, channels)
		if err != nil {
			return 0, fail(nil, engine.CodeBackendUnavailable, err.Error())
		}
		backend = b
	}

	pullCtx, cancel := context.WithCancel(context.Background())
	if err := backend.Start(pullCtx, func(dst []float32) { ctx.RunBlock(dst) }); err != nil {
		cancel()
		return 0, fail(nil, engine.CodeBackendUnavailable, err.Error())
	}

	h := allocate(&entry{kind: engine.KindContext, ctx: ctx, backend: backend, cancel: cancel})
	return h, engine.CodeNone
}

// Pull drives one block of a headless context's output directly into
// dst, the caller-driven counterpart to the oto backend's own pull loop.
func Pull(ctxHandle Handle, dst []float32) engine.Code {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return code
	}
	hb, ok := e.backend.(*device.HeadlessBackend)
	if !ok {
		return fail(e.ctx, engine.CodeInvalidArgument, "context is not headless")
	}
	hb.Pull(dst)
	return engine.CodeNone
}

func decoderFor(format string) (buffer.Decoder, bool) {
	switch format {
	case "wav":
		return wav.Decoder{}, true
	case "mp3":
		return mp3.Decoder{}, true
	case "vorbis", "ogg":
		return vorbis.Decoder{}, true
	case "aiff":
		return aiff.Decoder{}, true
	default:
		return nil, false
	}
}

// CreateBufferFromStream decodes r under the named format ("wav", "mp3",
// "vorbis", or "aiff") to completion on the calling thread and pages the
// result into a handle-owned Buffer (spec §6's createBufferFromStream,
// simplified to a format tag rather than a protocol/path pair since capi
// has no filesystem or network layer of its own — the caller already
// has the reader open).
func CreateBufferFromStream(ctxHandle Handle, r io.Reader, format string) (Handle, engine.Code) {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return 0, code
	}
	dec, ok := decoderFor(format)
	if !ok {
		return 0, fail(e.ctx, engine.CodeInvalidArgument, "unknown format "+format)
	}
	buf, err := buffer.Decode(dec, r)
	if err != nil {
		return 0, fail(e.ctx, engine.CodeDecodeError, err.Error())
	}

	shared := engine.NewShared(e.ctx.Deletions(), *buf, nil)
	engineHandle := engine.Register(e.ctx.Handles(), engine.KindBuffer, shared)
	h := allocate(&entry{kind: engine.KindBuffer, ctx: e.ctx, engineHandle: engineHandle, ptr: shared.Get()})
	return h, engine.CodeNone
}

// CreateDirectSource builds a source that writes straight into the
// context's direct buffer (spec §4.9).
func CreateDirectSource(ctxHandle Handle) (Handle, engine.Code) {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return 0, code
	}
	val := source.NewDirect(e.ctx)
	shared := engine.NewShared(e.ctx.Deletions(), val, nil)
	engineHandle := engine.Register(e.ctx.Handles(), engine.KindSource, shared)
	engine.RegisterSource[source.Direct, *source.Direct](e.ctx, shared)
	h := allocate(&entry{kind: engine.KindSource, ctx: e.ctx, engineHandle: engineHandle, target: shared.Get(), ptr: shared.Get()})
	return h, engine.CodeNone
}

// CreatePannedSource builds a source that owns one panner lane under
// strategy (spec §4.9).
func CreatePannedSource(ctxHandle Handle, strategy int) (Handle, engine.Code) {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return 0, code
	}
	val := source.NewPanned(e.ctx, panner.Strategy(strategy))
	shared := engine.NewShared(e.ctx.Deletions(), val, func(p *source.Panned) { p.Release() })
	engineHandle := engine.Register(e.ctx.Handles(), engine.KindSource, shared)
	engine.RegisterSource[source.Panned, *source.Panned](e.ctx, shared)
	h := allocate(&entry{kind: engine.KindSource, ctx: e.ctx, engineHandle: engineHandle, target: shared.Get(), ptr: shared.Get()})
	return h, engine.CodeNone
}

// CreateSource3D builds a fully positional source: position, orientation
// and distance attenuation are derived from the listener pose each block
// (spec §4.9).
func CreateSource3D(ctxHandle Handle) (Handle, engine.Code) {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return 0, code
	}
	val := source.NewPositional3D(e.ctx)
	shared := engine.NewShared(e.ctx.Deletions(), val, func(p *source.Positional3D) { p.Release() })
	engineHandle := engine.Register(e.ctx.Handles(), engine.KindSource, shared)
	engine.RegisterSource[source.Positional3D, *source.Positional3D](e.ctx, shared)
	h := allocate(&entry{kind: engine.KindSource, ctx: e.ctx, engineHandle: engineHandle, target: shared.Get(), ptr: shared.Get()})
	return h, engine.CodeNone
}

// generatorPtr constrains PT the same way source.generatorPtr does:
// a pointer to T implementing generator.Generator. Declaring this locally
// rather than naming source's own (unexported) version lets capi
// instantiate its own generic bridge below; Go checks the constraint
// structurally at the call inside bindGenerator, so capi's type argument
// still satisfies source.AddGenerator's constraint there even though
// capi never names it.
type generatorPtr[T any] interface {
	*T
	generator.Generator
}

// generatorBinding erases a concrete generator's weak reference down to
// two closures capable of attaching to or detaching from any of the
// three source types, so a generator handle and a source handle — both
// already erased to Handle by the time SourceAddGenerator runs — can
// still be wired together generically.
type generatorBinding struct {
	addTo      func(src any) error
	removeFrom func(src any) error
}

func bindGenerator[T any, PT generatorPtr[T]](weak engine.Weak[T]) generatorBinding {
	return generatorBinding{
		addTo: func(src any) error {
			switch s := src.(type) {
			case *source.Direct:
				source.AddGenerator[T, PT](s, weak)
			case *source.Panned:
				source.AddGenerator[T, PT](s, weak)
			case *source.Positional3D:
				source.AddGenerator[T, PT](s, weak)
			default:
				return fmt.Errorf("capi: unsupported source type %T", src)
			}
			return nil
		},
		removeFrom: func(src any) error {
			switch s := src.(type) {
			case *source.Direct:
				source.RemoveGenerator[T](s, weak)
			case *source.Panned:
				source.RemoveGenerator[T](s, weak)
			case *source.Positional3D:
				source.RemoveGenerator[T](s, weak)
			default:
				return fmt.Errorf("capi: unsupported source type %T", src)
			}
			return nil
		},
	}
}

// CreateBufferGenerator builds a generator reading from bufferHandle's
// decoded Buffer (spec §4.8).
func CreateBufferGenerator(ctxHandle, bufferHandle Handle) (Handle, engine.Code) {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return 0, code
	}
	bufEntry, code := lookupKind(bufferHandle, engine.KindBuffer)
	if code != engine.CodeNone {
		return 0, code
	}
	buf := bufEntry.ptr.(*buffer.Buffer)

	val := generator.NewBufferGenerator(buf, e.ctx.Events())
	shared := engine.NewShared(e.ctx.Deletions(), val, nil)
	engineHandle := engine.Register(e.ctx.Handles(), engine.KindGenerator, shared)
	shared.Get().SetHandle(engineHandle)
	binding := bindGenerator[generator.BufferGenerator, *generator.BufferGenerator](shared.Downgrade())
	h := allocate(&entry{kind: engine.KindGenerator, ctx: e.ctx, engineHandle: engineHandle, target: shared.Get(), ptr: binding})
	return h, engine.CodeNone
}

// CreateStreamingGenerator builds a generator that decodes r under format
// in a helper goroutine, staying a fixed number of blocks ahead (spec
// §4.8). The generator owns r via the decoded audio.Source and closes it
// when its last reference drops.
func CreateStreamingGenerator(ctxHandle Handle, r io.Reader, format string) (Handle, engine.Code) {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return 0, code
	}
	dec, ok := decoderFor(format)
	if !ok {
		return 0, fail(e.ctx, engine.CodeInvalidArgument, "unknown format "+format)
	}
	src, err := dec.Decode(r)
	if err != nil {
		return 0, fail(e.ctx, engine.CodeDecodeError, err.Error())
	}

	val := generator.NewStreamingGenerator(src, e.ctx.Events())
	shared := engine.NewShared(e.ctx.Deletions(), val, func(g *generator.StreamingGenerator) { g.Close() })
	engineHandle := engine.Register(e.ctx.Handles(), engine.KindGenerator, shared)
	shared.Get().SetHandle(engineHandle)
	binding := bindGenerator[generator.StreamingGenerator, *generator.StreamingGenerator](shared.Downgrade())
	h := allocate(&entry{kind: engine.KindGenerator, ctx: e.ctx, engineHandle: engineHandle, target: shared.Get(), ptr: binding})
	return h, engine.CodeNone
}

// CreateNoiseGenerator builds a generator producing one of the uniform,
// Voss-McCartney pink, or filtered brown noise colors (spec §4.8).
func CreateNoiseGenerator(ctxHandle Handle, channels int, seed uint32) (Handle, engine.Code) {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return 0, code
	}
	if channels < 1 || channels > engine.MaxChannels {
		return 0, fail(e.ctx, engine.CodeInvalidArgument, fmt.Sprintf("channels %d out of range", channels))
	}
	val := generator.NewNoiseGenerator(channels, seed)
	shared := engine.NewShared(e.ctx.Deletions(), val, nil)
	engineHandle := engine.Register(e.ctx.Handles(), engine.KindGenerator, shared)
	binding := bindGenerator[generator.NoiseGenerator, *generator.NoiseGenerator](shared.Downgrade())
	h := allocate(&entry{kind: engine.KindGenerator, ctx: e.ctx, engineHandle: engineHandle, target: shared.Get(), ptr: binding})
	return h, engine.CodeNone
}

// SourceAddGenerator attaches generatorHandle to sourceHandle's generator
// list, ignoring a duplicate of an already-attached reference (spec §3).
// The attach itself runs on the audio thread via the command ring, since
// it mutates a slice the audio thread also walks every block.
func SourceAddGenerator(sourceHandle, generatorHandle Handle) engine.Code {
	srcEntry, code := lookupKind(sourceHandle, engine.KindSource)
	if code != engine.CodeNone {
		return code
	}
	genEntry, code := lookupKind(generatorHandle, engine.KindGenerator)
	if code != engine.CodeNone {
		return code
	}
	binding := genEntry.ptr.(generatorBinding)

	var bindErr error
	srcEntry.ctx.Commands().Call(func() { bindErr = binding.addTo(srcEntry.ptr) })
	if bindErr != nil {
		return fail(srcEntry.ctx, engine.CodeHandleTypeMismatch, bindErr.Error())
	}
	return engine.CodeNone
}

// SourceRemoveGenerator detaches generatorHandle from sourceHandle's
// generator list if present.
func SourceRemoveGenerator(sourceHandle, generatorHandle Handle) engine.Code {
	srcEntry, code := lookupKind(sourceHandle, engine.KindSource)
	if code != engine.CodeNone {
		return code
	}
	genEntry, code := lookupKind(generatorHandle, engine.KindGenerator)
	if code != engine.CodeNone {
		return code
	}
	binding := genEntry.ptr.(generatorBinding)

	var bindErr error
	srcEntry.ctx.Commands().Call(func() { bindErr = binding.removeFrom(srcEntry.ptr) })
	if bindErr != nil {
		return fail(srcEntry.ctx, engine.CodeHandleTypeMismatch, bindErr.Error())
	}
	return engine.CodeNone
}

// CreateEcho builds a global echo effect with no taps configured (spec
// §4.9/§4.11). Use EchoSetTaps to give it a tap list and RouterConnect to
// feed it input.
func CreateEcho(ctxHandle Handle) (Handle, engine.Code) {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return 0, code
	}
	val := effect.NewEcho(e.ctx)
	shared := engine.NewShared(e.ctx.Deletions(), val, nil)
	weak := shared.Downgrade()
	shared.Get().SetAlive(weak.Alive)
	engineHandle := engine.Register(e.ctx.Handles(), engine.KindEffect, shared)
	engine.RegisterEffect[effect.Echo, *effect.Echo](e.ctx, shared)
	h := allocate(&entry{kind: engine.KindEffect, ctx: e.ctx, engineHandle: engineHandle, target: shared.Get(), ptr: shared.Get()})
	return h, engine.CodeNone
}

// CreateReverb builds a global FDN reverb effect with the original's
// default decay parameters (spec §4.9/§4.11).
func CreateReverb(ctxHandle Handle) (Handle, engine.Code) {
	e, code := lookupContext(ctxHandle)
	if code != engine.CodeNone {
		return 0, code
	}
	val := effect.NewReverb(e.ctx)
	shared := engine.NewShared(e.ctx.Deletions(), val, nil)
	weak := shared.Downgrade()
	shared.Get().SetAlive(weak.Alive)
	engineHandle := engine.Register(e.ctx.Handles(), engine.KindEffect, shared)
	engine.RegisterEffect[effect.Reverb, *effect.Reverb](e.ctx, shared)
	h := allocate(&entry{kind: engine.KindEffect, ctx: e.ctx, engineHandle: engineHandle, target: shared.Get(), ptr: shared.Get()})
	return h, engine.CodeNone
}

// EchoSetTaps replaces echoHandle's tap configuration, taking effect on
// the next block with a one-block fade-in. Taps are a variable-length
// list, which PropertySpec's fixed-kind Value union can't carry, so this
// is a dedicated call rather than a property (spec §9's property/ABI
// split).
func EchoSetTaps(echoHandle Handle, taps []effect.EchoTap) engine.Code {
	e, code := lookupKind(echoHandle, engine.KindEffect)
	if code != engine.CodeNone {
		return code
	}
	echo, ok := e.ptr.(*effect.Echo)
	if !ok {
		return fail(e.ctx, engine.CodeHandleTypeMismatch, "handle is not an echo effect")
	}
	e.ctx.Commands().Call(func() { echo.SetTaps(taps) })
	return engine.CodeNone
}

type writerHolder interface{ Writer() *router.WriterHandle }
type readerHolder interface{ Reader() *router.ReaderHandle }

// RouterConnect sends sourceHandle's output into effectHandle's input at
// gain, fading in over one block (spec §4.7).
func RouterConnect(sourceHandle, effectHandle Handle, gain float64) engine.Code {
	srcEntry, code := lookupKind(sourceHandle, engine.KindSource)
	if code != engine.CodeNone {
		return code
	}
	effEntry, code := lookupKind(effectHandle, engine.KindEffect)
	if code != engine.CodeNone {
		return code
	}
	writer := srcEntry.ptr.(writerHolder).Writer()
	reader := effEntry.ptr.(readerHolder).Reader()
	srcEntry.ctx.Commands().Call(func() { srcEntry.ctx.Router().Connect(writer, reader, gain) })
	return engine.CodeNone
}

// RouterDisconnect fades the send from sourceHandle to effectHandle to
// zero; the edge is dropped once the fade settles (spec §4.7).
func RouterDisconnect(sourceHandle, effectHandle Handle) engine.Code {
	srcEntry, code := lookupKind(sourceHandle, engine.KindSource)
	if code != engine.CodeNone {
		return code
	}
	effEntry, code := lookupKind(effectHandle, engine.KindEffect)
	if code != engine.CodeNone {
		return code
	}
	writer := srcEntry.ptr.(writerHolder).Writer()
	reader := effEntry.ptr.(readerHolder).Reader()
	srcEntry.ctx.Commands().Call(func() { srcEntry.ctx.Router().Disconnect(writer, reader) })
	return engine.CodeNone
}

// GetI reads an int-kind property. handle may name a source, generator,
// or effect — anything whose entry carries a PropertyTarget.
func GetI(handle Handle, propertyID int) (int64, engine.Code) {
	e, code := lookupTarget(handle)
	if code != engine.CodeNone {
		return 0, code
	}
	var v engine.Value
	var getErr error
	e.ctx.Commands().Call(func() { v, getErr = e.target.GetProperty(propertyID) })
	if getErr != nil {
		return 0, fail(e.ctx, codeFromErr(getErr), getErr.Error())
	}
	if v.Kind != engine.KindInt {
		return 0, fail(e.ctx, engine.CodePropertyKindMismatch, "property is not int-kind")
	}
	return v.I, engine.CodeNone
}

// SetI writes an int-kind property asynchronously through the property
// ring (spec §4.3).
func SetI(handle Handle, propertyID int, value int64) engine.Code {
	e, code := lookupTarget(handle)
	if code != engine.CodeNone {
		return code
	}
	e.ctx.Properties().Write(e.engineHandle, propertyID, engine.IntValue(value))
	return engine.CodeNone
}

// GetD reads a double-kind property.
func GetD(handle Handle, propertyID int) (float64, engine.Code) {
	e, code := lookupTarget(handle)
	if code != engine.CodeNone {
		return 0, code
	}
	var v engine.Value
	var getErr error
	e.ctx.Commands().Call(func() { v, getErr = e.target.GetProperty(propertyID) })
	if getErr != nil {
		return 0, fail(e.ctx, codeFromErr(getErr), getErr.Error())
	}
	if v.Kind != engine.KindDouble {
		return 0, fail(e.ctx, engine.CodePropertyKindMismatch, "property is not double-kind")
	}
	return v.D, engine.CodeNone
}

// SetD writes a double-kind property.
func SetD(handle Handle, propertyID int, value float64) engine.Code {
	e, code := lookupTarget(handle)
	if code != engine.CodeNone {
		return code
	}
	e.ctx.Properties().Write(e.engineHandle, propertyID, engine.DoubleValue(value))
	return engine.CodeNone
}

// GetD3 reads a double3-kind property (e.g. PropPosition).
func GetD3(handle Handle, propertyID int) ([3]float64, engine.Code) {
	e, code := lookupTarget(handle)
	if code != engine.CodeNone {
		return [3]float64{}, code
	}
	var v engine.Value
	var getErr error
	e.ctx.Commands().Call(func() { v, getErr = e.target.GetProperty(propertyID) })
	if getErr != nil {
		return [3]float64{}, fail(e.ctx, codeFromErr(getErr), getErr.Error())
	}
	if v.Kind != engine.KindDouble3 {
		return [3]float64{}, fail(e.ctx, engine.CodePropertyKindMismatch, "property is not double3-kind")
	}
	return v.V3, engine.CodeNone
}

// SetD3 writes a double3-kind property.
func SetD3(handle Handle, propertyID int, value [3]float64) engine.Code {
	e, code := lookupTarget(handle)
	if code != engine.CodeNone {
		return code
	}
	e.ctx.Properties().Write(e.engineHandle, propertyID, engine.Double3Value(value))
	return engine.CodeNone
}

// GetD6 reads a raw double6-kind property as a flat six-element array.
// PropOrientation is the one built-in property of this kind; GetO/SetO
// offer the same value unpacked into forward/up vectors for callers that
// want the semantic shape instead.
func GetD6(handle Handle, propertyID int) ([6]float64, engine.Code) {
	e, code := lookupTarget(handle)
	if code != engine.CodeNone {
		return [6]float64{}, code
	}
	var v engine.Value
	var getErr error
	e.ctx.Commands().Call(func() { v, getErr = e.target.GetProperty(propertyID) })
	if getErr != nil {
		return [6]float64{}, fail(e.ctx, codeFromErr(getErr), getErr.Error())
	}
	if v.Kind != engine.KindDouble6 {
		return [6]float64{}, fail(e.ctx, engine.CodePropertyKindMismatch, "property is not double6-kind")
	}
	return v.V6, engine.CodeNone
}

// SetD6 writes a raw double6-kind property.
func SetD6(handle Handle, propertyID int, value [6]float64) engine.Code {
	e, code := lookupTarget(handle)
	if code != engine.CodeNone {
		return code
	}
	e.ctx.Properties().Write(e.engineHandle, propertyID, engine.Double6Value(value))
	return engine.CodeNone
}

// GetO reads PropOrientation unpacked into forward/up vectors.
func GetO(handle Handle, propertyID int) (forward, up [3]float64, code engine.Code) {
	v6, code := GetD6(handle, propertyID)
	if code != engine.CodeNone {
		return [3]float64{}, [3]float64{}, code
	}
	forward = [3]float64{v6[0], v6[1], v6[2]}
	up = [3]float64{v6[3], v6[4], v6[5]}
	return forward, up, engine.CodeNone
}

// SetO writes PropOrientation from forward/up vectors.
func SetO(handle Handle, propertyID int, forward, up [3]float64) engine.Code {
	var v6 [6]float64
	copy(v6[:3], forward[:])
	copy(v6[3:], up[:])
	return SetD6(handle, propertyID, v6)
}

func validDesignInput(sampleRate, freq float64) engine.Code {
	if sampleRate <= 0 || freq <= 0 || freq >= sampleRate/2 {
		return engine.CodeInvalidArgument
	}
	return engine.CodeNone
}

// DesignBiquadLowpass computes RBJ cookbook lowpass coefficients.
func DesignBiquadLowpass(sampleRate, freq, q float64) (dsp.Coefficients, engine.Code) {
	if code := validDesignInput(sampleRate, freq); code != engine.CodeNone {
		return dsp.Coefficients{}, fail(nil, code, "invalid filter design input")
	}
	return dsp.DesignLowpass(sampleRate, freq, q), engine.CodeNone
}

// DesignBiquadHighpass computes RBJ cookbook highpass coefficients.
func DesignBiquadHighpass(sampleRate, freq, q float64) (dsp.Coefficients, engine.Code) {
	if code := validDesignInput(sampleRate, freq); code != engine.CodeNone {
		return dsp.Coefficients{}, fail(nil, code, "invalid filter design input")
	}
	return dsp.DesignHighpass(sampleRate, freq, q), engine.CodeNone
}

// DesignBiquadBandpass computes RBJ cookbook constant-skirt-gain bandpass
// coefficients; bandwidthOctaves takes the place of Q.
func DesignBiquadBandpass(sampleRate, freq, bandwidthOctaves float64) (dsp.Coefficients, engine.Code) {
	if code := validDesignInput(sampleRate, freq); code != engine.CodeNone {
		return dsp.Coefficients{}, fail(nil, code, "invalid filter design input")
	}
	return dsp.DesignBandpass(sampleRate, freq, bandwidthOctaves), engine.CodeNone
}

// HandleFree releases h. For a context handle this stops its output
// backend and runs the context's final synchronous deletion drain (spec
// §8 scenario 6); the context handle itself is removed, so later calls
// with it return CodeInvalidHandle, and every call through any handle
// still bound to that context returns CodeShutdownInProgress. For
// every other kind it releases the strong reference held by that
// context's own handle table, which enqueues the object's deletion
// record rather than destroying it inline (spec §3).
func HandleFree(h Handle) engine.Code {
	registryMu.Lock()
	e, ok := registry[h]
	if ok {
		delete(registry, h)
	}
	registryMu.Unlock()
	if !ok {
		return engine.CodeInvalidHandle
	}

	if e.kind == engine.KindContext {
		if e.cancel != nil {
			e.cancel()
		}
		if e.backend != nil {
			_ = e.backend.Stop()
		}
		e.ctx.Shutdown()
		return engine.CodeNone
	}

	if e.ctx.ShuttingDown() {
		return engine.CodeShutdownInProgress
	}

	e.ctx.Handles().Free(e.engineHandle)
	return engine.CodeNone
}
