// SPDX-License-Identifier: EPL-2.0

//go:build cgo

package capi

/*
#include <stdint.h>
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/auralengine/aural/dsp"
	"github.com/auralengine/aural/engine"
)

// This file is the C-callable face of the package: every export here is
// a thin, allocation-conscious wrapper around the plain Go functions in
// capi.go. None of the logic lives here — the cgo build constraint drops
// this file from any build with cgo disabled (CGO_ENABLED=0), so the
// plain-Go API above stays usable without a C compiler on the path.

//export aural_Initialize
func aural_Initialize() C.int { return C.int(Initialize()) }

//export aural_Shutdown
func aural_Shutdown() C.int { return C.int(Shutdown()) }

//export aural_CreateContext
func aural_CreateContext(channels C.int, headless C.int, out *C.uint64_t) C.int {
	h, code := CreateContext(int(channels), headless != 0)
	*out = C.uint64_t(h)
	return C.int(code)
}

//export aural_HandleFree
func aural_HandleFree(handle C.uint64_t) C.int {
	return C.int(HandleFree(Handle(handle)))
}

//export aural_CreateDirectSource
func aural_CreateDirectSource(ctxHandle C.uint64_t, out *C.uint64_t) C.int {
	h, code := CreateDirectSource(Handle(ctxHandle))
	*out = C.uint64_t(h)
	return C.int(code)
}

//export aural_CreatePannedSource
func aural_CreatePannedSource(ctxHandle C.uint64_t, strategy C.int, out *C.uint64_t) C.int {
	h, code := CreatePannedSource(Handle(ctxHandle), int(strategy))
	*out = C.uint64_t(h)
	return C.int(code)
}

//export aural_CreateSource3D
func aural_CreateSource3D(ctxHandle C.uint64_t, out *C.uint64_t) C.int {
	h, code := CreateSource3D(Handle(ctxHandle))
	*out = C.uint64_t(h)
	return C.int(code)
}

//export aural_CreateNoiseGenerator
func aural_CreateNoiseGenerator(ctxHandle C.uint64_t, channels C.int, seed C.uint32_t, out *C.uint64_t) C.int {
	h, code := CreateNoiseGenerator(Handle(ctxHandle), int(channels), uint32(seed))
	*out = C.uint64_t(h)
	return C.int(code)
}

//export aural_CreateBufferFromFile
func aural_CreateBufferFromFile(ctxHandle C.uint64_t, path *C.char, format *C.char, out *C.uint64_t) C.int {
	f, err := os.Open(C.GoString(path))
	if err != nil {
		*out = 0
		return C.int(fail(nil, engine.CodeIOError, err.Error()))
	}
	defer f.Close()
	h, code := CreateBufferFromStream(Handle(ctxHandle), f, C.GoString(format))
	*out = C.uint64_t(h)
	return C.int(code)
}

//export aural_CreateBufferGenerator
func aural_CreateBufferGenerator(ctxHandle, bufferHandle C.uint64_t, out *C.uint64_t) C.int {
	h, code := CreateBufferGenerator(Handle(ctxHandle), Handle(bufferHandle))
	*out = C.uint64_t(h)
	return C.int(code)
}

//export aural_SourceAddGenerator
func aural_SourceAddGenerator(sourceHandle, generatorHandle C.uint64_t) C.int {
	return C.int(SourceAddGenerator(Handle(sourceHandle), Handle(generatorHandle)))
}

//export aural_SourceRemoveGenerator
func aural_SourceRemoveGenerator(sourceHandle, generatorHandle C.uint64_t) C.int {
	return C.int(SourceRemoveGenerator(Handle(sourceHandle), Handle(generatorHandle)))
}

//export aural_CreateEcho
func aural_CreateEcho(ctxHandle C.uint64_t, out *C.uint64_t) C.int {
	h, code := CreateEcho(Handle(ctxHandle))
	*out = C.uint64_t(h)
	return C.int(code)
}

//export aural_CreateReverb
func aural_CreateReverb(ctxHandle C.uint64_t, out *C.uint64_t) C.int {
	h, code := CreateReverb(Handle(ctxHandle))
	*out = C.uint64_t(h)
	return C.int(code)
}

//export aural_RouterConnect
func aural_RouterConnect(sourceHandle, effectHandle C.uint64_t, gain C.double) C.int {
	return C.int(RouterConnect(Handle(sourceHandle), Handle(effectHandle), float64(gain)))
}

//export aural_RouterDisconnect
func aural_RouterDisconnect(sourceHandle, effectHandle C.uint64_t) C.int {
	return C.int(RouterDisconnect(Handle(sourceHandle), Handle(effectHandle)))
}

//export aural_GetI
func aural_GetI(handle C.uint64_t, propertyID C.int, out *C.int64_t) C.int {
	v, code := GetI(Handle(handle), int(propertyID))
	*out = C.int64_t(v)
	return C.int(code)
}

//export aural_SetI
func aural_SetI(handle C.uint64_t, propertyID C.int, value C.int64_t) C.int {
	return C.int(SetI(Handle(handle), int(propertyID), int64(value)))
}

//export aural_GetD
func aural_GetD(handle C.uint64_t, propertyID C.int, out *C.double) C.int {
	v, code := GetD(Handle(handle), int(propertyID))
	*out = C.double(v)
	return C.int(code)
}

//export aural_SetD
func aural_SetD(handle C.uint64_t, propertyID C.int, value C.double) C.int {
	return C.int(SetD(Handle(handle), int(propertyID), float64(value)))
}

//export aural_GetD3
func aural_GetD3(handle C.uint64_t, propertyID C.int, outX, outY, outZ *C.double) C.int {
	v, code := GetD3(Handle(handle), int(propertyID))
	*outX, *outY, *outZ = C.double(v[0]), C.double(v[1]), C.double(v[2])
	return C.int(code)
}

//export aural_SetD3
func aural_SetD3(handle C.uint64_t, propertyID C.int, x, y, z C.double) C.int {
	return C.int(SetD3(Handle(handle), int(propertyID), [3]float64{float64(x), float64(y), float64(z)}))
}

//export aural_DesignBiquadLowpass
func aural_DesignBiquadLowpass(sampleRate, freq, q C.double, out *C.double) C.int {
	coef, code := DesignBiquadLowpass(float64(sampleRate), float64(freq), float64(q))
	writeCoefficients(out, coef)
	return C.int(code)
}

func writeCoefficients(out *C.double, c dsp.Coefficients) {
	vals := []C.double{C.double(c.B0), C.double(c.B1), C.double(c.B2), C.double(c.A1), C.double(c.A2), C.double(c.Gain)}
	dst := unsafe.Slice(out, len(vals))
	copy(dst, vals)
}
