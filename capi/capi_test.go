// SPDX-License-Identifier: EPL-2.0

package capi

import (
	"testing"

	"github.com/auralengine/aural/engine"
)

func anyNonZero(buf []float32) bool {
	for _, v := range buf {
		if v != 0 {
			return true
		}
	}
	return false
}

func allZero(buf []float32) bool {
	return !anyNonZero(buf)
}

// Full lifecycle (spec §8 scenario shape): create a headless context, a
// direct source, a noise generator, wire them together, read back a
// property, then tear everything down via HandleFree.
func TestLifecycle_DirectSourceWithNoiseGeneratorProducesOutput(t *testing.T) {
	ctxHandle, code := CreateContext(1, true)
	if code != engine.CodeNone {
		t.Fatalf("CreateContext code = %v", code)
	}
	defer HandleFree(ctxHandle)

	srcHandle, code := CreateDirectSource(ctxHandle)
	if code != engine.CodeNone {
		t.Fatalf("CreateDirectSource code = %v", code)
	}

	genHandle, code := CreateNoiseGenerator(ctxHandle, 1, 12345)
	if code != engine.CodeNone {
		t.Fatalf("CreateNoiseGenerator code = %v", code)
	}

	if code := SourceAddGenerator(srcHandle, genHandle); code != engine.CodeNone {
		t.Fatalf("SourceAddGenerator code = %v", code)
	}

	gain, code := GetD(srcHandle, engine.PropGain)
	if code != engine.CodeNone {
		t.Fatalf("GetD(PropGain) code = %v", code)
	}
	if gain != 1 {
		t.Fatalf("default gain = %v, want 1", gain)
	}

	out := make([]float32, engine.BlockSize)
	if code := Pull(ctxHandle, out); code != engine.CodeNone {
		t.Fatalf("Pull code = %v", code)
	}
	if !anyNonZero(out) {
		t.Fatalf("expected non-silent output with a live noise generator attached")
	}

	if code := SetD(srcHandle, engine.PropGain, 0); code != engine.CodeNone {
		t.Fatalf("SetD(PropGain, 0) code = %v", code)
	}
	// The write is applied at the start of the next block, before that
	// block's Tick runs, so the very next pulled block is already silent.
	Pull(ctxHandle, out)
	if !allZero(out) {
		t.Fatalf("expected silence once gain has faded to 0")
	}

	if code := SourceRemoveGenerator(srcHandle, genHandle); code != engine.CodeNone {
		t.Fatalf("SourceRemoveGenerator code = %v", code)
	}
	if code := HandleFree(genHandle); code != engine.CodeNone {
		t.Fatalf("HandleFree(generator) code = %v", code)
	}
	if code := HandleFree(srcHandle); code != engine.CodeNone {
		t.Fatalf("HandleFree(source) code = %v", code)
	}
}

func TestCreateContext_RejectsOutOfRangeChannelCount(t *testing.T) {
	if _, code := CreateContext(0, true); code != engine.CodeInvalidArgument {
		t.Fatalf("code = %v, want CodeInvalidArgument", code)
	}
	if _, code := CreateContext(engine.MaxChannels+1, true); code != engine.CodeInvalidArgument {
		t.Fatalf("code = %v, want CodeInvalidArgument", code)
	}
}

func TestSourceAddGenerator_RejectsHandleOfTheWrongKind(t *testing.T) {
	ctxHandle, code := CreateContext(1, true)
	if code != engine.CodeNone {
		t.Fatalf("CreateContext code = %v", code)
	}
	defer HandleFree(ctxHandle)

	srcHandle, _ := CreateDirectSource(ctxHandle)

	// ctxHandle is a context, not a generator.
	if code := SourceAddGenerator(srcHandle, ctxHandle); code != engine.CodeHandleTypeMismatch {
		t.Fatalf("code = %v, want CodeHandleTypeMismatch", code)
	}
}

func TestHandleFree_RejectsAlreadyFreedHandle(t *testing.T) {
	ctxHandle, _ := CreateContext(1, true)
	if code := HandleFree(ctxHandle); code != engine.CodeNone {
		t.Fatalf("first HandleFree code = %v", code)
	}
	if code := HandleFree(ctxHandle); code != engine.CodeInvalidHandle {
		t.Fatalf("second HandleFree code = %v, want CodeInvalidHandle", code)
	}
}

// Scenario 5-style: a panned source routed through an echo effect still
// reaches the master bus, exercising CreatePannedSource, CreateEcho,
// RouterConnect, and EchoSetTaps together.
func TestPannedSourceRoutedThroughEcho(t *testing.T) {
	ctxHandle, code := CreateContext(2, true)
	if code != engine.CodeNone {
		t.Fatalf("CreateContext code = %v", code)
	}
	defer HandleFree(ctxHandle)

	srcHandle, code := CreatePannedSource(ctxHandle, 0) // panner.StrategyStereo == 0
	if code != engine.CodeNone {
		t.Fatalf("CreatePannedSource code = %v", code)
	}
	genHandle, code := CreateNoiseGenerator(ctxHandle, 1, 99)
	if code != engine.CodeNone {
		t.Fatalf("CreateNoiseGenerator code = %v", code)
	}
	if code := SourceAddGenerator(srcHandle, genHandle); code != engine.CodeNone {
		t.Fatalf("SourceAddGenerator code = %v", code)
	}

	echoHandle, code := CreateEcho(ctxHandle)
	if code != engine.CodeNone {
		t.Fatalf("CreateEcho code = %v", code)
	}
	if code := EchoSetTaps(echoHandle, nil); code != engine.CodeNone {
		t.Fatalf("EchoSetTaps code = %v", code)
	}
	if code := RouterConnect(srcHandle, echoHandle, 1); code != engine.CodeNone {
		t.Fatalf("RouterConnect code = %v", code)
	}

	out := make([]float32, 2*engine.BlockSize)
	if code := Pull(ctxHandle, out); code != engine.CodeNone {
		t.Fatalf("Pull code = %v", code)
	}
	if !anyNonZero(out) {
		t.Fatalf("expected the panned source's signal to reach the master bus")
	}

	if code := RouterDisconnect(srcHandle, echoHandle); code != engine.CodeNone {
		t.Fatalf("RouterDisconnect code = %v", code)
	}
}

// End-to-end scenario 6: freeing a context mid-playback returns without
// deadlock, the freed context handle itself is then invalid, and every
// subsequent call through a handle still bound to that context reports
// CodeShutdownInProgress rather than succeeding or racing the final
// deletion drain.
func TestHandleFree_ContextDuringPlaybackReturnsShutdownInProgressAfterward(t *testing.T) {
	ctxHandle, code := CreateContext(1, true)
	if code != engine.CodeNone {
		t.Fatalf("CreateContext code = %v", code)
	}

	srcHandle, code := CreateDirectSource(ctxHandle)
	if code != engine.CodeNone {
		t.Fatalf("CreateDirectSource code = %v", code)
	}
	genHandle, code := CreateNoiseGenerator(ctxHandle, 1, 7)
	if code != engine.CodeNone {
		t.Fatalf("CreateNoiseGenerator code = %v", code)
	}
	if code := SourceAddGenerator(srcHandle, genHandle); code != engine.CodeNone {
		t.Fatalf("SourceAddGenerator code = %v", code)
	}

	out := make([]float32, engine.BlockSize)
	for i := 0; i < 5; i++ {
		if code := Pull(ctxHandle, out); code != engine.CodeNone {
			t.Fatalf("Pull code = %v", code)
		}
	}

	if code := HandleFree(ctxHandle); code != engine.CodeNone {
		t.Fatalf("HandleFree(context) code = %v", code)
	}

	if code := Pull(ctxHandle, out); code != engine.CodeInvalidHandle {
		t.Fatalf("Pull after free code = %v, want CodeInvalidHandle", code)
	}
	if code := SourceAddGenerator(srcHandle, genHandle); code != engine.CodeShutdownInProgress {
		t.Fatalf("SourceAddGenerator after shutdown code = %v, want CodeShutdownInProgress", code)
	}
	if _, code := GetD(srcHandle, engine.PropGain); code != engine.CodeShutdownInProgress {
		t.Fatalf("GetD after shutdown code = %v, want CodeShutdownInProgress", code)
	}
	if code := HandleFree(genHandle); code != engine.CodeShutdownInProgress {
		t.Fatalf("HandleFree(generator) after shutdown code = %v, want CodeShutdownInProgress", code)
	}
}

func TestDesignBiquadLowpass_RejectsInvalidFrequency(t *testing.T) {
	if _, code := DesignBiquadLowpass(44100, 0, 0.707); code != engine.CodeInvalidArgument {
		t.Fatalf("code = %v, want CodeInvalidArgument", code)
	}
	if _, code := DesignBiquadLowpass(44100, 30000, 0.707); code != engine.CodeInvalidArgument {
		t.Fatalf("code = %v, want CodeInvalidArgument", code)
	}
	if _, code := DesignBiquadLowpass(44100, 1000, 0.707); code != engine.CodeNone {
		t.Fatalf("code = %v, want CodeNone", code)
	}
}
