package router

import "testing"

func TestRouter_ConnectThenDisconnectReturnsEdgeCountToZero(t *testing.T) {
	t.Parallel()

	r := New()
	w := NewWriterHandle()
	inputBuf := make([]float32, 256)
	reader := NewReaderHandle(inputBuf, 1, func() bool { return true })

	r.Connect(w, reader, 1.0)
	if r.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1 after Connect", r.EdgeCount())
	}

	r.Disconnect(w, reader)
	r.SetBlockTime(1) // advance past the fade-to-zero block
	r.Prune()

	if r.EdgeCount() != 0 {
		t.Fatalf("EdgeCount() = %d, want 0 after Disconnect settles", r.EdgeCount())
	}
}

func TestRouter_PrunesExpiredReader(t *testing.T) {
	t.Parallel()

	r := New()
	w := NewWriterHandle()
	alive := true
	reader := NewReaderHandle(make([]float32, 256), 1, func() bool { return alive })

	r.Connect(w, reader, 1.0)
	alive = false
	r.Prune()

	if r.EdgeCount() != 0 {
		t.Fatalf("EdgeCount() = %d, want 0 after reader expired", r.EdgeCount())
	}
}

func TestRouter_RouteAudioSumsScaledIntoReaderBuffer(t *testing.T) {
	t.Parallel()

	r := New()
	w := NewWriterHandle()
	dst := make([]float32, 4)
	reader := NewReaderHandle(dst, 1, func() bool { return true })

	r.Connect(w, reader, 1.0)
	r.SetBlockTime(1) // past the fade-in block, gain settled at 1.0

	src := []float32{1, 1, 1, 1}
	r.RouteAudio(w, src, 1)

	for i, v := range dst {
		if v != 1 {
			t.Errorf("dst[%d] = %v, want 1", i, v)
		}
	}
}

func TestRouter_NoResidualAudioAfterRemoval(t *testing.T) {
	t.Parallel()

	r := New()
	w := NewWriterHandle()
	dst := make([]float32, 4)
	reader := NewReaderHandle(dst, 1, func() bool { return true })

	r.Connect(w, reader, 1.0)
	r.SetBlockTime(1)
	r.Disconnect(w, reader)
	r.SetBlockTime(2)
	r.Prune()

	r.RouteAudio(w, []float32{1, 1, 1, 1}, 1)
	for i, v := range dst {
		if v != 0 {
			t.Errorf("dst[%d] = %v, want 0 (edge pruned, no route applied)", i, v)
		}
	}
}
