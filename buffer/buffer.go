package buffer

// ChunkBytes is the size in bytes of one chunk ("page") of a Buffer. It is a
// power of two so that index-to-chunk arithmetic is a shift and mask rather
// than a division.
const ChunkBytes = 1 << 14

// chunkSamples is the number of float32 samples per chunk.
const chunkSamples = ChunkBytes / 4

// Buffer is decoded PCM audio stored as a chunked array of interleaved
// float32 samples in [-1, 1]. Buffers are built once and read many times;
// nothing about a Buffer changes after Build/Decode returns.
type Buffer struct {
	channels   int
	sampleRate int
	frames     int
	chunks     []*[chunkSamples]float32
}

// Channels is the number of interleaved channels stored in the buffer.
func (b *Buffer) Channels() int { return b.channels }

// SampleRate is the sample rate the buffer was decoded at.
func (b *Buffer) SampleRate() int { return b.sampleRate }

// Frames is the number of frames (samples per channel) in the buffer.
func (b *Buffer) Frames() int { return b.frames }

// sampleAt returns the interleaved sample at the given absolute sample
// index (frame*channels + channel), with O(1) chunk lookup.
func (b *Buffer) sampleAt(index int) float32 {
	chunk := index / chunkSamples
	offset := index % chunkSamples
	return b.chunks[chunk][offset]
}

// Frame writes the samples for one frame (one sample per channel) into dst.
// dst must have length >= Channels(). Reading past Frames()-1 is the
// caller's responsibility to avoid; Frame does not bounds-check frameIndex
// against Frames() beyond what the underlying chunk array allows.
func (b *Buffer) Frame(frameIndex int, dst []float32) {
	base := frameIndex * b.channels
	for c := 0; c < b.channels; c++ {
		dst[c] = b.sampleAt(base + c)
	}
}

// builder accumulates decoded samples into chunks without ever growing a
// single backing array past ChunkBytes.
type builder struct {
	channels   int
	sampleRate int
	chunks     []*[chunkSamples]float32
	written    int // total interleaved samples written across all chunks
}

func newBuilder(channels, sampleRate int) *builder {
	return &builder{channels: channels, sampleRate: sampleRate}
}

// append copies src (interleaved samples) into the chunk array, allocating
// new chunks as needed.
func (bld *builder) append(src []float32) {
	for len(src) > 0 {
		chunkIdx := bld.written / chunkSamples
		offset := bld.written % chunkSamples
		if chunkIdx >= len(bld.chunks) {
			bld.chunks = append(bld.chunks, new([chunkSamples]float32))
		}
		n := copy(bld.chunks[chunkIdx][offset:], src)
		src = src[n:]
		bld.written += n
	}
}

func (bld *builder) build() *Buffer {
	frames := 0
	if bld.channels > 0 {
		frames = bld.written / bld.channels
	}
	return &Buffer{
		channels:   bld.channels,
		sampleRate: bld.sampleRate,
		frames:     frames,
		chunks:     bld.chunks,
	}
}
