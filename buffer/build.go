package buffer

import (
	"fmt"
	"io"

	"github.com/auralengine/aural/audio"
)

// decodeBufSize is the chunk size used while pulling samples out of a
// Source during Decode/FromSource; it has no relation to ChunkBytes.
const decodeBufSize = 4096

// engineSampleRate mirrors engine.SampleRate. buffer does not import engine
// to avoid coupling storage to the runtime, the same reason dsp keeps its
// own BlockSize rather than importing engine's.
const engineSampleRate = 44100

// Decoder decodes a stream into an audio.Source. formats.wav.Decoder,
// formats.mp3.Decoder, formats.vorbis.Decoder and formats.aiff.Decoder all
// satisfy this.
type Decoder interface {
	Decode(r io.Reader) (audio.Source, error)
}

// Decode runs dec against r to completion and pages the result into a
// Buffer. It is the on-disk-file counterpart to FromSource.
func Decode(dec Decoder, r io.Reader) (*Buffer, error) {
	src, err := dec.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w", err)
	}
	defer src.Close()

	return FromSource(src)
}

// FromSource drains src to completion (io.EOF) and pages the result into a
// Buffer. It is always called from a user thread; the audio thread never
// runs decode. A source decoded at a rate other than engineSampleRate is
// resampled first, so BufferGenerator.Fill's cursor can advance one
// engine-rate frame per output frame regardless of what rate the file was
// authored at (spec §4.12).
func FromSource(src audio.Source) (*Buffer, error) {
	if src.SampleRate() != engineSampleRate {
		src = audio.NewResampler(src, engineSampleRate)
	}

	channels := src.Channels()
	bld := newBuilder(channels, src.SampleRate())

	tmp := make([]float32, decodeBufSize)
	for {
		n, err := src.ReadSamples(tmp)
		if n > 0 {
			bld.append(tmp[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w", err)
		}
		if n == 0 {
			break
		}
	}

	return bld.build(), nil
}
