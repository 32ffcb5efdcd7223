// SPDX-License-Identifier: EPL-2.0

// Command auralctl decodes an audio file, plays it through a headless
// engine context for a fixed number of blocks, and prints the RMS of
// what came out — a small, scriptable way to exercise the engine
// without a real output device.
package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"

	"github.com/auralengine/aural/audio"
	"github.com/auralengine/aural/capi"
	"github.com/auralengine/aural/engine"
	"github.com/auralengine/aural/formats/wav"
	"github.com/auralengine/aural/logging"
	"github.com/auralengine/aural/utils"
)

// engineSource adapts a headless context's Pull loop into an audio.Source
// yielding raw interleaved blocks, one per call, so the dump path can run
// through audio.MonoMixer the same way a streaming decode pipeline would
// downmix a multichannel file, instead of hand-rolling the channel average.
type engineSource struct {
	ctxHandle capi.Handle
	channels  int
	remaining int
	pending   []float32

	sumSquares float64
	samples    int
}

func newEngineSource(ctxHandle capi.Handle, channels, blocks int) *engineSource {
	return &engineSource{ctxHandle: ctxHandle, channels: channels, remaining: blocks}
}

func (s *engineSource) SampleRate() int { return engine.SampleRate }
func (s *engineSource) Channels() int   { return s.channels }
func (s *engineSource) BufSize() int    { return engine.BlockSize * s.channels }
func (s *engineSource) Close() error    { return nil }

func (s *engineSource) ReadSamples(dst []float32) (int, error) {
	if len(s.pending) == 0 {
		if s.remaining == 0 {
			return 0, io.EOF
		}
		s.remaining--
		block := make([]float32, engine.BlockSize*s.channels)
		if code := capi.Pull(s.ctxHandle, block); code != engine.CodeNone {
			return 0, fmt.Errorf("pull: %v", code)
		}
		for _, v := range block {
			s.sumSquares += float64(v) * float64(v)
		}
		s.samples += len(block)
		s.pending = block
	}
	n := copy(dst, s.pending)
	s.pending = s.pending[n:]
	var err error
	if len(s.pending) == 0 && s.remaining == 0 {
		err = io.EOF
	}
	return n, err
}

func main() {
	if len(os.Args) < 2 {
		fmt.Println("usage: auralctl <input.{wav|mp3|ogg|aiff}> [blocks] [dump.wav]")
		os.Exit(1)
	}
	inPath := os.Args[1]

	blocks := 100
	if len(os.Args) >= 3 {
		n, err := strconv.Atoi(os.Args[2])
		if err != nil {
			fmt.Println("bad block count:", os.Args[2])
			os.Exit(1)
		}
		blocks = n
	}

	var dumpPath string
	if len(os.Args) >= 4 {
		dumpPath = os.Args[3]
	}

	ext := filepath.Ext(inPath)
	if len(ext) > 0 {
		ext = ext[1:]
	}
	if ext == "ogg" {
		ext = "vorbis"
	}

	f, err := os.Open(inPath)
	if err != nil {
		logging.Error("open %s: %v", inPath, err)
		os.Exit(1)
	}
	defer f.Close()

	const channels = 2

	ctxHandle, code := capi.CreateContext(channels, true)
	if code != engine.CodeNone {
		logging.Error("create context: %v", code)
		os.Exit(1)
	}
	defer capi.HandleFree(ctxHandle)

	bufHandle, code := capi.CreateBufferFromStream(ctxHandle, f, ext)
	if code != engine.CodeNone {
		logging.Error("decode %s: %v", inPath, code)
		os.Exit(1)
	}

	genHandle, code := capi.CreateBufferGenerator(ctxHandle, bufHandle)
	if code != engine.CodeNone {
		logging.Error("create buffer generator: %v", code)
		os.Exit(1)
	}

	srcHandle, code := capi.CreateDirectSource(ctxHandle)
	if code != engine.CodeNone {
		logging.Error("create source: %v", code)
		os.Exit(1)
	}
	if code := capi.SourceAddGenerator(srcHandle, genHandle); code != engine.CodeNone {
		logging.Error("attach generator: %v", code)
		os.Exit(1)
	}

	logging.Info("playing %s for %d blocks", inPath, blocks)

	src := newEngineSource(ctxHandle, channels, blocks)
	mixer := audio.NewMonoMixer(src)

	monoBuf := make([]float32, engine.BlockSize)
	var mono []int16
	for {
		n, err := mixer.ReadSamples(monoBuf)
		if n > 0 && dumpPath != "" {
			for _, v := range monoBuf[:n] {
				mono = append(mono, utils.Float32ToInt16(v))
			}
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			logging.Error("downmix: %v", err)
			os.Exit(1)
		}
	}

	rms := 0.0
	if src.samples > 0 {
		rms = math.Sqrt(src.sumSquares / float64(src.samples))
	}
	fmt.Printf("rms: %.6f\n", rms)

	if dumpPath != "" {
		out, err := os.Create(dumpPath)
		if err != nil {
			logging.Error("create %s: %v", dumpPath, err)
			os.Exit(1)
		}
		defer out.Close()
		if err := wav.WriteWAV16(out, engine.SampleRate, mono); err != nil {
			logging.Error("write %s: %v", dumpPath, err)
			os.Exit(1)
		}
		logging.Info("wrote downmixed render to %s", dumpPath)
	}
}
