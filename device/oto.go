// SPDX-License-Identifier: EPL-2.0

package device

import (
	"context"
	"sync"
	"time"
	"unsafe"

	"github.com/ebitengine/oto/v3"

	"github.com/auralengine/aural/engine"
)

// OtoBackend drives a real output device through
// github.com/ebitengine/oto/v3, the same library and "player fed by an
// io.Reader" shape as IntuitionEngine's audio_backend_oto.go.
type OtoBackend struct {
	otoCtx   *oto.Context
	player   *oto.Player
	channels int

	pull  PullFunc
	block []float32
	// leftover holds the tail of the most recently rendered block that
	// hasn't yet been copied out to oto, since oto's Read requests are
	// sized by its own internal buffering, not by BlockSize.
	leftover []byte

	mu      sync.Mutex
	started bool
}

// NewOtoBackend opens an oto context at sampleRate for channels interleaved
// channels of float32 output. It blocks until the platform backend
// reports ready.
func NewOtoBackend(sampleRate, channels int) (*OtoBackend, error) {
	otoCtx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: channels,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	})
	if err != nil {
		return nil, err
	}
	<-ready
	return &OtoBackend{
		otoCtx:   otoCtx,
		channels: channels,
		block:    make([]float32, engine.BlockSize*channels),
	}, nil
}

// Read implements io.Reader for oto's player, rendering fresh blocks via
// pull as needed to satisfy oto's requested byte count.
func (b *OtoBackend) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if len(b.leftover) == 0 {
			b.pull(b.block)
			b.leftover = floatsAsBytes(b.block)
		}
		c := copy(p[n:], b.leftover)
		b.leftover = b.leftover[c:]
		n += c
	}
	return n, nil
}

func floatsAsBytes(s []float32) []byte {
	if len(s) == 0 {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*4)
}

// Start creates and plays an oto.Player fed by Read, which in turn calls
// pull once per rendered block. Canceling ctx stops playback.
func (b *OtoBackend) Start(ctx context.Context, pull PullFunc) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.started {
		return nil
	}
	b.pull = pull
	b.player = b.otoCtx.NewPlayer(b)
	b.player.Play()
	b.started = true

	go func() {
		<-ctx.Done()
		b.Stop()
	}()
	return nil
}

// Stop closes the player. Safe to call more than once.
func (b *OtoBackend) Stop() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.started {
		return nil
	}
	b.started = false
	return b.player.Close()
}

func (b *OtoBackend) Channels() int { return b.channels }
