// SPDX-License-Identifier: MIT
// Package playback plays decoded PCM through the system output while feeding
// the same samples to the spectrum analyzer. The tap sits between the decoder
// and the player so analysis stays in sync with what is audible.
package playback

import (
	"context"
	"fmt"
	"time"

	"github.com/TheAnsarya/ableton-snes-spc/internal/decode"
	"github.com/ebitengine/oto/v3"
)

// Player owns the audio output context for one file.
type Player struct {
	ctx    *oto.Context
	player *oto.Player
}

// NewPlayer opens an output matching the decoder's format and routes the
// stream through an analyzer tap. sink receives mono frames as they play.
func NewPlayer(dec decode.Decoder, sink SampleSink) (*Player, error) {
	op := &oto.NewContextOptions{
		SampleRate:   dec.SampleRate(),
		ChannelCount: dec.Channels(),
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return nil, fmt.Errorf("creating audio context: %w", err)
	}
	<-readyChan

	src := NewTap(dec, sink, dec.Channels())
	return &Player{
		ctx:    ctx,
		player: ctx.NewPlayer(src),
	}, nil
}

// Play starts playback. It returns immediately; use Wait to block until the
// stream drains.
func (p *Player) Play() {
	p.player.Play()
}

// IsPlaying reports whether the player still has data queued or playing.
func (p *Player) IsPlaying() bool {
	return p.player.IsPlaying()
}

// Wait blocks until playback finishes or ctx is cancelled.
func (p *Player) Wait(ctx context.Context) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for p.player.IsPlaying() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}

// Close releases the underlying player.
func (p *Player) Close() error {
	return p.player.Close()
}
