//go:build !tinygo

package audio

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ebitengine/oto/v3"
)

// OtoSink plays a Player through oto. oto pulls mono float32 frames via Read.
type OtoSink struct {
	ctx    *oto.Context
	player *oto.Player
	source *Player
	buf    []float32
}

func NewOtoSink(player *Player, sampleRate int) (*OtoSink, error) {
	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
	})
	if err != nil {
		return nil, fmt.Errorf("oto: %w", err)
	}
	<-ready
	s := &OtoSink{ctx: ctx, source: player, buf: make([]float32, 1024)}
	s.player = ctx.NewPlayer(s)
	return s, nil
}

// Read implements io.Reader for the oto player.
func (s *OtoSink) Read(p []byte) (int, error) {
	n := len(p) / 4
	if len(s.buf) < n {
		s.buf = make([]float32, n)
	}
	frames := s.buf[:n]
	s.source.Fill(frames)
	for i, v := range frames {
		binary.LittleEndian.PutUint32(p[i*4:], math.Float32bits(v))
	}
	return n * 4, nil
}

func (s *OtoSink) Start() error {
	s.player.Play()
	return nil
}

func (s *OtoSink) Stop() error {
	return s.player.Close()
}
