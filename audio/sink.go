//go:build !tinygo

package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Sink plays a Player through the default portaudio output device.
type Sink struct {
	stream *portaudio.Stream
}

func NewSink(player *Player, sampleRate, bufferSize int) (*Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("portaudio: %w", err)
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(sampleRate), bufferSize, player.Process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("portaudio: %w", err)
	}
	return &Sink{stream: stream}, nil
}

func (s *Sink) Start() error {
	return s.stream.Start()
}

func (s *Sink) Stop() error {
	s.stream.Close()
	return portaudio.Terminate()
}
