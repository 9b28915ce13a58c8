package main

import (
	"fmt"
	"os"
	"time"

	"github.com/mrdg/chopper/audio"
	"github.com/youpy/go-wav"
)

// record renders d of audio to a 16-bit mono WAV file. The knobs are polled once
// per millisecond of rendered audio, as they would be in real time.
func record(file string, player *audio.Player, knobs *audio.Knobs, sampleRate int, d time.Duration) error {
	f, err := os.Create(file)
	if err != nil {
		return err
	}
	defer f.Close()

	numFrames := int(int64(d) * int64(sampleRate) / int64(time.Second))
	w := wav.NewWriter(f, uint32(numFrames), 1, uint32(sampleRate), 16)

	blockSize := max(sampleRate*int(audio.DefaultPollRate)/int(time.Second), 1)
	buf := make([]float32, blockSize)
	samples := make([]wav.Sample, blockSize)
	for written := 0; written < numFrames; {
		n := min(blockSize, numFrames-written)
		knobs.Poll()
		player.Fill(buf[:n])
		for i, v := range buf[:n] {
			samples[i].Values[0] = int(v * 32767)
		}
		if err := w.WriteSamples(samples[:n]); err != nil {
			return fmt.Errorf("write %s: %w", file, err)
		}
		written += n
	}
	return f.Close()
}
