package main

import (
	"io"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mrdg/chopper/audio"
	"github.com/youpy/go-wav"
)

func TestRecord(t *testing.T) {
	data := make([]uint8, 64)
	for i := range data {
		data[i] = 28
		if i%2 == 0 {
			data[i] = 228
		}
	}
	table := audio.NewTable(8, &audio.Sound{Name: "square.wav", Data: data, Beats: 8})
	params := audio.NewParams(table.NumSamples())
	input := &audio.VirtualKnobs{}
	if err := audio.LoadPreset("clean", input); err != nil {
		t.Fatal(err)
	}
	knobs := audio.NewKnobs(input, params, table.NumSamples(), 1)
	engine := audio.NewEngine(table, params, rand.New(rand.NewSource(1)))
	const sampleRate = 8000
	player := audio.NewPlayer(engine, sampleRate)

	file := filepath.Join(t.TempDir(), "out.wav")
	if err := record(file, player, knobs, sampleRate, 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(file)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		t.Fatal(err)
	}
	if want, got := (wav.WavFormat{
		AudioFormat:   wav.AudioFormatPCM,
		NumChannels:   1,
		SampleRate:    sampleRate,
		ByteRate:      2 * sampleRate,
		BlockAlign:    2,
		BitsPerSample: 16,
	}), *format; want != got {
		t.Errorf("format: want %+v, got %+v", want, got)
	}

	var frames, loud int
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		for _, s := range samples {
			if r.IntValue(s, 0) != 0 {
				loud++
			}
		}
		frames += len(samples)
	}
	if want, got := 80, frames; want != got {
		t.Errorf("frames: want %d, got %d", want, got)
	}
	if loud == 0 {
		t.Error("recording is silent")
	}
	if want, got := audio.MaxInterval, params.Interval.Load(); want != got {
		t.Errorf("knobs were not polled: interval want %d, got %d", want, got)
	}
}
