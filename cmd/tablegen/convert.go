package main

import (
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/dh1tw/gosamplerate"
	"github.com/mrdg/chopper/audio"
	"github.com/youpy/go-wav"
)

type loop struct {
	path  string
	bpm   float64
	beats int
}

var (
	beatsPattern = regexp.MustCompile(`(?i)beats(\d+)`)
	bpmPattern   = regexp.MustCompile(`(?i)bpm(\d+(?:\.\d+)?)`)
)

// parseName reads the tempo and length of a loop from its file name.
func parseName(path string) (loop, error) {
	name := filepath.Base(path)
	l := loop{path: path}
	m := beatsPattern.FindStringSubmatch(name)
	if m == nil {
		return l, fmt.Errorf("%s: no beat count in name", name)
	}
	l.beats, _ = strconv.Atoi(m[1])
	m = bpmPattern.FindStringSubmatch(name)
	if m == nil {
		return l, fmt.Errorf("%s: no tempo in name", name)
	}
	l.bpm, _ = strconv.ParseFloat(m[1], 64)
	if l.beats == 0 || l.bpm == 0 {
		return l, fmt.Errorf("%s: zero tempo or beat count", name)
	}
	return l, nil
}

func findLoops(root string) ([]loop, error) {
	var loops []loop
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !strings.EqualFold(filepath.Ext(path), ".wav") {
			return nil
		}
		l, err := parseName(path)
		if err != nil {
			return nil
		}
		loops = append(loops, l)
		return nil
	})
	return loops, err
}

// convert loads a loop, stretches it to bpm, resamples it to sampleRate and
// quantizes it to unsigned 8 bit. Sounds are sliced in half beats.
func convert(l loop, bpm, sampleRate float64) (*audio.Sound, error) {
	samples, rate, err := readMono(l.path)
	if err != nil {
		return nil, err
	}
	ratio := sampleRate / rate * l.bpm / bpm
	out, err := gosamplerate.Simple(samples, ratio, 1, gosamplerate.SRC_SINC_MEDIUM_QUALITY)
	if err != nil {
		return nil, fmt.Errorf("resample %s: %w", l.path, err)
	}
	normalize(out, headroom)
	data := make([]uint8, len(out))
	for i, v := range out {
		data[i] = audio.FloatToU8(float64(v))
	}
	return &audio.Sound{Name: filepath.Base(l.path), Data: data, Beats: 2 * l.beats}, nil
}

func readMono(path string) ([]float32, float64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, err
	}
	defer f.Close()

	r := wav.NewReader(f)
	format, err := r.Format()
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", path, err)
	}
	var mono []float32
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, 0, fmt.Errorf("%s: %w", path, err)
		}
		for _, s := range samples {
			var sum float64
			for ch := uint(0); ch < uint(format.NumChannels); ch++ {
				sum += audio.PCMValue(r.IntValue(s, ch), format.BitsPerSample)
			}
			mono = append(mono, float32(sum/float64(format.NumChannels)))
		}
	}
	return mono, float64(format.SampleRate), nil
}

// -3 dB below full scale
var headroom = math.Pow(10, -3.0/20)

// normalize scales buf so that its peak sits at level.
func normalize(buf []float32, level float64) {
	var peak float64
	for _, v := range buf {
		peak = math.Max(peak, math.Abs(float64(v)))
	}
	if peak == 0 {
		return
	}
	gain := float32(level / peak)
	for i := range buf {
		buf[i] *= gain
	}
}
