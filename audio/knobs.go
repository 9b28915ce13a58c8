package audio

import (
	"context"
	"math"
	"sync/atomic"
	"time"
)

// AnalogInput yields 12-bit codes for the knob channels.
type AnalogInput interface {
	Read(channel int) uint16
}

const (
	NumKnobs  = 3
	FullScale = 4095

	// Knob 2 is silent below toneLow, clean between the thresholds and
	// distorted above toneHigh.
	toneLow  = 2000
	toneHigh = 3000
)

const (
	DefaultCutoff   = 1.5 // Hz
	DefaultPollRate = time.Millisecond
)

// SmoothingAlpha returns the coefficient of a one-pole low-pass filter with the
// given cutoff, sampled at rate.
func SmoothingAlpha(cutoff, rate float64) float64 {
	return 1 - math.Exp(-2*math.Pi*cutoff/rate)
}

// Knobs reads the analog inputs, smooths them and publishes playback parameters.
// Parameters are only written when the rounded filter output changes.
type Knobs struct {
	input      AnalogInput
	params     *Params
	numSamples int
	alpha      float64
	max        float64 // highest value the filter settles to

	filtered [NumKnobs]float64
	last     [NumKnobs]int
}

func NewKnobs(input AnalogInput, params *Params, numSamples int, alpha float64) *Knobs {
	if alpha <= 0 || alpha > 1 {
		alpha = SmoothingAlpha(DefaultCutoff, float64(time.Second/DefaultPollRate))
	}
	k := &Knobs{
		input:      input,
		params:     params,
		numSamples: numSamples,
		alpha:      alpha,
		max:        math.Max(math.Floor(FullScale-FullScale*alpha), toneHigh+1),
	}
	for ch := range k.last {
		k.last[ch] = -1 // publish on the first poll
	}
	return k
}

// Poll reads every channel once.
func (k *Knobs) Poll() {
	for ch := 0; ch < NumKnobs; ch++ {
		raw := k.input.Read(ch)
		if raw > FullScale {
			raw = FullScale
		}
		k.filtered[ch] = k.alpha*float64(raw) + (1-k.alpha)*k.filtered[ch]
		v := int(math.Round(k.filtered[ch]))
		if v == k.last[ch] {
			continue
		}
		k.last[ch] = v
		k.publish(ch, v)
	}
}

func (k *Knobs) publish(ch, v int) {
	top := int(k.max)
	switch ch {
	case 0:
		k.params.Sample.Store(mapSample(v, top, k.numSamples))
	case 1:
		k.params.Interval.Store(mapInterval(v, top))
	case 2:
		distortion, reduce := mapTone(v, top)
		k.params.Distortion.Store(distortion)
		k.params.VolumeReduce.Store(reduce)
	}
}

// Run polls the inputs every period until ctx is done.
func (k *Knobs) Run(ctx context.Context, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		k.Poll()
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// The mappings take the smoothed value and the value the filter settles at for a
// fully turned knob.

func mapSample(v, top, numSamples int) int {
	if numSamples <= 0 {
		return 0
	}
	return min(v*numSamples/top, numSamples-1)
}

func mapInterval(v, top int) int {
	return min(v*(MaxInterval-MinInterval)/top+MinInterval, MaxInterval)
}

func mapTone(v, top int) (distortion, reduce int) {
	switch {
	case v < toneLow:
		return 0, (toneLow - v) * MaxVolumeReduce / toneLow
	case v > toneHigh:
		return min(v-toneHigh, top-toneHigh) * MaxDistortion / (top - toneHigh), 0
	default:
		return 0, 0
	}
}

// VirtualKnobs is an AnalogInput whose channels are set by hand.
type VirtualKnobs struct {
	codes [NumKnobs]atomic.Uint32
}

func (v *VirtualKnobs) Read(ch int) uint16 {
	if ch < 0 || ch >= NumKnobs {
		return 0
	}
	return uint16(v.codes[ch].Load())
}

// Set moves a knob. Codes above FullScale are clamped.
func (v *VirtualKnobs) Set(ch, code int) {
	if ch < 0 || ch >= NumKnobs {
		return
	}
	code = max(0, min(code, FullScale))
	v.codes[ch].Store(uint32(code))
}
