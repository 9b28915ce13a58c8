package audio

import (
	"fmt"
	"math"
	"sort"
	"sync/atomic"
)

// Param is a single integer cell shared between goroutines without locks. Values are
// clamped into [min, max] on store, so readers only ever see in-range values.
type Param struct {
	v        atomic.Int32
	min, max int32
}

func (p *Param) Load() int { return int(p.v.Load()) }

func (p *Param) Store(v int) {
	if v < int(p.min) {
		v = int(p.min)
	}
	if v > int(p.max) {
		v = int(p.max)
	}
	p.v.Store(int32(v))
}

func (p *Param) Range() (min, max int) { return int(p.min), int(p.max) }

// Props stores device configuration that can be updated without locks. All properties
// should be registered before any reads take place.
type Props struct {
	properties map[string]*Param
}

func NewProps() *Props {
	return &Props{properties: make(map[string]*Param)}
}

// Set updates the property with value. The key has to be registered first using Register.
func (p *Props) Set(key string, value interface{}) error {
	prop, ok := p.properties[key]
	if !ok {
		return fmt.Errorf("unknown property %s", key)
	}
	switch n := value.(type) {
	case int:
		prop.Store(n)
	case float64:
		if math.IsNaN(n) {
			return fmt.Errorf("set property %s: value is not a number", key)
		}
		prop.Store(int(math.Max(math.MinInt32, math.Min(math.MaxInt32, math.Round(n)))))
	default:
		return fmt.Errorf("set property %s: value is not a number: %v", key, value)
	}
	return nil
}

func (p *Props) Get(key string) (int, error) {
	prop, ok := p.properties[key]
	if !ok {
		return 0, fmt.Errorf("unknown property %s", key)
	}
	return prop.Load(), nil
}

// Keys returns the registered property names in sorted order.
func (p *Props) Keys() []string {
	keys := make([]string, 0, len(p.properties))
	for k := range p.properties {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Register adds a new property.
func (p *Props) Register(key string, min, max, init int) (*Param, error) {
	if _, ok := p.properties[key]; ok {
		return nil, fmt.Errorf("property %s already registered", key)
	}
	if min > max {
		return nil, fmt.Errorf("property %s: empty range %d - %d", key, min, max)
	}
	prop := &Param{min: int32(min), max: int32(max)}
	prop.Store(init)
	p.properties[key] = prop
	return prop, nil
}

func (p *Props) MustRegister(key string, min, max, init int) *Param {
	if prop, err := p.Register(key, min, max, init); err != nil {
		panic(err)
	} else {
		return prop
	}
}

const (
	PropSample       = "sample"
	PropInterval     = "interval"
	PropDistortion   = "distortion"
	PropVolumeReduce = "volume.reduce"
)

const (
	MinInterval     = 25
	MaxInterval     = 150
	MaxDistortion   = 60
	MaxVolumeReduce = 35
)

// Params are the playback parameters written by the knobs and read by the engine on
// every tick. Fields are independent; there is no consistency across them.
type Params struct {
	*Props
	Sample       *Param
	Interval     *Param // µs between ticks
	Distortion   *Param
	VolumeReduce *Param
}

func NewParams(numSamples int) *Params {
	props := NewProps()
	return &Params{
		Props:        props,
		Sample:       props.MustRegister(PropSample, 0, max(numSamples-1, 0), 0),
		Interval:     props.MustRegister(PropInterval, MinInterval, MaxInterval, MaxInterval),
		Distortion:   props.MustRegister(PropDistortion, 0, MaxDistortion, 0),
		VolumeReduce: props.MustRegister(PropVolumeReduce, 0, MaxVolumeReduce, 0),
	}
}
