package audio

import (
	"fmt"
	"sort"
)

// KnobSetter moves knobs by hand. VirtualKnobs is one.
type KnobSetter interface {
	Set(ch, code int)
}

// preset holds a code for every knob: sample, speed, tone.
type preset [NumKnobs]int

var presets = map[string]preset{
	"clean":  {0, FullScale, 2500},
	"slow":   {0, 0, 2500},
	"crush":  {0, FullScale, FullScale},
	"hush":   {0, FullScale, 1000},
	"mute":   {0, FullScale, 0},
	"bottom": {FullScale, FullScale, 2500},
}

// LoadPreset moves every knob to the named preset.
func LoadPreset(name string, k KnobSetter) error {
	p, ok := presets[name]
	if !ok {
		return fmt.Errorf("unknown preset: %v", name)
	}
	for ch, code := range p {
		k.Set(ch, code)
	}
	return nil
}

func Presets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
