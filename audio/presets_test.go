package audio

import (
	"reflect"
	"testing"
)

func TestLoadPreset(t *testing.T) {
	var k VirtualKnobs
	if err := LoadPreset("crush", &k); err != nil {
		t.Fatal(err)
	}
	if want, got := (fixedInput{0, FullScale, FullScale}), (fixedInput{k.Read(0), k.Read(1), k.Read(2)}); want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	if err := LoadPreset("loud", &k); err == nil {
		t.Error("expected error for unknown preset")
	}
}

func TestPresetTone(t *testing.T) {
	for _, name := range Presets() {
		var k VirtualKnobs
		if err := LoadPreset(name, &k); err != nil {
			t.Fatal(err)
		}
		params := NewParams(2)
		settle(NewKnobs(&k, params, 2, 0))
		distortion, reduce := params.Distortion.Load(), params.VolumeReduce.Load()
		switch name {
		case "crush":
			if distortion != MaxDistortion {
				t.Errorf("%s: want full distortion, got %d", name, distortion)
			}
		case "mute":
			if reduce != MaxVolumeReduce {
				t.Errorf("%s: want full volume reduction, got %d", name, reduce)
			}
		case "hush":
			if reduce == 0 || reduce == MaxVolumeReduce {
				t.Errorf("%s: want partial volume reduction, got %d", name, reduce)
			}
		default:
			if distortion != 0 || reduce != 0 {
				t.Errorf("%s: want a clean tone, got %d, %d", name, distortion, reduce)
			}
		}
	}
}

func TestPresetNames(t *testing.T) {
	want := []string{"bottom", "clean", "crush", "hush", "mute", "slow"}
	if got := Presets(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}
