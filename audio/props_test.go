package audio

import (
	"math"
	"reflect"
	"testing"
)

func TestPropsSet(t *testing.T) {
	params := NewParams(4)

	tests := []struct {
		key   string
		value interface{}
		want  int
	}{
		{PropSample, 2, 2},
		{PropSample, 9, 3},
		{PropSample, -1, 0},
		{PropInterval, 10, MinInterval},
		{PropInterval, 80.4, 80},
		{PropInterval, 80.5, 81},
		{PropInterval, math.Inf(1), MaxInterval},
		{PropDistortion, 61, MaxDistortion},
		{PropVolumeReduce, 20, 20},
	}
	for _, test := range tests {
		if err := params.Set(test.key, test.value); err != nil {
			t.Fatalf("set %s: %v", test.key, err)
		}
		got, err := params.Get(test.key)
		if err != nil {
			t.Fatal(err)
		}
		if got != test.want {
			t.Errorf("set %s to %v: want %d, got %d", test.key, test.value, test.want, got)
		}
	}
}

func TestPropsErrors(t *testing.T) {
	params := NewParams(4)
	if err := params.Set("volume", 1); err == nil {
		t.Error("expected error for unknown key")
	}
	if _, err := params.Get("volume"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := params.Set(PropSample, "1"); err == nil {
		t.Error("expected error for string value")
	}
	if err := params.Set(PropSample, math.NaN()); err == nil {
		t.Error("expected error for NaN")
	}
	if _, err := params.Register(PropSample, 0, 1, 0); err == nil {
		t.Error("expected error for duplicate key")
	}
	if _, err := params.Register("empty", 2, 1, 0); err == nil {
		t.Error("expected error for empty range")
	}
}

func TestPropsKeys(t *testing.T) {
	want := []string{"distortion", "interval", "sample", "volume.reduce"}
	if got := NewParams(1).Keys(); !reflect.DeepEqual(want, got) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestParamsDefaults(t *testing.T) {
	params := NewParams(0)
	if min, max := params.Sample.Range(); min != 0 || max != 0 {
		t.Errorf("sample range: want 0-0, got %d-%d", min, max)
	}
	if want, got := MaxInterval, params.Interval.Load(); want != got {
		t.Errorf("interval: want %d, got %d", want, got)
	}
}
