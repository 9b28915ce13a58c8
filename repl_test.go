package main

import (
	"bytes"
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/mrdg/chopper/audio"
)

func newTestEnv() *env {
	table := audio.NewTable(200,
		&audio.Sound{Name: "loops/kick.wav", Data: make([]uint8, 1600), Beats: 8},
		&audio.Sound{Name: "loops/hats.wav", Data: make([]uint8, 800), Beats: 4},
	)
	return &env{
		params: audio.NewParams(table.NumSamples()),
		knobs:  &audio.VirtualKnobs{},
		table:  table,
	}
}

func TestEval(t *testing.T) {
	env := newTestEnv()

	tests := []struct {
		input string
		want  string
	}{
		{"knob 1 5000", ""},
		{"set distortion 20", ""},
		{"get distortion", "20"},
		{"set interval 10.6", ""},
		{"get interval", "25"},
		{"set sample 9", ""},
		{"get sample", "1"},
		{"preset crush", ""},
		{"# comment", ""},
		{"", ""},
		{"samples", " 0 kick (8 beats, 1600 samples)\n 1 hats (4 beats, 800 samples)"},
	}
	for _, test := range tests {
		got, err := env.eval(test.input)
		if err != nil {
			t.Fatalf("%q: %v", test.input, err)
		}
		if got != test.want {
			t.Errorf("%q: want %q, got %q", test.input, test.want, got)
		}
	}
	if want, got := uint16(audio.FullScale), env.knobs.Read(2); want != got {
		t.Errorf("knob 2 after preset: want %d, got %d", want, got)
	}
}

func TestEvalErrors(t *testing.T) {
	env := newTestEnv()
	inputs := []string{
		"louder",
		"knob 1",
		"knob 3 100",
		"knob a 100",
		"set volume 3",
		"set sample \"x\"",
		"get",
		"preset loud",
		"run \"does-not-exist.txt\"",
		"knob 1 -",
	}
	for _, input := range inputs {
		if _, err := env.eval(input); err == nil {
			t.Errorf("%q: expected error", input)
		}
	}
	if _, err := env.eval("quit"); !errors.Is(err, errQuit) {
		t.Errorf("quit: want errQuit, got %v", err)
	}
}

func TestRunFile(t *testing.T) {
	env := newTestEnv()
	dir := t.TempDir()
	script := filepath.Join(dir, "setup.txt")
	content := "# setup\nknob 0 4095\nset volume.reduce 12\n"
	if err := os.WriteFile(script, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := env.runFile(script); err != nil {
		t.Fatal(err)
	}
	if want, got := 12, env.params.VolumeReduce.Load(); want != got {
		t.Errorf("volume.reduce: want %d, got %d", want, got)
	}
	if want, got := uint16(4095), env.knobs.Read(0); want != got {
		t.Errorf("knob 0: want %d, got %d", want, got)
	}

	bad := filepath.Join(dir, "bad.txt")
	if err := os.WriteFile(bad, []byte("knob 0 1\nbogus\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := env.runFile(bad)
	if err == nil || !strings.Contains(err.Error(), "bad.txt:2") {
		t.Errorf("want error at line 2, got %v", err)
	}

	// a script that runs itself stops at the nesting limit
	loop := filepath.Join(dir, "loop.txt")
	if err := os.WriteFile(loop, []byte("run \""+loop+"\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := env.runFile(loop); err == nil || !strings.Contains(err.Error(), "too many nested") {
		t.Errorf("want nesting error, got %v", err)
	}
}

func TestParseKnobs(t *testing.T) {
	codes, err := parseKnobs("0, 4095,2500")
	if err != nil {
		t.Fatal(err)
	}
	if want, got := [audio.NumKnobs]int{0, 4095, 2500}, codes; want != got {
		t.Errorf("want %v, got %v", want, got)
	}
	for _, s := range []string{"1,2", "1,2,x", ""} {
		if _, err := parseKnobs(s); err == nil {
			t.Errorf("%q: expected error", s)
		}
	}
}

func TestSamplesPerBeat(t *testing.T) {
	if want, got := 3200, samplesPerBeat(180, 19200); want != got {
		t.Errorf("want %d, got %d", want, got)
	}
}

func TestRenderStatus(t *testing.T) {
	env := newTestEnv()
	env.knobs.Set(1, audio.FullScale)
	var sb strings.Builder
	renderStatus(env, &sb)
	out := sb.String()
	for _, s := range []string{"sample", "speed", "tone", "4095", "kick", "150µs", "volume.reduce"} {
		if !strings.Contains(out, s) {
			t.Errorf("status is missing %q:\n%s", s, out)
		}
	}
}

func TestRedirectLog(t *testing.T) {
	var stderr, prompt bytes.Buffer
	env := newTestEnv()
	env.logger = log.New(&stderr, "", 0)

	restore := env.redirectLog(&prompt)
	env.logger.Print("during")
	restore()
	env.logger.Print("after")
	if want, got := "during\n", prompt.String(); want != got {
		t.Errorf("redirected: want %q, got %q", want, got)
	}
	if want, got := "after\n", stderr.String(); want != got {
		t.Errorf("restored: want %q, got %q", want, got)
	}

	prompt.Reset()
	env.logger.SetOutput(io.Discard)
	restore = env.redirectLog(&prompt)
	env.logger.Print("quiet")
	restore()
	if prompt.Len() != 0 {
		t.Errorf("discarded log was redirected: %q", prompt.String())
	}
}
