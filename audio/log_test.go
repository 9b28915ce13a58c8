package audio

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"
	"time"
)

func TestLogDecisions(t *testing.T) {
	rnd := &scriptedRand{script: []uint8{255}}
	e, _ := newTestEngine(1, rnd, &Sound{Data: ramp(8), Beats: 8})
	var out levels
	for i := 0; i < 2; i++ {
		e.Tick(&out)
	}
	e.events.push(Decision{Beat: 5, Length: 2, Direction: Reverse})
	e.events.push(Decision{Beat: 6, Length: 1, Direction: Reverse, Stutter: true, Decided: true})

	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	LogDecisions(ctx, e, log.New(&buf, "", 0), time.Hour, false)

	want := []string{
		"sample 0 beat 1 for 1 samples (direction forward, stretch 0)",
		"sample 0 beat 2 for 1 samples (direction forward, stretch 0)",
		"sample 0 beat 6 for 1 samples (direction reverse, stretch 0) stutter",
	}
	if got := strings.Split(strings.TrimSpace(buf.String()), "\n"); strings.Join(want, "\n") != strings.Join(got, "\n") {
		t.Errorf("want:\n%s\ngot:\n%s", strings.Join(want, "\n"), buf.String())
	}
}

func TestLogDecisionsVerbose(t *testing.T) {
	e, _ := newTestEngine(1, &scriptedRand{script: []uint8{255}}, &Sound{Data: ramp(8), Beats: 8})
	for i := 0; i < 300; i++ {
		e.events.push(Decision{})
	}

	var buf bytes.Buffer
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	LogDecisions(ctx, e, log.New(&buf, "", 0), time.Hour, true)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if want, got := 257, len(lines); want != got {
		t.Fatalf("want %d lines, got %d", want, got)
	}
	if want, got := "decision log: dropped 44 entries", lines[256]; want != got {
		t.Errorf("want %q, got %q", want, got)
	}
}
