package audio

import (
	"context"
	"time"
)

// Output receives one amplitude per tick. It must not block.
type Output interface {
	Write(level uint8)
}

type Direction int

const (
	Reverse Direction = -1
	Forward Direction = 1
)

func (d Direction) String() string {
	if d == Reverse {
		return "reverse"
	}
	return "forward"
}

// Probabilities are out of 256.
const (
	probRetrigger = 10
	probJump      = 5
	probDirection = 30
	probStutter   = 5
	probStretch   = 3
)

const (
	initialRetrigger = 4
	stutterVolumeMod = 4
	maxStretchHold   = 3
	longStretchDraw  = 120 // r4 below this gives a half-interval stretch
)

// State is everything the engine sequences. It is owned by the goroutine calling Tick.
type State struct {
	Sample        int
	Phase         int
	Direction     Direction
	BaseDirection Direction

	Retrigger int // index into the retrigger table
	Remaining int // boundaries left before the next decision
	VolumeMod uint8

	Beat           int
	Stretch        int // µs added to every tick
	StretchHold    int
	StretchHoldMax int
}

// Decision is logged at every retrigger boundary.
type Decision struct {
	Sample    int
	Beat      int
	Length    int // ticks between boundaries
	Direction Direction
	Stretch   int
	Stutter   bool
	Decided   bool // false when the boundary only repeated the current slice
}

// Engine plays slices of the sample table and re-rolls direction, slice length,
// stutter, stretch and beat at retrigger boundaries.
type Engine struct {
	source  Source
	params  *Params
	rand    Rand
	retrigs []int
	state   State
	events  *eventBuffer
}

func NewEngine(source Source, params *Params, rand Rand) *Engine {
	return &Engine{
		source:  source,
		params:  params,
		rand:    rand,
		retrigs: RetriggerLengths(source.SamplesPerBeat()),
		events:  newEventBuffer(256),
		state: State{
			Direction:      Forward,
			BaseDirection:  Forward,
			Retrigger:      initialRetrigger,
			Remaining:      1,
			StretchHoldMax: 10,
		},
	}
}

func (e *Engine) State() State { return e.state }

// RetriggerLength returns the current distance between boundaries in ticks.
func (e *Engine) RetriggerLength() int { return e.retrigs[e.state.Retrigger] }

// Tick emits one sample to out and returns how long to wait before the next tick.
func (e *Engine) Tick(out Output) time.Duration {
	interval := e.params.Interval.Load()
	s := &e.state
	raw := e.source.Value(s.Sample, s.Phase)
	out.Write(Shape(raw, uint8(e.params.Distortion.Load()), uint8(e.params.VolumeReduce.Load()), s.VolumeMod))

	e.advance()
	if s.Phase%e.RetriggerLength() == 0 {
		e.onBoundary(interval)
	}
	return time.Duration(interval+s.Stretch) * time.Microsecond
}

func (e *Engine) advance() {
	e.state.Phase += int(e.state.Direction)
}

// onBoundary counts down to the next decision and restarts playback at the start
// of the selected beat. The restart happens on every boundary so that a retrigger
// repeated Remaining times is heard as a loop.
func (e *Engine) onBoundary(interval int) {
	s := &e.state
	next := e.params.Sample.Load()
	if next >= e.source.NumSamples() {
		next = 0
	}

	if s.Remaining > 0 {
		s.Remaining--
	}
	if s.VolumeMod > 0 {
		s.VolumeMod--
	}
	decision := Decision{}
	if s.Remaining == 0 {
		decision = e.decide(next, interval)
	}
	decision.Sample = next
	decision.Beat = s.Beat
	decision.Length = e.RetriggerLength()
	decision.Direction = s.Direction
	decision.Stretch = s.Stretch
	e.events.push(decision)

	s.Sample = next
	s.Phase = s.Beat * e.source.SamplesPerBeat()
	if s.Phase >= e.source.Len(s.Sample) {
		s.Phase = 0
	}
}

// decide runs the randomized decision procedure. The order of the steps matters:
// a stutter overrides the retrigger choice and a random jump overrides the beat sweep.
func (e *Engine) decide(sample, interval int) Decision {
	s := &e.state
	r1 := randInt(e.rand, 255)
	r2 := randInt(e.rand, 255)
	r3 := randInt(e.rand, 255)
	r4 := randInt(e.rand, 255)
	r5 := randInt(e.rand, 255)

	if s.Direction == s.BaseDirection {
		if r1 < probDirection {
			s.Direction = -s.BaseDirection
		}
	} else if r1 >= probDirection {
		s.Direction = s.BaseDirection
	}

	switch {
	case r2 < probRetrigger/4:
		s.Retrigger, s.Remaining = 7, 4
	case r2 < probRetrigger/3:
		s.Retrigger, s.Remaining = 6, 2
	case r2 < probRetrigger/2:
		s.Retrigger, s.Remaining = 3, 3
	case r2 < probRetrigger:
		s.Retrigger, s.Remaining = 5, 3
	default:
		s.Retrigger, s.Remaining = initialRetrigger, 1
	}

	stutter := r4 < probStutter
	if stutter {
		switch {
		case r3 < 75:
			s.Retrigger, s.Remaining = 5, 6
		case r3 < 150:
			s.Retrigger, s.Remaining = 4, 4
		default:
			s.Retrigger, s.Remaining = 6, 8
		}
		s.VolumeMod = stutterVolumeMod
	}

	s.Beat++

	if s.Stretch == 0 && r5 < probStretch {
		if r4 < longStretchDraw {
			s.Stretch = interval / 2
		} else {
			s.Stretch = interval
		}
		s.StretchHold = 0
		s.StretchHoldMax = randInt(e.rand, maxStretchHold) + 1
	} else if s.Stretch > 0 {
		if s.StretchHold >= s.StretchHoldMax {
			s.Stretch = 0
		}
		s.StretchHold++
	}

	beats := e.source.Beats(sample)
	s.Beat = wrapBeat(s.Beat, beats)

	if r3 < probJump {
		s.Beat = randInt(e.rand, beats-1)
	}
	return Decision{Stutter: stutter, Decided: true}
}

// wrapBeat keeps beat inside [0, beats): below zero it wraps to the last beat,
// past the end it wraps to the first.
func wrapBeat(beat, beats int) int {
	if beats <= 0 {
		return 0
	}
	if beat < 0 {
		return beats - 1
	}
	if beat >= beats {
		return 0
	}
	return beat
}

// Run ticks the engine until ctx is done, sleeping between ticks. Deadlines are
// accumulated so that time spent in Tick doesn't stretch the tick period.
func (e *Engine) Run(ctx context.Context, out Output) {
	done := ctx.Done()
	next := time.Now()
	for {
		select {
		case <-done:
			return
		default:
		}
		next = next.Add(e.Tick(out))
		if d := time.Until(next); d > 0 {
			time.Sleep(d)
		} else if d < -time.Millisecond {
			// Fell too far behind to catch up.
			next = time.Now()
		}
	}
}

// Drain calls f for every decision logged since the last call. It may be called
// from a different goroutine than Tick, but only from one at a time.
func (e *Engine) Drain(f func(Decision)) {
	e.events.iter(f)
}

// Dropped returns the number of decisions that did not fit in the log since
// the last call.
func (e *Engine) Dropped() uint32 {
	return e.events.takeDropped()
}
