package audio

import (
	"time"
)

// Player drives an Engine from a fixed-rate audio callback. It keeps a clock of
// the frames rendered so far and ticks the engine whenever the clock passes the
// engine's next deadline. Between ticks the last level is held, like a PWM
// output holding its duty cycle.
type Player struct {
	engine     *Engine
	sampleRate int64

	frames   int64         // total frames rendered
	nextTick time.Duration // time of the next engine tick
	level    uint8
}

func NewPlayer(engine *Engine, sampleRate int) *Player {
	return &Player{
		engine:     engine,
		sampleRate: int64(sampleRate),
		level:      Center,
	}
}

// Write implements Output.
func (p *Player) Write(level uint8) { p.level = level }

func (p *Player) next() float32 {
	now := p.Elapsed()
	for p.nextTick <= now {
		p.nextTick += p.engine.Tick(p)
	}
	p.frames++
	return float32(int(p.level)-Center) / Center
}

// Fill renders mono frames into buf.
func (p *Player) Fill(buf []float32) {
	for i := range buf {
		buf[i] = p.next()
	}
}

// Process renders non-interleaved frames, copying the signal to every channel.
func (p *Player) Process(out [][]float32) {
	if len(out) == 0 {
		return
	}
	for i := range out[0] {
		v := p.next()
		for ch := range out {
			out[ch][i] = v
		}
	}
}

// Elapsed returns the amount of audio rendered so far.
func (p *Player) Elapsed() time.Duration {
	secs, rem := p.frames/p.sampleRate, p.frames%p.sampleRate
	return time.Duration(secs)*time.Second + time.Duration(rem*int64(time.Second)/p.sampleRate)
}
