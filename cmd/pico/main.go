//go:build tinygo && rp2040

// Command pico runs chopper on an RP2040: a speaker (through a low-pass filter)
// on GPIO16 and three potentiometers on ADC0-ADC2. Playback runs on the main
// goroutine, knob polling and decision logging on their own.
package main

import (
	"bytes"
	"context"
	_ "embed"
	"log"
	"machine"
	"math/rand"
	"os"
	"time"

	"github.com/mrdg/chopper/audio"
)

//go:generate go run ../tablegen -in ../../loops -out samples.tbl

//go:embed samples.tbl
var samples []byte

const speakerPin = machine.GPIO16

// pwmGroup is the part of machine's PWM slices used here.
type pwmGroup interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// pwmOutput renders levels as duty cycles of an 8-bit PWM.
type pwmOutput struct {
	pwm     pwmGroup
	channel uint8
	top     uint32
}

func newPWMOutput(pwm pwmGroup, pin machine.Pin) (*pwmOutput, error) {
	// 256 cycles of the 125 MHz system clock per period
	if err := pwm.Configure(machine.PWMConfig{Period: 2048}); err != nil {
		return nil, err
	}
	ch, err := pwm.Channel(pin)
	if err != nil {
		return nil, err
	}
	return &pwmOutput{pwm: pwm, channel: ch, top: pwm.Top()}, nil
}

func (o *pwmOutput) Write(level uint8) {
	o.pwm.Set(o.channel, uint32(level)*o.top/255)
}

// adcKnobs reads the knobs as 12-bit codes.
type adcKnobs [audio.NumKnobs]machine.ADC

func newADCKnobs() *adcKnobs {
	machine.InitADC()
	k := &adcKnobs{{Pin: machine.ADC0}, {Pin: machine.ADC1}, {Pin: machine.ADC2}}
	for _, adc := range k {
		adc.Configure(machine.ADCConfig{})
	}
	return k
}

func (k *adcKnobs) Read(ch int) uint16 {
	return k[ch].Get() >> 4
}

func main() {
	time.Sleep(10 * time.Millisecond)
	logger := log.New(os.Stdout, "", 0)
	logger.Print("chopper")

	table, err := audio.ReadTable(bytes.NewReader(samples))
	if err != nil {
		logger.Fatal(err)
	}
	out, err := newPWMOutput(machine.PWM0, speakerPin)
	if err != nil {
		logger.Fatal(err)
	}

	ctx := context.Background()
	params := audio.NewParams(table.NumSamples())
	knobs := audio.NewKnobs(newADCKnobs(), params, table.NumSamples(), 0)
	engine := audio.NewEngine(table, params, rand.New(rand.NewSource(time.Now().UnixNano())))

	go knobs.Run(ctx, audio.DefaultPollRate)
	go audio.LogDecisions(ctx, engine, logger, 100*time.Millisecond, false)
	engine.Run(ctx, out)
}
