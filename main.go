package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/mrdg/chopper/audio"
)

func main() {
	var (
		tableFile = flag.String("table", "", "sample table written by tablegen")
		files     = flag.String("sounds", "*.wav", "WAV files to play when no table is given")
		beats     = flag.Int("beats", 8, "beats per WAV file")
		bpm       = flag.Float64("bpm", 180, "tempo the WAV files were prepared at")
		sr        = flag.Float64("sr", 19200, "sample rate the WAV files were prepared at")
		backend   = flag.String("backend", "portaudio", "audio output: portaudio, oto or wav")
		out       = flag.String("out", "chopper.wav", "output file for the wav backend")
		duration  = flag.Duration("duration", 30*time.Second, "length of the wav recording")
		rate      = flag.Int("rate", 48000, "output sample rate")
		seed      = flag.Int64("seed", 0, "random seed, 0 seeds from the clock")
		run       = flag.String("run", "", "command file to run at startup")
		cutoff    = flag.Float64("cutoff", audio.DefaultCutoff, "knob smoothing cutoff in Hz")
		knobs     = flag.String("knobs", "0,4095,2500", "initial knob codes")
		preset    = flag.String("preset", "", "initial knob preset, overrides -knobs")
		verbose   = flag.Bool("v", false, "log every retrigger boundary")
		quiet     = flag.Bool("quiet", false, "don't log decisions")
	)
	flag.Parse()

	const bufferSize = 256

	var (
		table *audio.Table
		err   error
	)
	if *tableFile != "" {
		table, err = audio.OpenTable(*tableFile)
	} else {
		table, err = loadSounds(*files, *beats, samplesPerBeat(*bpm, *sr))
	}
	if err != nil {
		log.Fatal(err)
	}
	if table.NumSamples() == 0 {
		log.Fatal("no sounds to play")
	}

	initial, err := parseKnobs(*knobs)
	if err != nil {
		log.Fatal(err)
	}

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}

	var (
		params  = audio.NewParams(table.NumSamples())
		input   = &audio.VirtualKnobs{}
		alpha   = audio.SmoothingAlpha(*cutoff, float64(time.Second/audio.DefaultPollRate))
		control = audio.NewKnobs(input, params, table.NumSamples(), alpha)
		engine  = audio.NewEngine(table, params, rand.New(rand.NewSource(*seed)))
		player  = audio.NewPlayer(engine, *rate)
	)
	for ch, code := range initial {
		input.Set(ch, code)
	}
	if *preset != "" {
		if err := audio.LoadPreset(*preset, input); err != nil {
			log.Fatal(err)
		}
	}

	logger := log.New(os.Stderr, "", log.Ltime|log.Lmicroseconds)
	if *quiet {
		logger.SetOutput(io.Discard)
	}
	logger.Printf("seed %d, %d sounds, %d samples per beat", *seed, table.NumSamples(), table.SamplesPerBeat())

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		audio.LogDecisions(ctx, engine, logger, 50*time.Millisecond, *verbose)
	}()

	env := &env{
		params: params,
		knobs:  input,
		table:  table,
		logger: logger,
	}
	if *run != "" {
		if err := env.runFile(*run); err != nil {
			log.Fatal(err)
		}
	}

	if *backend == "wav" {
		err := record(*out, player, control, *rate, *duration)
		cancel()
		wg.Wait()
		if err != nil {
			log.Fatal(err)
		}
		return
	}

	go control.Run(ctx, audio.DefaultPollRate)

	var sink interface {
		Start() error
		Stop() error
	}
	switch *backend {
	case "portaudio":
		sink, err = audio.NewSink(player, *rate, bufferSize)
	case "oto":
		sink, err = audio.NewOtoSink(player, *rate)
	default:
		err = fmt.Errorf("unknown backend: %s", *backend)
	}
	if err != nil {
		log.Fatal(err)
	}
	if err := sink.Start(); err != nil {
		log.Fatal(err)
	}

	replErr := repl(env)
	cancel()
	wg.Wait()
	if err := sink.Stop(); err != nil {
		log.Print(err)
	}
	if replErr != nil && replErr != io.EOF {
		fmt.Println(replErr)
		os.Exit(1)
	}
}

// samplesPerBeat matches tablegen: sounds are sliced in half beats.
func samplesPerBeat(bpm, sampleRate float64) int {
	return int(math.Round(60 / bpm * sampleRate / 2))
}

func loadSounds(pattern string, beats, samplesPerBeat int) (*audio.Table, error) {
	files, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}
	var sounds []*audio.Sound
	for _, file := range files {
		snd, err := audio.LoadSound(file, beats)
		if err != nil {
			return nil, err
		}
		sounds = append(sounds, snd)
	}
	return audio.NewTable(samplesPerBeat, sounds...), nil
}

func parseKnobs(s string) ([audio.NumKnobs]int, error) {
	var codes [audio.NumKnobs]int
	parts := strings.Split(s, ",")
	if len(parts) != audio.NumKnobs {
		return codes, fmt.Errorf("want %d knob codes, got %q", audio.NumKnobs, s)
	}
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return codes, fmt.Errorf("knob %d: %w", i, err)
		}
		codes[i] = n
	}
	return codes, nil
}

func (e *env) runFile(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return err
	}
	defer f.Close()
	scanner := bufio.NewScanner(f)
	for line := 1; scanner.Scan(); line++ {
		result, err := e.eval(scanner.Text())
		if err != nil {
			return fmt.Errorf("%s:%d: %w", file, line, err)
		}
		if result != "" {
			fmt.Println(result)
		}
	}
	return scanner.Err()
}
