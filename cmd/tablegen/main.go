// Command tablegen converts a folder of WAV loops into the sample table played
// by chopper. File names carry the loop's tempo and length, e.g.
// amen_bpm136_beats8.wav.
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"
	"os"
	"time"

	"github.com/mrdg/chopper/audio"
)

func main() {
	var (
		in    = flag.String("in", ".", "folder to search for WAV files")
		out   = flag.String("out", "samples.tbl", "table file to write")
		limit = flag.Int("limit", 5, "maximum number of sounds")
		bpm   = flag.Float64("bpm", 180, "tempo to stretch every sound to")
		sr    = flag.Float64("sr", 19200, "sample rate of the table")
		seed  = flag.Int64("seed", 0, "shuffle seed, 0 seeds from the clock")
	)
	flag.Parse()

	files, err := findLoops(*in)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("found %d loops", len(files))

	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rnd := rand.New(rand.NewSource(*seed))
	rnd.Shuffle(len(files), func(i, j int) { files[i], files[j] = files[j], files[i] })
	if len(files) > *limit {
		files = files[:*limit]
	}

	samplesPerBeat := int(math.Round(60 / *bpm * *sr / 2))
	var sounds []*audio.Sound
	for _, f := range files {
		snd, err := convert(f, *bpm, *sr)
		if err != nil {
			log.Printf("skipping %s: %v", f.path, err)
			continue
		}
		log.Printf("%s: %d samples, %d beats", f.path, len(snd.Data), snd.Beats)
		sounds = append(sounds, snd)
	}
	if len(sounds) == 0 {
		log.Fatal("no sounds converted")
	}

	table := audio.NewTable(samplesPerBeat, sounds...)
	file, err := os.Create(*out)
	if err != nil {
		log.Fatal(err)
	}
	if _, err := table.WriteTo(file); err != nil {
		log.Fatal(err)
	}
	if err := file.Close(); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s: %d samples per beat, retriggers %v", *out, samplesPerBeat, audio.RetriggerLengths(samplesPerBeat))
}
