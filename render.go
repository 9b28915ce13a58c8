package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/mrdg/chopper/audio"
)

var knobNames = [audio.NumKnobs]string{"sample", "speed", "tone"}

func renderStatus(env *env, w io.Writer) {
	const barWidth = 24

	for ch := 0; ch < audio.NumKnobs; ch++ {
		code := int(env.knobs.Read(ch))
		filled := code * barWidth / audio.FullScale
		bar := colorize(strings.Repeat("█", filled), colorGreen) + strings.Repeat("░", barWidth-filled)
		fmt.Fprintf(w, "%s %-6s %s %4d\n", colorize(fmt.Sprint(ch), colorMagenta), knobNames[ch], bar, code)
	}
	fmt.Fprintln(w)

	sample := env.params.Sample.Load()
	name := ""
	if sounds := env.table.Sounds(); sample < len(sounds) {
		name = displayName(sounds[sample].Name)
	}
	fmt.Fprintf(w, "%s %d %s\n", colorize("sample       ", colorBlue), sample, name)
	fmt.Fprintf(w, "%s %dµs\n", colorize("interval     ", colorBlue), env.params.Interval.Load())
	fmt.Fprintf(w, "%s %d\n", colorize("distortion   ", colorBlue), env.params.Distortion.Load())
	fmt.Fprintf(w, "%s %d\n", colorize("volume.reduce", colorBlue), env.params.VolumeReduce.Load())
}

func displayName(filename string) string {
	filename = filepath.Base(filename)
	return filename[:len(filename)-len(filepath.Ext(filename))]
}

const (
	colorBlack = iota + 30
	colorRed
	colorGreen
	colorYellow
	colorBlue
	colorMagenta
)

func colorize(text string, color int) string {
	return fmt.Sprintf("\033[%dm%s\033[0m", color, text)
}
