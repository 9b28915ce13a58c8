package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mrdg/chopper/audio"
	"github.com/mrdg/chopper/dub"
)

type command struct {
	name  string
	help  string
	run   func(*env, []dub.Node) (string, error)
	arity int
}

var commands []command

func init() {
	commands = []command{
		{"knob", "knob <channel> <code>: move a knob (0-4095)", knobCommand, 2},
		{"preset", "preset <name>: move all knobs to a preset", presetCommand, 1},
		{"set", "set <param> <value>: override a playback parameter", setCommand, 2},
		{"get", "get <param>: show a playback parameter", getCommand, 1},
		{"status", "status: show knobs and parameters", statusCommand, 0},
		{"samples", "samples: list the loaded sounds", samplesCommand, 0},
		{"run", "run <file>: run commands from a file", runCommand, 1},
		{"help", "help: list commands", helpCommand, 0},
		{"quit", "quit: stop playback and exit", quitCommand, 0},
	}
}

func knobCommand(env *env, args []dub.Node) (string, error) {
	var ch, code int
	if err := readArgs(args, &ch, &code); err != nil {
		return "", err
	}
	if ch < 0 || ch >= audio.NumKnobs {
		return "", fmt.Errorf("no knob %d", ch)
	}
	env.knobs.Set(ch, code)
	return "", nil
}

func presetCommand(env *env, args []dub.Node) (string, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return "", err
	}
	if err := audio.LoadPreset(name, env.knobs); err != nil {
		return "", fmt.Errorf("%w (have %s)", err, strings.Join(audio.Presets(), ", "))
	}
	return "", nil
}

func setCommand(env *env, args []dub.Node) (string, error) {
	var prop string
	if err := readArgs(args[:1], &prop); err != nil {
		return "", err
	}
	switch v := args[1].(type) {
	case dub.Int:
		return "", env.params.Set(prop, int(v))
	case dub.Float:
		return "", env.params.Set(prop, float64(v))
	default:
		return "", fmt.Errorf("unsupported property value: %v", v)
	}
}

func getCommand(env *env, args []dub.Node) (string, error) {
	var prop string
	if err := readArgs(args, &prop); err != nil {
		return "", err
	}
	v, err := env.params.Get(prop)
	if err != nil {
		return "", err
	}
	return fmt.Sprint(v), nil
}

func statusCommand(env *env, args []dub.Node) (string, error) {
	var sb strings.Builder
	renderStatus(env, &sb)
	return strings.TrimRight(sb.String(), "\n"), nil
}

func samplesCommand(env *env, args []dub.Node) (string, error) {
	var lines []string
	for i, snd := range env.table.Sounds() {
		lines = append(lines, fmt.Sprintf("%2d %s (%d beats, %d samples)",
			i, displayName(snd.Name), snd.Beats, len(snd.Data)))
	}
	return strings.Join(lines, "\n"), nil
}

const maxRunDepth = 8

func runCommand(env *env, args []dub.Node) (string, error) {
	var file string
	if err := readArgs(args, &file); err != nil {
		return "", err
	}
	if env.depth >= maxRunDepth {
		return "", errors.New("too many nested run commands")
	}
	env.depth++
	defer func() { env.depth-- }()
	return "", env.runFile(file)
}

func helpCommand(env *env, args []dub.Node) (string, error) {
	var lines []string
	for _, cmd := range commands {
		lines = append(lines, cmd.help)
	}
	return strings.Join(lines, "\n"), nil
}

func quitCommand(env *env, args []dub.Node) (string, error) {
	return "", errQuit
}

func readArgs(args []dub.Node, slots ...interface{}) error {
	if len(args) != len(slots) {
		return errors.New("not enough arguments")
	}
	for n, arg := range args {
		dest := slots[n]
		switch p := dest.(type) {
		case *string:
			switch s := arg.(type) {
			case dub.String:
				*p = string(s)
			case dub.Identifier:
				*p = string(s)
			default:
				return fmt.Errorf("argument error: expected a string or identifier")
			}
		case *int:
			switch v := arg.(type) {
			case dub.Int:
				*p = int(v)
			case dub.Float:
				*p = int(v)
			default:
				return fmt.Errorf("argument error: expected a number")
			}
		default:
			panic("readArgs: unhandled destination type: " + fmt.Sprint(p))
		}
	}
	return nil
}
