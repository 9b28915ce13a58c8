package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/chzyer/readline"
	"github.com/mrdg/chopper/audio"
	"github.com/mrdg/chopper/dub"
)

var errQuit = errors.New("quit")

type env struct {
	params *audio.Params
	knobs  *audio.VirtualKnobs
	table  *audio.Table
	logger *log.Logger
	depth  int // nesting of run commands
}

func (e *env) eval(input string) (string, error) {
	command, err := dub.Parse(input)
	if err != nil {
		return "", err
	}
	name := string(command.Name)
	if name == "" {
		return "", nil
	}
	for _, cmd := range commands {
		if name != cmd.name {
			continue
		}
		if len(command.Args) != cmd.arity {
			return "", fmt.Errorf("%s: wrong number of arguments: want %v, got %v",
				cmd.name, cmd.arity, len(command.Args))
		}
		result, err := cmd.run(e, command.Args)
		if err != nil && !errors.Is(err, errQuit) {
			return result, fmt.Errorf("%s error: %w", cmd.name, err)
		}
		return result, err
	}
	return "", fmt.Errorf("unknown command: %s", name)
}

// redirectLog sends log output to w until the returned func is called. A
// discarded log stays discarded.
func (e *env) redirectLog(w io.Writer) (restore func()) {
	prev := e.logger.Writer()
	if prev == io.Discard {
		return func() {}
	}
	e.logger.SetOutput(w)
	return func() { e.logger.SetOutput(prev) }
}

func repl(env *env) error {
	rl, err := readline.New("> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	// Keep decision logging from garbling the prompt.
	defer env.redirectLog(rl.Stderr())()

	for {
		line, err := rl.Readline()
		if err == io.EOF {
			return err
		}
		if err == readline.ErrInterrupt {
			continue
		}
		if err != nil {
			fmt.Println(err)
			continue
		}
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		result, err := env.eval(line)
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Println(err)
		} else if result != "" {
			fmt.Println(result)
		}
	}
}
