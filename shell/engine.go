// Package shell is a line oriented command engine for playing against an agent. The protocol
// follows the style of GTP: every command may be preceded by a numeric id, a success is answered
// with "= result" and a failure with "? message", each followed by an empty line.
package shell

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
)

type Engine struct {
	g game.State

	known map[string]Command

	ch   chan string
	ret  chan string
	quit bool

	// Generate returns the action to play for the side to move.
	Generate func(g game.State) game.Action
	// Evaluate returns the value of a board for a player.
	Evaluate func(b game.Board, p game.Player) float32

	name, version string
}

func New(g game.State, name, version string, known map[string]Command) *Engine {
	if g == nil {
		g = game.New()
	}
	if known == nil {
		known = StandardLib()
	}
	return &Engine{
		g:       g,
		known:   known,
		name:    name,
		version: version,
	}
}

// Start runs the engine on its own goroutine. The output channel is closed after "quit".
func (e *Engine) Start() (input, output chan string) {
	e.ch = make(chan string)
	e.ret = make(chan string)
	go e.start()
	return e.ch, e.ret
}

func (e *Engine) State() game.State { return e.g }

// Quitted reports whether "quit" has been executed.
func (e *Engine) Quitted() bool { return e.quit }

func (e *Engine) start() {
	defer close(e.ret)
	for cmd := range e.ch {
		resp, ok := e.Exec(cmd)
		if !ok {
			continue
		}
		e.ret <- resp
		if e.quit {
			return
		}
	}
}

// Run reads commands from r and writes the responses to w until r is exhausted or "quit".
func (e *Engine) Run(r io.Reader, w io.Writer) error {
	s := bufio.NewScanner(r)
	for s.Scan() {
		resp, ok := e.Exec(s.Text())
		if !ok {
			continue
		}
		if _, err := io.WriteString(w, resp); err != nil {
			return errors.WithStack(err)
		}
		if e.quit {
			return nil
		}
	}
	return errors.WithStack(s.Err())
}

// Exec executes one command line. ok is false when the line holds no command.
func (e *Engine) Exec(cmd string) (resp string, ok bool) {
	id, x, args, err := e.parse(cmd)
	if x == nil && err == nil {
		return "", false
	}
	if err != nil {
		return handleErr(id, err), true
	}
	id, result, err := x.Do(id, args, e)
	return handleResult(id, result, err), true
}

func (e *Engine) parse(cmd string) (id int, x Command, args []string, err error) {
	cmd = preprocess(cmd)
	tokens := strings.Fields(cmd)
	id = -1
	if len(tokens) == 0 {
		return id, nil, nil, nil
	}
	if n, err := strconv.Atoi(tokens[0]); err == nil {
		// we've consumed ID
		id = n
		tokens = tokens[1:]
	}

	if len(tokens) == 0 {
		return id, nil, nil, nil // an id alone is ignored
	}

	var ok bool
	if x, ok = e.known[tokens[0]]; !ok {
		return id, nil, nil, errors.Errorf("Unknown command %q", tokens[0])
	}
	if len(tokens) > 1 {
		args = tokens[1:]
	}
	return
}

// preprocess lower cases the command and drops comments.
func preprocess(a string) string {
	if i := strings.IndexByte(a, '#'); i >= 0 {
		a = a[:i]
	}
	return strings.ToLower(strings.TrimSpace(a))
}

func handleErr(id int, err error) string {
	if id != -1 {
		return fmt.Sprintf("? %d %v\n\n", id, err)
	}
	return fmt.Sprintf("? %v\n\n", err)
}

func handleResult(id int, result string, err error) string {
	if err != nil {
		return handleErr(id, err)
	}

	if id != -1 {
		return fmt.Sprintf("= %d %v\n\n", id, result)
	}
	return fmt.Sprintf("= %v\n\n", result)
}
