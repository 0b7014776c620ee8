package shell

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
)

type Command interface {
	Do(id int, args []string, e *Engine) (int, string, error)
}

type stdlib func(e *Engine) string

type stdlib2 func(e *Engine, args []string) (string, error)

func (f stdlib) Do(id int, args []string, e *Engine) (int, string, error) {
	str := f(e)
	return id, str, nil
}

func (f stdlib2) Do(id int, args []string, e *Engine) (int, string, error) {
	str, err := f(e, args)
	return id, str, err
}

func protocolVersion(e *Engine) string { return "2" }
func name(e *Engine) string            { return e.name }
func version(e *Engine) string         { return e.version }

func listCommands(e *Engine) string {
	cmds := make([]string, 0, len(e.known))
	for c := range e.known {
		cmds = append(cmds, c)
	}
	sort.Strings(cmds)
	return strings.Join(cmds, "\n")
}

func quit(e *Engine) string       { e.quit = true; return "" }
func clearBoard(e *Engine) string { e.g.Reset(); return "" }
func showboard(e *Engine) string  { return fmt.Sprintf("\n%v", e.g) }

func legal(e *Engine) string {
	actions := e.g.Legal()
	strs := make([]string, len(actions))
	for i, a := range actions {
		strs[i] = a.String()
	}
	return strings.Join(strs, "\n")
}

func knownCommand(e *Engine, args []string) (string, error) {
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"known_command\"")
	}
	if _, ok := e.known[args[0]]; ok {
		return "true", nil
	}
	return "false", nil
}

func undo(e *Engine, args []string) (string, error) {
	if e.g.MoveNumber() == 0 {
		return "", errors.New("cannot undo")
	}
	e.g.UndoLastMove()
	return "", nil
}

// colour consumes an optional leading colour argument, which must be the side to move.
func colour(e *Engine, args []string) ([]string, error) {
	if len(args) == 0 {
		return args, nil
	}
	var p game.Player
	switch args[0] {
	case "b", "black":
		p = game.Player(game.Black)
	case "w", "white":
		p = game.Player(game.White)
	default:
		return args, nil
	}
	if p != e.g.ToMove() {
		return nil, errors.Errorf("%v is not to move", p)
	}
	return args[1:], nil
}

func ended(e *Engine) error {
	if over, _ := e.g.Ended(); over {
		return errors.New("game is over")
	}
	return nil
}

func play(e *Engine, args []string) (string, error) {
	args, err := colour(e, args)
	if err != nil {
		return "", err
	}
	if len(args) == 0 {
		return "", errors.New("Not enough arguments for \"play\"")
	}
	if err = ended(e); err != nil {
		return "", err
	}
	p := e.g.ToMove()
	a, err := game.ParseAction(strings.Join(args, " "), e.g.Board(), p)
	if err != nil {
		return "", err
	}
	if err = e.g.Apply(game.PlayerMove{Player: p, Action: a}); err != nil {
		return "", errors.Errorf("illegal move %v", a)
	}
	return "", nil
}

func genmove(e *Engine, args []string) (string, error) {
	if _, err := colour(e, args); err != nil {
		return "", err
	}
	if e.Generate == nil {
		return "", errors.New("Unable to generate moves. No generator found")
	}
	if err := ended(e); err != nil {
		return "", err
	}
	p := e.g.ToMove()
	a := e.Generate(e.g)
	if err := e.g.Apply(game.PlayerMove{Player: p, Action: a}); err != nil {
		return "", errors.WithMessage(err, "generator")
	}
	return a.String(), nil
}

// setup replaces the position: "setup <black mask> <white mask> [first]", masks in hex.
func setup(e *Engine, args []string) (string, error) {
	if len(args) < 2 {
		return "", errors.New("Not enough arguments for \"setup\"")
	}
	b, err := game.ParseBoard(args[0], args[1])
	if err != nil {
		return "", err
	}
	first := game.Player(game.Black)
	if len(args) > 2 {
		if first, err = game.ParsePlayer(args[2]); err != nil {
			return "", err
		}
	}
	e.g.SetPosition(b, first)
	return "", nil
}

func eval(e *Engine, args []string) (string, error) {
	if e.Evaluate == nil {
		return "", errors.New("No evaluator found")
	}
	p := e.g.ToMove()
	return fmt.Sprintf("%.4f", e.Evaluate(e.g.Board(), p)), nil
}

func StandardLib() map[string]Command {
	return map[string]Command{
		"protocol_version": stdlib(protocolVersion),
		"name":             stdlib(name),
		"version":          stdlib(version),
		"list_commands":    stdlib(listCommands),
		"quit":             stdlib(quit),
		"clear_board":      stdlib(clearBoard),
		"showboard":        stdlib(showboard),
		"legal":            stdlib(legal),

		"known_command": stdlib2(knownCommand),
		"undo":          stdlib2(undo),
		"play":          stdlib2(play),
		"genmove":       stdlib2(genmove),
		"eval":          stdlib2(eval),
		"setup":         stdlib2(setup),
	}
}
