package shell

import (
	"bytes"
	"strings"
	"testing"

	"github.com/gorgonia/surakarta/game"
	"github.com/stretchr/testify/assert"
)

func Test_General(t *testing.T) {
	assert := assert.New(t)
	e := New(nil, "xx", "1", nil)
	var x string

	ch, ret := e.Start()
	ch <- "version"
	x = <-ret
	assert.Equal("= 1\n\n", x)

	ch <- "known_command hello"
	x = <-ret
	assert.Equal("= false\n\n", x)

	ch <- "7 known_command name"
	x = <-ret
	assert.Equal("= 7 true\n\n", x)

	ch <- "completelyUnheardOfCommand xxx"
	x = <-ret
	assert.Equal("? Unknown command \"completelyunheardofcommand\"\n\n", x)

	ch <- "quit"
	x = <-ret
	assert.Equal("= \n\n", x)
	_, ok := <-ret
	assert.False(ok, "output is closed after quit")
}

func TestPlay(t *testing.T) {
	assert := assert.New(t)
	g := game.NewFromBoard(boardOf([]int{17, 18}, []int{42}), game.Player(game.Black))
	e := New(g, "surakarta", "1", nil)

	resp, _ := e.Exec("play white 5b 4b")
	assert.Equal("? White is not to move\n\n", resp)

	resp, _ = e.Exec("play black 2z 3a")
	assert.True(strings.HasPrefix(resp, "? bad destination") || strings.HasPrefix(resp, "? bad origin"), resp)

	resp, _ = e.Exec("play 2a 4a")
	assert.Equal("? illegal move move 2a 4a\n\n", resp)

	resp, _ = e.Exec("play 2a 3a")
	assert.Equal("= \n\n", resp)
	assert.Equal(game.Player(game.White), g.ToMove())

	resp, _ = e.Exec("undo")
	assert.Equal("= \n\n", resp)
	resp, _ = e.Exec("undo")
	assert.Equal("? cannot undo\n\n", resp)

	resp, _ = e.Exec("legal")
	assert.True(strings.HasPrefix(resp, "= eat 2b 5b\n"), resp)

	resp, _ = e.Exec("genmove")
	assert.Equal("? Unable to generate moves. No generator found\n\n", resp)

	e.Generate = func(g game.State) game.Action { return g.Legal()[0] }
	resp, _ = e.Exec("genmove b")
	assert.Equal("= eat 2b 5b\n\n", resp)

	resp, _ = e.Exec("play pass")
	assert.Equal("? game is over\n\n", resp, "white has no pieces left")
}

func TestEvalAndShow(t *testing.T) {
	assert := assert.New(t)
	e := New(nil, "surakarta", "1", nil)

	resp, _ := e.Exec("eval")
	assert.Equal("? No evaluator found\n\n", resp)

	e.Evaluate = func(b game.Board, p game.Player) float32 { return float32(b.Material(p)) / 2 }
	resp, _ = e.Exec("eval")
	assert.Equal("= 0.0000\n\n", resp)

	resp, _ = e.Exec("showboard")
	assert.True(strings.HasPrefix(resp, "= \n   a b c d e f\n"), resp)
	assert.True(strings.Contains(resp, "To move: Black"), resp)

	_, ok := e.Exec("   # just a comment")
	assert.False(ok)
	_, ok = e.Exec("12")
	assert.False(ok)
}

func TestSetup(t *testing.T) {
	assert := assert.New(t)
	e := New(nil, "surakarta", "1", nil)

	resp, _ := e.Exec("setup 0x40000 40000000000 white")
	assert.Equal("= \n\n", resp)
	assert.Equal(boardOf([]int{18}, []int{42}), e.State().Board())
	assert.Equal(game.Player(game.White), e.State().ToMove())
	assert.Zero(e.State().MoveNumber())

	resp, _ = e.Exec("setup 40000 0")
	assert.Equal("= \n\n", resp, "a colour without pieces is allowed")
	assert.Equal(game.Player(game.Black), e.State().ToMove())

	for _, bad := range []string{
		"setup 40000",
		"setup 40000 40000",
		"setup 1 40000000000",
		"setup zz 40000000000",
		"setup 40000 40000000000 red",
	} {
		resp, _ = e.Exec(bad)
		assert.True(strings.HasPrefix(resp, "? "), "%q answered %q", bad, resp)
	}
	assert.Equal(boardOf([]int{18}, nil), e.State().Board(), "failed setups keep the position")
}

func TestRun(t *testing.T) {
	assert := assert.New(t)
	e := New(nil, "surakarta", "1", nil)
	in := strings.NewReader("name\n\nprotocol_version\nquit\nversion\n")
	var out bytes.Buffer
	assert.NoError(e.Run(in, &out))
	assert.Equal("= surakarta\n\n= 2\n\n= \n\n", out.String())
	assert.True(e.Quitted())
}

func TestListCommands(t *testing.T) {
	e := New(nil, "surakarta", "1", nil)
	resp, _ := e.Exec("list_commands")
	lines := strings.Split(strings.TrimPrefix(strings.TrimSpace(resp), "= "), "\n")
	assert.Len(t, lines, len(StandardLib()))
	assert.Equal(t, "clear_board", lines[0])
}

func boardOf(blacks, whites []int) game.Board {
	var b game.Board
	for _, c := range blacks {
		b.Set(c, game.Black)
	}
	for _, c := range whites {
		b.Set(c, game.White)
	}
	return b
}
