package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameApplyUndo(t *testing.T) {
	assert := assert.New(t)
	g := New()
	start := g.Hash()
	black, white := Player(Black), Player(White)

	err := g.Apply(PlayerMove{white, NewAction(Move, 42, 34)})
	assert.Error(err, "white cannot move first")
	assert.True(IsMoveError(err))

	err = g.Apply(PlayerMove{black, NewAction(Move, 17, 33)})
	assert.Error(err, "two rows is not a step")
	assert.Equal(0, g.MoveNumber())

	require.NoError(t, g.Apply(PlayerMove{black, NewAction(Move, 17, 25)}))
	assert.Equal(white, g.ToMove())
	assert.Equal(1, g.MoveNumber())
	assert.Equal(PlayerMove{black, NewAction(Move, 17, 25)}, g.LastMove())

	require.NoError(t, g.Apply(PlayerMove{white, NewAction(Eat, 42, 18)}))
	assert.Equal(11, int(g.Score(black)))
	assert.Equal(12, int(g.Score(white)))

	g.UndoLastMove()
	g.UndoLastMove()
	assert.Equal(NewBoard(), g.Board())
	assert.Equal(black, g.ToMove())
	assert.Equal(start, g.Hash())
	assert.Equal(1, g.Repetitions(start))
}

func TestGamePasses(t *testing.T) {
	assert := assert.New(t)
	g := New()
	black, white := Player(Black), Player(White)

	require.NoError(t, g.Apply(PlayerMove{Player: black}))
	ended, _ := g.Ended()
	assert.False(ended)
	require.NoError(t, g.Apply(PlayerMove{Player: white}))
	ended, winner := g.Ended()
	assert.True(ended)
	assert.Equal(Player(None), winner, "equal material is a draw")
	assert.Equal(2, g.Repetitions(g.Hash()), "start position seen twice with black to move")
}

func TestGameEnded(t *testing.T) {
	assert := assert.New(t)
	black, white := Player(Black), Player(White)

	g := NewFromBoard(board([]int{9}, nil), white)
	ended, winner := g.Ended()
	assert.True(ended)
	assert.Equal(black, winner)

	g = NewFromBoard(board([]int{9}, []int{10, 17, 18}), black)
	ended, winner = g.Ended()
	assert.True(ended, "black has no legal action")
	assert.Equal(white, winner)

	g = NewFromBoard(board([]int{9, 14}, []int{54}), black)
	g.SetMaxPlies(2)
	require.NoError(t, g.Apply(PlayerMove{black, NewAction(Move, 14, 22)}))
	ended, _ = g.Ended()
	assert.False(ended)
	require.NoError(t, g.Apply(PlayerMove{white, NewAction(Move, 54, 46)}))
	ended, winner = g.Ended()
	assert.True(ended, "ply limit")
	assert.Equal(black, winner, "black has more material")
}

func TestGameClone(t *testing.T) {
	assert := assert.New(t)
	g := New()
	require.NoError(t, g.Apply(PlayerMove{Player(Black), NewAction(Move, 17, 25)}))
	c := g.Clone()
	assert.True(g.Eq(c))
	require.NoError(t, c.Apply(PlayerMove{Player(White), NewAction(Move, 41, 33)}))
	assert.False(g.Eq(c))
	assert.Equal(1, g.MoveNumber())
	assert.Equal(2, c.MoveNumber())

	c.Reset()
	assert.Equal(NewBoard(), c.Board())
	assert.Equal(0, c.MoveNumber())
}

func TestGameSetPosition(t *testing.T) {
	assert := assert.New(t)
	g := New()
	require.NoError(t, g.Apply(PlayerMove{Player: Player(Black), Action: NewAction(Move, 17, 25)}))

	b, err := ParseBoard("40000", "40000000000")
	require.NoError(t, err)
	g.SetPosition(b, Player(White))
	assert.Equal(b, g.Board())
	assert.Equal(Player(White), g.ToMove())
	assert.Zero(g.MoveNumber())
	assert.Equal(1, g.Repetitions(g.Hash()))

	g.Reset()
	assert.Equal(NewBoard(), g.Board())
	assert.Equal(Player(Black), g.ToMove())
}
