package surakarta

import (
	"testing"

	"github.com/gorgonia/surakarta/game"
	"github.com/gorgonia/surakarta/mcts"
	"github.com/gorgonia/surakarta/ntuple"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	black = game.Player(game.Black)
	white = game.Player(game.White)
)

type materialEval struct{}

func (materialEval) Evaluate(b game.Board, p game.Player) float32 {
	return float32(b.Material(p)) / 12
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

func smallSearch() mcts.Config {
	conf := mcts.DefaultConfig()
	conf.Budget = 100
	return conf
}

func TestGuard(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	g := game.New()
	start := g.Hash()
	cycle := []game.PlayerMove{
		{Player: black, Action: game.NewAction(game.Move, 17, 25)},
		{Player: white, Action: game.NewAction(game.Move, 41, 33)},
		{Player: black, Action: game.NewAction(game.Move, 25, 17)},
		{Player: white, Action: game.NewAction(game.Move, 33, 41)},
	}
	for i := 0; i < 2; i++ {
		for j, m := range cycle {
			if j == 3 {
				assert.Equal(m.Action, guard(g, m.Action), "cycle %d", i)
			}
			require.NoError(g.Apply(m))
		}
	}
	assert.Equal(3, g.Repetitions(start))

	for _, m := range cycle[:3] {
		require.NoError(g.Apply(m))
	}
	assert.True(guard(g, cycle[3].Action).IsPass(), "the start position has been seen three times")
	assert.True(guard(g, game.Action{}).IsPass())
}

func TestRandomAgent(t *testing.T) {
	assert := assert.New(t)
	a := NewRandomAgent("Random", 1)
	a.OpenEpisode(black)
	assert.Equal("Random", a.Name())

	act := a.TakeAction(game.New())
	assert.Equal(game.Eat, act.Kind, "captures come first")

	stuck := game.NewFromBoard(boardOf([]int{9}, []int{10, 17, 18}), black)
	assert.True(a.TakeAction(stuck).IsPass())
}

func TestGreedyAgent(t *testing.T) {
	assert := assert.New(t)
	a := NewGreedyAgent("Greedy", materialEval{}, 1)
	g := game.NewFromBoard(boardOf([]int{18}, []int{42}), black)
	assert.Equal(game.NewAction(game.Eat, 18, 42), a.TakeAction(g))

	ended := game.NewFromBoard(boardOf([]int{18}, nil), white)
	assert.True(a.TakeAction(ended).IsPass())
}

func TestMCTSAgent(t *testing.T) {
	assert := assert.New(t)
	a := NewMCTSAgent("MCTS", smallSearch(), materialEval{})
	a.OpenEpisode(black)

	g := game.NewFromBoard(boardOf([]int{18}, []int{42}), black)
	assert.Equal(game.NewAction(game.Eat, 18, 42), a.TakeAction(g))

	stuck := game.NewFromBoard(boardOf([]int{9}, []int{10, 17, 18}), black)
	assert.True(a.TakeAction(stuck).IsPass(), "no legal move is a pass")
}

func TestAgentsPlaySideToMove(t *testing.T) {
	net := ntuple.New(ntuple.DefaultConf())
	require.NoError(t, net.Init())
	agents := []Agent{
		NewRandomAgent("Random", 1),
		NewGreedyAgent("Greedy", materialEval{}, 1),
		NewMCTSAgent("MCTS", smallSearch(), materialEval{}),
		NewTrainingAgent("Trainee", smallSearch(), net),
	}
	// white to move while the episode was opened for black
	g := game.NewFromBoard(game.NewBoard(), white)
	for _, a := range agents {
		a.OpenEpisode(black)
		act := a.TakeAction(g)
		assert.True(t, g.Check(game.PlayerMove{Player: white, Action: act}), "%v played %v", a.Name(), act)
	}
}

func TestTrainingAgent(t *testing.T) {
	assert := assert.New(t)
	require := require.New(t)
	net := ntuple.New(ntuple.DefaultConf())
	require.NoError(net.Init())

	a := NewTrainingAgent("Trainee", smallSearch(), net)
	assert.True(a.MCTS.Training)
	a.OpenEpisode(black)

	g := game.New()
	act := a.TakeAction(g)
	require.False(act.IsPass())
	assert.Equal(1, a.Records())

	after := g.Board()
	after.Apply(act)
	before := net.Evaluate(after, black)
	a.CloseEpisode(Result{Winner: black, Label: 1})
	assert.True(net.Evaluate(after, black) > before)
	assert.Zero(a.Records())
}
