package mcts

import (
	"strings"
	"testing"

	"github.com/chewxy/math32"
	"github.com/gorgonia/surakarta/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type materialEval struct{}

func (materialEval) Evaluate(b game.Board, p game.Player) float32 {
	return float32(b.Material(p)) / 12
}

type recordingLearner struct {
	materialEval
	targets []float32
}

func (l *recordingLearner) Bootstrap(b game.Board, p game.Player, target float32) {
	l.targets = append(l.targets, target)
}

func boardOf(black, white []int) game.Board {
	var b game.Board
	for _, c := range black {
		b.Set(c, game.Black)
	}
	for _, c := range white {
		b.Set(c, game.White)
	}
	return b
}

func testConfig() Config {
	conf := DefaultConfig()
	conf.Budget = 200
	conf.Seed = 1
	return conf
}

func TestConfig(t *testing.T) {
	assert := assert.New(t)
	assert.True(DefaultConfig().IsValid())

	conf := DefaultConfig()
	conf.Budget = 0
	assert.False(conf.IsValid())

	conf = DefaultConfig()
	conf.Playout = MAXPLAYOUT
	assert.False(conf.IsValid())
}

func TestSearchVisitInvariant(t *testing.T) {
	assert := assert.New(t)
	for _, playout := range []Playout{Random, EatFirst, EpsilonGreedy, ValueOnly} {
		for _, bias := range []Bias{NoBias, Progressive, Polynomial} {
			conf := testConfig()
			conf.Playout = playout
			conf.Bias = bias
			tree := New(conf, materialEval{})

			a, err := tree.Search(game.New())
			require.NoError(t, err)
			assert.False(a.IsPass())

			iters, _ := tree.Iterations()
			assert.Equal(conf.Budget, iters)
			root := tree.Node(tree.Root())
			assert.Equal(uint32(conf.Budget), root.searched(), "every iteration passes through the root")

			for i := 0; i < tree.Nodes(); i++ {
				n := tree.Node(naughty(i))
				assert.True(n.Visits() >= priorVisits)
				var sum uint32
				for _, kid := range tree.Children(naughty(i)) {
					sum += tree.Node(kid).searched()
					assert.Equal(naughty(i), tree.Node(kid).parent)
				}
				assert.True(n.searched() >= sum, "%v/%v: node %v has %d searched visits, children %d", playout, bias, n.ID(), n.searched(), sum)
				assert.True(n.WinRate() >= -1e-6 && n.WinRate() <= 1+1e-6)
			}
			assert.Equal(tree.Nodes()-1, tree.countChildren(tree.Root()))
		}
	}
}

func TestSearchNoLegalMove(t *testing.T) {
	assert := assert.New(t)
	tree := New(testConfig(), nil)

	g := game.NewFromBoard(boardOf([]int{9}, []int{10, 17, 18}), Black)
	_, err := tree.Search(g)
	assert.Equal(ErrNoLegalMove, err)

	g = game.NewFromBoard(boardOf([]int{9}, nil), White)
	_, err = tree.Search(g)
	assert.Equal(ErrNoLegalMove, err)
	root := tree.Node(tree.Root())
	assert.True(root.IsTerminal(), "a finished game is never expanded")
	assert.Empty(tree.Children(tree.Root()))
}

func TestSearchFindsWinningCapture(t *testing.T) {
	assert := assert.New(t)
	g := game.NewFromBoard(boardOf([]int{18}, []int{42}), Black)
	tree := New(testConfig(), materialEval{})

	a, err := tree.Search(g)
	require.NoError(t, err)
	assert.Equal(game.NewAction(game.Eat, 18, 42), a)

	stats := tree.Stats()
	require.Len(t, stats, 9)
	assert.Equal(a, stats[0].Action)
	assert.InDelta(1, stats[0].WinRate, 1e-6)
	assert.Equal(kid(tree, a).winRate, stats[0].WinRate)
}

func kid(tree *MCTS, a game.Action) *Node {
	return tree.nodeFromNaughty(tree.findChild(tree.Root(), a))
}

func TestSearchDeterministic(t *testing.T) {
	assert := assert.New(t)
	conf := testConfig()
	conf.Training = true
	conf.Seed = 42

	g := game.New()
	a1, err := New(conf, materialEval{}).Search(g)
	require.NoError(t, err)
	a2, err := New(conf, materialEval{}).Search(g)
	require.NoError(t, err)
	assert.Equal(a1, a2)
	assert.True(g.Check(game.PlayerMove{Player: Black, Action: a1}))
}

func TestSearchTraining(t *testing.T) {
	assert := assert.New(t)
	conf := testConfig()
	conf.Training = true
	learner := new(recordingLearner)
	tree := New(conf, learner)

	_, err := tree.Search(game.New())
	require.NoError(t, err)
	require.Len(t, learner.targets, 1)
	assert.True(learner.targets[0] >= -1 && learner.targets[0] <= 1)

	var total float32
	for _, kid := range tree.Children(tree.Root()) {
		total += tree.Node(kid).Softmax()
	}
	assert.InDelta(total, tree.Node(tree.Root()).childSoftmaxTotal, 1e-3)

	tree.Training = false
	_, err = tree.Search(game.New())
	require.NoError(t, err)
	assert.Len(learner.targets, 1, "no bootstrapping outside of training")
}

func TestRootNoise(t *testing.T) {
	assert := assert.New(t)
	conf := testConfig()
	conf.Budget = 1
	conf.RandomCount = 0

	softmaxes := func(training bool, ratio float32) []float32 {
		c := conf
		c.Training = training
		c.NoiseRatio = ratio
		tree := New(c, materialEval{})
		_, err := tree.Search(game.New())
		require.NoError(t, err)
		var retVal []float32
		for _, kid := range tree.Children(tree.Root()) {
			retVal = append(retVal, tree.Node(kid).Softmax())
		}
		return retVal
	}

	plain := softmaxes(false, 0.2)
	require.NotEmpty(t, plain)
	noisy := softmaxes(true, 0.2)
	require.Len(t, noisy, len(plain))

	changed := false
	for i := range plain {
		if math32.Abs(plain[i]-noisy[i]) > 1e-4 {
			changed = true
		}
	}
	assert.True(changed, "noise leaves the root priors untouched")
	assert.Equal(noisy, softmaxes(true, 0.2), "the same seed draws the same noise")
	assert.InDeltaSlice(plain, softmaxes(true, 0), 1e-6, "a zero ratio blends no noise")
}

type constEval float32

func (v constEval) Evaluate(b game.Board, p game.Player) float32 { return float32(v) }

func TestSetEvaluator(t *testing.T) {
	assert := assert.New(t)
	conf := testConfig()
	conf.Training = true
	learner := new(recordingLearner)
	tree := New(conf, learner)

	tree.SetEvaluator(constEval(0.25))
	_, err := tree.Search(game.New())
	require.NoError(t, err)
	for _, kid := range tree.Children(tree.Root()) {
		assert.Equal(float32(0.25), tree.Node(kid).Value())
	}
	assert.Empty(learner.targets, "the replaced learner is not bootstrapped")

	tree.SetEvaluator(learner)
	_, err = tree.Search(game.New())
	require.NoError(t, err)
	assert.Len(learner.targets, 1)
}

func TestSimulateOutcome(t *testing.T) {
	assert := assert.New(t)
	tree := New(testConfig(), nil)

	// white to move, black moved into a board where white has nothing left
	tree.root = tree.New(boardOf([]int{9}, nil), game.Action{}, White, nilNode, 0)
	assert.Equal(float32(1), tree.simulate(tree.root))

	// black to move without an action: white, who moved into the node, wins
	tree.Reset()
	tree.root = tree.New(boardOf([]int{9}, []int{10, 17, 18}), game.Action{}, Black, nilNode, 0)
	assert.Equal(float32(1), tree.simulate(tree.root))

	tree.Reset()
	tree.Playout = ValueOnly
	tree.root = tree.New(game.NewBoard(), game.Action{}, Black, nilNode, 0.25)
	assert.Equal(float32(0.25), tree.simulate(tree.root))

	tree.backpropagate(tree.root, 1)
	root := tree.Node(tree.root)
	assert.Equal(uint32(3), root.Visits())
	assert.Equal(float32(2), root.Wins())
	assert.Equal(float32(1), root.WinRate())
}

func TestSample(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(-1, sample([]float32{0, 0}, 0.5))
	assert.Equal(1, sample([]float32{0, 3, 0}, 0.99))
	assert.Equal(0, sample([]float32{1, 1}, 0.25))
	assert.Equal(1, sample([]float32{1, 1}, 0.75))
}

func TestToDot(t *testing.T) {
	assert := assert.New(t)
	tree := New(testConfig(), materialEval{})
	assert.Contains(tree.ToDot(0), "digraph G")

	_, err := tree.Search(game.New())
	require.NoError(t, err)
	dot := tree.ToDot(10)
	assert.Contains(dot, "Win Rate")
	assert.True(strings.Count(dot, "->") < tree.Nodes())
}
