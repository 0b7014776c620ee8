package mcts

import (
	"sync"
	"time"

	"github.com/gorgonia/surakarta/game"
	rng "github.com/leesper/go_rng"
	"golang.org/x/exp/rand"
)

// Config is the structure to configure the search tree
type Config struct {
	Budget  int           `json:"budget"`  // iterations per search
	Timeout time.Duration `json:"timeout"` // optional wall clock bound, zero for none

	Exploration       float32 `json:"exploration"`        // C in the UCB term
	Bias              Bias    `json:"bias"`               // extra selection term
	ProgressiveWeight float32 `json:"progressive_weight"` // W of the progressive bias
	PUCT              float32 `json:"puct"`               // weight of the polynomial bias

	Playout        Playout `json:"playout"`
	PlayoutPlies   int     `json:"playout_plies"`   // playout length cap
	MaterialCutoff int     `json:"material_cutoff"` // stop a playout once the material gap reaches this. 0 disables
	Epsilon        float32 `json:"epsilon"`         // exploration rate of EpsilonGreedy playouts

	Training          bool    `json:"training"`
	RandomCount       int     `json:"random_count"` // if the move number is less than this, sample the move by visits
	RandomTemperature float32 `json:"random_temperature"`
	DirichletAlpha    float64 `json:"dirichlet_alpha"`
	NoiseRatio        float32 `json:"noise_ratio"` // share of the root noise in the blended prior

	Seed uint64 `json:"seed"`
}

func DefaultConfig() Config {
	return Config{
		Budget:            1000,
		Exploration:       0.5,
		Bias:              Polynomial,
		ProgressiveWeight: 1,
		PUCT:              1,
		Playout:           EatFirst,
		PlayoutPlies:      100,
		Epsilon:           0.1,
		RandomCount:       10,
		RandomTemperature: 1,
		DirichletAlpha:    0.3,
		NoiseRatio:        0.2,
		Seed:              1337,
	}
}

func (c Config) IsValid() bool {
	return c.Budget > 0 &&
		c.Exploration >= 0 &&
		c.Bias >= NoBias && c.Bias < MAXBIAS &&
		c.Playout >= Random && c.Playout < MAXPLAYOUT &&
		c.PlayoutPlies > 0 &&
		c.Epsilon >= 0 && c.Epsilon <= 1 &&
		c.RandomTemperature > 0 &&
		c.DirichletAlpha > 0 &&
		c.NoiseRatio >= 0 && c.NoiseRatio <= 1
}

// MCTS is essentially a "global" manager of sorts for the memories. The goal is to build MCTS without much pointer chasing.
//
// One tree is built per decision and is used by a single goroutine at a time.
type MCTS struct {
	sync.Mutex
	Config
	eval    Evaluator
	learner Learner // nil unless eval can learn

	rand      *rand.Rand
	dirichlet *rng.DirichletGenerator

	// memory related fields
	nodes    []Node
	children [][]naughty
	root     naughty

	// statistics of the last search
	iterations int
	elapsed    time.Duration

	lumberjack
}

// New creates a search tree. eval may be nil, in which case every position is valued at 0.
func New(conf Config, eval Evaluator) *MCTS {
	t := &MCTS{
		Config:    conf,
		eval:      eval,
		rand:      rand.New(rand.NewSource(conf.Seed)),
		dirichlet: rng.NewDirichletGenerator(int64(conf.Seed)),

		nodes:    make([]Node, 0, 4096),
		children: make([][]naughty, 0, 4096),
		root:     nilNode,

		lumberjack: makeLumberJack(),
	}
	if l, ok := eval.(Learner); ok {
		t.learner = l
	}
	return t
}

// New creates a new node and returns its handle. Pointers into the arena are invalid after this call.
func (t *MCTS) New(b game.Board, a game.Action, toMove game.Player, parent naughty, value float32) naughty {
	id := naughty(len(t.nodes))
	t.nodes = append(t.nodes, Node{
		board:   b,
		action:  a,
		toMove:  toMove,
		parent:  parent,
		visits:  priorVisits,
		wins:    priorWins,
		value:   value,
		softmax: softmax(value),
		id:      id,
	})
	if l := len(t.children); l < cap(t.children) {
		t.children = t.children[:l+1]
		t.children[l] = t.children[l][:0]
	} else {
		t.children = append(t.children, make([]naughty, 0, 16))
	}
	return id
}

// Nodes is the number of nodes in the arena.
func (t *MCTS) Nodes() int { return len(t.nodes) }

// Root returns the handle of the root of the last search.
func (t *MCTS) Root() naughty { return t.root }

// Node returns a copy of the node.
func (t *MCTS) Node(n naughty) Node { return t.nodes[n] }

// Children returns the children of a node.
func (t *MCTS) Children(of naughty) []naughty { return t.children[of] }

// Iterations returns the iteration count and the duration of the last search.
func (t *MCTS) Iterations() (int, time.Duration) { return t.iterations, t.elapsed }

// SetEvaluator replaces the evaluator, for example after weights are reloaded.
func (t *MCTS) SetEvaluator(eval Evaluator) {
	t.Lock()
	t.eval = eval
	t.learner, _ = eval.(Learner)
	t.Unlock()
}

func (t *MCTS) nodeFromNaughty(n naughty) *Node { return &t.nodes[n] }

func (t *MCTS) evaluate(b game.Board, p game.Player) float32 {
	if t.eval == nil {
		return 0
	}
	return t.eval.Evaluate(b, p)
}

// Reset truncates the arena. The backing memory is kept for the next search.
func (t *MCTS) Reset() {
	t.nodes = t.nodes[:0]
	t.children = t.children[:0]
	t.root = nilNode
	t.iterations = 0
	t.elapsed = 0
	t.lumberjack.Reset()
}
