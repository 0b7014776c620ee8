package surakarta

import (
	"github.com/gorgonia/surakarta/game"
	"github.com/gorgonia/surakarta/mcts"
	"github.com/gorgonia/surakarta/ntuple"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

// An Agent is a player, AI or Human
type Agent interface {
	Name() string

	// OpenEpisode is called before a game in which the agent plays p.
	OpenEpisode(p game.Player)

	// TakeAction returns the action for the side to move. A pass is returned when the agent
	// has nothing to play.
	TakeAction(g game.State) game.Action

	// CloseEpisode is called with the result of the game.
	CloseEpisode(r Result)
}

// AgentFactory creates an agent for one game. Every game gets its own seed.
type AgentFactory func(seed uint64) Agent

// maxRepetitions is how many times the position after an action may already have occurred.
const maxRepetitions = 2

// guard replaces an action that would repeat a position more than maxRepetitions times with a pass.
func guard(g game.State, a game.Action) game.Action {
	if a.IsPass() {
		return a
	}
	b := g.Board()
	b.Apply(a)
	if g.Repetitions(game.Hash(b, g.ToMove().Opponent())) > maxRepetitions {
		return game.Action{}
	}
	return a
}

// MCTSAgent plays the action found by a tree search.
type MCTSAgent struct {
	name string
	MCTS *mcts.MCTS
}

func NewMCTSAgent(name string, conf mcts.Config, eval mcts.Evaluator) *MCTSAgent {
	return &MCTSAgent{
		name: name,
		MCTS: mcts.New(conf, eval),
	}
}

func (a *MCTSAgent) Name() string              { return a.name }
func (a *MCTSAgent) OpenEpisode(p game.Player) {}
func (a *MCTSAgent) CloseEpisode(r Result)     { a.MCTS.Reset() }

// TakeAction searches the game state and returns the suggested action.
func (a *MCTSAgent) TakeAction(g game.State) game.Action {
	best, err := a.MCTS.Search(g)
	if err != nil {
		if errors.Cause(err) != mcts.ErrNoLegalMove {
			log.Error().Err(err).Msgf("%v: search failed", a.name)
		}
		return game.Action{}
	}
	return guard(g, best)
}

// TrainingAgent searches in training mode and learns from its games. The boards it moves
// into are recorded and trained toward the game's label when the episode closes.
type TrainingAgent struct {
	MCTSAgent
	Net    *ntuple.Network
	record []game.Board
}

func NewTrainingAgent(name string, conf mcts.Config, net *ntuple.Network) *TrainingAgent {
	conf.Training = true
	return &TrainingAgent{
		MCTSAgent: MCTSAgent{
			name: name,
			MCTS: mcts.New(conf, net),
		},
		Net: net,
	}
}

func (a *TrainingAgent) OpenEpisode(p game.Player) { a.record = a.record[:0] }

func (a *TrainingAgent) TakeAction(g game.State) game.Action {
	act := a.MCTSAgent.TakeAction(g)
	if !act.IsPass() {
		b := g.Board()
		b.Apply(act)
		a.record = append(a.record, b)
	}
	return act
}

// CloseEpisode trains the recorded boards, last first, toward the label seen from black.
func (a *TrainingAgent) CloseEpisode(r Result) {
	for i := len(a.record) - 1; i >= 0; i-- {
		a.Net.Train(a.record[i], game.Player(game.Black), r.Label)
	}
	a.record = a.record[:0]
	a.MCTS.Reset()
}

// SetNetwork points the agent and its search at net.
func (a *TrainingAgent) SetNetwork(net *ntuple.Network) {
	a.Net = net
	a.MCTS.SetEvaluator(net)
}

// Records is the number of boards recorded in the current episode.
func (a *TrainingAgent) Records() int { return len(a.record) }

// GreedyAgent plays the action whose resulting board has the best pattern value.
type GreedyAgent struct {
	name string
	Eval mcts.Evaluator
	rand *rand.Rand
}

func NewGreedyAgent(name string, eval mcts.Evaluator, seed uint64) *GreedyAgent {
	return &GreedyAgent{
		name: name,
		Eval: eval,
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (a *GreedyAgent) Name() string              { return a.name }
func (a *GreedyAgent) OpenEpisode(p game.Player) {}
func (a *GreedyAgent) CloseEpisode(r Result)     {}

func (a *GreedyAgent) TakeAction(g game.State) game.Action {
	p := g.ToMove()
	actions := g.Legal()
	if len(actions) == 0 {
		return game.Action{}
	}
	// shuffled so that ties are broken at random
	a.rand.Shuffle(len(actions), func(i, j int) { actions[i], actions[j] = actions[j], actions[i] })

	best := actions[0]
	var bestValue float32
	for i, act := range actions {
		b := g.Board()
		b.Apply(act)
		v := a.Eval.Evaluate(b, p)
		if i == 0 || v > bestValue {
			best, bestValue = act, v
		}
	}
	return guard(g, best)
}

// RandomAgent captures whenever it can, else it moves at random.
type RandomAgent struct {
	name string
	rand *rand.Rand
}

func NewRandomAgent(name string, seed uint64) *RandomAgent {
	return &RandomAgent{
		name: name,
		rand: rand.New(rand.NewSource(seed)),
	}
}

func (a *RandomAgent) Name() string              { return a.name }
func (a *RandomAgent) OpenEpisode(p game.Player) {}
func (a *RandomAgent) CloseEpisode(r Result)     {}

func (a *RandomAgent) TakeAction(g game.State) game.Action {
	b, p := g.Board(), g.ToMove()
	if eats := game.Eats(b, p); len(eats) > 0 {
		return guard(g, eats[a.rand.Intn(len(eats))])
	}
	if moves := game.Moves(b, p); len(moves) > 0 {
		return guard(g, moves[a.rand.Intn(len(moves))])
	}
	return game.Action{}
}
