package mcts

import (
	"fmt"

	"github.com/gorgonia/surakarta/game"
)

// Playout is the simulation policy used from a freshly expanded node.
type Playout int

const (
	Random        Playout = iota // uniformly random legal actions
	EatFirst                     // a random capture if there is one, else a random move
	EpsilonGreedy                // the best action by pattern value, random with probability Epsilon
	ValueOnly                    // no playout, the cached pattern value of the leaf is backed up
	MAXPLAYOUT
)

func (p Playout) Format(s fmt.State, c rune) {
	switch p {
	case Random:
		fmt.Fprint(s, "random")
	case EatFirst:
		fmt.Fprint(s, "eat-first")
	case EpsilonGreedy:
		fmt.Fprint(s, "epsilon-greedy")
	case ValueOnly:
		fmt.Fprint(s, "value-only")
	default:
		fmt.Fprintf(s, "Playout(%d)", int(p))
	}
}

// simulate returns the outcome of the leaf in [-1, 1] for the player who moved into it.
func (t *MCTS) simulate(leaf naughty) float32 {
	n := t.nodeFromNaughty(leaf)
	b, player := n.board, n.toMove
	mover := player.Opponent()

	switch {
	case b.GameOver():
		return outcome(b, mover)
	case n.terminal:
		// the side to move has no action
		return 1
	case t.Playout == ValueOnly:
		return n.value
	}

	for ply := 0; ply < t.PlayoutPlies && !b.GameOver(); ply++ {
		if t.MaterialCutoff > 0 {
			if m := b.Material(mover); m >= t.MaterialCutoff || -m >= t.MaterialCutoff {
				break
			}
		}
		a, ok := t.playoutAction(b, player)
		if !ok {
			if player == mover {
				return -1
			}
			return 1
		}
		b.Apply(a)
		player = player.Opponent()
	}
	return outcome(b, mover)
}

// outcome is the sign of the material difference for p.
func outcome(b game.Board, p game.Player) float32 {
	switch m := b.Material(p); {
	case m > 0:
		return 1
	case m < 0:
		return -1
	}
	return 0
}

func (t *MCTS) playoutAction(b game.Board, p game.Player) (game.Action, bool) {
	switch t.Playout {
	case EatFirst:
		if eats := game.Eats(b, p); len(eats) > 0 {
			return eats[t.rand.Intn(len(eats))], true
		}
		moves := game.Moves(b, p)
		if len(moves) == 0 {
			return game.Action{}, false
		}
		return moves[t.rand.Intn(len(moves))], true
	case EpsilonGreedy:
		actions := game.Legal(b, p)
		if len(actions) == 0 {
			return game.Action{}, false
		}
		if t.eval == nil || t.rand.Float32() < t.Epsilon {
			return actions[t.rand.Intn(len(actions))], true
		}
		return t.greedy(b, p, actions), true
	default:
		actions := game.Legal(b, p)
		if len(actions) == 0 {
			return game.Action{}, false
		}
		return actions[t.rand.Intn(len(actions))], true
	}
}

// greedy picks the action whose resulting board is valued highest for p.
func (t *MCTS) greedy(b game.Board, p game.Player, actions []game.Action) game.Action {
	values := make([]float32, len(actions))
	for i, a := range actions {
		next := b
		next.Apply(a)
		values[i] = t.evaluate(next, p)
	}
	return actions[argmax(values)]
}
