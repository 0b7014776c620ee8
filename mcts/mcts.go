package mcts

import (
	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
)

// Evaluator is essentially the pattern network. Evaluate values a board for player p, positive
// being good for p.
type Evaluator interface {
	Evaluate(b game.Board, p game.Player) float32
}

// Learner is an Evaluator that can be nudged toward search results.
type Learner interface {
	Evaluator
	Bootstrap(b game.Board, p game.Player, target float32)
}

// ErrNoLegalMove is returned by Search when the side to move has no action.
var ErrNoLegalMove = errors.New("no legal move")

const (
	White game.Player = game.Player(game.White)
	Black game.Player = game.Player(game.Black)

	// fresh nodes start with this many visits and half as many wins
	priorVisits = 2
	priorWins   = 1
)

// Bias is the extra term of the selection formula.
type Bias int

const (
	NoBias      Bias = iota
	Progressive      // W·value/visits
	Polynomial       // PUCT over the softmax of the sibling values
	MAXBIAS
)

func (b Bias) String() string {
	switch b {
	case NoBias:
		return "none"
	case Progressive:
		return "progressive"
	case Polynomial:
		return "polynomial"
	}
	return "UNKNOWN BIAS"
}
