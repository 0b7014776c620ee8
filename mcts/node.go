package mcts

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/gorgonia/surakarta/game"
)

type Node struct {
	board  game.Board
	action game.Action // the action that produced this node
	toMove game.Player
	parent naughty

	visits  uint32  // starts at priorVisits
	wins    float32 // accumulated reward of the player who moved into the node
	winRate float32 // running mean of the rewards backed up through the node

	value             float32 // pattern value for the player who moved into the node
	softmax           float32
	childSoftmaxTotal float32

	expanded bool
	terminal bool

	id naughty
}

func (n Node) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "{NodeID: %v Action: %v, ToMove: %v, Visits %v, Wins %v, WinRate %v, Value %v}", n.id, n.action, n.toMove, n.visits, n.wins, n.winRate, n.value)
}

func (n Node) ID() int               { return int(n.id) }
func (n Node) Board() game.Board     { return n.board }
func (n Node) Action() game.Action   { return n.action }
func (n Node) ToMove() game.Player   { return n.toMove }
func (n Node) Visits() uint32        { return n.visits }
func (n Node) Wins() float32         { return n.wins }
func (n Node) WinRate() float32      { return n.winRate }
func (n Node) Value() float32        { return n.value }
func (n Node) Softmax() float32      { return n.softmax }
func (n Node) IsExpanded() bool      { return n.expanded }
func (n Node) IsTerminal() bool      { return n.terminal }
func (n Node) Mover() game.Player    { return n.toMove.Opponent() }
func (n Node) searched() uint32      { return n.visits - priorVisits }
func (n Node) exploitation() float32 { return n.wins / float32(n.visits) }
func (n Node) lnVisits() float32     { return math32.Log(float32(n.visits)) }
func (n Node) sqrtVisits() float32   { return math32.Sqrt(float32(n.visits)) }
func softmax(value float32) float32  { return math32.Exp(value) }

// Update backs up a reward in [0, 1].
func (n *Node) Update(reward float32) {
	n.visits++
	n.wins += reward
	n.winRate += (reward - n.winRate) / float32(n.searched())
}

// Select selects the child with the best upper confidence bound
func (t *MCTS) Select(parent naughty) naughty {
	p := t.nodeFromNaughty(parent)
	lnN := p.lnVisits()
	sqrtN := p.sqrtVisits()
	total := p.childSoftmaxTotal

	// U(s, a) = Q(s, a) + C * sqrt(ln N(s) / N(s, a)) + bias(s, a)
	//
	// where the bias is either
	//	W * V(s, a) / N(s, a)                                  progressive
	//	PUCT * P(s, a) * sqrt(N(s)) / (1 + N(s, a))            polynomial
	// and P(s, a) is the softmax of the pattern values of the siblings.
	best := nilNode
	bestValue := math32.Inf(-1)
	for _, kid := range t.children[parent] {
		child := t.nodeFromNaughty(kid)
		visits := float32(child.visits)
		usa := child.exploitation() + t.Exploration*math32.Sqrt(lnN/visits)
		switch t.Bias {
		case Progressive:
			usa += t.ProgressiveWeight * child.value / visits
		case Polynomial:
			if total > 0 {
				usa += t.PUCT * (child.softmax / total) * sqrtN / (1 + visits)
			}
		}
		if usa > bestValue {
			bestValue = usa
			best = kid
		}
	}
	if best == nilNode {
		panic("Cannot return nil")
	}
	return best
}

// countChildren counts the number of children node a node has and number of grandkids recursively
func (t *MCTS) countChildren(of naughty) (retVal int) {
	for _, kid := range t.children[of] {
		retVal += t.countChildren(kid) + 1
	}
	return
}

// findChild finds the first child that has the wanted action
func (t *MCTS) findChild(of naughty, a game.Action) naughty {
	for _, kid := range t.children[of] {
		if t.nodes[kid].action == a {
			return kid
		}
	}
	return nilNode
}
