package mcts

import (
	"sort"
	"time"

	"github.com/chewxy/math32"
	"github.com/gorgonia/surakarta/game"
	"gorgonia.org/vecf32"
)

/*
Here lies the majority of the MCTS search code, while node.go and tree.go handles the data structure stuff.

Every iteration goes through the four phases
	SELECT, EXPAND, SIMULATE, BACKPROPAGATE
and the final decision is made on the visit counts of the root's children.
*/

// Search builds a fresh tree from the state and returns the action to play for the side to move.
// ErrNoLegalMove is returned when the side to move has no action.
func (t *MCTS) Search(g game.State) (retVal game.Action, err error) {
	t.Lock()
	defer t.Unlock()

	start := time.Now()
	t.Reset()
	player := g.ToMove()
	t.root = t.New(g.Board(), game.Action{}, player, nilNode, 0)
	t.log("SEARCH. Player %v\n%v", player, g.Board())

	if t.expand(t.root) == 0 {
		return game.Action{}, ErrNoLegalMove
	}
	if t.Training {
		t.addRootNoise()
	}

	var deadline time.Time
	if t.Timeout > 0 {
		deadline = start.Add(t.Timeout)
	}
	for t.iterations = 0; t.iterations < t.Budget; t.iterations++ {
		if !deadline.IsZero() && time.Now().After(deadline) {
			break
		}
		t.iterate()
	}
	t.elapsed = time.Since(start)

	best := t.decide(g.MoveNumber())
	bestNode := t.nodeFromNaughty(best)
	if t.Training && t.learner != nil {
		t.learner.Bootstrap(bestNode.board, player, 2*bestNode.winRate-1)
	}
	t.log("Move Number %d, Iterations %d, Nodes: %v. Best: %v", g.MoveNumber(), t.iterations, len(t.nodes), bestNode)
	return bestNode.action, nil
}

// iterate is one pass of the MCTS pipeline
func (t *MCTS) iterate() {
	leaf := t.selection(t.root)
	leaf = t.expansion(leaf)
	result := t.simulate(leaf)
	t.backpropagate(leaf, result)
}

// selection descends from the node until it reaches a node without children.
func (t *MCTS) selection(n naughty) naughty {
	for len(t.children[n]) > 0 {
		n = t.Select(n)
	}
	return n
}

// expansion expands a leaf and returns a uniformly random new child. Nodes that cannot be
// expanded any more return themselves.
func (t *MCTS) expansion(leaf naughty) naughty {
	if t.nodes[leaf].expanded {
		return leaf
	}
	if t.expand(leaf) == 0 {
		return leaf
	}
	kids := t.children[leaf]
	return kids[t.rand.Intn(len(kids))]
}

// expand creates the children of a node: captures first, then moves. Every child is valued
// for the player making the action. It returns the number of children created.
func (t *MCTS) expand(of naughty) int {
	n := t.nodeFromNaughty(of)
	n.expanded = true
	if n.board.GameOver() {
		n.terminal = true
		return 0
	}
	b, mover := n.board, n.toMove
	actions := game.Legal(b, mover)
	if len(actions) == 0 {
		n.terminal = true
		return 0
	}

	// n is invalid once the arena grows
	var total float32
	for _, a := range actions {
		next := b
		next.Apply(a)
		kid := t.New(next, a, mover.Opponent(), of, t.evaluate(next, mover))
		total += t.nodes[kid].softmax
		t.children[of] = append(t.children[of], kid)
	}
	t.nodes[of].childSoftmaxTotal = total
	t.log("\t\tExpanded %v: %d children", t.nodes[of].action, len(actions))
	return len(actions)
}

// addRootNoise blends Dirichlet noise into the values of the root's children before their softmax.
func (t *MCTS) addRootNoise() {
	kids := t.children[t.root]
	if len(kids) < 2 {
		return
	}
	noise := t.dirichlet.SymmetricDirichlet(t.DirichletAlpha, len(kids))
	values := make([]float32, len(kids))
	noises := make([]float32, len(kids))
	for i, kid := range kids {
		values[i] = t.nodes[kid].value
		noises[i] = float32(noise[i])
	}
	vecf32.Scale(values, 1-t.NoiseRatio)
	vecf32.Scale(noises, t.NoiseRatio)
	vecf32.Add(values, noises)

	var total float32
	for i, kid := range kids {
		s := softmax(values[i])
		t.nodes[kid].softmax = s
		total += s
	}
	t.nodes[t.root].childSoftmaxTotal = total
}

// backpropagate walks from the leaf to the root. The result is for the player who moved into
// the leaf and changes sign every ply.
func (t *MCTS) backpropagate(leaf naughty, result float32) {
	for n := leaf; n.isValid(); n = t.nodes[n].parent {
		t.nodes[n].Update((result + 1) / 2)
		result = -result
	}
}

// decide picks the root child to play. The most visited child is chosen, except early in
// training games where the child is sampled by its search visits.
func (t *MCTS) decide(moveNumber int) naughty {
	children := make([]naughty, len(t.children[t.root]))
	copy(children, t.children[t.root])
	sort.Stable(fancySort{l: children, t: t})

	if t.Training && moveNumber < t.RandomCount {
		weights := make([]float32, len(children))
		for i, kid := range children {
			weights[i] = math32.Pow(float32(t.nodes[kid].searched()), 1/t.RandomTemperature)
		}
		if i := sample(weights, t.rand.Float32()); i >= 0 {
			return children[i]
		}
	}
	return children[0]
}

// ActionStat is the search statistic of one root action.
type ActionStat struct {
	Action  game.Action
	Visits  uint32
	WinRate float32
	Value   float32
}

// Stats returns the statistics of the root's children of the last search, most visited first.
func (t *MCTS) Stats() []ActionStat {
	t.Lock()
	defer t.Unlock()
	if !t.root.isValid() {
		return nil
	}
	children := make([]naughty, len(t.children[t.root]))
	copy(children, t.children[t.root])
	sort.Stable(fancySort{l: children, t: t})

	retVal := make([]ActionStat, 0, len(children))
	for _, kid := range children {
		n := t.nodeFromNaughty(kid)
		retVal = append(retVal, ActionStat{
			Action:  n.action,
			Visits:  n.searched(),
			WinRate: n.winRate,
			Value:   n.value,
		})
	}
	return retVal
}
