// Package ntuple implements a pattern network that values Surakarta positions.
//
// The network holds one weight table per ring (outer, small and large). A position is valued
// by looking up every ring in all eight symmetry images of the board, seen from the player
// being valued, and averaging the 24 weights.
package ntuple

import (
	"sync"

	"github.com/chewxy/math32"
	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
	"gorgonia.org/vecf32"
)

const lookups = game.NumSymmetries * numRings

// Network is an n-tuple network. It is safe for concurrent use: evaluations take a read lock
// and learning takes the write lock.
type Network struct {
	sync.RWMutex
	Config

	tables [numRings]*Table
}

// New creates a new Network. Call Init before use.
func New(conf Config) *Network {
	return &Network{Config: conf}
}

// Init checks the corner folding and allocates empty weight tables.
func (n *Network) Init() error {
	if !n.IsValid() {
		return errors.Errorf("invalid config %+v", n.Config)
	}
	if err := checkHeads(); err != nil {
		return err
	}
	for i := range n.tables {
		n.tables[i] = NewTable(TableSize)
	}
	return nil
}

// Table returns the weight table of a ring.
func (n *Network) Table(r Ring) *Table { return n.tables[r] }

// touch is one weight read while valuing a board. neg is true when the stored weight is the
// colour swapped value and must be negated.
type touch struct {
	idx int
	neg bool
}

// lookup finds the weight of ring r in a board image.
func lookup(img game.Board, r Ring) touch {
	h := heads[signature(img, r)]
	folded := h.op.Apply(img)
	return touch{
		idx: int(h.class&0xF)*digests + digest(folded, r),
		neg: h.class&flipBit != 0,
	}
}

// touches lists, per ring, the weights read in every symmetry image of b seen from p.
func touches(b game.Board, p game.Player) (retVal [numRings][game.NumSymmetries]touch) {
	for i, img := range b.Perspective(p).Symmetries() {
		for r := Outer; r < numRings; r++ {
			retVal[r][i] = lookup(img, r)
		}
	}
	return retVal
}

// conflicted reports whether idx is read with both signs. Such a weight adds nothing to the
// value of the board, whatever it holds.
func conflicted(ts []touch, idx int) bool {
	var pos, neg bool
	for _, t := range ts {
		if t.idx != idx {
			continue
		}
		pos = pos || !t.neg
		neg = neg || t.neg
	}
	return pos && neg
}

func (n *Network) value(r Ring, t touch) float32 {
	v := n.tables[r].Get(t.idx).Value
	if t.neg {
		return -v
	}
	return v
}

// Evaluate values the board for player p. The result lies roughly in [-1, 1]; positive is
// good for p.
func (n *Network) Evaluate(b game.Board, p game.Player) float32 {
	ts := touches(b, p)
	n.RLock()
	defer n.RUnlock()

	var vals [lookups]float32
	k := 0
	for r := Outer; r < numRings; r++ {
		for _, t := range ts[r] {
			vals[k] = n.value(r, t)
			k++
		}
	}
	return vecf32.Sum(vals[:]) / lookups
}

// RingValues is the per ring contribution to Evaluate, each averaged over the symmetry images.
func (n *Network) RingValues(b game.Board, p game.Player) (retVal [numRings]float32) {
	ts := touches(b, p)
	n.RLock()
	defer n.RUnlock()
	for r := Outer; r < numRings; r++ {
		for _, t := range ts[r] {
			retVal[r] += n.value(r, t) / game.NumSymmetries
		}
	}
	return retVal
}

// Learn moves every weight that contributes to the value of b for p toward target. A weight
// read with both signs in the same board is left alone.
func (n *Network) Learn(b game.Board, p game.Player, target, alpha float32) {
	target = math32.Max(-1, math32.Min(1, target))
	ts := touches(b, p)
	n.Lock()
	defer n.Unlock()
	for r := Outer; r < numRings; r++ {
		for _, t := range ts[r] {
			if conflicted(ts[r][:], t.idx) {
				continue
			}
			goal := target
			if t.neg {
				goal = -goal
			}
			n.tables[r].Update(t.idx, goal, alpha)
		}
	}
}

// Train learns a game outcome label.
func (n *Network) Train(b game.Board, p game.Player, target float32) { n.Learn(b, p, target, n.Alpha) }

// Bootstrap learns a label taken from search statistics.
func (n *Network) Bootstrap(b game.Board, p game.Player, target float32) {
	n.Learn(b, p, target, n.BootstrapAlpha())
}

// Allocated is the number of allocated pages across all tables.
func (n *Network) Allocated() (retVal int) {
	n.RLock()
	defer n.RUnlock()
	for _, t := range n.tables {
		retVal += t.Allocated()
	}
	return retVal
}
