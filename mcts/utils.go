package mcts

import (
	"github.com/chewxy/math32"
	"gorgonia.org/vecf32"
)

// fancySort sorts the list of nodes with the most visited first. Ties go to the better win rate
type fancySort struct {
	l []naughty
	t *MCTS
}

func (l fancySort) Len() int      { return len(l.l) }
func (l fancySort) Swap(i, j int) { l.l[i], l.l[j] = l.l[j], l.l[i] }
func (l fancySort) Less(i, j int) bool {
	li := l.t.nodeFromNaughty(l.l[i])
	lj := l.t.nodeFromNaughty(l.l[j])

	if li.visits != lj.visits {
		return li.visits > lj.visits
	}
	if li.winRate != lj.winRate {
		return li.winRate > lj.winRate
	}
	return li.value > lj.value
}

// byAction sorts nodes by action code, for stable output
type byAction struct {
	t *MCTS
	l []naughty
}

func (l byAction) Len() int { return len(l.l) }
func (l byAction) Less(i, j int) bool {
	li := l.t.nodeFromNaughty(l.l[i]).action
	lj := l.t.nodeFromNaughty(l.l[j]).action
	if li.Kind != lj.Kind {
		return li.Kind < lj.Kind
	}
	return li.Code() < lj.Code()
}
func (l byAction) Swap(i, j int) { l.l[i], l.l[j] = l.l[j], l.l[i] }

func argmax(a []float32) int { return vecf32.Argmax(a) }

// sample draws an index with probability proportional to the weights. It returns -1 if all weights are zero.
func sample(weights []float32, rnd float32) int {
	total := vecf32.Sum(weights)
	if total <= 0 || math32.IsInf(total, 0) || math32.IsNaN(total) {
		return -1
	}
	rnd *= total
	var accum float32
	last := -1
	for i, w := range weights {
		if w <= 0 {
			continue
		}
		accum += w
		last = i
		if rnd < accum {
			return i
		}
	}
	return last
}
