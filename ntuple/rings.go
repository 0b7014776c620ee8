package ntuple

import (
	"fmt"

	"github.com/gorgonia/surakarta/game"
)

// Ring is one of the three pattern families. Each ring is defined by four corner cells on
// the board's diagonals and 16 further cells.
type Ring int

const (
	Outer Ring = iota
	Small
	Large

	numRings = 3
)

func (r Ring) Format(s fmt.State, c rune) {
	switch r {
	case Outer:
		fmt.Fprint(s, "outer")
	case Small:
		fmt.Fprint(s, "small")
	case Large:
		fmt.Fprint(s, "large")
	default:
		fmt.Fprintf(s, "Ring(%d)", int(r))
	}
}

const (
	restCells = 16
	digests   = 43046721 // 3^16
	classes   = 13

	// TableSize is the number of entries of one ring's weight table.
	TableSize = classes * digests
)

// corners in slot order bottom-left, bottom-right, top-right, top-left.
var corners = [numRings][4]int{
	Outer: {49, 54, 14, 9},
	Small: {42, 45, 21, 18},
	Large: {35, 36, 28, 27},
}

// rest lists the remaining cells of each ring, most significant digit first.
var rest = [numRings][restCells]int{
	Outer: {10, 11, 12, 13, 17, 22, 25, 30, 33, 38, 41, 46, 50, 51, 52, 53},
	Small: {10, 13, 17, 19, 20, 22, 26, 29, 34, 37, 41, 43, 44, 46, 50, 53},
	Large: {11, 12, 19, 20, 25, 26, 29, 30, 33, 34, 37, 38, 43, 44, 51, 52},
}

// signature packs the corners of the ring, two bits each with slot 0 highest: 01 own, 10 opponent.
// b is seen from the perspective of the side in Pieces[0].
func signature(b game.Board, r Ring) uint8 {
	own, opp := b.Pieces[0], b.Pieces[1]
	var sig uint8
	for _, c := range corners[r] {
		sig <<= 2
		switch {
		case own&(1<<uint(c)) != 0:
			sig |= 1
		case opp&(1<<uint(c)) != 0:
			sig |= 2
		}
	}
	return sig
}

// digest folds the rest cells of the ring into a base 3 number: 0 empty, 1 own, 2 opponent.
func digest(b game.Board, r Ring) int {
	own, opp := b.Pieces[0], b.Pieces[1]
	var idx int
	for _, c := range rest[r] {
		idx *= 3
		switch {
		case own&(1<<uint(c)) != 0:
			idx++
		case opp&(1<<uint(c)) != 0:
			idx += 2
		}
	}
	return idx
}
