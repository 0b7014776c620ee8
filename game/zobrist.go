package game

import (
	"math/bits"

	"golang.org/x/exp/rand"
)

// zobrist is the table of random keys used to hash positions.
// https://en.wikipedia.org/wiki/Zobrist_hashing
//
// The table is a (Cells, 2) matrix: one key per cell per colour, plus a key that is mixed in
// when white is to move.
type zobrist struct {
	table [Cells][2]uint64
	white uint64
}

const zobristSeed = 0x5eed

var keys = makeZobrist(zobristSeed)

func makeZobrist(seed uint64) *zobrist {
	r := rand.New(rand.NewSource(seed))
	z := new(zobrist)
	for i := range z.table {
		z.table[i][0] = r.Uint64()
		z.table[i][1] = r.Uint64()
	}
	z.white = r.Uint64()
	return z
}

// hash computes the hash of the board with the given player to move.
func (z *zobrist) hash(b Board, toMove Player) Zobrist {
	var h uint64
	for i := range b.Pieces {
		for pieces := b.Pieces[i]; pieces != 0; pieces &= pieces - 1 {
			h ^= z.table[bits.TrailingZeros64(pieces)][i]
		}
	}
	if Colour(toMove) == White {
		h ^= z.white
	}
	return Zobrist(h)
}

// Hash returns the zobrist hash of the board with the given player to move.
func Hash(b Board, toMove Player) Zobrist { return keys.hash(b, toMove) }
