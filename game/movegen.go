package game

import "math/bits"

// neighbours are the step offsets of a slide, applied in both directions.
var neighbours = [4]int{1, 7, 8, 9}

// circuits are the two capture tracks, as closed loops of 24 cells (octal row/column).
// Each loop is made of four segments of six cells; consecutive segments are joined by a
// corner arc. The crossing cells appear twice.
var circuits = [2][24]int{
	// small
	{
		021, 022, 023, 024, 025, 026,
		015, 025, 035, 045, 055, 065,
		056, 055, 054, 053, 052, 051,
		062, 052, 042, 032, 022, 012,
	},
	// large
	{
		031, 032, 033, 034, 035, 036,
		014, 024, 034, 044, 054, 064,
		046, 045, 044, 043, 042, 041,
		063, 053, 043, 033, 023, 013,
	},
}

// Moves returns the non-capturing slides of the player.
func Moves(b Board, p Player) []Action {
	var retVal []Action
	own := b.Own(p)
	empty := b.Empty()
	for pieces := own; pieces != 0; pieces &= pieces - 1 {
		origin := bits.TrailingZeros64(pieces)
		for _, n := range neighbours {
			for _, dest := range [2]int{origin + n, origin - n} {
				if dest < 0 || dest >= Cells {
					continue
				}
				if empty&(1<<uint(dest)) != 0 {
					retVal = append(retVal, NewAction(Move, origin, dest))
				}
			}
		}
	}
	return retVal
}

// Eats returns the captures of the player.
//
// From every place an own piece sits on a track, the track is scanned in both directions.
// The first occupied cell met is captured if it holds an opponent piece. The capturing
// piece's own cell counts as empty, so a scan may pass over it.
func Eats(b Board, p Player) []Action {
	var retVal []Action
	own, opp := b.Own(p), b.Opp(p)
	occupied := own | opp

	var targets [Cells]uint64
	for t := range circuits {
		track := &circuits[t]
		for i, origin := range track {
			if own&(1<<uint(origin)) == 0 {
				continue
			}
			for _, dir := range [2]int{1, len(track) - 1} {
				for step := 1; step < len(track); step++ {
					cell := track[(i+dir*step)%len(track)]
					if cell == origin {
						continue
					}
					bit := uint64(1) << uint(cell)
					if occupied&bit == 0 {
						continue
					}
					if opp&bit != 0 {
						targets[origin] |= bit
					}
					break
				}
			}
		}
	}

	for pieces := own; pieces != 0; pieces &= pieces - 1 {
		origin := bits.TrailingZeros64(pieces)
		for t := targets[origin]; t != 0; t &= t - 1 {
			retVal = append(retVal, NewAction(Eat, origin, bits.TrailingZeros64(t)))
		}
	}
	return retVal
}

// Legal returns all the actions of the player, eats first.
func Legal(b Board, p Player) []Action {
	return append(Eats(b, p), Moves(b, p)...)
}

// HasLegal returns true if the player can eat or move.
func HasLegal(b Board, p Player) bool {
	own := b.Own(p)
	empty := b.Empty()
	for pieces := own; pieces != 0; pieces &= pieces - 1 {
		origin := bits.TrailingZeros64(pieces)
		for _, n := range neighbours {
			if origin+n < Cells && empty&(1<<uint(origin+n)) != 0 {
				return true
			}
			if origin-n >= 0 && empty&(1<<uint(origin-n)) != 0 {
				return true
			}
		}
	}
	return len(Eats(b, p)) > 0
}
