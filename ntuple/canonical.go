package ntuple

import (
	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
)

const flipBit = 0x10

// head is how a corner signature folds onto its class: op moves the corners onto the class
// pattern, the low nibble of class is the class (0x0 to 0xC) and the flip bit marks signatures
// whose weight is stored negated.
type head struct {
	class uint8
	op    game.SymmetryOp
}

// heads maps every reachable corner signature to its class. The same folding serves all three
// rings, the corners of each ring being laid out alike around the centre.
//
// Class patterns, corners written in slot order (0 empty, 1 own, 2 opponent):
//
//	0 0000  1 1000  2 1100  3 1010  4 1200  5 1020  6 1110
//	7 1120  8 1210  9 1111  A 1112  B 1122  C 1212
var heads = [256]head{
	0x00: {0x00, game.Identity},
	0x01: {0x01, game.Rotate1}, 0x02: {0x11, game.Rotate1}, 0x04: {0x01, game.Rotate2}, 0x08: {0x11, game.Rotate2}, 0x10: {0x01, game.Rotate3}, 0x20: {0x11, game.Rotate3}, 0x40: {0x01, game.Identity}, 0x80: {0x11, game.Identity},
	0x05: {0x02, game.Rotate2}, 0x0A: {0x12, game.Rotate2}, 0x14: {0x02, game.Rotate3}, 0x28: {0x12, game.Rotate3}, 0x41: {0x02, game.Rotate1}, 0x50: {0x02, game.Identity}, 0x82: {0x12, game.Rotate1}, 0xA0: {0x12, game.Identity},
	0x11: {0x03, game.Rotate1}, 0x22: {0x13, game.Rotate1}, 0x44: {0x03, game.Identity}, 0x88: {0x13, game.Identity},
	0x06: {0x04, game.Rotate2}, 0x09: {0x14, game.Rotate2}, 0x18: {0x04, game.Rotate3}, 0x24: {0x14, game.Rotate3}, 0x42: {0x14, game.Rotate1}, 0x60: {0x04, game.Identity}, 0x81: {0x04, game.Rotate1}, 0x90: {0x14, game.Identity},
	0x12: {0x05, game.Rotate3}, 0x21: {0x05, game.Rotate1}, 0x48: {0x05, game.Identity}, 0x84: {0x05, game.Rotate2},
	0x15: {0x06, game.Rotate3}, 0x2A: {0x16, game.Rotate3}, 0x45: {0x06, game.Rotate2}, 0x51: {0x06, game.Rotate1}, 0x54: {0x06, game.Identity}, 0x8A: {0x16, game.Rotate2}, 0xA2: {0x16, game.Rotate1}, 0xA8: {0x16, game.Identity},
	0x16: {0x07, game.Rotate3}, 0x1A: {0x17, game.RotateTranspose1}, 0x25: {0x07, game.RotateTranspose1}, 0x29: {0x17, game.Rotate3}, 0x49: {0x07, game.Transposed}, 0x4A: {0x17, game.Rotate2}, 0x52: {0x07, game.RotateTranspose3}, 0x58: {0x07, game.Identity}, 0x61: {0x07, game.Rotate1}, 0x68: {0x17, game.RotateTranspose2}, 0x85: {0x07, game.Rotate2}, 0x86: {0x17, game.Transposed}, 0x92: {0x17, game.Rotate1}, 0x94: {0x07, game.RotateTranspose2}, 0xA1: {0x17, game.RotateTranspose3}, 0xA4: {0x17, game.Identity},
	0x19: {0x08, game.Rotate3}, 0x26: {0x18, game.Rotate3}, 0x46: {0x08, game.Rotate2}, 0x62: {0x18, game.Rotate1}, 0x64: {0x08, game.Identity}, 0x89: {0x18, game.Rotate2}, 0x91: {0x08, game.Rotate1}, 0x98: {0x18, game.Identity},
	0x55: {0x09, game.Identity}, 0xAA: {0x19, game.Identity},
	0x56: {0x0A, game.Identity}, 0x59: {0x0A, game.Rotate1}, 0x65: {0x0A, game.Rotate2}, 0x6A: {0x1A, game.Rotate3}, 0x95: {0x0A, game.Rotate3}, 0x9A: {0x1A, game.Rotate2}, 0xA6: {0x1A, game.Rotate1}, 0xA9: {0x1A, game.Identity},
	0x5A: {0x0B, game.Identity}, 0x69: {0x0B, game.Rotate1}, 0x96: {0x0B, game.Rotate3}, 0xA5: {0x0B, game.Rotate2},
	0x66: {0x0C, game.Identity}, 0x99: {0x1C, game.Identity},
}

// reachable returns true if no corner of the signature is both own and opponent.
func reachable(sig uint8) bool {
	for i := 0; i < 4; i++ {
		if sig>>(2*i)&3 == 3 {
			return false
		}
	}
	return true
}

// checkHeads makes sure every occupied reachable signature has a class.
func checkHeads() error {
	for s := 1; s < 256; s++ {
		sig := uint8(s)
		if reachable(sig) && heads[sig].class == 0 {
			return errors.Errorf("corner signature %#02x has no class", sig)
		}
	}
	return nil
}

// boardOf places the corners of a signature on an otherwise empty board.
func boardOf(sig uint8, r Ring) game.Board {
	var b game.Board
	for i, c := range corners[r] {
		switch sig >> (6 - 2*uint(i)) & 3 {
		case 1:
			b.Pieces[0] |= 1 << uint(c)
		case 2:
			b.Pieces[1] |= 1 << uint(c)
		}
	}
	return b
}
