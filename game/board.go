package game

import (
	"fmt"
	"math/bits"

	"github.com/pkg/errors"
)

const (
	// Border is the ring of cells that never hold a piece.
	Border uint64 = 0xFF818181818181FF

	initialBlack uint64 = 0x00000000007E7E00
	initialWhite uint64 = 0x007E7E0000000000

	// Cells is the number of cells in the grid, border included.
	Cells = 64
	Width = 8
)

// Board is the bit encoded position. Pieces[0] holds the black pieces, Pieces[1] the white ones.
//
// Cell i is at row i/8, column i%8. Only the inner 6x6 cells are playable.
type Board struct {
	Pieces [2]uint64
}

// NewBoard returns the standard starting position: black on rows 1 and 2, white on rows 5 and 6.
func NewBoard() Board {
	return Board{Pieces: [2]uint64{initialBlack, initialWhite}}
}

// Own returns the mask of the player's pieces.
func (b Board) Own(p Player) uint64 { return b.Pieces[p.index()] }

// Opp returns the mask of the pieces of the player's opponent.
func (b Board) Opp(p Player) uint64 { return b.Pieces[1-p.index()] }

// Occupied returns the mask of all pieces.
func (b Board) Occupied() uint64 { return b.Pieces[0] | b.Pieces[1] }

// Empty returns the mask of the playable cells that hold no piece.
func (b Board) Empty() uint64 { return ^(b.Pieces[0] | b.Pieces[1] | Border) }

// Count returns the number of pieces the player has.
func (b Board) Count(p Player) int { return bits.OnesCount64(b.Own(p)) }

// At returns the colour of the piece at the cell.
func (b Board) At(cell int) Colour {
	bit := uint64(1) << uint(cell)
	switch {
	case b.Pieces[0]&bit != 0:
		return Black
	case b.Pieces[1]&bit != 0:
		return White
	}
	return None
}

// Set puts a piece of the given colour at the cell. None clears the cell.
func (b *Board) Set(cell int, c Colour) {
	bit := uint64(1) << uint(cell)
	b.Pieces[0] &^= bit
	b.Pieces[1] &^= bit
	switch c {
	case Black:
		b.Pieces[0] |= bit
	case White:
		b.Pieces[1] |= bit
	}
}

// Eat moves whatever is at origin onto dest, removing what dest held. It does not check validity.
func (b *Board) Eat(origin, dest int) {
	o := uint64(1) << uint(origin)
	d := uint64(1) << uint(dest)
	for i := range b.Pieces {
		held := b.Pieces[i]&o != 0
		b.Pieces[i] &^= d | o
		if held {
			b.Pieces[i] |= d
		}
	}
}

// Move relocates the piece at origin into the empty cell dest. It does not check validity.
func (b *Board) Move(origin, dest int) {
	o := uint64(1) << uint(origin)
	d := uint64(1) << uint(dest)
	for i := range b.Pieces {
		if b.Pieces[i]&o != 0 {
			b.Pieces[i] = b.Pieces[i]&^o | d
		}
	}
}

// Apply plays the action on the board. Passes leave the board untouched.
func (b *Board) Apply(a Action) {
	switch a.Kind {
	case Eat:
		b.Eat(a.Origin(), a.Dest())
	case Move:
		b.Move(a.Origin(), a.Dest())
	}
}

// Validate checks that no cell holds two pieces and that no piece stands on the border.
func (b Board) Validate() error {
	if both := b.Pieces[0] & b.Pieces[1]; both != 0 {
		return errors.Errorf("cells %#016x hold a black and a white piece", both)
	}
	if out := b.Occupied() & Border; out != 0 {
		return errors.Errorf("pieces %#016x stand on the border", out)
	}
	return nil
}

// GameOver returns true when either side has no pieces left.
func (b Board) GameOver() bool { return b.Pieces[0] == 0 || b.Pieces[1] == 0 }

// Perspective returns the board with the player's pieces in Pieces[0].
func (b Board) Perspective(p Player) Board {
	if p.index() == 0 {
		return b
	}
	return b.Swap()
}

// Swap exchanges the colours of all pieces.
func (b Board) Swap() Board { return Board{Pieces: [2]uint64{b.Pieces[1], b.Pieces[0]}} }

// Material returns the piece count difference from the player's point of view.
func (b Board) Material(p Player) int { return b.Count(p) - b.Count(p.Opponent()) }

func (b Board) Format(s fmt.State, c rune) {
	fmt.Fprint(s, "  ")
	for col := 1; col < Width-1; col++ {
		fmt.Fprintf(s, " %c", colLetter(col))
	}
	fmt.Fprintln(s)
	for row := 1; row < Width-1; row++ {
		fmt.Fprintf(s, "%d ⎢", row)
		for col := 1; col < Width-1; col++ {
			fmt.Fprintf(s, "%s ", b.At(row*Width+col))
		}
		fmt.Fprint(s, "⎥")
		if row < Width-2 {
			fmt.Fprintln(s)
		}
	}
}
