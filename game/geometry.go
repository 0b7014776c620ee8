package game

const (
	fLayer uint64 = 0x0055005500550055
	sLayer uint64 = 0x0000333300003333
	tLayer uint64 = 0x000000000F0F0F0F
)

// shuffle permutes the cells of one mask in three layers: the cells of every 2x2 block,
// the 2x2 blocks of every 4x4 block, then the four 4x4 blocks. a and b are the shift
// distances of the first layer; the outer layers scale them by 2 and 4.
func shuffle(x uint64, a, b int) uint64 {
	if b >= 0 {
		x = (x&fLayer)<<uint(a) | (x&(fLayer<<1))<<uint(b) | (x&(fLayer<<8))>>uint(b) | (x&(fLayer<<9))>>uint(a)
		x = (x&sLayer)<<uint(a<<1) | (x&(sLayer<<2))<<uint(b<<1) | (x&(sLayer<<16))>>uint(b<<1) | (x&(sLayer<<18))>>uint(a<<1)
		x = (x&tLayer)<<uint(a<<2) | (x&(tLayer<<4))<<uint(b<<2) | (x&(tLayer<<32))>>uint(b<<2) | (x&(tLayer<<36))>>uint(a<<2)
		return x
	}
	nb := -b
	x = (x&fLayer)<<uint(a) | (x&(fLayer<<1))>>uint(nb) | (x&(fLayer<<8))<<uint(nb) | (x&(fLayer<<9))>>uint(a)
	x = (x&sLayer)<<uint(a<<1) | (x&(sLayer<<2))>>uint(nb<<1) | (x&(sLayer<<16))<<uint(nb<<1) | (x&(sLayer<<18))>>uint(a<<1)
	x = (x&tLayer)<<uint(a<<2) | (x&(tLayer<<4))>>uint(nb<<2) | (x&(tLayer<<32))<<uint(nb<<2) | (x&(tLayer<<36))>>uint(a<<2)
	return x
}

func (b Board) operation(x, y int) Board {
	return Board{Pieces: [2]uint64{shuffle(b.Pieces[0], x, y), shuffle(b.Pieces[1], x, y)}}
}

// Rotate rotates the board by 90°·k clockwise. Cell (r, c) goes to (c, 7-r) for k = 1.
func (b Board) Rotate(k int) Board {
	switch ((k % 4) + 4) % 4 {
	case 1:
		return b.operation(1, 8)
	case 2:
		return b.operation(9, 7)
	case 3:
		return b.operation(8, -1)
	}
	return b
}

// Transpose mirrors the board along the main diagonal. Cell (r, c) goes to (c, r).
func (b Board) Transpose() Board { return b.operation(0, 7) }

// RotateTranspose rotates the board by k quarter turns then transposes it.
func (b Board) RotateTranspose(k int) Board {
	switch ((k % 4) + 4) % 4 {
	case 1:
		return b.operation(8, 8)
	case 2:
		return b.operation(9, 0)
	case 3:
		return b.operation(1, -1)
	}
	return b.operation(0, 7)
}

// SymmetryOp is one element of the symmetry group of the square.
type SymmetryOp uint8

const (
	Identity SymmetryOp = iota
	Rotate1
	Rotate2
	Rotate3
	Transposed
	RotateTranspose1
	RotateTranspose2
	RotateTranspose3

	NumSymmetries = 8
)

// Apply applies the symmetry to the board.
func (op SymmetryOp) Apply(b Board) Board {
	switch op {
	case Rotate1, Rotate2, Rotate3:
		return b.Rotate(int(op - Identity))
	case Transposed:
		return b.Transpose()
	case RotateTranspose1, RotateTranspose2, RotateTranspose3:
		return b.RotateTranspose(int(op - Transposed))
	}
	return b
}

func (op SymmetryOp) String() string {
	switch op {
	case Identity:
		return "identity"
	case Rotate1, Rotate2, Rotate3:
		return "rotate" + string(rune('0'+op-Identity))
	case Transposed:
		return "transpose"
	case RotateTranspose1, RotateTranspose2, RotateTranspose3:
		return "rotate-transpose" + string(rune('0'+op-Transposed))
	}
	return "UNKNOWN SYMMETRY"
}

// Symmetries returns the 8 images of the board, in SymmetryOp order.
func (b Board) Symmetries() [NumSymmetries]Board {
	var retVal [NumSymmetries]Board
	for op := Identity; op < NumSymmetries; op++ {
		retVal[op] = op.Apply(b)
	}
	return retVal
}
