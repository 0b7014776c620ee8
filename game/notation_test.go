package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCellNotation(t *testing.T) {
	assert := assert.New(t)
	assert.Equal("3b", CellString(26))
	assert.Equal("1a", CellString(9))
	assert.Equal("6f", CellString(54))

	for cell := 0; cell < Cells; cell++ {
		if Border&(1<<uint(cell)) != 0 {
			continue
		}
		parsed, err := ParseCell(CellString(cell))
		if assert.NoError(err) {
			assert.Equal(cell, parsed)
		}
	}

	for _, bad := range []string{"", "3", "0a", "3g", "9b", "3bb", "zz"} {
		_, err := ParseCell(bad)
		assert.Error(err, "%q", bad)
	}
}

func TestActionNotation(t *testing.T) {
	assert := assert.New(t)
	b := NewBoard()
	black := Player(Black)

	eat := NewAction(Eat, 18, 42)
	assert.Equal("eat 2b 5b", eat.String())
	assert.Equal(18, eat.Origin())
	assert.Equal(42, eat.Dest())
	assert.Equal(uint16(18|42<<6), eat.Code())
	assert.Equal(eat, ActionFromCode(Eat, eat.Code()))
	assert.Equal("pass", Action{}.String())

	a, err := ParseAction("eat 2b 5b", b, black)
	assert.NoError(err)
	assert.Equal(eat, a)

	a, err = ParseAction("2b 5b", b, black)
	assert.NoError(err)
	assert.Equal(eat, a, "destination holds a white piece")

	a, err = ParseAction("2a 3a", b, black)
	assert.NoError(err)
	assert.Equal(NewAction(Move, 17, 25), a)

	a, err = ParseAction("PASS", b, black)
	assert.NoError(err)
	assert.True(a.IsPass())

	_, err = ParseAction("jump 2a 3a", b, black)
	assert.Error(err)
	_, err = ParseAction("move 2a", b, black)
	assert.Error(err)
	_, err = ParseAction("move 2a 0a", b, black)
	assert.Error(err)
}

func TestBoardNotation(t *testing.T) {
	assert := assert.New(t)

	b, err := ParseBoard("", "")
	assert.NoError(err)
	assert.Equal(NewBoard(), b)

	b, err = ParseBoard("0x7E7E00", "7e7e0000000000")
	assert.NoError(err)
	assert.Equal(NewBoard(), b)

	b, err = ParseBoard("40000", "")
	assert.NoError(err)
	assert.Equal(uint64(1<<18), b.Pieces[0])
	assert.Equal(NewBoard().Pieces[1], b.Pieces[1], "an empty mask keeps the starting pieces")

	for _, bad := range [][2]string{
		{"40000", "40000"},        // same cell
		{"1", "40000000000"},      // on the border
		{"", "7E7E00"},            // white onto the black pieces
		{"xyz", ""},               // not hexadecimal
		{"10000000000000000", ""}, // too wide
	} {
		_, err := ParseBoard(bad[0], bad[1])
		assert.Error(err, "%q", bad)
	}

	for _, s := range []string{"b", "Black", " black "} {
		p, err := ParsePlayer(s)
		assert.NoError(err)
		assert.Equal(Player(Black), p)
	}
	p, err := ParsePlayer("w")
	assert.NoError(err)
	assert.Equal(Player(White), p)
	_, err = ParsePlayer("red")
	assert.Error(err)
}
