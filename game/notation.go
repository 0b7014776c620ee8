package game

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

func colLetter(col int) byte { return byte(col - 1 + 'a') }

// CellString writes a cell as its row digit followed by its column letter, e.g. "3b".
func CellString(cell int) string {
	return string([]byte{byte('0' + cell/Width), colLetter(cell % Width)})
}

// ParseCell parses a cell written as a row digit and a column letter.
func ParseCell(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 2 {
		return -1, errors.Errorf("cannot parse cell %q", s)
	}
	row := int(s[0] - '0')
	col := int(strings.ToLower(s[1:])[0]-'a') + 1
	if row < 0 || row >= Width || col < 0 || col >= Width {
		return -1, errors.Errorf("cell %q is off the board", s)
	}
	cell := row*Width + col
	if Border&(1<<uint(cell)) != 0 {
		return -1, errors.Errorf("cell %q is not playable", s)
	}
	return cell, nil
}

// ParseAction parses "eat 3b 4c", "move 3b 4c" or "pass". When the kind is omitted ("3b 4c")
// the action is an eat if dest holds a piece of the player's opponent.
func ParseAction(s string, b Board, p Player) (Action, error) {
	fields := strings.Fields(strings.ToLower(s))
	if len(fields) == 1 && fields[0] == "pass" {
		return Action{}, nil
	}

	var kind Kind
	switch len(fields) {
	case 3:
		switch fields[0] {
		case "eat":
			kind = Eat
		case "move":
			kind = Move
		default:
			return Action{}, errors.Errorf("unknown action kind %q", fields[0])
		}
		fields = fields[1:]
	case 2:
	default:
		return Action{}, errors.Errorf("cannot parse action %q", s)
	}

	origin, err := ParseCell(fields[0])
	if err != nil {
		return Action{}, errors.WithMessage(err, "bad origin")
	}
	dest, err := ParseCell(fields[1])
	if err != nil {
		return Action{}, errors.WithMessage(err, "bad destination")
	}
	if kind == Pass {
		kind = Move
		if b.Opp(p)&(1<<uint(dest)) != 0 {
			kind = Eat
		}
	}
	return NewAction(kind, origin, dest), nil
}

// ParsePlayer parses "black", "white" or their first letters.
func ParsePlayer(s string) (Player, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "b", "black":
		return Player(Black), nil
	case "w", "white":
		return Player(White), nil
	}
	return Player(None), errors.Errorf("cannot parse player %q", s)
}

// ParseMask parses a bitboard written in hexadecimal, with or without the 0x prefix.
func ParseMask(s string) (uint64, error) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	m, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "cannot parse mask %q", s)
	}
	return m, nil
}

// ParseBoard builds a position from the hexadecimal masks of the black and white pieces. An
// empty mask keeps that colour as in the starting position.
func ParseBoard(black, white string) (Board, error) {
	b := NewBoard()
	for i, s := range [2]string{black, white} {
		if strings.TrimSpace(s) == "" {
			continue
		}
		m, err := ParseMask(s)
		if err != nil {
			return Board{}, errors.WithMessagef(err, "%v pieces", Black+Colour(i))
		}
		b.Pieces[i] = m
	}
	if err := b.Validate(); err != nil {
		return Board{}, err
	}
	return b, nil
}
