package game

import (
	"fmt"
)

type Colour int32

const (
	None Colour = iota
	Black
	White
)

func (cl Colour) Format(s fmt.State, c rune) {
	switch c {
	case 'v': // used in debug
		switch cl {
		case None:
			fmt.Fprint(s, "None")
		case Black:
			fmt.Fprint(s, "Black")
		case White:
			fmt.Fprint(s, "White")
		}
	case 's': // used in board rendering
		switch cl {
		case None:
			fmt.Fprint(s, "·")
		case Black:
			fmt.Fprint(s, "X")
		case White:
			fmt.Fprint(s, "O")
		}
	}
}

// Player represents a player. It's also a colour.
type Player Colour

func (p Player) Format(s fmt.State, c rune) { Colour(p).Format(s, c) }

// Opponent returns the other player. None has no opponent.
func (p Player) Opponent() Player {
	switch Colour(p) {
	case Black:
		return Player(White)
	case White:
		return Player(Black)
	}
	return Player(None)
}

// index is the position of the player's mask in Board.Pieces.
func (p Player) index() int {
	if Colour(p) == White {
		return 1
	}
	return 0
}

// PlayerMove is a tuple indicating the player and the action to be made.
type PlayerMove struct {
	Player
	Action
}

// Eq returns true if both are equal
func (p PlayerMove) Eq(other PlayerMove) bool {
	return p.Player == other.Player && p.Action == other.Action
}

func (p PlayerMove) Format(s fmt.State, c rune) { fmt.Fprintf(s, "%v@%v", p.Player, p.Action) }

// Zobrist is a zobrist hash of a position including the side to move.
type Zobrist uint64

// State is any game that implements these and are able to report back
type State interface {
	Board() Board         // returns the board state
	Hash() Zobrist        // returns the hash of the position
	ToMove() Player       // returns the next player to move
	Passes() int          // returns number of consecutive passes
	MoveNumber() int      // returns count of moves so far that led to this point.
	LastMove() PlayerMove // returns the last move that was made

	// Meta-game stuff
	Score(p Player) float32             // number of pieces the player has left
	Ended() (ended bool, winner Player) // has the game ended? if yes, then who's the winner?

	// interactions
	SetToMove(Player)
	Check(m PlayerMove) bool   // check if the action is legal
	Apply(m PlayerMove) error  // the required side effect is the ToMove has to change.
	Legal() []Action           // all legal actions of the player to move, eats first
	Repetitions(h Zobrist) int // how many times the hash has occurred in this game
	Reset()
	SetPosition(b Board, toMove Player) // restart from an arbitrary position
	UndoLastMove()

	// generics
	Eq(other State) bool
	Clone() State
}

// MetaState is the state of a game as seen by the output encoders.
type MetaState interface {
	Name() string // name of the game
	Epoch() int
	GameNumber() int
	Score(a Player) float64
	State() State
}
