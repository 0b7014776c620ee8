package game

import (
	"fmt"
	"sync"

	"github.com/pkg/errors"
)

// DefaultMaxPlies is the number of plies after which a game is decided on material.
const DefaultMaxPlies = 200

var _ State = &Game{}

type snapshot struct {
	board  Board
	toMove Player
	passes int
	move   PlayerMove
}

// Game is a game of Surakarta: a board, the player to move and the history of the game.
//
// Rules beyond the board mechanics:
//   - a player without any legal action loses;
//   - passing is always legal, two passes in a row end the game;
//   - a game that reaches its ply limit is decided on material, equal material is a draw.
type Game struct {
	sync.Mutex
	board      Board
	nextToMove Player
	passes     int
	maxPlies   int

	history []snapshot
	seen    map[Zobrist]int
}

// New creates a game from the standard starting position, black to move.
func New() *Game { return NewFromBoard(NewBoard(), Player(Black)) }

// NewFromBoard creates a game from an arbitrary position.
func NewFromBoard(b Board, toMove Player) *Game {
	g := &Game{
		board:      b,
		nextToMove: toMove,
		maxPlies:   DefaultMaxPlies,
		history:    make([]snapshot, 0, DefaultMaxPlies),
		seen:       make(map[Zobrist]int),
	}
	g.seen[g.Hash()]++
	return g
}

// SetMaxPlies sets the ply limit. Values below 1 disable the limit.
func (g *Game) SetMaxPlies(n int) { g.maxPlies = n }

func (g *Game) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "%v\nTo move: %v", g.board, g.nextToMove)
}

func (g *Game) Board() Board              { return g.board }
func (g *Game) Hash() Zobrist             { return Hash(g.board, g.nextToMove) }
func (g *Game) SetToMove(p Player)        { g.Lock(); g.nextToMove = p; g.Unlock() }
func (g *Game) ToMove() Player            { return g.nextToMove }
func (g *Game) Passes() int               { return g.passes }
func (g *Game) MoveNumber() int           { return len(g.history) }
func (g *Game) Repetitions(h Zobrist) int { return g.seen[h] }

func (g *Game) LastMove() PlayerMove {
	if len(g.history) == 0 {
		return PlayerMove{Player: Player(None)}
	}
	return g.history[len(g.history)-1].move
}

// Legal returns the actions available to the player to move. A finished board has none.
func (g *Game) Legal() []Action {
	if g.board.GameOver() {
		return nil
	}
	return Legal(g.board, g.nextToMove)
}

// Check returns true if the action is legal for the player to move.
func (g *Game) Check(m PlayerMove) bool {
	if m.Player != g.nextToMove {
		return false
	}
	if m.Action.IsPass() {
		return true
	}
	if g.board.GameOver() {
		return false
	}
	var candidates []Action
	switch m.Kind {
	case Eat:
		candidates = Eats(g.board, m.Player)
	case Move:
		candidates = Moves(g.board, m.Player)
	}
	for _, a := range candidates {
		if a == m.Action {
			return true
		}
	}
	return false
}

// Apply plays the move. Illegal moves leave the game unchanged and return an error.
func (g *Game) Apply(m PlayerMove) error {
	if !g.Check(m) {
		return errors.WithStack(moveError(m))
	}
	g.Lock()
	g.history = append(g.history, snapshot{
		board:  g.board,
		toMove: g.nextToMove,
		passes: g.passes,
		move:   m,
	})
	if m.Action.IsPass() {
		g.passes++
	} else {
		g.passes = 0
		g.board.Apply(m.Action)
	}
	g.nextToMove = m.Player.Opponent()
	g.seen[g.Hash()]++
	g.Unlock()
	return nil
}

// Score returns the number of pieces the player has left.
func (g *Game) Score(p Player) float32 { return float32(g.board.Count(p)) }

// Ended checks if the game has ended. If it has, who is the winner? A draw has no winner.
func (g *Game) Ended() (ended bool, winner Player) {
	switch {
	case g.board.Pieces[0] == 0 && g.board.Pieces[1] == 0:
		return true, Player(None)
	case g.board.Pieces[0] == 0:
		return true, Player(White)
	case g.board.Pieces[1] == 0:
		return true, Player(Black)
	case !HasLegal(g.board, g.nextToMove):
		return true, g.nextToMove.Opponent()
	case g.passes >= 2, g.maxPlies > 0 && len(g.history) >= g.maxPlies:
		return true, g.materialWinner()
	}
	return false, Player(None)
}

func (g *Game) materialWinner() Player {
	switch d := g.board.Material(Player(Black)); {
	case d > 0:
		return Player(Black)
	case d < 0:
		return Player(White)
	}
	return Player(None)
}

func (g *Game) Reset() { g.SetPosition(NewBoard(), Player(Black)) }

// SetPosition restarts the game from b with toMove to play.
func (g *Game) SetPosition(b Board, toMove Player) {
	g.Lock()
	g.board = b
	g.nextToMove = toMove
	g.passes = 0
	g.history = g.history[:0]
	g.seen = make(map[Zobrist]int)
	g.seen[g.Hash()]++
	g.Unlock()
}

func (g *Game) UndoLastMove() {
	if len(g.history) == 0 {
		return
	}
	g.Lock()
	h := g.Hash()
	if g.seen[h]--; g.seen[h] <= 0 {
		delete(g.seen, h)
	}
	last := g.history[len(g.history)-1]
	g.history = g.history[:len(g.history)-1]
	g.board = last.board
	g.nextToMove = last.toMove
	g.passes = last.passes
	g.Unlock()
}

func (g *Game) Eq(other State) bool {
	ot, ok := other.(*Game)
	if !ok {
		return false
	}
	return g.board == ot.board && g.nextToMove == ot.nextToMove
}

func (g *Game) Clone() State {
	g.Lock()
	retVal := &Game{
		board:      g.board,
		nextToMove: g.nextToMove,
		passes:     g.passes,
		maxPlies:   g.maxPlies,
		history:    make([]snapshot, len(g.history), cap(g.history)),
		seen:       make(map[Zobrist]int, len(g.seen)),
	}
	copy(retVal.history, g.history)
	for k, v := range g.seen {
		retVal.seen[k] = v
	}
	g.Unlock()
	return retVal
}
