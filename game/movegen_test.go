package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/exp/rand"
)

func board(black, white []int) Board {
	var b Board
	for _, c := range black {
		b.Set(c, Black)
	}
	for _, c := range white {
		b.Set(c, White)
	}
	return b
}

func TestInitialActions(t *testing.T) {
	assert := assert.New(t)
	b := NewBoard()
	black, white := Player(Black), Player(White)

	assert.Len(Moves(b, black), 16)
	assert.Len(Moves(b, white), 16)
	assert.ElementsMatch([]Action{
		NewAction(Eat, 18, 42),
		NewAction(Eat, 19, 43),
		NewAction(Eat, 20, 44),
		NewAction(Eat, 21, 45),
	}, Eats(b, black))
	assert.ElementsMatch([]Action{
		NewAction(Eat, 42, 18),
		NewAction(Eat, 43, 19),
		NewAction(Eat, 44, 20),
		NewAction(Eat, 45, 21),
	}, Eats(b, white))

	legal := Legal(b, black)
	assert.Len(legal, 20)
	for i, a := range legal {
		if i < 4 {
			assert.Equal(Eat, a.Kind, "eats come first")
		} else {
			assert.Equal(Move, a.Kind)
		}
	}
}

func TestEats(t *testing.T) {
	assert := assert.New(t)
	black := Player(Black)
	testCases := []struct {
		name         string
		black, white []int
		expected     []Action
	}{
		{"along a row", []int{17}, []int{22}, []Action{NewAction(Eat, 17, 22)}},
		{"through a corner loop", []int{10}, []int{17}, []Action{NewAction(Eat, 10, 17)}},
		{"nearest piece only", []int{17}, []int{22, 18}, []Action{NewAction(Eat, 17, 18)}},
		{"two attackers", []int{17, 19}, []int{22}, []Action{NewAction(Eat, 17, 22), NewAction(Eat, 19, 22)}},
		{"down a column", []int{18}, []int{42}, []Action{NewAction(Eat, 18, 42)}},
		{"blocked by own piece", []int{17, 18}, []int{22}, []Action{NewAction(Eat, 18, 22)}},
		{"corner cells are off the tracks", []int{9}, []int{54}, nil},
	}
	for _, tc := range testCases {
		b := board(tc.black, tc.white)
		eats := Eats(b, black)
		if tc.expected == nil {
			assert.Empty(eats, tc.name)
			continue
		}
		assert.ElementsMatch(tc.expected, eats, tc.name)
	}
}

func TestActionInvariants(t *testing.T) {
	assert := assert.New(t)
	r := rand.New(rand.NewSource(7))
	for i := 0; i < 300; i++ {
		b := randomBoard(r)
		for _, p := range []Player{Player(Black), Player(White)} {
			seen := make(map[Action]bool)
			for _, a := range Legal(b, p) {
				assert.False(seen[a], "duplicate action %v", a)
				seen[a] = true
				assert.Equal(p, Player(b.At(a.Origin())), "origin of %v", a)
				switch a.Kind {
				case Eat:
					assert.Equal(p.Opponent(), Player(b.At(a.Dest())), "eat destination of %v", a)
				case Move:
					assert.Equal(None, b.At(a.Dest()), "move destination of %v", a)
					assert.Zero(Border&(1<<uint(a.Dest())), "move destination of %v", a)
				default:
					t.Errorf("unexpected kind %v", a.Kind)
				}
			}
		}
	}
}

func TestRandomPlayout(t *testing.T) {
	assert := assert.New(t)
	r := rand.New(rand.NewSource(1337))
	b := NewBoard()
	p := Player(Black)
	for ply := 0; ply < 50 && !b.GameOver(); ply++ {
		legal := Legal(b, p)
		if len(legal) == 0 {
			break
		}
		b.Apply(legal[r.Intn(len(legal))])
		assert.Zero(b.Pieces[0]&b.Pieces[1], "overlap after ply %d", ply)
		assert.Zero(b.Occupied()&Border, "border occupied after ply %d", ply)
		p = p.Opponent()
	}
	if !b.GameOver() {
		assert.NotZero(b.Pieces[0])
		assert.NotZero(b.Pieces[1])
	}
}

func TestHasLegal(t *testing.T) {
	assert := assert.New(t)
	assert.True(HasLegal(NewBoard(), Player(Black)))

	// a black corner piece boxed in by white pieces
	b := board([]int{9}, []int{10, 17, 18})
	assert.Empty(Legal(b, Player(Black)))
	assert.False(HasLegal(b, Player(Black)))
	assert.True(HasLegal(b, Player(White)))
}
