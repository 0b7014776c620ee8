package mcts_test

import (
	"fmt"

	"github.com/gorgonia/surakarta/game"
	"github.com/gorgonia/surakarta/mcts"
)

type materialNN struct{}

func (materialNN) Evaluate(b game.Board, p game.Player) float32 {
	return float32(b.Material(p)) / 12
}

func Example() {
	var b game.Board
	b.Set(18, game.Black)
	b.Set(42, game.White)
	g := game.NewFromBoard(b, mcts.Black)

	conf := mcts.DefaultConfig()
	conf.Budget = 300
	t := mcts.New(conf, materialNN{})

	best, err := t.Search(g)
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Println(best)

	if err = g.Apply(game.PlayerMove{Player: mcts.Black, Action: best}); err != nil {
		fmt.Println(err)
		return
	}
	ended, winner := g.Ended()
	fmt.Printf("Ended: %v. Winner: %v\n", ended, winner)

	_, err = t.Search(g)
	fmt.Println(err)

	// Output:
	// eat 2b 5b
	// Ended: true. Winner: Black
	// no legal move
}
