package surakarta

import (
	"context"
	"sync"

	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// Tournament plays a number of games between two agents on several workers. Every game builds
// its own agents from the factories with a distinct seed, so agents never share a search tree or
// a random source. Agents may share a network as long as no one trains it during the tournament.
type Tournament struct {
	Name     string
	A, B     AgentFactory
	Games    int
	Workers  int
	MaxPlies int
	Seed     uint64

	// Alternate swaps colours every other game. Otherwise A always plays black.
	Alternate bool

	Stats    *Statistics
	Recorder Recorder
}

// Standing is the outcome of a tournament from A's side.
type Standing struct {
	Games     int
	AWins     int
	BWins     int
	Draws     int
	BlackWins int
	WhiteWins int
}

// AWinRate is the share of all games won by A.
func (s Standing) AWinRate() float64 { return rate(s.AWins, s.Games) }

// Run plays the tournament. The results are returned in game order.
func (t *Tournament) Run(ctx context.Context) (Standing, []Result, error) {
	workers := t.Workers
	if workers <= 0 {
		workers = 1
	}
	maxPlies := t.MaxPlies
	if maxPlies <= 0 {
		maxPlies = game.DefaultMaxPlies
	}

	results := make([]Result, t.Games)
	var mu sync.Mutex
	var standing Standing

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for i := 0; i < t.Games; i++ {
		i := i
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			seed := t.Seed + uint64(2*i)
			a, b := t.A(seed), t.B(seed+1)
			aIsBlack := !t.Alternate || i%2 == 0
			black, white := a, b
			if !aIsBlack {
				black, white = b, a
			}

			arena := NewArena(black, white, maxPlies, t.Name)
			arena.SetEpoch(0, i)
			r, err := arena.Play(nil)
			if err != nil {
				return errors.WithMessagef(err, "game %d", i)
			}
			results[i] = r
			if t.Stats != nil && t.Stats.Add(r) {
				log.Info().Msgf("%v: %v", t.Name, t.Stats.Summary(t.Stats.Block))
			}
			if t.Recorder != nil {
				if err := t.Recorder.Record(r); err != nil {
					return errors.WithMessagef(err, "recording game %d", i)
				}
			}

			mu.Lock()
			defer mu.Unlock()
			standing.Games++
			switch {
			case r.Winner == game.Player(game.Black):
				standing.BlackWins++
			case r.Winner == game.Player(game.White):
				standing.WhiteWins++
			}
			switch {
			case r.Winner == game.Player(game.None):
				standing.Draws++
			case (r.Winner == game.Player(game.Black)) == aIsBlack:
				standing.AWins++
			default:
				standing.BWins++
			}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return standing, results, err
	}
	log.Info().Msgf("%v: %d games, A won %d, B won %d, %d draws", t.Name, standing.Games, standing.AWins, standing.BWins, standing.Draws)
	return standing, results, nil
}
