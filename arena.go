package surakarta

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

var _ game.MetaState = &Arena{}

// Arena plays games between two agents. Black always moves first.
type Arena struct {
	game         *game.Game
	Black, White Agent

	// only relevant to training
	name       string
	epoch      int // training epoch
	gameNumber int // which game is this in
}

// NewArena makes an arena. maxPlies caps the length of a game.
func NewArena(black, white Agent, maxPlies int, name string) *Arena {
	if name == "" {
		name = "UNKNOWN GAME"
	}
	g := game.New()
	g.SetMaxPlies(maxPlies)
	return &Arena{
		game:  g,
		Black: black,
		White: white,
		name:  name,
	}
}

// Play plays a game from the initial position and returns its result. Every state is passed
// to enc when it is not nil.
func (a *Arena) Play(enc OutputEncoder) (retVal Result, err error) {
	a.game.Reset()
	retVal = Result{
		ID:         uuid.NewString(),
		Name:       a.name,
		Epoch:      a.epoch,
		GameNumber: a.gameNumber,
		Black:      a.Black.Name(),
		White:      a.White.Name(),
		Start:      time.Now(),
	}
	a.Black.OpenEpisode(game.Player(game.Black))
	a.White.OpenEpisode(game.Player(game.White))
	if enc != nil {
		a.encode(enc)
	}

	var ended bool
	var winner game.Player
	for ended, winner = a.game.Ended(); !ended; ended, winner = a.game.Ended() {
		player := a.game.ToMove()
		agent := a.agent(player)

		start := time.Now()
		action := agent.TakeAction(a.game)
		retVal.Durations[slot(player)] += time.Since(start)
		retVal.Steps[slot(player)]++

		move := game.PlayerMove{Player: player, Action: action}
		if err = a.game.Apply(move); err != nil {
			return retVal, errors.WithMessagef(err, "%v played an illegal action", agent.Name())
		}
		retVal.Moves = append(retVal.Moves, move)
		if enc != nil {
			a.encode(enc)
		}
	}

	b := a.game.Board()
	retVal.Winner = winner
	retVal.Label = label(winner)
	retVal.Material = b.Material(game.Player(game.Black))
	retVal.Plies = a.game.MoveNumber()
	retVal.End = time.Now()

	a.Black.CloseEpisode(retVal)
	a.White.CloseEpisode(retVal)
	log.Debug().Msgf("%v game %d: winner %v after %d plies (%d:%d)", a.name, a.gameNumber, winner, retVal.Plies, b.Count(game.Player(game.Black)), b.Count(game.Player(game.White)))
	return retVal, nil
}

func (a *Arena) encode(enc OutputEncoder) {
	if err := enc.Encode(a); err != nil {
		log.Error().Err(err).Msg("unable to encode state")
	}
}

func (a *Arena) agent(p game.Player) Agent {
	if p == game.Player(game.White) {
		return a.White
	}
	return a.Black
}

// SetEpoch sets the epoch and game number reported to output encoders and results.
func (a *Arena) SetEpoch(epoch, gameNumber int) { a.epoch, a.gameNumber = epoch, gameNumber }

func (a *Arena) Epoch() int                  { return a.epoch }
func (a *Arena) GameNumber() int             { return a.gameNumber }
func (a *Arena) Name() string                { return a.name }
func (a *Arena) Score(p game.Player) float64 { return float64(a.game.Score(p)) }
func (a *Arena) State() game.State           { return a.game }
