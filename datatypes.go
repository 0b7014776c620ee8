package surakarta

import (
	"encoding/json"
	"os"
	"time"

	"github.com/gorgonia/surakarta/game"
	"github.com/gorgonia/surakarta/mcts"
	"github.com/gorgonia/surakarta/ntuple"
	"github.com/pkg/errors"
)

type Config struct {
	Name       string        `json:"name"`
	NTupleConf ntuple.Config `json:"ntuple"`
	MCTSConf   mcts.Config   `json:"mcts"`
	MaxPlies   int           `json:"max_plies"` // game length cap

	Epochs    int `json:"epochs"`
	Episodes  int `json:"episodes"`   // self-play games per epoch
	EvalGames int `json:"eval_games"` // evaluation games against the baseline after every epoch
	Workers   int `json:"workers"`    // concurrent evaluation games
	Block     int `json:"block"`      // statistics are shown every Block games
	SaveEvery int `json:"save_every"` // save the weights every SaveEvery epochs. 0 saves only at the end

	// Baseline is the opponent of the evaluation games: "random" or "greedy".
	Baseline string `json:"baseline"`

	WeightFile string `json:"weight_file"`
	Seed       uint64 `json:"seed"`

	// extensions
	OutputEncoder OutputEncoder `json:"-"`
	Recorder      Recorder      `json:"-"`
}

func DefaultConfig() Config {
	return Config{
		Name:       "Surakarta",
		NTupleConf: ntuple.DefaultConf(),
		MCTSConf:   mcts.DefaultConfig(),
		MaxPlies:   game.DefaultMaxPlies,
		Epochs:     10,
		Episodes:   100,
		EvalGames:  20,
		Workers:    4,
		Block:      50,
		Baseline:   "random",
		Seed:       1337,
	}
}

func (c Config) IsValid() bool {
	return c.NTupleConf.IsValid() &&
		c.MCTSConf.IsValid() &&
		c.MaxPlies > 0 &&
		c.Epochs >= 0 &&
		c.Episodes >= 0 &&
		c.EvalGames >= 0 &&
		c.Workers > 0 &&
		c.Block > 0 &&
		c.SaveEvery >= 0 &&
		(c.Baseline == "random" || c.Baseline == "greedy")
}

// LoadConfig reads a JSON config file. Fields absent from the file keep their default values.
func LoadConfig(filename string) (Config, error) {
	conf := DefaultConfig()
	data, err := os.ReadFile(filename)
	if err != nil {
		return conf, errors.WithStack(err)
	}
	if err = json.Unmarshal(data, &conf); err != nil {
		return conf, errors.Wrapf(err, "parsing %v", filename)
	}
	if !conf.IsValid() {
		return conf, errors.Errorf("%v does not hold a valid config", filename)
	}
	return conf, nil
}

// OutputEncoder encodes the entire meta state as whatever.
//
// An example OutputEncoder is the GifEncoder. Another example would be a logger.
type OutputEncoder interface {
	Encode(ms game.MetaState) error
	Flush() error
}

// Recorder stores finished games.
type Recorder interface {
	Record(r Result) error
}

// Result is the outcome of one game.
type Result struct {
	ID         string
	Name       string // the arena's name
	Epoch      int
	GameNumber int
	Black      string // agent names
	White      string

	Winner   game.Player
	Label    float32 // +1 black win, -1 white win, 0 draw
	Material int     // black pieces minus white pieces

	Plies     int
	Steps     [2]int           // actions taken by black and white
	Durations [2]time.Duration // thinking time of black and white
	Start     time.Time
	End       time.Time
	Moves     []game.PlayerMove
}

// Duration is the wall clock duration of the game.
func (r Result) Duration() time.Duration { return r.End.Sub(r.Start) }

// slot is the index of a player in the per player arrays.
func slot(p game.Player) int {
	if p == game.Player(game.White) {
		return 1
	}
	return 0
}

func label(winner game.Player) float32 {
	switch winner {
	case game.Player(game.Black):
		return 1
	case game.Player(game.White):
		return -1
	}
	return 0
}
