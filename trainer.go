package surakarta

import (
	"context"
	"fmt"

	"github.com/gorgonia/surakarta/ntuple"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// Trainer is the top level structure of self-play training. Two training agents share the
// pattern network and learn from the games they play against each other. After every epoch the
// network is measured against a baseline.
type Trainer struct {
	Config
	Net   *ntuple.Network
	Stats *Statistics

	arena        *Arena
	black, white *TrainingAgent
	epoch        int
}

// New creates a Trainer with a fresh network. It panics when the config is not valid.
func New(conf Config) *Trainer {
	if !conf.IsValid() {
		panic("Config is not valid. Unable to proceed")
	}
	net := ntuple.New(conf.NTupleConf)
	if err := net.Init(); err != nil {
		panic(fmt.Sprintf("%+v", err))
	}

	bconf, wconf := conf.MCTSConf, conf.MCTSConf
	bconf.Seed = conf.Seed
	wconf.Seed = conf.Seed + 1
	black := NewTrainingAgent("Black", bconf, net)
	white := NewTrainingAgent("White", wconf, net)
	return &Trainer{
		Config: conf,
		Net:    net,
		Stats:  NewStatistics(conf.Block, 10*conf.Block),
		arena:  NewArena(black, white, conf.MaxPlies, conf.Name),
		black:  black,
		white:  white,
	}
}

// SelfPlay plays one training episode. The agents train the network when it closes.
func (t *Trainer) SelfPlay(enc OutputEncoder) (Result, error) {
	r, err := t.arena.Play(enc)
	if err != nil {
		return r, err
	}
	if t.Stats.Add(r) {
		log.Info().Msgf("self play\n%v", t.Stats.Summary(t.Block))
	}
	if t.Recorder != nil {
		if err = t.Recorder.Record(r); err != nil {
			return r, errors.WithMessage(err, "unable to record self play game")
		}
	}
	return r, nil
}

// Learn trains for a number of epochs of self-play episodes. After every epoch evalGames
// games are played against the baseline.
func (t *Trainer) Learn(ctx context.Context, epochs, episodes, evalGames int) error {
	for t.epoch = 0; t.epoch < epochs; t.epoch++ {
		log.Info().Msgf("Self Play for epoch %d", t.epoch)
		for e := 0; e < episodes; e++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			t.arena.SetEpoch(t.epoch, e)
			var enc OutputEncoder
			if e == episodes-1 {
				// the last game of the epoch is worth watching
				enc = t.OutputEncoder
			}
			if _, err := t.SelfPlay(enc); err != nil {
				return errors.WithMessagef(err, "epoch %d episode %d", t.epoch, e)
			}
		}
		if t.OutputEncoder != nil {
			if err := t.OutputEncoder.Flush(); err != nil {
				log.Error().Err(err).Msg("unable to flush output")
			}
		}
		log.Info().Msgf("epoch %d: %d pattern pages allocated", t.epoch, t.Net.Allocated())

		if evalGames > 0 {
			standing, err := t.Evaluate(ctx, evalGames)
			if err != nil {
				return err
			}
			log.Info().Msgf("epoch %d: MCTS won %d, %v won %d, %d draws (%.1f %%)", t.epoch, standing.AWins, t.Baseline, standing.BWins, standing.Draws, standing.AWinRate())
		}

		if t.SaveEvery > 0 && (t.epoch+1)%t.SaveEvery == 0 {
			if err := t.Save(); err != nil {
				return err
			}
		}
	}
	return t.Save()
}

// Evaluate plays games between a searching agent using the network and the baseline.
// The network is only read during evaluation.
func (t *Trainer) Evaluate(ctx context.Context, games int) (Standing, error) {
	conf := t.MCTSConf
	conf.Training = false
	net := t.Net
	tour := &Tournament{
		Name:      fmt.Sprintf("%v evaluation %d", t.Name, t.epoch),
		Games:     games,
		Workers:   t.Workers,
		MaxPlies:  t.MaxPlies,
		Seed:      t.Seed + uint64(t.epoch+1)*1000003,
		Alternate: true,
		A: func(seed uint64) Agent {
			c := conf
			c.Seed = seed
			return NewMCTSAgent("MCTS", c, net)
		},
		B: Baseline(t.Baseline, net),
	}
	standing, _, err := tour.Run(ctx)
	return standing, err
}

// Baseline returns the factory of a baseline agent: "greedy" plays by pattern value, anything
// else captures at random.
func Baseline(name string, net *ntuple.Network) AgentFactory {
	if name == "greedy" {
		return func(seed uint64) Agent { return NewGreedyAgent("Greedy", net, seed) }
	}
	return func(seed uint64) Agent { return NewRandomAgent("Random", seed) }
}

// Save saves the weights into the weight file, if there is one.
func (t *Trainer) Save() error {
	if t.WeightFile == "" {
		return nil
	}
	if err := t.Net.SaveFile(t.WeightFile); err != nil {
		return errors.WithMessagef(err, "unable to save weights to %v", t.WeightFile)
	}
	log.Info().Msgf("saved weights to %v", t.WeightFile)
	return nil
}

// Load loads the weights from the weight file into a fresh network and trains that one from
// then on. The current network is kept when loading fails.
func (t *Trainer) Load() error {
	net := ntuple.New(t.NTupleConf)
	if err := net.Init(); err != nil {
		return err
	}
	if err := net.LoadFile(t.WeightFile); err != nil {
		return errors.WithMessagef(err, "unable to load weights from %v", t.WeightFile)
	}
	t.SetNetwork(net)
	return nil
}

// SetNetwork replaces the network that the training agents search with and learn into.
func (t *Trainer) SetNetwork(net *ntuple.Network) {
	t.Net = net
	t.black.SetNetwork(net)
	t.white.SetNetwork(net)
}

// Epoch is the current training epoch.
func (t *Trainer) Epoch() int { return t.epoch }

// Players returns the two training agents.
func (t *Trainer) Players() (black, white *TrainingAgent) { return t.black, t.white }
