package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/gorgonia/surakarta"
	"github.com/gorgonia/surakarta/encoding/gif"
	"github.com/gorgonia/surakarta/game"
	"github.com/gorgonia/surakarta/ntuple"
	"github.com/gorgonia/surakarta/shell"
	"github.com/gorgonia/surakarta/store"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const version = "0.1"

var (
	mode     = flag.String("mode", "train", "train, match, play or shell")
	confFile = flag.String("config", "", "JSON config file. Defaults are used for absent fields")
	weights  = flag.String("weights", "", "weight file")
	dbPath   = flag.String("db", "", "sqlite database the games are recorded into")
	gifOut   = flag.String("gif", "", "gif file pattern for the last game of every epoch, e.g. epoch%03d.gif")
	wsAddr   = flag.String("ws", "", "address of the websocket spectator server, e.g. :8080")
	csvOut   = flag.String("csv", "", "CSV file for the self play statistics")
	games    = flag.Int("games", 100, "games in match mode")
	opponent = flag.String("opponent", "random", "baseline in match mode: random or greedy")
	budget   = flag.Int("budget", 0, "search iterations per move. 0 keeps the configured budget")
	colour   = flag.String("colour", "black", "colour of the human in play mode")
	blackArg = flag.String("black", "", "hex mask of the black pieces to start play and shell from. Empty keeps the opening")
	whiteArg = flag.String("white", "", "hex mask of the white pieces to start play and shell from. Empty keeps the opening")
	firstArg = flag.String("first", "black", "colour moving first in play and shell mode")
	verbose  = flag.Bool("v", false, "debug logging")
)

func main() {
	flag.Parse()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	conf := surakarta.DefaultConfig()
	if *confFile != "" {
		var err error
		if conf, err = surakarta.LoadConfig(*confFile); err != nil {
			log.Fatal().Err(err).Msg("unable to load config")
		}
	}
	if *weights != "" {
		conf.WeightFile = *weights
	}
	if *budget > 0 {
		conf.MCTSConf.Budget = *budget
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	var err error
	switch *mode {
	case "train":
		err = train(ctx, conf)
	case "match":
		err = match(ctx, conf)
	case "play":
		err = play(conf)
	case "shell":
		err = runShell(conf)
	default:
		err = errors.Errorf("unknown mode %q", *mode)
	}
	if err != nil {
		log.Fatal().Err(err).Msgf("%v failed", *mode)
	}
}

func exists(filename string) bool {
	_, err := os.Stat(filename)
	return err == nil
}

func train(ctx context.Context, conf surakarta.Config) error {
	var encs encoders
	if *gifOut != "" {
		encs = append(encs, gif.NewFileEncoder(*gifOut, 40))
	}
	if *wsAddr != "" {
		enc := NewEncoder()
		serve(enc)
		encs = append(encs, enc)
	}
	if len(encs) > 0 {
		conf.OutputEncoder = encs
	}
	if *dbPath != "" {
		st, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		conf.Recorder = st
	}

	t := surakarta.New(conf)
	if conf.WeightFile != "" && exists(conf.WeightFile) {
		if err := t.Load(); err != nil {
			return err
		}
		log.Info().Msgf("resuming from %v", conf.WeightFile)
	}
	err := t.Learn(ctx, conf.Epochs, conf.Episodes, conf.EvalGames)
	if *csvOut != "" {
		if derr := t.Stats.Dump(*csvOut); derr != nil {
			log.Error().Err(derr).Msg("unable to dump statistics")
		}
	}
	return err
}

func serve(enc *Encoder) {
	mux := http.NewServeMux()
	mux.Handle("/ws", enc)
	go func() {
		log.Info().Msgf("spectators at ws://%v/ws", *wsAddr)
		if err := http.ListenAndServe(*wsAddr, mux); err != nil {
			log.Error().Err(err).Msg("spectator server stopped")
		}
	}()
}

// network loads the weight file when there is one.
func network(conf surakarta.Config) (*ntuple.Network, error) {
	net := ntuple.New(conf.NTupleConf)
	if err := net.Init(); err != nil {
		return nil, err
	}
	if conf.WeightFile == "" {
		log.Warn().Msg("no weight file given, playing with an untrained network")
		return net, nil
	}
	if err := net.LoadFile(conf.WeightFile); err != nil {
		return nil, errors.WithMessagef(err, "unable to load weights from %v", conf.WeightFile)
	}
	return net, nil
}

func match(ctx context.Context, conf surakarta.Config) error {
	net, err := network(conf)
	if err != nil {
		return err
	}
	tour := &surakarta.Tournament{
		Name:      "match",
		Games:     *games,
		Workers:   conf.Workers,
		MaxPlies:  conf.MaxPlies,
		Seed:      conf.Seed,
		Alternate: true,
		Stats:     surakarta.NewStatistics(conf.Block, *games),
		A: func(seed uint64) surakarta.Agent {
			c := conf.MCTSConf
			c.Seed = seed
			return surakarta.NewMCTSAgent("MCTS", c, net)
		},
		B: surakarta.Baseline(*opponent, net),
	}
	if *dbPath != "" {
		st, err := store.Open(*dbPath)
		if err != nil {
			return err
		}
		defer st.Close()
		tour.Recorder = st
	}
	standing, _, err := tour.Run(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("%v", tour.Stats.Summary(0))
	fmt.Printf("MCTS %d, %v %d, draws %d: %.1f %%\n", standing.AWins, *opponent, standing.BWins, standing.Draws, standing.AWinRate())
	if *csvOut != "" {
		return tour.Stats.Dump(*csvOut)
	}
	return nil
}

// startGame creates the game from the piece masks and the colour moving first.
func startGame(black, white, first string) (*game.Game, error) {
	b, err := game.ParseBoard(black, white)
	if err != nil {
		return nil, errors.WithMessage(err, "bad starting position")
	}
	p, err := game.ParsePlayer(first)
	if err != nil {
		return nil, err
	}
	return game.NewFromBoard(b, p), nil
}

func engine(conf surakarta.Config) (*shell.Engine, error) {
	g, err := startGame(*blackArg, *whiteArg, *firstArg)
	if err != nil {
		return nil, err
	}
	net, err := network(conf)
	if err != nil {
		return nil, err
	}
	g.SetMaxPlies(conf.MaxPlies)
	agent := surakarta.NewMCTSAgent("MCTS", conf.MCTSConf, net)
	e := shell.New(g, "surakarta", version, nil)
	e.Generate = agent.TakeAction
	e.Evaluate = net.Evaluate
	return e, nil
}

func runShell(conf surakarta.Config) error {
	e, err := engine(conf)
	if err != nil {
		return err
	}
	return e.Run(os.Stdin, os.Stdout)
}

// play is the shell with the engine answering every move of the human.
func play(conf surakarta.Config) error {
	e, err := engine(conf)
	if err != nil {
		return err
	}
	human, err := game.ParsePlayer(*colour)
	if err != nil {
		return err
	}
	show := func() {
		resp, _ := e.Exec("showboard")
		fmt.Print(resp)
	}
	reply := func() {
		for ended, _ := e.State().Ended(); !ended && e.State().ToMove() != human; ended, _ = e.State().Ended() {
			resp, _ := e.Exec("genmove")
			fmt.Print(resp)
		}
		show()
		if ended, winner := e.State().Ended(); ended {
			fmt.Printf("Game over. Winner: %v\n", winner)
		}
	}

	fmt.Println(`Enter actions as "3b 4c", or any shell command. "quit" leaves.`)
	reply()
	s := bufio.NewScanner(os.Stdin)
	for s.Scan() {
		line := strings.TrimSpace(s.Text())
		cmd := line
		if _, err := game.ParseAction(line, e.State().Board(), human); err == nil {
			cmd = "play " + line
		}
		resp, ok := e.Exec(cmd)
		if !ok {
			continue
		}
		fmt.Print(resp)
		if e.Quitted() {
			return nil
		}
		if strings.HasPrefix(cmd, "play") && strings.HasPrefix(resp, "=") {
			reply()
		}
	}
	return errors.WithStack(s.Err())
}
