package surakarta

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
	"time"

	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
)

// Statistics keeps the results of the last games. Every Block games a summary of the block
// can be shown. Only the last Limit results are kept.
type Statistics struct {
	sync.Mutex
	Block int
	Limit int

	count   int
	results []Result
}

func makeStatistics(block, limit int) Statistics {
	if block <= 0 {
		block = 1
	}
	if limit < block {
		limit = block
	}
	return Statistics{
		Block:   block,
		Limit:   limit,
		results: make([]Result, 0, limit),
	}
}

// NewStatistics creates a Statistics.
func NewStatistics(block, limit int) *Statistics {
	s := makeStatistics(block, limit)
	return &s
}

// Add adds the result of a game. It returns true when a block has been completed.
func (s *Statistics) Add(r Result) bool {
	s.Lock()
	defer s.Unlock()
	if len(s.results) >= s.Limit {
		copy(s.results, s.results[1:])
		s.results = s.results[:len(s.results)-1]
	}
	s.results = append(s.results, r)
	s.count++
	return s.count%s.Block == 0
}

// Count is the number of games added.
func (s *Statistics) Count() int {
	s.Lock()
	defer s.Unlock()
	return s.count
}

// Results returns a copy of the kept results, oldest first.
func (s *Statistics) Results() []Result {
	s.Lock()
	defer s.Unlock()
	retVal := make([]Result, len(s.results))
	copy(retVal, s.results)
	return retVal
}

// BlockSummary summarises a number of games.
type BlockSummary struct {
	Count      int // games added so far
	Games      int // games in the block
	BlackWins  int
	WhiteWins  int
	Draws      int
	Ops        float64 // actions per second
	PlayerOps  [2]float64
	AvgPlies   float64
	AvgSeconds float64
}

// BlackRate is the share of decided games won by black.
func (b BlockSummary) BlackRate() float64 { return rate(b.BlackWins, b.BlackWins+b.WhiteWins) }

// WhiteRate is the share of decided games won by white.
func (b BlockSummary) WhiteRate() float64 { return rate(b.WhiteWins, b.BlackWins+b.WhiteWins) }

func rate(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) * 100 / float64(total)
}

func ops(steps int, d time.Duration) float64 {
	if d <= 0 {
		return 0
	}
	return float64(steps) / d.Seconds()
}

// Summary summarises the last n games. n <= 0 summarises every kept game.
func (s *Statistics) Summary(n int) BlockSummary {
	s.Lock()
	defer s.Unlock()
	if n <= 0 || n > len(s.results) {
		n = len(s.results)
	}
	retVal := BlockSummary{Count: s.count, Games: n}
	var steps, plies int
	var playerSteps [2]int
	var thinking, wall time.Duration
	var playerThinking [2]time.Duration
	for _, r := range s.results[len(s.results)-n:] {
		switch r.Winner {
		case game.Player(game.Black):
			retVal.BlackWins++
		case game.Player(game.White):
			retVal.WhiteWins++
		default:
			retVal.Draws++
		}
		for i := range r.Steps {
			steps += r.Steps[i]
			playerSteps[i] += r.Steps[i]
			thinking += r.Durations[i]
			playerThinking[i] += r.Durations[i]
		}
		plies += r.Plies
		wall += r.Duration()
	}
	retVal.Ops = ops(steps, thinking)
	for i := range playerSteps {
		retVal.PlayerOps[i] = ops(playerSteps[i], playerThinking[i])
	}
	if n > 0 {
		retVal.AvgPlies = float64(plies) / float64(n)
		retVal.AvgSeconds = wall.Seconds() / float64(n)
	}
	return retVal
}

// Format prints the summary as
//
//	1000	ops = 241563 (170543|896715)
//	Black: 48.7 %
//	White: 51.3 %
func (b BlockSummary) Format(s fmt.State, c rune) {
	fmt.Fprintf(s, "%d\tops = %.0f (%.0f|%.0f)\n", b.Count, b.Ops, b.PlayerOps[0], b.PlayerOps[1])
	fmt.Fprintf(s, "Black: %.1f %%\n", b.BlackRate())
	fmt.Fprintf(s, "White: %.1f %%\n", b.WhiteRate())
}

// Show writes the summary of the last block.
func (s *Statistics) Show(w io.Writer) {
	fmt.Fprintf(w, "%v\n", s.Summary(s.Block))
}

var csvHeader = []string{"id", "epoch", "game", "black", "white", "winner", "label", "material", "plies", "black_steps", "white_steps", "black_ms", "white_ms", "start", "end"}

// WriteCSV writes the kept results as CSV.
func (s *Statistics) WriteCSV(w io.Writer) error {
	results := s.Results()
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return errors.WithStack(err)
	}
	for _, r := range results {
		record := []string{
			r.ID,
			strconv.Itoa(r.Epoch),
			strconv.Itoa(r.GameNumber),
			r.Black,
			r.White,
			fmt.Sprintf("%v", r.Winner),
			strconv.FormatFloat(float64(r.Label), 'f', 0, 32),
			strconv.Itoa(r.Material),
			strconv.Itoa(r.Plies),
			strconv.Itoa(r.Steps[0]),
			strconv.Itoa(r.Steps[1]),
			strconv.FormatInt(r.Durations[0].Milliseconds(), 10),
			strconv.FormatInt(r.Durations[1].Milliseconds(), 10),
			r.Start.Format(time.RFC3339),
			r.End.Format(time.RFC3339),
		}
		if err := cw.Write(record); err != nil {
			return errors.WithStack(err)
		}
	}
	cw.Flush()
	return errors.WithStack(cw.Error())
}

// Dump writes the kept results as CSV into filename.
func (s *Statistics) Dump(filename string) error {
	f, err := os.OpenFile(filename, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0644)
	if err != nil {
		return errors.WithStack(err)
	}
	defer f.Close()
	return s.WriteCSV(f)
}
