// Package store keeps finished games in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/gorgonia/surakarta"
	"github.com/gorgonia/surakarta/game"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS games (
	id TEXT PRIMARY KEY,
	name TEXT,
	epoch INTEGER,
	game_number INTEGER,
	black TEXT,
	white TEXT,
	winner INTEGER,
	material INTEGER,
	plies INTEGER,
	started_at TEXT,
	ended_at TEXT,
	moves TEXT
);
CREATE INDEX IF NOT EXISTS games_started_at ON games (started_at);
`

// fixed width so that the text sorts by time
const timeFormat = "2006-01-02T15:04:05.000000000Z07:00"

var _ surakarta.Recorder = &Store{}

// Store records game results.
type Store struct {
	db *sql.DB
}

// Open opens the database at path, creating it and its directory if needed.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, errors.Wrapf(err, "unable to create directory of %v", path)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrapf(err, "unable to open %v", path)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if _, err = db.Exec(schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "unable to create the games table")
	}
	log.Info().Msgf("game store opened at %v", path)
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record stores a result. A result with the same ID is replaced.
func (s *Store) Record(r surakarta.Result) error {
	moves := make([]string, len(r.Moves))
	for i, m := range r.Moves {
		moves[i] = m.Action.String()
	}
	encoded, err := json.Marshal(moves)
	if err != nil {
		return errors.WithStack(err)
	}
	_, err = s.db.Exec(`INSERT OR REPLACE INTO games
		(id, name, epoch, game_number, black, white, winner, material, plies, started_at, ended_at, moves)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.Name, r.Epoch, r.GameNumber, r.Black, r.White,
		int(r.Winner), r.Material, r.Plies,
		r.Start.UTC().Format(timeFormat), r.End.UTC().Format(timeFormat),
		string(encoded),
	)
	return errors.Wrapf(err, "unable to record game %v", r.ID)
}

// Game is a stored game.
type Game struct {
	ID         string
	Name       string
	Epoch      int
	GameNumber int
	Black      string
	White      string
	Winner     game.Player
	Material   int
	Plies      int
	Start      time.Time
	End        time.Time
	Moves      []string
}

// Games lists the latest games, newest first. limit <= 0 lists all of them.
func (s *Store) Games(ctx context.Context, limit int) ([]Game, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, epoch, game_number, black, white, winner, material, plies, started_at, ended_at, moves
		FROM games ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, errors.Wrap(err, "unable to query games")
	}
	defer rows.Close()

	var retVal []Game
	for rows.Next() {
		g, err := scan(rows)
		if err != nil {
			return nil, err
		}
		retVal = append(retVal, g)
	}
	return retVal, errors.WithStack(rows.Err())
}

// Get returns the game with the given ID.
func (s *Store) Get(ctx context.Context, id string) (Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, name, epoch, game_number, black, white, winner, material, plies, started_at, ended_at, moves
		FROM games WHERE id = ?`, id)
	g, err := scan(row)
	if errors.Cause(err) == sql.ErrNoRows {
		return g, errors.Errorf("no game %v", id)
	}
	return g, err
}

// Count is the number of stored games.
func (s *Store) Count(ctx context.Context) (n int, err error) {
	err = s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM games`).Scan(&n)
	return n, errors.WithStack(err)
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scan(row scanner) (g Game, err error) {
	var winner int
	var start, end, moves string
	if err = row.Scan(&g.ID, &g.Name, &g.Epoch, &g.GameNumber, &g.Black, &g.White, &winner, &g.Material, &g.Plies, &start, &end, &moves); err != nil {
		return g, errors.WithStack(err)
	}
	g.Winner = game.Player(winner)
	if g.Start, err = time.Parse(timeFormat, start); err != nil {
		return g, errors.Wrapf(err, "game %v has a bad start time", g.ID)
	}
	if g.End, err = time.Parse(timeFormat, end); err != nil {
		return g, errors.Wrapf(err, "game %v has a bad end time", g.ID)
	}
	if err = json.Unmarshal([]byte(moves), &g.Moves); err != nil {
		return g, errors.Wrapf(err, "game %v has bad moves", g.ID)
	}
	return g, nil
}

// Replay plays the stored moves from the initial position.
func (g Game) Replay() (*game.Game, error) {
	s := game.New()
	s.SetMaxPlies(len(g.Moves) + 1)
	for i, m := range g.Moves {
		p := s.ToMove()
		a, err := game.ParseAction(m, s.Board(), p)
		if err != nil {
			return s, errors.WithMessagef(err, "move %d", i)
		}
		if err = s.Apply(game.PlayerMove{Player: p, Action: a}); err != nil {
			return s, errors.WithMessagef(err, "move %d", i)
		}
	}
	return s, nil
}
