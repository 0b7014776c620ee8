package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/gorgonia/surakarta"
	"github.com/gorgonia/surakarta/game"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// frame is what spectators receive for every position.
type frame struct {
	Name   string `json:"name"`
	Epoch  int    `json:"epoch"`
	Game   int    `json:"game"`
	Move   int    `json:"move"`
	Action string `json:"action"`
	Board  string `json:"board"`
	ToMove string `json:"to_move"`
	Black  int    `json:"black"`
	White  int    `json:"white"`
	Ended  bool   `json:"ended"`
	Winner string `json:"winner,omitempty"`
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Encoder is a structure that encodes a game state according to the surakarta.OutputEncoder
// interface. Every state is broadcast to the connected websocket spectators. Slow spectators
// miss frames; the game never waits for them.
type Encoder struct {
	mu      sync.Mutex
	clients map[*client]struct{}
}

var _ surakarta.OutputEncoder = &Encoder{}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func NewEncoder() *Encoder {
	return &Encoder{clients: make(map[*client]struct{})}
}

func (enc *Encoder) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error().Err(err).Msg("upgrade")
		return
	}
	cl := &client{conn: c, send: make(chan []byte, 64)}
	enc.mu.Lock()
	enc.clients[cl] = struct{}{}
	enc.mu.Unlock()
	defer func() {
		enc.mu.Lock()
		delete(enc.clients, cl)
		enc.mu.Unlock()
		c.Close()
	}()

	for {
		select {
		case b := <-cl.send:
			if err = c.WriteMessage(websocket.TextMessage, b); err != nil {
				log.Debug().Err(err).Msg("write")
				return
			}
		case <-r.Context().Done():
			return
		}
	}
}

// Encode a game
func (enc *Encoder) Encode(ms game.MetaState) error {
	g := ms.State()
	b := g.Board()
	f := frame{
		Name:   ms.Name(),
		Epoch:  ms.Epoch(),
		Game:   ms.GameNumber(),
		Move:   g.MoveNumber(),
		Board:  fmt.Sprintf("%v", b),
		ToMove: fmt.Sprintf("%v", g.ToMove()),
		Black:  b.Count(game.Player(game.Black)),
		White:  b.Count(game.Player(game.White)),
	}
	if f.Move > 0 {
		f.Action = g.LastMove().Action.String()
	}
	if ended, winner := g.Ended(); ended {
		f.Ended = true
		f.Winner = fmt.Sprintf("%v", winner)
	}
	data, err := json.Marshal(f)
	if err != nil {
		return errors.WithStack(err)
	}

	enc.mu.Lock()
	defer enc.mu.Unlock()
	for cl := range enc.clients {
		select {
		case cl.send <- data:
		default:
		}
	}
	return nil
}

// Flush ...
func (enc *Encoder) Flush() error { return nil }

// encoders fans a state out to several encoders.
type encoders []surakarta.OutputEncoder

func (encs encoders) Encode(ms game.MetaState) error {
	for _, enc := range encs {
		if err := enc.Encode(ms); err != nil {
			return err
		}
	}
	return nil
}

func (encs encoders) Flush() error {
	for _, enc := range encs {
		if err := enc.Flush(); err != nil {
			return err
		}
	}
	return nil
}
