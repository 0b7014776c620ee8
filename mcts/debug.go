//go:build debug
// +build debug

package mcts

import (
	"bytes"
	"fmt"

	"github.com/rs/zerolog"
)

type lumberjack struct {
	*bytes.Buffer
	l zerolog.Logger
}

func makeLumberJack() lumberjack {
	buf := new(bytes.Buffer)
	return lumberjack{
		Buffer: buf,
		l:      zerolog.New(zerolog.ConsoleWriter{Out: buf, NoColor: true}).With().Timestamp().Logger(),
	}
}

func (l *lumberjack) log(msg string, args ...interface{}) {
	l.l.Debug().Msg(fmt.Sprintf(msg, args...))
}

func (l *lumberjack) Reset() { l.Buffer.Reset() }

func (l *lumberjack) Log() string { return l.String() }
