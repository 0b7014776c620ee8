package mcts

// naughty is essentially *Node. It stays valid when the arena grows.
type naughty int

func (n naughty) isValid() bool { return n >= 0 }

const (
	nilNode naughty = -1
)
