package game

import (
	"fmt"
)

// Kind discriminates the actions.
type Kind uint8

const (
	Pass Kind = iota
	Eat
	Move
)

func (k Kind) String() string {
	switch k {
	case Pass:
		return "pass"
	case Eat:
		return "eat"
	case Move:
		return "move"
	}
	return "UNKNOWN KIND"
}

// Action is an eat, a move or a pass. The zero value is a pass.
type Action struct {
	Kind Kind
	code uint16
}

// NewAction creates an eat or a move from origin to dest.
func NewAction(kind Kind, origin, dest int) Action {
	return Action{Kind: kind, code: uint16(origin&0x3F) | uint16(dest&0x3F)<<6}
}

// ActionFromCode recreates an action from its kind and packed code.
func ActionFromCode(kind Kind, code uint16) Action { return Action{Kind: kind, code: code & 0xFFF} }

// Code packs the origin in bits 0-5 and the destination in bits 6-11.
func (a Action) Code() uint16 { return a.code }

func (a Action) Origin() int { return int(a.code & 0x3F) }
func (a Action) Dest() int   { return int(a.code >> 6 & 0x3F) }

// IsPass returns true when the action is a null action.
func (a Action) IsPass() bool { return a.Kind == Pass }

func (a Action) Format(s fmt.State, c rune) {
	if a.IsPass() {
		fmt.Fprint(s, "pass")
		return
	}
	fmt.Fprintf(s, "%v %v %v", a.Kind, CellString(a.Origin()), CellString(a.Dest()))
}

func (a Action) String() string { return fmt.Sprintf("%v", a) }
