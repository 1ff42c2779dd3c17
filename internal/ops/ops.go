// Package ops implements the per-channel pixel operators.
//
// Every operator is a pure function of one left and one right channel value.
// Apply runs it on R, G and B independently; alpha is never passed in.
package ops

import (
	"fmt"
	"strings"
)

// Op identifies an operator. The set is closed; see table.
type Op uint8

const (
	Or Op = iota
	And
	Xor
	Add
	Sub
	Mult
	Pow
	Div
	Average
	Screen
	Overlay
	ShiftLeft
	ShiftRight
	numOps
)

// Params carries the flags some operators look at.
type Params struct {
	Negate bool  // complement the result of or/and/xor
	Raw    bool  // wrapping instead of saturating sub and shifts
	Bits   uint8 // shift amount
}

type channelFunc func(l, r uint8, p Params) uint8

type entry struct {
	name    string
	fn      channelFunc
	logic   bool // honors Params.Negate
	unary   bool // ignores the right operand
	aliases []string
}

var table = [numOps]entry{
	Or:         {name: "or", fn: or, logic: true},
	And:        {name: "and", fn: and, logic: true},
	Xor:        {name: "xor", fn: xor, logic: true},
	Add:        {name: "add", fn: add},
	Sub:        {name: "sub", fn: sub},
	Mult:       {name: "mult", fn: mult, aliases: []string{"mul"}},
	Pow:        {name: "pow", fn: pow},
	Div:        {name: "div", fn: div},
	Average:    {name: "avg", fn: average, aliases: []string{"average"}},
	Screen:     {name: "screen", fn: screen},
	Overlay:    {name: "overlay", fn: overlay},
	ShiftLeft:  {name: "left", fn: shiftLeft, unary: true},
	ShiftRight: {name: "right", fn: shiftRight, unary: true},
}

// Apply runs op on each of the three channels.
func Apply(op Op, lhs, rhs [3]uint8, p Params) [3]uint8 {
	e := &table[op]
	out := [3]uint8{
		e.fn(lhs[0], rhs[0], p),
		e.fn(lhs[1], rhs[1], p),
		e.fn(lhs[2], rhs[2], p),
	}
	if e.logic && p.Negate {
		out[0], out[1], out[2] = ^out[0], ^out[1], ^out[2]
	}
	return out
}

// Parse maps a command name to an operator.
func Parse(name string) (Op, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i := range table {
		if table[i].name == name {
			return Op(i), nil
		}
		for _, a := range table[i].aliases {
			if a == name {
				return Op(i), nil
			}
		}
	}
	return 0, fmt.Errorf("unknown operator %q", name)
}

// Names lists the canonical operator names in table order.
func Names() []string {
	names := make([]string, 0, numOps)
	for i := range table {
		names = append(names, table[i].name)
	}
	return names
}

func (op Op) String() string {
	if op < numOps {
		return table[op].name
	}
	return fmt.Sprintf("Op(%d)", uint8(op))
}

// Unary reports whether op ignores its right operand.
func (op Op) Unary() bool { return table[op].unary }

// Valid reports whether op names a catalog entry.
func (op Op) Valid() bool { return op < numOps }
