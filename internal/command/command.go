// Package command parses the line-based command language spoken by the
// WebSocket connection and the terminal client.
//
//	g          refresh, no change
//	o ROW COL  reveal a cell
//	f ROW COL  toggle a flag
//	c ROW COL  chord around a revealed cell
//	n          start a new round
package command

import (
	"errors"
	"fmt"
	"iter"
	"strconv"
	"strings"

	"github.com/vancomm/minegrid/internal/mines"
	"github.com/vancomm/minegrid/internal/session"
)

type Kind string

const (
	Noop  Kind = "g"
	Open  Kind = "o"
	Flag  Kind = "f"
	Chord Kind = "c"
	Reset Kind = "n"
)

// Maps known commands to number of arguments
var commandNargs = map[Kind]int{
	Noop:  0,
	Open:  2,
	Flag:  2,
	Chord: 2,
	Reset: 0,
}

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrArgCount       = errors.New("invalid number of arguments")
)

type Command struct {
	Kind  Kind
	Point mines.Point
}

func (c Command) String() string {
	if commandNargs[c.Kind] == 0 {
		return string(c.Kind)
	}
	return fmt.Sprintf("%s %d %d", c.Kind, c.Point.Row, c.Point.Col)
}

func parsePoint(args []string) (p mines.Point, err error) {
	if p.Row, err = strconv.Atoi(args[0]); err != nil {
		return p, errors.New("row must be an int")
	}
	if p.Col, err = strconv.Atoi(args[1]); err != nil {
		return p, errors.New("column must be an int")
	}
	return p, nil
}

// Parse reads a single command. Surrounding and repeated whitespace is
// ignored. Coordinates are not checked against any board.
func Parse(line string) (Command, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return Command{}, ErrUnknownCommand
	}
	kind := Kind(parts[0])
	nargs, ok := commandNargs[kind]
	if !ok {
		return Command{}, fmt.Errorf("%w %q", ErrUnknownCommand, parts[0])
	}
	if nargs != len(parts)-1 {
		return Command{}, fmt.Errorf("%w for %q: want %d, got %d",
			ErrArgCount, kind, nargs, len(parts)-1)
	}
	if nargs == 0 {
		return Command{Kind: kind}, nil
	}
	p, err := parsePoint(parts[1:])
	if err != nil {
		return Command{}, err
	}
	return Command{Kind: kind, Point: p}, nil
}

// Lines yields every non-blank line of text, parsed.
func Lines(text string) iter.Seq2[Command, error] {
	return func(yield func(Command, error) bool) {
		for _, line := range strings.Split(text, "\n") {
			if strings.TrimSpace(line) == "" {
				continue
			}
			if !yield(Parse(line)) {
				return
			}
		}
	}
}

type Player interface {
	Open(p mines.Point) (session.Move, error)
	Flag(p mines.Point) (session.Move, error)
	Chord(p mines.Point) (session.Move, error)
}

// Apply runs a board command against g. Noop and Reset leave g alone and
// report ok = false, so the caller can deal with them.
func (c Command) Apply(g Player) (move session.Move, ok bool, err error) {
	switch c.Kind {
	case Open:
		move, err = g.Open(c.Point)
	case Flag:
		move, err = g.Flag(c.Point)
	case Chord:
		move, err = g.Chord(c.Point)
	default:
		return move, false, nil
	}
	return move, err == nil, err
}
