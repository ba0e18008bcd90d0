// Package notation implements parsing of chess positions.
//
// Current supported formats are FEN and EPD notations.
package notation

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/chesscore/chesscore/engine"
)

// EPD is an Extended Position Description: a position plus the
// operations attached to it on the same line.
type EPD struct {
	Position *engine.Position
	Id       string
	BestMove []engine.Move
	Comment  map[string]string
}

// ParseFEN parses a FEN string and returns an EPD with no operations.
func ParseFEN(line string) (*EPD, error) {
	pos, err := engine.PositionFromFEN(line)
	if err != nil {
		return nil, err
	}
	return &EPD{Position: pos, Comment: make(map[string]string)}, nil
}

// ParseEPD parses an EPD line: the four position fields followed by
// semicolon-terminated operations such as `bm Nf3; id "WAC.001";`.
func ParseEPD(line string) (*EPD, error) {
	fields := strings.Fields(line)
	if len(fields) < 4 {
		return nil, errors.Errorf("epd %q: expected at least 4 position fields", line)
	}
	// The position part is FEN without move counters; default them so
	// the FEN parser accepts it.
	pos, err := engine.PositionFromFEN(strings.Join(fields[:4], " ") + " 0 1")
	if err != nil {
		return nil, err
	}
	epd := &EPD{Position: pos, Comment: make(map[string]string)}

	rest := strings.TrimSpace(strings.Join(fields[4:], " "))
	for _, op := range strings.Split(rest, ";") {
		op = strings.TrimSpace(op)
		if op == "" {
			continue
		}
		if err := epd.handleOperation(op); err != nil {
			return nil, errors.Wrapf(err, "epd %q", line)
		}
	}
	return epd, nil
}

func (e *EPD) handleOperation(op string) error {
	parts := strings.SplitN(op, " ", 2)
	operator := parts[0]
	argument := ""
	if len(parts) == 2 {
		argument = strings.TrimSpace(parts[1])
	}

	switch {
	case operator == "id":
		e.Id = trimQuotes(argument)
	case operator == "bm":
		for _, san := range strings.Fields(argument) {
			m, err := e.Position.SANToMove(san)
			if err != nil {
				return errors.Wrap(err, "bm")
			}
			e.BestMove = append(e.BestMove, m)
		}
	case operator == "hmvc":
		// The half-move clock already defaults to 0; the FEN reader
		// owns the field, so reparse with the override in place.
		return e.overrideCounter(4, argument)
	case operator == "fmvn":
		return e.overrideCounter(5, argument)
	case len(operator) == 2 && operator[0] == 'c' && operator[1] >= '0' && operator[1] <= '9':
		e.Comment[operator] = trimQuotes(argument)
	default:
		// Unknown operators are ignored, matching how most EPD
		// consumers treat extensions they do not understand.
	}
	return nil
}

func (e *EPD) overrideCounter(field int, argument string) error {
	fields := strings.Fields(e.Position.FEN())
	fields[field] = argument
	pos, err := engine.PositionFromFEN(strings.Join(fields, " "))
	if err != nil {
		return err
	}
	e.Position = pos
	return nil
}

func trimQuotes(str string) string {
	l := len(str)
	if l >= 2 && str[0] == '"' && str[l-1] == '"' {
		return str[1 : l-1]
	}
	return str
}

// String renders the EPD back to text: the four position fields plus
// the bm, id and comment operations. hmvc and fmvn are not written out.
func (e *EPD) String() string {
	fields := strings.Fields(e.Position.FEN())
	s := strings.Join(fields[:4], " ")
	for _, bm := range e.BestMove {
		s += " bm " + e.Position.MoveToSAN(bm) + ";"
	}
	if e.Id != "" {
		s += " id \"" + e.Id + "\";"
	}
	for k, v := range e.Comment {
		s += " " + k + " \"" + v + "\";"
	}
	return s
}
