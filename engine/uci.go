package engine

import (
	"strings"

	"github.com/pkg/errors"
)

// This file converts between external move encodings and internal Move
// records. Both directions resolve against the current legal-move list,
// so a string that parses but names an illegal move is rejected at the
// boundary and never reaches Make.

var promoFigureFromChar = map[byte]Figure{
	'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight,
}

// UCIToMove resolves an external "<start><end>[<promo>]" move string
// against the legal moves of pos. Castling is encoded as the king's
// two-square move, so no special casing is needed here.
func (pos *Position) UCIToMove(s string) (Move, error) {
	if len(s) < 4 || len(s) > 5 {
		return NullMove, errors.Errorf("uci move %q: bad length", s)
	}
	from, err := SquareFromString(s[0:2])
	if err != nil {
		return NullMove, errors.Wrapf(err, "uci move %q", s)
	}
	to, err := SquareFromString(s[2:4])
	if err != nil {
		return NullMove, errors.Wrapf(err, "uci move %q", s)
	}
	promo := NoFigure
	if len(s) == 5 {
		f, ok := promoFigureFromChar[s[4]]
		if !ok {
			return NullMove, errors.Errorf("uci move %q: bad promotion %q", s, s[4])
		}
		promo = f
	}

	for _, m := range pos.LegalMoves() {
		if m.From != from || m.To != to {
			continue
		}
		if m.Promotion.Figure() != promo {
			continue
		}
		return m, nil
	}
	return NullMove, errors.Errorf("uci move %q: not legal here", s)
}

// MoveToSAN renders m in standard algebraic notation with minimal
// disambiguation, as used by EPD operations. m must be legal in pos.
func (pos *Position) MoveToSAN(m Move) string {
	if m.IsCastle() {
		if m.To.File() > m.From.File() {
			return "O-O" + pos.sanSuffix(m)
		}
		return "O-O-O" + pos.sanSuffix(m)
	}

	var sb strings.Builder
	fig := m.Piece.Figure()
	if fig == Pawn {
		if m.IsCapture() {
			sb.WriteByte(byte(m.From.File()) + 'a')
		}
	} else {
		sb.WriteString(fig.String())
		sb.WriteString(pos.sanDisambiguation(m))
	}
	if m.IsCapture() {
		sb.WriteByte('x')
	}
	sb.WriteString(m.To.String())
	if m.IsPromotion() {
		sb.WriteByte('=')
		sb.WriteString(m.Promotion.Figure().String())
	}
	sb.WriteString(pos.sanSuffix(m))
	return sb.String()
}

// sanDisambiguation returns the file and/or rank of the origin square
// needed to single out m among legal moves of the same figure to the
// same destination: file if it suffices, rank if file does not, both as
// a last resort.
func (pos *Position) sanDisambiguation(m Move) string {
	sameFile, sameRank, others := false, false, false
	for _, o := range pos.LegalMoves() {
		if o.To != m.To || o.From == m.From || o.Piece != m.Piece {
			continue
		}
		others = true
		if o.From.File() == m.From.File() {
			sameFile = true
		}
		if o.From.Rank() == m.From.Rank() {
			sameRank = true
		}
	}
	switch {
	case !others:
		return ""
	case !sameFile:
		return string([]byte{byte(m.From.File()) + 'a'})
	case !sameRank:
		return string([]byte{byte(m.From.Rank()) + '1'})
	default:
		return m.From.String()
	}
}

func (pos *Position) sanSuffix(m Move) string {
	pos.Make(m)
	defer pos.Undo()
	if !pos.IsInCheck(pos.SideToMove) {
		return ""
	}
	if len(pos.LegalMoves()) == 0 {
		return "#"
	}
	return "+"
}

// SANToMove resolves a standard-algebraic move string against the legal
// moves of pos. Check and mate suffixes and "e.p." annotations are
// ignored; redundant disambiguation is accepted.
func (pos *Position) SANToMove(s string) (Move, error) {
	orig := s
	s = strings.TrimRight(s, "+#!?")
	s = strings.TrimSuffix(s, "e.p.")

	if s == "O-O" || s == "0-0" || s == "O-O-O" || s == "0-0-0" {
		long := len(s) > 3
		for _, m := range pos.LegalMoves() {
			if m.IsCastle() && (m.To.File() < m.From.File()) == long {
				return m, nil
			}
		}
		return NullMove, errors.Errorf("san move %q: not legal here", orig)
	}

	fig := Pawn
	if len(s) > 0 && s[0] >= 'A' && s[0] <= 'Z' {
		switch s[0] {
		case 'N':
			fig = Knight
		case 'B':
			fig = Bishop
		case 'R':
			fig = Rook
		case 'Q':
			fig = Queen
		case 'K':
			fig = King
		default:
			return NullMove, errors.Errorf("san move %q: bad piece letter", orig)
		}
		s = s[1:]
	}

	promo := NoFigure
	if i := strings.IndexByte(s, '='); i >= 0 {
		if i+1 >= len(s) {
			return NullMove, errors.Errorf("san move %q: dangling promotion", orig)
		}
		f, ok := promoFigureFromChar[s[i+1]|0x20]
		if !ok {
			return NullMove, errors.Errorf("san move %q: bad promotion", orig)
		}
		promo = f
		s = s[:i]
	}

	s = strings.Replace(s, "x", "", 1)
	if len(s) < 2 {
		return NullMove, errors.Errorf("san move %q: no destination", orig)
	}
	to, err := SquareFromString(s[len(s)-2:])
	if err != nil {
		return NullMove, errors.Wrapf(err, "san move %q", orig)
	}
	hint := s[:len(s)-2]
	fromFile, fromRank := -1, -1
	for i := 0; i < len(hint); i++ {
		switch c := hint[i]; {
		case c >= 'a' && c <= 'h':
			fromFile = int(c - 'a')
		case c >= '1' && c <= '8':
			fromRank = int(c - '1')
		default:
			return NullMove, errors.Errorf("san move %q: bad disambiguation", orig)
		}
	}

	matched := NullMove
	for _, m := range pos.LegalMoves() {
		if m.Piece.Figure() != fig || m.To != to {
			continue
		}
		if m.Promotion.Figure() != promo {
			continue
		}
		// A bare pawn destination ("e4", "e8=Q") is a push; the capture
		// form always carries the origin file ("dxe4").
		if fig == Pawn && fromFile < 0 && m.IsCapture() {
			continue
		}
		if fromFile >= 0 && m.From.File() != fromFile {
			continue
		}
		if fromRank >= 0 && m.From.Rank() != fromRank {
			continue
		}
		if !matched.IsNull() {
			return NullMove, errors.Errorf("san move %q: ambiguous", orig)
		}
		matched = m
	}
	if matched.IsNull() {
		return NullMove, errors.Errorf("san move %q: not legal here", orig)
	}
	return matched, nil
}
