package engine

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// FENStartPos is the standard starting position.
const FENStartPos = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// state is the flag snapshot pushed onto the undo stack by make and popped
// by undo; it is also embedded in Position as the "current" flags.
type state struct {
	CastlingAbility Castle
	EnpassantSquare Square
	HalfMoveClock   int
	Zobrist         uint64
	Move            Move
}

// Position holds two redundant board views kept in lockstep: a 64-entry
// piece-square array for O(1) point lookup, and seven bit-sets for O(1)
// aggregate geometry. Queens are members of both slider sets.
type Position struct {
	board [SquareArraySize]Piece

	whitePieces      Bitboard
	blackPieces      Bitboard
	pawns            Bitboard
	knights          Bitboard
	diagonalSliders  Bitboard
	orthogonalSliders Bitboard
	kings            Bitboard

	SideToMove     Color
	FullMoveNumber int
	Ply            int

	states []state
	curr   *state
}

// NewPosition returns an empty board with White to move.
func NewPosition() *Position {
	pos := &Position{
		SideToMove:     White,
		FullMoveNumber: 1,
	}
	pos.states = make([]state, 1, 64)
	pos.curr = &pos.states[0]
	pos.curr.EnpassantSquare = SquareNone
	return pos
}

func (pos *Position) byColor(c Color) Bitboard {
	if c == White {
		return pos.whitePieces
	}
	return pos.blackPieces
}

func (pos *Position) setByColor(c Color, bb Bitboard) {
	if c == White {
		pos.whitePieces = bb
	} else {
		pos.blackPieces = bb
	}
}

func (pos *Position) byFigure(f Figure) *Bitboard {
	switch f {
	case Pawn:
		return &pos.pawns
	case Knight:
		return &pos.knights
	case King:
		return &pos.kings
	}
	panic("byFigure only handles non-slider figures")
}

// PieceAt returns the piece on sq, or NoPiece.
func (pos *Position) PieceAt(sq Square) Piece { return pos.board[sq] }

// ColorAt returns the color of the piece on sq, or NoColor if empty.
func (pos *Position) ColorAt(sq Square) Color { return pos.board[sq].Color() }

// KingSquare returns the square of c's king.
func (pos *Position) KingSquare(c Color) Square {
	return (pos.kings & pos.byColor(c)).AsSquare()
}

// Occupied returns the union of all pieces on the board.
func (pos *Position) Occupied() Bitboard { return pos.whitePieces | pos.blackPieces }

// ByPieceType exposes the aggregate bit-sets by figure classification,
// used by move generation and evaluation.
func (pos *Position) Pawns() Bitboard             { return pos.pawns }
func (pos *Position) Knights() Bitboard            { return pos.knights }
func (pos *Position) Kings() Bitboard              { return pos.kings }
func (pos *Position) DiagonalSliders() Bitboard    { return pos.diagonalSliders }
func (pos *Position) OrthogonalSliders() Bitboard  { return pos.orthogonalSliders }
func (pos *Position) White() Bitboard              { return pos.whitePieces }
func (pos *Position) Black() Bitboard              { return pos.blackPieces }

func (pos *Position) CastlingAbility() Castle { return pos.curr.CastlingAbility }
func (pos *Position) EnpassantSquare() Square { return pos.curr.EnpassantSquare }
func (pos *Position) HalfMoveClock() int      { return pos.curr.HalfMoveClock }
func (pos *Position) Zobrist() uint64         { return pos.curr.Zobrist }
func (pos *Position) LastMove() Move {
	if len(pos.states) == 0 {
		return NullMove
	}
	return pos.curr.Move
}

// addPiece places p on sq, updating both board views and the hash.
func (pos *Position) addPiece(p Piece, sq Square) {
	pos.board[sq] = p
	bb := sq.Bitboard()
	c := p.Color()
	pos.setByColor(c, pos.byColor(c)|bb)
	switch p.Figure() {
	case Pawn, Knight, King:
		f := pos.byFigure(p.Figure())
		*f |= bb
	case Bishop:
		pos.diagonalSliders |= bb
	case Rook:
		pos.orthogonalSliders |= bb
	case Queen:
		pos.diagonalSliders |= bb
		pos.orthogonalSliders |= bb
	}
	pos.curr.Zobrist ^= zobristPieceAt(p, sq)
}

// removePiece removes p from sq, updating both board views and the hash.
func (pos *Position) removePiece(p Piece, sq Square) {
	pos.board[sq] = NoPiece
	bb := ^sq.Bitboard()
	c := p.Color()
	pos.setByColor(c, pos.byColor(c)&bb)
	switch p.Figure() {
	case Pawn, Knight, King:
		f := pos.byFigure(p.Figure())
		*f &= bb
	case Bishop:
		pos.diagonalSliders &= bb
	case Rook:
		pos.orthogonalSliders &= bb
	case Queen:
		pos.diagonalSliders &= bb
		pos.orthogonalSliders &= bb
	}
	pos.curr.Zobrist ^= zobristPieceAt(p, sq)
}

// movePiece relocates p from one square to an empty destination square
// as a removePiece followed by an addPiece.
func (pos *Position) movePiece(p Piece, from, to Square) {
	pos.removePiece(p, from)
	pos.addPiece(p, to)
}

// IsInCheck reports whether c's king is currently attacked.
func (pos *Position) IsInCheck(c Color) bool {
	return pos.IsAttacked(pos.KingSquare(c), c.Opposite())
}

// IsAttacked reports whether any piece of color `by` attacks sq.
func (pos *Position) IsAttacked(sq Square, by Color) bool {
	return pos.attackersTo(sq, by, pos.Occupied()) != BbEmpty
}

// attackersTo returns the set of `by`-colored pieces attacking sq, given
// an explicit occupancy (used by the own-king-removed variant below).
func (pos *Position) attackersTo(sq Square, by Color, occupied Bitboard) Bitboard {
	byBb := pos.byColor(by)
	var attackers Bitboard
	attackers |= PawnAttack(sq, by.Opposite()) & pos.pawns & byBb
	attackers |= KnightAttack(sq) & pos.knights & byBb
	attackers |= KingAttack(sq) & pos.kings & byBb
	attackers |= RookAttack(sq, occupied) & pos.orthogonalSliders & byBb
	attackers |= BishopAttack(sq, occupied) & pos.diagonalSliders & byBb
	return attackers
}

// AttacksFrom returns every square attacked by color c, computed on
// demand from the aggregate bit-sets.
func (pos *Position) AttacksFrom(c Color) Bitboard {
	return pos.attacksFromWithOccupancy(c, pos.Occupied())
}

// AttacksThroughOwnKing is the set of squares `attacker`'s opponent king
// cannot legally step onto: slider rays are recomputed with the
// defending king removed from the occupancy, so the king cannot "hide
// behind itself" along the same ray it is fleeing.
func (pos *Position) AttacksThroughOwnKing(attacker Color) Bitboard {
	defender := attacker.Opposite()
	occ := pos.Occupied() &^ pos.KingSquare(defender).Bitboard()
	return pos.attacksFromWithOccupancy(attacker, occ)
}

func (pos *Position) attacksFromWithOccupancy(c Color, occ Bitboard) Bitboard {
	own := pos.byColor(c)
	var attacks Bitboard
	pawns := pos.pawns & own
	if c == White {
		attacks |= pawns.UpLeft() | pawns.UpRight()
	} else {
		attacks |= pawns.DownLeft() | pawns.DownRight()
	}
	for kn := pos.knights & own; kn != 0; {
		attacks |= KnightAttack(kn.Pop())
	}
	for kg := pos.kings & own; kg != 0; {
		attacks |= KingAttack(kg.Pop())
	}
	for s := pos.orthogonalSliders & own; s != 0; {
		attacks |= RookAttack(s.Pop(), occ)
	}
	for s := pos.diagonalSliders & own; s != 0; {
		attacks |= BishopAttack(s.Pop(), occ)
	}
	return attacks
}

// pushState copies the current flags onto a fresh top-of-stack entry and
// returns a pointer to it so callers can mutate in place.
func (pos *Position) pushState() *state {
	pos.states = append(pos.states, *pos.curr)
	pos.curr = &pos.states[len(pos.states)-1]
	return pos.curr
}

var lostCastleRights [SquareArraySize]Castle

func init() {
	lostCastleRights[SquareA1] = WhiteOOO
	lostCastleRights[SquareE1] = WhiteOO | WhiteOOO
	lostCastleRights[SquareH1] = WhiteOO
	lostCastleRights[SquareA8] = BlackOOO
	lostCastleRights[SquareE8] = BlackOO | BlackOOO
	lostCastleRights[SquareH8] = BlackOO
}

// Make applies a legal move to the position: it records an undo entry,
// removes any captured piece, relocates (or promotes) the moving piece,
// relocates the rook on castling, and updates flags and the incremental
// hash. The caller must only ever pass a move drawn from LegalMoves for
// this exact position; Make does not re-validate legality.
func (pos *Position) Make(m Move) {
	us := pos.SideToMove
	them := us.Opposite()
	prevEp := pos.curr.EnpassantSquare
	prevCastle := pos.curr.CastlingAbility
	// Decide before any piece moves whether the old en-passant file is in
	// the hash; the answer depends on pawns this move may relocate.
	prevEpHashed := prevEp != SquareNone && epIsPlayable(pos, prevEp)

	st := pos.pushState()
	st.Move = m

	if m.IsNull() {
		st.EnpassantSquare = SquareNone
		if prevEpHashed {
			st.Zobrist ^= zobristEnpassantFile(prevEp.File())
		}
		st.HalfMoveClock++
		pos.SideToMove = them
		st.Zobrist ^= zobristSideToMove()
		if us == Black {
			pos.FullMoveNumber++
		}
		pos.Ply++
		return
	}

	if m.IsCapture() {
		capSq := m.CaptureSquare()
		pos.removePiece(m.Capture, capSq)
	}

	pos.removePiece(m.Piece, m.From)
	placed := m.Piece
	if m.IsPromotion() {
		placed = m.Promotion
	}
	pos.addPiece(placed, m.To)

	if m.MoveType == Castling {
		rook, rookFrom, rookTo := CastlingRookMove(m.To)
		pos.removePiece(rook, rookFrom)
		pos.addPiece(rook, rookTo)
	}

	newCastle := prevCastle &^ (lostCastleRights[m.From] | lostCastleRights[m.To])
	st.Zobrist ^= zobristCastleDelta(prevCastle, newCastle)
	st.CastlingAbility = newCastle

	newEp := SquareNone
	if m.Piece.Figure() == Pawn {
		if m.To.Rank()-m.From.Rank() == 2 || m.From.Rank()-m.To.Rank() == 2 {
			epTarget := RankFile((m.From.Rank()+m.To.Rank())/2, m.From.File())
			if pos.epCapturable(epTarget, them) {
				newEp = epTarget
			}
		}
	}
	if prevEpHashed {
		st.Zobrist ^= zobristEnpassantFile(prevEp.File())
	}
	if newEp != SquareNone {
		st.Zobrist ^= zobristEnpassantFile(newEp.File())
	}
	st.EnpassantSquare = newEp

	if m.Piece.Figure() == Pawn || m.IsCapture() {
		st.HalfMoveClock = 0
	} else {
		st.HalfMoveClock++
	}

	pos.SideToMove = them
	st.Zobrist ^= zobristSideToMove()
	if us == Black {
		pos.FullMoveNumber++
	}
	pos.Ply++
}

// epCapturable reports whether a capturer-colored pawn stands on a square
// from which it could pseudo-legally capture onto ep. This gates whether
// the en-passant file enters the Zobrist hash: an unusable en-passant tag
// must not make otherwise identical positions hash differently.
func (pos *Position) epCapturable(ep Square, capturer Color) bool {
	return PawnAttack(ep, capturer.Opposite())&pos.pawns&pos.byColor(capturer) != 0
}

// Undo reverses the most recent Make, restoring byte-identical state
// including the Zobrist hash.
func (pos *Position) Undo() {
	m := pos.curr.Move
	them := pos.SideToMove
	us := them.Opposite()

	if us == Black {
		pos.FullMoveNumber--
	}
	pos.SideToMove = us
	pos.Ply--

	if !m.IsNull() {
		placed := m.Piece
		if m.IsPromotion() {
			placed = m.Promotion
		}
		pos.removePiece(placed, m.To)
		pos.addPiece(m.Piece, m.From)

		if m.MoveType == Castling {
			rook, rookFrom, rookTo := CastlingRookMove(m.To)
			pos.removePiece(rook, rookTo)
			pos.addPiece(rook, rookFrom)
		}

		if m.IsCapture() {
			pos.addPiece(m.Capture, m.CaptureSquare())
		}
	}

	pos.states = pos.states[:len(pos.states)-1]
	pos.curr = &pos.states[len(pos.states)-1]
}

// CastlingRookMove derives the rook's move from the king's destination
// square on a castling move.
func CastlingRookMove(kingTo Square) (rook Piece, from, to Square) {
	switch kingTo {
	case SquareG1:
		return ColorFigure(White, Rook), SquareH1, SquareF1
	case SquareC1:
		return ColorFigure(White, Rook), SquareA1, SquareD1
	case SquareG8:
		return ColorFigure(Black, Rook), SquareH8, SquareF8
	case SquareC8:
		return ColorFigure(Black, Rook), SquareA8, SquareD8
	}
	panic("CastlingRookMove: not a castling destination")
}

// PositionFromFEN parses a FEN string: piece placement, active color,
// castling availability, en-passant target, plus the half-move and
// full-move counters, which are stored but do not otherwise affect
// move generation.
func PositionFromFEN(fen string) (*Position, error) {
	fields := strings.Fields(fen)
	if len(fields) < 4 {
		return nil, errors.Errorf("fen %q: expected at least 4 fields, got %d", fen, len(fields))
	}

	pos := NewPosition()
	if err := parsePiecePlacement(pos, fields[0]); err != nil {
		return nil, errors.Wrapf(err, "fen %q", fen)
	}
	switch fields[1] {
	case "w":
		pos.SideToMove = White
	case "b":
		pos.SideToMove = Black
	default:
		return nil, errors.Errorf("fen %q: bad active color %q", fen, fields[1])
	}

	var castle Castle
	if fields[2] != "-" {
		for _, c := range fields[2] {
			switch c {
			case 'K':
				castle |= WhiteOO
			case 'Q':
				castle |= WhiteOOO
			case 'k':
				castle |= BlackOO
			case 'q':
				castle |= BlackOOO
			default:
				return nil, errors.Errorf("fen %q: bad castling field %q", fen, fields[2])
			}
		}
	}
	pos.curr.CastlingAbility = castle
	pos.curr.Zobrist ^= zobristCastle[castle]

	ep := SquareNone
	if fields[3] != "-" {
		sq, err := SquareFromString(fields[3])
		if err != nil {
			return nil, errors.Wrapf(err, "fen %q: bad en-passant field", fen)
		}
		ep = sq
	}
	// The square is stored as given so the FEN round-trips, but it only
	// enters the hash when a capture onto it is actually available.
	pos.curr.EnpassantSquare = ep
	if ep != SquareNone && epIsPlayable(pos, ep) {
		pos.curr.Zobrist ^= zobristEnpassantFile(ep.File())
	}

	if pos.SideToMove == Black {
		pos.curr.Zobrist ^= zobristSideToMove()
	}

	pos.curr.HalfMoveClock = 0
	pos.FullMoveNumber = 1
	if len(fields) >= 5 {
		if n, err := strconv.Atoi(fields[4]); err == nil {
			pos.curr.HalfMoveClock = n
		}
	}
	if len(fields) >= 6 {
		if n, err := strconv.Atoi(fields[5]); err == nil {
			pos.FullMoveNumber = n
		}
	}
	return pos, nil
}

// epIsPlayable reports whether the side to move has a pawn that could
// pseudo-legally capture onto ep right now, matching the hash-inclusion
// rule applied by Make.
func epIsPlayable(pos *Position, ep Square) bool {
	us := pos.SideToMove
	return ep.Rank() == relativeEpRank(us) && pos.epCapturable(ep, us)
}

func relativeEpRank(us Color) int {
	if us == White {
		return 5
	}
	return 2
}

var pieceFromFENChar = map[byte]Piece{
	'P': ColorFigure(White, Pawn), 'N': ColorFigure(White, Knight),
	'B': ColorFigure(White, Bishop), 'R': ColorFigure(White, Rook),
	'Q': ColorFigure(White, Queen), 'K': ColorFigure(White, King),
	'p': ColorFigure(Black, Pawn), 'n': ColorFigure(Black, Knight),
	'b': ColorFigure(Black, Bishop), 'r': ColorFigure(Black, Rook),
	'q': ColorFigure(Black, Queen), 'k': ColorFigure(Black, King),
}

func parsePiecePlacement(pos *Position, field string) error {
	ranks := strings.Split(field, "/")
	if len(ranks) != 8 {
		return errors.Errorf("piece placement %q: expected 8 ranks, got %d", field, len(ranks))
	}
	for i, rankField := range ranks {
		rank := 7 - i
		file := 0
		for j := 0; j < len(rankField); j++ {
			c := rankField[j]
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			p, ok := pieceFromFENChar[c]
			if !ok {
				return errors.Errorf("piece placement %q: bad piece char %q", field, c)
			}
			if file > 7 {
				return errors.Errorf("piece placement %q: rank %d overflows", field, rank+1)
			}
			pos.addPiece(p, RankFile(rank, file))
			file++
		}
		if file != 8 {
			return errors.Errorf("piece placement %q: rank %d has %d files, want 8", field, rank+1, file)
		}
	}
	return nil
}

// FEN renders the position back to FEN text. Applied to a FEN-parsed
// position, FEN(PositionFromFEN(s)) == s for any canonical input s.
func (pos *Position) FEN() string {
	var sb strings.Builder
	for r := 7; r >= 0; r-- {
		empty := 0
		for f := 0; f < 8; f++ {
			p := pos.board[RankFile(r, f)]
			if p == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(p.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if r > 0 {
			sb.WriteByte('/')
		}
	}
	sb.WriteByte(' ')
	if pos.SideToMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}
	sb.WriteByte(' ')
	sb.WriteString(pos.curr.CastlingAbility.String())
	sb.WriteByte(' ')
	sb.WriteString(pos.curr.EnpassantSquare.String())
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.curr.HalfMoveClock))
	sb.WriteByte(' ')
	sb.WriteString(strconv.Itoa(pos.FullMoveNumber))
	return sb.String()
}

// ZobristFromScratch recomputes the hash directly from the current
// position, independent of the incremental bookkeeping in Make/Undo; used
// by tests to verify the two never diverge.
func (pos *Position) ZobristFromScratch() uint64 {
	var h uint64
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		if p := pos.board[sq]; p != NoPiece {
			h ^= zobristPieceAt(p, sq)
		}
	}
	h ^= zobristCastle[pos.curr.CastlingAbility]
	if ep := pos.curr.EnpassantSquare; ep != SquareNone && epIsPlayable(pos, ep) {
		h ^= zobristEnpassantFile(ep.File())
	}
	if pos.SideToMove == Black {
		h ^= zobristSideToMove()
	}
	return h
}
