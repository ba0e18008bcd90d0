package engine

// TerminalState classifies a position as ongoing or as one of the five
// terminal outcomes.
type TerminalState int

const (
	Ongoing TerminalState = iota
	WhiteMates
	BlackMates
	DrawByStalemate
	DrawByFiftyMove
	DrawByRepetition
	DrawByMaterial
)

// RepetitionSet tracks Zobrist hashes seen so far in the current game
// line, used for threefold-repetition detection.
type RepetitionSet struct {
	counts map[uint64]int
}

func NewRepetitionSet() *RepetitionSet {
	return &RepetitionSet{counts: make(map[uint64]int, 64)}
}

func (r *RepetitionSet) Push(hash uint64) { r.counts[hash]++ }
func (r *RepetitionSet) Pop(hash uint64) {
	if r.counts[hash] <= 1 {
		delete(r.counts, hash)
	} else {
		r.counts[hash]--
	}
}
func (r *RepetitionSet) Count(hash uint64) int { return r.counts[hash] }

// TerminalStateWith classifies pos given its precomputed legal-move list
// and a repetition set tracking the game line; passing the move list in
// avoids generating it twice when the caller already has it (the search
// always does).
func (pos *Position) TerminalStateWith(legalMoves []Move, reps *RepetitionSet) TerminalState {
	if reps != nil && reps.Count(pos.Zobrist()) >= 3 {
		return DrawByRepetition
	}
	if pos.HalfMoveClock() >= 100 {
		return DrawByFiftyMove
	}
	if len(legalMoves) == 0 {
		if pos.IsInCheck(pos.SideToMove) {
			if pos.SideToMove == White {
				return BlackMates
			}
			return WhiteMates
		}
		return DrawByStalemate
	}
	if pos.hasInsufficientMaterial() {
		return DrawByMaterial
	}
	return Ongoing
}

// TerminalState is a convenience wrapper that generates the legal-move
// list itself; callers on a hot path should prefer TerminalStateWith.
func (pos *Position) TerminalState(reps *RepetitionSet) TerminalState {
	return pos.TerminalStateWith(pos.LegalMoves(), reps)
}

// hasInsufficientMaterial covers K v K, K+minor v K, and K+B v K+B with
// same-colored bishops.
func (pos *Position) hasInsufficientMaterial() bool {
	if pos.pawns != 0 || pos.orthogonalSliders&^pos.diagonalSliders != 0 {
		return false // any pawn, rook, or queen on board rules this out
	}
	// orthogonalSliders &^ diagonalSliders excludes queens counted twice;
	// queens also make mate possible, so require no queen either.
	if pos.diagonalSliders&pos.orthogonalSliders != 0 {
		return false // a queen is present
	}
	minorCount := pos.knights.Popcnt() + pos.diagonalSliders.Popcnt()
	if minorCount == 0 {
		return true // K v K
	}
	if minorCount == 1 {
		return true // K+minor v K
	}
	whiteBishops := pos.diagonalSliders & pos.whitePieces
	blackBishops := pos.diagonalSliders & pos.blackPieces
	if pos.knights == 0 && whiteBishops.Popcnt() == 1 && blackBishops.Popcnt() == 1 {
		return squareColor(whiteBishops.AsSquare()) == squareColor(blackBishops.AsSquare())
	}
	return false
}

func squareColor(sq Square) int {
	return (sq.Rank() + sq.File()) & 1
}
