package engine

// This file implements staged bitboard move generation with check and
// pin masks: every move it emits is already legal. No move is ever
// produced and later discarded by a trial make/undo plus a check test;
// a pin or check that would make a move illegal is folded into the
// destination mask before the move is built at all. Pin rays are found
// by treating the king as a slider of each relevant kind and counting
// the pieces that sit on each ray to an opposing slider.

// MaxMoves is a safe upper bound on the legal moves from any reachable
// chess position; the generator never needs to grow past it.
const MaxMoves = 256

var promotionOrder = [4]Figure{Queen, Rook, Bishop, Knight}

// LegalMoves returns every legal move for the side to move.
func (pos *Position) LegalMoves() []Move {
	moves := make([]Move, 0, MaxMoves)
	pos.generateMoves(&moves)
	return moves
}

// LegalCapturesAndPromotions restricts LegalMoves to captures and
// promotions, as required by quiescence search; when the side to move is
// in check every evasion is kept, since all of them matter for escaping
// check.
func (pos *Position) LegalCapturesAndPromotions() []Move {
	all := pos.LegalMoves()
	if pos.IsInCheck(pos.SideToMove) {
		return all
	}
	out := all[:0]
	for _, m := range all {
		if m.IsCapture() || m.IsPromotion() {
			out = append(out, m)
		}
	}
	return out
}

func (pos *Position) generateMoves(moves *[]Move) {
	us := pos.SideToMove
	them := us.Opposite()
	kingSq := pos.KingSquare(us)
	occ := pos.Occupied()
	own := pos.byColor(us)
	enemy := pos.byColor(them)

	checkMask, checkers, numCheckers := pos.computeCheckMask(us, kingSq, occ)
	orthoPin, diagPin, pinned := pos.computePinMasks(us, them, kingSq, occ)

	pos.generateKingMoves(moves, us, kingSq, own)
	if numCheckers > 1 {
		return // double check: only king moves escape
	}
	pos.generateCastles(moves, us, occ, them) // internally a no-op while in check

	nonPinned := ^pinned

	pos.generatePawnMoves(moves, us, them, occ, enemy, checkMask, checkers, orthoPin, diagPin, pinned, nonPinned)
	pos.generateKnightMoves(moves, us, own, checkMask, nonPinned)
	pos.generateSliderMoves(moves, us, own, occ, checkMask, orthoPin, diagPin)
}

// computeCheckMask returns the set of squares that resolve a check
// (destination squares a non-king mover may land on), the raw set of
// checking pieces, and the number of checkers. With zero checkers the
// mask is the universe; with two or more, only king moves are legal and
// the returned mask is unused.
func (pos *Position) computeCheckMask(us Color, kingSq Square, occ Bitboard) (mask, checkers Bitboard, numCheckers int) {
	them := us.Opposite()
	checkers = pos.attackersTo(kingSq, them, occ)
	n := checkers.Popcnt()
	if n == 0 {
		return BbFull, BbEmpty, 0
	}
	if n > 1 {
		return BbEmpty, checkers, n
	}
	checkerSq := checkers.AsSquare()
	mask = checkerSq.Bitboard()
	cp := pos.PieceAt(checkerSq)
	if cp.Figure().IsDiagonalSlider() || cp.Figure().IsOrthogonalSlider() {
		mask |= InBetween(kingSq, checkerSq)
	}
	return mask, checkers, 1
}

// computePinMasks finds, for each opposing slider whose ray to the king
// contains exactly one friendly piece, the ray (inclusive of the
// slider's own square) that piece is pinned to.
func (pos *Position) computePinMasks(us, them Color, kingSq Square, occ Bitboard) (orthoPin, diagPin, pinned Bitboard) {
	own := pos.byColor(us)

	for sliders := pos.orthogonalSliders & pos.byColor(them) & RookMask(kingSq); sliders != 0; {
		s := sliders.Pop()
		between := InBetween(kingSq, s)
		blockers := between & occ
		if blockers != 0 && blockers&own == blockers && blockers.Popcnt() == 1 {
			orthoPin |= between | s.Bitboard()
			pinned |= blockers
		}
	}

	for sliders := pos.diagonalSliders & pos.byColor(them) & BishopMask(kingSq); sliders != 0; {
		s := sliders.Pop()
		between := InBetween(kingSq, s)
		blockers := between & occ
		if blockers != 0 && blockers&own == blockers && blockers.Popcnt() == 1 {
			diagPin |= between | s.Bitboard()
			pinned |= blockers
		}
	}
	return
}

func (pos *Position) generateKingMoves(moves *[]Move, us Color, kingSq Square, own Bitboard) {
	them := us.Opposite()
	danger := pos.AttacksThroughOwnKing(them)
	dests := KingAttack(kingSq) &^ own &^ danger
	p := ColorFigure(us, King)
	for d := dests; d != 0; {
		to := d.Pop()
		pos.emit(moves, p, kingSq, to, Normal)
	}
}

func (pos *Position) generateCastles(moves *[]Move, us Color, occ Bitboard, them Color) {
	if pos.IsInCheck(us) {
		return
	}
	rights := pos.curr.CastlingAbility
	danger := pos.AttacksThroughOwnKing(them)
	if us == White {
		if rights&WhiteOO != 0 && occ&(SquareF1.Bitboard()|SquareG1.Bitboard()) == 0 &&
			danger&(SquareE1.Bitboard()|SquareF1.Bitboard()|SquareG1.Bitboard()) == 0 {
			pos.emit(moves, ColorFigure(White, King), SquareE1, SquareG1, Castling)
		}
		if rights&WhiteOOO != 0 && occ&(SquareB1.Bitboard()|SquareC1.Bitboard()|SquareD1.Bitboard()) == 0 &&
			danger&(SquareE1.Bitboard()|SquareD1.Bitboard()|SquareC1.Bitboard()) == 0 {
			pos.emit(moves, ColorFigure(White, King), SquareE1, SquareC1, Castling)
		}
	} else {
		if rights&BlackOO != 0 && occ&(SquareF8.Bitboard()|SquareG8.Bitboard()) == 0 &&
			danger&(SquareE8.Bitboard()|SquareF8.Bitboard()|SquareG8.Bitboard()) == 0 {
			pos.emit(moves, ColorFigure(Black, King), SquareE8, SquareG8, Castling)
		}
		if rights&BlackOOO != 0 && occ&(SquareB8.Bitboard()|SquareC8.Bitboard()|SquareD8.Bitboard()) == 0 &&
			danger&(SquareE8.Bitboard()|SquareD8.Bitboard()|SquareC8.Bitboard()) == 0 {
			pos.emit(moves, ColorFigure(Black, King), SquareE8, SquareC8, Castling)
		}
	}
}

func (pos *Position) generateKnightMoves(moves *[]Move, us Color, own, checkMask, nonPinned Bitboard) {
	p := ColorFigure(us, Knight)
	for kn := pos.knights & own & nonPinned; kn != 0; {
		from := kn.Pop()
		dests := KnightAttack(from) &^ own & checkMask
		for d := dests; d != 0; {
			to := d.Pop()
			pos.emit(moves, p, from, to, Normal)
		}
	}
}

// generateSliderMoves handles bishops, rooks, and queens in one pass:
// a queen is treated as both a diagonal and an orthogonal slider on the
// same square, so its two ray families are simply unioned rather than
// generated by two separate, potentially overlapping, code paths.
func (pos *Position) generateSliderMoves(moves *[]Move, us Color, own, occ, checkMask, orthoPin, diagPin Bitboard) {
	for s := pos.diagonalSliders & own; s != 0; {
		from := s.Pop()
		fig := Bishop
		if pos.orthogonalSliders.Has(from) {
			fig = Queen
		}
		attacks := BishopAttack(from, occ) &^ own & checkMask
		if diagPin.Has(from) {
			attacks &= diagPin
		} else if orthoPin.Has(from) {
			attacks = BbEmpty // diagonal component of an orthogonally pinned piece is always illegal
		}
		for d := attacks; d != 0; {
			to := d.Pop()
			pos.emit(moves, ColorFigure(us, fig), from, to, Normal)
		}
	}

	for s := pos.orthogonalSliders & own; s != 0; {
		from := s.Pop()
		fig := Rook
		if pos.diagonalSliders.Has(from) {
			fig = Queen
		}
		attacks := RookAttack(from, occ) &^ own & checkMask
		if orthoPin.Has(from) {
			attacks &= orthoPin
		} else if diagPin.Has(from) {
			attacks = BbEmpty
		}
		for d := attacks; d != 0; {
			to := d.Pop()
			pos.emit(moves, ColorFigure(us, fig), from, to, Normal)
		}
	}
}

func (pos *Position) generatePawnMoves(moves *[]Move, us, them Color, occ, enemy, checkMask, checkers, orthoPin, diagPin, pinned, nonPinned Bitboard) {
	own := pos.byColor(us)
	pawns := pos.pawns & own
	empty := ^occ

	var forward, backward func(Bitboard) Bitboard
	var startRank Bitboard
	var promoRank int
	if us == White {
		forward = func(b Bitboard) Bitboard { return b.Up() }
		backward = func(b Bitboard) Bitboard { return b.Down() }
		startRank = BbRank3
		promoRank = 7
	} else {
		forward = func(b Bitboard) Bitboard { return b.Down() }
		backward = func(b Bitboard) Bitboard { return b.Up() }
		startRank = BbRank6
		promoRank = 0
	}

	unpinnedPawns := pawns & nonPinned
	orthoPinnedPawns := pawns & pinned & orthoPin &^ diagPin
	diagPinnedPawns := pawns & pinned & diagPin &^ orthoPin
	// Diagonally pinned pawns can never push, and orthogonally pinned
	// pawns can never capture (§4.4): each group below only drives the
	// move kind its pin direction permits.

	genPush := func(sources, pinRestrict Bitboard, restricted bool) {
		single := forward(sources) & empty
		double := forward(single&startRank) & empty
		single &= checkMask
		double &= checkMask
		if restricted {
			single &= pinRestrict
			double &= pinRestrict
		}
		for d := single; d != 0; {
			to := d.Pop()
			from := backward(to.Bitboard()).AsSquare()
			pos.emitPawnMove(moves, us, from, to, NoPiece, promoRank)
		}
		for d := double; d != 0; {
			to := d.Pop()
			mid := backward(to.Bitboard()).AsSquare()
			from := backward(mid.Bitboard()).AsSquare()
			pos.emit(moves, ColorFigure(us, Pawn), from, to, Normal)
		}
	}
	genPush(unpinnedPawns, 0, false)
	genPush(orthoPinnedPawns, orthoPin, true)

	genCaptures := func(sources, pinRestrict Bitboard, restricted bool) {
		var left, right Bitboard
		// left/right name the file the pawn moves *toward*; the rank
		// delta back to the source is always -1 for White, +1 for Black.
		if us == White {
			left, right = sources.UpLeft(), sources.UpRight()
		} else {
			left, right = sources.DownLeft(), sources.DownRight()
		}
		targets := enemy & checkMask
		left &= targets
		right &= targets
		if restricted {
			left &= pinRestrict
			right &= pinRestrict
		}
		captureFrom := func(dests Bitboard, fileDelta int) {
			rankDelta := -1
			if us == Black {
				rankDelta = 1
			}
			for d := dests; d != 0; {
				to := d.Pop()
				from := to.Relative(rankDelta, fileDelta)
				pos.emitPawnMove(moves, us, from, to, pos.PieceAt(to), promoRank)
			}
		}
		captureFrom(left, 1)
		captureFrom(right, -1)

		// En-passant is handled on its own: the destination square is
		// never the checker's square even when the capture does resolve
		// a check (it removes the checking pawn, which sits beside, not
		// on, the ep target), so it cannot be masked by checkMask alone.
		if pos.curr.EnpassantSquare == SquareNone {
			return
		}
		epSq := pos.curr.EnpassantSquare
		epBb := epSq.Bitboard()
		if restricted && epBb&pinRestrict == 0 {
			return // a pinned pawn may only capture en passant along its pin ray
		}
		var epSources Bitboard
		if us == White {
			epSources = (epBb.DownLeft() | epBb.DownRight()) & sources
		} else {
			epSources = (epBb.UpLeft() | epBb.UpRight()) & sources
		}
		if epSources == BbEmpty {
			return
		}
		capturedPawnSq := RankFile(epSq.Rank()+backRankDelta(us), epSq.File())
		resolvesCheck := checkMask == BbFull || epBb&checkMask != 0 || checkers&capturedPawnSq.Bitboard() != 0
		if !resolvesCheck {
			return
		}
		for d := epSources; d != 0; {
			from := d.Pop()
			if pos.enpassantLegal(us, from, epSq) {
				pos.emit(moves, ColorFigure(us, Pawn), from, epSq, Enpassant)
			}
		}
	}
	genCaptures(unpinnedPawns, 0, false)
	genCaptures(diagPinnedPawns, diagPin, true)
}

// backRankDelta returns the rank offset from an en-passant target square
// back to the captured pawn's actual square.
func backRankDelta(us Color) int {
	if us == White {
		return -1
	}
	return 1
}

// emitPawnMove appends a normal pawn move, expanding to four promotion
// moves (Queen, Rook, Bishop, Knight order) when to lands on the last
// rank.
func (pos *Position) emitPawnMove(moves *[]Move, us Color, from, to Square, capture Piece, promoRank int) {
	if to.Rank() == promoRank {
		for _, f := range promotionOrder {
			*moves = append(*moves, Move{
				From: from, To: to,
				Piece:     ColorFigure(us, Pawn),
				Capture:   capture,
				Promotion: ColorFigure(us, f),
				MoveType:  Normal,
			})
		}
		return
	}
	*moves = append(*moves, Move{
		From: from, To: to,
		Piece:    ColorFigure(us, Pawn),
		Capture:  capture,
		MoveType: Normal,
	})
}

// enpassantLegal performs the horizontal-discovered-check test: with
// both the capturing and captured pawn hypothetically removed, the king
// must not lie on a clear rank ray to an opposing rook or queen.
func (pos *Position) enpassantLegal(us Color, from, to Square) bool {
	them := us.Opposite()
	kingSq := pos.KingSquare(us)
	capturedSq := RankFile(from.Rank(), to.File())
	if kingSq.Rank() != from.Rank() {
		return true
	}
	occ := pos.Occupied().Clear(from).Clear(capturedSq).Set(to)
	attackers := RookAttack(kingSq, occ) & pos.orthogonalSliders & pos.byColor(them)
	return attackers == BbEmpty
}

func (pos *Position) emit(moves *[]Move, p Piece, from, to Square, mt MoveType) {
	capture := NoPiece
	switch mt {
	case Enpassant:
		capture = pos.PieceAt(RankFile(from.Rank(), to.File()))
	case Normal:
		capture = pos.PieceAt(to)
	}
	*moves = append(*moves, Move{
		From: from, To: to,
		Piece:    p,
		Capture:  capture,
		MoveType: mt,
	})
}
