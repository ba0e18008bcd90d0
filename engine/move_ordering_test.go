package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderMovesRanks(t *testing.T) {
	hash := Move{From: SquareG1, To: SquareF3, Piece: ColorFigure(White, Knight)}
	capture := Move{From: SquareE4, To: SquareD5, Piece: ColorFigure(White, Pawn), Capture: ColorFigure(Black, Queen)}
	promo := Move{From: SquareA7, To: SquareA8, Piece: ColorFigure(White, Pawn), Promotion: ColorFigure(White, Queen)}
	killer := Move{From: SquareB1, To: SquareC3, Piece: ColorFigure(White, Knight)}
	quiet := Move{From: SquareH2, To: SquareH3, Piece: ColorFigure(White, Pawn)}

	killers := &killerTable{}
	killers.Save(2, killer)
	history := &historyTable{}

	moves := []Move{quiet, killer, promo, capture, hash}
	orderMoves(moves, hash, 2, killers, history)

	assert.Equal(t, []Move{hash, capture, promo, killer, quiet}, moves)
}

func TestOrderMovesMVVLVA(t *testing.T) {
	pawnTakesQueen := Move{From: SquareE4, To: SquareD5, Piece: ColorFigure(White, Pawn), Capture: ColorFigure(Black, Queen)}
	queenTakesQueen := Move{From: SquareD1, To: SquareD5, Piece: ColorFigure(White, Queen), Capture: ColorFigure(Black, Queen)}
	pawnTakesPawn := Move{From: SquareA4, To: SquareB5, Piece: ColorFigure(White, Pawn), Capture: ColorFigure(Black, Pawn)}

	moves := []Move{pawnTakesPawn, queenTakesQueen, pawnTakesQueen}
	orderMoves(moves, NullMove, 0, nil, nil)

	assert.Equal(t, []Move{pawnTakesQueen, queenTakesQueen, pawnTakesPawn}, moves)
}

func TestOrderMovesHistory(t *testing.T) {
	a := Move{From: SquareA2, To: SquareA3, Piece: ColorFigure(White, Pawn)}
	b := Move{From: SquareB2, To: SquareB3, Piece: ColorFigure(White, Pawn)}
	history := &historyTable{}
	history.bump(b, 100)

	moves := []Move{a, b}
	orderMoves(moves, NullMove, 0, &killerTable{}, history)
	assert.Equal(t, []Move{b, a}, moves)
}

func TestOrderingIsStableForTies(t *testing.T) {
	a := Move{From: SquareA2, To: SquareA3, Piece: ColorFigure(White, Pawn)}
	b := Move{From: SquareB2, To: SquareB3, Piece: ColorFigure(White, Pawn)}
	c := Move{From: SquareC2, To: SquareC3, Piece: ColorFigure(White, Pawn)}

	moves := []Move{a, b, c}
	orderMoves(moves, NullMove, 0, &killerTable{}, &historyTable{})
	assert.Equal(t, []Move{a, b, c}, moves)
}

func TestKillerTable(t *testing.T) {
	k := &killerTable{}
	m1 := Move{From: SquareA2, To: SquareA3, Piece: ColorFigure(White, Pawn)}
	m2 := Move{From: SquareB2, To: SquareB3, Piece: ColorFigure(White, Pawn)}

	k.Save(5, m1)
	require.True(t, k.Is(5, m1))
	assert.False(t, k.Is(4, m1))

	// The newest killer goes first, the previous one slides down, and
	// re-saving the current head is a no-op.
	k.Save(5, m2)
	assert.True(t, k.Is(5, m1))
	assert.True(t, k.Is(5, m2))
	k.Save(5, m2)
	assert.True(t, k.Is(5, m1))
}

func TestHistoryDecayAndRescale(t *testing.T) {
	h := &historyTable{}
	m := Move{From: SquareA2, To: SquareA3, Piece: ColorFigure(White, Pawn)}
	h.bump(m, 64)
	require.Equal(t, int32(64), h.get(m))
	h.decay(m)
	assert.Equal(t, int32(56), h.get(m))

	// Overflowing the cap rescales every counter instead of wrapping.
	h.bump(m, 1<<21)
	assert.Less(t, h.get(m), int32(1<<21))
	assert.Greater(t, h.get(m), int32(0))
}
