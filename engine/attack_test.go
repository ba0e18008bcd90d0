package engine

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The magic tables and the Kogge-Stone fill must agree with the naive
// ray walk for every square over a large random occupancy sample.
func TestSliderStrategiesAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	samples := 2000
	if testing.Short() {
		samples = 200
	}
	for i := 0; i < samples; i++ {
		occupied := Bitboard(rng.Uint64() & rng.Uint64())
		for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
			ref := RookAttackNaive(sq, occupied)
			require.Equal(t, ref, RookAttack(sq, occupied),
				"rook magic disagrees at %v occ %x", sq, occupied)
			require.Equal(t, ref, RookAttackKoggeStone(sq, occupied),
				"rook kogge-stone disagrees at %v occ %x", sq, occupied)

			ref = BishopAttackNaive(sq, occupied)
			require.Equal(t, ref, BishopAttack(sq, occupied),
				"bishop magic disagrees at %v occ %x", sq, occupied)
			require.Equal(t, ref, BishopAttackKoggeStone(sq, occupied),
				"bishop kogge-stone disagrees at %v occ %x", sq, occupied)
		}
	}
}

// Exhaustive agreement over every subset of each square's relevance
// mask; this covers every distinct input the magic lookup can see.
func TestSliderStrategiesAgreeOnAllRelevantSubsets(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
	}
	for sq := SquareMinValue; sq <= SquareMaxValue; sq++ {
		relevantMask(sq, rookDeltas).Subsets(func(occ Bitboard) {
			ref := RookAttackNaive(sq, occ)
			if RookAttack(sq, occ) != ref || RookAttackKoggeStone(sq, occ) != ref {
				t.Fatalf("rook disagreement at %v occ %x", sq, occ)
			}
		})
		relevantMask(sq, bishopDeltas).Subsets(func(occ Bitboard) {
			ref := BishopAttackNaive(sq, occ)
			if BishopAttack(sq, occ) != ref || BishopAttackKoggeStone(sq, occ) != ref {
				t.Fatalf("bishop disagreement at %v occ %x", sq, occ)
			}
		})
	}
}

func TestQueenAttackIsUnion(t *testing.T) {
	occ := SquareD5.Bitboard() | SquareF3.Bitboard() | SquareB2.Bitboard()
	for _, sq := range []Square{SquareA1, SquareD4, SquareH8} {
		assert.Equal(t, RookAttack(sq, occ)|BishopAttack(sq, occ), QueenAttack(sq, occ))
		assert.Equal(t, QueenAttack(sq, occ), QueenAttackKoggeStone(sq, occ))
	}
}

func TestRayMasks(t *testing.T) {
	for _, sq := range []Square{SquareA1, SquareD4, SquareH8} {
		assert.Equal(t, RookAttackNaive(sq, BbEmpty), RookMask(sq))
		assert.Equal(t, BishopAttackNaive(sq, BbEmpty), BishopMask(sq))
		assert.Equal(t, RookMask(sq)|BishopMask(sq), QueenMask(sq))
	}
	assert.Equal(t, 14, RookMask(SquareD4).Popcnt())
	assert.Equal(t, 13, BishopMask(SquareD4).Popcnt())
}

func TestKnightAttack(t *testing.T) {
	assert.Equal(t, 2, KnightAttack(SquareA1).Popcnt())
	assert.Equal(t, 8, KnightAttack(SquareD4).Popcnt())
	assert.True(t, KnightAttack(SquareG1).Has(SquareF3))
	assert.False(t, KnightAttack(SquareG1).Has(SquareG3))
}

func TestKingAttack(t *testing.T) {
	assert.Equal(t, 3, KingAttack(SquareA1).Popcnt())
	assert.Equal(t, 5, KingAttack(SquareE1).Popcnt())
	assert.Equal(t, 8, KingAttack(SquareE4).Popcnt())
}

func TestPawnAttack(t *testing.T) {
	assert.Equal(t, SquareD3.Bitboard()|SquareF3.Bitboard(), PawnAttack(SquareE2, White))
	assert.Equal(t, SquareD6.Bitboard()|SquareF6.Bitboard(), PawnAttack(SquareE7, Black))
	// Edge files attack a single square; there is no wrap-around.
	assert.Equal(t, SquareB3.Bitboard(), PawnAttack(SquareA2, White))
	assert.Equal(t, SquareG5.Bitboard(), PawnAttack(SquareH6, Black))
}

func TestInBetween(t *testing.T) {
	assert.Equal(t, SquareB1.Bitboard()|SquareC1.Bitboard()|SquareD1.Bitboard(),
		InBetween(SquareA1, SquareE1))
	assert.Equal(t, InBetween(SquareA1, SquareE1), InBetween(SquareE1, SquareA1))
	assert.Equal(t, SquareB2.Bitboard()|SquareC3.Bitboard(), InBetween(SquareA1, SquareD4))
	// Adjacent or unaligned pairs have nothing in between.
	assert.Equal(t, BbEmpty, InBetween(SquareA1, SquareA2))
	assert.Equal(t, BbEmpty, InBetween(SquareA1, SquareB3))
}

func TestRelevantMaskEdges(t *testing.T) {
	// A rook in the corner still needs its own rank and file in the
	// mask, minus only the far edge squares.
	mask := relevantMask(SquareA1, rookDeltas)
	assert.Equal(t, 12, mask.Popcnt())
	assert.True(t, mask.Has(SquareA7))
	assert.True(t, mask.Has(SquareG1))
	assert.False(t, mask.Has(SquareA8))
	assert.False(t, mask.Has(SquareH1))

	mask = relevantMask(SquareD4, rookDeltas)
	assert.Equal(t, 10, mask.Popcnt())
}
