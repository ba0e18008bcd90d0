package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestShiftsDoNotWrap(t *testing.T) {
	assert.Equal(t, BbEmpty, BbFileA.Left())
	assert.Equal(t, BbEmpty, BbFileH.Right())
	assert.Equal(t, BbEmpty, BbRank8.Up())
	assert.Equal(t, BbEmpty, BbRank1.Down())
	assert.Equal(t, SquareB2.Bitboard(), SquareA1.Bitboard().UpRight())
	assert.Equal(t, BbEmpty, SquareA1.Bitboard().UpLeft())
	assert.Equal(t, BbEmpty, SquareH4.Bitboard().DownRight())
}

func TestTranslate(t *testing.T) {
	assert.Equal(t, SquareD5.Bitboard(), SquareB2.Bitboard().Translate(2, 3))
	assert.Equal(t, SquareB2.Bitboard(), SquareD5.Bitboard().Translate(-2, -3))
	// Members pushed off the board vanish instead of wrapping.
	assert.Equal(t, BbEmpty, SquareG1.Bitboard().Translate(3, 0))
	assert.Equal(t, BbEmpty, SquareA8.Bitboard().Translate(0, 1))
	assert.Equal(t, SquareH8.Bitboard(), SquareA1.Bitboard().Translate(7, 7))
}

func TestPopAndSquares(t *testing.T) {
	bb := SquareC3.Bitboard() | SquareA1.Bitboard() | SquareH8.Bitboard()
	assert.Equal(t, []Square{SquareA1, SquareC3, SquareH8}, bb.Squares())

	assert.Equal(t, SquareA1, bb.Pop())
	assert.Equal(t, SquareC3, bb.Pop())
	assert.Equal(t, SquareH8, bb.Pop())
	assert.True(t, bb.Empty())
}

func TestLSB(t *testing.T) {
	bb := SquareC3.Bitboard() | SquareF6.Bitboard()
	assert.Equal(t, SquareC3.Bitboard(), bb.LSB())
	assert.Equal(t, BbEmpty, BbEmpty.LSB())
}

func TestBits(t *testing.T) {
	bb := SquareA1.Bitboard() | SquareC3.Bitboard() | SquareH8.Bitboard()
	var got []Bitboard
	bb.Bits(func(b Bitboard) { got = append(got, b) })
	assert.Equal(t, []Bitboard{SquareA1.Bitboard(), SquareC3.Bitboard(), SquareH8.Bitboard()}, got)
}

func TestSubsets(t *testing.T) {
	bb := SquareA1.Bitboard() | SquareB2.Bitboard() | SquareC3.Bitboard()
	var seen []Bitboard
	bb.Subsets(func(sub Bitboard) {
		assert.Equal(t, sub, sub&bb)
		seen = append(seen, sub)
	})
	assert.Len(t, seen, 8)
	assert.Equal(t, BbEmpty, seen[0])
}

func TestSetClearHas(t *testing.T) {
	bb := BbEmpty.Set(SquareE4)
	assert.True(t, bb.Has(SquareE4))
	assert.False(t, bb.Has(SquareE5))
	assert.Equal(t, BbEmpty, bb.Clear(SquareE4))
}
