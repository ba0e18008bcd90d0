package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashTableStoreProbe(t *testing.T) {
	ht := NewHashTable(1)
	hash := uint64(0xdeadbeefcafe1234)
	move := Move{From: SquareE2, To: SquareE4, Piece: ColorFigure(White, Pawn)}

	_, ok := ht.Probe(hash)
	assert.False(t, ok)

	ht.Store(hash, 5, 120, move, Exact)
	entry, ok := ht.Probe(hash)
	require.True(t, ok)
	assert.Equal(t, int32(5), entry.depth)
	assert.Equal(t, int32(120), entry.score)
	assert.Equal(t, move, entry.move)
	assert.Equal(t, Exact, entry.boundKind)
}

func TestHashTableDeeperEntryPreserved(t *testing.T) {
	ht := NewHashTable(1)
	hash := uint64(42)
	deep := Move{From: SquareG1, To: SquareF3, Piece: ColorFigure(White, Knight)}
	shallow := Move{From: SquareB1, To: SquareC3, Piece: ColorFigure(White, Knight)}

	ht.Store(hash, 8, 50, deep, LowerBound)
	ht.Store(hash, 3, -20, shallow, LowerBound)
	entry, ok := ht.Probe(hash)
	require.True(t, ok)
	assert.Equal(t, deep, entry.move, "shallower non-exact entry replaced a deeper one")

	// An exact bound is allowed to replace a deeper speculative one.
	ht.Store(hash, 3, 10, shallow, Exact)
	entry, ok = ht.Probe(hash)
	require.True(t, ok)
	assert.Equal(t, shallow, entry.move)
}

func TestHashTableLockRejectsCollisions(t *testing.T) {
	ht := NewHashTable(1)
	a := uint64(0x00000001_00000010)
	// Same low bits, different high bits: maps to the same slot but the
	// lock word must reject the probe.
	b := a ^ 0xffffffff_00000000

	ht.Store(a, 4, 77, NullMove, Exact)
	_, ok := ht.Probe(b)
	assert.False(t, ok)
}

func TestMateScoreStorageRoundTrip(t *testing.T) {
	for _, ply := range []int{0, 3, 17} {
		for _, score := range []int32{MateScore - 5, MatedScore + 9, 120, -350, 0} {
			stored := MateScoreToStorage(score, ply)
			assert.Equal(t, score, MateScoreFromStorage(stored, ply), "score %d ply %d", score, ply)
		}
	}
	// Plain evaluations pass through untouched.
	assert.Equal(t, int32(200), MateScoreToStorage(200, 9))
}
