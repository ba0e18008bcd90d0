package main

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/chesscore/chesscore/engine"
)

func testHelper(t *testing.T, fen string, testData []counters) {
	for depth, expected := range testData {
		if testing.Short() && expected.nodes > 200000 {
			return
		}

		pos, err := engine.PositionFromFEN(fen)
		require.NoError(t, err, "invalid FEN: %s", fen)

		actual := perft(pos, depth, hashTable)
		if expected != actual {
			t.Errorf("at depth %d expected %+v got %+v", depth, expected, actual)
		}
	}
}

func TestPerftInitial(t *testing.T) {
	testHelper(t, startpos, data[startpos][:7])
}

func TestPerftKiwipete(t *testing.T) {
	testHelper(t, kiwipete, data[kiwipete][:6])
}

func TestPerftDuplain(t *testing.T) {
	testHelper(t, duplain, data[duplain][:8])
}

// nodesHelper checks only the totals for the remaining standard perft
// probes; the per-kind counters above already cover the special moves.
func nodesHelper(t *testing.T, fen string, expected []uint64) {
	for depth, want := range expected {
		if testing.Short() && want > 200000 {
			return
		}
		pos, err := engine.PositionFromFEN(fen)
		require.NoError(t, err)
		got := perft(pos, depth, hashTable).nodes
		if got != want {
			t.Errorf("at depth %d expected %d nodes, got %d", depth, want, got)
		}
	}
}

func TestPerftPromotions(t *testing.T) {
	nodesHelper(t, "r3k2r/Pppp1ppp/1b3nbN/nP6/BBP1P3/q4N2/Pp1P2PP/R2Q1RK1 w kq - 0 1",
		[]uint64{1, 6, 264, 9467, 422333, 15833292, 706045033})
}

func TestPerftTalkchess(t *testing.T) {
	nodesHelper(t, "rnbq1k1r/pp1Pbppp/2p5/8/2B5/8/PPP1NnPP/RNBQK2R w KQ - 1 8",
		[]uint64{1, 44, 1486, 62379, 2103487, 89941194})
}

func TestPerftEdwards(t *testing.T) {
	nodesHelper(t, "r4rk1/1pp1qppp/p1np1n2/2b1p1B1/2B1P1b1/P1NP1N2/1PP1QPPP/R4RK1 w - - 0 10",
		[]uint64{1, 46, 2079, 89890, 3894594, 164075551})
}
