package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chesscore/chesscore/engine"
)

func TestFENStartPosition(t *testing.T) {
	epd, err := ParseFEN(engine.FENStartPos)
	require.NoError(t, err)

	pos := epd.Position
	assert.Equal(t, engine.ColorFigure(engine.White, engine.Rook), pos.PieceAt(engine.SquareA1))
	assert.Equal(t, engine.ColorFigure(engine.White, engine.King), pos.PieceAt(engine.SquareE1))
	assert.Equal(t, engine.ColorFigure(engine.Black, engine.Queen), pos.PieceAt(engine.SquareD8))
	for f := 0; f < 8; f++ {
		assert.Equal(t, engine.ColorFigure(engine.White, engine.Pawn), pos.PieceAt(engine.RankFile(1, f)))
		assert.Equal(t, engine.ColorFigure(engine.Black, engine.Pawn), pos.PieceAt(engine.RankFile(6, f)))
	}
	assert.Equal(t, engine.White, pos.SideToMove)
	assert.Equal(t, engine.AnyCastle, pos.CastlingAbility())
	assert.Equal(t, engine.SquareNone, pos.EnpassantSquare())
}

func TestEPDParser(t *testing.T) {
	// An EPD taken from http://www.stmintz.com/ccc/index.php?id=20631
	line := "rnb2r1k/pp2p2p/2pp2p1/q2P1p2/8/1Pb2NP1/PB2PPBP/R2Q1RK1 w - - bm Qd2 Qe1; fmvn 123; hmvc 15; id \"BK.14\"; c9 \"draw\";"
	epd, err := ParseEPD(line)
	require.NoError(t, err)

	assert.Equal(t, "BK.14", epd.Id)

	require.Len(t, epd.BestMove, 2)
	assert.Equal(t, "d1d2", epd.BestMove[0].UCI())
	assert.Equal(t, "d1e1", epd.BestMove[1].UCI())

	assert.Equal(t, 123, epd.Position.FullMoveNumber)
	assert.Equal(t, 15, epd.Position.HalfMoveClock())
	assert.Equal(t, "draw", epd.Comment["c9"])
}

func TestEPDString(t *testing.T) {
	line := "r3r1k1/ppqb1ppp/8/4p1NQ/8/2P5/PP3PPP/R3R1K1 b - - bm Bf5; id \"BK.12\";"

	epd, err := ParseEPD(line)
	require.NoError(t, err)
	assert.Equal(t, line, epd.String())
}

func TestEPDUnknownOperator(t *testing.T) {
	line := "4k3/8/8/8/8/8/8/4K3 w - - acd 12; id \"minimal\";"
	epd, err := ParseEPD(line)
	require.NoError(t, err)
	assert.Equal(t, "minimal", epd.Id)
}

func TestEPDRejectsIllegalBestMove(t *testing.T) {
	_, err := ParseEPD("4k3/8/8/8/8/8/8/4K3 w - - bm Qd5;")
	assert.Error(t, err)
}
