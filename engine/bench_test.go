package engine

import "testing"

func benchPosition(b *testing.B, fen string) *Position {
	b.Helper()
	pos, err := PositionFromFEN(fen)
	if err != nil {
		b.Fatal(err)
	}
	return pos
}

func BenchmarkLegalMoves(b *testing.B) {
	pos := benchPosition(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pos.LegalMoves()
	}
}

func BenchmarkMakeUndo(b *testing.B) {
	pos := benchPosition(b, FENStartPos)
	moves := pos.LegalMoves()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		m := moves[i%len(moves)]
		pos.Make(m)
		pos.Undo()
	}
}

func BenchmarkEvaluate(b *testing.B) {
	pos := benchPosition(b, "r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq - 0 1")
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		Evaluate(pos)
	}
}

func BenchmarkPerft4(b *testing.B) {
	pos := benchPosition(b, FENStartPos)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		countNodes(pos, 4)
	}
}

func BenchmarkSearchDepth5(b *testing.B) {
	for i := 0; i < b.N; i++ {
		b.StopTimer()
		pos := benchPosition(b, FENStartPos)
		eng := NewEngine(pos, NopLogger{}, Options{HashSizeMB: 16})
		b.StartTimer()
		eng.Search(Limits{MaxDepth: 5})
	}
}
