package main

import "testing"

// The search is deterministic: replaying the benchmark twice must visit
// exactly the same number of nodes.
func TestDeterministicNodeCount(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
	}
	first := games[0].eval(3)
	second := games[0].eval(3)
	if first != second {
		t.Fatalf("node count not reproducible: %d then %d", first, second)
	}
	if first == 0 {
		t.Fatal("benchmark searched no nodes")
	}
}
