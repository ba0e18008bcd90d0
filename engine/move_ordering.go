package engine

import "sort"

// mvvlvaBonus holds one value per Figure; mvvlva scores a capture as
// bonus[victim]*8 - bonus[attacker], favoring the most valuable victim
// and, among equal victims, the least valuable attacker.
var mvvlvaBonus = [FigureArraySize]int32{0, 10, 20, 30, 40, 50, 0}

func mvvlva(m Move) int32 {
	if !m.IsCapture() {
		return 0
	}
	victim := m.Capture.Figure()
	if m.MoveType == Enpassant {
		victim = Pawn
	}
	attacker := m.Piece.Figure()
	return mvvlvaBonus[victim]*8 - mvvlvaBonus[attacker]
}

// historyTable scores quiet moves by how often they have produced a
// cutoff, indexed by (from, to).
type historyTable struct {
	score [SquareArraySize][SquareArraySize]int32
}

func (h *historyTable) get(m Move) int32 { return h.score[m.From][m.To] }

func (h *historyTable) bump(m Move, delta int32) {
	h.score[m.From][m.To] += delta
	if h.score[m.From][m.To] > 1<<20 || h.score[m.From][m.To] < -(1<<20) {
		for f := 0; f < SquareArraySize; f++ {
			for t := 0; t < SquareArraySize; t++ {
				h.score[f][t] /= 2
			}
		}
	}
}

func (h *historyTable) decay(m Move) { h.bump(m, -h.get(m)/8) }

// killerTable holds, per ply, the most recent quiet moves that produced
// a beta cutoff; two per ply, most recent first.
type killerTable struct {
	killers [MaxPly][2]Move
}

func (k *killerTable) Is(ply int, m Move) bool {
	return m == k.killers[ply][0] || m == k.killers[ply][1]
}

func (k *killerTable) Save(ply int, m Move) {
	if m == k.killers[ply][0] {
		return
	}
	k.killers[ply][1] = k.killers[ply][0]
	k.killers[ply][0] = m
}

// orderMoves ranks the hash move first, then captures by MVV-LVA, then
// promotions, then the ply's killers, then remaining quiets by history.
// Ties keep their generation order because sort.SliceStable is used.
func orderMoves(moves []Move, hash Move, ply int, killers *killerTable, history *historyTable) {
	rank := func(m Move) int {
		switch {
		case m == hash:
			return 0
		case m.IsCapture():
			return 1
		case m.IsPromotion():
			return 2
		case killers != nil && killers.Is(ply, m):
			return 3
		default:
			return 4
		}
	}
	sort.SliceStable(moves, func(i, j int) bool {
		ri, rj := rank(moves[i]), rank(moves[j])
		if ri != rj {
			return ri < rj
		}
		switch ri {
		case 1:
			return mvvlva(moves[i]) > mvvlva(moves[j])
		case 4:
			hi, hj := int32(0), int32(0)
			if history != nil {
				hi, hj = history.get(moves[i]), history.get(moves[j])
			}
			return hi > hj
		default:
			return false
		}
	})
}
