package engine

import (
	"github.com/chesscore/chesscore/config"
)

// Stats reports a few diagnostics about the most recently completed
// search, surfaced through the Logger interface.
type Stats struct {
	Nodes    uint64
	Depth    int32
	SelDepth int32
}

// Logger lets the search report progress without coupling it to any
// particular logging backend. NopLogger is the silent default; the
// enginelog package provides a structured-logging implementation.
type Logger interface {
	BeginSearch()
	EndSearch()
	PrintPV(stats Stats, score int32, pv []Move)
}

type NopLogger struct{}

func (NopLogger) BeginSearch()                              {}
func (NopLogger) EndSearch()                                {}
func (NopLogger) PrintPV(Stats, int32, []Move) {}

// Options configures an Engine beyond its Tuning constants.
type Options struct {
	HashSizeMB int
}

// Engine owns the entire single-threaded search: the position under
// analysis, its transposition table, move-ordering heuristics, and
// principal-variation table. No mutable state is shared across engines.
type Engine struct {
	Options Options
	Log     Logger
	Tuning  config.Tuning
	Stats   Stats

	position *Position
	eval     *Evaluator
	tt       *HashTable
	pv       *pvTable
	history  *historyTable
	killers  *killerTable
	reps     *RepetitionSet

	tc      *TimeControl
	rootPly int
}

// NewEngine constructs a search engine bound to pos. pos is not copied;
// the engine mutates it in place via make/undo and restores it exactly
// on return.
func NewEngine(pos *Position, log Logger, opt Options) *Engine {
	if log == nil {
		log = NopLogger{}
	}
	if opt.HashSizeMB <= 0 {
		opt.HashSizeMB = 32
	}
	return &Engine{
		Options:  opt,
		Log:      log,
		Tuning:   config.DefaultTuning(),
		position: pos,
		eval:     NewEvaluator(DefaultWeights()),
		tt:       NewHashTable(opt.HashSizeMB),
		pv:       newPVTable(),
		history:  &historyTable{},
		killers:  &killerTable{},
		reps:     NewRepetitionSet(),
	}
}

// Stop requests cooperative cancellation of a running search; the
// search returns the best result from its most recently completed
// iteration.
func (eng *Engine) Stop() {
	if eng.tc != nil {
		eng.tc.Stop()
	}
}

// SetPosition replaces the position under analysis.
func (eng *Engine) SetPosition(pos *Position) {
	eng.position = pos
	eng.reps = NewRepetitionSet()
	eng.rootPly = 0
}

func (eng *Engine) ply() int32 { return int32(eng.position.Ply - eng.rootPly) }

// SearchResult is what a completed (or cancelled) search returns: the
// best move found, its score, and the principal variation leading to it.
type SearchResult struct {
	BestMove Move
	Score    int32
	PV       []Move
}

// Search runs iterative deepening from depth 1 up to limits.MaxDepth (or
// MaxPly if unbounded), stopping on the time budget or a forced mate,
// and returns the best move found by the most recently completed
// iteration.
func (eng *Engine) Search(limits Limits) SearchResult {
	eng.tc = NewTimeControl(limits)
	eng.rootPly = eng.position.Ply
	rootHash := eng.position.Zobrist()
	eng.reps.Push(rootHash)
	defer eng.reps.Pop(rootHash)
	eng.Log.BeginSearch()
	defer eng.Log.EndSearch()

	var result SearchResult
	var score int32
	for depth := int32(1); eng.tc.NextDepth(depth); depth++ {
		s := eng.searchRoot(depth, score)
		if eng.tc.stopped && depth > 1 {
			break
		}
		score = s
		pv := eng.pv.Get(eng.position)
		eng.Stats.Depth = depth
		result = SearchResult{Score: score, PV: pv}
		if len(pv) > 0 {
			result.BestMove = pv[0]
		}
		eng.Log.PrintPV(eng.Stats, score, pv)
		if score >= MateScore-MaxPly || score <= MatedScore+MaxPly {
			break
		}
	}
	return result
}

// searchRoot runs one iterative-deepening iteration with an aspiration
// window centered on the previous iteration's score, widening
// geometrically on fail-high or fail-low. Aspiration is skipped for
// shallow depths, where the window rarely pays for itself.
func (eng *Engine) searchRoot(depth int32, estimated int32) int32 {
	if depth < 4 {
		return eng.searchTree(-InfinityScore, InfinityScore, depth)
	}
	window := eng.Tuning.InitialAspiration
	alpha := estimated - window
	beta := estimated + window
	if alpha < -InfinityScore {
		alpha = -InfinityScore
	}
	if beta > InfinityScore {
		beta = InfinityScore
	}
	for {
		score := eng.searchTree(alpha, beta, depth)
		if eng.tc.stopped {
			return score
		}
		if score >= MateScore-MaxPly || score <= MatedScore+MaxPly {
			// A forced mate bypasses the geometric widening: re-search
			// once with the full window instead of creeping toward it.
			if score > alpha && score < beta {
				return score
			}
			alpha, beta = -InfinityScore, InfinityScore
			continue
		}
		if score <= alpha {
			alpha -= window
			window += window / 2
			if alpha < -InfinityScore {
				alpha = -InfinityScore
			}
			continue
		}
		if score >= beta {
			beta += window
			window += window / 2
			if beta > InfinityScore {
				beta = InfinityScore
			}
			continue
		}
		return score
	}
}

// searchTree is the full-width node procedure: terminal probe, TT
// probe, leaf-to-quiescence, reverse futility, null move, move loop
// with extension/LMR/PVS, then TT store.
func (eng *Engine) searchTree(alpha, beta int32, depth int32) int32 {
	pos := eng.position
	eng.Stats.Nodes++
	ply := eng.ply()
	if ply > eng.Stats.SelDepth {
		eng.Stats.SelDepth = ply
	}

	if ply > 0 {
		if eng.reps.Count(pos.Zobrist()) >= 2 || pos.HalfMoveClock() >= 100 || pos.hasInsufficientMaterial() {
			return 0
		}
		if MateScore-ply <= alpha {
			return MateScore - ply // mate-distance pruning
		}
	}

	inCheck := pos.IsInCheck(pos.SideToMove)

	var hashMove Move
	if entry, ok := eng.tt.Probe(pos.Zobrist()); ok {
		hashMove = entry.move
		if entry.depth >= depth {
			score := MateScoreFromStorage(entry.score, int(ply))
			switch entry.boundKind {
			case Exact:
				return score
			case LowerBound:
				if score >= beta {
					return score
				}
			case UpperBound:
				if score <= alpha {
					return score
				}
			}
		}
	}

	if depth <= 0 {
		return eng.searchQuiescence(alpha, beta)
	}

	staticEval := eng.eval.Evaluate(pos)

	if !inCheck && depth <= eng.Tuning.FutilityDepthLimit {
		margin := eng.Tuning.ReverseFutilityMargin * depth
		if staticEval-margin >= beta {
			return staticEval
		}
	}

	if !inCheck && ply > 0 && depth >= eng.Tuning.NullMoveDepthLimit+1 &&
		staticEval >= beta && !pos.LastMove().IsNull() &&
		!pos.sideHasOnlyPawnsAndKing(pos.SideToMove) {
		pos.Make(NullMove)
		eng.reps.Push(pos.Zobrist())
		reduction := eng.Tuning.NullMoveBaseReduction
		score := -eng.searchTree(-beta, -beta+1, depth-1-reduction)
		eng.reps.Pop(pos.Zobrist())
		pos.Undo()
		if score >= beta {
			return beta
		}
	}

	moves := pos.LegalMoves()
	if len(moves) == 0 {
		if inCheck {
			return MatedScore + ply
		}
		return 0
	}

	orderMoves(moves, hashMove, int(ply), eng.killers, eng.history)

	boundKind := UpperBound
	bestScore := int32(-InfinityScore)
	bestMove := NullMove
	numMoves := 0

	for _, m := range moves {
		if ply == 0 && numMoves > 0 && !eng.tc.CheckRootMove() {
			eng.tc.stopped = true // partial iteration: discard its result
			break
		}
		pos.Make(m)
		eng.reps.Push(pos.Zobrist())
		givesCheck := pos.IsInCheck(pos.SideToMove)

		childDepth := depth - 1
		if givesCheck {
			childDepth = depth - 1 + eng.Tuning.CheckDepthExtension
		}

		var score int32
		if numMoves == 0 {
			score = -eng.searchTree(-beta, -alpha, childDepth)
		} else {
			reduction := int32(0)
			if depth >= eng.Tuning.LMRDepthLimit && numMoves >= 4 && !m.IsViolent() && !givesCheck && !inCheck {
				reduction = 1 + min32(depth, int32(numMoves))/5
			}
			score = -eng.searchTree(-alpha-1, -alpha, childDepth-reduction)
			if score > alpha && (reduction > 0 || score < beta) {
				score = -eng.searchTree(-beta, -alpha, childDepth)
			}
		}

		eng.reps.Pop(pos.Zobrist())
		pos.Undo()
		numMoves++

		if eng.tc.stopped {
			return alpha
		}

		if score > bestScore {
			bestScore = score
			bestMove = m
		}
		if score > alpha {
			alpha = score
			boundKind = Exact
			eng.pv.Put(pos.Zobrist(), m)
		}
		if alpha >= beta {
			boundKind = LowerBound
			if !m.IsViolent() {
				eng.killers.Save(int(ply), m)
				eng.history.bump(m, depth*depth)
				for _, prior := range moves {
					if prior == m {
						break
					}
					if !prior.IsViolent() {
						eng.history.decay(prior)
					}
				}
			}
			break
		}
	}

	eng.tt.Store(pos.Zobrist(), depth, MateScoreToStorage(bestScore, int(ply)), bestMove, boundKind)
	return bestScore
}

// searchQuiescence extends the search along captures and promotions
// (and, while in check, every evasion) until the position is quiet
// enough to trust a static evaluation.
func (eng *Engine) searchQuiescence(alpha, beta int32) int32 {
	pos := eng.position
	eng.Stats.Nodes++

	if pos.HalfMoveClock() >= 100 || pos.hasInsufficientMaterial() {
		return 0
	}

	inCheck := pos.IsInCheck(pos.SideToMove)
	var standPat int32
	if !inCheck {
		standPat = eng.eval.Evaluate(pos)
		if standPat >= beta {
			return standPat
		}
		if standPat > alpha {
			alpha = standPat
		}
	}

	moves := pos.LegalCapturesAndPromotions()
	orderMoves(moves, NullMove, 0, nil, nil)

	for _, m := range moves {
		pos.Make(m)
		score := -eng.searchQuiescence(-beta, -alpha)
		pos.Undo()

		if score >= beta {
			return score
		}
		if score > alpha {
			alpha = score
		}
	}
	if inCheck && len(moves) == 0 {
		return MatedScore + eng.ply()
	}
	return alpha
}

// sideHasOnlyPawnsAndKing disables null-move pruning in pawn endgames,
// where zugzwang makes the null-move assumption ("a free extra tempo
// cannot make the position worse") unsafe.
func (pos *Position) sideHasOnlyPawnsAndKing(c Color) bool {
	own := pos.byColor(c)
	return own&^(pos.pawns|pos.kings) == 0
}

func min32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}
