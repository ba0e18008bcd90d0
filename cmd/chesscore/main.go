// chesscore searches a single position and prints the best move.
//
// It is deliberately not a UCI loop: the driver protocol is out of the
// core's scope. The tool reads a FEN, applies an optional move sequence,
// searches under the given depth or time budget, and reports the best
// move, its score, and the principal variation.
//
//	$ chesscore --fen startpos --depth 8
//	$ chesscore --fen "k7/8/8/8/8/8/R7/K7 w - -" --time 2s
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/chesscore/chesscore/config"
	"github.com/chesscore/chesscore/engine"
	"github.com/chesscore/chesscore/engine/book"
	"github.com/chesscore/chesscore/enginelog"
)

var (
	fen        = flag.String("fen", "startpos", "position to search, FEN or \"startpos\"")
	moves      = flag.String("moves", "", "space-separated UCI moves applied to --fen before searching")
	depth      = flag.Int("depth", 0, "maximum search depth; 0 means unbounded")
	searchTime = flag.Duration("time", 0, "maximum search time; 0 means unbounded")
	hashMB     = flag.Int("hash", 64, "transposition table size in MB")
	tuningFile = flag.String("tuning", "", "optional TOML file with tuning overrides")
	bookPath   = flag.String("book", "", "optional opening book (Badger store)")
	verbose    = flag.Bool("verbose", false, "log every completed iteration")
)

func run() error {
	f := *fen
	if f == "startpos" {
		f = engine.FENStartPos
	}
	pos, err := engine.PositionFromFEN(f)
	if err != nil {
		return errors.Wrap(err, "parsing --fen")
	}
	for _, mstr := range strings.Fields(*moves) {
		m, err := pos.UCIToMove(mstr)
		if err != nil {
			return errors.Wrap(err, "applying --moves")
		}
		pos.Make(m)
	}

	tun, err := config.LoadTuning(*tuningFile)
	if err != nil {
		return errors.Wrap(err, "loading --tuning")
	}

	if *bookPath != "" {
		b, err := book.Open(*bookPath)
		if err != nil {
			return errors.Wrap(err, "opening --book")
		}
		defer b.Close()
		if m, ok := b.ProbeMove(pos); ok {
			fmt.Printf("bestmove %v (book)\n", m)
			return nil
		}
	}

	var log engine.Logger = engine.NopLogger{}
	if *verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return err
		}
		defer zl.Sync()
		log = enginelog.New(zl)
	}

	eng := engine.NewEngine(pos, log, engine.Options{HashSizeMB: *hashMB})
	eng.Tuning = tun

	if *depth == 0 && *searchTime == 0 {
		return errors.New("--depth or --time must be specified")
	}
	result := eng.Search(engine.Limits{
		MaxDepth: int32(*depth),
		MaxTime:  *searchTime,
	})

	pvs := make([]string, len(result.PV))
	for i, m := range result.PV {
		pvs[i] = m.UCI()
	}
	fmt.Printf("bestmove %v score %d pv %s\n",
		result.BestMove, result.Score, strings.Join(pvs, " "))
	return nil
}

func main() {
	flag.Parse()
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%+v\n", err)
		os.Exit(1)
	}
}
