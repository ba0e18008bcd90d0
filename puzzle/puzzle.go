// puzzle tries to solve puzzles from files.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime/pprof"
	"strings"
	"time"

	"github.com/chesscore/chesscore/engine"
	"github.com/chesscore/chesscore/notation"
)

var (
	input      = flag.String("input", "", "file with EPD lines")
	output     = flag.String("output", "", "file to write EPD with solutions")
	deadline   = flag.Duration("deadline", 0, "how much time to spend for each move")
	maxDepth   = flag.Int("max_depth", 0, "search up to max_depth plies")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	quiet      = flag.Bool("quiet", false, "don't print individual tests")

	maxNodes = flag.Uint64("max_nodes", 0, "maximum nodes to search")
)

func main() {
	log.SetFlags(log.Lshortfile)

	// Validate flags.
	flag.Parse()
	if *input == "" {
		log.Fatal("--input not specified")
	}
	if *deadline == 0 && *maxDepth == 0 {
		log.Fatal("--deadline or --max_depth must be specified")
	}
	if *cpuprofile != "" { // Enable cpuprofile.
		fin, err := os.Create(*cpuprofile)
		if err != nil {
			log.Fatal(err)
		}
		pprof.StartCPUProfile(fin)
		defer pprof.StopCPUProfile()
	}

	var err error
	var fin *os.File
	if fin, err = os.Open(*input); err != nil {
		log.Fatalf("cannot open %s for reading: %v", *input, err)
	}
	defer fin.Close()

	var fout *os.File
	if *output != "" {
		if fout, err = os.Create(*output); err != nil {
			log.Fatalf("cannot open %s for writing: %v", *output, err)
		}
		defer fout.Close()
	}

	limits := engine.Limits{
		MaxDepth: int32(*maxDepth),
		MaxTime:  time.Duration(*deadline),
	}

	var totalNodes uint64

	// Read file line by line.
	solvedTests, numTests := 0, 0
	buf := bufio.NewReader(fin)
	for i, o := 0, 0; ; i++ {
		// Read EPD line.
		line, err := buf.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Fatal(err)
			}
			break
		}

		// Trim comments and spaces.
		line = strings.SplitN(line, "#", 2)[0]
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		// Reads position from file.
		epd, err := notation.ParseEPD(line)
		if err != nil {
			log.Println("error:", err)
			log.Println("skipping", line)
			continue
		}

		// Evaluate position.
		ai := engine.NewEngine(epd.Position, engine.NopLogger{}, engine.Options{})
		result := ai.Search(limits)
		actual := result.BestMove

		// Update number of solved games.
		numTests++
		var expected engine.Move
		for _, expected = range epd.BestMove {
			if expected == actual {
				solvedTests++
				break
			}
		}

		if !*quiet {
			// Print a header from time to time.
			if o%25 == 0 {
				fmt.Println()
				fmt.Println("line     bm actual  nodes  correct epd")
				fmt.Println("----+------+------+------+--------+---")
			}

			// Print results.
			fmt.Printf("%4d %6s %6s %5dK %4d/%4d %s\n",
				i+1, expected.String(), actual.String(),
				ai.Stats.Nodes/1000, solvedTests, numTests, line)
			o++
		}

		if fout != nil {
			epd.BestMove = []engine.Move{actual}
			fmt.Fprintln(fout, epd.String())
		}

		totalNodes += ai.Stats.Nodes
		if *maxNodes != 0 && totalNodes > *maxNodes {
			break
		}
	}

	fmt.Printf("%s solved %d out of %d ; nodes %d ;\n",
		*input, solvedTests, numTests, totalNodes)
}
