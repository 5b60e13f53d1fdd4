// Command walk-sat runs the randomized local-search kernel over a DIMACS
// CNF file, matching the CLI contract of spec §6:
//
//	walk-sat <cnf_file> <max_steps> [p=0.5] [unsat=0] [seed=0] [cutoff_time=0]
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/alexflint/go-arg"

	"github.com/cnfsat/dpll-sat/dimacs"
	"github.com/cnfsat/dpll-sat/solvelog"
	"github.com/cnfsat/dpll-sat/walksat"
)

var args struct {
	CNFFile    string  `arg:"positional,required" help:"path to a DIMACS CNF file"`
	MaxSteps   int     `arg:"positional,required" help:"flips attempted per restart before giving up and re-randomizing"`
	P          float64 `arg:"positional" help:"probability of a random walk step, in [0,1]"`
	Unsat      int     `arg:"positional" help:"largest number of falsified clauses an emitted assignment may have"`
	Seed       int64   `arg:"positional" help:"PRNG seed; 0 means seed from OS entropy"`
	CutoffTime int     `arg:"positional" help:"wall-clock budget in seconds; 0 means exit on first solution"`
}

func main() {
	args.P = 0.5
	arg.MustParse(&args)
	log := solvelog.Default()

	f, err := os.Open(args.CNFFile)
	if err != nil {
		log.Error("opening %s: %v", args.CNFFile, err)
		os.Exit(1)
	}
	defer f.Close()

	formula, err := dimacs.Load(f)
	if err != nil {
		log.Error("parsing %s: %v", args.CNFFile, err)
		os.Exit(1)
	}
	log.Step("loaded formula: %d variables, %d clauses", formula.NumVars, len(formula.Clauses))

	cfg := walksat.Config{
		MaxSteps:   args.MaxSteps,
		P:          args.P,
		Target:     args.Unsat,
		Seed:       args.Seed,
		CutoffTime: time.Duration(args.CutoffTime) * time.Second,
	}
	k := walksat.NewKernel(formula, cfg)
	res, err := k.Run(nil)
	if err != nil {
		log.Error("solve: %v", err)
		os.Exit(1)
	}
	log.Step("steps=%d restarts=%d best_unsat=%d", res.Stats.Steps, res.Stats.Restarts, res.Stats.BestUnsat)

	for _, s := range res.Solutions {
		fmt.Printf("c unsat=%d\n", s.Unsat)
		for v := 1; v < len(s.Model); v++ {
			if s.Model[v] {
				fmt.Printf("%d ", v)
			} else {
				fmt.Printf("%d ", -v)
			}
		}
		fmt.Println("0")
	}
	os.Exit(0)
}
