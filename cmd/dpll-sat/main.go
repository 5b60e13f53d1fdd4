// Command dpll-sat runs the bounded-unsat DPLL enumerator over a DIMACS CNF
// file, matching the CLI contract of spec §6:
//
//	dpll-sat <cnf_file> [max_unsat=0] [n_threads=0] [verbose=0]
package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/alexflint/go-arg"

	"github.com/cnfsat/dpll-sat/cnf"
	"github.com/cnfsat/dpll-sat/dimacs"
	"github.com/cnfsat/dpll-sat/dpll"
	"github.com/cnfsat/dpll-sat/schedule"
	"github.com/cnfsat/dpll-sat/solvelog"
)

var args struct {
	CNFFile  string `arg:"positional,required" help:"path to a DIMACS CNF file"`
	MaxUnsat int    `arg:"positional" help:"largest number of falsified clauses an emitted assignment may have"`
	NThreads int    `arg:"positional" help:"worker goroutines; 0 means implementation-chosen"`
	Verbose  int    `arg:"positional" help:"0=quiet, 1=steps, 2=detail"`
}

func main() {
	arg.MustParse(&args)
	log := solvelog.New(solvelog.ParseLevel(args.Verbose), os.Stderr)

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

	var solutions []cnf.Solution
	if args.NThreads == 1 {
		res, err := dpll.Solve(formula, args.MaxUnsat, nil)
		if err != nil {
			log.Error("solve: %v", err)
			os.Exit(1)
		}
		solutions = res.Solutions
		log.Step("branches=%d pruned=%d steps=%d", res.Stats.Branches, res.Stats.Pruned, res.Stats.Steps)
	} else {
		pool := schedule.NewPool(formula, args.MaxUnsat, args.NThreads)
		res, err := pool.Solve()
		if err != nil {
			log.Error("solve: %v", err)
			os.Exit(1)
		}
		solutions = res.Solutions
		log.Step("steps=%d", res.Stats.Steps)
	}

	printSolutions(solutions)
	os.Exit(0)
}

func printSolutions(solutions []cnf.Solution) {
	sort.Slice(solutions, func(i, j int) bool { return solutions[i].Key() < solutions[j].Key() })
	for _, s := range solutions {
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
}
