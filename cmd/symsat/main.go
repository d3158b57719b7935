// Command symsat is a minimal driver that solves a DIMACS CNF instance,
// optionally augmented with a symmetry-generator file, and reports the
// result the way a SAT solver's competition wrapper is expected to
// (spec.md §6 "Exit semantics"). It is not a full CLI front end: signal
// handling, resource limits, and detailed statistics printing are out
// of scope, matching the teacher's own main.go in shape.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/gosymsat/symsat/internal/dimacs"
	"github.com/gosymsat/symsat/internal/sat"
	"github.com/gosymsat/symsat/internal/symfile"
)

var (
	flagSymFile     = flag.String("sym", "", "symmetry-generator file (BreakID cycle notation)")
	flagGzip        = flag.Bool("gzip", false, "treat the instance file as gzip-compressed")
	flagMaxConflict = flag.Int64("max_conflicts", -1, "maximum number of conflicts allowed (-1 = no maximum)")
)

type config struct {
	instanceFile string
	symFile      string
	gzipped      bool
	maxConflicts int64
}

func parseConfig() (*config, error) {
	flag.Parse()
	if flag.NArg() == 0 || flag.Arg(0) == "" {
		return nil, fmt.Errorf("missing instance file")
	}
	return &config{
		instanceFile: flag.Arg(0),
		symFile:      *flagSymFile,
		gzipped:      *flagGzip,
		maxConflicts: *flagMaxConflict,
	}, nil
}

func solverConfig(cfg *config) sat.SolverConfig {
	sc := sat.DefaultConfig()
	if cfg.maxConflicts >= 0 {
		sc.ConflictBudget = cfg.maxConflicts
	}
	return sc
}

// run returns the process exit code (10 SAT, 20 UNSAT, 0 unknown/error).
func run(cfg *config) int {
	instance, err := dimacs.ParseDIMACS(cfg.instanceFile, cfg.gzipped)
	if err != nil {
		log.Printf("c error parsing instance: %s", err)
		return 0
	}

	s := sat.NewSolver(solverConfig(cfg))
	if !dimacs.Instantiate(s, instance) {
		fmt.Println("s UNSATISFIABLE")
		return 20
	}

	if cfg.symFile != "" {
		if err := loadGenerators(s, cfg.symFile, instance.Variables); err != nil {
			log.Printf("c error parsing symmetry file: %s", err)
			return 0
		}
	}

	fmt.Printf("c variables:  %d\n", instance.Variables)
	fmt.Printf("c clauses:    %d\n", len(instance.Clauses))

	start := time.Now()
	status := s.SolveLimited(nil)
	elapsed := time.Since(start)

	fmt.Printf("c time (sec): %f\n", elapsed.Seconds())
	fmt.Printf("c %s\n", s.String())

	switch status {
	case sat.True:
		fmt.Println("s SATISFIABLE")
		printModel(s)
		return 10
	case sat.False:
		fmt.Println("s UNSATISFIABLE")
		return 20
	default:
		fmt.Println("s INDETERMINATE")
		return 0
	}
}

func loadGenerators(s *sat.Solver, filename string, nVars int) error {
	f, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer f.Close()

	gens, err := symfile.Load(f, symfile.FormatBreakID, nVars)
	if err != nil {
		return err
	}
	for _, g := range gens {
		s.AddGenerator(g)
	}
	return nil
}

func printModel(s *sat.Solver) {
	model := s.Model()
	fmt.Print("v")
	for v, val := range model {
		if val == sat.False {
			fmt.Printf(" -%d", v+1)
		} else {
			fmt.Printf(" %d", v+1)
		}
	}
	fmt.Println(" 0")
}

func main() {
	cfg, err := parseConfig()
	if err != nil {
		log.Fatal(err)
	}
	os.Exit(run(cfg))
}
