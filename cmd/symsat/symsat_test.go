package main

import (
	"io/fs"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gosymsat/symsat/internal/dimacs"
	"github.com/gosymsat/symsat/internal/sat"
)

// This test suite exercises the solver end to end (scenarios E1, E2 and the
// UNSAT half of E3, see spec §8, plus a satisfiable two-variable XOR) by
// verifying that it finds the exact set of models for
// each instance under testdataDir. Models were computed by hand from the
// small, easily verified encodings used here (unit clauses, a two-variable
// XOR, and PHP(3,2)); nothing in testdataDir is large enough to need a
// trusted external solver.

// Directory containing the test cases used to validate symsat. Each test
// case is a pair of files:
//
//   - An instance file with a valid DIMACS CNF and a ".cnf" extension.
//   - A models file listing one model per line (DIMACS clause syntax, using
//     the instance's own literals) with the same name plus ".models". An
//     unsatisfiable instance's models file is empty.
var testdataDir = "testdata"

type testCase struct {
	instanceName string
	instanceFile string
	modelsFile   string
}

// listTestCases returns the list of test cases in the file tree rooted at
// dir.
func listTestCases(dir string) ([]testCase, error) {
	var testCases []testCase
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if !strings.HasSuffix(path, ".cnf") {
			return nil // not an instance file
		}
		testCases = append(testCases, testCase{
			instanceName: d.Name(),
			instanceFile: path,
			modelsFile:   path + ".models",
		})
		return nil
	})
	return testCases, err
}

// toString renders a model as a binary string, e.g. [True, False, False]
// becomes "100". Unknown never appears in a solved model.
func toString(model []sat.LBool) string {
	s := make([]byte, len(model))
	for i, v := range model {
		if v == sat.True {
			s[i] = '1'
		} else {
			s[i] = '0'
		}
	}
	return string(s)
}

func toSet(models [][]sat.LBool) map[string]struct{} {
	set := map[string]struct{}{}
	for _, m := range models {
		set[toString(m)] = struct{}{}
	}
	return set
}

// solveAll returns every model of s's formula by repeatedly blocking the
// last model found with a freshly added clause.
func solveAll(s *sat.Solver) [][]sat.LBool {
	var models [][]sat.LBool
	for s.Solve() == sat.True {
		model := s.Model()
		models = append(models, append([]sat.LBool(nil), model...))

		block := make([]sat.Literal, len(model))
		for i, v := range model {
			if v == sat.True { // literals are flipped to forbid this exact model
				block[i] = sat.NegativeLiteral(sat.Var(i))
			} else {
				block[i] = sat.PositiveLiteral(sat.Var(i))
			}
		}
		if !s.AddClause(block) {
			break
		}
	}
	return models
}

// wantSet converts a models file's parsed boolean models into the same binary-
// string representation solveAll's output is compared against.
func wantSet(raw [][]bool) map[string]struct{} {
	set := map[string]struct{}{}
	for _, m := range raw {
		b := make([]byte, len(m))
		for i, v := range m {
			if v {
				b[i] = '1'
			} else {
				b[i] = '0'
			}
		}
		set[string(b)] = struct{}{}
	}
	return set
}

// TestSolveAll verifies that the solver finds all and only the expected
// models for every instance under testdataDir.
func TestSolveAll(t *testing.T) {
	testCases, err := listTestCases(testdataDir)
	if err != nil {
		t.Fatalf("error listing test cases: %s", err)
	}
	if len(testCases) == 0 {
		t.Fatal("no test cases found under testdataDir")
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.instanceName, func(t *testing.T) {
			t.Parallel()

			instance, err := dimacs.ParseDIMACS(tc.instanceFile, false)
			if err != nil {
				t.Fatalf("error parsing instance: %s", err)
			}
			want, err := dimacs.ParseModels(tc.modelsFile)
			if err != nil {
				t.Fatalf("error parsing models: %s", err)
			}

			s := sat.NewSolver(sat.DefaultConfig())
			if !dimacs.Instantiate(s, instance) {
				got := toSet(nil)
				if diff := cmp.Diff(wantSet(want), got); diff != "" {
					t.Errorf("model set mismatch (-want +got):\n%s", diff)
				}
				return
			}

			got := toSet(solveAll(s))
			if diff := cmp.Diff(wantSet(want), got); diff != "" {
				t.Errorf("model set mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
