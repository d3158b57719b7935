// Package dimacs loads DIMACS CNF instances, plain or gzip-compressed,
// on top of github.com/rhartert/dimacs's streaming reader.
package dimacs

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rhartert/dimacs"

	"github.com/gosymsat/symsat/internal/sat"
)

// Instance is a parsed CNF formula: variable count, one int slice per
// clause (DIMACS' own signed-literal convention, 1-indexed), and any
// comment lines encountered.
type Instance struct {
	Variables int
	Clauses   [][]int
	Comments  []string
}

func open(filename string, gzipped bool) (io.ReadCloser, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	rc := io.ReadCloser(file)
	if gzipped {
		rc, err = gzip.NewReader(rc)
		if err != nil {
			file.Close()
			return nil, err
		}
	}
	return rc, nil
}

// instanceBuilder wraps an Instance to implement dimacs.Builder.
type instanceBuilder struct {
	instance *Instance
}

func (b *instanceBuilder) Problem(problem string, nVars int, nClauses int) error {
	if problem != "cnf" {
		return fmt.Errorf("instance of type %q are not supported", problem)
	}
	b.instance.Variables = nVars
	b.instance.Clauses = make([][]int, 0, nClauses)
	return nil
}

func (b *instanceBuilder) Clause(tmpClause []int) error {
	if b.instance.Clauses == nil {
		return fmt.Errorf("found clause line before header")
	}
	clause := make([]int, len(tmpClause))
	copy(clause, tmpClause)
	b.instance.Clauses = append(b.instance.Clauses, clause)
	return nil
}

func (b *instanceBuilder) Comment(c string) error {
	b.instance.Comments = append(b.instance.Comments, strings.TrimPrefix(c, "c "))
	return nil
}

// ParseDIMACS reads a DIMACS CNF file, transparently gunzipping it when
// gzipped is set.
func ParseDIMACS(filename string, gzipped bool) (*Instance, error) {
	r, err := open(filename, gzipped)
	if err != nil {
		return nil, fmt.Errorf("error reading file %q: %w", filename, err)
	}
	defer r.Close()

	instance := &Instance{}
	if err := dimacs.ReadBuilder(r, &instanceBuilder{instance}); err != nil {
		return nil, fmt.Errorf("error parsing file %q: %w", filename, err)
	}
	return instance, nil
}

// Instantiate adds instance's variables and clauses to solver s,
// returning false the instant a clause makes the formula unsatisfiable
// (spec §6 "addClause returns false").
func Instantiate(s *sat.Solver, instance *Instance) bool {
	for i := 0; i < instance.Variables; i++ {
		s.NewVar(sat.Unknown, true)
	}
	for _, c := range instance.Clauses {
		clause := make([]sat.Literal, len(c))
		for i, v := range c {
			if v < 0 {
				clause[i] = sat.NegativeLiteral(sat.Var(-v - 1))
			} else {
				clause[i] = sat.PositiveLiteral(sat.Var(v - 1))
			}
		}
		if !s.AddClause(clause) {
			return false
		}
	}
	return true
}
