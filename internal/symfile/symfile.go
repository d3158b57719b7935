// Package symfile parses symmetry-generator files into
// internal/sat.PermutationGenerator values ready for
// (*sat.Solver).AddGenerator.
package symfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gosymsat/symsat/internal/sat"
)

// Format identifies a symmetry-generator file's encoding.
type Format int

const (
	// FormatBreakID is BreakID's cycle-notation format: one generator
	// per line, written as a product of parenthesized cycles over
	// signed literal indices, e.g. "(1 2 3)(4 -5)". A line starting
	// with 'r' ends the generator section.
	FormatBreakID Format = iota
	// FormatSaucyBLISS is Saucy/BLISS's own generator format. Nothing
	// in the retrieved corpus ships a reader for it.
	FormatSaucyBLISS
)

// ErrUnsupportedFormat is returned by Load for FormatSaucyBLISS: no
// Saucy/BLISS reader exists in the retrieved corpus to ground an
// implementation on, so it is left as a named, explicit limitation
// rather than a guessed-at parser.
var ErrUnsupportedFormat = errors.New("symfile: Saucy/BLISS format is not supported")

// Load reads every generator from r according to format and returns
// them as PermutationGenerator values, indexed over nVars variables.
func Load(r io.Reader, format Format, nVars int) ([]*sat.PermutationGenerator, error) {
	switch format {
	case FormatBreakID:
		return loadBreakID(r, nVars)
	case FormatSaucyBLISS:
		return nil, ErrUnsupportedFormat
	default:
		return nil, fmt.Errorf("symfile: unknown format %d", format)
	}
}

// loadBreakID parses BreakID's cycle-notation generator file, grounded
// line-for-line on BreakIDReader::load: each line up to a trailing
// newline is a single generator, written as parenthesized cycles with
// space-separated signed literal indices, optionally separated by spaces
// and wrapped in one outer pair of parentheses; a line whose
// first non-space character is 'r' ends the generator section.
func loadBreakID(r io.Reader, nVars int) ([]*sat.PermutationGenerator, error) {
	var gens []*sat.PermutationGenerator

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line[0] == 'r' {
			break
		}

		gen := sat.NewPermutationGenerator(nVars)
		cycles, err := parseCycles(line)
		if err != nil {
			return nil, fmt.Errorf("symfile: %w", err)
		}
		for _, cycle := range cycles {
			lits := make([]sat.Literal, len(cycle))
			for i, v := range cycle {
				lits[i] = literalOf(v)
			}
			gen.AddCycle(lits)
		}
		gens = append(gens, gen)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("symfile: %w", err)
	}
	return gens, nil
}

func literalOf(v int) sat.Literal {
	if v < 0 {
		return sat.NegativeLiteral(sat.Var(-v - 1))
	}
	return sat.PositiveLiteral(sat.Var(v - 1))
}

// parseCycles splits a single generator line into its constituent
// cycles, e.g. "(1 2 3)(4 -5)" or "( ( 1 2 3 ) ( 4 -5 ) )" ->
// [[1 2 3] [4 -5]].
func parseCycles(line string) ([][]int, error) {
	if len(line) > 1 && line[0] == '(' {
		// One outer pair of parentheses wraps the whole generator.
		if rest := strings.TrimSpace(line[1:]); strings.HasPrefix(rest, "(") {
			line = strings.TrimSuffix(rest, ")")
		}
	}
	var cycles [][]int
	i := 0
	for i < len(line) {
		if line[i] == ' ' {
			i++
			continue
		}
		if line[i] != '(' {
			return nil, fmt.Errorf("expected '(' at offset %d of %q", i, line)
		}
		i++
		var cycle []int
		for i < len(line) && line[i] != ')' {
			if line[i] == ' ' {
				i++
				continue
			}
			start := i
			for i < len(line) && line[i] != ' ' && line[i] != ')' {
				i++
			}
			n, err := strconv.Atoi(line[start:i])
			if err != nil {
				return nil, fmt.Errorf("invalid literal %q in %q: %w", line[start:i], line, err)
			}
			cycle = append(cycle, n)
		}
		if i >= len(line) {
			return nil, fmt.Errorf("unterminated cycle in %q", line)
		}
		i++ // skip ')'
		cycles = append(cycles, cycle)
	}
	return cycles, nil
}
