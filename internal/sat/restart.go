package sat

import (
	"math"
	"sort"
)

// luby computes the Luby restart sequence value at index x, scaled by y
// (spec §4.5 "restart interval"): find the finite subsequence containing
// x, then recurse into it, matching the source's iterative definition
// rather than the usual closed-form recursion.
func luby(y float64, x int) float64 {
	size, seq := 1, 0
	for size < x+1 {
		seq++
		size = 2*size + 1
	}
	for size-1 != x {
		size = (size - 1) >> 1
		seq--
		x = x % size
	}
	return math.Pow(y, float64(seq))
}

// restartBudget returns the conflict budget for the curRestart-th search
// episode (spec §4.5): the Luby sequence when LubyRestart is set, else a
// plain geometric progression, both scaled by RestartFirst.
func (s *Solver) restartBudget(curRestart int) int64 {
	var base float64
	if s.cfg.LubyRestart {
		base = luby(s.cfg.RestartInc, curRestart)
	} else {
		base = math.Pow(s.cfg.RestartInc, float64(curRestart))
	}
	return int64(base * float64(s.cfg.RestartFirst))
}

// reduceDB discards the lower half of the learnt clause database by
// activity, keeping every binary clause and every clause currently
// locked as some variable's reason (spec §4.1 "reduceDB"). search calls
// it only when SolverConfig.EnableReduceDB is set; the function itself
// does not check the flag. The reference implementation ships this
// pass permanently disabled.
func (s *Solver) reduceDB() {
	learnts := s.learnts
	extraLim := s.claInc / float64(len(learnts))

	sort.Slice(learnts, func(i, j int) bool {
		x, y := learnts[i], learnts[j]
		return s.arena.Size(x) > 2 && (s.arena.Size(y) == 2 || s.arena.Activity(x) < s.arena.Activity(y))
	})

	i, j := 0, 0
	for ; i < len(learnts)/2; i++ {
		cr := learnts[i]
		if s.arena.Size(cr) > 2 && !s.locked(cr) {
			s.removeClause(cr)
		} else {
			learnts[j] = cr
			j++
		}
	}
	for ; i < len(learnts); i++ {
		cr := learnts[i]
		if s.arena.Size(cr) > 2 && !s.locked(cr) && s.arena.Activity(cr) < extraLim {
			s.removeClause(cr)
		} else {
			learnts[j] = cr
			j++
		}
	}

	s.learnts = learnts[:j]
	s.maybeGarbageCollect()
}
