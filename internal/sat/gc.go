package sat

// maybeGarbageCollect triggers a compacting collection once the arena's
// wasted fraction crosses GarbageFrac (spec §4.1 "checkGarbage").
func (s *Solver) maybeGarbageCollect() {
	if s.cfg.GarbageFrac <= 0 {
		return
	}
	if float64(s.arena.Wasted()) < s.cfg.GarbageFrac*float64(s.arena.WordSize()) {
		return
	}
	s.garbageCollect()
}

// garbageCollect compacts the clause arena by copying every live clause
// into a fresh one and rewriting every stored CRef through it (spec §4.1
// "garbageCollect"): watch lists, decision reasons, and the original and
// learnt clause index. Watches are cleaned of already-freed clauses
// first so the relocation walk never follows a dangling reference.
func (s *Solver) garbageCollect() {
	s.watches.CleanAll(s.arena)

	to := NewClauseArena(s.arena.WordSize() - s.arena.Wasted())

	s.watches.Relocate(s.arena, to)

	for v := 0; v < s.trail.NumVars(); v++ {
		cr := s.trail.Reason(Var(v))
		if cr == CRefUndef || cr == CRefUnsat {
			continue
		}
		if s.locked(cr) {
			s.trail.SetReason(Var(v), s.arena.Reloc(cr, to))
		}
	}

	relocList := func(crs []CRef) []CRef {
		out := crs[:0]
		for _, cr := range crs {
			if s.arena.Marked(cr) {
				continue
			}
			out = append(out, s.arena.Reloc(cr, to))
		}
		return out
	}
	s.clauses = relocList(s.clauses)
	s.learnts = relocList(s.learnts)

	s.arena = to
}
