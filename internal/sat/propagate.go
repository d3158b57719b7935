package sat

// attachClause installs the watches for a clause's first two literals.
// Unit clauses are never watched: they are enqueued directly instead.
func (s *Solver) attachClause(cr CRef) {
	if s.arena.Size(cr) < 2 {
		return
	}
	c0, c1 := s.arena.Lit(cr, 0), s.arena.Lit(cr, 1)
	s.watches.Add(c0, cr, c1)
	s.watches.Add(c1, cr, c0)
}

// detachClause removes a clause's watches without freeing its storage.
func (s *Solver) detachClause(cr CRef) {
	if s.arena.Size(cr) < 2 {
		return
	}
	c0, c1 := s.arena.Lit(cr, 0), s.arena.Lit(cr, 1)
	s.removeWatch(c0, cr)
	s.removeWatch(c1, cr)
}

func (s *Solver) removeWatch(watched Literal, cr CRef) {
	neg := watched.Opposite()
	ws := s.watches.List(neg)
	for i, w := range ws {
		if w.Cref == cr {
			ws[i] = ws[len(ws)-1]
			s.watches.SetList(neg, ws[:len(ws)-1])
			return
		}
	}
}

// removeClause detaches and frees cr (used by reduceDB).
func (s *Solver) removeClause(cr CRef) {
	s.detachClause(cr)
	s.arena.Free(cr)
}

// locked reports whether cr is currently the reason for a live
// assignment, and therefore cannot be removed by reduceDB (spec §4.5
// "locked = currently the reason of some live assignment").
func (s *Solver) locked(cr CRef) bool {
	if s.arena.Size(cr) == 0 {
		return false
	}
	v := s.arena.Lit(cr, 0).VarID()
	return s.trail.Value(v) != Unknown && s.trail.Reason(v) == cr
}

// propagate drives unit propagation to a fixpoint across all three
// queues, expressed as an explicit state machine rather than the
// interleaved-goto control flow of the source it is grounded on (spec
// §9 "Three interleaved propagation queues via labels and goto"). A
// clause installed by the symmetry subsystem that changes the trail
// resets the state to BCP without moving the queue heads, which is
// exactly a re-entry into the loop over the now-longer (or shorter,
// after a backjump) trail (spec §5 "any unit clause added from SEL
// restarts propagation from the current trail head").
func (s *Solver) propagate() CRef {
	const (
		stateBCP = iota
		stateSelCheck
		stateSelGen
	)
	state := stateBCP
	for {
		switch state {
		case stateBCP:
			if cr := s.propagateBCP(); cr != CRefUndef {
				return cr
			}
			state = stateSelCheck

		case stateSelCheck:
			restart, confl := s.propagateSelCheck()
			if confl != CRefUndef {
				return confl
			}
			if restart {
				state = stateBCP
				continue
			}
			state = stateSelGen

		case stateSelGen:
			restart, confl := s.propagateSelGen()
			if confl != CRefUndef {
				return confl
			}
			if restart {
				state = stateBCP
				continue
			}
			bcp, gen, sel := s.trail.QHead()
			n := s.trail.Len()
			if bcp < n || gen < n || sel < n {
				state = stateBCP
				continue
			}
			return CRefUndef
		}
	}
}

// propagateBCP is the canonical two-watched-literal loop over qhead
// (spec §4.3 steps 1-2).
func (s *Solver) propagateBCP() CRef {
	for {
		bcp, gen, sel := s.trail.QHead()
		if bcp >= s.trail.Len() {
			return CRefUndef
		}
		p := s.trail.At(bcp)
		s.trail.SetQHead(bcp+1, gen, sel)
		s.Stats.Propagations++

		s.oracle.UpdateNotify(p)
		if s.oracle.HasClauseToInject(InjectESBP, p) {
			lits := s.oracle.ClauseToInject(InjectESBP, p)
			s.Stats.ESBPInjected++
			if cr := s.installESBP(lits); cr != CRefUndef && s.cfg.StopPropOnESBP {
				n := s.trail.Len()
				s.trail.SetQHead(n, n, n)
				return cr
			}
		}

		if cr := s.scanWatches(p); cr != CRefUndef {
			return cr
		}
	}
}

// scanWatches processes watches[p] for one newly-true literal p,
// keeping the invariant that after it returns without a conflict every
// remaining watcher's clause is either satisfied or not yet unit.
func (s *Solver) scanWatches(p Literal) CRef {
	ws := s.watches.List(p)
	keep := ws[:0]
	confl := CRefUndef

	for i := 0; i < len(ws); i++ {
		w := ws[i]
		if s.trail.ValueLit(w.Blocker) == True {
			keep = append(keep, w)
			continue
		}

		cr := w.Cref
		c0 := s.arena.Lit(cr, 0)
		if c0 == p.Opposite() {
			s.arena.SwapLits(cr, 0, 1)
			c0 = s.arena.Lit(cr, 0)
		}
		if s.trail.ValueLit(c0) == True {
			keep = append(keep, Watcher{Cref: cr, Blocker: c0})
			continue
		}

		n := s.arena.Size(cr)
		replaced := false
		for k := 2; k < n; k++ {
			lk := s.arena.Lit(cr, k)
			if s.trail.ValueLit(lk) != False {
				s.arena.SetLit(cr, 1, lk)
				s.arena.SetLit(cr, k, p.Opposite())
				s.watches.Add(lk, cr, c0)
				replaced = true
				break
			}
		}
		if replaced {
			continue
		}

		keep = append(keep, Watcher{Cref: cr, Blocker: c0})
		if s.trail.ValueLit(c0) == False {
			confl = cr
			keep = append(keep, ws[i+1:]...)
			break
		}
		s.trail.UncheckedEnqueue(c0, cr, s.clauseTainted(cr))
	}
	s.watches.SetList(p, keep)

	if confl != CRefUndef {
		n := s.trail.Len()
		s.trail.SetQHead(n, n, n)
	}
	return confl
}

// prepareWatches returns true as soon as it meets a satisfying literal,
// without moving that literal to position 0 (lits may then be left
// partly reordered). Otherwise it arranges lits so that the two
// positions 0/1 hold the two
// unassigned literals if two exist, else position 0 holds the single
// unassigned literal (position 1 the highest-level false one), else
// positions 0/1 hold the two highest-level false literals (spec §4.3
// "reorder a freshly reconstructed image so its first two positions are
// safe watches"). It reports whether a satisfying literal was found.
func (s *Solver) prepareWatches(lits []Literal) (satisfied bool) {
	if s.trail.ValueLit(lits[0]) == True {
		return true
	}
	for i := 1; i < len(lits); i++ {
		switch s.trail.ValueLit(lits[i]) {
		case True:
			return true
		case Unknown:
			if s.trail.ValueLit(lits[0]) == Unknown {
				lits[1], lits[i] = lits[i], lits[1]
				return false
			}
			lits[1], lits[i] = lits[i], lits[1]
			lits[0], lits[1] = lits[1], lits[0]
		default: // False
			if s.trail.ValueLit(lits[0]) == False && s.levelOf(lits[0]) < s.levelOf(lits[i]) {
				lits[1], lits[i] = lits[i], lits[1]
				lits[0], lits[1] = lits[1], lits[0]
			} else if s.levelOf(lits[1]) < s.levelOf(lits[i]) {
				lits[1], lits[i] = lits[i], lits[1]
			}
		}
	}
	return false
}

func (s *Solver) levelOf(l Literal) int {
	lvl := s.trail.Level(l.VarID())
	if lvl < 0 {
		return 1 << 30 // unassigned: treat as "infinitely current" for ordering
	}
	return lvl
}

// installESBP attaches an oracle-supplied clause as a learnt symmetry
// clause, moving the literal with the highest decision level among
// positions 2.. into position 0 so the two watched positions are safe
// (spec §4.6 "Injected ESBP clauses are added as learnt symmetry
// clauses"), its scompat computed as the set of generators that
// stabilize it. The returned CRef is the freshly installed clause, or
// CRefUndef when lits is empty (nothing is installed then); whether it should be treated as an immediate conflict by the
// caller is gated by StopPropOnESBP.
func (s *Solver) installESBP(lits []Literal) CRef {
	if len(lits) == 0 {
		return CRefUndef
	}
	maxI, maxLvl := 0, s.levelOf(lits[0])
	for i := 2; i < len(lits); i++ {
		if lvl := s.levelOf(lits[i]); lvl > maxLvl {
			maxI, maxLvl = i, lvl
		}
	}
	if maxI != 0 {
		lits[0], lits[maxI] = lits[maxI], lits[0]
	}

	scompat := s.stabilizingGenerators(lits)
	cr := s.arena.Alloc(lits, true, true, scompat)
	s.learnts = append(s.learnts, cr)
	s.attachClause(cr)
	return cr
}

// propagateSelGen is the SEL new-clause-generation phase over qheadGen
// (spec §4.3 step 4): for every generator watching the variable just
// assigned at the current decision level, either records a new SEL
// watch, discards a satisfied image, or materializes a genuine
// conflict/propagation and restarts.
func (s *Solver) propagateSelGen() (restart bool, confl CRef) {
	for {
		bcp, gen, sel := s.trail.QHead()
		if gen >= s.trail.Len() {
			return false, CRefUndef
		}
		lit := s.trail.At(gen)
		v := lit.VarID()

		if s.trail.Level(v) == 0 {
			s.trail.SetQHead(bcp, gen+1, sel)
			s.trail.SetWatchIdx(0)
			continue
		}
		reasonCr := s.trail.Reason(v)
		if reasonCr == CRefUndef {
			s.trail.SetQHead(bcp, gen+1, sel)
			s.trail.SetWatchIdx(0)
			continue
		}
		reasonSymmetry := s.arena.Symmetry(reasonCr)
		reasonScompat := s.arena.Scompat(reasonCr)
		reason := s.arena.Literals(reasonCr)

		ids := s.gens.WatchingVar(v)
		for s.trail.WatchIdx() < len(ids) {
			genID := ids[s.trail.WatchIdx()]

			if reasonSymmetry && (reasonScompat == nil || !reasonScompat.Contains(genID)) {
				s.trail.SetWatchIdx(s.trail.WatchIdx() + 1)
				continue
			}
			g := s.gens.Generators[genID]

			outcome, imaged := TryGenerate(g, reason, s.trail)
			switch outcome {
			case SelRedundant:
				s.trail.SetWatchIdx(s.trail.WatchIdx() + 1)
				continue
			case SelWatched:
				s.sel.Install(genID, v, imaged)
				s.trail.SetWatchIdx(s.trail.WatchIdx() + 1)
				continue
			default: // SelUnitOrConflict
				symmetrical := s.minimizeClause(g.SymmetricClause(reason))
				if len(symmetrical) > 1 {
					s.prepareWatches(symmetrical)
				}
				cr := s.addClauseFromSymmetry(symmetrical, reasonSymmetry, reasonScompat)
				if cr == CRefUndef {
					s.Stats.SymGenProps++
					return true, CRefUndef
				}
				s.Stats.SymGenConfls++
				return false, cr
			}
		}
		s.trail.SetQHead(bcp, gen+1, sel)
		s.trail.SetWatchIdx(0)
	}
}

// propagateSelCheck is the SEL existing-clause-check phase over
// qheadSel (spec §4.3 step 3): re-examines previously recorded SEL
// watches for the literal just assigned, finding a replacement watch,
// or else materializing the full symmetric image of the underlying
// reason clause.
func (s *Solver) propagateSelCheck() (restart bool, confl CRef) {
	for {
		bcp, gen, sel := s.trail.QHead()
		if sel >= s.trail.Len() {
			return false, CRefUndef
		}
		p := s.trail.At(sel)
		s.trail.SetQHead(bcp, gen, sel+1)

		ws := s.sel.WatchersOf(p)
		keep := ws[:0]

		for i := 0; i < len(ws); i++ {
			k := ws[i]
			l0 := s.sel.Literal(k, 0)
			if s.trail.ValueLit(l0) == True {
				keep = append(keep, k)
				continue
			}
			if l0 == p.Opposite() {
				s.sel.SwapLiterals(k, 0, 1)
				l0 = s.sel.Literal(k, 0)
			}
			if s.trail.ValueLit(l0) == True {
				keep = append(keep, k)
				continue
			}

			n := s.sel.Size(k)
			replaced := false
			for j := 2; j < n; j++ {
				lj := s.sel.Literal(k, j)
				if s.trail.ValueLit(lj) != False {
					s.sel.SetLiteral(k, 1, lj)
					s.sel.SetLiteral(k, j, p.Opposite())
					s.sel.addWatch(k, lj)
					replaced = true
					break
				}
			}
			if replaced {
				continue
			}

			// Unit or conflicting: this stored entry is discarded either
			// way, since the outcome always installs a fresh full-size
			// learnt clause instead of keeping the SEL entry around.
			keep = append(keep, ws[i+1:]...)
			s.sel.SetWatchersOf(p, keep)

			genID := s.sel.Gen(k)
			propVar := s.sel.Prop(k)
			reasonCr := s.trail.Reason(propVar)
			reasonSymmetry := s.arena.Symmetry(reasonCr)
			reasonScompat := s.arena.Scompat(reasonCr)
			if reasonSymmetry && (reasonScompat == nil || !reasonScompat.Contains(genID)) {
				return true, CRefUndef
			}

			g := s.gens.Generators[genID]
			reason := s.reasonLits(propVar)
			symmetrical := s.minimizeClause(g.SymmetricClause(reason))
			if len(symmetrical) > 1 && s.prepareWatches(symmetrical) {
				return true, CRefUndef
			}

			cr := s.addClauseFromSymmetry(symmetrical, reasonSymmetry, reasonScompat)
			if cr == CRefUndef {
				s.Stats.SymSelProps++
				return true, CRefUndef
			}
			s.Stats.SymSelConfls++
			return false, cr
		}
		s.sel.SetWatchersOf(p, keep)
	}
}

// addClauseFromSymmetry installs a freshly materialized symmetric image
// as a full-size learnt clause and backjumps to the decision level of
// its second literal (spec §4.3 "materialize it as in step 3"). lits
// must already be arranged by prepareWatches so lits[1] is the
// asserting clause's other watch, unless the image has collapsed to
// length <= 1: spec §4.3 step 3/4 requires that case to restart at
// level 0 and either enqueue the sole surviving literal or report the
// whole formula unsatisfiable, since no watch-safe pair of literals
// exists to allocate a two-watch clause from (spec §7 forbids
// materializing a clause with fewer than two literals). The new
// clause's symmetry flag and compatibility set are inherited from the
// source reason clause, not hardcoded, matching the original's
// "symmetry of the image equals symmetry of what it was imaged from".
// It returns CRefUndef if lits[0] became unassigned and was enqueued (a
// propagation) or was already satisfied, CRefUnsat if the formula is
// now known unsatisfiable, or the clause itself if lits[0] is still
// false after the backjump (a genuine conflict for the caller's
// analyze() to resolve).
func (s *Solver) addClauseFromSymmetry(lits []Literal, symmetry bool, scompat *GeneratorSet) CRef {
	if len(lits) <= 1 {
		s.cancelUntilWithNotify(0)
		if len(lits) == 0 {
			s.ok = false
			return CRefUnsat
		}
		switch s.trail.ValueLit(lits[0]) {
		case True:
			return CRefUndef
		case False:
			s.ok = false
			return CRefUnsat
		default:
			s.trail.UncheckedEnqueue(lits[0], CRefUndef, symmetry)
			if !s.propagateUnitOrbit(lits[0], scompat) {
				s.ok = false
				return CRefUnsat
			}
			return CRefUndef
		}
	}

	cr := s.arena.Alloc(lits, true, symmetry, scompat)
	s.learnts = append(s.learnts, cr)
	s.attachClause(cr)
	s.bumpClauseActivity(cr)

	s.cancelUntilWithNotify(s.trail.Level(lits[1].VarID()))

	l0 := s.arena.Lit(cr, 0)
	if s.trail.ValueLit(l0) == Unknown {
		s.trail.UncheckedEnqueue(l0, cr, symmetry)
		return CRefUndef
	}
	return cr
}
