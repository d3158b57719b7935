package sat

// analyze performs first-UIP conflict-clause derivation, resolving
// backward from confl through the trail until exactly one literal at
// the current decision level remains (spec §4.4). While resolving, it
// tracks every level-0 literal whose provenance is symmetry-tainted and
// every symmetry clause it resolved through; when either occurred, it
// returns a non-nil compatibility set for the learnt clause, computed
// as the intersection of the resolved-through clauses' own
// compatibility sets, filtered to generators that still fix every
// tainted unit at level 0, then extended with any generator that
// independently stabilizes the final learnt clause (spec §4.6
// "Symmetrical resolution").
func (s *Solver) analyze(confl CRef) (learnt []Literal, backtrackLevel int, scompat *GeneratorSet) {
	pathC := 0
	p := LitUndef
	learnt = append(learnt, LitUndef) // reserve slot 0 for the UIP

	var ancestorScompats []*GeneratorSet
	var taintedUnits []Literal
	outSym := false

	index := s.trail.Len() - 1

	for {
		if s.arena.Learnt(confl) {
			s.bumpClauseActivity(confl)
		}
		if s.arena.Symmetry(confl) {
			outSym = true
			ancestorScompats = append(ancestorScompats, s.arena.Scompat(confl))
		}

		reason := s.arena.Literals(confl)
		startAt := 0
		if p != LitUndef {
			startAt = 1
		}

		for j := startAt; j < len(reason); j++ {
			q := reason[j]
			v := q.VarID()

			if s.trail.Level(v) == 0 && s.trail.IsForbiddenUnit(v) {
				taintedUnits = append(taintedUnits, q)
				outSym = true
			}

			if !s.seen.Contains(v) && s.trail.Level(v) > 0 {
				s.order.Bump(v)
				s.seen.Add(v)
				if s.trail.Level(v) >= s.trail.DecisionLevel() {
					pathC++
				} else {
					learnt = append(learnt, q)
				}
			}
		}

		for {
			v := s.trail.At(index).VarID()
			index--
			if s.seen.Contains(v) {
				break
			}
		}
		p = s.trail.At(index + 1)
		confl = s.trail.Reason(p.VarID())
		s.seen.Remove(p.VarID())
		pathC--
		if pathC <= 0 {
			break
		}
	}
	learnt[0] = p.Opposite()

	learnt = s.minimizeLearnt(learnt)

	backtrackLevel = 0
	if len(learnt) > 1 {
		maxI := 1
		for i := 2; i < len(learnt); i++ {
			if s.trail.Level(learnt[i].VarID()) > s.trail.Level(learnt[maxI].VarID()) {
				maxI = i
			}
		}
		learnt[1], learnt[maxI] = learnt[maxI], learnt[1]
		backtrackLevel = s.trail.Level(learnt[1].VarID())
	}

	s.seen.Clear()

	if !outSym {
		return learnt, backtrackLevel, nil
	}
	return learnt, backtrackLevel, s.scompatForResolution(ancestorScompats, taintedUnits, learnt)
}

// scompatForResolution computes the compatibility set of a learnt
// clause derived through at least one symmetry clause or tainted unit
// (spec §4.6): the intersection of every resolved-through symmetry
// clause's own compatibility set (an empty ancestor set collapses the
// whole intersection to empty), filtered down to the generators that
// still map each tainted unit to itself at level 0, then unioned with
// any generator that independently stabilizes the final learnt clause.
func (s *Solver) scompatForResolution(ancestors []*GeneratorSet, taintedUnits []Literal, learnt []Literal) *GeneratorSet {
	comp := NewGeneratorSet()
	seeded := false
	for _, check := range ancestors {
		if check.Empty() {
			comp = NewGeneratorSet()
			break
		}
		if !seeded {
			comp = check.Clone()
			seeded = true
			continue
		}
		comp.IntersectWith(check)
		if comp.Empty() {
			break
		}
	}

	var toRemove []int
	comp.Each(func(gid int) {
		g := s.gens.Generators[gid]
		for _, l := range taintedUnits {
			image := g.Image(l)
			if s.trail.ValueLit(image) != s.trail.ValueLit(l) || s.trail.Level(image.VarID()) != 0 {
				toRemove = append(toRemove, gid)
				break
			}
		}
	})
	for _, gid := range toRemove {
		comp.Remove(gid)
	}

	s.addStabilizers(comp, learnt)
	return comp
}

// addStabilizers adds to comp every registered generator that maps
// lits to itself as a set, whether or not it is already a member (spec
// §4.4 "Add stabilizer").
func (s *Solver) addStabilizers(comp *GeneratorSet, lits []Literal) {
	for gid, g := range s.gens.Generators {
		if g.Stabilizes(lits) {
			comp.Add(gid)
		}
	}
}

// stabilizingGenerators returns the set of every registered generator
// that stabilizes lits, used to seed the compatibility set of a
// freshly injected clause that was not derived by resolution (spec
// §4.6 "Injected ESBP clauses ... their scompat is the set of
// generators that stabilize them").
func (s *Solver) stabilizingGenerators(lits []Literal) *GeneratorSet {
	comp := NewGeneratorSet()
	s.addStabilizers(comp, lits)
	return comp
}

// minimizeLearnt drops the redundant literals from a freshly derived
// learnt clause, according to the configured strategy (spec §4.4
// "ccmin_mode"). learnt[0], the asserting literal, is never a
// candidate for removal.
func (s *Solver) minimizeLearnt(learnt []Literal) []Literal {
	switch s.cfg.CCMinMode {
	case CCMinDeep:
		out := learnt[:1]
		for _, l := range learnt[1:] {
			if s.trail.Reason(l.VarID()) == CRefUndef || !s.litRedundant(l) {
				out = append(out, l)
			}
		}
		s.clearAnalyzeToClear()
		return out

	case CCMinBasic:
		out := learnt[:1]
		for _, l := range learnt[1:] {
			reasonCr := s.trail.Reason(l.VarID())
			if reasonCr == CRefUndef {
				out = append(out, l)
				continue
			}
			expl := s.arena.Literals(reasonCr)
			keep := false
			for _, k := range expl[1:] {
				kv := k.VarID()
				if !s.seen.Contains(kv) && s.trail.Level(kv) > 0 {
					keep = true
					break
				}
			}
			if keep {
				out = append(out, l)
			}
		}
		return out

	default:
		return learnt
	}
}

func (s *Solver) clearAnalyzeToClear() {
	for _, v := range s.analyzeToClear {
		s.seenState[v] = seenUndef
	}
	s.analyzeToClear = s.analyzeToClear[:0]
}

type shrinkFrame struct {
	idx int
	lit Literal
}

// litRedundant reports whether p can be dropped from the learnt clause
// being minimized: every other literal in its reason chain is either
// already part of the clause (seen) or itself removable, checked via
// an explicit stack in place of the source's recursive definition
// (spec §4.4 "deep clause minimization"). A candidate is never
// removable if the proof of its redundancy passes through a symmetry
// clause or a forbidden unit, even when it is otherwise structurally
// redundant (spec §4.4 "traversal through symmetry-tainted reasoning
// makes the candidate non-removable").
func (s *Solver) litRedundant(p Literal) bool {
	stack := s.analyzeStack[:0]
	c := s.arena.Literals(s.trail.Reason(p.VarID()))
	isSym := s.arena.Symmetry(s.trail.Reason(p.VarID()))

	for i := 1; ; i++ {
		if i < len(c) {
			l := c[i]
			if s.trail.IsForbiddenUnit(l.VarID()) {
				isSym = true
			}
			v := l.VarID()
			if s.trail.Level(v) == 0 || s.seen.Contains(v) || s.seenState[v] == seenRemovable {
				continue
			}

			reasonCr := s.trail.Reason(v)
			if reasonCr == CRefUndef || s.seenState[v] == seenFailed {
				stack = append(stack, shrinkFrame{0, p})
				for _, fr := range stack {
					fv := fr.lit.VarID()
					if !s.seen.Contains(fv) && s.seenState[fv] == seenUndef {
						s.seenState[fv] = seenFailed
						s.analyzeToClear = append(s.analyzeToClear, fv)
					}
				}
				s.analyzeStack = stack[:0]
				return false
			}

			stack = append(stack, shrinkFrame{i, p})
			i = 0
			p = l
			c = s.arena.Literals(reasonCr)
			if s.arena.Symmetry(reasonCr) {
				isSym = true
			}

		} else {
			pv := p.VarID()
			if !s.seen.Contains(pv) && s.seenState[pv] == seenUndef {
				s.seenState[pv] = seenRemovable
				s.analyzeToClear = append(s.analyzeToClear, pv)
			}

			if len(stack) == 0 {
				break
			}
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			i = top.idx
			p = top.lit
			reasonCr := s.trail.Reason(p.VarID())
			c = s.arena.Literals(reasonCr)
			if s.arena.Symmetry(reasonCr) {
				isSym = true
			}
		}
	}
	s.analyzeStack = stack[:0]
	return !isSym
}

// analyzeFinal populates s.conflict with the negated-assumption subset
// responsible for p becoming false, for SolveLimited's UNSAT-under-
// assumptions result (spec §6 "conflict[]").
func (s *Solver) analyzeFinal(p Literal) {
	s.conflict = append(s.conflict[:0], p)
	if s.trail.DecisionLevel() == 0 {
		return
	}
	s.seen.Add(p.VarID())

	for i := s.trail.Len() - 1; i >= s.trail.LevelStart(0); i-- {
		x := s.trail.At(i).VarID()
		if !s.seen.Contains(x) {
			continue
		}
		reasonCr := s.trail.Reason(x)
		if reasonCr == CRefUndef {
			s.conflict = append(s.conflict, s.trail.At(i).Opposite())
		} else {
			c := s.arena.Literals(reasonCr)
			for _, lj := range c[1:] {
				if s.trail.Level(lj.VarID()) > 0 {
					s.seen.Add(lj.VarID())
				}
			}
		}
		s.seen.Remove(x)
	}
	s.seen.Remove(p.VarID())
}

// propagateUnitOrbit enqueues the image of a freshly asserted level-0
// unit l under each trusted generator that moves l, one image per
// generator; it does not itself follow images of images (spec §4.6
// "notifyCNFUnits"): a literal forced by
// the clause set alone, with no decisions on the trail, remains forced
// under any generator that is a genuine symmetry of the whole formula,
// since backtracking to level 0 has undone every assumption the
// generator's validity could depend on. When l's own derivation was
// symmetry-tainted, only generators already proven compatible with it
// (comp) are trusted; otherwise every registered generator is. It
// reports false the instant an orbit image is already falsified, which
// makes the formula unsatisfiable.
func (s *Solver) propagateUnitOrbit(l Literal, comp *GeneratorSet) bool {
	check := func(g Generator) bool {
		if !g.Permutes(l) {
			return true
		}
		image := g.Image(l)
		switch s.trail.ValueLit(image) {
		case Unknown:
			s.trail.UncheckedEnqueue(image, CRefUndef, comp != nil)
		case False:
			return false
		}
		return true
	}

	if comp != nil {
		ok := true
		comp.Each(func(gid int) {
			if ok && !check(s.gens.Generators[gid]) {
				ok = false
			}
		})
		return ok
	}
	for _, g := range s.gens.Generators {
		if !check(g) {
			return false
		}
	}
	return true
}

// minimizeClause performs self-subsumption minimization on a freshly
// materialized symmetric clause, dropping a false literal whenever
// every other literal of its own reason (or, at level 0, the literal
// itself) is already accounted for — unless doing so would discard a
// literal whose falsity is symmetry-tainted, in which case the whole
// clause is left untouched rather than partially minimized (spec §9
// open question; grounded on the reference's minimizeClause, which
// ships permanently disabled). It is a no-op unless
// SolverConfig.EnableClauseMinimization is set.
func (s *Solver) minimizeClause(cl []Literal) []Literal {
	if !s.cfg.EnableClauseMinimization || len(cl) <= 1 {
		return cl
	}
	for _, l := range cl {
		s.seen.Add(l.VarID())
	}

	original := append([]Literal(nil), cl...)
	out := append([]Literal(nil), cl...)
	isSymmetry := false

	for i := 0; i < len(out) && len(out) > 1; i++ {
		l := out[i]
		if s.trail.ValueLit(l) != False {
			continue
		}
		v := l.VarID()
		if s.trail.Level(v) == 0 {
			if s.trail.IsForbiddenUnit(v) {
				isSymmetry = true
				break
			}
			out[i] = out[len(out)-1]
			out = out[:len(out)-1]
			i--
			continue
		}

		reasonCr := s.trail.Reason(v)
		if reasonCr == CRefUndef {
			continue
		}
		expl := s.arena.Literals(reasonCr)
		allSeen := true
		tainted := false
		for _, ej := range expl {
			if s.trail.IsForbiddenUnit(ej.VarID()) {
				tainted = true
				break
			}
			if s.trail.Level(ej.VarID()) != 0 && !s.seen.Contains(ej.VarID()) {
				allSeen = false
				break
			}
		}
		if tainted {
			isSymmetry = true
			break
		}
		if allSeen {
			if s.arena.Symmetry(reasonCr) {
				isSymmetry = true
				break
			}
			out[i] = out[len(out)-1]
			out = out[:len(out)-1]
			i--
		}
	}

	s.seen.Clear()
	if isSymmetry {
		return original
	}
	return out
}
