// Package sat implements a symmetry-aware conflict-driven clause
// learning (CDCL) core: two-watched-literal unit propagation, first-UIP
// conflict analysis, non-chronological backtracking, activity-based
// branching and restarts, a relocatable clause arena, and a symmetry
// propagation subsystem that lazily maintains symmetrical learnt
// clauses (SEL) and consumes externally-injected symmetry-breaking
// predicates.
//
// CNF parsing, symmetry-file parsing, the CLI front end and the
// symmetry-discovery oracle itself are not part of this package; they
// are expected to sit on top of it as the Oracle and Generator
// capability interfaces, and as the internal/dimacs and
// internal/symfile packages.
package sat

import (
	"fmt"
	"sync/atomic"
	"time"
)

// Solver is a single search engine over one CNF instance, together
// with any symmetry generators installed on it. It is not safe for
// concurrent use.
type Solver struct {
	cfg   SolverConfig
	Stats Stats

	arena   *ClauseArena
	trail   *Trail
	watches *Watches
	order   *Order
	sel     *SelStore
	gens    *GeneratorStore
	oracle  Oracle

	clauses []CRef
	learnts []CRef

	ok bool

	seen           *ResetSet
	seenState      []seenState
	analyzeStack   []shrinkFrame
	analyzeToClear []Var

	claInc float64

	model    []LBool
	conflict []Literal

	assumptions []Literal

	maxLearnts            float64
	learntsizeAdjustConfl float64
	learntsizeAdjustCnt   int

	asyncInterrupt    atomic.Bool
	conflictBudget    int64
	propagationBudget int64
	solves            int

	startTime time.Time

	addBuf []Literal
}

// NewSolver returns an empty solver ready to accept variables and
// clauses, configured by cfg.
func NewSolver(cfg SolverConfig) *Solver {
	trail := NewTrail()
	s := &Solver{
		cfg:     cfg,
		arena:   NewClauseArena(1 << 20),
		trail:   trail,
		watches: NewWatches(),
		sel:     NewSelStore(),
		gens:    NewGeneratorStore(),
		oracle:  NopOracle{},
		ok:      true,
		seen:    &ResetSet{},
		claInc:  1,
	}
	s.order = NewOrder(trail, cfg)
	s.conflictBudget = cfg.ConflictBudget
	s.propagationBudget = cfg.PropagationBudget
	return s
}

// SetOracle installs the external symmetry controller. It must be
// called before the first Solve/SolveLimited call.
func (s *Solver) SetOracle(o Oracle) {
	if o == nil {
		o = NopOracle{}
	}
	s.oracle = o
}

// NumVars returns the number of variables allocated so far.
func (s *Solver) NumVars() int { return s.trail.NumVars() }

// NumClauses returns the number of original (non-learnt) clauses.
func (s *Solver) NumClauses() int { return len(s.clauses) }

// NumLearnts returns the number of learnt clauses currently installed.
func (s *Solver) NumLearnts() int { return len(s.learnts) }

// NewVar allocates a fresh variable (spec §6 "newVar(polarity,
// isDecision)").
func (s *Solver) NewVar(polarity LBool, isDecision bool) Var {
	v := s.trail.NewVar(polarity, isDecision)
	s.watches.Grow()
	s.sel.Grow()
	s.seen.Expand()
	s.seenState = append(s.seenState, seenUndef)
	s.order.NewVar(v)
	return v
}

// AddGenerator installs a symmetry generator (spec §6
// "addGenerator(perm)"). It must be called before the first
// Solve/SolveLimited call: the generator-watch index is rebuilt from
// scratch, which assumes no generator-dependent state (SEL clauses,
// forbidden units) yet exists.
func (s *Solver) AddGenerator(g Generator) int {
	id := s.gens.Add(g)
	s.gens.Rebuild(s.NumVars())
	return id
}

// Interrupt requests that any in-progress or future SolveLimited call
// return Undef at the next conflict boundary (spec §5
// "asynch_interrupt").
func (s *Solver) Interrupt() { s.asyncInterrupt.Store(true) }

// ClearInterrupt resets the interrupt flag.
func (s *Solver) ClearInterrupt() { s.asyncInterrupt.Store(false) }

func (s *Solver) withinBudget() bool {
	if s.asyncInterrupt.Load() {
		return false
	}
	if s.conflictBudget >= 0 && s.Stats.Conflicts >= s.conflictBudget {
		return false
	}
	if s.propagationBudget >= 0 && s.Stats.Propagations >= s.propagationBudget {
		return false
	}
	return true
}

// reasonLits returns the literals of v's reason clause, or nil if v has
// none (a decision or a top-level fact).
func (s *Solver) reasonLits(v Var) []Literal {
	cr := s.trail.Reason(v)
	if cr == CRefUndef {
		return nil
	}
	return s.arena.Literals(cr)
}

// clauseTainted reports whether asserting a literal because of cr
// should mark it a forbidden unit if that happens at level 0: cr is
// itself a symmetry clause, or it already contains a forbidden-unit
// literal (spec §4.2 "or from is any clause that contains a
// forbidden-unit").
func (s *Solver) clauseTainted(cr CRef) bool {
	if cr == CRefUndef {
		return false
	}
	if s.arena.Symmetry(cr) {
		return true
	}
	for i := 0; i < s.arena.Size(cr); i++ {
		if s.trail.IsForbiddenUnit(s.arena.Lit(cr, i).VarID()) {
			return true
		}
	}
	return false
}

// Model returns the assignment found by the most recent successful
// solve (spec §6 "model[v]"). It is nil unless the last call returned
// True.
func (s *Solver) Model() []LBool { return s.model }

// Conflict returns the negated-assumption subset that made the last
// SolveLimited call with assumptions return False (spec §6).
func (s *Solver) Conflict() []Literal { return s.conflict }

// AddClause adds an original (non-learnt) clause (spec §6
// "addClause(lits) → bool"). It returns false iff the formula is now
// known unsatisfiable; once false has been returned, every future call
// short-circuits without touching solver state (spec §7 "Immediate
// UNSAT ... persistently flips ok to false").
func (s *Solver) AddClause(lits []Literal) bool {
	if !s.ok {
		return false
	}
	if s.trail.DecisionLevel() != 0 {
		panic("sat: AddClause called above decision level 0")
	}

	buf := append(s.addBuf[:0], lits...)
	insertionSort(buf)
	s.addBuf = buf

	out := buf[:0]
	for i, l := range buf {
		if i > 0 && l == buf[i-1] {
			continue // duplicate literal
		}
		if i > 0 && l == buf[i-1].Opposite() {
			return true // tautology: p and ~p both present
		}
		switch s.trail.ValueLit(l) {
		case True:
			return true // already satisfied at level 0
		case False:
			continue // falsified at level 0: drop
		default:
			out = append(out, l)
		}
	}
	s.addBuf = out

	switch len(out) {
	case 0:
		s.ok = false
		return false
	case 1:
		s.trail.UncheckedEnqueue(out[0], CRefUndef, false)
		if cr := s.propagate(); cr != CRefUndef {
			s.ok = false
			return false
		}
		return true
	default:
		cr := s.arena.Alloc(out, false, false, nil)
		s.clauses = append(s.clauses, cr)
		s.attachClause(cr)
		return true
	}
}

func insertionSort(lits []Literal) {
	for i := 1; i < len(lits); i++ {
		for j := i; j > 0 && lits[j] < lits[j-1]; j-- {
			lits[j], lits[j-1] = lits[j-1], lits[j]
		}
	}
}

// SolveLimited runs the search under the given assumptions, returning
// True, False or Unknown/Undef (spec §6 "solveLimited(assumptions)").
func (s *Solver) SolveLimited(assumptions []Literal) LBool {
	s.model = nil
	s.conflict = nil
	if !s.ok {
		return False
	}

	s.assumptions = assumptions
	if s.solves == 0 {
		s.seedInitialActivity()
	}
	s.maxLearnts = float64(s.NumClauses()) * s.cfg.LearntsizeFactor
	if s.maxLearnts < float64(s.cfg.MinLearntsLim) {
		s.maxLearnts = float64(s.cfg.MinLearntsLim)
	}
	s.learntsizeAdjustConfl = s.cfg.LearntsizeAdjustStartConfl
	s.learntsizeAdjustCnt = int(s.learntsizeAdjustConfl)
	s.solves++
	s.startTime = time.Now()

	s.pollUnitInjection()
	if !s.ok {
		return False
	}

	status := Unknown
	curRestart := 0
	for status == Unknown && s.withinBudget() {
		budget := s.restartBudget(curRestart)
		status = s.search(budget)
		curRestart++
	}

	if status == True {
		s.model = make([]LBool, s.NumVars())
		for v := 0; v < s.NumVars(); v++ {
			s.model[v] = s.trail.Value(Var(v))
		}
	}
	s.cancelUntilWithNotify(0)
	return status
}

// Solve runs SolveLimited with no assumptions and no budget.
func (s *Solver) Solve() LBool {
	savedC, savedP := s.conflictBudget, s.propagationBudget
	s.conflictBudget, s.propagationBudget = -1, -1
	defer func() { s.conflictBudget, s.propagationBudget = savedC, savedP }()
	return s.SolveLimited(nil)
}

func (s *Solver) pollUnitInjection() {
	for s.oracle.HasClauseToInject(InjectUnits, LitUndef) {
		lits := s.oracle.ClauseToInject(InjectUnits, LitUndef)
		s.Stats.ESBPInjected++
		if !s.AddClause(lits) {
			return
		}
	}
}

func (s *Solver) seedInitialActivity() {
	all := make([][]Literal, 0, len(s.clauses))
	for _, cr := range s.clauses {
		all = append(all, s.arena.Literals(cr))
	}
	s.order.SeedActivity(all)
}

// search runs propagate/analyze/backtrack in a loop until it either
// resolves the whole problem or exhausts conflictBudget conflicts
// within this restart episode (spec §4.5 "each search call runs until
// it hits the scaled budget or solves").
func (s *Solver) search(conflictBudget int64) LBool {
	var confl int64

	for {
		cr := s.propagate()
		if cr != CRefUndef {
			if s.cfg.EnableSelfCheck && !TestSelClauses(s.sel, s.gens, s.reasonLits, s.trail) {
				panic("sat: SEL correctness invariant violated at conflict boundary")
			}
			s.Stats.Conflicts++
			confl++
			s.order.Decay()
			s.decayClauseActivity()

			if s.cfg.EnableReduceDB {
				s.learntsizeAdjustCnt--
				if s.learntsizeAdjustCnt == 0 {
					s.learntsizeAdjustConfl *= s.cfg.LearntsizeAdjustInc
					s.learntsizeAdjustCnt = int(s.learntsizeAdjustConfl)
					s.maxLearnts *= s.cfg.LearntsizeInc
				}
			}

			if s.trail.DecisionLevel() == 0 {
				return False
			}

			learnt, btLevel, scompat := s.analyze(cr)
			s.cancelUntilWithNotify(btLevel)

			if len(learnt) == 1 {
				s.trail.UncheckedEnqueue(learnt[0], CRefUndef, scompat != nil)
				if !s.propagateUnitOrbit(learnt[0], scompat) {
					return False
				}
			} else {
				lcr := s.arena.Alloc(learnt, true, scompat != nil, scompat)
				s.learnts = append(s.learnts, lcr)
				s.attachClause(lcr)
				s.bumpClauseActivity(lcr)
				s.trail.UncheckedEnqueue(learnt[0], lcr, scompat != nil)
			}
			continue
		}

		if !s.withinBudget() {
			return Unknown
		}

		if s.cfg.EnableReduceDB && float64(len(s.learnts))-float64(s.trail.Len()) >= s.maxLearnts {
			s.reduceDB()
		}

		if confl >= conflictBudget && conflictBudget >= 0 {
			s.cancelUntilWithNotify(len(s.assumptions))
			s.Stats.Restarts++
			return Unknown
		}

		lit := LitUndef
		for s.trail.DecisionLevel() < len(s.assumptions) {
			a := s.assumptions[s.trail.DecisionLevel()]
			switch s.trail.ValueLit(a) {
			case True:
				s.trail.NewDecisionLevel() // keep assumption/decision levels aligned
				continue
			case False:
				s.analyzeFinal(a.Opposite())
				return False
			default:
				lit = a
			}
			break
		}
		if lit == LitUndef {
			lit = s.order.PickBranchLit()
			if lit == LitUndef {
				return True
			}
			s.Stats.Decisions++
		}

		s.trail.NewDecisionLevel()
		s.trail.UncheckedEnqueue(lit, CRefUndef, false)
	}
}

// cancelUntilWithNotify wraps Trail.CancelUntil with the oracle
// notification, order-heap reinsertion, and SEL-truncation side
// effects the trail itself does not own (spec §4.2).
func (s *Solver) cancelUntilWithNotify(lvl int) {
	if s.trail.DecisionLevel() <= lvl {
		return
	}
	for i := s.trail.Len() - 1; i >= s.trail.LevelStart(lvl); i-- {
		s.oracle.UpdateCancel(s.trail.At(i))
	}
	phaseSaving := s.cfg.PhaseSaving != PhaseSavingNone
	s.trail.CancelUntil(lvl, phaseSaving, func(v Var, _ bool) {
		s.order.Undo(v)
	})
	if lvl == 0 {
		s.sel.Reset()
	} else {
		s.sel.Truncate(lvl, s.trail)
	}
}

func (s *Solver) bumpClauseActivity(cr CRef) {
	if !s.arena.Learnt(cr) {
		return
	}
	act := s.arena.Activity(cr) + s.claInc
	s.arena.SetActivity(cr, act)
	if act > 1e20 {
		for _, l := range s.learnts {
			if s.arena.Learnt(l) {
				s.arena.SetActivity(l, s.arena.Activity(l)*1e-20)
			}
		}
		s.claInc *= 1e-20
	}
}

func (s *Solver) decayClauseActivity() {
	s.claInc /= s.cfg.ClauseDecay
}

// String reports a one-line summary of the solver's current state,
// mirroring the reference CLI's progress line.
func (s *Solver) String() string {
	return fmt.Sprintf(
		"vars=%d clauses=%d learnts=%d conflicts=%d decisions=%d restarts=%d symgenconfls=%d symselconfls=%d",
		s.NumVars(), s.NumClauses(), s.NumLearnts(),
		s.Stats.Conflicts, s.Stats.Decisions, s.Stats.Restarts,
		s.Stats.SymGenConfls, s.Stats.SymSelConfls,
	)
}
