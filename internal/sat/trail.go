package sat

// VarData is the per-variable bookkeeping the trail owns: the clause
// that forced the variable's current value (CRefUndef for decisions and
// top-level facts) and the decision level at which it was assigned
// (spec §3 "Variable").
type VarData struct {
	Reason CRef
	Level  int
}

// Trail is the assignment stack together with everything cancelUntil
// must roll back atomically (spec §3 "Trail", §4.2).
type Trail struct {
	assigns       []LBool
	vardata       []VarData
	savedPolarity []bool
	userPolarity  []LBool
	decisionVar   []bool

	buf      []Literal
	lim      []int
	forbid   []bool

	// qhead, qheadGen and qheadSel are the three non-decreasing
	// propagation queue heads (spec §3 "Propagation queue heads").
	qhead    int
	qheadGen int
	qheadSel int

	// watchIdx is the position within the generator-watch list of the
	// variable at qheadGen that SEL generation has reached; reset
	// alongside the queue heads on cancellation (spec §4.2).
	watchIdx int
}

// NewTrail returns an empty trail with no variables.
func NewTrail() *Trail {
	return &Trail{lim: []int{}}
}

// NumVars returns the number of variables allocated so far.
func (t *Trail) NumVars() int { return len(t.assigns) }

// NewVar allocates a fresh variable. polarity, if not Unknown, is the
// sign the branching heuristic always picks when it decides on the
// variable (spec §6 "newVar(polarity, isDecision)");
// isDecision controls whether the branching heuristic may ever choose it.
func (t *Trail) NewVar(polarity LBool, isDecision bool) Var {
	v := Var(len(t.assigns))
	t.assigns = append(t.assigns, Unknown)
	t.vardata = append(t.vardata, VarData{Reason: CRefUndef, Level: -1})
	t.savedPolarity = append(t.savedPolarity, true)
	t.userPolarity = append(t.userPolarity, polarity)
	t.decisionVar = append(t.decisionVar, isDecision)
	t.forbid = append(t.forbid, false)
	return v
}

// Value returns the current truth value of v.
func (t *Trail) Value(v Var) LBool { return t.assigns[v] }

// ValueLit returns the current truth value of literal l, accounting for
// its sign.
func (t *Trail) ValueLit(l Literal) LBool {
	val := t.assigns[l.VarID()]
	if val == Unknown {
		return Unknown
	}
	if l.IsPositive() {
		return val
	}
	return val.Opposite()
}

// Reason returns the clause that forced v's current value, or
// CRefUndef for a decision or an unassigned variable.
func (t *Trail) Reason(v Var) CRef { return t.vardata[v].Reason }

// SetReason overwrites v's reason clause, used by garbage collection to
// rewrite a relocated CRef in place (spec §4.1 "reloc every live
// reason").
func (t *Trail) SetReason(v Var, cr CRef) { t.vardata[v].Reason = cr }

// Level returns the decision level at which v was assigned, or -1 if
// it is currently unassigned.
func (t *Trail) Level(v Var) int { return t.vardata[v].Level }

// DecisionVar reports whether the branching heuristic is allowed to
// pick v.
func (t *Trail) DecisionVar(v Var) bool { return t.decisionVar[v] }

// SetDecisionVar changes v's decision-eligibility flag.
func (t *Trail) SetDecisionVar(v Var, b bool) { t.decisionVar[v] = b }

// SavedPolarity returns the polarity v was last assigned, used by
// phase saving (spec §4.5). true means the positive literal.
func (t *Trail) SavedPolarity(v Var) bool { return t.savedPolarity[v] }

// SetSavedPolarity overwrites v's saved polarity, used by the initial
// activity heuristic to seed a phase before any assignment exists.
func (t *Trail) SetSavedPolarity(v Var, positive bool) { t.savedPolarity[v] = positive }

// UserPolarity returns the pinned polarity for v, or Unknown if none
// was requested at NewVar time.
func (t *Trail) UserPolarity(v Var) LBool { return t.userPolarity[v] }

// DecisionLevel returns the current decision level: the number of
// decisions made since the top level.
func (t *Trail) DecisionLevel() int { return len(t.lim) }

// Len returns the number of literals currently on the trail.
func (t *Trail) Len() int { return len(t.buf) }

// At returns the literal at trail position i.
func (t *Trail) At(i int) Literal { return t.buf[i] }

// LevelStart returns the trail index at which decision level lvl+1
// began, i.e. trail_lim[lvl]. LevelStart(0) is the trail length at the
// top level.
func (t *Trail) LevelStart(lvl int) int {
	if lvl >= len(t.lim) {
		return len(t.buf)
	}
	return t.lim[lvl]
}

// NewDecisionLevel opens a new decision level at the current trail
// length (spec §4.2 "newDecisionLevel").
func (t *Trail) NewDecisionLevel() {
	t.lim = append(t.lim, len(t.buf))
}

// QHead returns the three propagation queue heads.
func (t *Trail) QHead() (bcp, gen, sel int) { return t.qhead, t.qheadGen, t.qheadSel }

// SetQHead overwrites the three propagation queue heads.
func (t *Trail) SetQHead(bcp, gen, sel int) {
	t.qhead, t.qheadGen, t.qheadSel = bcp, gen, sel
}

// WatchIdx returns SEL generation's current position in the
// generator-watch list.
func (t *Trail) WatchIdx() int { return t.watchIdx }

// SetWatchIdx overwrites SEL generation's generator-watch position.
func (t *Trail) SetWatchIdx(i int) { t.watchIdx = i }

// IsForbiddenUnit reports whether v's level-0 value was derived through
// a symmetry clause, transitively (spec §3 "Forbidden-units set").
func (t *Trail) IsForbiddenUnit(v Var) bool { return t.forbid[v] }

// markForbiddenUnit records that v's level-0 value is symmetry-tainted.
func (t *Trail) markForbiddenUnit(v Var) { t.forbid[v] = true }

// UncheckedEnqueue asserts p: the caller must already know value(p) is
// Undef. from is p's reason (CRefUndef for decisions). taint tells the
// trail whether from is a symmetry clause or otherwise carries
// forbidden-unit provenance; when p lands at level 0 under taint, p's
// variable joins the forbidden-units set (spec §4.2, §4.6).
func (t *Trail) UncheckedEnqueue(p Literal, from CRef, taint bool) {
	v := p.VarID()
	t.assigns[v] = Lift(p.IsPositive())
	t.vardata[v] = VarData{Reason: from, Level: t.DecisionLevel()}
	t.buf = append(t.buf, p)
	if t.DecisionLevel() == 0 && taint {
		t.markForbiddenUnit(v)
	}
}

// CancelUnassign is invoked by CancelUntil for every literal being
// undone, in reverse trail order, before the trail itself is truncated.
type CancelUnassign func(v Var, savedPolarity bool)

// CancelUntil rolls the trail back to decision level lvl, calling
// onUnassign for every variable it unassigns so that callers can notify
// the symmetry oracle and reinsert the variable into the order heap
// (spec §4.2). phaseSaving controls whether the variable's last value
// is remembered for the next decision.
func (t *Trail) CancelUntil(lvl int, phaseSaving bool, onUnassign CancelUnassign) {
	if t.DecisionLevel() <= lvl {
		return
	}
	start := t.lim[lvl]
	for i := len(t.buf) - 1; i >= start; i-- {
		p := t.buf[i]
		v := p.VarID()
		if phaseSaving {
			t.savedPolarity[v] = p.IsPositive()
		}
		t.assigns[v] = Unknown
		t.vardata[v] = VarData{Reason: CRefUndef, Level: -1}
		if onUnassign != nil {
			onUnassign(v, t.savedPolarity[v])
		}
	}
	t.buf = t.buf[:start]
	t.lim = t.lim[:lvl]
	t.qhead, t.qheadGen, t.qheadSel = start, start, start
	t.watchIdx = 0
}
