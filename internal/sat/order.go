package sat

import (
	"math/rand"

	"github.com/rhartert/yagh"
)

// Order is the activity-based branching heuristic: a max-heap of
// decision-eligible variables keyed by decaying activity, with phase
// saving and an optional random-decision fallback (spec §3 "Order
// heap", §4.5). It is a max-heap over a min-heap primitive by storing
// negated activities, the same trick the reference ordering used.
type Order struct {
	trail *Trail
	heap  *yagh.IntMap[float64]
	rng   *rand.Rand

	activity []float64
	varInc   float64

	randomVarFreq float64
	varDecay      float64
	rndPol        bool
}

// NewOrder returns an order heap with every current variable of trail
// inserted, matching t's current NumVars.
func NewOrder(trail *Trail, cfg SolverConfig) *Order {
	o := &Order{
		trail:         trail,
		heap:          yagh.New[float64](trail.NumVars()),
		rng:           rand.New(rand.NewSource(cfg.RandomSeed)),
		activity:      make([]float64, trail.NumVars()),
		varInc:        1,
		randomVarFreq: cfg.RandomVarFreq,
		varDecay:      cfg.VarDecay,
		rndPol:        cfg.RndPol,
	}
	for v := 0; v < trail.NumVars(); v++ {
		o.insert(Var(v))
	}
	return o
}

// NewVar grows the heap for one additional variable, inserting it if it
// is decision-eligible.
func (o *Order) NewVar(v Var) {
	o.heap.GrowBy(1)
	o.activity = append(o.activity, 0)
	if o.trail.DecisionVar(v) {
		o.insert(v)
	}
}

func (o *Order) insert(v Var) {
	o.heap.Put(int(v), -o.activity[v])
}

// Bump increases v's activity by the current increment (spec §4.5
// "bump variable activities"), rescaling every activity down if the
// increment has grown too large, and reinserts v into the heap if it is
// still there.
func (o *Order) Bump(v Var) {
	o.activity[v] += o.varInc
	if o.activity[v] > 1e100 {
		for i := range o.activity {
			o.activity[i] *= 1e-100
		}
		o.varInc *= 1e-100
	}
	if o.heap.Contains(int(v)) {
		o.insert(v)
	}
}

// Decay scales up the activity increment applied by future bumps
// (spec §4.5 "var_inc /= var_decay after each conflict").
func (o *Order) Decay() {
	o.varInc /= o.varDecay
}

// Undo returns v to the heap after it has been unassigned, if it is
// decision-eligible. Phase saving is not done here: Trail.CancelUntil
// records the released polarity.
func (o *Order) Undo(v Var) {
	if o.trail.DecisionVar(v) {
		o.insert(v)
	}
}

// SeedActivity implements the initial branching heuristic run once
// before the first search (spec §4.5 "Initial heuristic"): for every
// literal, accumulate 1/|C|^2 per occurrence; a variable's activity
// becomes the product of its positive and negative occurrence weights,
// and its saved polarity becomes whichever sign occurred more often.
func (o *Order) SeedActivity(clauseLits [][]Literal) {
	nVars := o.trail.NumVars()
	occs := make([]float64, 2*nVars)
	for _, lits := range clauseLits {
		inc := 1 / float64(len(lits)*len(lits))
		for _, l := range lits {
			occs[l] += inc
		}
	}
	for v := 0; v < nVars; v++ {
		pos := occs[PositiveLiteral(Var(v))]
		neg := occs[NegativeLiteral(Var(v))]
		o.trail.SetSavedPolarity(Var(v), pos > neg)
		o.activity[v] = pos * neg
	}
	o.rebuild()
}

func (o *Order) rebuild() {
	o.heap = yagh.New[float64](o.trail.NumVars())
	for v := 0; v < o.trail.NumVars(); v++ {
		if o.trail.DecisionVar(Var(v)) {
			o.insert(Var(v))
		}
	}
}

// PickBranchLit pops variables until it finds one still unassigned,
// applying the random-decision fallback and polarity rules (spec §4.5
// "user-pinned if set; else saved polarity; else rnd_pol"). It returns
// LitUndef if every decision-eligible variable is already assigned.
func (o *Order) PickBranchLit() Literal {
	var next Var = -1

	if o.randomVarFreq > 0 && o.rng.Float64() < o.randomVarFreq {
		if candidate := o.randomDecisionVar(); candidate >= 0 {
			next = candidate
		}
	}

	for next == -1 || o.trail.Value(next) != Unknown {
		item, ok := o.heap.Pop()
		if !ok {
			return LitUndef
		}
		next = Var(item.Elem)
	}

	if pol := o.trail.UserPolarity(next); pol != Unknown {
		return MkLiteral(next, pol == False)
	}
	if o.rndPol {
		return MkLiteral(next, o.rng.Float64() < 0.5)
	}
	return MkLiteral(next, !o.trail.SavedPolarity(next))
}

func (o *Order) randomDecisionVar() Var {
	nVars := o.trail.NumVars()
	if nVars == 0 {
		return -1
	}
	v := Var(o.rng.Intn(nVars))
	if o.trail.DecisionVar(v) && o.trail.Value(v) == Unknown {
		return v
	}
	return -1
}
