package sat

import "math"

// CRef is an opaque, relocatable handle into a ClauseArena. It is stable
// across ordinary allocations but not across garbage collection: GC
// produces a fresh CRef for every relocated clause and every stored
// occurrence must be rewritten through Reloc (spec §3 "Clause
// Reference", §4.1).
type CRef uint32

// CRefUndef marks the absence of a clause reference, e.g. a decision
// literal's reason or a not-yet-conflicting propagation result.
const CRefUndef CRef = math.MaxUint32

// CRefUnsat is a distinguished non-clause CRef used by the propagator to
// signal a level-0 conflict discovered while materializing a symmetric
// image that collapsed to an already-falsified unit (spec §4.3 step 3/4:
// "if length ≤ 1 ... enqueue or report UNSAT"). It never indexes into an
// arena's data slice.
const CRefUnsat CRef = math.MaxUint32 - 1

const (
	flagLearnt = 1 << iota
	flagSymmetry
	flagMark
	numFlags
)

// clauseHeader packs a clause's metadata flags and literal count into a
// single word, following a classic packed-arena clause allocator (spec
// design note: "Raw clause pointers: replace with an integer handle into
// an owned arena. GC is then a straight copying collector with a
// handle-rewriting pass.").
type clauseHeader uint32

const headerFlagBits = 3

func mkHeader(size int, learnt, symmetry bool) clauseHeader {
	h := clauseHeader(size) << headerFlagBits
	if learnt {
		h |= flagLearnt
	}
	if symmetry {
		h |= flagSymmetry
	}
	return h
}

func (h clauseHeader) size() int      { return int(h >> headerFlagBits) }
func (h clauseHeader) learnt() bool   { return h&flagLearnt != 0 }
func (h clauseHeader) symmetry() bool { return h&flagSymmetry != 0 }
func (h clauseHeader) marked() bool   { return h&flagMark != 0 }

func (h clauseHeader) withMark() clauseHeader {
	return h | flagMark
}

func (h clauseHeader) withSize(n int) clauseHeader {
	const flagMask = (1 << headerFlagBits) - 1
	return clauseHeader(n)<<headerFlagBits | (h & flagMask)
}

// ClauseArena is a contiguous, packed, relocatable store of clauses
// (spec §4.1). Each clause occupies a header word, an optional activity
// word (learnt clauses only), and one word per literal. Deleted clauses
// leave their words behind as "wasted" until Solver.garbageCollect compacts
// them into a fresh arena.
type ClauseArena struct {
	data   []uint32
	wasted int

	// scompat holds the (possibly nil) compatibility set attached to a
	// clause, keyed by its current CRef (spec §3 invariant 4/5, design
	// note: "Pointer-to-set compatibility sets: model as an owned set
	// attached to the clause record; reuse by identity is unnecessary").
	scompat map[CRef]*GeneratorSet

	// relocated remembers, for the lifetime of a single GC pass, which
	// CRefs in this (soon to be discarded) arena have already been
	// copied to the destination arena, so that a clause referenced by
	// multiple watchers is only copied once.
	relocated map[CRef]CRef
}

// NewClauseArena returns an empty arena with capacity for approximately
// capacityWords 32-bit words preallocated.
func NewClauseArena(capacityWords int) *ClauseArena {
	return &ClauseArena{
		data:    make([]uint32, 0, capacityWords),
		scompat: make(map[CRef]*GeneratorSet),
	}
}

func (a *ClauseArena) extra(learnt bool) int {
	if learnt {
		return 1
	}
	return 0
}

// Alloc stores a new clause and returns its handle. scompat may be nil.
func (a *ClauseArena) Alloc(lits []Literal, learnt, symmetry bool, scompat *GeneratorSet) CRef {
	cr := CRef(len(a.data))
	a.data = append(a.data, uint32(mkHeader(len(lits), learnt, symmetry)))
	if learnt {
		a.data = append(a.data, math.Float32bits(0))
	}
	for _, l := range lits {
		a.data = append(a.data, uint32(l))
	}
	if scompat != nil {
		a.scompat[cr] = scompat
	}
	return cr
}

func (a *ClauseArena) header(cr CRef) clauseHeader {
	return clauseHeader(a.data[cr])
}

func (a *ClauseArena) setHeader(cr CRef, h clauseHeader) {
	a.data[cr] = uint32(h)
}

func (a *ClauseArena) litBase(cr CRef) int {
	base := int(cr) + 1
	if a.header(cr).learnt() {
		base++
	}
	return base
}

// Size returns the number of literals in the clause.
func (a *ClauseArena) Size(cr CRef) int { return a.header(cr).size() }

// Learnt reports whether the clause was produced by conflict analysis
// or the symmetry subsystem, as opposed to being an original clause.
func (a *ClauseArena) Learnt(cr CRef) bool { return a.header(cr).learnt() }

// Symmetry reports whether the clause originated from the symmetry
// subsystem (an SEL materialization or an injected ESBP clause).
func (a *ClauseArena) Symmetry(cr CRef) bool { return a.header(cr).symmetry() }

// Marked reports whether the clause has been freed but not yet reclaimed
// by Solver.garbageCollect.
func (a *ClauseArena) Marked(cr CRef) bool { return a.header(cr).marked() }

// Lit returns the i-th literal of the clause.
func (a *ClauseArena) Lit(cr CRef, i int) Literal {
	return Literal(a.data[a.litBase(cr)+i])
}

// SetLit overwrites the i-th literal of the clause.
func (a *ClauseArena) SetLit(cr CRef, i int, l Literal) {
	a.data[a.litBase(cr)+i] = uint32(l)
}

// SwapLits exchanges literals at positions i and j.
func (a *ClauseArena) SwapLits(cr CRef, i, j int) {
	base := a.litBase(cr)
	a.data[base+i], a.data[base+j] = a.data[base+j], a.data[base+i]
}

// Shrink truncates the clause to its first n literals in place.
func (a *ClauseArena) Shrink(cr CRef, n int) {
	a.setHeader(cr, a.header(cr).withSize(n))
}

// Activity returns the learnt-clause activity, or 0 for original clauses.
func (a *ClauseArena) Activity(cr CRef) float64 {
	if !a.header(cr).learnt() {
		return 0
	}
	return float64(math.Float32frombits(a.data[cr+1]))
}

// SetActivity overwrites the learnt-clause activity.
func (a *ClauseArena) SetActivity(cr CRef, act float64) {
	a.data[cr+1] = math.Float32bits(float32(act))
}

// Scompat returns the clause's compatibility set (spec §3), or nil for
// non-symmetry clauses.
func (a *ClauseArena) Scompat(cr CRef) *GeneratorSet {
	return a.scompat[cr]
}

// SetScompat attaches (or replaces) the clause's compatibility set.
func (a *ClauseArena) SetScompat(cr CRef, s *GeneratorSet) {
	if s == nil {
		delete(a.scompat, cr)
		return
	}
	a.scompat[cr] = s
}

// Literals copies out all literals of the clause.
func (a *ClauseArena) Literals(cr CRef) []Literal {
	n := a.Size(cr)
	out := make([]Literal, n)
	base := a.litBase(cr)
	for i := 0; i < n; i++ {
		out[i] = Literal(a.data[base+i])
	}
	return out
}

func (a *ClauseArena) wordsUsed(cr CRef) int {
	n := 1 + a.Size(cr)
	if a.header(cr).learnt() {
		n++
	}
	return n
}

// Free marks the clause as garbage and accounts its words as wasted.
// The clause's storage is not reclaimed until Solver.garbageCollect runs.
func (a *ClauseArena) Free(cr CRef) {
	a.wasted += a.wordsUsed(cr)
	a.setHeader(cr, a.header(cr).withMark())
	delete(a.scompat, cr)
}

// Wasted returns the number of words occupied by freed clauses.
func (a *ClauseArena) Wasted() int { return a.wasted }

// WordSize returns the arena's total footprint in words.
func (a *ClauseArena) WordSize() int { return len(a.data) }

// Reloc copies the clause referenced by cr into arena `to`, memoizing the
// mapping so that a clause reachable from several watchers is copied at
// most once per GC pass, then returns its new handle (spec §4.1
// `reloc(&cref, to)`).
func (a *ClauseArena) Reloc(cr CRef, to *ClauseArena) CRef {
	if a.relocated == nil {
		a.relocated = make(map[CRef]CRef)
	}
	if nc, ok := a.relocated[cr]; ok {
		return nc
	}
	lits := a.Literals(cr)
	nc := to.Alloc(lits, a.Learnt(cr), a.Symmetry(cr), a.Scompat(cr))
	if a.Learnt(cr) {
		to.SetActivity(nc, a.Activity(cr))
	}
	a.relocated[cr] = nc
	return nc
}

// Reloced reports whether cr has already been copied to a destination
// arena during the current GC pass.
func (a *ClauseArena) Reloced(cr CRef) bool {
	_, ok := a.relocated[cr]
	return ok
}
