package sat

import "sort"

// Generator is a symmetry generator: a permutation of literals that maps
// the input formula to itself (spec §1, §4.6). The core never
// constructs generators itself — they are supplied by an external
// symmetry-discovery oracle (out of scope, spec §1) via Solver.AddGenerator
// or parsed from a symmetry file by internal/symfile.
type Generator interface {
	// Image returns the literal that l is mapped to under this
	// permutation ("getImage" in spec §4.6).
	Image(l Literal) Literal

	// Permutes reports whether this generator moves l, i.e. whether
	// Image(l) != l ("permutes" in spec §4.6). Variables the generator
	// fixes need not be watched by the generator store.
	Permutes(l Literal) bool

	// Stabilizes reports whether every literal's image under this
	// generator also occurs in lits, i.e. the generator maps the clause
	// to itself as a set ("stabilize" in spec §4.4/§4.6).
	Stabilizes(lits []Literal) bool

	// SymmetricClause returns the image of reason's literals under this
	// generator ("getSymmetricalClause" in spec §4.3).
	SymmetricClause(reason []Literal) []Literal
}

// GeneratorSet is a compatibility set: the (possibly empty) collection of
// generators known to commute with a particular learnt clause (spec §3
// "scompat"). Membership is tested by generator index into the owning
// GeneratorStore's Generators slice, not by interface identity, so sets
// stay cheap to intersect and to iterate in a deterministic order (spec
// §5: "propagation is deterministic given ... generator order").
type GeneratorSet struct {
	ids map[int]struct{}
}

// NewGeneratorSet returns an empty compatibility set.
func NewGeneratorSet() *GeneratorSet {
	return &GeneratorSet{ids: make(map[int]struct{})}
}

// NewGeneratorSetOf returns a compatibility set containing exactly ids.
func NewGeneratorSetOf(ids ...int) *GeneratorSet {
	s := NewGeneratorSet()
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

// Add adds a generator id to the set.
func (s *GeneratorSet) Add(id int) { s.ids[id] = struct{}{} }

// Remove removes a generator id from the set.
func (s *GeneratorSet) Remove(id int) { delete(s.ids, id) }

// Contains reports whether id is a member.
func (s *GeneratorSet) Contains(id int) bool {
	_, ok := s.ids[id]
	return ok
}

// Empty reports whether the set has no members.
func (s *GeneratorSet) Empty() bool { return len(s.ids) == 0 }

// Len returns the number of members.
func (s *GeneratorSet) Len() int { return len(s.ids) }

// Clone returns an independent copy of the set.
func (s *GeneratorSet) Clone() *GeneratorSet {
	c := NewGeneratorSet()
	for id := range s.ids {
		c.ids[id] = struct{}{}
	}
	return c
}

// IntersectWith removes from s every id not present in other.
func (s *GeneratorSet) IntersectWith(other *GeneratorSet) {
	for id := range s.ids {
		if !other.Contains(id) {
			delete(s.ids, id)
		}
	}
}

// Each calls f for every member id, in increasing id order.
func (s *GeneratorSet) Each(f func(id int)) {
	ids := make([]int, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	for _, id := range ids {
		f(id)
	}
}

// GeneratorStore is the per-variable index of generators that move it
// (spec §3 "Generator-watch index", §4.6 "Symmetry Generator Store").
// It is rebuilt whenever a generator is added and variables exist, since
// a newly added generator can move any already-allocated variable.
type GeneratorStore struct {
	Generators []Generator

	// watchStart[v]..watchStart[v+1] is the span of watchIDs that move
	// variable v, flattened the way the original genWatches/
	// genWatchIndices arrays are (spec §3).
	watchStart []int
	watchIDs   []int
}

// NewGeneratorStore returns an empty store.
func NewGeneratorStore() *GeneratorStore {
	return &GeneratorStore{watchStart: []int{0}}
}

// Add registers a new generator and returns its stable id (its index
// into Generators). The caller must call Rebuild before the id's watch
// span is queried.
func (gs *GeneratorStore) Add(g Generator) int {
	id := len(gs.Generators)
	gs.Generators = append(gs.Generators, g)
	return id
}

// Rebuild recomputes the per-variable watch index for nVars variables,
// mirroring Solver::initiateGenWatches.
func (gs *GeneratorStore) Rebuild(nVars int) {
	gs.watchStart = make([]int, nVars+1)
	gs.watchIDs = gs.watchIDs[:0]
	for v := 0; v < nVars; v++ {
		gs.watchStart[v] = len(gs.watchIDs)
		for id, g := range gs.Generators {
			if g.Permutes(PositiveLiteral(Var(v))) {
				gs.watchIDs = append(gs.watchIDs, id)
			}
		}
	}
	gs.watchStart[nVars] = len(gs.watchIDs)
}

// WatchingVar returns the ids of every generator that moves v.
func (gs *GeneratorStore) WatchingVar(v Var) []int {
	return gs.watchIDs[gs.watchStart[v]:gs.watchStart[v+1]]
}
