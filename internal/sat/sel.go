package sat

// SelOutcome is the result of attempting to derive the symmetric image
// of a reason clause under one generator (spec §4.3 step 4 "addSelClause").
type SelOutcome int

const (
	// SelRedundant means the image already contains a True literal
	// under the generator: g·R is already satisfied, nothing is added.
	SelRedundant SelOutcome = iota
	// SelWatched means the image had at least two Undef literals and is
	// now tracked as a lazily-materialized SEL clause.
	SelWatched
	// SelUnitOrConflict means the image collapsed to fewer than two
	// Undef literals; the caller must materialize it immediately via
	// addClauseFromSymmetry.
	SelUnitOrConflict
)

// SelStore is the symmetrical-learnt-clause store for the current
// search branch (spec §3 "SEL store"). Every SEL clause is an implicit
// symmetric image of some already-derived reason clause, kept alive by
// two watches into a flat literal buffer rather than materialized as a
// real clause until it becomes unit or conflicting.
type SelStore struct {
	lits []Literal
	idx  []int
	gen  []int
	prop []Var

	// watches[p] holds the indices of SEL clauses currently watching
	// p's negation: when p is newly assigned True, every clause in
	// watches[p] has one of its two watched literals just falsified.
	watches [][]int
}

// NewSelStore returns an empty SEL store.
func NewSelStore() *SelStore {
	return &SelStore{idx: []int{0}}
}

// Grow expands the watch index for one additional variable.
func (s *SelStore) Grow() {
	s.watches = append(s.watches, nil, nil)
}

// NumClauses returns the number of live SEL clauses.
func (s *SelStore) NumClauses() int { return len(s.idx) - 1 }

// Size returns the number of literals in SEL clause k.
func (s *SelStore) Size(k int) int { return s.idx[k+1] - s.idx[k] }

// Literal returns the i-th literal of SEL clause k.
func (s *SelStore) Literal(k, i int) Literal { return s.lits[s.idx[k]+i] }

// SetLiteral overwrites the i-th literal of SEL clause k.
func (s *SelStore) SetLiteral(k, i int, l Literal) { s.lits[s.idx[k]+i] = l }

// SwapLiterals exchanges literals at positions i and j of SEL clause k.
func (s *SelStore) SwapLiterals(k, i, j int) {
	base := s.idx[k]
	s.lits[base+i], s.lits[base+j] = s.lits[base+j], s.lits[base+i]
}

// Gen returns the generator id that produced SEL clause k.
func (s *SelStore) Gen(k int) int { return s.gen[k] }

// Prop returns the variable whose reason clause was imaged to produce
// SEL clause k.
func (s *SelStore) Prop(k int) Var { return s.prop[k] }

// WatchersOf returns the SEL clause indices triggered when p is
// assigned True.
func (s *SelStore) WatchersOf(p Literal) []int { return s.watches[p] }

// SetWatchersOf overwrites the watcher list for p, used while
// compacting during a scan.
func (s *SelStore) SetWatchersOf(p Literal, ws []int) { s.watches[p] = ws }

// addWatch records that SEL clause k is watching literal watched: it is
// triggered once watched's negation is assigned True.
func (s *SelStore) addWatch(k int, watched Literal) {
	neg := watched.Opposite()
	s.watches[neg] = append(s.watches[neg], k)
}

// TryGenerate computes the image of reasonLits under gen and classifies
// it without mutating the store (spec §4.3 step 4). Literals already
// False under the image are dropped, since they remain False until the
// next backtrack; literals already True make the image redundant.
func TryGenerate(gen Generator, reasonLits []Literal, trail *Trail) (SelOutcome, []Literal) {
	for _, l := range reasonLits {
		if trail.ValueLit(gen.Image(l)) == True {
			return SelRedundant, nil
		}
	}
	undef := make([]Literal, 0, len(reasonLits))
	for _, l := range reasonLits {
		img := gen.Image(l)
		if trail.ValueLit(img) == Unknown {
			undef = append(undef, img)
		}
	}
	if len(undef) < 2 {
		return SelUnitOrConflict, undef
	}
	return SelWatched, undef
}

// Install appends a new SEL clause with the given (already-classified,
// >= 2 literal) image and installs its two watches, returning its index.
func (s *SelStore) Install(genID int, propVar Var, lits []Literal) int {
	k := s.NumClauses()
	s.lits = append(s.lits, lits...)
	s.idx = append(s.idx, len(s.lits))
	s.gen = append(s.gen, genID)
	s.prop = append(s.prop, propVar)
	s.addWatch(k, s.Literal(k, 0))
	s.addWatch(k, s.Literal(k, 1))
	return k
}

// Reset discards every SEL clause (spec §4.2 "if lvl = 0, clear the SEL
// store entirely").
func (s *SelStore) Reset() {
	s.lits = s.lits[:0]
	s.idx = s.idx[:1]
	s.gen = s.gen[:0]
	s.prop = s.prop[:0]
	for p := range s.watches {
		s.watches[p] = nil
	}
}

// Truncate drops every SEL clause whose propagated variable is no
// longer assigned at a level above lvl, and rebuilds the watch index
// from scratch (spec §4.2 "otherwise truncate SEL state to those
// clauses whose selProp variable remains assigned above level lvl").
func (s *SelStore) Truncate(lvl int, trail *Trail) {
	newLits := make([]Literal, 0, len(s.lits))
	newIdx := []int{0}
	newGen := make([]int, 0, len(s.gen))
	newProp := make([]Var, 0, len(s.prop))
	for k := 0; k < s.NumClauses(); k++ {
		v := s.prop[k]
		if trail.Level(v) <= lvl {
			continue
		}
		for i := 0; i < s.Size(k); i++ {
			newLits = append(newLits, s.Literal(k, i))
		}
		newIdx = append(newIdx, len(newLits))
		newGen = append(newGen, s.gen[k])
		newProp = append(newProp, v)
	}
	s.lits, s.idx, s.gen, s.prop = newLits, newIdx, newGen, newProp
	for p := range s.watches {
		s.watches[p] = nil
	}
	for k := 0; k < s.NumClauses(); k++ {
		s.addWatch(k, s.Literal(k, 0))
		s.addWatch(k, s.Literal(k, 1))
	}
}

// TestSelClauses checks the SEL correctness invariant (spec §8 property
// 7): every stored clause is exactly the Undef-at-insertion images,
// under its generator, of the Undef literals of its source reason. It
// is a debug assertion, called from search at every conflict boundary
// when SolverConfig.EnableSelfCheck is set (off by default: the check
// is O(SEL store size) per conflict).
func TestSelClauses(s *SelStore, gens *GeneratorStore, reasonOf func(Var) []Literal, trail *Trail) bool {
	for k := 0; k < s.NumClauses(); k++ {
		gen := gens.Generators[s.Gen(k)]
		reason := reasonOf(s.Prop(k))
		want := map[Literal]bool{}
		for _, l := range reason {
			img := gen.Image(l)
			if trail.ValueLit(img) == Unknown {
				want[img] = true
			}
		}
		for i := 0; i < s.Size(k); i++ {
			if !want[s.Literal(k, i)] {
				return false
			}
		}
	}
	return true
}
