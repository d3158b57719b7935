package sat

// Watcher records that a clause is watching one of its first two
// literals; blocker is a cached literal of the clause (not necessarily
// the watched one) that, when already True, lets the propagator skip
// the clause without touching the arena (spec §3 "Watch list").
type Watcher struct {
	Cref    CRef
	Blocker Literal
}

// Watches is the per-literal index of clauses watching that literal's
// negation (spec §3, §4.3).
type Watches struct {
	lists [][]Watcher
}

// NewWatches returns an empty watch index.
func NewWatches() *Watches { return &Watches{} }

// Grow expands the index for one additional variable.
func (w *Watches) Grow() { w.lists = append(w.lists, nil, nil) }

// List returns the watcher list triggered when p is assigned True.
func (w *Watches) List(p Literal) []Watcher { return w.lists[p] }

// SetList overwrites the watcher list for p, used while compacting
// during a scan.
func (w *Watches) SetList(p Literal, ws []Watcher) { w.lists[p] = ws }

// Add registers that clause cr watches the literal watched: the watcher
// is filed under watched's negation and is triggered once watched is
// assigned False.
func (w *Watches) Add(watched Literal, cr CRef, blocker Literal) {
	neg := watched.Opposite()
	w.lists[neg] = append(w.lists[neg], Watcher{Cref: cr, Blocker: blocker})
}

// CleanAll drops every watcher whose clause has been freed, across
// every literal (spec §4.1 "Watches are compacted (cleanAll) before
// traversal").
func (w *Watches) CleanAll(a *ClauseArena) {
	for p := range w.lists {
		ws := w.lists[p]
		n := 0
		for _, watcher := range ws {
			if a.Marked(watcher.Cref) {
				continue
			}
			ws[n] = watcher
			n++
		}
		w.lists[p] = ws[:n]
	}
}

// Relocate rewrites every stored CRef from arena `from` to its new
// location in arena `to` (spec §4.1 garbageCollect).
func (w *Watches) Relocate(from, to *ClauseArena) {
	for p := range w.lists {
		ws := w.lists[p]
		for i := range ws {
			ws[i].Cref = from.Reloc(ws[i].Cref, to)
		}
	}
}
