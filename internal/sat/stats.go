package sat

// Stats accumulates the counters the reference CLI and the testable
// properties in spec §8 (E3, E5) rely on. Printing is left to callers —
// the core never formats output itself (spec §1 "the CLI front-end ...
// statistics printing" is out of scope).
type Stats struct {
	Decisions   int64
	Propagations int64
	Conflicts   int64
	Restarts    int64

	// SymGenProps and SymGenConfls count unit propagations and
	// conflicts produced while generating new SEL clauses (spec §4.3
	// step 4).
	SymGenProps int64
	SymGenConfls int64

	// SymSelProps and SymSelConfls count unit propagations and
	// conflicts produced while re-checking existing SEL clauses (spec
	// §4.3 step 3).
	SymSelProps int64
	SymSelConfls int64

	// ESBPInjected counts clauses pulled from the symmetry oracle.
	ESBPInjected int64
}
