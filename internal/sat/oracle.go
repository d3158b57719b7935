package sat

// InjectKind selects which family of clauses an Oracle is asked for
// (spec §4.6 "hasClauseToInject(kind, [lit])").
type InjectKind int

const (
	// InjectUnits is polled once per discovered level-0 unit, at the
	// start of a solve call, before the first decision.
	InjectUnits InjectKind = iota
	// InjectESBP is polled during propagation, keyed on the literal
	// that was just assigned.
	InjectESBP
)

// Oracle is the external symmetry controller the core depends on as a
// capability object (spec §4.6, §9 "External oracle"). The core never
// constructs or inspects an Oracle's internals; a no-op Oracle is valid
// and yields a solver with no symmetry reasoning beyond user-supplied
// generators.
type Oracle interface {
	// UpdateNotify is called once for every literal newly placed on the
	// trail, in trail order.
	UpdateNotify(lit Literal)

	// UpdateCancel is called once for every literal removed from the
	// trail by CancelUntil, in reverse trail order.
	UpdateCancel(lit Literal)

	// HasClauseToInject reports whether a clause of the given kind,
	// keyed on lit, is available. lit is LitUndef for InjectUnits.
	HasClauseToInject(kind InjectKind, lit Literal) bool

	// ClauseToInject returns the clause HasClauseToInject reported as
	// available, consuming it.
	ClauseToInject(kind InjectKind, lit Literal) []Literal
}

// NopOracle is an Oracle that never has anything to inject. It is the
// default when a solver is built without an external symmetry
// controller.
type NopOracle struct{}

func (NopOracle) UpdateNotify(Literal)                       {}
func (NopOracle) UpdateCancel(Literal)                       {}
func (NopOracle) HasClauseToInject(InjectKind, Literal) bool { return false }
func (NopOracle) ClauseToInject(InjectKind, Literal) []Literal {
	return nil
}
