package sat

import "testing"

func newTestOrder(t *testing.T, nVars int) (*Trail, *Order, []Var) {
	t.Helper()
	tr := NewTrail()
	cfg := DefaultConfig()
	cfg.RandomVarFreq = 0
	order := NewOrder(tr, cfg)

	vars := make([]Var, nVars)
	for i := range vars {
		vars[i] = tr.NewVar(Unknown, true)
		order.NewVar(vars[i])
	}
	return tr, order, vars
}

func TestOrder_PickBranchLitPrefersHigherActivity(t *testing.T) {
	_, order, vars := newTestOrder(t, 3)

	order.Bump(vars[2])
	order.Bump(vars[2])

	lit := order.PickBranchLit()
	if lit.VarID() != vars[2] {
		t.Errorf("PickBranchLit() picked var %d, want %d (highest bumped activity)", lit.VarID(), vars[2])
	}
}

func TestOrder_PickBranchLitSkipsAssignedVars(t *testing.T) {
	tr, order, vars := newTestOrder(t, 1)

	tr.UncheckedEnqueue(PositiveLiteral(vars[0]), CRefUndef, false)

	if lit := order.PickBranchLit(); lit != LitUndef {
		t.Errorf("PickBranchLit() = %v, want LitUndef once the only decision var is assigned", lit)
	}
}

func TestOrder_UndoReinsertsDecisionVar(t *testing.T) {
	tr, order, vars := newTestOrder(t, 1)

	tr.NewDecisionLevel()
	tr.UncheckedEnqueue(PositiveLiteral(vars[0]), CRefUndef, false)
	if lit := order.PickBranchLit(); lit != LitUndef {
		t.Fatalf("PickBranchLit() = %v, want LitUndef before Undo", lit)
	}

	tr.CancelUntil(0, false, func(v Var, _ bool) { order.Undo(v) })

	if lit := order.PickBranchLit(); lit == LitUndef {
		t.Errorf("PickBranchLit() = LitUndef, want the variable reinserted by Undo")
	}
}

func TestOrder_SeedActivityFavorsMoreFrequentPolarity(t *testing.T) {
	tr, order, vars := newTestOrder(t, 1)
	v := vars[0]

	clauses := [][]Literal{
		{PositiveLiteral(v)},
		{PositiveLiteral(v)},
		{NegativeLiteral(v)},
	}
	order.SeedActivity(clauses)

	if !tr.SavedPolarity(v) {
		t.Errorf("SavedPolarity(v) = false, want true: positive literal occurs more often")
	}
}

func TestOrder_BumpRescalesOnOverflow(t *testing.T) {
	_, order, vars := newTestOrder(t, 2)

	order.activity[vars[0]] = 1e99
	order.varInc = 1e100
	order.Bump(vars[0])

	if got := order.activity[vars[0]]; got < 1 || got > 2 {
		t.Errorf("activity[v0] = %v, want about 1.1 (1.1e100 rescaled by 1e-100) after overflow", got)
	}
}
