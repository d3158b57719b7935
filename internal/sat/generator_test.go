package sat

import "testing"

func TestGeneratorSet_IntersectWith(t *testing.T) {
	a := NewGeneratorSetOf(1, 2, 3)
	b := NewGeneratorSetOf(2, 3, 4)

	a.IntersectWith(b)

	if a.Len() != 2 || !a.Contains(2) || !a.Contains(3) {
		t.Errorf("IntersectWith() = %v members, want {2,3}", a.Len())
	}
}

func TestGeneratorSet_CloneIsIndependent(t *testing.T) {
	a := NewGeneratorSetOf(1)
	b := a.Clone()

	b.Add(2)

	if a.Contains(2) {
		t.Errorf("mutating a clone must not affect the original set")
	}
}

func TestGeneratorSet_EmptyAndRemove(t *testing.T) {
	s := NewGeneratorSet()
	if !s.Empty() {
		t.Errorf("Empty() = false on a freshly constructed set")
	}
	s.Add(5)
	if s.Empty() {
		t.Errorf("Empty() = true after Add")
	}
	s.Remove(5)
	if !s.Empty() {
		t.Errorf("Empty() = false after removing the only member")
	}
}

func TestGeneratorStore_RebuildIndexesOnlyPermutedVars(t *testing.T) {
	gens := NewGeneratorStore()
	g := NewPermutationGenerator(3)
	g.AddCycle([]Literal{PositiveLiteral(0), PositiveLiteral(1)})
	id := gens.Add(g)

	gens.Rebuild(3)

	if got := gens.WatchingVar(0); len(got) != 1 || got[0] != id {
		t.Errorf("WatchingVar(0) = %v, want [%d]", got, id)
	}
	if got := gens.WatchingVar(1); len(got) != 1 || got[0] != id {
		t.Errorf("WatchingVar(1) = %v, want [%d]", got, id)
	}
	if got := gens.WatchingVar(2); len(got) != 0 {
		t.Errorf("WatchingVar(2) = %v, want empty: the generator fixes variable 2", got)
	}
}
