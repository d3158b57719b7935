package sat

import "testing"

func TestPermutationGenerator_AddCycle(t *testing.T) {
	g := NewPermutationGenerator(3)
	one, two, three := PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)

	g.AddCycle([]Literal{one, two, three})

	if got := g.Image(one); got != two {
		t.Errorf("Image(1) = %v, want %v", got, two)
	}
	if got := g.Image(two); got != three {
		t.Errorf("Image(2) = %v, want %v", got, three)
	}
	if got := g.Image(three); got != one {
		t.Errorf("Image(3) = %v, want %v", got, one)
	}
}

func TestPermutationGenerator_MirrorsNegation(t *testing.T) {
	g := NewPermutationGenerator(2)
	one, two := PositiveLiteral(0), PositiveLiteral(1)

	g.AddCycle([]Literal{one, two})

	if got := g.Image(one.Opposite()); got != two.Opposite() {
		t.Errorf("Image(-1) = %v, want %v", got, two.Opposite())
	}
	if got := g.Image(two.Opposite()); got != one.Opposite() {
		t.Errorf("Image(-2) = %v, want %v", got, one.Opposite())
	}
}

func TestPermutationGenerator_PermutesAndIdentity(t *testing.T) {
	g := NewPermutationGenerator(3)
	moved := PositiveLiteral(0)
	fixed := PositiveLiteral(2)

	g.AddCycle([]Literal{moved, PositiveLiteral(1)})

	if !g.Permutes(moved) {
		t.Errorf("Permutes(moved) = false, want true")
	}
	if g.Permutes(fixed) {
		t.Errorf("Permutes(fixed) = true, want false: the identity fixes it")
	}
}

func TestPermutationGenerator_Stabilizes(t *testing.T) {
	g := NewPermutationGenerator(3)
	l0, l1, l2 := PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)
	g.AddCycle([]Literal{l0, l1})

	if !g.Stabilizes([]Literal{l0, l1, l2}) {
		t.Errorf("Stabilizes({l0,l1,l2}) = false, want true: the cycle maps the set to itself")
	}
	if g.Stabilizes([]Literal{l0, l2}) {
		t.Errorf("Stabilizes({l0,l2}) = true, want false: l0's image l1 is not in the set")
	}
}

func TestPermutationGenerator_SymmetricClause(t *testing.T) {
	g := NewPermutationGenerator(3)
	l0, l1, l2 := PositiveLiteral(0), PositiveLiteral(1), PositiveLiteral(2)
	g.AddCycle([]Literal{l0, l1})

	got := g.SymmetricClause([]Literal{l0, l2})
	want := []Literal{l1, l2}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("SymmetricClause({l0,l2}) = %v, want %v", got, want)
	}
}
