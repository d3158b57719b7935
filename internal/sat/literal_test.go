package sat

import "testing"

func TestLiteral_Encoding(t *testing.T) {
	v := Var(5)

	pos := PositiveLiteral(v)
	neg := NegativeLiteral(v)

	if !pos.IsPositive() {
		t.Errorf("PositiveLiteral(%d).IsPositive() = false, want true", v)
	}
	if neg.IsPositive() {
		t.Errorf("NegativeLiteral(%d).IsPositive() = true, want false", v)
	}
	if pos.VarID() != v {
		t.Errorf("PositiveLiteral(%d).VarID() = %d, want %d", v, pos.VarID(), v)
	}
	if neg.VarID() != v {
		t.Errorf("NegativeLiteral(%d).VarID() = %d, want %d", v, neg.VarID(), v)
	}
	if pos.Opposite() != neg {
		t.Errorf("PositiveLiteral(%d).Opposite() = %v, want %v", v, pos.Opposite(), neg)
	}
	if neg.Opposite() != pos {
		t.Errorf("NegativeLiteral(%d).Opposite() = %v, want %v", v, neg.Opposite(), pos)
	}
}

func TestMkLiteral(t *testing.T) {
	v := Var(3)

	if got := MkLiteral(v, false); got != PositiveLiteral(v) {
		t.Errorf("MkLiteral(%d, false) = %v, want %v", v, got, PositiveLiteral(v))
	}
	if got := MkLiteral(v, true); got != NegativeLiteral(v) {
		t.Errorf("MkLiteral(%d, true) = %v, want %v", v, got, NegativeLiteral(v))
	}
}

func TestLiteral_String(t *testing.T) {
	v := Var(2)

	if got, want := PositiveLiteral(v).String(), "2"; got != want {
		t.Errorf("PositiveLiteral(2).String() = %q, want %q", got, want)
	}
	if got, want := NegativeLiteral(v).String(), "-2"; got != want {
		t.Errorf("NegativeLiteral(2).String() = %q, want %q", got, want)
	}
}
