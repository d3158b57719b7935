package sat

import "testing"

func TestSolver_GarbageCollectRelocatesLiveReasonAndClauseList(t *testing.T) {
	cfg := DefaultConfig()
	s := NewSolver(cfg)

	v0 := s.NewVar(Unknown, true)
	v1 := s.NewVar(Unknown, true)
	v2 := s.NewVar(Unknown, true)

	junk := s.arena.Alloc([]Literal{PositiveLiteral(v1), PositiveLiteral(v2)}, false, false, nil)
	live := s.arena.Alloc([]Literal{PositiveLiteral(v0), PositiveLiteral(v1)}, false, false, nil)
	s.clauses = append(s.clauses, junk, live)
	s.attachClause(live)
	s.trail.UncheckedEnqueue(PositiveLiteral(v0), live, false)

	s.arena.Free(junk)

	s.garbageCollect()

	if len(s.clauses) != 1 {
		t.Fatalf("len(s.clauses) = %d, want 1 (junk dropped)", len(s.clauses))
	}
	newLive := s.clauses[0]
	if newLive == live {
		t.Errorf("live clause was not relocated to a fresh CRef")
	}
	if got := s.trail.Reason(v0); got != newLive {
		t.Errorf("trail.Reason(v0) = %v, want the relocated live CRef %v", got, newLive)
	}
	if got := s.arena.Size(newLive); got != 2 {
		t.Errorf("relocated clause Size() = %d, want 2", got)
	}
	if got := s.arena.Lit(newLive, 0); got != PositiveLiteral(v0) {
		t.Errorf("relocated clause Lit(0) = %v, want %v", got, PositiveLiteral(v0))
	}
}

func TestSolver_MaybeGarbageCollectNoOpBelowThreshold(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GarbageFrac = 0.99
	s := NewSolver(cfg)

	v0 := s.NewVar(Unknown, true)
	v1 := s.NewVar(Unknown, true)
	cr := s.arena.Alloc([]Literal{PositiveLiteral(v0), PositiveLiteral(v1)}, false, false, nil)
	s.clauses = append(s.clauses, cr)

	s.maybeGarbageCollect()

	if len(s.clauses) != 1 || s.clauses[0] != cr {
		t.Errorf("maybeGarbageCollect() ran a collection below GarbageFrac threshold")
	}
}

func TestSolver_MaybeGarbageCollectDisabledWhenGarbageFracZero(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GarbageFrac = 0
	s := NewSolver(cfg)

	v0 := s.NewVar(Unknown, true)
	cr := s.arena.Alloc([]Literal{PositiveLiteral(v0)}, false, false, nil)
	s.arena.Free(cr)
	s.clauses = nil

	before := s.arena.WordSize()
	s.maybeGarbageCollect()
	after := s.arena.WordSize()

	if before != after {
		t.Errorf("arena word size changed from %d to %d: maybeGarbageCollect should be a no-op when GarbageFrac <= 0", before, after)
	}
	if !s.arena.Marked(cr) {
		t.Errorf("original CRef should still be valid and marked freed when GC never ran")
	}
}
