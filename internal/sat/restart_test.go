package sat

import "testing"

func TestLuby_MatchesReferenceSequence(t *testing.T) {
	// The standard Luby sequence at base 2 (spec §4.5): 1,1,2,1,1,2,4,1,...
	want := []float64{1, 1, 2, 1, 1, 2, 4, 1, 1, 2, 1, 1, 2, 4, 8}

	for x, w := range want {
		if got := luby(2, x); got != w {
			t.Errorf("luby(2, %d) = %v, want %v", x, got, w)
		}
	}
}

func TestSolver_RestartBudgetLuby(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LubyRestart = true
	cfg.RestartInc = 2
	cfg.RestartFirst = 100
	s := NewSolver(cfg)

	if got, want := s.restartBudget(0), int64(100); got != want {
		t.Errorf("restartBudget(0) = %d, want %d", got, want)
	}
	if got, want := s.restartBudget(2), int64(200); got != want {
		t.Errorf("restartBudget(2) = %d, want %d", got, want)
	}
	if got, want := s.restartBudget(6), int64(400); got != want {
		t.Errorf("restartBudget(6) = %d, want %d", got, want)
	}
}

func TestSolver_RestartBudgetGeometric(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LubyRestart = false
	cfg.RestartInc = 2
	cfg.RestartFirst = 100
	s := NewSolver(cfg)

	if got, want := s.restartBudget(0), int64(100); got != want {
		t.Errorf("restartBudget(0) = %d, want %d", got, want)
	}
	if got, want := s.restartBudget(3), int64(800); got != want {
		t.Errorf("restartBudget(3) = %d, want %d", got, want)
	}
}

func TestSolver_ReduceDBEvictsLowActivityKeepsBinaryAndLocked(t *testing.T) {
	cfg := DefaultConfig()
	cfg.GarbageFrac = 0 // isolate reduceDB's eviction logic from GC compaction
	s := NewSolver(cfg)

	var vs [6]Var
	for i := range vs {
		vs[i] = s.NewVar(Unknown, true)
	}

	low1 := s.arena.Alloc([]Literal{PositiveLiteral(vs[0]), PositiveLiteral(vs[1]), PositiveLiteral(vs[2])}, true, false, nil)
	s.arena.SetActivity(low1, 0.1)

	low2 := s.arena.Alloc([]Literal{PositiveLiteral(vs[1]), PositiveLiteral(vs[2]), PositiveLiteral(vs[3])}, true, false, nil)
	s.arena.SetActivity(low2, 0.2)

	binary := s.arena.Alloc([]Literal{PositiveLiteral(vs[4]), PositiveLiteral(vs[5])}, true, false, nil)
	s.arena.SetActivity(binary, 0.05)

	locked := s.arena.Alloc([]Literal{PositiveLiteral(vs[0]), PositiveLiteral(vs[3]), PositiveLiteral(vs[4])}, true, false, nil)
	s.arena.SetActivity(locked, 10)

	s.learnts = []CRef{low1, low2, binary, locked}
	s.trail.UncheckedEnqueue(PositiveLiteral(vs[0]), locked, false)

	s.reduceDB()

	if !s.arena.Marked(low1) {
		t.Errorf("low1 should have been evicted (low activity, size > 2, unlocked)")
	}
	if !s.arena.Marked(low2) {
		t.Errorf("low2 should have been evicted (low activity, size > 2, unlocked)")
	}
	if s.arena.Marked(binary) {
		t.Errorf("binary should survive: reduceDB never evicts a two-literal clause")
	}
	if s.arena.Marked(locked) {
		t.Errorf("locked should survive: it is the reason for vs[0]")
	}
	if len(s.learnts) != 2 {
		t.Errorf("len(s.learnts) = %d, want 2", len(s.learnts))
	}
}
