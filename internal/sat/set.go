package sat

// ResetSet represents a set of variables from 0 to N-1 that can be
// cleared in O(1) by bumping a generation stamp instead of rewriting
// every slot. It backs the analyzer's "seen[]" scratch array (spec
// §3, §4.4): callers must both set and clear their marks through this
// type rather than manipulating a raw slice, so that whichever routine
// clears it never has to walk variables it never touched.
type ResetSet struct {
	stampedAt []uint32
	stamp     uint32
}

// Contains reports whether v is currently in the set.
func (rs *ResetSet) Contains(v Var) bool {
	return int(v) < len(rs.stampedAt) && rs.stampedAt[v] == rs.stamp
}

// Add adds v to the set.
func (rs *ResetSet) Add(v Var) {
	rs.stampedAt[v] = rs.stamp
}

// Remove removes v from the set without waiting for the next Clear.
func (rs *ResetSet) Remove(v Var) {
	rs.stampedAt[v] = rs.stamp - 1
}

// Clear empties the set in constant time.
func (rs *ResetSet) Clear() {
	rs.stamp++
	if rs.stamp == 0 { // wrapped around: fall back to a real reset
		rs.stamp = 1
		for i := range rs.stampedAt {
			rs.stampedAt[i] = 0
		}
	}
}

// Expand grows the set's capacity by one variable.
func (rs *ResetSet) Expand() {
	if rs.stamp == 0 { // slots hold 0 for "never added": count from 1
		rs.stamp = 1
	}
	rs.stampedAt = append(rs.stampedAt, 0)
}

// seenState is the per-variable mark used by litRedundant's
// explicit-stack deep clause minimization (spec §4.4): undefined,
// proven removable, or proven non-removable ("failed"). It is distinct
// from ResetSet's binary membership because minimization needs to
// distinguish "not yet visited" from "visited and rejected"; a
// variable already in the learnt clause's dependency frontier (the
// analyzer's ResetSet, "seen_source" in the reference this is grounded
// on) is checked directly against that set rather than duplicated here.
type seenState uint8

const (
	seenUndef seenState = iota
	seenRemovable
	seenFailed
)
