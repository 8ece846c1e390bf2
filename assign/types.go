package assign

import (
	"errors"
	"fmt"
	"sort"
)

// Sentinel errors for AssignList operations.
var (
	// ErrConflict indicates two assignments disagree on the same (node, time).
	ErrConflict = errors.New("assign: conflicting assignment")

	// ErrBadTime indicates a time value outside {0, 1}.
	ErrBadTime = errors.New("assign: time must be 0 or 1")

	// ErrBadValue indicates a value outside {0, 1}.
	ErrBadValue = errors.New("assign: value must be 0 or 1")
)

// Comparison results returned by Compare, matching spec §3's AssignList.compare:
//
//	CmpConflict (-1) : some literal in a contradicts a literal in b
//	CmpDisjoint (0)  : no conflict and neither contains the other (they may still share assignments)
//	CmpSuperset (1)  : a is a strict superset of b
//	CmpSubset   (2)  : b is a strict superset of a
//	CmpEqual    (3)  : a and b contain exactly the same assignments
const (
	CmpConflict = -1
	CmpDisjoint = 0
	CmpSuperset = 1
	CmpSubset   = 2
	CmpEqual    = 3
)

// Assignment is a single (node, time, value) literal.
//
// Time distinguishes the previous frame (0) from the current frame (1);
// combinational circuits only ever use Time == 1.
type Assignment struct {
	Node  int
	Time  uint8
	Value uint8
}

// Less orders Assignments lexicographically by (Node, Time, Value), the
// normal form AssignList relies on for sanity checking and set algebra.
func (a Assignment) Less(b Assignment) bool {
	if a.Node != b.Node {
		return a.Node < b.Node
	}
	if a.Time != b.Time {
		return a.Time < b.Time
	}

	return a.Value < b.Value
}

// opposes reports whether a and b pin the same (node, time) to different values.
func (a Assignment) opposes(b Assignment) bool {
	return a.Node == b.Node && a.Time == b.Time && a.Value != b.Value
}

func validate(a Assignment) error {
	if a.Time > 1 {
		return fmt.Errorf("%w: got %d", ErrBadTime, a.Time)
	}
	if a.Value > 1 {
		return fmt.Errorf("%w: got %d", ErrBadValue, a.Value)
	}

	return nil
}

// AssignList is a sorted, duplicate-free set of Assignments with no two
// entries opposing each other on the same (node, time). Construct one via
// New; do not build the slice by hand and skip validation.
type AssignList []Assignment

// New builds an AssignList from the given assignments, sorting them and
// verifying the normal-form invariant. Returns ErrConflict if two items
// oppose each other, or ErrBadTime/ErrBadValue for malformed fields.
func New(items ...Assignment) (AssignList, error) {
	out := make(AssignList, 0, len(items))
	seen := make(map[Assignment]struct{}, len(items))
	for _, it := range items {
		if err := validate(it); err != nil {
			return nil, err
		}
		if _, dup := seen[it]; dup {
			continue
		}
		seen[it] = struct{}{}
		out = append(out, it)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	if err := out.SanityCheck(); err != nil {
		return nil, err
	}

	return out, nil
}

// SanityCheck verifies the normal-form invariant: sorted order and no two
// assignments opposing each other on the same (node, time). It is exposed
// so callers that build an AssignList incrementally can re-validate.
func (a AssignList) SanityCheck() error {
	for i := 1; i < len(a); i++ {
		if !a[i-1].Less(a[i]) && a[i-1] != a[i] {
			return fmt.Errorf("%w: not sorted at index %d", ErrConflict, i)
		}
		if a[i-1].opposes(a[i]) {
			return fmt.Errorf("%w: node=%d time=%d", ErrConflict, a[i].Node, a[i].Time)
		}
	}

	return nil
}

// Contains reports whether x is present verbatim in a.
func (a AssignList) Contains(x Assignment) bool {
	idx := sort.Search(len(a), func(i int) bool { return !a[i].Less(x) })

	return idx < len(a) && a[idx] == x
}

// Find returns the value assigned to (node, time) and whether one exists.
func (a AssignList) Find(node int, time uint8) (uint8, bool) {
	for _, x := range a {
		if x.Node == node && x.Time == time {
			return x.Value, true
		}
	}

	return 0, false
}

// Merge returns the set-union of a and b. Returns ErrConflict if any pair
// of assignments between the two lists oppose each other.
func (a AssignList) Merge(b AssignList) (AssignList, error) {
	items := make([]Assignment, 0, len(a)+len(b))
	items = append(items, a...)
	items = append(items, b...)

	return New(items...)
}

// Diff returns the set-difference a \ b: assignments present in a that do
// not also appear (verbatim) in b.
func (a AssignList) Diff(b AssignList) AssignList {
	out := make(AssignList, 0, len(a))
	for _, x := range a {
		if !b.Contains(x) {
			out = append(out, x)
		}
	}

	return out
}

// Compare implements the four-valued comparison from spec §3/§8:
// CmpConflict if some literal in a contradicts one in b, CmpEqual if the
// sets are identical, CmpSuperset/CmpSubset for strict containment, and
// CmpDisjoint otherwise. Two empty lists compare CmpEqual.
func Compare(a, b AssignList) int {
	aSet := make(map[Assignment]struct{}, len(a))
	for _, x := range a {
		aSet[x] = struct{}{}
	}
	bSet := make(map[Assignment]struct{}, len(b))
	for _, x := range b {
		bSet[x] = struct{}{}
	}

	for _, x := range a {
		for _, y := range b {
			if x.opposes(y) {
				return CmpConflict
			}
		}
	}

	aSubB, bSubA := true, true
	for x := range aSet {
		if _, ok := bSet[x]; !ok {
			aSubB = false

			break
		}
	}
	for y := range bSet {
		if _, ok := aSet[y]; !ok {
			bSubA = false

			break
		}
	}

	switch {
	case aSubB && bSubA:
		return CmpEqual
	case bSubA:
		// a ⊇ b
		return CmpSuperset
	case aSubB:
		// b ⊇ a
		return CmpSubset
	default:
		return CmpDisjoint
	}
}
