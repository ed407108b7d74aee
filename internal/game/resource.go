package game

// Resource indexes. The order matches the wire resource-set layout.
const (
	Clay = iota
	Ore
	Sheep
	Wheat
	Wood
	Unknown
	NumResourceTypes
)

var resourceNames = [NumResourceTypes]string{"clay", "ore", "sheep", "wheat", "wood", "unknown"}

// ResourceName returns a lowercase resource name for server text.
func ResourceName(r int) string {
	if r < 0 || r >= NumResourceTypes {
		return "resource"
	}
	return resourceNames[r]
}

// Resources is a six-slot nonnegative counter. The UNKNOWN slot holds
// resources whose type this view of the hand no longer knows (robbery seen
// from the outside, discards).
type Resources [6]int

// Add accumulates o into r.
func (r *Resources) Add(o Resources) {
	for i := range r {
		r[i] += o[i]
	}
}

// Subtract removes o from r. When a known slot runs short, the deficit
// drains from UNKNOWN instead: an observer that undercounted a type must
// have overcounted unknowns by the same amount.
func (r *Resources) Subtract(o Resources) {
	for i := 0; i < Unknown; i++ {
		r[i] -= o[i]
		if r[i] < 0 {
			r[Unknown] += r[i]
			r[i] = 0
		}
	}
	r[Unknown] -= o[Unknown]
	if r[Unknown] < 0 {
		r[Unknown] = 0
	}
}

// Contains reports whether r covers o slot by slot (UNKNOWN included).
func (r Resources) Contains(o Resources) bool {
	for i := range r {
		if r[i] < o[i] {
			return false
		}
	}
	return true
}

// Total counts all slots including UNKNOWN.
func (r Resources) Total() int {
	n := 0
	for _, v := range r {
		n += v
	}
	return n
}

// KnownTotal counts only the five typed slots.
func (r Resources) KnownTotal() int {
	n := 0
	for i := 0; i < Unknown; i++ {
		n += r[i]
	}
	return n
}
