package bitmask

// Width is the number of addressable bits in a Mask.
const Width = 32

// Mask is a fixed-width presence set over small integer indices.
// Indices outside [0, Width) are ignored by every operation.
type Mask uint32

// None is the empty mask.
const None Mask = 0

func valid(i int) bool {
	return i >= 0 && i < Width
}

// Set adds index i to the mask.
func (m *Mask) Set(i int) {
	if !valid(i) {
		return
	}
	*m |= 1 << uint(i)
}

// Remove clears index i from the mask.
func (m *Mask) Remove(i int) {
	if !valid(i) {
		return
	}
	*m &^= 1 << uint(i)
}

// Toggle flips index i.
func (m *Mask) Toggle(i int) {
	if !valid(i) {
		return
	}
	*m ^= 1 << uint(i)
}

// Test reports whether index i is present.
func (m Mask) Test(i int) bool {
	return valid(i) && m&(1<<uint(i)) != 0
}

// And returns the intersection of two masks.
func (m Mask) And(o Mask) Mask {
	return m & o
}

// IsEmpty reports whether no index is set.
func (m Mask) IsEmpty() bool {
	return m == None
}

// Indices returns the set indices in ascending order.
func (m Mask) Indices() []int {
	out := make([]int, 0, Width)
	for i := 0; i < Width; i++ {
		if m.Test(i) {
			out = append(out, i)
		}
	}
	return out
}
