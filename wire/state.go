package wire

import "github.com/tung362/votecatalog/catalog"

// BitArray is a fixed-length bit set packed LSB first, bit i in byte i/8.
type BitArray struct {
	n     int
	bytes []byte
}

func NewBitArray(n int) *BitArray {
	if n < 0 {
		n = 0
	}
	return &BitArray{n: n, bytes: make([]byte, byteLen(n))}
}

func byteLen(bits int) int {
	return (bits + 7) >> 3
}

func (b *BitArray) Len() int {
	return b.n
}

// Get reports bit i. Out-of-range bits read as false.
func (b *BitArray) Get(i int) bool {
	if i < 0 || i >= b.n {
		return false
	}
	return b.bytes[i>>3]&(1<<(i&7)) != 0
}

// Set assigns bit i. Out-of-range bits are ignored.
func (b *BitArray) Set(i int, v bool) {
	if i < 0 || i >= b.n {
		return
	}
	if v {
		b.bytes[i>>3] |= 1 << (i & 7)
	} else {
		b.bytes[i>>3] &^= 1 << (i & 7)
	}
}

// Bytes exposes the packed storage.
func (b *BitArray) Bytes() []byte {
	return b.bytes
}

func (b *BitArray) Clone() *BitArray {
	return &BitArray{n: b.n, bytes: append([]byte(nil), b.bytes...)}
}

// prefix copies bits [0, n) into a new array.
func (b *BitArray) prefix(n int) *BitArray {
	out := NewBitArray(n)
	for i := 0; i < n; i++ {
		out.Set(i, b.Get(i))
	}
	return out
}

// overlay copies every bit of src onto the same index of b.
func (b *BitArray) overlay(src *BitArray) {
	for i := 0; i < src.n; i++ {
		b.Set(i, src.Get(i))
	}
}

// RuleBook holds the chosen local choice index of every selection, addressed
// by selection global index.
type RuleBook struct {
	Values []byte
}

// NewRuleBook returns a rule book sized to c with every selection on its
// default choice.
func NewRuleBook(c *catalog.Catalog) *RuleBook {
	book := &RuleBook{Values: make([]byte, c.SelectionCount())}
	for _, s := range c.Selections() {
		book.Values[s.GlobalIndex] = byte(s.DefaultChoiceIndex)
	}
	return book
}

func (b *RuleBook) Clone() *RuleBook {
	return &RuleBook{Values: append([]byte(nil), b.Values...)}
}

// VoteSheet is one voter's ballot: which selections were voted on and the
// local choice index picked for each (-1 when none).
type VoteSheet struct {
	Voted *BitArray
	Votes []int
}

func NewVoteSheet(selectionCount int) *VoteSheet {
	sheet := &VoteSheet{Voted: NewBitArray(selectionCount), Votes: make([]int, selectionCount)}
	for i := range sheet.Votes {
		sheet.Votes[i] = -1
	}
	return sheet
}

// SetVote records choice for selection index i; a negative choice clears it.
func (s *VoteSheet) SetVote(i, choice int) {
	if i < 0 || i >= len(s.Votes) {
		return
	}
	if choice < 0 {
		s.Votes[i] = -1
		s.Voted.Set(i, false)
		return
	}
	s.Votes[i] = choice
	s.Voted.Set(i, true)
}

func (s *VoteSheet) Clone() *VoteSheet {
	return &VoteSheet{Voted: s.Voted.Clone(), Votes: append([]int(nil), s.Votes...)}
}

// ChoiceMask marks which choices are available, addressed by choice global index.
type ChoiceMask struct {
	*BitArray
}

// NewChoiceMask returns a mask sized to c with every choice available.
func NewChoiceMask(c *catalog.Catalog) *ChoiceMask {
	m := &ChoiceMask{BitArray: NewBitArray(c.ChoiceCount())}
	for i := 0; i < m.Len(); i++ {
		m.Set(i, true)
	}
	return m
}

func (m *ChoiceMask) Clone() *ChoiceMask {
	return &ChoiceMask{BitArray: m.BitArray.Clone()}
}
