package intcode

// labelTable resolves forward and backward references to INTCODE labels
// during assembly. Each of the 500 label slots holds one of three things:
//
//	0    undefined, unreferenced
//	> 0  head of a fix-up chain threaded through the operand words
//	     themselves: labv[n] is the address of the most recent forward
//	     reference, and the word at that address holds the link to the
//	     reference before it, terminated by 0
//	< 0  defined; its negation is the label's resolved address
//
// A clean separation from the memory image (rather than aliasing the top
// LabVCount words of Memory the way icint.c does) keeps assembly-time state
// out of the execution address space; see DESIGN.md for the tradeoff.
type labelTable struct {
	slots [LabVCount]int32
}

func newLabelTable() *labelTable {
	return &labelTable{}
}

// reset clears every slot, called at the end of each Z-terminated section so
// every loaded file gets its own label namespace.
func (lt *labelTable) reset() {
	for i := range lt.slots {
		lt.slots[i] = 0
	}
}

// reference records a reference to label n from instruction word a. If n is
// already defined the resolved address is added into m[a] immediately
// (supporting the case where m[a] already holds a base offset). Otherwise a is linked onto the head of n's fix-up chain and
// m[a] is bumped by the previous head value, matching icint.c's labref.
func (lt *labelTable) reference(m *Memory, n int, a Addr) {
	k := lt.slots[n]
	if k < 0 {
		k = -k
	} else {
		lt.slots[n] = int32(a)
	}
	m.Store(a, m.Load(a)+Word(k))
}

// define resolves label n to address addr: every word in n's fix-up chain
// is patched with addr, and n's slot becomes -addr. Returns false if n was
// already defined (DUPLICATE LABEL).
func (lt *labelTable) define(m *Memory, n int, addr Addr) bool {
	if lt.slots[n] < 0 {
		return false
	}

	k := lt.slots[n]
	for k > 0 {
		next := int32(m.Load(Addr(k)))
		m.Store(Addr(k), addr)
		k = next
	}

	lt.slots[n] = -int32(addr)
	return true
}

// firstUnset returns the first label slot that is still a positive,
// unresolved fix-up chain head, or (-1, false) if every slot is <= 0. Called
// at the end of a section (the Z directive) to detect UNSET LABEL.
func (lt *labelTable) firstUnset() (int, bool) {
	for n, v := range lt.slots {
		if v > 0 {
			return n, true
		}
	}
	return -1, false
}
