package intcode

import (
	"errors"
	"os"
	"testing"
)

// tryAssemble writes src to a temp file, assembles it into a fresh
// bootstrapped memory image, and returns everything the caller might need
// plus whatever *HaltError assembly produced (nil on success) — the error
// tests check that directly instead of asserting it away.
func tryAssemble(t *testing.T, src string) (mem *Memory, asm *Assembler, st *streamTable, outPath string, herr *HaltError) {
	t.Helper()

	mem = NewMemory()
	st, outPath = newTestStreams(t, "")
	lomem := WriteBootstrap(mem)
	asm = NewAssembler(mem, st, lomem)

	srcFile, err := os.CreateTemp(t.TempDir(), "prog")
	assert(t, err == nil, "creating temp program file: %v", err)
	_, err = srcFile.WriteString(src)
	assert(t, err == nil, "writing temp program file: %v", err)
	srcFile.Close()

	in := st.FindInput(srcFile.Name())
	assert(t, in != 0, "FindInput failed for %s", srcFile.Name())
	st.SelectInput(in)

	herr = asm.AssembleFile()
	return mem, asm, st, outPath, herr
}

// assembleSource is tryAssemble for tests that expect clean assembly.
func assembleSource(t *testing.T, src string) (*Memory, *Assembler, *streamTable, string) {
	t.Helper()
	mem, asm, st, outPath, herr := tryAssemble(t, src)
	assert(t, herr == nil, "unexpected assembly error: %v", herr)
	return mem, asm, st, outPath
}

// TestAssembleAndRunHello assembles a program that writes "HI" via a
// forward label reference to a packed string and stops with exit code 0,
// exercising the assembler's label fix-up chain, the K-call syscall path
// for WRITES and STOP, and the bootstrap's entry sequence end to end.
func TestAssembleAndRunHello(t *testing.T) {
	// G1L1 ties global vector slot 1 (K01Start) to label 1, the entry
	// point every loaded BCPL object publishes this way; the bootstrap's
	// preamble finds it through exactly this indirection.
	const src = "G1L1 1 LL3 SP2 L60 K0 L0 SP2 L30 K0 3 C2 C72 C73 Z"

	mem, asm, st, outPath := assembleSource(t, src)

	vm := NewMachine(mem, st)
	stop, herr := vm.Run(asm.Lomem())
	assert(t, herr == nil, "unexpected halt: %v", herr)
	assert(t, stop == 0, "expected STOP(0), got %d", stop)

	got := readAll(t, outPath)
	assert(t, got == "HI", "expected program to print HI, got %q", got)
}

// TestAssembleForwardReference exercises a jump to a label defined later in
// the same section: the fix-up chain patches the jump's operand word once
// label 10 is defined, and execution from the jump lands exactly there.
func TestAssembleForwardReference(t *testing.T) {
	const src = "G1L1 1 JL10 L77 X22 10 S0 X22 Z"

	mem, asm, st, _ := assembleSource(t, src)

	vm := NewMachine(mem, st)
	stop, herr := vm.Run(asm.Lomem())
	assert(t, herr == nil, "unexpected halt: %v", herr)
	assert(t, stop == 0, "expected clean halt, got %d", stop)

	// Label 10's S0 stores whatever the entry-point load left in a into
	// mem[0]; if the forward jump had missed and fallen through to L77
	// instead, a would be 77 here rather than the entry address.
	entry := Word(ProgStart) + 3
	assert(t, mem.Load(0) == entry, "jump should skip L77 and land on label 10's S0, which stores the entry address (%d) into mem[0], got %d", entry, mem.Load(0))
}

// TestAssembleArithmeticScenario computes 3*4-5 and writes it with writen,
// which uses no padding (w=0), giving "7" with no leading space or sign.
func TestAssembleArithmeticScenario(t *testing.T) {
	// L3 L4 X5 computes 3*4 (mul uses b*a, so b must hold 3 when a holds 4);
	// L5 X9 then subtracts 5 (sub uses b-a, so b holds 12 when a holds 5).
	const src = "G1L1 1 L3 L4 X5 L5 X9 SP2 L62 K0 L0 SP2 L30 K0 Z"

	mem, asm, st, outPath := assembleSource(t, src)

	vm := NewMachine(mem, st)
	stop, herr := vm.Run(asm.Lomem())
	assert(t, herr == nil, "unexpected halt: %v", herr)
	assert(t, stop == 0, "expected STOP(0), got %d", stop)

	got := readAll(t, outPath)
	assert(t, got == "7", "expected writen(3*4-5) to print 7, got %q", got)
}

func TestAssembleDuplicateLabel(t *testing.T) {
	_, _, _, _, herr := tryAssemble(t, "1 L5 1 Z")
	assert(t, herr != nil, "expected a DUPLICATE LABEL error")
	assert(t, errors.Is(herr, ErrDuplicateLabel), "expected ErrDuplicateLabel, got %v", herr)
}

func TestAssembleUnsetLabel(t *testing.T) {
	_, _, _, _, herr := tryAssemble(t, "LL9 Z")
	assert(t, herr != nil, "expected an UNSET LABEL error")
	assert(t, errors.Is(herr, ErrUnsetLabel), "expected ErrUnsetLabel, got %v", herr)
}

func TestAssembleBadCharacter(t *testing.T) {
	_, _, _, _, herr := tryAssemble(t, "L5 ? Z")
	assert(t, herr != nil, "expected a BAD CH error")
	assert(t, errors.Is(herr, ErrBadCh), "expected ErrBadCh, got %v", herr)
}

// TestAssembleGlobalVectorDirective exercises the G directive, which ties a
// global-vector slot to a label the way a compiled BCPL section header
// would to publish an entry point. Label 1 is defined at the very start of
// the object, before any instruction word is emitted, so it resolves to the
// assembler's starting address rather than ProgStart itself (which is still
// occupied by the three-word bootstrap preamble).
func TestAssembleGlobalVectorDirective(t *testing.T) {
	mem, asm, _, _ := assembleSource(t, "G5L1 1 L42 X22 Z")

	start := asm.Lomem() - 2 // L42 (1 word) + X22 (1 word) were emitted after label 1
	assert(t, mem.Load(5) == Word(start), "global vector slot 5 should resolve to label 1's address (%d), got %d", start, mem.Load(5))
}
