package intcode

// Machine is the fetch/decode/execute engine (component F): a program
// counter, stack pointer, and two accumulators over a shared Memory and
// streamTable. There is exactly one execution context — the design is
// strictly single-threaded and synchronous (spec §5) — so unlike the
// teacher's VM there is no device bus or goroutine-backed peripheral; every
// "system call" completes before the next fetch.
type Machine struct {
	Mem     *Memory
	Streams *streamTable

	pc Addr
	sp Addr
	a  Word
	b  Word
}

// NewMachine wires a Machine to the given memory image and stream table.
// The program counter and stack pointer are left zero until Run is called,
// which sets them per the bootstrap's calling convention.
func NewMachine(mem *Memory, st *streamTable) *Machine {
	return &Machine{Mem: mem, Streams: st}
}

func signed(w Word) int16 { return int16(w) }

// Run executes from ProgStart with the stack pointer initialised to lomem
// (the first word above assembled code and data), as icint.c's interpret()
// does. It returns the interpreter's exit value on a clean K30_STOP or the
// bootstrap's final X 22, or a *HaltError on any fault.
func (vm *Machine) Run(lomem Addr) (exit int16, herr *HaltError) {
	vm.pc = ProgStart
	vm.sp = lomem
	vm.a, vm.b = 0, 0

	defer func() {
		if r := recover(); r != nil {
			herr = Halt(vm.Streams, ErrSegmentationFault, 0)
		}
	}()

	for {
		stop, done, err := vm.step()
		if err != nil {
			return 0, err
		}
		if done {
			return stop, nil
		}
	}
}

// step fetches, decodes, and executes exactly one instruction. done is
// true when the program has halted (via X 22 or K30_STOP), in which case
// stop carries the exit value.
func (vm *Machine) step() (stop int16, done bool, herr *HaltError) {
	w := vm.Mem.Load(vm.pc)
	vm.pc++

	var d Word
	if w&FDBit != 0 {
		d = vm.Mem.Load(vm.pc)
		vm.pc++
	} else {
		d = w >> 8
	}
	if w&FPBit != 0 {
		d += Word(vm.sp)
	}
	if w&FIBit != 0 {
		d = vm.Mem.Load(Addr(d))
	}

	switch w & 7 {
	case fFuncL:
		vm.b = vm.a
		vm.a = d
	case fFuncS:
		vm.Mem.Store(Addr(d), vm.a)
	case fFuncA:
		vm.a += d
	case fFuncJ:
		vm.pc = Addr(d)
	case fFuncT:
		if vm.a != 0 {
			vm.pc = Addr(d)
		}
	case fFuncF:
		if vm.a == 0 {
			vm.pc = Addr(d)
		}
	case fFuncK:
		d += Word(vm.sp)
		if signed(vm.a) < int16(ProgStart) {
			return vm.dispatchCall(vm.a, Addr(d))
		}
		vm.Mem.Store(Addr(d), Word(vm.sp))
		vm.Mem.Store(Addr(d)+1, vm.pc)
		vm.sp = Addr(d)
		vm.pc = Addr(vm.a)
	case fFuncX:
		return vm.execExtended(d)
	default:
		return 0, false, Halt(vm.Streams, ErrIntcodeAtPC, int32(vm.pc))
	}

	return 0, false, nil
}

// execExtended implements function code 7 (X): the extended
// arithmetic/control opcodes of spec §4.F.
func (vm *Machine) execExtended(d Word) (stop int16, done bool, herr *HaltError) {
	switch d {
	case 1:
		vm.a = vm.Mem.Load(Addr(vm.a))
	case 2:
		vm.a = -vm.a
	case 3:
		vm.a = ^vm.a
	case 4:
		vm.pc = vm.Mem.Load(vm.sp + 1)
		vm.sp = Addr(vm.Mem.Load(vm.sp))
	case 5:
		vm.a = vm.b * vm.a
	case 6:
		if vm.a != 0 {
			vm.a = Word(signed(vm.b) / signed(vm.a))
		}
	case 7:
		if vm.a != 0 {
			vm.a = Word(signed(vm.b) % signed(vm.a))
		}
	case 8:
		vm.a = vm.b + vm.a
	case 9:
		vm.a = vm.b - vm.a
	case 10:
		vm.a = truth(vm.b == vm.a)
	case 11:
		vm.a = truth(vm.b != vm.a)
	case 12:
		vm.a = truth(signed(vm.b) < signed(vm.a))
	case 13:
		vm.a = truth(signed(vm.b) >= signed(vm.a))
	case 14:
		vm.a = truth(signed(vm.b) > signed(vm.a))
	case 15:
		vm.a = truth(signed(vm.b) <= signed(vm.a))
	case 16:
		vm.a = vm.b << vm.a
	case 17:
		vm.a = vm.b >> vm.a
	case 18:
		vm.a = vm.b & vm.a
	case 19:
		vm.a = vm.b | vm.a
	case 20:
		vm.a = vm.b ^ vm.a
	case 21:
		vm.a = vm.b ^ ^vm.a
	case 22:
		return 0, true, nil
	case 23:
		vm.switchOn()
	default:
		return 0, false, Halt(vm.Streams, ErrUnknownExec, int32(int16(d)))
	}

	return 0, false, nil
}

// truth maps a boolean to BCPL's convention: all-ones (-1) for true, 0 for
// false. Never a language-native +1.
func truth(cond bool) Word {
	if cond {
		return 0xFFFF
	}
	return 0
}

// switchOn implements extended opcode 23: the table immediately following
// the instruction is a count k, a default target, then k (value, target)
// pairs. The first matching value wins; otherwise control falls through to
// the default. Register b is used as the loop counter exactly as
// icint.c's `for (; b--; v += 2)`: the post-decrement fires on every
// iteration of the condition check, including the one that finds b already
// zero and exits the loop, so an exhausted, unmatched switch leaves b at
// -1 (0xFFFF), not 0 — a quirk of the original worth preserving rather than
// papering over with a local-only counter.
func (vm *Machine) switchOn() {
	base := vm.pc
	count := vm.Mem.Load(base)
	def := vm.Mem.Load(base + 1)
	vm.pc = def
	vm.b = count

	v := base + 2
	for {
		cur := vm.b
		vm.b--
		if cur == 0 {
			break
		}
		value := vm.Mem.Load(v)
		target := vm.Mem.Load(v + 1)
		v += 2
		if vm.a == value {
			vm.pc = target
			break
		}
	}
}
