package intcode

// Syscall numbers for the BCPL runtime calls icint.c actually dispatches
// (K11..K86 below). The historical libhdr defines a wider 01..91 range —
// START, SETPM, ABORT, BACKTRACE, UNRDCH, BINWRCH, REWIND, WRITEO,
// WRITEARG, WRITEX, MAPSTORE, GETVEC, FREEVEC, RANDOM, MULDIV, RESULT2
// among them — but icint.c's interpret() has no case for any of them, so a
// guest invoking one there gets UNKNOWN CALL exactly like any other
// unrecognised number; this table reproduces that behavior rather than
// inventing implementations the reference interpreter never had. K01START
// is likewise not a callable number: it names global-vector slot 1, the
// address the bootstrap preamble loads indirectly to find the guest's
// entry point.
const (
	k01Start = 1

	kSelectInput  = 11
	kSelectOutput = 12
	kRdch         = 13
	kWrch         = 14
	kInput        = 16
	kOutput       = 17
	kStop         = 30
	kLevel        = 31
	kLongJump     = 32
	kAptoVec      = 40
	kFindOutput   = 41
	kFindInput    = 42
	kEndRead      = 46
	kEndWrite     = 47
	kWrites       = 60
	kWriten       = 62
	kNewline      = 63
	kNewpage      = 64
	kPackString   = 66
	kUnpackString = 67
	kWrited       = 68
	kReadn        = 70
	kTerminator   = 71
	kWritehex     = 75
	kWritef       = 76
	kWriteoct     = 77
	kGetByte      = 85
	kPutByte      = 86
)

// dispatchCall implements function code K (call) when a < ProgStart: d is
// the call frame's base address, and its argument vector starts two words
// above that, matching icint.c's `v = &m[d + 2]`.
func (vm *Machine) dispatchCall(a Word, d Addr) (stop int16, done bool, herr *HaltError) {
	v := d + 2

	switch a {
	default:
		return 0, false, Halt(vm.Streams, ErrUnknownCall, int32(int16(a)))

	case kSelectInput:
		vm.Streams.SelectInput(handle(vm.Mem.Load(v)))
	case kSelectOutput:
		vm.Streams.SelectOutput(handle(vm.Mem.Load(v)))
	case kRdch:
		vm.a = Word(vm.Streams.Rdch())
	case kWrch:
		vm.Streams.Wrch(byte(vm.Mem.Load(v)))
	case kInput:
		vm.a = Word(vm.Streams.Input())
	case kOutput:
		vm.a = Word(vm.Streams.Output())
	case kStop:
		return int16(vm.Mem.Load(v)), true, nil
	case kLevel:
		vm.a = Word(vm.sp)
	case kLongJump:
		vm.sp = Addr(vm.Mem.Load(v))
		vm.pc = vm.Mem.Load(v + 1)
	case kAptoVec:
		arg1 := vm.Mem.Load(v + 1)
		frame := d + Addr(arg1) + 1
		vm.Mem.Store(frame, Word(vm.sp))
		vm.Mem.Store(frame+1, vm.pc)
		vm.Mem.Store(frame+2, Word(d))
		vm.Mem.Store(frame+3, arg1)
		vm.sp = frame
		vm.pc = Addr(vm.Mem.Load(v))
	case kFindOutput:
		name := string(vm.Mem.ReadPackedString(Addr(vm.Mem.Load(v))))
		vm.a = Word(vm.Streams.FindOutput(name))
	case kFindInput:
		name := string(vm.Mem.ReadPackedString(Addr(vm.Mem.Load(v))))
		vm.a = Word(vm.Streams.FindInput(name))
	case kEndRead:
		vm.Streams.EndRead()
	case kEndWrite:
		vm.Streams.EndWrite()
	case kWrites:
		Writes(vm.Mem, vm.Streams, Addr(vm.Mem.Load(v)))
	case kWriten:
		Writen(vm.Streams, int16(vm.Mem.Load(v)))
	case kNewline:
		vm.Streams.Wrch(ascLF)
	case kNewpage:
		vm.Streams.Wrch(ascFF)
	case kPackString:
		vm.a = Word(vm.Mem.PackString(Addr(vm.Mem.Load(v)), Addr(vm.Mem.Load(v+1))))
	case kUnpackString:
		vm.Mem.UnpackString(Addr(vm.Mem.Load(v)), Addr(vm.Mem.Load(v+1)))
	case kWrited:
		Writed(vm.Streams, int16(vm.Mem.Load(v)), int16(vm.Mem.Load(v+1)))
	case kReadn:
		vm.a = Word(Readn(vm.Mem, vm.Streams, kTerminator))
	case kWritehex:
		Writehex(vm.Streams, vm.Mem.Load(v), int16(vm.Mem.Load(v+1)))
	case kWriteoct:
		Writeoct(vm.Streams, vm.Mem.Load(v), int16(vm.Mem.Load(v+1)))
	case kWritef:
		Writef(vm.Mem, vm.Streams, v)
	case kGetByte:
		i := byteOffset(Addr(vm.Mem.Load(v)), 0) + int(vm.Mem.Load(v+1))
		vm.a = Word(vm.Mem.ByteAt(i))
	case kPutByte:
		i := byteOffset(Addr(vm.Mem.Load(v)), 0) + int(vm.Mem.Load(v+1))
		vm.Mem.SetByteAt(i, byte(vm.Mem.Load(v+2)))
	}

	return 0, false, nil
}
