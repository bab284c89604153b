package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strconv"

	"icint/intcode"
)

const usage = "USAGE: icint ICFILE [...] [-iINPUT] [-oOUTPUT]"

// run loads every ICFILE named on the command line, wires up -i/-o stream
// redirects, and executes the result. It returns the process exit code:
// the guest's K30_STOP value (or 0 from a bare X 22) on success, -1 on any
// halt — matching icint.c's main(), which returns whatever interpret()
// returns and otherwise calls halt(), which always exits -1.
func run(args []string) int {
	mem := intcode.NewMemory()
	st := intcode.NewStreamTable()
	lomem := intcode.WriteBootstrap(mem)
	asm := intcode.NewAssembler(mem, st, lomem)

	if len(args) == 0 {
		intcode.Halt(st, intcode.ErrNoICFile, 0)
		fmt.Fprintln(os.Stderr, usage)
		return -1
	}

	for i, arg := range args {
		if len(arg) >= 2 && arg[0] == '-' {
			switch arg[1] {
			case 'i':
				h := st.FindInput(arg[2:])
				if h == 0 {
					intcode.Halt(st, intcode.ErrNoInput, 0)
					return -1
				}
				st.AdoptSysin(h)
			case 'o':
				h := st.FindOutput(arg[2:])
				if h == 0 {
					intcode.Halt(st, intcode.ErrNoOutput, 0)
					return -1
				}
				st.AdoptSysprint(h)
			default:
				intcode.Halt(st, intcode.ErrInvalidOption, int32(i+1))
				return -1
			}
			continue
		}

		f := st.FindInput(arg)
		if f == 0 {
			intcode.Halt(st, intcode.ErrNoICFile, 0)
			return -1
		}
		st.SelectInput(f)
		if herr := asm.AssembleFile(); herr != nil {
			return -1
		}
		st.EndRead()
	}

	vm := intcode.NewMachine(mem, st)
	exit, herr := runWithGCDisabled(vm, asm.Lomem())
	if herr != nil {
		return -1
	}
	return int(exit)
}

// runWithGCDisabled executes the machine with the garbage collector turned
// off for the duration: the memory image and streams are allocated once up
// front, so the interpreter's fetch/decode loop is the only thing left
// that could trigger a GC pause, and the teacher's vm/run.go disables
// collection across that loop for the same reason.
func runWithGCDisabled(vm *intcode.Machine, lomem uint16) (exit int16, herr *intcode.HaltError) {
	saved := 100
	if v, ok := os.LookupEnv("GOGC"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			saved = n
		}
	}

	debug.SetGCPercent(-1)
	defer debug.SetGCPercent(saved)

	return vm.Run(lomem)
}

func main() {
	os.Exit(run(os.Args[1:]))
}
