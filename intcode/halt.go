package intcode

import (
	"errors"
	"fmt"
)

// Sentinel errors for every fatal condition named in the fault taxonomy.
// All of them are reported to the host via a *HaltError; the guest has no
// way to observe or recover from one.
var (
	ErrNoICFile       = errors.New("NO ICFILE")
	ErrNoInput        = errors.New("NO INPUT")
	ErrNoOutput       = errors.New("NO OUTPUT")
	ErrInvalidOption  = errors.New("INVALID OPTION")
	ErrBadCh          = errors.New("BAD CH")
	ErrBadCodeAtP     = errors.New("BAD CODE AT P")
	ErrDuplicateLabel = errors.New("DUPLICATE LABEL")
	ErrUnsetLabel     = errors.New("UNSET LABEL")
	ErrUnknownCall    = errors.New("UNKNOWN CALL")
	ErrUnknownExec    = errors.New("UNKNOWN EXEC")
	ErrIntcodeAtPC    = errors.New("INTCODE ERROR AT PC")

	// ErrSegmentationFault has no icint.c counterpart — the reference
	// interpreter indexes a raw C array and will happily read or corrupt
	// adjacent memory on an out-of-range address. Go's bounds-checked
	// arrays panic instead, so Machine.Run recovers that panic and reports
	// it the same way as any other fault rather than crashing the host
	// process, mirroring the recover() guard the teacher's vm/exec.go
	// wraps around its own fetch/execute loop.
	ErrSegmentationFault = errors.New("SEGMENTATION FAULT")
)

// HaltError is the only error type that ever reaches the host: it pairs one
// of the sentinels above with the optional numeric detail icint.c's
// halt(msg, n) prints after a '#'.
type HaltError struct {
	Err    error
	Detail int32
	HasN   bool
}

func (h *HaltError) Error() string {
	if !h.HasN {
		return h.Err.Error()
	}
	return fmt.Sprintf("%s #%d", h.Err, h.Detail)
}

func (h *HaltError) Unwrap() error {
	return h.Err
}

// haltf builds the exact message halt(msg, n) would print, with n == 0
// meaning "no detail" (icint.c's `if (n) ...`).
func haltf(err error, n int32) *HaltError {
	return &HaltError{Err: err, Detail: n, HasN: n != 0}
}

// Halt switches output to sysprint, writes the message (plus " #n" if n is
// non-zero) and a newline, and returns the resulting error for the caller
// to propagate as the process's fatal condition — standing in for
// icint.c's halt(), which calls exit(-1) directly. Returning instead of
// exiting keeps the library side of this package free of os.Exit, matching
// the teacher's habit of reporting errors up through return values
// (vm/vm.go's errcode field) rather than terminating mid-package.
func Halt(st *streamTable, err error, n int32) *HaltError {
	he := haltf(err, n)

	st.cos = st.sysprint
	st.WriteStringTo(st.sysprint, he.Error())
	st.WrchTo(st.sysprint, ascLF)

	return he
}
