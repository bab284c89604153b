package intcode

import (
	"bufio"
	"os"
	"strings"
)

// handle is a guest stream handle: internally host-fd-index + 1, so 0 means
// closed/error. Two process-wide handles, sysin and sysprint, record the
// standard streams; cis and cos are the currently selected input/output.
type handle = uint16

// streamTable owns every open host file backing a guest stream handle, plus
// the currently-selected input/output streams. Reproduces icint.c's
// cis/cos/sysin/sysprint global state as a struct instead of package
// globals, matching the teacher's preference for state living on *VM
// (vm/vm.go) rather than at package scope.
type streamTable struct {
	files map[handle]*streamEntry
	next  handle

	sysin, sysprint handle
	cis, cos        handle
}

type streamEntry struct {
	file   *os.File
	reader *bufio.Reader
	writer *bufio.Writer
}

func newStreamTable() *streamTable {
	st := &streamTable{files: make(map[handle]*streamEntry)}

	stdin := st.adopt(os.Stdin)
	stdout := st.adopt(os.Stdout)
	st.sysin, st.cis = stdin, stdin
	st.sysprint, st.cos = stdout, stdout

	return st
}

// NewStreamTable returns a stream table with sysin/cis bound to the
// process's stdin and sysprint/cos bound to its stdout, as icint.c's
// init() does before main() ever looks at argv.
func NewStreamTable() *streamTable {
	return newStreamTable()
}

// AdoptSysin makes h the standing sysin handle (and the current input),
// matching icint.c's pipeinput: `cis = sysin = f`. Used by the -i flag,
// which must redirect the alias itself rather than just the current
// selection, since a later ENDREAD reverts to sysin.
func (st *streamTable) AdoptSysin(h handle) {
	st.sysin = h
	st.cis = h
}

// AdoptSysprint is AdoptSysin's output counterpart, matching pipeoutput's
// `cos = sysprint = f`.
func (st *streamTable) AdoptSysprint(h handle) {
	st.sysprint = h
	st.cos = h
}

// adopt registers an already-open file (used for stdin/stdout at startup
// and for the -i/-o CLI redirects) and returns its guest handle.
func (st *streamTable) adopt(f *os.File) handle {
	st.next++
	h := st.next
	st.files[h] = &streamEntry{
		file:   f,
		reader: bufio.NewReader(f),
		writer: bufio.NewWriter(f),
	}
	return h
}

func (st *streamTable) entry(h handle) *streamEntry {
	return st.files[h]
}

// FindInput opens name for reading and returns its handle, or 0 on failure.
// SYSIN/SYSPRINT (case-insensitive) resolve to the standing handles rather
// than opening a file, matching icint.c's openfile.
func (st *streamTable) FindInput(name string) handle {
	if strings.EqualFold(name, "SYSIN") {
		return st.sysin
	}
	if strings.EqualFold(name, "SYSPRINT") {
		return st.sysprint
	}

	f, err := os.Open(name)
	if err != nil {
		return 0
	}
	return st.adopt(f)
}

// FindOutput opens name for writing (create/truncate), or returns 0 on
// failure. SYSIN/SYSPRINT aliasing is identical to FindInput.
func (st *streamTable) FindOutput(name string) handle {
	if strings.EqualFold(name, "SYSIN") {
		return st.sysin
	}
	if strings.EqualFold(name, "SYSPRINT") {
		return st.sysprint
	}

	f, err := os.Create(name)
	if err != nil {
		return 0
	}
	return st.adopt(f)
}

// SelectInput sets the current input stream (cis).
func (st *streamTable) SelectInput(h handle) { st.cis = h }

// SelectOutput sets the current output stream (cos).
func (st *streamTable) SelectOutput(h handle) { st.cos = h }

// Input returns the current input handle.
func (st *streamTable) Input() handle { return st.cis }

// Output returns the current output handle.
func (st *streamTable) Output() handle { return st.cos }

// EndRead closes the current input stream and reverts to sysin. Closing
// sysin itself is a guest bug (see spec's Open Question); it is not
// silently ignored — the close happens and subsequent reads from sysin will
// fail, exactly as the original source's behavior.
func (st *streamTable) EndRead() {
	if e := st.entry(st.cis); e != nil {
		e.writer = nil
		e.file.Close()
	}
	delete(st.files, st.cis)
	st.cis = st.sysin
}

// EndWrite closes the current output stream and reverts to sysprint, with
// the same caveat as EndRead for cos == sysprint.
func (st *streamTable) EndWrite() {
	if e := st.entry(st.cos); e != nil {
		if e.writer != nil {
			e.writer.Flush()
		}
		e.file.Close()
	}
	delete(st.files, st.cos)
	st.cos = st.sysprint
}

// Rdch reads one byte from the current input stream. EOF yields
// EndStreamCh; a carriage return is translated to a line feed.
func (st *streamTable) Rdch() int16 {
	e := st.entry(st.cis)
	if e == nil {
		return EndStreamCh
	}

	b, err := e.reader.ReadByte()
	if err != nil {
		return EndStreamCh
	}
	if b == '\r' {
		return '\n'
	}
	return int16(b)
}

// Wrch writes one byte to the current output stream.
func (st *streamTable) Wrch(c byte) {
	e := st.entry(st.cos)
	if e == nil {
		return
	}
	e.writer.WriteByte(c)
	e.writer.Flush()
}

// WrchTo writes one byte to an explicit stream handle, used by Halt to
// guarantee its message reaches sysprint regardless of the current cos.
func (st *streamTable) WrchTo(h handle, c byte) {
	e := st.entry(h)
	if e == nil {
		return
	}
	e.writer.WriteByte(c)
	e.writer.Flush()
}

// WriteStringTo writes s to an explicit stream handle.
func (st *streamTable) WriteStringTo(h handle, s string) {
	e := st.entry(h)
	if e == nil {
		return
	}
	e.writer.WriteString(s)
	e.writer.Flush()
}
