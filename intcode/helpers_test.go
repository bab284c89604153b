package intcode

import (
	"os"
	"testing"
)

// assert mirrors the teacher's vm/vm_test.go helper: a single choke point
// for table-driven failures instead of a t.Fatalf at every call site.
func assert(t *testing.T, cond bool, format string, args ...any) {
	t.Helper()
	if !cond {
		t.Fatalf(format, args...)
	}
}

// newTestStreams returns a stream table whose sysprint is a fresh temp
// file and whose sysin (if src is non-empty) is a temp file pre-loaded
// with src, so format/assemble/interp tests can drive real files the way
// icint.c's own streams always are, rather than mocking the stream layer.
func newTestStreams(t *testing.T, src string) (*streamTable, string) {
	t.Helper()

	st := NewStreamTable()

	outFile, err := os.CreateTemp(t.TempDir(), "sysprint")
	assert(t, err == nil, "creating temp sysprint file: %v", err)
	outFile.Close()
	out := st.FindOutput(outFile.Name())
	assert(t, out != 0, "FindOutput failed for %s", outFile.Name())
	st.AdoptSysprint(out)

	if src != "" {
		inFile, err := os.CreateTemp(t.TempDir(), "sysin")
		assert(t, err == nil, "creating temp sysin file: %v", err)
		_, err = inFile.WriteString(src)
		assert(t, err == nil, "writing temp sysin file: %v", err)
		inFile.Close()

		in := st.FindInput(inFile.Name())
		assert(t, in != 0, "FindInput failed for %s", inFile.Name())
		st.AdoptSysin(in)
	}

	return st, outFile.Name()
}

func readAll(t *testing.T, path string) string {
	t.Helper()
	b, err := os.ReadFile(path)
	assert(t, err == nil, "reading %s: %v", path, err)
	return string(b)
}
