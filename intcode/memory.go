// Package intcode implements an interpreter for INTCODE, the stack-oriented
// intermediate language emitted by the historical BCPL compiler. A Machine
// owns a single word-addressable memory image that doubles as code, stack,
// and heap; the assembler in assemble.go loads one or more INTCODE object
// files into it, and the interpreter in interp.go executes from a fixed
// entry point until the program halts.
package intcode

import "encoding/binary"

// Word is a 16-bit unsigned quantity. All memory is an array of words.
type Word = uint16

// Addr indexes a Word within a Machine's memory image.
type Addr = uint16

const (
	// WordCount is the size of the memory image in words.
	WordCount = 19900
	// ProgStart is the first word index outside the global vector; code and
	// static data are assembled starting here.
	ProgStart Addr = 401
	// LabVCount is the number of label slots. The label table is kept
	// apart from the memory image (see labels.go), not aliased into it.
	LabVCount = 500
	// BytesPerWord is the width of the byte view over one Word.
	BytesPerWord = 2

	// EndStreamCh is returned by Rdch on end of stream.
	EndStreamCh = -1
)

// Memory is the machine's single word vector, exposing both a word view
// (for code, stack, and label chains) and a byte view (for packed BCPL
// strings and GetByte/PutByte). The byte view is little-endian and that
// choice is fixed here so every other component shares it.
type Memory struct {
	words [WordCount]Word
}

// NewMemory returns a freshly zeroed memory image with the global vector
// self-referential, matching icint.c's init(): m[i] = i for i < ProgStart.
// This lets the bootstrap reach the guest's START entry point indirectly
// through word K01Start before the guest overwrites it.
func NewMemory() *Memory {
	m := &Memory{}
	for i := Addr(0); i < ProgStart; i++ {
		m.words[i] = i
	}
	return m
}

// Load reads the word at addr.
func (m *Memory) Load(addr Addr) Word {
	return m.words[addr]
}

// Store writes value to the word at addr.
func (m *Memory) Store(addr Addr, value Word) {
	m.words[addr] = value
}

// SignedLoad reads the word at addr as a two's-complement signed value.
func (m *Memory) SignedLoad(addr Addr) int16 {
	return int16(m.words[addr])
}

// Len returns the number of addressable words.
func (m *Memory) Len() int {
	return len(m.words)
}

// byteOffset converts a (word address, byte-within-word) pair into a byte
// index into the little-endian byte view described in the package doc.
func byteOffset(addr Addr, o int) int {
	return int(addr)*BytesPerWord + o
}

// GetByte reads byte offset o (0 or 1) of the word at addr.
func (m *Memory) GetByte(addr Addr, o int) byte {
	var buf [BytesPerWord]byte
	binary.LittleEndian.PutUint16(buf[:], m.words[addr])
	return buf[o]
}

// PutByte writes byte offset o (0 or 1) of the word at addr, leaving the
// other byte of that word untouched.
func (m *Memory) PutByte(addr Addr, o int, v byte) {
	var buf [BytesPerWord]byte
	binary.LittleEndian.PutUint16(buf[:], m.words[addr])
	buf[o] = v
	m.words[addr] = binary.LittleEndian.Uint16(buf[:])
}

// ByteAt reads the flat byte index i (0-based from the start of the memory
// image's byte view) — equivalent to treating the whole image as a []byte.
func (m *Memory) ByteAt(i int) byte {
	a, o := Addr(i/BytesPerWord), i%BytesPerWord
	return m.GetByte(a, o)
}

// SetByteAt writes the flat byte index i, mirroring ByteAt.
func (m *Memory) SetByteAt(i int, v byte) {
	a, o := Addr(i/BytesPerWord), i%BytesPerWord
	m.PutByte(a, o, v)
}

// PackString converts an unpacked vector at word vec — vec[0] holds the
// length L as a full word, vec[1..L] hold one character per word — into a
// packed string written starting at word packed: word packed's low byte
// becomes L, bytes 1..L follow in successive byte positions, and the word
// straddling the end of the data is null-terminated. Returns L/BytesPerWord,
// the offset of the last word the packed string occupies (one less than its
// word count), matching icint.c's packstring(v, s).
func (m *Memory) PackString(vec, packed Addr) int {
	l := int(m.Load(vec) & 0xFF)
	n := l / BytesPerWord

	// Null-terminate the word the data ends in before writing over it,
	// exactly as packstring's ((short*)s)[n] = 0.
	m.Store(packed+Addr(n), 0)

	for i := 0; i <= l; i++ {
		m.SetByteAt(byteOffset(packed, 0)+i, byte(m.Load(vec+Addr(i))))
	}

	return n
}

// UnpackString is the inverse of PackString: it expands the packed string
// at word packed into an unpacked vector written starting at word vec —
// vec[0] becomes the length L as a full word, vec[1..L] become one
// character per word — matching icint.c's unpackstring(s, v).
func (m *Memory) UnpackString(packed, vec Addr) {
	l := int(m.GetByte(packed, 0))
	for i := 0; i <= l; i++ {
		m.Store(vec+Addr(i), Word(m.ByteAt(byteOffset(packed, 0)+i)))
	}
}

// ReadPackedString reads just the data bytes (no length prefix) of the
// packed string at word addr, used by the formatted-I/O routines that need
// to print a guest string.
func (m *Memory) ReadPackedString(addr Addr) []byte {
	l := int(m.GetByte(addr, 0))
	out := make([]byte, l)
	for i := 0; i < l; i++ {
		out[i] = m.ByteAt(byteOffset(addr, 1) + i)
	}
	return out
}
