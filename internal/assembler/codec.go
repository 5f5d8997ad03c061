package assembler

import (
	"bytes"
	"encoding/binary"
	"fmt"

	"golang.org/x/text/unicode/norm"
)

// Artifact file extensions.
const (
	LibraryExtension = ".masl"
	ProgramExtension = ".masb"
)

// Binary format: 4 magic bytes, 1 version byte, then the payload.
// All lengths are big-endian uint32, all strings NFC-normalized UTF-8.
// Encoding the value produced by decoding yields the input bytes
// unchanged (round-trip invariant), and equal logical values always
// encode to equal bytes (determinism invariant).
const (
	libraryMagic  = "MASL"
	programMagic  = "MASB"
	formatVersion = 1
)

// EncodeLibrary serializes a compiled library.
func EncodeLibrary(lib Library) []byte {
	var buf bytes.Buffer
	buf.WriteString(libraryMagic)
	buf.WriteByte(formatVersion)
	writeString(&buf, lib.Path)
	writeUint32(&buf, uint32(len(lib.Procs)))
	for _, p := range lib.Procs {
		writeString(&buf, p.Name)
		buf.Write(p.Digest[:])
	}
	return buf.Bytes()
}

// DecodeLibrary deserializes a library previously produced by
// EncodeLibrary.
func DecodeLibrary(data []byte) (Library, error) {
	r, err := newReader(data, libraryMagic)
	if err != nil {
		return Library{}, err
	}

	var lib Library
	if lib.Path, err = r.readString(); err != nil {
		return Library{}, fmt.Errorf("library path: %w", err)
	}

	count, err := r.readUint32()
	if err != nil {
		return Library{}, fmt.Errorf("procedure count: %w", err)
	}

	lib.Procs = make([]Procedure, 0, count)
	for i := uint32(0); i < count; i++ {
		var p Procedure
		if p.Name, err = r.readString(); err != nil {
			return Library{}, fmt.Errorf("procedure %d name: %w", i, err)
		}
		if err = r.readDigest(&p.Digest); err != nil {
			return Library{}, fmt.Errorf("procedure %d digest: %w", i, err)
		}
		lib.Procs = append(lib.Procs, p)
	}

	if err := r.expectEOF(); err != nil {
		return Library{}, err
	}
	return lib, nil
}

// EncodeProgram serializes a compiled program.
func EncodeProgram(prog Program) []byte {
	var buf bytes.Buffer
	buf.WriteString(programMagic)
	buf.WriteByte(formatVersion)
	writeString(&buf, prog.Name)
	buf.Write(prog.Entry[:])
	return buf.Bytes()
}

// DecodeProgram deserializes a program previously produced by
// EncodeProgram.
func DecodeProgram(data []byte) (Program, error) {
	r, err := newReader(data, programMagic)
	if err != nil {
		return Program{}, err
	}

	var prog Program
	if prog.Name, err = r.readString(); err != nil {
		return Program{}, fmt.Errorf("program name: %w", err)
	}
	if err = r.readDigest(&prog.Entry); err != nil {
		return Program{}, fmt.Errorf("program entry digest: %w", err)
	}

	if err := r.expectEOF(); err != nil {
		return Program{}, err
	}
	return prog, nil
}

func writeUint32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func writeString(buf *bytes.Buffer, s string) {
	normalized := norm.NFC.String(s)
	writeUint32(buf, uint32(len(normalized)))
	buf.WriteString(normalized)
}

type reader struct {
	data []byte
	pos  int
}

func newReader(data []byte, magic string) (*reader, error) {
	if len(data) < len(magic)+1 {
		return nil, fmt.Errorf("artifact truncated: %d bytes", len(data))
	}
	if string(data[:len(magic)]) != magic {
		return nil, fmt.Errorf("bad artifact magic %q, want %q", data[:len(magic)], magic)
	}
	if v := data[len(magic)]; v != formatVersion {
		return nil, fmt.Errorf("unsupported artifact format version %d", v)
	}
	return &reader{data: data, pos: len(magic) + 1}, nil
}

func (r *reader) readUint32() (uint32, error) {
	if r.pos+4 > len(r.data) {
		return 0, fmt.Errorf("truncated at offset %d", r.pos)
	}
	v := binary.BigEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *reader) readString() (string, error) {
	n, err := r.readUint32()
	if err != nil {
		return "", err
	}
	if r.pos+int(n) > len(r.data) {
		return "", fmt.Errorf("truncated string at offset %d", r.pos)
	}
	s := string(r.data[r.pos : r.pos+int(n)])
	r.pos += int(n)
	return s, nil
}

func (r *reader) readDigest(out *[32]byte) error {
	if r.pos+32 > len(r.data) {
		return fmt.Errorf("truncated digest at offset %d", r.pos)
	}
	copy(out[:], r.data[r.pos:r.pos+32])
	r.pos += 32
	return nil
}

func (r *reader) expectEOF() error {
	if r.pos != len(r.data) {
		return fmt.Errorf("%d trailing bytes after artifact payload", len(r.data)-r.pos)
	}
	return nil
}
