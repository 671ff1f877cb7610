package packet

import (
	"encoding/binary"

	"github.com/dotcef/ipc/errors"
)

// Reader is a cursor over a byte buffer, the receiving half of the wire
// codec. Every read that would run past the end of the buffer fails and
// leaves the cursor where it was.
type Reader struct {
	data []byte
	pos  int
}

func NewReader(data []byte) *Reader {
	return &Reader{data: data}
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.data) - r.pos
}

// HasAvailable reports whether n more bytes can be read without failing.
func (r *Reader) HasAvailable(n int) bool {
	return r.pos+n <= len(r.data)
}

func (r *Reader) fail() error {
	return errors.ErrMalformedPayload
}

// ReadUint8 through ReadUint64 read fixed-width little-endian integers.
func (r *Reader) ReadUint8() (uint8, error) {
	if !r.HasAvailable(1) {
		return 0, r.fail()
	}
	v := r.data[r.pos]
	r.pos++
	return v, nil
}

func (r *Reader) ReadUint16() (uint16, error) {
	if !r.HasAvailable(2) {
		return 0, r.fail()
	}
	v := binary.LittleEndian.Uint16(r.data[r.pos:])
	r.pos += 2
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if !r.HasAvailable(4) {
		return 0, r.fail()
	}
	v := binary.LittleEndian.Uint32(r.data[r.pos:])
	r.pos += 4
	return v, nil
}

func (r *Reader) ReadUint64() (uint64, error) {
	if !r.HasAvailable(8) {
		return 0, r.fail()
	}
	v := binary.LittleEndian.Uint64(r.data[r.pos:])
	r.pos += 8
	return v, nil
}

func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

func (r *Reader) ReadBool() (bool, error) {
	v, err := r.ReadUint8()
	return v != 0, err
}

// ReadBytes copies n raw bytes into a fresh slice.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 || !r.HasAvailable(n) {
		return nil, r.fail()
	}
	out := make([]byte, n)
	copy(out, r.data[r.pos:r.pos+n])
	r.pos += n
	return out, nil
}

// CopyThrough invokes fn with the pointer/length of the next n bytes without
// an intermediate allocation, for streaming writers that want to forward
// the bytes straight into a DataStream.
func (r *Reader) CopyThrough(n int, fn func(p []byte)) error {
	if n < 0 || !r.HasAvailable(n) {
		return r.fail()
	}
	fn(r.data[r.pos : r.pos+n])
	r.pos += n
	return nil
}

// ReadSizePrefixedString reads a 32-bit signed length followed by that many
// UTF-8 bytes. A negative or insufficient length fails.
func (r *Reader) ReadSizePrefixedString() (string, error) {
	start := r.pos
	n, err := r.ReadInt32()
	if err != nil {
		return "", err
	}
	if n < 0 {
		r.pos = start
		return "", r.fail()
	}
	b, err := r.ReadBytes(int(n))
	if err != nil {
		r.pos = start
		return "", err
	}
	return string(b), nil
}

// Skip advances the cursor by n bytes without returning them.
func (r *Reader) Skip(n int) error {
	if n < 0 || !r.HasAvailable(n) {
		return r.fail()
	}
	r.pos += n
	return nil
}

// RemainingBytes returns every unread byte without advancing the cursor.
func (r *Reader) RemainingBytes() []byte {
	return r.data[r.pos:]
}
