package packet

import (
	"encoding/binary"

	"github.com/dotcef/ipc/constant"
	"github.com/dotcef/ipc/errors"
)

// Writer is a growable byte buffer bounded by a configurable max, the
// sending half of the wire codec. Growth doubles capacity up to the max;
// once the max is reached, further writes fail without a partial append.
type Writer struct {
	data []byte
	max  int
}

func NewWriter() *Writer {
	return NewWriterMax(constant.MaxPacketBody)
}

func NewWriterMax(max int) *Writer {
	initial := 512
	if initial > max {
		initial = max
	}
	return &Writer{data: make([]byte, 0, initial), max: max}
}

// Bytes returns the accumulated buffer.
func (w *Writer) Bytes() []byte {
	return w.data
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return len(w.data)
}

func (w *Writer) ensure(extra int) error {
	needed := len(w.data) + extra
	if needed <= cap(w.data) {
		return nil
	}
	if needed > w.max {
		return errors.ErrOversizedPacket
	}
	newCap := cap(w.data) * 2
	if newCap < needed {
		newCap = needed
	}
	if newCap > w.max {
		newCap = w.max
	}
	grown := make([]byte, len(w.data), newCap)
	copy(grown, w.data)
	w.data = grown
	return nil
}

func (w *Writer) WriteUint8(v uint8) error {
	if err := w.ensure(1); err != nil {
		return err
	}
	w.data = append(w.data, v)
	return nil
}

func (w *Writer) WriteUint16(v uint16) error {
	if err := w.ensure(2); err != nil {
		return err
	}
	var buf [2]byte
	binary.LittleEndian.PutUint16(buf[:], v)
	w.data = append(w.data, buf[:]...)
	return nil
}

func (w *Writer) WriteUint32(v uint32) error {
	if err := w.ensure(4); err != nil {
		return err
	}
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	w.data = append(w.data, buf[:]...)
	return nil
}

func (w *Writer) WriteUint64(v uint64) error {
	if err := w.ensure(8); err != nil {
		return err
	}
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], v)
	w.data = append(w.data, buf[:]...)
	return nil
}

func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

func (w *Writer) WriteBool(v bool) error {
	if v {
		return w.WriteUint8(1)
	}
	return w.WriteUint8(0)
}

// WriteBytes appends raw bytes with no length prefix.
func (w *Writer) WriteBytes(b []byte) error {
	if err := w.ensure(len(b)); err != nil {
		return err
	}
	w.data = append(w.data, b...)
	return nil
}

// WriteString appends raw UTF-8 bytes with no length prefix.
func (w *Writer) WriteString(s string) error {
	return w.WriteBytes([]byte(s))
}

// WriteSizePrefixedString writes a 32-bit signed length followed by the
// UTF-8 bytes.
func (w *Writer) WriteSizePrefixedString(s string) error {
	if err := w.WriteInt32(int32(len(s))); err != nil {
		return err
	}
	return w.WriteBytes([]byte(s))
}
