package packet

import (
	"bytes"
	"testing"

	"github.com/dotcef/ipc/opcode"
)

func TestHeaderRoundTrip(t *testing.T) {
	h := Header{Size: SizeField(42), RequestID: 7, Kind: opcode.KindRequest, Opcode: 35}

	buf := make([]byte, Size)
	h.Encode(buf)

	got := Decode(buf)
	if got != h {
		t.Fatalf("decode(encode(h)) = %+v, want %+v", got, h)
	}
	if got.BodyLen() != 42 {
		t.Fatalf("BodyLen() = %d, want 42", got.BodyLen())
	}
}

func TestWriterReaderRoundTrip(t *testing.T) {
	w := NewWriter()
	if err := w.WriteUint8(0xAB); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteUint32(123456789); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBool(true); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteSizePrefixedString("hello"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBytes([]byte{1, 2, 3}); err != nil {
		t.Fatal(err)
	}

	r := NewReader(w.Bytes())

	u8, err := r.ReadUint8()
	if err != nil || u8 != 0xAB {
		t.Fatalf("ReadUint8() = %v, %v", u8, err)
	}
	u32, err := r.ReadUint32()
	if err != nil || u32 != 123456789 {
		t.Fatalf("ReadUint32() = %v, %v", u32, err)
	}
	b, err := r.ReadBool()
	if err != nil || !b {
		t.Fatalf("ReadBool() = %v, %v", b, err)
	}
	s, err := r.ReadSizePrefixedString()
	if err != nil || s != "hello" {
		t.Fatalf("ReadSizePrefixedString() = %q, %v", s, err)
	}
	tail, err := r.ReadBytes(3)
	if err != nil || !bytes.Equal(tail, []byte{1, 2, 3}) {
		t.Fatalf("ReadBytes(3) = %v, %v", tail, err)
	}
	if r.Remaining() != 0 {
		t.Fatalf("Remaining() = %d, want 0", r.Remaining())
	}
}

func TestReaderFailsPastEnd(t *testing.T) {
	r := NewReader([]byte{1, 2})
	if _, err := r.ReadUint32(); err == nil {
		t.Fatal("expected error reading 4 bytes from a 2-byte buffer")
	}
	// a failed read must not move the cursor
	if r.Remaining() != 2 {
		t.Fatalf("Remaining() = %d, want 2 after failed read", r.Remaining())
	}
}

func TestWriterRefusesOversizedBody(t *testing.T) {
	w := NewWriterMax(8)
	if err := w.WriteBytes(make([]byte, 9)); err == nil {
		t.Fatal("expected ErrOversizedPacket writing past max")
	}
}
