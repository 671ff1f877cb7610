package packet

import (
	"encoding/binary"

	"github.com/dotcef/ipc/constant"
	"github.com/dotcef/ipc/opcode"
)

// Header is the fixed 10-byte packet prefix. All fields are little-endian.
type Header struct {
	// Size is the count of every byte that follows the size field itself,
	// i.e. the remaining 6 header bytes plus the body.
	Size      uint32
	RequestID uint32
	Kind      opcode.Kind
	Opcode    uint8
}

const Size = constant.HeaderSize

// BodyLen returns the body length implied by Size.
func (h Header) BodyLen() int {
	return int(h.Size) + 4 - Size
}

// Encode writes the header into dst, which must be at least Size bytes.
func (h Header) Encode(dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], h.Size)
	binary.LittleEndian.PutUint32(dst[4:8], h.RequestID)
	dst[8] = uint8(h.Kind)
	dst[9] = h.Opcode
}

// Decode parses a header out of src, which must be at least Size bytes.
func Decode(src []byte) Header {
	return Header{
		Size:      binary.LittleEndian.Uint32(src[0:4]),
		RequestID: binary.LittleEndian.Uint32(src[4:8]),
		Kind:      opcode.Kind(src[8]),
		Opcode:    src[9],
	}
}

// SizeField computes the Size field for a packet carrying bodyLen bytes,
// matching spec §6: size = body_len + 6 (the header bytes after the size field).
func SizeField(bodyLen int) uint32 {
	return uint32(bodyLen + Size - 4)
}
