// Package proxyenvelope carries the URL-filter match metadata exchanged on
// the host-to-controller WindowProxyRequest/WindowModifyRequest opcodes,
// between the host asking and the controller's registered filter (spec.md §1: "the
// core carries opaque payloads"). It is encoded with the protobuf wire
// format via google.golang.org/protobuf/encoding/protowire — the same
// module the teacher depends on for its request/response envelope — using
// the low-level field encoder directly rather than full generated-message
// scaffolding, since this envelope never needs reflection or descriptor
// registration.
package proxyenvelope

import (
	"fmt"

	"google.golang.org/protobuf/encoding/protowire"
)

const (
	fieldMatchedURL   protowire.Number = 1
	fieldResourceType protowire.Number = 2
	fieldShouldProxy  protowire.Number = 3
	fieldBodyType     protowire.Number = 4
	fieldStreamID     protowire.Number = 5
)

// BodyType tags how the filter's answer carries its (optional) replacement
// body back to the side that asked.
type BodyType uint32

const (
	// BodyTypeInline means there is no replacement body; ShouldProxy alone
	// decides the outcome.
	BodyTypeInline BodyType = 0
	// BodyTypeStream means the filter will push the replacement body
	// through the DataStream named by StreamID, which the receiver of this
	// envelope must open locally before any StreamData for it arrives.
	BodyTypeStream BodyType = 2
)

// Envelope is the opaque payload exchanged for WindowProxyRequest and
// WindowModifyRequest handler dispatch.
type Envelope struct {
	MatchedURL   string
	ResourceType uint32
	ShouldProxy  bool
	BodyType     BodyType
	StreamID     uint32
}

// Marshal encodes e as a protobuf message.
func (e Envelope) Marshal() []byte {
	var b []byte
	b = protowire.AppendTag(b, fieldMatchedURL, protowire.BytesType)
	b = protowire.AppendString(b, e.MatchedURL)
	b = protowire.AppendTag(b, fieldResourceType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.ResourceType))
	b = protowire.AppendTag(b, fieldShouldProxy, protowire.VarintType)
	b = protowire.AppendVarint(b, boolToVarint(e.ShouldProxy))
	b = protowire.AppendTag(b, fieldBodyType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.BodyType))
	b = protowire.AppendTag(b, fieldStreamID, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(e.StreamID))
	return b
}

// Unmarshal decodes a protobuf-encoded Envelope, ignoring unknown fields.
func Unmarshal(data []byte) (Envelope, error) {
	var e Envelope
	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return e, fmt.Errorf("proxyenvelope: bad tag: %w", protowire.ParseError(n))
		}
		data = data[n:]

		switch num {
		case fieldMatchedURL:
			v, n := protowire.ConsumeString(data)
			if n < 0 {
				return e, fmt.Errorf("proxyenvelope: bad matched_url: %w", protowire.ParseError(n))
			}
			e.MatchedURL = v
			data = data[n:]
		case fieldResourceType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return e, fmt.Errorf("proxyenvelope: bad resource_type: %w", protowire.ParseError(n))
			}
			e.ResourceType = uint32(v)
			data = data[n:]
		case fieldShouldProxy:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return e, fmt.Errorf("proxyenvelope: bad should_proxy: %w", protowire.ParseError(n))
			}
			e.ShouldProxy = v != 0
			data = data[n:]
		case fieldBodyType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return e, fmt.Errorf("proxyenvelope: bad body_type: %w", protowire.ParseError(n))
			}
			e.BodyType = BodyType(v)
			data = data[n:]
		case fieldStreamID:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return e, fmt.Errorf("proxyenvelope: bad stream_id: %w", protowire.ParseError(n))
			}
			e.StreamID = uint32(v)
			data = data[n:]
		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return e, fmt.Errorf("proxyenvelope: bad unknown field %d: %w", num, protowire.ParseError(n))
			}
			data = data[n:]
		}
	}
	return e, nil
}

func boolToVarint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
