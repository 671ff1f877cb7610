package ipc

import (
	"github.com/dotcef/ipc/opcode"
	"github.com/dotcef/ipc/packet"
)

// writeFrame serializes header+body and writes it fully under e.writeMu.
// The write mutex is never acquired together with any other lock in this
// package, so a slow peer can stall outbound writers without affecting the
// reader loop or any handler running concurrently.
//
// A short write of any outbound packet is transport-fatal: the framing on
// the wire is now unrecoverable, so writeFrame tears the whole engine down
// rather than leaving the caller to decide whether to. It still returns the
// error so the caller can log or unblock whoever was waiting on it; Stop
// itself runs on its own goroutine because writeFrame is reachable from a
// worker or the streamQueue, and Stop joins both of those.
func (e *Engine) writeFrame(kind opcode.Kind, requestID uint32, op uint8, body []byte) error {
	h := packet.Header{
		Size:      packet.SizeField(len(body)),
		RequestID: requestID,
		Kind:      kind,
		Opcode:    op,
	}

	frame := make([]byte, packet.Size+len(body))
	h.Encode(frame[:packet.Size])
	copy(frame[packet.Size:], body)

	e.writeMu.Lock()
	_, err := e.pipe.Write(frame, len(frame), true)
	e.writeMu.Unlock()

	if err != nil {
		go e.Stop()
	}
	return err
}

func (e *Engine) writeRequest(requestID uint32, op uint8, body []byte) error {
	return e.writeFrame(opcode.KindRequest, requestID, op, body)
}

func (e *Engine) writeResponse(requestID uint32, op uint8, body []byte) error {
	return e.writeFrame(opcode.KindResponse, requestID, op, body)
}

func (e *Engine) writeNotification(op uint8, body []byte) error {
	return e.writeFrame(opcode.KindNotification, 0, op, body)
}
