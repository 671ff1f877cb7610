package ipc

import (
	"io"

	ierrors "github.com/dotcef/ipc/errors"
	log "github.com/dotcef/ipc/log"
	"github.com/dotcef/ipc/opcode"
	"github.com/dotcef/ipc/packet"
)

// readLoop is the engine's sole reader: one goroutine, spawned by Start,
// framing packets off the pipe and dispatching them until a transport-fatal
// error or explicit Stop closes the pipe out from under it.
func (e *Engine) readLoop() {
	var hdrBuf [packet.Size]byte

	for {
		n, err := e.pipe.Read(hdrBuf[:], packet.Size, true)
		if err != nil || n < packet.Size {
			e.onReadFatal(err)
			return
		}
		hdr := packet.Decode(hdrBuf[:])

		bodyLen := hdr.BodyLen()
		if bodyLen < 0 || bodyLen > e.cfg.maxPacketBody() {
			log.Errorf("oversized packet (%d bytes), closing pipe", bodyLen)
			e.Stop()
			return
		}

		switch hdr.Kind {
		case opcode.KindResponse:
			e.dispatchResponse(hdr, bodyLen)
		case opcode.KindRequest:
			e.dispatchRequest(hdr, bodyLen)
		case opcode.KindNotification:
			e.dispatchNotification(hdr, bodyLen)
		default:
			log.Errorf("unknown packet kind %d, closing pipe", hdr.Kind)
			e.Stop()
			return
		}
	}
}

func (e *Engine) onReadFatal(err error) {
	if err == io.EOF || err == nil {
		log.Info("peer closed the pipe")
	} else {
		log.Errorf("fatal read error: %v", err)
	}
	e.Stop()
}

// drainAndDrop reads and discards n bytes so the stream stays framed after
// a packet this side cannot buffer.
func (e *Engine) drainAndDrop(n int) error {
	const chunk = 64 << 10
	tmp := make([]byte, chunk)
	for n > 0 {
		take := n
		if take > chunk {
			take = chunk
		}
		if _, err := e.pipe.Read(tmp, take, true); err != nil {
			return err
		}
		n -= take
	}
	return nil
}

func (e *Engine) dispatchResponse(hdr packet.Header, bodyLen int) {
	body := make([]byte, bodyLen)
	if _, err := e.pipe.Read(body, bodyLen, true); err != nil {
		e.onReadFatal(err)
		return
	}
	e.packetsRead.Inc(1)

	pr, ok := e.pending.lookup(hdr.RequestID)
	if !ok {
		log.Warnf("response for unknown request id=%d, dropping", hdr.RequestID)
		return
	}
	pr.complete(body)
}

func (e *Engine) dispatchRequest(hdr packet.Header, bodyLen int) {
	if bodyLen > e.bufPool.BufferSize() {
		log.Errorf("%v: request opcode=%d body=%d bytes, dropping without a response",
			ierrors.ErrBufferTooSmall, hdr.Opcode, bodyLen)
		if err := e.drainAndDrop(bodyLen); err != nil {
			e.onReadFatal(err)
		}
		return
	}

	buf, release := e.bufPool.Lease()
	if _, err := e.pipe.Read(buf, bodyLen, true); err != nil {
		release()
		e.onReadFatal(err)
		return
	}
	e.packetsRead.Inc(1)
	e.buffersInFlight.Inc(1)

	entry, ok := e.lookupHandler(hdr.Opcode)
	requestID, op := hdr.RequestID, hdr.Opcode
	body := buf[:bodyLen]

	work := func() {
		defer release()
		defer e.buffersInFlight.Dec(1)

		if !ok {
			st := ierrors.StatusUnknownOpcode
			log.WithField("status_code", st.Code()).Warnf("%v: opcode=%d (request id=%d)", st, op, requestID)
			_ = e.writeResponse(requestID, op, nil)
			return
		}

		r := packet.NewReader(body)
		w := packet.NewWriterMax(e.cfg.maxPacketBody())
		entry.fn(r, w)

		if err := e.writeResponse(requestID, op, w.Bytes()); err != nil {
			log.Errorf("write response (id=%d, opcode=%d) failed: %v", requestID, op, err)
		}
	}

	if ok && entry.class == opcode.StreamOrdered {
		e.streamQueue.Enqueue(work)
	} else {
		e.workers.Enqueue(work)
	}
}

func (e *Engine) dispatchNotification(hdr packet.Header, bodyLen int) {
	if bodyLen > e.bufPool.BufferSize() {
		log.Errorf("%v: notification opcode=%d body=%d bytes, dropping",
			ierrors.ErrBufferTooSmall, hdr.Opcode, bodyLen)
		if err := e.drainAndDrop(bodyLen); err != nil {
			e.onReadFatal(err)
		}
		return
	}

	buf, release := e.bufPool.Lease()
	if _, err := e.pipe.Read(buf, bodyLen, true); err != nil {
		release()
		e.onReadFatal(err)
		return
	}
	e.packetsRead.Inc(1)
	e.buffersInFlight.Inc(1)

	op := hdr.Opcode
	body := buf[:bodyLen]
	fn, hasSpecific, onAny := e.lookupNotification(op)

	e.workers.Enqueue(func() {
		defer release()
		defer e.buffersInFlight.Dec(1)

		if hasSpecific {
			fn(packet.NewReader(body))
		}
		if onAny != nil {
			onAny(op, body)
		}
	})
}
