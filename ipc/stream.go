package ipc

import (
	"github.com/dotcef/ipc/datastream"
	ierrors "github.com/dotcef/ipc/errors"
	log "github.com/dotcef/ipc/log"
	"github.com/dotcef/ipc/opcode"
	"github.com/dotcef/ipc/packet"
)

// OnStreamOpen installs the callback invoked when a stream is opened: on the
// stream WorkQueue for an inbound StreamOpen request, or on the caller's
// goroutine when SendProxyEnvelope opens a stream named by a stream-typed
// decision — the hook a file save or a proxied body needs to start draining
// the stream as data arrives.
func (e *Engine) OnStreamOpen(fn func(id uint32, s *datastream.Stream)) {
	e.callbackMu.Lock()
	defer e.callbackMu.Unlock()
	e.onStreamOpen = fn
}

// OnStreamClose installs the callback invoked when the peer closes a stream
// it did not originate the close for locally.
func (e *Engine) OnStreamClose(fn func(id uint32)) {
	e.callbackMu.Lock()
	defer e.callbackMu.Unlock()
	e.onStreamClose = fn
}

func (e *Engine) streamOpenCallback() func(id uint32, s *datastream.Stream) {
	e.callbackMu.RLock()
	defer e.callbackMu.RUnlock()
	return e.onStreamOpen
}

func (e *Engine) streamCloseCallback() func(id uint32) {
	e.callbackMu.RLock()
	defer e.callbackMu.RUnlock()
	return e.onStreamClose
}

// Stream returns the registered DataStream for id, if one is open.
func (e *Engine) Stream(id uint32) (*datastream.Stream, bool) {
	return e.streams.Get(id)
}

// stream_open registers a new DataStream for id, idempotently, and updates
// the open-streams gauge.
func (e *Engine) stream_open(id uint32) *datastream.Stream {
	s := e.streams.Open(id)
	e.openStreams.Update(int64(e.streams.Len()))
	log.Infof("stream %d open", id)
	return s
}

// stream_data writes payload into the stream for id. existed reports
// whether the stream was already open; data for a stream nobody opened is
// a ProtocolRecoverable condition the caller logs and drops.
func (e *Engine) stream_data(id uint32, payload []byte) (existed bool) {
	s, ok := e.streams.Get(id)
	if !ok {
		return false
	}
	e.streamBytes.Mark(int64(len(payload)))
	_, _ = s.Write(payload)
	return true
}

// stream_close closes and removes the local stream for id. Returns whether
// the stream existed.
func (e *Engine) stream_close(id uint32) bool {
	existed := e.streams.Close(id)
	e.openStreams.Update(int64(e.streams.Len()))
	if existed {
		log.Infof("stream %d closed", id)
	}
	return existed
}

// CloseStream closes the local stream for id and tells the peer, via a
// StreamClose request on the role-appropriate opcode, that it should do the
// same. Use this to cancel a stream this side originated; a stream the peer
// closed first arrives through handleStreamCloseRequest and needs no echo.
func (e *Engine) CloseStream(id uint32) error {
	e.stream_close(id)
	return e.SendStreamClose(id)
}

// SendStreamOpen tells the peer to open a stream for id. Only meaningful
// from RoleController: StreamOpen exists only in the controller-to-host
// request table.
func (e *Engine) SendStreamOpen(id uint32) error {
	w := packet.NewWriterMax(e.cfg.maxPacketBody())
	_ = w.WriteUint32(id)
	_, err := e.Call(opcode.CtlStreamOpen, w.Bytes())
	return err
}

// SendStreamData sends a chunk of a stream this side originated. The
// returned bool reports whether the peer still had the stream open when
// the chunk arrived. Only meaningful from RoleController.
func (e *Engine) SendStreamData(id uint32, data []byte) (bool, error) {
	w := packet.NewWriterMax(e.cfg.maxPacketBody())
	_ = w.WriteUint32(id)
	_ = w.WriteBytes(data)
	resp, err := e.Call(opcode.CtlStreamData, w.Bytes())
	if err != nil {
		return false, err
	}
	existed, _ := packet.NewReader(resp).ReadBool()
	return existed, nil
}

// SendStreamClose tells the peer a stream has ended, on whichever opcode
// this role's request table defines it at: CtlStreamClose from the
// controller, HostStreamClose from the host.
func (e *Engine) SendStreamClose(id uint32) error {
	w := packet.NewWriterMax(e.cfg.maxPacketBody())
	_ = w.WriteUint32(id)

	op := opcode.CtlStreamClose
	if e.role == RoleHost {
		op = opcode.HostStreamClose
	}
	_, err := e.Call(op, w.Bytes())
	return err
}

// handleStreamOpen is the StreamOrdered handler for an inbound StreamOpen
// request: it opens the local stream and, if a consumer registered one,
// invokes the open callback before acking.
func (e *Engine) handleStreamOpen(r *packet.Reader, w *packet.Writer) {
	id, err := r.ReadUint32()
	if err != nil {
		st := ierrors.StatusMalformedPayload
		log.WithField("status_code", st.Code()).Warnf("%v", ierrors.Wrap(st, err))
		return
	}
	s := e.stream_open(id)
	if cb := e.streamOpenCallback(); cb != nil {
		cb(id, s)
	}
}

// handleStreamData is the StreamOrdered handler for an inbound chunk. Data
// for a stream nobody opened is logged and dropped rather than answered
// with an error response, matching the ProtocolRecoverable classification
// for unknown-stream traffic.
func (e *Engine) handleStreamData(r *packet.Reader, w *packet.Writer) {
	id, err := r.ReadUint32()
	if err != nil {
		st := ierrors.StatusMalformedPayload
		log.WithField("status_code", st.Code()).Warnf("%v", ierrors.Wrap(st, err))
		return
	}
	payload := r.RemainingBytes()
	existed := e.stream_data(id, payload)
	if !existed {
		st := ierrors.StatusUnknownStream
		log.WithField("status_code", st.Code()).Warnf("%v: id=%d, dropping %d bytes", st, id, len(payload))
	}
	_ = w.WriteBool(existed)
}

// handleStreamCloseRequest is the StreamOrdered handler shared by both
// opcode tables for an inbound StreamClose: the peer is telling this side a
// stream has ended.
func (e *Engine) handleStreamCloseRequest(r *packet.Reader, w *packet.Writer) {
	id, err := r.ReadUint32()
	if err != nil {
		st := ierrors.StatusMalformedPayload
		log.WithField("status_code", st.Code()).Warnf("%v", ierrors.Wrap(st, err))
		return
	}
	if existed := e.stream_close(id); existed {
		if cb := e.streamCloseCallback(); cb != nil {
			cb(id)
		}
	}
}
