// Package pipe provides the raw fixed-direction byte transport the engine
// frames packets over: a read end and a write end, owned separately so the
// engine can read and write concurrently, with no knowledge of framing.
// Grounded in the teacher's PersistConn, which wraps a net.Conn's Read/Write
// with bookkeeping (conn.go, client/persistconn.go) — generalized here from
// a single net.Conn to any pair of io.ReadCloser/io.WriteCloser, since the
// engine's duplex channel is an anonymous OS pipe inherited from the parent
// process rather than a dialed socket.
package pipe

import (
	"io"
	"sync"
)

// Pipe wraps independently-owned read and write handles. Close releases
// both ends and is safe to call concurrently with a blocked Read: a closed
// read handle must make the in-flight Read observe EOF and return.
type Pipe struct {
	mu        sync.Mutex
	readEnd   io.ReadCloser
	writeEnd  io.WriteCloser
	closeOnce sync.Once
}

// New wraps the given read and write handles. Either may be nil, in which
// case HasValidHandles reports false and the pipe refuses I/O.
func New(readEnd io.ReadCloser, writeEnd io.WriteCloser) *Pipe {
	return &Pipe{readEnd: readEnd, writeEnd: writeEnd}
}

func (p *Pipe) HasValidHandles() bool {
	return p.readEnd != nil && p.writeEnd != nil
}

// Read reads into buf[:length]. If readFully, it loops until length bytes
// are read or the channel is closed/errors, returning the partial count
// alongside the error. A read of 0 bytes with a nil error never happens;
// EOF is reported as io.EOF.
func (p *Pipe) Read(buf []byte, length int, readFully bool) (int, error) {
	if !readFully {
		n, err := p.readEnd.Read(buf[:length])
		return n, err
	}

	total := 0
	for total < length {
		n, err := p.readEnd.Read(buf[total:length])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.EOF
		}
	}
	return total, nil
}

// Write writes buf[:length]. If writeFully, it loops until length bytes are
// written or an error occurs. A write of fewer bytes than requested when
// writeFully was set means the peer closed; the caller treats that as fatal.
func (p *Pipe) Write(buf []byte, length int, writeFully bool) (int, error) {
	if !writeFully {
		return p.writeEnd.Write(buf[:length])
	}

	total := 0
	for total < length {
		n, err := p.writeEnd.Write(buf[total:length])
		total += n
		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.ErrShortWrite
		}
	}
	return total, nil
}

// Close releases both ends. Safe to call from any thread, including
// concurrently with a blocked Read; closing the read handle makes the
// blocked Read observe EOF (or a use-of-closed-connection error, treated
// identically by the caller) and return.
func (p *Pipe) Close() error {
	var err error
	p.closeOnce.Do(func() {
		if p.readEnd != nil {
			if cerr := p.readEnd.Close(); cerr != nil {
				err = cerr
			}
		}
		if p.writeEnd != nil {
			if cerr := p.writeEnd.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}
	})
	return err
}
