package transport

import (
	"fmt"
	"net"
	"time"

	"github.com/mdlayher/vsock"
)

// Listen opens a listener on addr: vsock.ListenContextID for a VSockAddr,
// net.Listen("tcp", ...) for a TCPAddr.
func Listen(addr Addr) (net.Listener, error) {
	switch a := addr.(type) {
	case VSockAddr:
		return vsock.ListenContextID(a.ContextID, a.Port, nil)
	case TCPAddr:
		return net.Listen("tcp", a.String())
	default:
		return nil, fmt.Errorf("transport: unsupported addr type %T", addr)
	}
}

// Dial connects to addr: vsock.Dial for a VSockAddr, net.Dial("tcp", ...)
// for a TCPAddr.
func Dial(addr Addr) (net.Conn, error) {
	switch a := addr.(type) {
	case VSockAddr:
		return vsock.Dial(a.ContextID, a.Port, nil)
	case TCPAddr:
		return net.Dial("tcp", a.String())
	default:
		return nil, fmt.Errorf("transport: unsupported addr type %T", addr)
	}
}

// Accept runs a standard accept loop on ln, handing each accepted
// connection to handle on its own goroutine, in the teacher's
// Server.Serve shape: a transient accept error backs off briefly and
// retries, any other error stops the loop.
func Accept(ln net.Listener, handle func(net.Conn)) error {
	defer ln.Close()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				time.Sleep(5 * time.Millisecond)
				continue
			}
			return err
		}
		go handle(conn)
	}
}
