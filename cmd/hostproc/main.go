// Command hostproc is the embedded-host side of the engine: it listens for
// controller connections (vsock from a guest VM, or TCP for local
// development) and runs a separate ipc.Engine with RoleHost over each
// accepted connection.
package main

import (
	"flag"
	"net"
	"strconv"

	"github.com/dotcef/ipc/datastream"
	"github.com/dotcef/ipc/ipc"
	log "github.com/dotcef/ipc/log"
	"github.com/dotcef/ipc/opcode"
	"github.com/dotcef/ipc/packet"
	"github.com/dotcef/ipc/pipe"
	"github.com/dotcef/ipc/proxyenvelope"
	"github.com/dotcef/ipc/transport"
)

func main() {
	tcpAddr := flag.String("tcp", "", "listen on host:port instead of vsock")
	vsockPort := flag.Uint("vsock-port", 9100, "vsock port to listen on")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if lvl, err := log.ParseLevel(*logLevel); err != nil {
		log.Errorf("bad -log-level value %q: %v", *logLevel, err)
	} else {
		log.SetLevel(lvl)
	}

	var addr transport.Addr
	if *tcpAddr != "" {
		host, portStr, err := net.SplitHostPort(*tcpAddr)
		if err != nil {
			log.Errorf("bad -tcp value %q: %v", *tcpAddr, err)
			return
		}
		port, _ := strconv.ParseUint(portStr, 10, 32)
		addr = transport.TCPAddr{Host: host, Port: uint32(port)}
	} else {
		const vmaddrCIDAny = 0xFFFFFFFF
		addr = transport.VSockAddr{ContextID: vmaddrCIDAny, Port: uint32(*vsockPort)}
	}

	ln, err := transport.Listen(addr)
	if err != nil {
		log.Errorf("listen %v: %v", addr, err)
		return
	}
	log.Infof("hostproc listening on %v", addr)

	_ = transport.Accept(ln, serveConn)
}

func serveConn(conn net.Conn) {
	log.Infof("controller connected from %v", conn.RemoteAddr())

	p := pipe.New(conn, conn)
	e := ipc.New(ipc.RoleHost, p, ipc.Config{StatsTitle: "hostproc"})

	e.RegisterWindowHandler(opcode.CtlWindowCreate, func(r *packet.Reader, w *packet.Writer) {
		_ = w.WriteUint32(1)
	})

	e.RegisterWindowHandler(opcode.CtlWindowSetProxyRequests, func(r *packet.Reader, w *packet.Writer) {
		enabled, _ := r.ReadBool()
		log.Infof("proxy requests enabled=%v", enabled)
	})

	e.RegisterWindowHandler(opcode.CtlWindowAddUrlToProxy, func(r *packet.Reader, w *packet.Writer) {
		pattern := string(r.RemainingBytes())
		log.Infof("registered proxy url pattern %q", pattern)
		go askProxyDecision(e, pattern)
	})

	e.OnStreamOpen(func(id uint32, s *datastream.Stream) {
		log.Infof("stream %d opened", id)
		go drainStream(s)
	})

	e.Start()
}

// askProxyDecision is a stand-in for the host's own URL-matching code: once
// the controller registers pattern, the host would consult it for matching
// traffic and ask the controller whether to let that traffic through. Here
// it just asks once, immediately, for a synthetic URL to exercise the
// round trip.
func askProxyDecision(e *ipc.Engine, pattern string) {
	decision, err := e.SendProxyEnvelope(opcode.HostWindowProxyRequest, proxyenvelope.Envelope{
		MatchedURL:   pattern,
		ResourceType: 1,
	})
	if err != nil {
		log.Errorf("proxy decision for %q: %v", pattern, err)
		return
	}
	log.Infof("proxy decision for %q: shouldProxy=%v bodyType=%v streamID=%d",
		pattern, decision.ShouldProxy, decision.BodyType, decision.StreamID)
}

func drainStream(s *datastream.Stream) {
	buf := make([]byte, 32<<10)
	for {
		n, err := s.Read(buf)
		if n == 0 && err == nil {
			return
		}
		if n > 0 {
			log.Debugf("stream drained %d bytes", n)
		}
	}
}
