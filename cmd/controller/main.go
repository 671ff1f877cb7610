// Command controller dials a hostproc instance and drives it over
// ipc.Engine with RoleController: a minimal smoke test for the wire
// protocol, not a full controller implementation.
package main

import (
	"flag"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/dotcef/ipc/ipc"
	log "github.com/dotcef/ipc/log"
	"github.com/dotcef/ipc/opcode"
	"github.com/dotcef/ipc/pipe"
	"github.com/dotcef/ipc/proxyenvelope"
	"github.com/dotcef/ipc/transport"
)

const demoStreamID = 7

func main() {
	tcpAddr := flag.String("tcp", "", "dial host:port instead of vsock")
	vsockCID := flag.Uint("vsock-cid", 2, "vsock context id of the host")
	vsockPort := flag.Uint("vsock-port", 9100, "vsock port of the host")
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
		addr = transport.VSockAddr{ContextID: uint32(*vsockCID), Port: uint32(*vsockPort)}
	}

	conn, err := transport.Dial(addr)
	if err != nil {
		log.Errorf("dial %v: %v", addr, err)
		return
	}

	p := pipe.New(conn, conn)
	e := ipc.New(ipc.RoleController, p, ipc.Config{StatsTitle: "controller"})

	// Answer the host's proxy questions: let example.com through, with a
	// replacement body delivered over demoStreamID rather than inline.
	e.RegisterProxyFilter(func(env proxyenvelope.Envelope) ipc.ProxyFilterDecision {
		if !strings.Contains(env.MatchedURL, "example.com") {
			return ipc.ProxyFilterDecision{ShouldProxy: false}
		}
		go pushReplacementBody(e, demoStreamID)
		return ipc.ProxyFilterDecision{ShouldProxy: true, StreamID: demoStreamID}
	})

	e.Start()
	defer e.Stop()

	if _, err := e.Call(opcode.CtlPing, nil); err != nil {
		log.Errorf("ping failed: %v", err)
		return
	}
	log.Info("ping ok")

	id, err := e.Call(opcode.CtlWindowCreate, nil)
	if err != nil {
		log.Errorf("window create failed: %v", err)
		return
	}
	log.Infof("created window, response=%v", id)

	if _, err := e.Call(opcode.CtlWindowSetProxyRequests, []byte{1}); err != nil {
		log.Errorf("set proxy requests failed: %v", err)
		return
	}
	if _, err := e.Call(opcode.CtlWindowAddUrlToProxy, []byte("https://example.com/asset.js")); err != nil {
		log.Errorf("add url to proxy failed: %v", err)
		return
	}

	time.Sleep(500 * time.Millisecond)
}

// pushReplacementBody waits long enough for the host's SendProxyEnvelope
// call to return and open demoStreamID locally, then delivers the
// replacement body over it. The host opens the stream only once it
// receives our decision, so sending any earlier would race an unopened id.
func pushReplacementBody(e *ipc.Engine, streamID uint32) {
	time.Sleep(50 * time.Millisecond)
	existed, err := e.SendStreamData(streamID, []byte("replacement body"))
	if err != nil {
		log.Errorf("push replacement body: %v", err)
		return
	}
	log.Infof("replacement body delivered, host had the stream open=%v", existed)
	if err := e.SendStreamClose(streamID); err != nil {
		log.Errorf("close replacement stream: %v", err)
	}
}
