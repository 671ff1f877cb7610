package ipc

import (
	"bytes"
	"net"
	"testing"
	"time"

	"github.com/dotcef/ipc/datastream"
	"github.com/dotcef/ipc/opcode"
	"github.com/dotcef/ipc/packet"
	"github.com/dotcef/ipc/pipe"
	"github.com/dotcef/ipc/proxyenvelope"
)

func newEnginePair(t *testing.T) (host, controller *Engine) {
	t.Helper()
	a, b := net.Pipe()

	host = New(RoleHost, pipe.New(a, a), Config{})
	controller = New(RoleController, pipe.New(b, b), Config{})

	host.Start()
	controller.Start()

	t.Cleanup(func() {
		host.Stop()
		controller.Stop()
	})
	return host, controller
}

func TestPingRoundTrip(t *testing.T) {
	_, controller := newEnginePair(t)

	if _, err := controller.Call(opcode.CtlPing, nil); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestEchoReturnsSameBytes(t *testing.T) {
	_, controller := newEnginePair(t)

	want := []byte("round trip me")
	got, err := controller.Call(opcode.CtlEcho, want)
	if err != nil {
		t.Fatalf("Echo: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("Echo returned %q, want %q", got, want)
	}
}

func TestWindowHandlerRegisteredAtRuntime(t *testing.T) {
	host, controller := newEnginePair(t)

	host.RegisterWindowHandler(opcode.CtlWindowCreate, func(r *packet.Reader, w *packet.Writer) {
		_ = w.WriteUint32(99)
	})

	resp, err := controller.Call(opcode.CtlWindowCreate, nil)
	if err != nil {
		t.Fatalf("WindowCreate: %v", err)
	}
	id, err := packet.NewReader(resp).ReadUint32()
	if err != nil || id != 99 {
		t.Fatalf("WindowCreate response = %v, %v, want 99", id, err)
	}
}

func TestUnknownOpcodeGetsEmptyResponseNotHang(t *testing.T) {
	_, controller := newEnginePair(t)

	resp, err := controller.Call(255, nil)
	if err != nil {
		t.Fatalf("Call on an unregistered opcode returned an error instead of an empty ack: %v", err)
	}
	if len(resp) != 0 {
		t.Fatalf("resp = %v, want empty", resp)
	}
}

func TestStreamOpenDataClose(t *testing.T) {
	host, controller := newEnginePair(t)

	opened := make(chan *datastream.Stream, 1)
	host.OnStreamOpen(func(id uint32, s *datastream.Stream) {
		if id == 42 {
			opened <- s
		}
	})

	closed := make(chan uint32, 1)
	host.OnStreamClose(func(id uint32) { closed <- id })

	if err := controller.SendStreamOpen(42); err != nil {
		t.Fatalf("SendStreamOpen: %v", err)
	}

	var s *datastream.Stream
	select {
	case s = <-opened:
	case <-time.After(time.Second):
		t.Fatal("OnStreamOpen never fired")
	}

	payload := []byte("streamed bytes")
	existed, err := controller.SendStreamData(42, payload)
	if err != nil {
		t.Fatalf("SendStreamData: %v", err)
	}
	if !existed {
		t.Fatal("SendStreamData reported the stream did not exist")
	}

	got := make([]byte, len(payload))
	n, err := s.Read(got)
	if err != nil || n != len(payload) || !bytes.Equal(got, payload) {
		t.Fatalf("stream.Read() = %q, %v, want %q", got[:n], err, payload)
	}

	if err := controller.SendStreamClose(42); err != nil {
		t.Fatalf("SendStreamClose: %v", err)
	}

	select {
	case id := <-closed:
		if id != 42 {
			t.Fatalf("OnStreamClose fired for id %d, want 42", id)
		}
	case <-time.After(time.Second):
		t.Fatal("OnStreamClose never fired")
	}
}

func TestProxyFilterLazilyOpensStreamForReplacementBody(t *testing.T) {
	host, controller := newEnginePair(t)

	opened := make(chan *datastream.Stream, 1)
	host.OnStreamOpen(func(id uint32, s *datastream.Stream) {
		if id == 9 {
			opened <- s
		}
	})

	controller.RegisterProxyFilter(func(env proxyenvelope.Envelope) ProxyFilterDecision {
		if env.MatchedURL != "https://example.com/asset.js" {
			return ProxyFilterDecision{ShouldProxy: false}
		}
		return ProxyFilterDecision{ShouldProxy: true, StreamID: 9}
	})

	decision, err := host.SendProxyEnvelope(opcode.HostWindowProxyRequest, proxyenvelope.Envelope{
		MatchedURL:   "https://example.com/asset.js",
		ResourceType: 1,
	})
	if err != nil {
		t.Fatalf("SendProxyEnvelope: %v", err)
	}
	if !decision.ShouldProxy || decision.BodyType != proxyenvelope.BodyTypeStream || decision.StreamID != 9 {
		t.Fatalf("decision = %+v, want ShouldProxy=true BodyType=stream StreamID=9", decision)
	}

	var s *datastream.Stream
	select {
	case s = <-opened:
	case <-time.After(time.Second):
		t.Fatal("SendProxyEnvelope never lazily opened the stream on the host")
	}

	payload := []byte("replacement body")
	existed, err := controller.SendStreamData(9, payload)
	if err != nil {
		t.Fatalf("SendStreamData: %v", err)
	}
	if !existed {
		t.Fatal("SendStreamData reported the lazily-opened stream did not exist")
	}

	got := make([]byte, len(payload))
	n, err := s.Read(got)
	if err != nil || n != len(payload) || !bytes.Equal(got, payload) {
		t.Fatalf("stream.Read() = %q, %v, want %q", got[:n], err, payload)
	}
}

func TestExitNotificationStopsHostEngine(t *testing.T) {
	host, controller := newEnginePair(t)

	if err := controller.Notify(opcode.CtlNotifyExit, nil); err != nil {
		t.Fatalf("Notify(Exit): %v", err)
	}

	deadline := time.Now().Add(time.Second)
	for host.IsAvailable() {
		if time.Now().After(deadline) {
			t.Fatal("host engine never stopped after the Exit notification")
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestCallFromUIGoroutineIsRejected(t *testing.T) {
	_, controller := newEnginePair(t)

	errs := make(chan error, 1)
	controller.EnqueueUICallback(func() {
		_, err := controller.Call(opcode.CtlPing, nil)
		errs <- err
	})

	select {
	case err := <-errs:
		if err == nil {
			t.Fatal("Call from the UI callback goroutine should have been rejected")
		}
	case <-time.After(time.Second):
		t.Fatal("UI callback never ran")
	}
}
