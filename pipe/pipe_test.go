package pipe

import (
	"bytes"
	"net"
	"testing"
	"time"
)

func TestWriteFullyThenReadFully(t *testing.T) {
	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()

	pa := New(a, a)
	pb := New(b, b)

	payload := bytes.Repeat([]byte("x"), 4096)
	go func() {
		if _, err := pa.Write(payload, len(payload), true); err != nil {
			t.Error(err)
		}
	}()

	got := make([]byte, len(payload))
	n, err := pb.Read(got, len(got), true)
	if err != nil {
		t.Fatal(err)
	}
	if n != len(payload) || !bytes.Equal(got, payload) {
		t.Fatalf("read %d bytes, want %d matching the payload", n, len(payload))
	}
}

func TestCloseUnblocksRead(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	pa := New(a, a)

	done := make(chan error, 1)
	go func() {
		buf := make([]byte, 10)
		_, err := pa.Read(buf, 10, true)
		done <- err
	}()

	time.Sleep(10 * time.Millisecond)
	if err := pa.Close(); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-done:
		if err == nil {
			t.Fatal("expected an error from Read after Close unblocked it")
		}
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock the pending Read")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	a, b := net.Pipe()
	defer b.Close()

	pa := New(a, a)
	if err := pa.Close(); err != nil {
		t.Fatal(err)
	}
	if err := pa.Close(); err != nil {
		t.Fatalf("second Close() returned %v, want nil", err)
	}
}

func TestHasValidHandles(t *testing.T) {
	if New(nil, nil).HasValidHandles() {
		t.Fatal("a Pipe with nil handles must report HasValidHandles() == false")
	}

	a, b := net.Pipe()
	defer a.Close()
	defer b.Close()
	if !New(a, a).HasValidHandles() {
		t.Fatal("a Pipe with both handles set must report HasValidHandles() == true")
	}
}
