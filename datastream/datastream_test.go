package datastream

import (
	"bytes"
	"sync"
	"testing"
	"time"
)

func TestWriteReadRoundTrip(t *testing.T) {
	s := New(1, 16)

	var got []byte
	done := make(chan struct{})
	go func() {
		buf := make([]byte, 4)
		for len(got) < 10 {
			n, err := s.Read(buf)
			if err != nil || n == 0 {
				break
			}
			got = append(got, buf[:n]...)
		}
		close(done)
	}()

	if _, err := s.Write([]byte("hello worl")); err != nil {
		t.Fatal(err)
	}
	s.Close()

	<-done
	if !bytes.Equal(got, []byte("hello worl")) {
		t.Fatalf("got %q, want %q", got, "hello worl")
	}
}

func TestWriteBlocksOnFullRing(t *testing.T) {
	s := New(1, 4)

	writeDone := make(chan struct{})
	go func() {
		// 8 bytes into a 4-byte ring: the writer must block until the
		// reader drains it.
		_, _ = s.Write([]byte("abcdefgh"))
		close(writeDone)
	}()

	select {
	case <-writeDone:
		t.Fatal("Write returned before the reader drained the ring")
	case <-time.After(20 * time.Millisecond):
	}

	buf := make([]byte, 8)
	for i := 0; i < 8; {
		n, err := s.Read(buf[i:])
		if err != nil {
			t.Fatal(err)
		}
		i += n
	}

	select {
	case <-writeDone:
	case <-time.After(time.Second):
		t.Fatal("Write never unblocked after the ring drained")
	}
}

func TestCloseUnblocksReaderAndWriter(t *testing.T) {
	s := New(1, 4)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		buf := make([]byte, 4)
		_, _ = s.Read(buf)
	}()
	go func() {
		defer wg.Done()
		_, _ = s.Write([]byte("abcdefgh"))
	}()

	time.Sleep(10 * time.Millisecond)
	s.Close()

	done := make(chan struct{})
	go func() { wg.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close did not unblock a pending reader/writer")
	}
}

func TestRegistryOpenIsIdempotent(t *testing.T) {
	r := NewRegistry(16)

	a := r.Open(5)
	b := r.Open(5)
	if a != b {
		t.Fatal("Open(id) twice returned two different streams")
	}
	if r.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", r.Len())
	}

	if !r.Close(5) {
		t.Fatal("Close(5) reported the stream did not exist")
	}
	if r.Close(5) {
		t.Fatal("Close(5) a second time should report it no longer exists")
	}
	if r.Len() != 0 {
		t.Fatalf("Len() = %d, want 0 after Close", r.Len())
	}
}
