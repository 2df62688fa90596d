package notify

import (
	"testing"
)

func TestRecorder(t *testing.T) {
	var r Recorder
	if _, ok := r.Last(); ok {
		t.Error("Expected empty recorder")
	}

	Success(&r, "saved")
	Error(&r, "failed")
	Info(&r, "restored")

	toasts := r.Toasts()
	if len(toasts) != 3 {
		t.Fatalf("Expected 3 toasts, got %d", len(toasts))
	}
	want := []Level{LevelSuccess, LevelError, LevelInfo}
	for i, level := range want {
		if toasts[i].Level != level {
			t.Errorf("Toast %d level = %q, want %q", i, toasts[i].Level, level)
		}
		if toasts[i].At.IsZero() {
			t.Errorf("Toast %d has no timestamp", i)
		}
	}

	last, _ := r.Last()
	if last.Message != "restored" {
		t.Errorf("Expected last message 'restored', got %q", last.Message)
	}
}

func TestRecorderLimit(t *testing.T) {
	r := NewRecorder(2)
	Info(r, "one")
	Info(r, "two")
	Info(r, "three")

	toasts := r.Toasts()
	if len(toasts) != 2 {
		t.Fatalf("Expected 2 toasts, got %d", len(toasts))
	}
	if toasts[0].Message != "two" || toasts[1].Message != "three" {
		t.Errorf("Expected the newest toasts to be kept, got %+v", toasts)
	}
}

func TestMulti(t *testing.T) {
	var a, b Recorder
	Success(Multi{&a, &b, Discard}, "ok")

	if len(a.Toasts()) != 1 || len(b.Toasts()) != 1 {
		t.Error("Expected both recorders to receive the toast")
	}
}

func TestHubRoutesBySession(t *testing.T) {
	hub := NewHub()
	mine := NewClient("s1")
	other := NewClient("s2")
	hub.Add(mine)
	hub.Add(other)

	Info(hub.For("s1"), "hello")

	select {
	case toast := <-mine.Msg:
		if toast.Message != "hello" {
			t.Errorf("Unexpected message %q", toast.Message)
		}
	default:
		t.Fatal("Expected toast for s1 client")
	}

	select {
	case toast := <-other.Msg:
		t.Errorf("Did not expect toast for s2, got %+v", toast)
	default:
	}
}

func TestHubDoesNotBlockOnSlowClients(t *testing.T) {
	hub := NewHub()
	client := NewClient("s1")
	hub.Add(client)

	for i := 0; i < cap(client.Msg)+10; i++ {
		Info(hub.For("s1"), "spam")
	}
	if len(client.Msg) != cap(client.Msg) {
		t.Errorf("Expected buffer to be full, got %d", len(client.Msg))
	}
}

func TestHubDeleteAndClose(t *testing.T) {
	hub := NewHub()
	a := NewClient("s1")
	b := NewClient("s1")
	c := NewClient("s2")
	hub.Add(a)
	hub.Add(b)
	hub.Add(c)

	if !hub.Connected("s1") || hub.Connected("s3") {
		t.Error("Expected only s1 and s2 to be connected")
	}

	hub.Delete(a)
	hub.Delete(a)
	if _, open := <-a.Msg; open {
		t.Error("Expected deleted client channel to be closed")
	}

	hub.Close("s1")
	if _, open := <-b.Msg; open {
		t.Error("Expected session clients to be closed")
	}
	if hub.Len() != 1 {
		t.Errorf("Expected one remaining client, got %d", hub.Len())
	}
	if hub.Connected("s1") {
		t.Error("Expected s1 to be disconnected after close")
	}

	// Broadcasting after close must not panic.
	Info(hub.For("s1"), "late")
}
