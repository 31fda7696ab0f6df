package bbu

import "testing"

func TestRingBufferEvictsOldest(t *testing.T) {
	b := newRingBuffer(2)
	b.push([]byte("1"))
	b.push([]byte("2"))
	b.push([]byte("3"))

	if got := b.len(); got != 2 {
		t.Fatalf("len() = %d, want 2", got)
	}
	v, ok := b.pop()
	if !ok || string(v) != "2" {
		t.Fatalf("pop() = %q, %v; want %q, true", v, ok, "2")
	}
}

func TestRingBufferPeekLastIsNotADrain(t *testing.T) {
	b := newRingBuffer(10)
	b.push([]byte("1"))
	b.push([]byte("2"))

	v1, ok := b.peekLast()
	if !ok || string(v1) != "2" {
		t.Fatalf("peekLast() = %q, %v; want %q, true", v1, ok, "2")
	}
	v2, ok := b.peekLast()
	if !ok || string(v2) != "2" {
		t.Fatal("peekLast should return the same newest entry repeatedly without draining")
	}
	if got := b.len(); got != 2 {
		t.Fatalf("len() = %d after peekLast, want 2 (unchanged)", got)
	}
}

func TestTCQueueFIFOAndEviction(t *testing.T) {
	q := newTCQueue(1)
	q.push("A")
	q.push("B")

	if got := q.len(); got != 1 {
		t.Fatalf("len() = %d, want 1", got)
	}
	got, ok := q.pop()
	if !ok || got != "B" {
		t.Fatalf("pop() = %q, %v; want %q, true", got, ok, "B")
	}
}
