package sat

import "testing"

func TestTCQueueFIFO(t *testing.T) {
	q := newTCQueue(0)
	q.push("A")
	q.push("B")
	q.push("C")

	for _, want := range []string{"A", "B", "C"} {
		got, ok := q.pop()
		if !ok || got != want {
			t.Fatalf("pop() = %q, %v; want %q, true", got, ok, want)
		}
	}
	if _, ok := q.pop(); ok {
		t.Fatal("pop() on empty queue should return ok=false")
	}
}

func TestTCQueueOldestDropEviction(t *testing.T) {
	q := newTCQueue(2)
	q.push("A")
	q.push("B")
	q.push("C")

	if got := q.len(); got != 2 {
		t.Fatalf("len() = %d, want 2", got)
	}
	got, _ := q.pop()
	if got != "B" {
		t.Errorf("oldest surviving entry = %q, want %q", got, "B")
	}
}

func TestBuildPayloadDeterministicBySeq(t *testing.T) {
	a := buildPayload(7, 32)
	b := buildPayload(7, 32)
	c := buildPayload(8, 32)

	if len(a) != 32 {
		t.Fatalf("len = %d, want 32", len(a))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("same seq produced different payloads at byte %d", i)
		}
	}
	if string(a) == string(c) {
		t.Fatal("different seq numbers produced identical payloads")
	}
}
