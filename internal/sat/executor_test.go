package sat

import (
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/groundstation/satsim/internal/orbit"
	"github.com/groundstation/satsim/internal/rfchannel"
)

type nopWriter struct{}

func (nopWriter) Write(p []byte) (int, error) { return len(p), nil }

func discardLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(nopWriter{})
	return log
}

// tiny is a negligible, non-zero probability for steps a test wants to
// (effectively) never fire.
const tiny = 1e-9

// TestDispatchIgnoresCorrupted matches scenario S6: a corrupted-but-not-
// dropped telecommand must be ignored, never executed.
func TestDispatchIgnoresCorrupted(t *testing.T) {
	ch := rfchannel.New(rfchannel.Config{
		PropDelayS: tiny,
		BurstStart: tiny, // negligible ignition chance
		BaseLoss:   tiny, // negligible loss chance
		BaseBER:    5.0,  // forces step 6 to always corrupt
	})
	e := &Executor{channel: ch, queue: newTCQueue(0), mask: 10, log: discardLogger()}

	g := orbit.GeometryState{ElevDeg: 50, Visible: true}
	if got := e.dispatch("PING", g); got != outcomeCorrupted {
		t.Fatalf("dispatch outcome = %v, want outcomeCorrupted", got)
	}
}

// TestDispatchDiscardsDropped matches spec section 4.5's authoritative
// uplink drop: a DROPPED verdict must discard the command outright.
func TestDispatchDiscardsDropped(t *testing.T) {
	ch := rfchannel.New(rfchannel.Config{
		PropDelayS: tiny,
		BurstStart: 1.0, // forces step 4 to always ignite a fade, i.e. drop
	})
	e := &Executor{channel: ch, queue: newTCQueue(0), mask: 10, log: discardLogger()}

	g := orbit.GeometryState{ElevDeg: 45, Visible: true}
	if got := e.dispatch("PING", g); got != outcomeDropped {
		t.Fatalf("dispatch outcome = %v, want outcomeDropped", got)
	}
}

// TestDispatchExecutesClean confirms a clean verdict still reaches execution.
func TestDispatchExecutesClean(t *testing.T) {
	ch := rfchannel.New(rfchannel.Config{
		PropDelayS: tiny,
		BurstStart: tiny,
		BaseLoss:   tiny,
		BaseBER:    tiny,
		BaseDup:    tiny,
	})
	e := &Executor{channel: ch, queue: newTCQueue(0), mask: 10, log: discardLogger()}

	// Zenith: link quality is 1, which zeroes the loss and bit-error
	// probabilities outright regardless of the (already negligible) config.
	g := orbit.GeometryState{ElevDeg: 90, Visible: true}
	if got := e.dispatch("PING", g); got != outcomeExecuted {
		t.Fatalf("dispatch outcome = %v, want outcomeExecuted", got)
	}
}
