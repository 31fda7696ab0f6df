package sat

import (
	"context"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/groundstation/satsim/internal/orbit"
	"github.com/groundstation/satsim/internal/rfchannel"
	"github.com/groundstation/satsim/internal/transport"
	"github.com/groundstation/satsim/internal/wsevents"
)

// Executor is component C5: it listens for uplinked telecommand
// datagrams and, while visible, dequeues them in receive order and
// applies the RF channel in the uplink direction as the authoritative
// verdict for whether each command actually executes (spec section 4.5
// — the SAT side is ground truth for uplink loss and corruption, unlike
// the BBU's non-authoritative check on the same frames). A DROPPED verdict
// discards the command outright; a corrupted verdict is ignored per
// spec section 4.5's "if corrupted: ignore" rule — only a clean verdict
// executes.
type Executor struct {
	model   orbit.Model
	channel *rfchannel.Channel
	conn    *net.UDPConn
	queue   *tcQueue
	mask    float64
	log     *logrus.Logger
	hub     *wsevents.Hub
}

// NewExecutor binds the spacecraft's TC UDP listen socket.
func NewExecutor(model orbit.Model, channel *rfchannel.Channel, tcListenAddr string, queueCap int, mask float64, hub *wsevents.Hub, log *logrus.Logger) (*Executor, error) {
	laddr, err := net.ResolveUDPAddr("udp", tcListenAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}
	return &Executor{
		model:   model,
		channel: channel,
		conn:    conn,
		queue:   newTCQueue(queueCap),
		mask:    mask,
		log:     log,
		hub:     hub,
	}, nil
}

// Close releases the underlying UDP socket.
func (e *Executor) Close() error { return e.conn.Close() }

// QueueDepth reports the number of commands awaiting execution, for the
// status reporter.
func (e *Executor) QueueDepth() int { return e.queue.len() }

// Run starts the ingress goroutine and the execution loop, returning
// once both have stopped (on ctx cancellation).
func (e *Executor) Run(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		e.ingress(ctx)
	}()

	e.execLoop(ctx)
	<-done
}

// ingress reads raw TC datagrams off the wire and enqueues them
// unconditionally. The RF channel is not applied here: spec section 4.5
// gates execution on visibility, so the authoritative channel verdict is
// deferred to execLoop's dequeue, where the geometry in effect at
// execution time is what determines the command's fate.
func (e *Executor) ingress(ctx context.Context) {
	go func() {
		<-ctx.Done()
		e.conn.Close()
	}()

	buf := make([]byte, 4096)
	for {
		n, _, err := e.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			e.log.WithError(err).Debug("executor: TC read failed")
			continue
		}

		cmd := transport.DecodeTC(buf[:n])
		if cmd == "" {
			continue
		}

		e.queue.push(cmd)
	}
}

// execLoop polls for visibility and drains the queue at a fixed rate
// while visible, per the ≥2 Hz poll requirement of spec section 4.5.
// Each dequeued command is run through the uplink RF channel as the
// authoritative verdict: DROPPED discards it, corrupted is ignored, and
// only a clean verdict reaches execute.
func (e *Executor) execLoop(ctx context.Context) {
	t := time.NewTicker(500 * time.Millisecond)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			g := e.model.GetState(time.Now())
			if !g.Visible {
				continue
			}
			for {
				cmd, ok := e.queue.pop()
				if !ok {
					break
				}
				if e.dispatch(cmd, g) == outcomeExecuted {
					e.execute(cmd)
				}
			}
		}
	}
}

// dispatchOutcome is dispatch's verdict on a dequeued command.
type dispatchOutcome int

const (
	outcomeExecuted dispatchOutcome = iota
	outcomeDropped
	outcomeCorrupted
)

// dispatch applies the uplink RF channel to a dequeued command. It never
// executes the command itself — the caller does that on outcomeExecuted
// — so the channel verdict is observable independent of execution's
// logging/broadcast side effects.
func (e *Executor) dispatch(cmd string, g orbit.GeometryState) dispatchOutcome {
	pkt := transport.Packet{Kind: transport.TC, Payload: []byte(cmd), PayloadLen: len(cmd)}
	verdict := e.channel.Propagate(pkt, g.ElevDeg, e.mask, rfchannel.Uplink)

	if verdict.Dropped {
		e.log.WithField("cmd", cmd).Debug("executor: telecommand dropped by uplink channel")
		return outcomeDropped
	}
	if verdict.Packet.Corrupted {
		e.log.WithField("cmd", cmd).Debug("executor: telecommand corrupted, ignored")
		return outcomeCorrupted
	}

	return outcomeExecuted
}

// execute "runs" a telecommand. The simulator has no real spacecraft
// subsystems to act on, so execution is logged and broadcast as an
// event — exactly the observable contract spec section 4.5 requires.
func (e *Executor) execute(cmd string) {
	e.log.WithField("cmd", cmd).Info("executor: telecommand executed")
	if e.hub != nil {
		e.hub.BroadcastJSON(wsevents.NewTCExecutedEvent("sat", cmd))
	}
}
