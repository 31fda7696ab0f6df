package bbu

import (
	"bufio"
	"context"
	"net"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/groundstation/satsim/internal/orbit"
	"github.com/groundstation/satsim/internal/rfchannel"
	"github.com/groundstation/satsim/internal/transport"
)

// Uplink is component C7: a TCP short-connection server that accepts one
// telecommand per connection, plus the uplink activity that drains the
// resulting queue toward the spacecraft in FIFO order (spec section
// 4.7). Its RF channel check is non-authoritative: a DROPPED verdict is
// logged and skips the send, a corrupted verdict is only logged and the
// datagram is still sent, and the SAT-side executor holds the
// authoritative uplink verdict (spec section 8, open question on the
// source's double-application of uplink effects).
type Uplink struct {
	model   orbit.Model
	channel *rfchannel.Channel
	queue   *tcQueue
	conn    *net.UDPConn
	mask    float64
	log     *logrus.Logger
}

// NewUplink dials the spacecraft's TC UDP listen endpoint.
func NewUplink(model orbit.Model, channel *rfchannel.Channel, tcSendAddr string, queueCap int, mask float64, log *logrus.Logger) (*Uplink, error) {
	raddr, err := net.ResolveUDPAddr("udp", tcSendAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return &Uplink{
		model:   model,
		channel: channel,
		queue:   newTCQueue(queueCap),
		conn:    conn,
		mask:    mask,
		log:     log,
	}, nil
}

// Close releases the underlying UDP socket.
func (u *Uplink) Close() error { return u.conn.Close() }

// QueueDepth reports commands awaiting uplink, for the status reporter.
func (u *Uplink) QueueDepth() int { return u.queue.len() }

// RunServer accepts TC client connections on tcAcceptAddr. Each
// connection delivers exactly one command line and is then closed.
func (u *Uplink) RunServer(ctx context.Context, tcAcceptAddr string) error {
	ln, err := net.Listen("tcp", tcAcceptAddr)
	if err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			u.log.WithError(err).Debug("uplink: accept failed")
			continue
		}
		u.acceptOne(conn)
	}
}

func (u *Uplink) acceptOne(conn net.Conn) {
	defer conn.Close()
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	cid := xid.New().String()

	scanner := bufio.NewScanner(conn)
	if !scanner.Scan() {
		return
	}
	cmd := transport.DecodeTC(scanner.Bytes())
	if cmd == "" {
		return
	}
	u.queue.push(cmd)
	u.log.WithFields(logrus.Fields{"conn": cid, "cmd": cmd}).Debug("uplink: telecommand enqueued")
}

// RunUplink drains the queue in FIFO order whenever the spacecraft is
// visible, applying the uplink RF channel before every send: DROPPED
// skips the send, corrupted is logged and sent anyway (spec section 4.7).
func (u *Uplink) RunUplink(ctx context.Context) {
	t := time.NewTicker(500 * time.Millisecond)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			g := u.model.GetState(time.Now())
			if !g.Visible {
				continue
			}
			for {
				cmd, ok := u.queue.pop()
				if !ok {
					break
				}
				u.send(cmd, g)
			}
		}
	}
}

func (u *Uplink) send(cmd string, g orbit.GeometryState) {
	pkt := transport.Packet{Kind: transport.TC, Payload: []byte(cmd), PayloadLen: len(cmd)}
	verdict := u.channel.Propagate(pkt, g.ElevDeg, u.mask, rfchannel.Uplink)

	if verdict.Dropped {
		u.log.WithField("cmd", cmd).Info("uplink: channel reports dropped (logging only, send skipped)")
		return
	}
	if verdict.Packet.Corrupted {
		u.log.WithField("cmd", cmd).Info("uplink: channel reports bit error (logging only, sending anyway)")
	}

	if _, err := u.conn.Write(transport.EncodeTC(cmd)); err != nil {
		u.log.WithError(err).Debug("uplink: UDP send failed")
	}
}
