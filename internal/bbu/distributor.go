package bbu

import (
	"context"
	"net"
	"time"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"

	"github.com/groundstation/satsim/internal/transport"
)

// Distributor is component C6: it ingests TM datagrams from the
// spacecraft and serves them to a single monitoring client over TCP,
// pacing delivery at roughly 5 Hz (spec section 4.6).
type Distributor struct {
	conn    *net.UDPConn
	live    *ringBuffer
	history *ringBuffer
	log     *logrus.Logger
}

// NewDistributor binds the BBU's TM UDP listen socket.
func NewDistributor(tmListenAddr string, liveCap, histCap int, log *logrus.Logger) (*Distributor, error) {
	laddr, err := net.ResolveUDPAddr("udp", tmListenAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.ListenUDP("udp", laddr)
	if err != nil {
		return nil, err
	}
	return &Distributor{
		conn:    conn,
		live:    newRingBuffer(liveCap),
		history: newRingBuffer(histCap),
		log:     log,
	}, nil
}

// Close releases the underlying UDP socket.
func (d *Distributor) Close() error { return d.conn.Close() }

// LiveDepth and HistDepth report buffer occupancy for the status reporter.
func (d *Distributor) LiveDepth() int { return d.live.len() }
func (d *Distributor) HistDepth() int { return d.history.len() }

// RunIngress reads TM datagrams until ctx is cancelled, appending every
// datagram to history and, when it decodes and the wire's visibility
// flag is set, also to live (spec section 4.6 — every frame appears in
// history; only visible frames are eligible for the live pacing feed).
func (d *Distributor) RunIngress(ctx context.Context) {
	go func() {
		<-ctx.Done()
		d.conn.Close()
	}()

	buf := make([]byte, 4096)
	for {
		n, _, err := d.conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			d.log.WithError(err).Debug("distributor: TM read failed")
			continue
		}

		raw := append([]byte(nil), buf[:n]...)
		d.history.push(raw)

		rec, err := transport.DecodeTM(raw)
		if err != nil {
			d.log.WithError(err).Debug("distributor: malformed TM frame kept in history only")
			continue
		}
		if rec.Visible {
			d.live.push(raw)
		}
	}
}

// RunServer accepts one monitoring client at a time on tmAcceptAddr and
// serves it the LIVE/HIST paced stream until the connection drops or ctx
// is cancelled, then accepts the next one.
func (d *Distributor) RunServer(ctx context.Context, tmAcceptAddr string, visible func() bool) error {
	ln, err := net.Listen("tcp", tmAcceptAddr)
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
			d.log.WithError(err).Debug("distributor: accept failed")
			continue
		}
		d.serveClient(ctx, conn, visible)
	}
}

// serveClient runs the ~5 Hz pacing activity for a single accepted
// connection, per spec section 4.6, until send failure or shutdown.
func (d *Distributor) serveClient(ctx context.Context, conn net.Conn, visible func() bool) {
	defer conn.Close()
	cid := xid.New().String()
	log := d.log.WithField("conn", cid)
	log.WithField("remote", conn.RemoteAddr()).Info("distributor: monitoring client connected")

	t := time.NewTicker(200 * time.Millisecond)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			var frame []byte
			var mode transport.StreamMode

			if visible() {
				if raw, ok := d.live.pop(); ok {
					frame, mode = raw, transport.ModeLive
				}
			}
			if frame == nil {
				if raw, ok := d.history.peekLast(); ok {
					frame, mode = raw, transport.ModeHist
				}
			}
			if frame == nil {
				continue // idle briefly — nothing to send yet
			}

			_ = conn.SetWriteDeadline(time.Now().Add(1 * time.Second))
			if _, err := conn.Write(transport.EncodeStreamRecord(mode, frame)); err != nil {
				log.WithError(err).Debug("distributor: client send failed, closing")
				return
			}
		}
	}
}
