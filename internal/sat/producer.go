package sat

import (
	"context"
	"math"
	"net"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/groundstation/satsim/internal/config"
	"github.com/groundstation/satsim/internal/orbit"
	"github.com/groundstation/satsim/internal/rfchannel"
	"github.com/groundstation/satsim/internal/status"
	"github.com/groundstation/satsim/internal/transport"
	"github.com/groundstation/satsim/internal/wsevents"
)

// Producer is component C4: it emits TM at the link-budgeted rate while
// the spacecraft is visible, and emits nothing at all otherwise — the
// physical layer cannot close an invisible link (spec section 4.4).
type Producer struct {
	model   orbit.Model
	channel *rfchannel.Channel
	conn    *net.UDPConn
	cfg     config.ProducerConfig
	mask    float64
	log     *logrus.Logger
	hub     *wsevents.Hub
	metrics *status.Metrics

	seq uint32 // wraps at 2^32; persists across passes (spec section 4.4)
}

// NewProducer dials the BBU's TM UDP endpoint and returns a ready
// Producer. The UDP "connection" is connectionless — Dial here just
// fixes the destination so Write can be used instead of WriteTo.
func NewProducer(model orbit.Model, channel *rfchannel.Channel, tmSendAddr string, cfg config.ProducerConfig, mask float64, hub *wsevents.Hub, log *logrus.Logger, metrics *status.Metrics) (*Producer, error) {
	raddr, err := net.ResolveUDPAddr("udp", tmSendAddr)
	if err != nil {
		return nil, err
	}
	conn, err := net.DialUDP("udp", nil, raddr)
	if err != nil {
		return nil, err
	}
	return &Producer{
		model:   model,
		channel: channel,
		conn:    conn,
		cfg:     cfg,
		mask:    mask,
		log:     log,
		hub:     hub,
		metrics: metrics,
	}, nil
}

// Close releases the underlying UDP socket.
func (p *Producer) Close() error { return p.conn.Close() }

// Run drives the tick loop described in spec section 4.4 until ctx is
// cancelled.
func (p *Producer) Run(ctx context.Context) {
	tick := time.Duration(p.cfg.TickS * float64(time.Second))
	t := time.NewTicker(tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			p.step(ctx)
		}
	}
}

func (p *Producer) step(ctx context.Context) {
	g := p.model.GetState(time.Now())

	if !g.Visible || g.RateDLMbps <= 0 {
		return
	}

	bitsPerPkt := 8 * (p.cfg.PayloadBytes + p.cfg.HeaderBytes)
	n := int(math.Floor(g.RateDLMbps * 1e6 * p.cfg.TickS / float64(bitsPerPkt)))
	if n > p.cfg.MaxPktsPerStep {
		n = p.cfg.MaxPktsPerStep
	}
	if n <= 0 {
		return
	}

	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return
		default:
		}
		p.emitOne(g)
	}
}

func (p *Producer) emitOne(g orbit.GeometryState) {
	pkt := transport.Packet{
		Kind:       transport.TM,
		Seq:        p.seq,
		TS:         g.TS,
		ElevDeg:    g.ElevDeg,
		DopplerHz:  g.DopplerHz,
		Payload:    buildPayload(p.seq, p.cfg.PayloadBytes),
		PayloadLen: p.cfg.PayloadBytes,
	}
	p.seq++ // wraps naturally at 2^32 via uint32 overflow

	verdict := p.channel.Propagate(pkt, g.ElevDeg, p.mask, rfchannel.Downlink)
	if verdict.Dropped {
		if p.metrics != nil {
			p.metrics.PacketsTotal.WithLabelValues("downlink", "dropped").Inc()
		}
		return // losses are silent (spec section 4.4 step 5)
	}

	wire, err := transport.EncodeTM(verdict.Packet, g.Visible)
	if err != nil {
		p.log.WithError(err).Warn("producer: encode TM failed")
		return
	}
	if _, err := p.conn.Write(wire); err != nil {
		p.log.WithError(err).Debug("producer: UDP send failed")
		return
	}

	if p.metrics != nil {
		outcome := "sent"
		if verdict.Packet.Corrupted {
			outcome = "corrupted"
		}
		p.metrics.PacketsTotal.WithLabelValues("downlink", outcome).Inc()
	}
}
