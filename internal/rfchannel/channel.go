// Package rfchannel implements the stochastic per-packet RF transport
// model: fixed propagation delay, link-quality-dependent loss, bit
// error, duplicate marking, and a burst-fade state machine (spec
// section 4.3).
package rfchannel

import (
	"math"
	"math/rand"
	"sync"
	"time"

	"github.com/groundstation/satsim/internal/transport"
)

// Direction distinguishes downlink (SAT→BBU) from uplink (BBU→SAT)
// traffic; uplink loss and bit-error probabilities carry a fixed
// multiplier relative to downlink (spec section 4.3, steps 5-6).
type Direction int

const (
	Downlink Direction = iota
	Uplink
)

// Config holds the channel's tunable parameters. Zero values are
// replaced with the documented defaults by WithDefaults.
type Config struct {
	PropDelayS  float64
	BaseLoss    float64
	BaseBER     float64
	BaseDup     float64
	BurstStart  float64
	FadeLenPkts int
}

// WithDefaults returns cfg with zero fields replaced by spec defaults.
func (c Config) WithDefaults() Config {
	if c.PropDelayS == 0 {
		c.PropDelayS = 0.25
	}
	if c.BaseLoss == 0 {
		c.BaseLoss = 0.08
	}
	if c.BaseBER == 0 {
		c.BaseBER = 0.02
	}
	if c.BaseDup == 0 {
		c.BaseDup = 0.002
	}
	if c.BurstStart == 0 {
		c.BurstStart = 0.0015
	}
	if c.FadeLenPkts == 0 {
		c.FadeLenPkts = 25
	}
	return c
}

// state is the fade state machine owned exclusively by Channel: {Clear,
// Fading(n)}. The invariant inFade ⇔ fadeRemaining > 0 holds at every
// observation point (spec section 3/8).
type state struct {
	inFade         bool
	fadeRemaining  int
}

// Channel is one shared RF transport instance. A single instance may be
// used for both directions (the spec's default) or sharded by direction
// if contention matters; either way all of steps 2-7 for a single call
// run atomically under mu, and the blocking propagation delay (step 1)
// is applied outside the lock so it never serializes unrelated state
// transitions on other channel instances.
type Channel struct {
	cfg Config

	mu    sync.Mutex
	state state
	rng   *rand.Rand
}

// New constructs a Channel with cfg exactly as given — a zero field stays
// zero, so an all-zero probability set makes Propagate the identity — and
// an independent random source seeded from the current time.
func New(cfg Config) *Channel {
	return &Channel{
		cfg: cfg,
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Verdict describes the outcome of a single Propagate call.
type Verdict struct {
	Packet  transport.Packet
	Dropped bool
}

// Propagate runs one packet through the channel pipeline. It blocks for
// the fixed propagation delay, then atomically applies the fade/loss/
// bit-error/duplicate steps described in spec section 4.3. elevDeg and
// mask determine the link quality q used by every probability below.
func (c *Channel) Propagate(pkt transport.Packet, elevDeg, maskDeg float64, dir Direction) Verdict {
	time.Sleep(time.Duration(c.cfg.PropDelayS * float64(time.Second)))

	out := pkt.Clone()

	c.mu.Lock()
	defer c.mu.Unlock()

	q := linkQuality(elevDeg, maskDeg)

	// Step 3: active fade takes precedence over everything else.
	if c.state.inFade {
		c.state.fadeRemaining--
		if c.state.fadeRemaining <= 0 {
			c.state.inFade = false
			c.state.fadeRemaining = 0
		}
		return Verdict{Packet: out, Dropped: true}
	}

	// Step 4: fade ignition.
	pIgnite := c.cfg.BurstStart * (1 + 3*(1-q))
	if c.rng.Float64() < pIgnite {
		c.state.inFade = true
		c.state.fadeRemaining = c.cfg.FadeLenPkts - 1
		if c.state.fadeRemaining <= 0 {
			c.state.inFade = false
			c.state.fadeRemaining = 0
		}
		return Verdict{Packet: out, Dropped: true}
	}

	// Step 5: loss.
	pLoss := c.cfg.BaseLoss * math.Pow(1-q, 1.6)
	if dir == Uplink {
		pLoss *= 1.15
	}
	if c.rng.Float64() < pLoss {
		return Verdict{Packet: out, Dropped: true}
	}

	// Step 6: bit error.
	pBER := c.cfg.BaseBER * math.Pow(1-q, 2)
	if dir == Uplink {
		pBER *= 1.10
	}
	if c.rng.Float64() < pBER {
		out.Corrupted = true
		out.RFNote = "bit_error"
	}

	// Step 7: duplicate marker (informational only — no second copy).
	pDup := c.cfg.BaseDup * (2 - q)
	if c.rng.Float64() < pDup {
		out.Duplicated = true
	}

	return Verdict{Packet: out, Dropped: false}
}

// State returns a snapshot of the fade state machine for status
// reporting. It takes the same lock as Propagate, so the snapshot is
// consistent but may be stale by the time the caller reads it.
func (c *Channel) State() (inFade bool, fadeRemaining int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.inFade, c.state.fadeRemaining
}

// linkQuality implements step 2 of spec section 4.3: q is 0 outside the
// visibility window and rises linearly from 0 at the mask to 1 at zenith.
func linkQuality(elevDeg, maskDeg float64) float64 {
	if elevDeg <= maskDeg {
		return 0
	}
	q := (elevDeg - maskDeg) / (90 - maskDeg)
	if q < 0 {
		return 0
	}
	if q > 1 {
		return 1
	}
	return q
}
