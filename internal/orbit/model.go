// Package orbit computes the time-varying geometry between a single
// ground station and a single spacecraft: elevation, Doppler shift,
// visibility, and the link's permitted bit rates. It is a pure function
// of wall-clock time and Config; the only mutable state is the propagator
// back-end's internal pass cache, guarded by its own mutex, and nothing
// here sleeps.
package orbit

import "time"

// GeometryState is an immutable snapshot of link geometry at a single
// instant. Consumers never mutate it; a new one is computed on demand.
type GeometryState struct {
	TS          float64 // wall-clock seconds since epoch
	ElevDeg     float64 // elevation angle, degrees, in [-90, 90]
	DopplerHz   float64 // signed Doppler shift at the carrier frequency
	Visible     bool    // strictly ElevDeg > ElevMaskDeg
	RateDLMbps  float64 // permitted downlink rate; 0 when not visible
	RateULMbps  float64 // permitted uplink rate; 0 when not visible
}

// Model maps wall-clock time to GeometryState. Implementations are safe
// for concurrent use by multiple producers/consumers; the propagator
// back-end serialises access to its pass cache with a mutex.
type Model interface {
	// GetState returns the geometry at now. A zero now means time.Now().
	GetState(now time.Time) GeometryState
}

// Config holds everything needed to construct a Model: ground station
// position, link parameters, and either a real TLE propagator spec or
// fallback sinusoidal parameters. Config is immutable after New.
type Config struct {
	// Ground station.
	GSLatDeg float64
	GSLonDeg float64
	GSAltM   float64

	// Elevation mask: below this angle the link is treated as unusable.
	ElevMaskDeg float64

	// Carrier frequency, for Doppler computation.
	CarrierHz float64

	// Link budget at zenith.
	DLMaxRateMbps float64
	ULMaxRateMbps float64
	RateAlpha     float64

	// Propagator back-end selection. If ElementsLine1/2 are both set,
	// New attempts to build a Propagator; on any failure it silently
	// degrades to the Fallback back-end (spec section 4.1).
	ElementsName  string
	ElementsLine1 string
	ElementsLine2 string

	// Fallback back-end parameters, used when no propagator is given or
	// construction of one fails.
	FallbackPeriodS    float64 // orbital period, seconds (default 5400)
	FallbackPassFrac   float64 // fraction of the period treated as a pass (default 1.0)
	FallbackMaxRangeMS float64 // assumed peak closing range-rate, m/s, for the Doppler proxy
}

// WithDefaults returns a copy of cfg with zero-valued fields replaced by
// the documented defaults.
func (c Config) WithDefaults() Config {
	if c.ElevMaskDeg == 0 {
		c.ElevMaskDeg = 10
	}
	if c.RateAlpha == 0 {
		c.RateAlpha = 1.5
	}
	if c.FallbackPeriodS == 0 {
		c.FallbackPeriodS = 5400
	}
	if c.FallbackPassFrac == 0 {
		c.FallbackPassFrac = 1.0
	}
	if c.FallbackMaxRangeMS == 0 {
		c.FallbackMaxRangeMS = 7500
	}
	return c
}

// New selects a back-end per the rules in spec section 4.1: attempt the
// TLE propagator when elements are configured, otherwise (or on failure)
// fall back to the sinusoidal proxy model. Construction never fails —
// degradation to the fallback is silent, matching the "orbit back-end
// unavailable" error taxonomy entry.
func New(cfg Config) Model {
	cfg = cfg.WithDefaults()

	if cfg.ElementsLine1 != "" && cfg.ElementsLine2 != "" {
		if p, err := newPropagator(cfg); err == nil {
			return p
		}
	}
	return newFallback(cfg)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
