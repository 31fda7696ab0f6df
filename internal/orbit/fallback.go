package orbit

import (
	"math"
	"time"
)

// fallbackModel is the sinusoidal proxy back-end used when no TLE
// propagator is configured or the propagator fails to construct. It
// produces a plausible elevation/Doppler curve from nothing but an
// assumed orbital period, so the simulation can run without real orbital
// elements.
type fallbackModel struct {
	cfg   Config
	dMax  float64 // peak Doppler shift, Hz
}

func newFallback(cfg Config) *fallbackModel {
	const c = 299792458.0 // speed of light, m/s
	return &fallbackModel{
		cfg:  cfg,
		dMax: cfg.CarrierHz * cfg.FallbackMaxRangeMS / c,
	}
}

// GetState implements Model. Phase advances linearly through
// FallbackPeriodS; elevation rises and falls like a half sine wave over
// the pass fraction of the period and is pinned below the horizon the
// rest of the time. Doppler is a full sine cycle over the whole period,
// matching spec section 4.1's fallback formulas.
func (f *fallbackModel) GetState(now time.Time) GeometryState {
	if now.IsZero() {
		now = time.Now()
	}
	ts := float64(now.UnixNano()) / 1e9

	period := f.cfg.FallbackPeriodS
	phase := math.Mod(ts, period) / period
	if phase < 0 {
		phase += 1
	}

	elev := -90.0
	passFrac := f.cfg.FallbackPassFrac
	if passFrac > 0 {
		passPhase := phase / passFrac
		if passPhase <= 1 {
			elev = 90.0 * math.Max(0, math.Sin(math.Pi*passPhase))
		}
	}

	doppler := f.dMax * math.Sin(2*math.Pi*phase)

	visible := elev > f.cfg.ElevMaskDeg
	rateDL, rateUL := 0.0, 0.0
	if visible {
		rateDL = dataRate(elev, f.cfg.DLMaxRateMbps, f.cfg.RateAlpha, f.cfg.ElevMaskDeg)
		rateUL = dataRate(elev, f.cfg.ULMaxRateMbps, f.cfg.RateAlpha, f.cfg.ElevMaskDeg)
	}

	return GeometryState{
		TS:         ts,
		ElevDeg:    elev,
		DopplerHz:  doppler,
		Visible:    visible,
		RateDLMbps: rateDL,
		RateULMbps: rateUL,
	}
}
