package orbit

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/akhenakh/sgp4"
)

const speedOfLight = 299792458.0 // m/s

// assumedAltitudeKm stands in for the satellite's true instantaneous
// altitude, which GeneratePasses never exposes — only AOS/LOS/max-
// elevation geometry for a pass. A flat LEO altitude keeps the slant
// range (and therefore Doppler) derivation self-consistent without
// requiring a continuous state vector from the propagator.
const assumedAltitudeKm = 500.0

// passWindow is the subset of a GeneratePasses result this package
// needs, copied out of the library's own pass type so the cache below
// doesn't have to name it.
type passWindow struct {
	aos, los    time.Time
	maxElevTime time.Time
	maxElevDeg  float64
}

// propagatorModel is the real orbital-mechanics back-end. The only
// geometry primitive github.com/akhenakh/sgp4 exposes is
// TLE.GeneratePasses, which returns discrete AOS/LOS/max-elevation
// records for a time window rather than a continuous state vector,
// so elevation at an arbitrary instant is reconstructed by
// interpolating within whichever cached pass contains it (see
// elevationAt). The pass cache is refreshed whenever GetState is asked
// about a time outside the previously searched window.
type propagatorModel struct {
	cfg Config
	tle *sgp4.TLE

	mu         sync.Mutex
	windowFrom time.Time
	windowTo   time.Time
	passes     []passWindow
}

func newPropagator(cfg Config) (*propagatorModel, error) {
	raw := cfg.ElementsName + "\n" + cfg.ElementsLine1 + "\n" + cfg.ElementsLine2
	tle, err := sgp4.ParseTLE(raw)
	if err != nil {
		return nil, fmt.Errorf("parse TLE: %w", err)
	}
	return &propagatorModel{cfg: cfg, tle: tle}, nil
}

// passSearchWindow bounds each GeneratePasses call. Wide enough to
// survive several consecutive GetState calls without refetching, narrow
// enough that a single search doesn't re-walk half a day of 5-second
// steps.
const passSearchWindow = 3 * time.Hour
const passSearchStepS = 5

// refreshPasses repopulates the pass cache if now falls outside the
// window last searched. Must be called with mu held.
func (p *propagatorModel) refreshPasses(now time.Time) {
	if !now.Before(p.windowFrom) && now.Before(p.windowTo) {
		return
	}

	from := now.Add(-passSearchWindow)
	to := now.Add(passSearchWindow)
	p.windowFrom, p.windowTo = from, to

	raw, err := p.tle.GeneratePasses(p.cfg.GSLatDeg, p.cfg.GSLonDeg, p.cfg.GSAltM, from, to, passSearchStepS)
	if err != nil {
		// A search failure (e.g. decayed orbit) degrades to "no passes
		// found" rather than panicking — the OVL engine never surfaces
		// back-end errors to callers (spec section 4.1 / 7).
		p.passes = nil
		return
	}

	passes := make([]passWindow, 0, len(raw))
	for _, rp := range raw {
		passes = append(passes, passWindow{
			aos:         rp.AOS,
			los:         rp.LOS,
			maxElevTime: rp.MaxElevationTime,
			maxElevDeg:  rp.MaxElevation,
		})
	}
	p.passes = passes
}

// elevationAt returns the interpolated elevation angle at now, or a
// fixed below-horizon value when now falls in none of the cached passes.
func (p *propagatorModel) elevationAt(now time.Time) float64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.refreshPasses(now)
	for _, pw := range p.passes {
		if !now.Before(pw.aos) && !now.After(pw.los) {
			return interpolateElevation(pw, now)
		}
	}
	return -10
}

// interpolateElevation reconstructs an elevation curve within a single
// pass from just its three known points (AOS, max-elevation instant,
// LOS): a quarter-sine rise from 0 at AOS to the pass max, then a
// quarter-sine fall back to 0 at LOS. This is the simplest curve that
// is continuous, peaks exactly at MaxElevationTime, and matches the
// only data GeneratePasses actually reports.
func interpolateElevation(pw passWindow, now time.Time) float64 {
	if !now.Before(pw.maxElevTime) {
		fromMaxToLos := pw.los.Sub(pw.maxElevTime).Seconds()
		if fromMaxToLos <= 0 {
			return pw.maxElevDeg
		}
		frac := pw.los.Sub(now).Seconds() / fromMaxToLos
		return pw.maxElevDeg * math.Sin(clamp(frac, 0, 1)*math.Pi/2)
	}

	toMax := pw.maxElevTime.Sub(pw.aos).Seconds()
	if toMax <= 0 {
		return pw.maxElevDeg
	}
	frac := now.Sub(pw.aos).Seconds() / toMax
	return pw.maxElevDeg * math.Sin(clamp(frac, 0, 1)*math.Pi/2)
}

// slantRangeKm converts an elevation angle to ground-station-to-
// satellite range under a flat-altitude assumption, the standard
// satellite-tracking relation (e.g. Davidoff, The Radio Amateur's
// Satellite Handbook).
func slantRangeKm(elevDeg float64) float64 {
	elevRad := elevDeg * math.Pi / 180
	re := earthRadiusKm
	h := assumedAltitudeKm
	return math.Sqrt(re*re*math.Sin(elevRad)*math.Sin(elevRad)+2*re*h+h*h) - re*math.Sin(elevRad)
}

// GetState implements Model. It interpolates elevation from the pass
// cache at now and a short interval later, then derives Doppler from
// the finite-difference range-rate of the resulting slant range.
func (p *propagatorModel) GetState(now time.Time) GeometryState {
	if now.IsZero() {
		now = time.Now()
	}

	elevDeg := p.elevationAt(now)

	const dt = 1.0 // second
	elevDeg2 := p.elevationAt(now.Add(time.Duration(dt) * time.Second))

	rangeKm := slantRangeKm(elevDeg)
	rangeKm2 := slantRangeKm(elevDeg2)
	rangeRateKmS := (rangeKm2 - rangeKm) / dt

	// Positive range-rate means increasing range (receding), per spec
	// section 4.1. Data model (section 3) wants Doppler positive when
	// closing, so the sign is inverted here; this is the monotonic,
	// zero-crossing-at-closest-approach convention the spec permits
	// implementations to choose and document (see DESIGN.md).
	dopplerHz := -(rangeRateKmS * 1000 / speedOfLight) * p.cfg.CarrierHz

	visible := elevDeg > p.cfg.ElevMaskDeg
	rateDL, rateUL := 0.0, 0.0
	if visible {
		rateDL = dataRate(elevDeg, p.cfg.DLMaxRateMbps, p.cfg.RateAlpha, p.cfg.ElevMaskDeg)
		rateUL = dataRate(elevDeg, p.cfg.ULMaxRateMbps, p.cfg.RateAlpha, p.cfg.ElevMaskDeg)
	}

	return GeometryState{
		TS:         float64(now.UnixNano()) / 1e9,
		ElevDeg:    elevDeg,
		DopplerHz:  dopplerHz,
		Visible:    visible,
		RateDLMbps: rateDL,
		RateULMbps: rateUL,
	}
}

const earthRadiusKm = 6378.137
