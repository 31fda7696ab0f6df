package orbit

import (
	"math"
	"testing"
	"time"
)

func TestInterpolateElevationPeaksAtMax(t *testing.T) {
	aos := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	maxT := aos.Add(2 * time.Minute)
	los := aos.Add(4 * time.Minute)
	pw := passWindow{aos: aos, los: los, maxElevTime: maxT, maxElevDeg: 60}

	if got := interpolateElevation(pw, aos); math.Abs(got) > 1e-9 {
		t.Fatalf("elevation at AOS = %v, want ~0", got)
	}
	if got := interpolateElevation(pw, los); math.Abs(got) > 1e-9 {
		t.Fatalf("elevation at LOS = %v, want ~0", got)
	}
	if got := interpolateElevation(pw, maxT); math.Abs(got-60) > 1e-9 {
		t.Fatalf("elevation at max = %v, want 60", got)
	}

	mid := aos.Add(1 * time.Minute)
	if got := interpolateElevation(pw, mid); got <= 0 || got >= 60 {
		t.Fatalf("elevation mid-rise = %v, want strictly between 0 and 60", got)
	}
}

func TestSlantRangeKmIncreasesAsElevationDrops(t *testing.T) {
	zenith := slantRangeKm(90)
	horizon := slantRangeKm(0)
	if zenith >= horizon {
		t.Fatalf("slantRangeKm(90)=%v should be less than slantRangeKm(0)=%v", zenith, horizon)
	}
	if zenith <= 0 {
		t.Fatalf("slantRangeKm(90) = %v, want > 0", zenith)
	}
}

func TestElevationAtOutsideAnyPassIsBelowHorizon(t *testing.T) {
	p := &propagatorModel{cfg: Config{ElevMaskDeg: 10}}
	p.windowFrom = time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	p.windowTo = p.windowFrom.Add(time.Hour)
	p.passes = nil

	got := p.elevationAt(p.windowFrom.Add(10 * time.Minute))
	if got > 0 {
		t.Fatalf("elevationAt with no cached passes = %v, want <= 0", got)
	}
}
