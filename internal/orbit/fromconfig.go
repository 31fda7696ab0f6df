package orbit

import "github.com/groundstation/satsim/internal/config"

// FromConfig builds an orbit.Config from the TOML-sourced OrbitConfig
// plus a resolved ground station position (lat/lon/alt) and elevation
// mask, which may come from static config or a gpsd fix (spec section
// 4.1's ResolveLocation step).
func FromConfig(oc config.OrbitConfig, lat, lon, alt, maskDeg float64) Config {
	return Config{
		GSLatDeg:           lat,
		GSLonDeg:           lon,
		GSAltM:             alt,
		ElevMaskDeg:        maskDeg,
		CarrierHz:          oc.CarrierHz,
		DLMaxRateMbps:      oc.DLMaxRateMbps,
		ULMaxRateMbps:      oc.ULMaxRateMbps,
		RateAlpha:          oc.RateAlpha,
		ElementsName:       oc.ElementsName,
		ElementsLine1:      oc.ElementsLine1,
		ElementsLine2:      oc.ElementsLine2,
		FallbackPeriodS:    oc.FallbackPeriodS,
		FallbackPassFrac:   oc.FallbackPassFrac,
		FallbackMaxRangeMS: oc.FallbackMaxRangeMS,
	}
}
