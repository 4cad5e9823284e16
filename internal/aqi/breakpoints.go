package aqi

import "math"

// Breakpoint is one piecewise-linear calibration segment mapping a
// concentration range to an index range. Ranges per pollutant are contiguous,
// non-overlapping, and scanned in ascending order.
type Breakpoint struct {
	CLow  float64
	CHigh float64
	ILow  int
	IHigh int
}

// EPA breakpoint tables. PM2.5 and PM10 are in µg/m³; O3, NO2 and SO2 are in
// ppb, so their concentrations must be converted before lookup.
var breakpoints = map[Pollutant][]Breakpoint{
	PollutantPM25: {
		{CLow: 0.0, CHigh: 12.0, ILow: 0, IHigh: 50},
		{CLow: 12.1, CHigh: 35.4, ILow: 51, IHigh: 100},
		{CLow: 35.5, CHigh: 55.4, ILow: 101, IHigh: 150},
		{CLow: 55.5, CHigh: 150.4, ILow: 151, IHigh: 200},
		{CLow: 150.5, CHigh: 250.4, ILow: 201, IHigh: 300},
		{CLow: 250.5, CHigh: 350.4, ILow: 301, IHigh: 400},
		{CLow: 350.5, CHigh: 500.4, ILow: 401, IHigh: 500},
	},
	PollutantPM10: {
		{CLow: 0, CHigh: 54, ILow: 0, IHigh: 50},
		{CLow: 55, CHigh: 154, ILow: 51, IHigh: 100},
		{CLow: 155, CHigh: 254, ILow: 101, IHigh: 150},
		{CLow: 255, CHigh: 354, ILow: 151, IHigh: 200},
		{CLow: 355, CHigh: 424, ILow: 201, IHigh: 300},
		{CLow: 425, CHigh: 504, ILow: 301, IHigh: 400},
		{CLow: 505, CHigh: 604, ILow: 401, IHigh: 500},
	},
	PollutantO3: {
		{CLow: 0, CHigh: 54, ILow: 0, IHigh: 50},
		{CLow: 55, CHigh: 70, ILow: 51, IHigh: 100},
		{CLow: 71, CHigh: 85, ILow: 101, IHigh: 150},
		{CLow: 86, CHigh: 105, ILow: 151, IHigh: 200},
		{CLow: 106, CHigh: 200, ILow: 201, IHigh: 300},
	},
	PollutantNO2: {
		{CLow: 0, CHigh: 53, ILow: 0, IHigh: 50},
		{CLow: 54, CHigh: 100, ILow: 51, IHigh: 100},
		{CLow: 101, CHigh: 360, ILow: 101, IHigh: 150},
		{CLow: 361, CHigh: 649, ILow: 151, IHigh: 200},
		{CLow: 650, CHigh: 1249, ILow: 201, IHigh: 300},
	},
	PollutantSO2: {
		{CLow: 0, CHigh: 35, ILow: 0, IHigh: 50},
		{CLow: 36, CHigh: 75, ILow: 51, IHigh: 100},
		{CLow: 76, CHigh: 185, ILow: 101, IHigh: 150},
		{CLow: 186, CHigh: 304, ILow: 151, IHigh: 200},
		{CLow: 305, CHigh: 604, ILow: 201, IHigh: 300},
	},
}

// Breakpoints returns a copy of the breakpoint table for a pollutant, or nil
// if the pollutant has no defined breakpoints.
func Breakpoints(p Pollutant) []Breakpoint {
	bps, ok := breakpoints[p]
	if !ok {
		return nil
	}
	out := make([]Breakpoint, len(bps))
	copy(out, bps)
	return out
}

// SubIndex maps a converted concentration to the EPA sub-index for the given
// pollutant via linear interpolation within the first matching range
// (inclusive on both ends). It returns nil for a missing or NaN concentration,
// for a pollutant without breakpoints, or for a concentration outside every
// range.
func SubIndex(p Pollutant, c *float64) *int {
	if c == nil || math.IsNaN(*c) {
		return nil
	}

	for _, bp := range breakpoints[p] {
		if *c >= bp.CLow && *c <= bp.CHigh {
			idx := int(math.Round(
				float64(bp.IHigh-bp.ILow)/(bp.CHigh-bp.CLow)*(*c-bp.CLow) + float64(bp.ILow),
			))
			return &idx
		}
	}
	return nil
}
