package aqi

import "math"

// MolarVolume is the ideal-gas molar volume in L/mol at the EPA reference
// conditions (25°C, 1 atm).
const MolarVolume = 24.45

// Molar weights in g/mol for the gaseous pollutants whose breakpoints are
// defined in ppb.
var molarWeights = map[Pollutant]float64{
	PollutantO3:  48,
	PollutantNO2: 46,
	PollutantSO2: 64,
	PollutantCO:  28,
}

// UgM3ToPpb converts a mass concentration in µg/m³ to parts per billion.
// A zero or NaN concentration yields nil: a reading of exactly zero is
// indistinguishable from "no data" upstream, and treating it as clean air
// would poison the overall index.
func UgM3ToPpb(ugm3, molarWeight float64) *float64 {
	if ugm3 == 0 || math.IsNaN(ugm3) {
		return nil
	}
	ppb := ugm3 * MolarVolume / molarWeight
	return &ppb
}

// ConvertDaily converts a day's mean concentrations into the units the
// breakpoint tables expect: O3, NO2 and SO2 from µg/m³ to ppb, CO from mg/m³
// through µg/m³ to ppb, and PM2.5/PM10 passed through unchanged.
func ConvertDaily(avg DailyAverage) map[Pollutant]*float64 {
	pm25 := avg.Values[PollutantPM25]
	pm10 := avg.Values[PollutantPM10]

	return map[Pollutant]*float64{
		PollutantPM25: &pm25,
		PollutantPM10: &pm10,
		PollutantO3:   UgM3ToPpb(avg.Values[PollutantO3], molarWeights[PollutantO3]),
		PollutantNO2:  UgM3ToPpb(avg.Values[PollutantNO2], molarWeights[PollutantNO2]),
		PollutantSO2:  UgM3ToPpb(avg.Values[PollutantSO2], molarWeights[PollutantSO2]),

		// CO arrives in mg/m³ and scales to µg/m³ before the ppb conversion.
		PollutantCO: UgM3ToPpb(avg.Values[PollutantCO]*1000, molarWeights[PollutantCO]),
	}
}
