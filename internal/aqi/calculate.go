package aqi

// Compute maps converted per-pollutant concentrations to their EPA sub-indices
// and reduces them to an overall AQI. Each pollutant is evaluated
// independently; the overall index is the maximum defined sub-index, or nil if
// every sub-index is undefined. Compute is pure and performs no I/O.
func Compute(values map[Pollutant]*float64) Result {
	sub := make(map[Pollutant]*int, len(IndexedPollutants))
	for _, p := range IndexedPollutants {
		sub[p] = SubIndex(p, values[p])
	}

	return Result{
		SubIndices: sub,
		Overall:    OverallAQI(sub),
	}
}

// OverallAQI returns the maximum defined sub-index, or nil if all sub-indices
// are undefined.
func OverallAQI(subIndices map[Pollutant]*int) *int {
	var max *int
	for _, idx := range subIndices {
		if idx == nil {
			continue
		}
		if max == nil || *idx > *max {
			v := *idx
			max = &v
		}
	}
	return max
}
