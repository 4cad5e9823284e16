// Package alert evaluates provider-scale AQI readings against per-user state
// and runs the scheduled alert passes.
//
// The index classified here is the provider's native ordinal 1-5 category.
// The EPA-scale index computed for the historical pipeline lives on a 0-500
// range and must never be fed to this classifier.
package alert

// Category names for the provider's 1-5 index.
const (
	CategoryGood     = "Good"
	CategoryFair     = "Fair"
	CategoryModerate = "Moderate"
	CategoryPoor     = "Poor"
	CategoryVeryPoor = "Very Poor"
	CategoryUnknown  = "Unknown"
)

// preventiveMeasures holds the advisory lists keyed by index level. Level 0
// is the fallback for unknown or missing readings.
var preventiveMeasures = map[int][]string{
	0: {
		"Be aware of your body's signals. Symptoms like coughing, burning eyes, or difficulty breathing are strong indicators that the air quality is poor.",
		"Consider wearing a mask if you experience any discomfort while outdoors.",
		"Stay hydrated and eat healthy.",
		"Avoid high-traffic areas.",
	},
	1: {
		"Enjoy outdoor activities freely.",
		"Keep indoor spaces naturally ventilated.",
		"A great day for exercise and sports.",
	},
	2: {
		"Sensitive groups should monitor symptoms.",
		"Light outdoor exercise is okay.",
		"Keep windows open for fresh air.",
	},
	3: {
		"Limit extended outdoor activities.",
		"Use masks if you feel discomfort.",
		"Reduce exposure for children and elderly.",
	},
	4: {
		"Avoid outdoor exercise as much as possible.",
		"Use N95 masks when stepping outside.",
		"Keep windows closed to reduce indoor pollution.",
		"Use air purifiers if available.",
	},
	5: {
		"Stay indoors unless absolutely necessary.",
		"Use N95/KN95 masks outdoors.",
		"Keep all windows closed and seal openings.",
		"Avoid driving during peak smog hours.",
		"People with breathing issues should avoid going out completely.",
	},
}

// Classify maps a provider-scale index to its category name. Nil or
// out-of-range values classify as Unknown.
func Classify(aqi *int) string {
	if aqi == nil {
		return CategoryUnknown
	}
	switch *aqi {
	case 1:
		return CategoryGood
	case 2:
		return CategoryFair
	case 3:
		return CategoryModerate
	case 4:
		return CategoryPoor
	case 5:
		return CategoryVeryPoor
	default:
		return CategoryUnknown
	}
}

// PreventiveMeasures returns the advisory list for a provider-scale index.
// Nil or unknown levels fall back to the level-0 list.
func PreventiveMeasures(aqi *int) []string {
	level := 0
	if aqi != nil {
		if _, ok := preventiveMeasures[*aqi]; ok {
			level = *aqi
		}
	}
	tips := preventiveMeasures[level]
	out := make([]string, len(tips))
	copy(out, tips)
	return out
}

// SignificantChange reports whether the stored and current readings differ.
// Any change triggers an alert, not a magnitude threshold; a reading
// appearing or disappearing counts as a change.
func SignificantChange(prev, cur *int) bool {
	if prev == nil && cur == nil {
		return false
	}
	if prev == nil || cur == nil {
		return true
	}
	return *prev != *cur
}
