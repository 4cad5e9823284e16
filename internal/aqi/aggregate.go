package aqi

import "sort"

// dailyBucket accumulates pollutant sums for one calendar day. All pollutants
// share a single sample count: an hour contributes to the count when any of
// its values is numeric, so every pollutant average that day divides by the
// number of hours that had data at all, not the hours that had data for that
// specific pollutant.
type dailyBucket struct {
	sums  map[Pollutant]float64
	count int
}

// AggregateDaily buckets hourly samples by UTC calendar day and averages the
// numeric readings per pollutant. Hours where every value is missing do not
// contribute; days with no contributing hours are dropped. The result is
// ordered ascending by date.
func AggregateDaily(samples []HourlySample) []DailyAverage {
	buckets := make(map[string]*dailyBucket)

	for _, s := range samples {
		dateKey := s.Time.UTC().Format("2006-01-02")

		b, ok := buckets[dateKey]
		if !ok {
			b = &dailyBucket{sums: make(map[Pollutant]float64)}
			buckets[dateKey] = b
		}

		valid := false
		for _, v := range s.Values {
			if v != nil {
				valid = true
				break
			}
		}
		if !valid {
			continue
		}

		b.count++
		for p, v := range s.Values {
			if v != nil {
				b.sums[p] += *v
			}
		}
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)

	averages := make([]DailyAverage, 0, len(dates))
	for _, date := range dates {
		b := buckets[date]
		if b.count == 0 {
			continue
		}

		values := make(map[Pollutant]float64, len(b.sums))
		for p, sum := range b.sums {
			values[p] = sum / float64(b.count)
		}
		averages = append(averages, DailyAverage{
			Date:   date,
			Values: values,
			Hours:  b.count,
		})
	}

	return averages
}
