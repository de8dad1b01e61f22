package analytics

// hourBucket is one fixed local-hour window for peak-performance
// bucketing. The enumeration order is the tie-break order.
type hourBucket struct {
	label string
	from  int // inclusive local hour
	to    int // exclusive local hour
}

// hourBuckets partitions the day into six windows. Hours before 6am
// fall through to the night bucket, matching the catch-all branch of
// the original grouping.
var hourBuckets = []hourBucket{
	{"Morning (6-9am)", 6, 9},
	{"Late Morning (9-12pm)", 9, 12},
	{"Afternoon (12-3pm)", 12, 15},
	{"Late Afternoon (3-6pm)", 15, 18},
	{"Evening (6-9pm)", 18, 21},
	{"Night (9pm-12am)", 21, 24},
}

// hourBucketIndex returns the bucket index for a local hour.
func hourBucketIndex(hour int) int {
	for i, b := range hourBuckets {
		if hour >= b.from && hour < b.to {
			return i
		}
	}
	return len(hourBuckets) - 1
}

// durationBucket is one fixed planned-duration range for sweet-spot
// bucketing.
type durationBucket struct {
	label string
	maxMn int // exclusive upper bound in minutes; 0 means unbounded
}

var durationBuckets = []durationBucket{
	{"5-15 min", 15},
	{"15-25 min", 25},
	{"25-35 min", 35},
	{"35-45 min", 45},
	{"45-60 min", 60},
	{"60+ min", 0},
}

// durationBucketIndex returns the bucket index for a planned duration
// in minutes.
func durationBucketIndex(minutes int) int {
	for i, b := range durationBuckets {
		if b.maxMn > 0 && minutes < b.maxMn {
			return i
		}
	}
	return len(durationBuckets) - 1
}
