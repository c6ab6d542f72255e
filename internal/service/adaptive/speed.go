package adaptive

// SpeedClass describes how fast an answer was relative to the question's expected time.
type SpeedClass string

const (
	SpeedFast   SpeedClass = "fast"
	SpeedMedium SpeedClass = "medium"
	SpeedSlow   SpeedClass = "slow"
)

// Speed thresholds in percent of the question's median time.
// Both bounds are inclusive of medium.
const (
	FastRatioBelow = 70.0
	SlowRatioAbove = 110.0
)

// TimeRatio returns timeTaken as a percentage of median.
// ok is false when median is not positive and the ratio is undefined.
func TimeRatio(timeTakenSeconds, medianTimeSeconds float64) (ratio float64, ok bool) {
	if medianTimeSeconds <= 0 {
		return 0, false
	}
	return timeTakenSeconds / medianTimeSeconds * 100, true
}

// ClassifySpeed maps a response time to fast, medium or slow.
// A non-positive median is treated as an unbounded ratio and classifies as slow.
func ClassifySpeed(timeTakenSeconds, medianTimeSeconds float64) SpeedClass {
	ratio, ok := TimeRatio(timeTakenSeconds, medianTimeSeconds)
	if !ok {
		return SpeedSlow
	}
	switch {
	case ratio < FastRatioBelow:
		return SpeedFast
	case ratio <= SlowRatioAbove:
		return SpeedMedium
	default:
		return SpeedSlow
	}
}
