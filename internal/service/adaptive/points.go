package adaptive

// PointsFor returns the signed point delta for one answer.
//
//	correct: fast +2, medium +1, slow 0
//	wrong:   fast  0, medium -1, slow -2
//
// A fast wrong answer is read as carelessness and costs nothing.
func PointsFor(correct bool, speed SpeedClass) int {
	if correct {
		switch speed {
		case SpeedFast:
			return 2
		case SpeedMedium:
			return 1
		default:
			return 0
		}
	}
	switch speed {
	case SpeedFast:
		return 0
	case SpeedMedium:
		return -1
	default:
		return -2
	}
}
