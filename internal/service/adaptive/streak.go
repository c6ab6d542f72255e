package adaptive

// Window is a chronologically ordered slice of answers, newest last.
type Window []AnswerRecord

// Last returns the most recent answer. ok is false for an empty window.
func (w Window) Last() (AnswerRecord, bool) {
	if len(w) == 0 {
		return AnswerRecord{}, false
	}
	return w[len(w)-1], true
}

// Tail returns at most n most recent answers.
func (w Window) Tail(n int) Window {
	if n < 0 || len(w) <= n {
		return w
	}
	return w[len(w)-n:]
}

// ConsecutiveCorrect counts trailing correct answers.
func (w Window) ConsecutiveCorrect() int {
	return w.countTrailing(func(r AnswerRecord) bool { return r.Correct })
}

// ConsecutiveWrong counts trailing wrong answers.
func (w Window) ConsecutiveWrong() int {
	return w.countTrailing(func(r AnswerRecord) bool { return !r.Correct })
}

// ConsecutiveCorrectAtSpeed counts trailing answers that are correct and
// classified as speed.
func (w Window) ConsecutiveCorrectAtSpeed(speed SpeedClass) int {
	return w.countTrailing(func(r AnswerRecord) bool {
		return r.Correct && r.Speed() == speed
	})
}

// ConsecutivePoints sums the point deltas of the trailing run of correct
// answers. The first wrong answer ends the scan and is not included.
func (w Window) ConsecutivePoints() int {
	total := 0
	for i := len(w) - 1; i >= 0; i-- {
		if !w[i].Correct {
			break
		}
		total += PointsFor(true, w[i].Speed())
	}
	return total
}

func (w Window) countTrailing(match func(AnswerRecord) bool) int {
	n := 0
	for i := len(w) - 1; i >= 0; i-- {
		if !match(w[i]) {
			break
		}
		n++
	}
	return n
}

// Analyze builds the diagnostic counters and per-answer breakdown.
func (w Window) Analyze() Analysis {
	answers := make([]AnswerBreakdown, len(w))
	for i, r := range w {
		ratio, _ := TimeRatio(r.TimeTakenSeconds, r.MedianTimeSeconds)
		speed := r.Speed()
		answers[i] = AnswerBreakdown{
			Index:         i,
			Correct:       r.Correct,
			Speed:         speed,
			TimeRatio:     ratio,
			PointDelta:    PointsFor(r.Correct, speed),
			QuestionLevel: r.QuestionLevel,
		}
	}
	return Analysis{
		ConsecutiveCorrect:       w.ConsecutiveCorrect(),
		ConsecutiveWrong:         w.ConsecutiveWrong(),
		ConsecutiveFastCorrect:   w.ConsecutiveCorrectAtSpeed(SpeedFast),
		ConsecutiveMediumCorrect: w.ConsecutiveCorrectAtSpeed(SpeedMedium),
		ConsecutiveSlowCorrect:   w.ConsecutiveCorrectAtSpeed(SpeedSlow),
		ConsecutivePoints:        w.ConsecutivePoints(),
		Answers:                  answers,
	}
}
