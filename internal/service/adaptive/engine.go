// Package adaptive decides the difficulty level of a student's next question
// from a short window of recent answers.
//
// The engine is a pure function: it performs no I/O and keeps no state
// between calls. Callers own the session level and point balance and must
// serialize calls for the same session.
package adaptive

import "fmt"

// Decide returns the next level for a session.
//
// window holds the most recent answers, oldest first; only the last
// WindowSize entries are considered. accumulatedPoints is the balance
// persisted by the previous call and is returned unchanged for an empty window.
func Decide(currentLevel int, window []AnswerRecord, accumulatedPoints int) (LevelDecision, error) {
	if !ValidLevel(currentLevel) {
		return LevelDecision{}, fmt.Errorf("%w: current level %d, expected %d..%d",
			ErrInvalidLevel, currentLevel, MinLevel, MaxLevel)
	}

	w := Window(window).Tail(WindowSize)
	last, ok := w.Last()
	if !ok {
		return LevelDecision{
			NewLevel:    currentLevel,
			LevelChange: LevelStay,
			Reason:      "no answer data",
			Points:      accumulatedPoints,
			Analysis:    w.Analyze(),
		}, nil
	}

	e := &evaluation{
		level:     currentLevel,
		window:    w,
		last:      last,
		lastSpeed: last.Speed(),
		analysis:  w.Analyze(),
	}

	if currentLevel < MaxLevel {
		if d, fired := apply(promotionRules, e); fired {
			return d, nil
		}
	}
	if currentLevel > MinLevel {
		if d, fired := apply(demotionRules, e); fired {
			return d, nil
		}
	}

	points := 0
	if last.Correct {
		points = e.analysis.ConsecutivePoints
	}
	return LevelDecision{
		NewLevel:    currentLevel,
		LevelChange: LevelStay,
		Reason:      stayReason(e),
		Points:      points,
		Analysis:    e.analysis,
	}, nil
}

// apply evaluates rules in order; the first match wins and discharges the points.
func apply(rules []Rule, e *evaluation) (LevelDecision, bool) {
	for _, r := range rules {
		if !r.when(e) {
			continue
		}
		next := e.level + 1
		if r.Change == LevelDown {
			next = e.level - 1
		}
		return LevelDecision{
			NewLevel:    ClampLevel(next),
			LevelChange: r.Change,
			Reason:      r.reason(e),
			Points:      0,
			RuleID:      r.ID,
			Analysis:    e.analysis,
		}, true
	}
	return LevelDecision{}, false
}

// ValidLevel reports whether level is within [MinLevel, MaxLevel].
func ValidLevel(level int) bool {
	return level >= MinLevel && level <= MaxLevel
}

// ClampLevel bounds level to [MinLevel, MaxLevel].
func ClampLevel(level int) int {
	return min(MaxLevel, max(MinLevel, level))
}
