package adaptive

import "fmt"

// evaluation is the per-call state shared by rule predicates.
type evaluation struct {
	level     int
	window    Window
	last      AnswerRecord
	lastSpeed SpeedClass
	analysis  Analysis
}

// Rule is one entry of the ordered decision table.
type Rule struct {
	ID     int
	Name   string
	Change LevelChange
	when   func(e *evaluation) bool
	reason func(e *evaluation) string
}

// promotionRules are evaluated first, only below MaxLevel. Order is precedence.
var promotionRules = []Rule{
	{
		ID:     1,
		Name:   "harder_question_fast",
		Change: LevelUp,
		when: func(e *evaluation) bool {
			return e.last.Correct && e.lastSpeed == SpeedFast && e.last.QuestionLevel > e.level
		},
		reason: func(e *evaluation) string {
			return fmt.Sprintf("harder question answered fast (level %d above current %d)",
				e.last.QuestionLevel, e.level)
		},
	},
	{
		ID:     2,
		Name:   "correct_fast",
		Change: LevelUp,
		when: func(e *evaluation) bool {
			return e.last.Correct && e.lastSpeed == SpeedFast
		},
		reason: func(e *evaluation) string {
			return "correct+fast"
		},
	},
	{
		ID:     3,
		Name:   "medium_streak",
		Change: LevelUp,
		when: func(e *evaluation) bool {
			return e.analysis.ConsecutiveMediumCorrect >= MediumStreakToPromote
		},
		reason: func(e *evaluation) string {
			return fmt.Sprintf("%d× correct+medium streak", e.analysis.ConsecutiveMediumCorrect)
		},
	},
	{
		ID:     4,
		Name:   "slow_streak_points",
		Change: LevelUp,
		when: func(e *evaluation) bool {
			return e.last.Correct &&
				e.analysis.ConsecutivePoints >= PointsToPromote &&
				e.analysis.ConsecutiveSlowCorrect >= SlowStreakToPromote
		},
		reason: func(e *evaluation) string {
			return fmt.Sprintf("%d× correct+slow streak with accumulated points %d ≥ %d",
				e.analysis.ConsecutiveSlowCorrect, e.analysis.ConsecutivePoints, PointsToPromote)
		},
	},
	{
		ID:     5,
		Name:   "stabilizer",
		Change: LevelUp,
		when: func(e *evaluation) bool {
			return e.last.Correct && e.analysis.ConsecutivePoints >= PointsToPromote
		},
		reason: func(e *evaluation) string {
			return fmt.Sprintf("stabilizer: accumulated points %d ≥ %d", e.analysis.ConsecutivePoints, PointsToPromote)
		},
	},
}

// demotionRules are evaluated only above MinLevel and only if no promotion rule matched.
var demotionRules = []Rule{
	{
		ID:     6,
		Name:   "wrong_easier_question",
		Change: LevelDown,
		when: func(e *evaluation) bool {
			return !e.last.Correct && e.last.QuestionLevel < e.level
		},
		reason: func(e *evaluation) string {
			return fmt.Sprintf("wrong on an easier question (level %d below current %d)", e.last.QuestionLevel, e.level)
		},
	},
	{
		ID:     7,
		Name:   "wrong_fast",
		Change: LevelDown,
		when: func(e *evaluation) bool {
			return !e.last.Correct && e.lastSpeed == SpeedFast
		},
		reason: func(e *evaluation) string {
			return "wrong+fast (likely careless)"
		},
	},
	{
		ID:     8,
		Name:   "wrong_slow",
		Change: LevelDown,
		when: func(e *evaluation) bool {
			return !e.last.Correct && e.lastSpeed == SpeedSlow
		},
		reason: func(e *evaluation) string {
			return "wrong+slow"
		},
	},
	{
		ID:     9,
		Name:   "wrong_streak",
		Change: LevelDown,
		when: func(e *evaluation) bool {
			return e.analysis.ConsecutiveWrong >= WrongStreakToDemote
		},
		reason: func(e *evaluation) string {
			return fmt.Sprintf("%d consecutive wrong answers", e.analysis.ConsecutiveWrong)
		},
	},
}

// Rules returns the decision table in evaluation order.
func Rules() []Rule {
	out := make([]Rule, 0, len(promotionRules)+len(demotionRules))
	out = append(out, promotionRules...)
	return append(out, demotionRules...)
}

// stayReason describes the partial pattern closest to triggering a rule.
func stayReason(e *evaluation) string {
	if e.last.Correct {
		if e.level >= MaxLevel {
			return fmt.Sprintf("correct+%s at the highest level", e.lastSpeed)
		}
		switch e.lastSpeed {
		case SpeedMedium:
			return fmt.Sprintf("correct+medium (%d/%d toward promotion, points %d/%d)",
				e.analysis.ConsecutiveMediumCorrect, MediumStreakToPromote,
				e.analysis.ConsecutivePoints, PointsToPromote)
		case SpeedSlow:
			return fmt.Sprintf("correct+slow (%d/%d slow streak, points %d/%d toward promotion)",
				e.analysis.ConsecutiveSlowCorrect, SlowStreakToPromote,
				e.analysis.ConsecutivePoints, PointsToPromote)
		default:
			return fmt.Sprintf("correct+%s", e.lastSpeed)
		}
	}
	if e.level <= MinLevel {
		return fmt.Sprintf("wrong+%s at the lowest level", e.lastSpeed)
	}
	return fmt.Sprintf("wrong+%s (%d/%d toward demotion)",
		e.lastSpeed, e.analysis.ConsecutiveWrong, WrongStreakToDemote)
}
