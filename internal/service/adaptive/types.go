package adaptive

import "errors"

// Level bounds and window size.
const (
	MinLevel   = 1
	MaxLevel   = 6
	WindowSize = 5
)

// Promotion and demotion thresholds.
const (
	MediumStreakToPromote = 3
	SlowStreakToPromote   = 3
	PointsToPromote       = 5
	WrongStreakToDemote   = 2
)

// ErrInvalidLevel is returned when the caller passes a level outside [MinLevel, MaxLevel].
var ErrInvalidLevel = errors.New("level out of range")

// AnswerRecord is one previously answered question of a session.
type AnswerRecord struct {
	Correct           bool    `json:"correct"`
	TimeTakenSeconds  float64 `json:"time_taken_seconds"`
	MedianTimeSeconds float64 `json:"median_time_seconds"`
	// QuestionLevel is the level of the answered question, which may differ
	// from the session level when an out-of-band question was served.
	QuestionLevel int `json:"question_level"`
}

// Speed classifies the record's response time.
func (r AnswerRecord) Speed() SpeedClass {
	return ClassifySpeed(r.TimeTakenSeconds, r.MedianTimeSeconds)
}

// Points returns the record's point delta.
func (r AnswerRecord) Points() int {
	return PointsFor(r.Correct, r.Speed())
}

// LevelChange is the direction of a decision.
type LevelChange string

const (
	LevelUp   LevelChange = "up"
	LevelDown LevelChange = "down"
	LevelStay LevelChange = "stay"
)

// AnswerBreakdown is the per-answer part of Analysis.
type AnswerBreakdown struct {
	Index         int        `json:"index"`
	Correct       bool       `json:"correct"`
	Speed         SpeedClass `json:"speed"`
	TimeRatio     float64    `json:"time_ratio"`
	PointDelta    int        `json:"point_delta"`
	QuestionLevel int        `json:"question_level"`
}

// Analysis is diagnostic output; nothing outside the engine should branch on it.
type Analysis struct {
	ConsecutiveCorrect       int               `json:"consecutive_correct"`
	ConsecutiveWrong         int               `json:"consecutive_wrong"`
	ConsecutiveFastCorrect   int               `json:"consecutive_fast_correct"`
	ConsecutiveMediumCorrect int               `json:"consecutive_medium_correct"`
	ConsecutiveSlowCorrect   int               `json:"consecutive_slow_correct"`
	ConsecutivePoints        int               `json:"consecutive_points"`
	Answers                  []AnswerBreakdown `json:"answers"`
}

// LevelDecision is the engine's output for one answered question.
type LevelDecision struct {
	NewLevel    int         `json:"new_level"`
	LevelChange LevelChange `json:"level_change"`
	// Reason is deterministic for the same inputs. Callers may display it
	// but must branch only on LevelChange and NewLevel.
	Reason string `json:"reason"`
	// Points is the balance to persist for the next call.
	Points int `json:"points"`
	// RuleID is the 1-based index of the rule that fired, 0 for stay.
	RuleID   int      `json:"rule_id"`
	Analysis Analysis `json:"analysis"`
}

// IsLevelChange reports whether the decision moves the level.
func (d LevelDecision) IsLevelChange() bool {
	return d.LevelChange == LevelUp || d.LevelChange == LevelDown
}
