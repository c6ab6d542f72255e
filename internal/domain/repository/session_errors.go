package repository

import "errors"

var (
	// ErrSessionClosed means the session no longer accepts answers.
	ErrSessionClosed = errors.New("quiz session is closed")
	// ErrQuestionNotServed means the answer is for a question other than the one served.
	ErrQuestionNotServed = errors.New("question was not served in this session")
	// ErrNoQuestions means the quiz has no question left to serve.
	ErrNoQuestions = errors.New("no questions available")
)
