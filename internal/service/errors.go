package service

import (
	"fmt"

	apperrors "github.com/farhanulkhair/be-adaptivin-sub000/internal/pkg/errors"
)

var (
	// ErrSessionBusy means another answer for the same session is being processed.
	ErrSessionBusy = fmt.Errorf("session is processing another answer: %w", apperrors.ErrConflict)
	// ErrInvalidOption means the selected option does not exist on the question.
	ErrInvalidOption = fmt.Errorf("selected option is out of range: %w", apperrors.ErrValidation)
)
