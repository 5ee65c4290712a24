package model

import "errors"

// Failure taxonomy; all of them end the current request.
var (
	ErrInvalidWeekRange      = errors.New("invalid week range")
	ErrSheetNotFound         = errors.New("sheet not found")
	ErrHeaderNotDetected     = errors.New("header row not detected")
	ErrRequiredColumnMissing = errors.New("required column missing")
	ErrNoValidStudents       = errors.New("no valid students")
)

// IsStructural reports whether err belongs to the failure taxonomy above
func IsStructural(err error) bool {
	return errors.Is(err, ErrInvalidWeekRange) ||
		errors.Is(err, ErrSheetNotFound) ||
		errors.Is(err, ErrHeaderNotDetected) ||
		errors.Is(err, ErrRequiredColumnMissing) ||
		errors.Is(err, ErrNoValidStudents)
}
