package apperrors

import "errors"

var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrInUse       = errors.New("entity is referenced by existing schedules")
	ErrNoTable     = errors.New("page has no tables")
	ErrNoPeriodRow = errors.New("no period header row identified")
	ErrNoDay       = errors.New("day of week could not be resolved")
	ErrClearFailed = errors.New("clearing existing schedules failed")
)
