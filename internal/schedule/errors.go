package schedule

import "errors"

var (
	ErrNotFound          = errors.New("schedule not found")
	ErrDuplicateName     = errors.New("schedule name already exists")
	ErrInvalidName       = errors.New("invalid schedule name")
	ErrInvalidTimeFormat = errors.New("invalid time format")
	ErrInvalidDays       = errors.New("invalid day set")
	ErrInvalidAction     = errors.New("invalid action")
)
