package saved

import "errors"

var (
	ErrPropertyNotFound = errors.New("Property not found")
	ErrAlreadySaved     = errors.New("Property already saved")
	ErrSavedNotFound    = errors.New("Saved property not found")
)
