package properties

import "errors"

var (
	ErrPropertyNotFound = errors.New("Property not found")
	ErrNotAuthorized    = errors.New("Not authorized")
)
