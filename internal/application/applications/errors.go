package applications

import "errors"

var (
	ErrPropertyNotFound     = errors.New("Property not found")
	ErrPropertyUnavailable  = errors.New("Property is not available")
	ErrOwnProperty          = errors.New("Cannot apply to your own property")
	ErrDuplicateApplication = errors.New("You already have an application for this property")
	ErrApplicationNotFound  = errors.New("Application not found")
	ErrNotAuthorized        = errors.New("Not authorized")
	ErrInvalidStatus        = errors.New("Invalid status")
	ErrCannotWithdraw       = errors.New("Cannot withdraw application in current status")
	ErrUserNotFound         = errors.New("User not found")
)
