package messages

import "errors"

var (
	ErrRecipientNotFound = errors.New("Recipient not found")
	ErrPropertyNotFound  = errors.New("Property not found")
	ErrMessageNotFound   = errors.New("Message not found")
	ErrUserNotFound      = errors.New("User not found")
	ErrSelfMessage       = errors.New("Cannot message yourself")
	ErrNotAuthorized     = errors.New("Not authorized")
)
