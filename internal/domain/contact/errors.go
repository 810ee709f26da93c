package contact

import "errors"

var (
	ErrContactNotFound = errors.New("contact not found")
	ErrSessionNotFound = errors.New("funnel session not found")
	ErrInvalidLead     = errors.New("lead does not satisfy the funnel steps")
	ErrInvalidStatus   = errors.New("invalid contact status")
)
