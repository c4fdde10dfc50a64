package services

import "errors"

// Error taxonomy shared by the services. Handlers map these onto HTTP status
// codes with errors.Is; everything else surfaces as a 500.
var (
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	ErrNotOwner           = errors.New("caller does not own this resource")
	ErrInvalidInput       = errors.New("invalid input")
)
