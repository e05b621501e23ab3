package models

import "errors"

// Custom errors
var (
	ErrInvalidPrediction = errors.New("invalid prediction")
	ErrUnknownWinner     = errors.New("winner is not one of the teams")
	ErrCountMismatch     = errors.New("count does not match payload length")
	ErrMissingGenerated  = errors.New("generated_at is required")
	ErrInvalidPlan       = errors.New("invalid strategy plan")
	ErrInvalidHealth     = errors.New("invalid health response")
)
