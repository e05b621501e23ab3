package ml

import "errors"

var (
	// ErrServiceUnavailable indicates the prediction service is unreachable
	ErrServiceUnavailable = errors.New("prediction service unavailable")

	// ErrTimeout indicates the request exceeded its deadline
	ErrTimeout = errors.New("request timeout")

	// ErrUnexpectedStatus indicates a non-2xx response
	ErrUnexpectedStatus = errors.New("unexpected response status")

	// ErrMalformedResponse indicates a response that could not be trusted
	ErrMalformedResponse = errors.New("malformed response from prediction service")

	// ErrEmptyBatch indicates a successful response with no predictions
	ErrEmptyBatch = errors.New("prediction service returned no games")

	// ErrInvalidBankroll indicates a bankroll that cannot be optimized
	ErrInvalidBankroll = errors.New("bankroll must be a positive amount")
)
