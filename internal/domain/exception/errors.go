package exception

import "errors"

var (
	ErrRequestNotFound  = errors.New("exception request not found")
	ErrAlreadyProcessed = errors.New("exception request has already been processed")
)
