package leave

import "errors"

var (
	ErrLeaveRequestNotFound         = errors.New("leave request not found")
	ErrInsufficientBalance          = errors.New("insufficient leave balance")
	ErrLeaveRequestAlreadyProcessed = errors.New("leave request already processed")
	ErrBalanceNotFound              = errors.New("leave balance not found")
	ErrNoLeaveDays                  = errors.New("leave range contains no working days")
)
