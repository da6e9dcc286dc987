package shift

import "errors"

var (
	ErrRegistrationNotFound = errors.New("shift registration not found")
	ErrDuplicateDate        = errors.New("a registration already exists for this date")
	ErrNotPermitted         = errors.New("principal may not act for this employee")
	ErrApprovalRequired     = errors.New("approval override capability required")
)
