package scheduler

import "errors"

var (
	// ErrInvalidConfig indicates the scheduler configuration is invalid
	ErrInvalidConfig = errors.New("scheduler: invalid configuration")
	// ErrSchedulerNotRunning indicates the scheduler has not been started
	ErrSchedulerNotRunning = errors.New("scheduler: not running")
)
