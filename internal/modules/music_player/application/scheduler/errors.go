package scheduler

import "errors"

// ErrSchedulerClosed is returned by every operation after Close.
var ErrSchedulerClosed = errors.New("scheduler is closed")
