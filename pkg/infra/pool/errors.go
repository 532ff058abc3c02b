package pool

import "errors"

var (
	// ErrPoolClosed is returned when submitting to a released pool.
	ErrPoolClosed = errors.New("worker pool is closed")

	// ErrPoolOverload is returned by a nonblocking pool that is saturated.
	ErrPoolOverload = errors.New("worker pool is overloaded")
)
