package core

import "github.com/pkg/errors"

var (
	// ErrInvalidInstance is returned by Reset for malformed problem instances.
	ErrInvalidInstance = errors.New("invalid problem instance")
	// ErrInvalidAction is returned by Step when the action indices are out of range.
	ErrInvalidAction = errors.New("invalid action")
	// ErrNoOpenItem signals that a duplicate pick could not be resolved because
	// every item is already placed. Unreachable under a correct episode flow.
	ErrNoOpenItem = errors.New("no open item left to resolve duplicate pick")
	// ErrEpisodeNotRunning is returned by Step before Reset or after the episode terminated.
	ErrEpisodeNotRunning = errors.New("episode is not running")
)
