package core

import (
	"context"
	"fmt"
)

// Environment is the contract exposed to the training or evaluation loop.
type Environment interface {
	Reset(*ProblemInstance) (*Observation, error)
	Step(Action) (*StepResult, error)
	Close() error
}

// Action places Item into Bin.
type Action struct {
	Item int
	Bin  int
}

func (a Action) String() string {
	return fmt.Sprintf("(%d,%d)", a.Item, a.Bin)
}

// Observation is what the agent sees after reset and after every step. Tasks
// and Nodes are normalized by the largest bin capacity of the instance.
type Observation struct {
	Tasks []float64
	// CriticalMask uses the core encoding: 0 is non-critical and k >= 1 is
	// critical group k. This differs from instance files, where 1 is also
	// non-critical (see CriticalGroupsFromMask).
	CriticalMask []int
	Nodes        []float64
	// Communications is a copy owned by the observation.
	Communications [][]bool
}

// Info carries per step diagnostics. It is not consumed by the simulator.
type Info struct {
	IsSuccess        bool
	EpisodeLen       int
	TerminationCause TerminationCause
	Assignments      [][]int
	DuplicatePicks   int
	CreditedPairs    int
	TotalReward      float64
	// Resolved is the action that was actually evaluated, which differs from
	// the submitted one after a duplicate pick.
	Resolved Action
}

type StepResult struct {
	Observation *Observation
	Reward      float64
	Done        bool
	Info        *Info
}

type EpisodeContext struct {
	Context context.Context
	Episode int
	Horizon int
	Run     int

	Trace *Trace

	err error
}

func NewEpisodeContext(ctx context.Context) *EpisodeContext {
	return &EpisodeContext{
		Context: ctx,
		Trace:   NewTrace(),
	}
}

func (e *EpisodeContext) Error(err error) {
	e.err = err
	e.Trace.SetError(err)
}

func (e *EpisodeContext) Err() error {
	return e.err
}

func (e *EpisodeContext) IsError() bool {
	return e.err != nil
}

type StepContext struct {
	Step int
	*EpisodeContext
}

type EnvironmentConstructor interface {
	// NewEnvironment creates a new environment with the given instance number.
	NewEnvironment(int) Environment
}
