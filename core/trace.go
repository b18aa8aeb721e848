package core

import "sync"

type Step struct {
	Observation *Observation
	Action      Action
	Result      *StepResult
}

// Trace records one episode: the reset observation followed by every step.
type Trace struct {
	mtx     *sync.Mutex
	initial *Observation
	steps   []*Step
	err     error
}

func NewTrace() *Trace {
	return &Trace{
		steps: make([]*Step, 0),
		mtx:   &sync.Mutex{},
	}
}

func (t *Trace) SetInitial(obs *Observation) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.initial = obs
}

func (t *Trace) Initial() *Observation {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.initial
}

func (t *Trace) AddStep(s *Step) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.steps = append(t.steps, s)
}

func (t *Trace) Step(i int) *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.steps[i]
}

func (t *Trace) Len() int {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return len(t.steps)
}

// Last returns the final step, or nil for an empty trace.
func (t *Trace) Last() *Step {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	if len(t.steps) == 0 {
		return nil
	}
	return t.steps[len(t.steps)-1]
}

func (t *Trace) SetError(err error) {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	t.err = err
}

func (t *Trace) Error() error {
	t.mtx.Lock()
	defer t.mtx.Unlock()
	return t.err
}
