package core

// Policy picks the action of every step. The simulator itself never decides
// which item or bin to pick.
type Policy interface {
	ResetEpisode(*EpisodeContext)
	UpdateEpisode(*EpisodeContext)
	PickAction(*StepContext, *Observation) Action
	UpdateStep(*StepContext, *Observation, Action, *StepResult)
	Reset()
}

type PolicyConstructor interface {
	// NewPolicy creates a new policy for the given worker instance.
	NewPolicy(int) Policy
}

// InstanceProvider supplies the problem instance of every episode.
type InstanceProvider interface {
	Next() (*ProblemInstance, error)
}

type InstanceProviderConstructor interface {
	NewProvider(int) InstanceProvider
}
