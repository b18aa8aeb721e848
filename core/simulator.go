package core

import (
	"math"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"

	"github.com/zeu5/cades/config"
)

// EpisodeStats summarizes the instance of the current episode.
type EpisodeStats struct {
	TasksTotalCost     float64
	NodesTotalCapacity float64
	// ExtraCapacity is the percentage of capacity left once every task is
	// placed, rounded to whole percents.
	ExtraCapacity float64
}

// Simulator is the placement state machine. It evaluates and applies one
// caller supplied action per Step and reports the shaped reward.
//
// A Simulator is not safe for concurrent use. Parallel episodes need one
// Simulator each.
type Simulator struct {
	config  *config.Config
	rand    *rand.Rand
	rewards rewardPolicy
	comm    *commTracker

	state          *EpisodeState
	normFactor     float64
	communications [][]bool
	stats          EpisodeStats
	running        bool
}

var _ Environment = &Simulator{}

// NewSimulator returns a simulator whose duplicate pick resolution and
// communication credit tie-breaks draw from a generator seeded with seed.
func NewSimulator(cfg *config.Config, seed uint64) *Simulator {
	r := rand.New(rand.NewSource(seed))
	return &Simulator{
		config: cfg,
		rand:   r,
		rewards: rewardPolicy{
			RewardConfig: cfg.Rewards,
			maxItems:     cfg.Problem.MaxNumItems,
		},
		comm: &commTracker{
			reward: cfg.Rewards.Comm,
			rand:   r,
		},
	}
}

// Reset starts a new episode from the instance and returns the first observation.
func (s *Simulator) Reset(inst *ProblemInstance) (*Observation, error) {
	maxItems := s.config.Problem.MaxNumItems
	if err := inst.Validate(maxItems, s.config.Problem.TotalBins); err != nil {
		return nil, err
	}
	s.state = newEpisodeState(inst, maxItems)
	s.normFactor = floats.Max(inst.Capacities)
	s.communications = make([][]bool, maxItems)
	for i := range s.communications {
		s.communications[i] = make([]bool, maxItems)
		if i < len(inst.Communications) {
			copy(s.communications[i], inst.Communications[i])
		}
	}

	s.stats = EpisodeStats{
		TasksTotalCost:     floats.Sum(s.state.origCosts),
		NodesTotalCapacity: floats.Sum(s.state.origCapacities),
	}
	s.stats.ExtraCapacity = math.Round((1-s.stats.TasksTotalCost/s.stats.NodesTotalCapacity)*100) / 100 * 100
	s.running = true

	log.WithFields(log.Fields{
		"items":       s.state.numItems,
		"bins":        len(inst.Capacities),
		"edges":       s.state.numEdges,
		"norm_factor": s.normFactor,
	}).Debug("Episode reset")
	return s.observation(), nil
}

// Step evaluates the action. Game outcomes (overflow, critical collision,
// success) are reported through the result; only caller contract violations
// and internal inconsistencies are returned as errors, and those leave the
// state untouched.
func (s *Simulator) Step(a Action) (*StepResult, error) {
	if s.state == nil || !s.running {
		return nil, errors.Wrapf(ErrEpisodeNotRunning, "step %s", a)
	}
	maxItems := s.config.Problem.MaxNumItems
	numBins := len(s.state.capacities)
	if a.Item < 0 || a.Item >= maxItems || a.Bin < 0 || a.Bin >= numBins {
		return nil, errors.Wrapf(ErrInvalidAction, "action %s outside [0,%d)x[0,%d)", a, maxItems, numBins)
	}

	reward, resolved, err := s.transition(a)
	if err != nil {
		return nil, err
	}
	s.state.totalReward += reward
	done := s.state.cause != CauseNone
	if done {
		s.running = false
	}

	log.WithFields(log.Fields{
		"action":   a.String(),
		"resolved": resolved.String(),
		"reward":   reward,
		"step":     s.state.stepCount,
		"cause":    s.state.cause.String(),
	}).Debug("Episode step")

	return &StepResult{
		Observation: s.observation(),
		Reward:      reward,
		Done:        done,
		Info:        s.info(resolved),
	}, nil
}

// transition runs the resolve/classify loop. A duplicate pick fixes the
// step reward to the duplicate pick penalty while the resolved action still
// decides the state change and the termination.
func (s *Simulator) transition(a Action) (float64, Action, error) {
	st := s.state
	reward := 0.0
	penalized := false
	for {
		if !st.isOpen(a.Item) {
			if penalized {
				return 0, a, errors.Wrapf(ErrNoOpenItem, "resolved item %d is not open", a.Item)
			}
			penalty := s.rewards.duplicatePick(st.stepCount)
			next, err := resolveAction(a, st, s.rand)
			if err != nil {
				return 0, a, err
			}
			st.duplicatePicks++
			reward = penalty
			penalized = true
			a = next
			continue
		}

		item, bin := a.Item, a.Bin
		group := st.groups[item]
		var outcome float64
		switch {
		case !st.fits(item, bin):
			st.cause = CauseBinOverflow
			outcome = s.rewards.overflow(st.stepCount)
		case st.groupInBin(bin, group):
			st.cause = CauseDuplicateCriticalPick
			outcome = s.rewards.duplicateCritical(st.stepCount)
		default:
			outcome = s.rewards.placement(st.stepCount, group != 0)
			outcome += s.comm.credit(st, item, bin)
			st.place(item, bin)
			if st.allPlaced() {
				outcome += s.rewards.Success
				st.cause = CauseSuccess
				st.success = true
			}
		}
		if !penalized {
			reward = outcome
		}
		return reward, a, nil
	}
}

func (s *Simulator) observation() *Observation {
	st := s.state
	obs := &Observation{
		Tasks:          make([]float64, len(st.costs)),
		CriticalMask:   make([]int, len(st.groups)),
		Nodes:          make([]float64, len(st.capacities)),
		Communications: make([][]bool, len(s.communications)),
	}
	for i, row := range s.communications {
		obs.Communications[i] = append([]bool(nil), row...)
	}
	for i, c := range st.costs {
		obs.Tasks[i] = c / s.normFactor
	}
	copy(obs.CriticalMask, st.groups)
	for b, c := range st.capacities {
		obs.Nodes[b] = c / s.normFactor
	}
	return obs
}

func (s *Simulator) info(resolved Action) *Info {
	st := s.state
	return &Info{
		IsSuccess:        st.success,
		EpisodeLen:       st.stepCount,
		TerminationCause: st.cause,
		Assignments:      st.assignmentsCopy(),
		DuplicatePicks:   st.duplicatePicks,
		CreditedPairs:    len(st.credited),
		TotalReward:      st.totalReward,
		Resolved:         resolved,
	}
}

// NormFactor is the largest bin capacity of the current instance.
func (s *Simulator) NormFactor() float64 {
	return s.normFactor
}

func (s *Simulator) Stats() EpisodeStats {
	return s.stats
}

// Snapshot returns a copy of the episode state, or nil before the first Reset.
func (s *Simulator) Snapshot() *Snapshot {
	if s.state == nil {
		return nil
	}
	return s.state.snapshot()
}

// Close releases nothing; the simulator holds no external resources.
func (s *Simulator) Close() error {
	s.running = false
	return nil
}

var _ EnvironmentConstructor = &simulatorConstructor{}

type simulatorConstructor struct {
	config *config.Config
}

// NewSimulatorConstructor builds simulators seeded with config.Seed plus the
// instance number, so parallel workers never share a random stream.
func NewSimulatorConstructor(cfg *config.Config) EnvironmentConstructor {
	return &simulatorConstructor{config: cfg}
}

func (c *simulatorConstructor) NewEnvironment(instance int) Environment {
	return NewSimulator(c.config, c.config.Seed+uint64(instance))
}
