package metrics

import (
	"github.com/uber-go/tally/v4"
)

// Metrics contains the counters and gauges of the episode runner.
type Metrics struct {
	// Episodes counts finished episodes, tagged by termination cause
	Episodes          tally.Counter
	EpisodesSuccess   tally.Counter
	EpisodesOverflow  tally.Counter
	EpisodesCritical  tally.Counter
	EpisodesTruncated tally.Counter
	// EpisodesError counts episodes aborted by a simulator fault
	EpisodesError tally.Counter

	Steps          tally.Counter
	DuplicatePicks tally.Counter
	CommCredits    tally.Counter

	EpisodeReward tally.Gauge
	EpisodeLength tally.Gauge
}

// New returns a new Metrics struct rooted below the given tally scope.
func New(scope tally.Scope) *Metrics {
	episodeScope := scope.SubScope("episode")
	stepScope := scope.SubScope("step")

	causeScope := func(cause string) tally.Scope {
		return episodeScope.Tagged(map[string]string{"cause": cause})
	}

	return &Metrics{
		Episodes:          episodeScope.Counter("total"),
		EpisodesSuccess:   causeScope("success").Counter("terminated"),
		EpisodesOverflow:  causeScope("bin_overflow").Counter("terminated"),
		EpisodesCritical:  causeScope("duplicate_critical_pick").Counter("terminated"),
		EpisodesTruncated: causeScope("none").Counter("terminated"),
		EpisodesError:     episodeScope.Counter("error"),

		Steps:          stepScope.Counter("total"),
		DuplicatePicks: stepScope.Counter("duplicate_pick"),
		CommCredits:    stepScope.Counter("comm_credit"),

		EpisodeReward: episodeScope.Gauge("reward"),
		EpisodeLength: episodeScope.Gauge("length"),
	}
}
