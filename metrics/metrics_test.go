package metrics

import (
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/uber-go/tally/v4"
)

func TestNewRegistersCauseTags(t *testing.T) {
	scope := tally.NewTestScope("cades", nil)
	m := New(scope)
	m.Episodes.Inc(2)
	m.EpisodesSuccess.Inc(1)
	m.EpisodesOverflow.Inc(1)
	m.EpisodeReward.Update(3.5)

	causes := make(map[string]int64)
	var total int64
	for _, c := range scope.Snapshot().Counters() {
		switch c.Name() {
		case "cades.episode.terminated":
			causes[c.Tags()["cause"]] = c.Value()
		case "cades.episode.total":
			total = c.Value()
		}
	}
	assert.Equal(t, int64(2), total)
	assert.Equal(t, int64(1), causes["success"])
	assert.Equal(t, int64(1), causes["bin_overflow"])

	gauges := scope.Snapshot().Gauges()
	found := false
	for _, g := range gauges {
		if g.Name() == "cades.episode.reward" {
			found = true
			assert.Equal(t, 3.5, g.Value())
		}
	}
	assert.True(t, found)
}

func TestLogReporter(t *testing.T) {
	r := NewLogReporter(log.DebugLevel)
	assert.True(t, r.Capabilities().Reporting())
	assert.True(t, r.Capabilities().Tagging())
	r.ReportCounter("c", map[string]string{"k": "v"}, 1)
	r.ReportGauge("g", nil, 1)
	r.Flush()

	scope, closer := InitMetricScope("cades", 0)
	scope.Counter("boot").Inc(1)
	assert.NoError(t, closer.Close())
}
