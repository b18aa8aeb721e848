package metrics

import (
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/uber-go/tally/v4"
)

// InitMetricScope returns a root scope that reports through logrus every
// flushInterval, and its closer. A non-positive interval reports only on close.
func InitMetricScope(rootMetricScope string, flushInterval time.Duration) (tally.Scope, io.Closer) {
	if flushInterval <= 0 {
		flushInterval = time.Hour
	}
	return tally.NewRootScope(tally.ScopeOptions{
		Prefix:    rootMetricScope,
		Tags:      map[string]string{},
		Reporter:  NewLogReporter(log.InfoLevel),
		Separator: ".",
	}, flushInterval)
}

// LogReporter is a tally.StatsReporter that writes every reported value as
// a structured log entry. Counters are reported as deltas since the last flush.
type LogReporter struct {
	level log.Level
}

var _ tally.StatsReporter = &LogReporter{}

func NewLogReporter(level log.Level) *LogReporter {
	return &LogReporter{level: level}
}

func (r *LogReporter) entry(name string, tags map[string]string) *log.Entry {
	fields := log.Fields{"metric": name}
	for k, v := range tags {
		fields[k] = v
	}
	return log.WithFields(fields)
}

func (r *LogReporter) ReportCounter(name string, tags map[string]string, value int64) {
	r.entry(name, tags).WithField("value", value).Log(r.level, "counter")
}

func (r *LogReporter) ReportGauge(name string, tags map[string]string, value float64) {
	r.entry(name, tags).WithField("value", value).Log(r.level, "gauge")
}

func (r *LogReporter) ReportTimer(name string, tags map[string]string, interval time.Duration) {
	r.entry(name, tags).WithField("value", interval).Log(r.level, "timer")
}

func (r *LogReporter) ReportHistogramValueSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound,
	bucketUpperBound float64,
	samples int64,
) {
	r.entry(name, tags).WithFields(log.Fields{
		"lower":   bucketLowerBound,
		"upper":   bucketUpperBound,
		"samples": samples,
	}).Log(r.level, "histogram")
}

func (r *LogReporter) ReportHistogramDurationSamples(
	name string,
	tags map[string]string,
	_ tally.Buckets,
	bucketLowerBound,
	bucketUpperBound time.Duration,
	samples int64,
) {
	r.entry(name, tags).WithFields(log.Fields{
		"lower":   bucketLowerBound,
		"upper":   bucketUpperBound,
		"samples": samples,
	}).Log(r.level, "histogram")
}

func (r *LogReporter) Capabilities() tally.Capabilities {
	return r
}

func (r *LogReporter) Reporting() bool {
	return true
}

func (r *LogReporter) Tagging() bool {
	return true
}

func (r *LogReporter) Flush() {}
