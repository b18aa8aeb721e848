package analysis

import (
	"fmt"

	log "github.com/sirupsen/logrus"

	"github.com/zeu5/cades/core"
)

// EpisodeError is a failed episode together with its partial trace.
type EpisodeError struct {
	Run     int
	Episode int
	Err     string
	Trace   string
}

// ErrorAnalyzer collects episodes that ended with a simulator fault.
type ErrorAnalyzer struct {
	exp    string
	errors []EpisodeError
}

var _ core.Analyzer = &ErrorAnalyzer{}

func NewErrorAnalyzer() *ErrorAnalyzer {
	return &ErrorAnalyzer{
		errors: make([]EpisodeError, 0),
	}
}

func (a *ErrorAnalyzer) Analyze(ctx *core.EpisodeContext, trace *core.Trace) {
	err := trace.Error()
	if err == nil {
		return
	}
	e := EpisodeError{
		Run:     ctx.Run,
		Episode: ctx.Episode,
		Err:     fmt.Sprintf("%v", err),
		Trace:   traceToString(trace),
	}
	a.errors = append(a.errors, e)
	log.WithFields(log.Fields{
		"experiment": a.exp,
		"run":        e.Run,
		"episode":    e.Episode,
	}).WithError(err).Error("Episode error")
}

func (a *ErrorAnalyzer) DataSet() core.DataSet {
	return append([]EpisodeError(nil), a.errors...)
}

func (a *ErrorAnalyzer) Reset() {
	a.errors = make([]EpisodeError, 0)
}

type ErrorAnalyzerConstructor struct{}

var _ core.AnalyzerConstructor = &ErrorAnalyzerConstructor{}

func NewErrorAnalyzerConstructor() *ErrorAnalyzerConstructor {
	return &ErrorAnalyzerConstructor{}
}

func (e *ErrorAnalyzerConstructor) NewAnalyzer(exp string, _ int) core.Analyzer {
	return &ErrorAnalyzer{
		exp:    exp,
		errors: make([]EpisodeError, 0),
	}
}
