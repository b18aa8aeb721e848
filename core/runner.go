package core

import (
	"context"
	"fmt"
	"sync"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/zeu5/cades/util"
)

var (
	ErrTooManyErrors = errors.New("too many errors")
	ErrCancelled     = errors.New("context cancelled")
)

type experimentRunContext struct {
	run       int
	ctx       context.Context
	analyzers map[string]Analyzer

	output *util.ParallelOutput

	*RunConfig
}

type ExperimentResult struct {
	CompletedEpisodes int
	TotalEpisodes     int
	ErrorEpisodes     int
	SuccessEpisodes   int
	TotalTimeSteps    int

	Error    error
	Datasets map[string]DataSet
}

func (r *ExperimentResult) IsError() bool {
	return r.Error != nil
}

func (e *Experiment) run(ctx *experimentRunContext) *ExperimentResult {
	result := &ExperimentResult{
		Datasets: make(map[string]DataSet),
	}
	e.Policy.Reset()

	consecutiveErrors := 0
EpisodeLoop:
	for episode := 0; episode < ctx.Episodes; episode++ {
		select {
		case <-ctx.ctx.Done():
			result.Error = ErrCancelled
			break EpisodeLoop
		default:
		}

		if ctx.output != nil {
			ctx.output.TrySet(fmt.Sprintf(
				"Experiment: %s, Run %d, Episode %d/%d, Timesteps: %d, Success: %d, Error: %d",
				e.Name, ctx.run, episode, ctx.Episodes, result.TotalTimeSteps, result.SuccessEpisodes, result.ErrorEpisodes,
			))
		}

		eCtx := NewEpisodeContext(ctx.ctx)
		eCtx.Run = ctx.run
		eCtx.Episode = episode
		eCtx.Horizon = ctx.Horizon

		e.runEpisode(eCtx, ctx.RunConfig)
		result.TotalEpisodes++
		for _, a := range ctx.analyzers {
			a.Analyze(eCtx, eCtx.Trace)
		}

		if eCtx.IsError() {
			result.ErrorEpisodes++
			log.WithFields(log.Fields{
				"experiment": e.Name,
				"run":        ctx.run,
				"episode":    episode,
				"error":      eCtx.Err(),
			}).Warn("Episode failed")
			if consecutiveErrors++; consecutiveErrors >= ctx.ThresholdConsecutiveErrors {
				result.Error = ErrTooManyErrors
				break EpisodeLoop
			}
		} else {
			consecutiveErrors = 0
			result.TotalTimeSteps += eCtx.Trace.Len()
			result.CompletedEpisodes++
			if last := eCtx.Trace.Last(); last != nil && last.Result.Info.IsSuccess {
				result.SuccessEpisodes++
			}
		}
	}
	if result.Error != nil {
		log.WithFields(log.Fields{
			"experiment": e.Name,
			"run":        ctx.run,
		}).WithError(result.Error).Error("Experiment stopped")
	}

	for name, a := range ctx.analyzers {
		result.Datasets[name] = a.DataSet()
	}

	e.Policy.Reset()
	return result
}

// runEpisode drives one episode to termination or to the horizon. Faults are
// recorded on the episode context.
func (e *Experiment) runEpisode(eCtx *EpisodeContext, rConfig *RunConfig) {
	m := rConfig.Metrics

	inst, err := e.Instances.Next()
	if err != nil {
		eCtx.Error(errors.Wrap(err, "fetching instance"))
		if m != nil {
			m.EpisodesError.Inc(1)
		}
		return
	}
	obs, err := e.Environment.Reset(inst)
	if err != nil {
		eCtx.Error(err)
		if m != nil {
			m.EpisodesError.Inc(1)
		}
		return
	}
	eCtx.Trace.SetInitial(obs)
	e.Policy.ResetEpisode(eCtx)

	var last *StepResult
	credits := 0
	for step := 0; rConfig.Horizon <= 0 || step < rConfig.Horizon; step++ {
		select {
		case <-eCtx.Context.Done():
			eCtx.Error(eCtx.Context.Err())
			return
		default:
		}

		sCtx := &StepContext{Step: step, EpisodeContext: eCtx}
		action := e.Policy.PickAction(sCtx, obs)
		result, err := e.Environment.Step(action)
		if err != nil {
			eCtx.Error(err)
			if m != nil {
				m.EpisodesError.Inc(1)
			}
			return
		}
		e.Policy.UpdateStep(sCtx, obs, action, result)
		eCtx.Trace.AddStep(&Step{
			Observation: obs,
			Action:      action,
			Result:      result,
		})
		if m != nil {
			m.Steps.Inc(1)
			if result.Info.Resolved != action {
				m.DuplicatePicks.Inc(1)
			}
			if result.Info.CreditedPairs > credits {
				m.CommCredits.Inc(int64(result.Info.CreditedPairs - credits))
			}
		}
		credits = result.Info.CreditedPairs
		last = result
		obs = result.Observation
		if result.Done {
			break
		}
	}
	e.Policy.UpdateEpisode(eCtx)

	if m != nil && last != nil {
		m.Episodes.Inc(1)
		switch last.Info.TerminationCause {
		case CauseSuccess:
			m.EpisodesSuccess.Inc(1)
		case CauseBinOverflow:
			m.EpisodesOverflow.Inc(1)
		case CauseDuplicateCriticalPick:
			m.EpisodesCritical.Inc(1)
		default:
			m.EpisodesTruncated.Inc(1)
		}
		m.EpisodeReward.Update(last.Info.TotalReward)
		m.EpisodeLength.Update(float64(last.Info.EpisodeLen))
	}
}

// parallelWorker is a worker that runs experiments
type parallelWorker struct {
	id int
}

// parallelWork is a struct that contains all the information needed to run an experiment
type parallelWork struct {
	experiment *ParallelExperiment
	comp       *ParallelComparison
	runNumber  int
	output     *util.ParallelOutput
	rConfig    *RunConfig
}

// parallelResult is a struct that contains the result of running an experiment
type parallelResult struct {
	experimentName string
	run            int
	result         *ExperimentResult
}

// Worker main loop that consumes work from a channel
func (w *parallelWorker) run(ctx context.Context, workCh <-chan *parallelWork, resultsCh chan<- *parallelResult) {
	for {
		select {
		case <-ctx.Done():
			return
		case work, more := <-workCh:
			if !more {
				return
			}
			resultsCh <- w.runWork(ctx, work)
		}
	}
}

// Run an experiment by constructing the experiment context and the *Experiment
func (w *parallelWorker) runWork(ctx context.Context, work *parallelWork) *parallelResult {
	eCtx := &experimentRunContext{
		run:       work.runNumber,
		ctx:       ctx,
		analyzers: make(map[string]Analyzer),
		output:    work.output,
		RunConfig: work.rConfig,
	}

	for name, aC := range work.comp.Analyzers {
		eCtx.analyzers[name] = aC.NewAnalyzer(work.experiment.Name, w.id)
	}

	env := work.experiment.Environment.NewEnvironment(w.id)
	defer env.Close()

	exp := &Experiment{
		Name:        work.experiment.Name,
		Environment: env,
		Policy:      work.experiment.Policy.NewPolicy(w.id),
		Instances:   work.experiment.Instances.NewProvider(w.id),
	}

	return &parallelResult{
		experimentName: work.experiment.Name,
		run:            work.runNumber,
		result:         exp.run(eCtx),
	}
}

// Run executes every experiment once per run on a pool of parallelism
// workers and hands the analyzer datasets to the comparators. It returns
// the per run results keyed by experiment name.
func (c *ParallelComparison) Run(ctx context.Context, runs int, rConfig *RunConfig, parallelism int) []map[string]*ExperimentResult {
	if parallelism <= 0 {
		parallelism = 1
	}
	allResults := make([]map[string]*ExperimentResult, 0, runs)
	for run := 0; run < runs; run++ {
		select {
		case <-ctx.Done():
			return allResults
		default:
		}

		var printer *util.TerminalPrinter
		if rConfig.ProgressFrequency > 0 {
			printer = util.NewTerminalPrinter(rConfig.ProgressFrequency)
		}

		workCh := make(chan *parallelWork, parallelism)
		resultsCh := make(chan *parallelResult, len(c.Experiments))

		wg := new(sync.WaitGroup)
		for i := 0; i < parallelism; i++ {
			worker := &parallelWorker{id: i}
			wg.Add(1)
			go func() {
				defer wg.Done()
				worker.run(ctx, workCh, resultsCh)
			}()
		}

		works := make([]*parallelWork, len(c.Experiments))
		for i, e := range c.Experiments {
			works[i] = &parallelWork{
				experiment: e,
				comp:       c,
				runNumber:  run,
				rConfig:    rConfig,
			}
			if printer != nil {
				works[i].output = printer.NewOutput()
			}
		}
		if printer != nil {
			printer.Start(ctx)
			printer.Write(fmt.Sprintf("Run %d\n", run))
		}
		go func() {
			defer close(workCh)
			for _, work := range works {
				select {
				case <-ctx.Done():
					return
				case workCh <- work:
				}
			}
		}()

		results := make(map[string]*ExperimentResult)
	Gather:
		for range c.Experiments {
			select {
			case <-ctx.Done():
				break Gather
			case r := <-resultsCh:
				results[r.experimentName] = r.result
			}
		}
		wg.Wait()
		if printer != nil {
			printer.Stop()
		}
		allResults = append(allResults, results)

		// Gather datasets to run comparisons
		datasets := make(map[string][]DataSet)
		experimentNames := make([]string, 0)
		for _, e := range c.Experiments {
			result, ok := results[e.Name]
			if !ok {
				continue
			}
			experimentNames = append(experimentNames, e.Name)
			for name := range c.Analyzers {
				if result.IsError() {
					datasets[name] = append(datasets[name], nil)
				} else {
					datasets[name] = append(datasets[name], result.Datasets[name])
				}
			}
		}
		for name, cmp := range c.Comparators {
			select {
			case <-ctx.Done():
				return allResults
			default:
			}
			cmp.NewComparator(run).Compare(experimentNames, datasets[name])
		}
	}
	return allResults
}
