package cmd

import (
	"context"
	"os"
	"os/signal"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zeu5/cades/analysis"
	"github.com/zeu5/cades/config"
	"github.com/zeu5/cades/core"
	"github.com/zeu5/cades/instances"
	"github.com/zeu5/cades/metrics"
	"github.com/zeu5/cades/policies"
	"github.com/zeu5/cades/util"
)

func EvaluateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Run the random baselines on the problem instances and report episode statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			insts, err := loadInstances()
			if err != nil {
				return err
			}
			for i, inst := range insts {
				warnings, err := instances.Check(inst, cfg)
				if err != nil {
					return err
				}
				for _, w := range warnings {
					log.WithField("instance", i).Warn(w)
				}
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt) // channel for interrupts from os

			doneCh := make(chan struct{}) // channel for done signal from application

			ctx, cancel := context.WithCancel(context.Background())
			go func() {
				select {
				case <-sigCh:
				case <-doneCh:
				}
				cancel()
			}()

			scope, closer := metrics.InitMetricScope("cades", flags.MetricsFlush)
			defer closer.Close()

			horizon := flags.Horizon
			if horizon == 0 {
				horizon = cfg.Problem.MaxNumItems
			}

			cmp := PrepareEvaluation(cfg, insts)
			results := cmp.Run(ctx, flags.NumRuns, &core.RunConfig{
				Episodes:                   flags.Episodes,
				Horizon:                    horizon,
				ThresholdConsecutiveErrors: flags.MaxConsecutiveErrors,
				ProgressFrequency:          flags.Progress,
				Metrics:                    metrics.New(scope),
			}, util.MinInt(flags.Parallelism, len(cmp.Experiments)))
			close(doneCh)

			for run, rs := range results {
				for name, r := range rs {
					entry := log.WithFields(log.Fields{
						"run":        run,
						"experiment": name,
						"completed":  r.CompletedEpisodes,
						"successes":  r.SuccessEpisodes,
						"errors":     r.ErrorEpisodes,
						"timesteps":  r.TotalTimeSteps,
					})
					if r.IsError() {
						entry.WithError(r.Error).Error("Experiment did not complete")
						continue
					}
					entry.Info("Experiment completed")
				}
			}
			return nil
		},
	}

	return cmd
}

// PrepareEvaluation builds the comparison of the random and masked random
// baselines over insts.
func PrepareEvaluation(cfg *config.Config, insts []*core.ProblemInstance) *core.ParallelComparison {
	cmp := core.NewParallelComparison()

	envConstructor := core.NewSimulatorConstructor(cfg)
	provider := instances.NewStaticProviderConstructor(insts...)

	if flags.Debug {
		cmp.AddAnalysis("Debug", analysis.NewDebugAnalyzerConstructor(flags.Episodes-10), analysis.NewNoOpComparatorConstructor())
	}
	cmp.AddAnalysis("Evaluation", &analysis.EvaluationAnalyzerConstructor{}, &analysis.EvaluationComparatorConstructor{})
	cmp.AddAnalysis("Invariants", &analysis.InvariantAnalyzerConstructor{}, &analysis.InvariantComparatorConstructor{})
	cmp.AddAnalysis(
		"Bugs",
		analysis.NewBugAnalyzerConstructor(analysis.DuplicatePickBug, analysis.CriticalCollisionBug),
		analysis.NewNoOpComparatorConstructor(),
	)
	cmp.AddAnalysis("Errors", analysis.NewErrorAnalyzerConstructor(), analysis.NewNoOpComparatorConstructor())

	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "Random",
		Environment: envConstructor,
		Policy:      &policies.RandomPolicyConstructor{Seed: cfg.Seed},
		Instances:   provider,
	})
	cmp.AddExperiment(&core.ParallelExperiment{
		Name:        "MaskedRandom",
		Environment: envConstructor,
		Policy:      &policies.MaskedRandomPolicyConstructor{Seed: cfg.Seed},
		Instances:   provider,
	})
	return cmp
}
