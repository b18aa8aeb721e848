package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zeu5/cades/config"
	"github.com/zeu5/cades/core"
	"github.com/zeu5/cades/instances"
)

var cfg *config.Config

func RootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "cades",
		Short:        "Placement environment for cloud deployment scheduling",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(flags.LogLevel)
			if err != nil {
				return errors.Wrap(err, "parsing log level")
			}
			log.SetLevel(level)
			log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

			cfg, err = config.Load(flags.ConfigFiles...)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("seed") {
				cfg.Seed = flags.Seed
			}
			log.WithFields(log.Fields{
				"max_num_items": cfg.Problem.MaxNumItems,
				"total_bins":    cfg.Problem.TotalBins,
				"seed":          cfg.Seed,
			}).Debug("Loaded config")
			return nil
		},
	}
	AddFlags(cmd.PersistentFlags())

	cmd.AddCommand(
		EvaluateCommand(),
		ValidateCommand(),
	)

	return cmd
}

func loadInstances() ([]*core.ProblemInstance, error) {
	if flags.InstancesFile == "" {
		return nil, errors.New("no instances file, set --instances")
	}
	return instances.LoadFile(flags.InstancesFile)
}
