package cmd

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/zeu5/cades/instances"
)

var errInvalidInstances = errors.New("instances file has invalid instances")

func ValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Check the problem instances against the config",
		RunE: func(cmd *cobra.Command, args []string) error {
			insts, err := loadInstances()
			if err != nil {
				return err
			}
			invalid := 0
			for i, inst := range insts {
				warnings, err := instances.Check(inst, cfg)
				if err != nil {
					invalid++
					log.WithField("instance", i).WithError(err).Error("Invalid instance")
					continue
				}
				for _, w := range warnings {
					log.WithField("instance", i).Warn(w)
				}
			}
			if invalid > 0 {
				return errors.Wrapf(errInvalidInstances, "%d of %d", invalid, len(insts))
			}
			log.WithField("instances", len(insts)).Info("All instances valid")
			return nil
		},
	}

	return cmd
}
