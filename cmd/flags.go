package cmd

import (
	"time"

	"github.com/spf13/pflag"
)

// Flags are the command line options shared by every command.
type Flags struct {
	RunFlags
	ConfigFiles   []string
	InstancesFile string
	Seed          uint64
	Parallelism   int
	LogLevel      string
	Progress      time.Duration
	MetricsFlush  time.Duration
	Debug         bool
}

type RunFlags struct {
	NumRuns              int
	Episodes             int
	Horizon              int
	MaxConsecutiveErrors int
}

func DefaultFlags() *Flags {
	return &Flags{
		RunFlags: RunFlags{
			NumRuns:              1,
			Episodes:             1000,
			Horizon:              0,
			MaxConsecutiveErrors: 20,
		},
		ConfigFiles:  []string{},
		Parallelism:  4,
		LogLevel:     "info",
		Progress:     0,
		MetricsFlush: 0,
	}
}

var flags = DefaultFlags()

func AddFlags(fs *pflag.FlagSet) {
	fs.StringSliceVarP(&flags.ConfigFiles, "config", "c", flags.ConfigFiles, "YAML config files, merged in order over the defaults")
	fs.StringVarP(&flags.InstancesFile, "instances", "i", flags.InstancesFile, "YAML file with the problem instances")
	fs.Uint64Var(&flags.Seed, "seed", flags.Seed, "Base seed, overrides the config seed when set")
	fs.StringVar(&flags.LogLevel, "log-level", flags.LogLevel, "Log level (debug, info, warn, error)")

	fs.IntVar(&flags.NumRuns, "num-runs", flags.NumRuns, "Number of runs")
	fs.IntVar(&flags.Episodes, "episodes", flags.Episodes, "Number of episodes")
	fs.IntVar(&flags.Horizon, "horizon", flags.Horizon, "Step cap per episode, 0 uses max_num_items")
	fs.IntVar(&flags.MaxConsecutiveErrors, "max-consecutive-errors", flags.MaxConsecutiveErrors, "Maximum number of consecutive errors")
	fs.IntVar(&flags.Parallelism, "parallelism", flags.Parallelism, "Number of parallel workers")
	fs.DurationVar(&flags.Progress, "progress", flags.Progress, "Progress refresh interval, 0 disables the progress printer")
	fs.DurationVar(&flags.MetricsFlush, "metrics-flush", flags.MetricsFlush, "Metrics report interval, 0 reports once at exit")
	fs.BoolVar(&flags.Debug, "debug", flags.Debug, "Log the traces of the last episodes")
}
