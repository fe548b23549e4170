package main

import (
	"fmt"
	"os"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"

	"github.com/decibelcooper/hfeflow/job"
)

func (a *app) newRunner() *job.Runner {
	return &job.Runner{
		SourceOptions: a.cfg.Source,
		Metrics:       job.NewMetrics(),
		Logger:        a.logger,
		Version:       version,
	}
}

func newRunCmd(a *app) *cobra.Command {
	var (
		m          = job.DefaultManifest()
		cpuProfile string
		summary    bool
	)

	cmd := &cobra.Command{
		Use:   "run [flags] <input-file>...",
		Short: "Analyse proio or LCIO files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cpuProfile != "" {
				if err := os.MkdirAll(cpuProfile, 0o755); err != nil {
					return err
				}
				defer profile.Start(profile.CPUProfile, profile.ProfilePath(cpuProfile), profile.NoShutdownHook).Stop()
			}

			m.Files = args
			m.Params = a.cfg.Params
			m.Workers = a.cfg.Workers
			m.Metrics = a.cfg.Metrics

			res, err := a.newRunner().Run(cmd.Context(), m)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "job %s: %d events read, %d accepted\n", res.JobID, res.EventsRead, res.EventsAccepted)
			for _, reason := range sortedKeys(res.Skipped) {
				fmt.Fprintf(cmd.OutOrStdout(), "  skipped (%s): %d\n", reason, res.Skipped[reason])
			}
			if summary {
				return res.Registry.WriteSummary(cmd.OutOrStdout())
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&m.Name, "name", "n", m.Name, "job name")
	flags.IntVar(&m.Run, "run", 0, "run number for files that carry none")
	flags.IntVarP(&m.Events, "events", "e", 0, "number of events to process (all if not positive)")
	flags.IntVar(&m.FirstEvent, "first", 0, "first event to process")
	flags.StringVarP(&m.Output, "output", "o", "hfeflow.root", "output ROOT file")
	flags.StringVar(&cpuProfile, "cpuprofile", "", "write a CPU profile into this directory")
	flags.BoolVar(&summary, "summary", false, "print the histogram summary")
	return cmd
}
