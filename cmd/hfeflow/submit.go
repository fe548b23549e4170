package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/decibelcooper/hfeflow/job"
)

func sortedKeys(m map[string]int64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func newSubmitCmd(a *app) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "submit <manifest.yaml>",
		Short: "Run the job described by a manifest",
		Long: `submit runs a job manifest against the dataset catalog. The manifest
pins the analysis version it was prepared for; a different build refuses
to run it unless --force is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := job.LoadManifest(args[0])
			if err != nil {
				return err
			}
			m.Force = m.Force || force
			if m.Metrics == "" {
				m.Metrics = a.cfg.Metrics
			}

			cat, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			r := a.newRunner()
			r.Catalog = cat
			res, err := r.Run(cmd.Context(), m)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s\n", res.JobID)
			return err
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "run despite a framework version mismatch")
	return cmd
}
