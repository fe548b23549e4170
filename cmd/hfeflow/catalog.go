package main

import (
	"database/sql"
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/decibelcooper/hfeflow/catalog"
	"github.com/decibelcooper/hfeflow/source"
)

func newCatalogCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Manage datasets, centrality calibrations and job records",
	}
	cmd.AddCommand(
		newCatalogAddCmd(a),
		newCatalogListCmd(a),
		newCatalogCalibCmd(a),
		newCatalogJobsCmd(a),
	)
	return cmd
}

func newCatalogAddCmd(a *app) *cobra.Command {
	var (
		ds    catalog.Dataset
		desc  string
		count bool
	)

	cmd := &cobra.Command{
		Use:   "add <dataset> <file>...",
		Short: "Define a dataset, replacing any previous definition",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ds.Name = args[0]
			if desc != "" {
				ds.Description = sql.NullString{String: desc, Valid: true}
			}
			paths := args[1:]

			var events []int
			if count {
				opts := a.cfg.Source
				opts.Run = ds.Run
				for _, p := range paths {
					src, err := source.Open(p, opts)
					if err != nil {
						return err
					}
					n, err := source.Count(cmd.Context(), src)
					if err != nil {
						return fmt.Errorf("counting %s: %w", p, err)
					}
					a.logger.Debug("counted events", "file", p, "events", n)
					events = append(events, n)
				}
			}

			cat, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()
			return cat.AddDataset(cmd.Context(), ds, paths, events)
		},
	}
	flags := cmd.Flags()
	flags.IntVar(&ds.Run, "run", 0, "run number")
	flags.StringVar(&ds.Version, "data-version", "", "reconstruction version of the files")
	flags.StringVar(&desc, "description", "", "free-form description")
	flags.BoolVar(&count, "count", false, "count the events of each file")
	return cmd
}

func newCatalogListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list [dataset]",
		Short: "List datasets, or the files of one dataset",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			if len(args) == 1 {
				files, err := cat.Files(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(tw, "idx\tevents\tpath\n")
				for _, f := range files {
					fmt.Fprintf(tw, "%d\t%s\t%s\n", f.Index, eventsString(f.Events), f.Path)
				}
				return tw.Flush()
			}

			sets, err := cat.Datasets(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(tw, "name\trun\tversion\tdescription\n")
			for _, ds := range sets {
				fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", ds.Name, ds.Run, ds.Version, ds.Description.String)
			}
			return tw.Flush()
		},
	}
}

func eventsString(n int) string {
	if n <= 0 {
		return "?"
	}
	return strconv.Itoa(n)
}

func newCatalogCalibCmd(a *app) *cobra.Command {
	var (
		step float64
		show bool
	)

	cmd := &cobra.Command{
		Use:   "calib <run> [file]...",
		Short: "Derive the centrality calibration of a run from minimum-bias files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			run, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid run %q: %w", args[0], err)
			}
			cat, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			if show {
				calib, err := cat.Calibration(cmd.Context(), run)
				if err != nil {
					return err
				}
				return writeCalibration(cmd.OutOrStdout(), calib)
			}
			if len(args) < 2 {
				return errors.New("calib needs input files")
			}

			opts := a.cfg.Source
			opts.Run = run
			opts.Builder = source.NewBuilder()
			var mults []float64
			for _, p := range args[1:] {
				src, err := source.Open(p, opts)
				if err != nil {
					return err
				}
				for {
					ev, err := src.Next(cmd.Context())
					if errors.Is(err, io.EOF) {
						break
					}
					if err != nil {
						src.Close()
						return fmt.Errorf("reading %s: %w", p, err)
					}
					mults = append(mults, ev.Planes.ForwardMult)
				}
				src.Close()
			}
			a.logger.Info("calibrating centrality", "run", run, "events", len(mults))

			calib := source.CalibrationFromSample(run, mults, step)
			if err := cat.PutCalibration(cmd.Context(), calib); err != nil {
				return err
			}
			return writeCalibration(cmd.OutOrStdout(), calib)
		},
	}
	cmd.Flags().Float64Var(&step, "step", 5, "percentile step of the calibration points")
	cmd.Flags().BoolVar(&show, "show", false, "print the stored calibration instead")
	return cmd
}

func writeCalibration(w io.Writer, c *source.Calibration) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "percentile\tmult\n")
	for _, p := range c.Points {
		fmt.Fprintf(tw, "%g\t%g\n", p.Percentile, p.Mult)
	}
	return tw.Flush()
}

func newCatalogJobsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "jobs <dataset>",
		Short: "List the jobs run on a dataset, newest first",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := a.openCatalog()
			if err != nil {
				return err
			}
			defer cat.Close()

			jobs, err := cat.Jobs(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintf(tw, "id\tstatus\tversion\tread\taccepted\tstarted\tduration\toutput\n")
			for _, j := range jobs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t%s\t%s\n",
					j.ID, j.Status, j.Version, j.EventsRead, j.EventsAccepted,
					time.Unix(j.StartedAt, 0).UTC().Format(time.RFC3339), j.Duration(), j.Output)
			}
			return tw.Flush()
		},
	}
}
