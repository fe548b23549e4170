package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

type app struct {
	v      *viper.Viper
	cfg    config
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: newViper()}
	var (
		cfgFile string
		verbose bool
	)

	rootCmd := &cobra.Command{
		Use:          "hfeflow",
		Short:        "Heavy-flavour electron elliptic flow analysis",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			level := slog.LevelInfo
			if verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(a.logger)

			cfg, err := loadConfig(a.v, cfgFile)
			if err != nil {
				return err
			}
			cfg.Source.Logger = a.logger
			a.cfg = cfg
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "configuration file (YAML)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "debug logging")
	flags.String("driver", "sqlite3", "catalog database driver (sqlite3 or mysql)")
	flags.String("catalog", "hfeflow.db", "catalog data source name")
	flags.Int("workers", 1, "number of concurrent workers")
	flags.String("metrics", "", "prometheus textfile written after each job")
	for key, flag := range map[string]string{
		"catalog.driver": "driver",
		"catalog.dsn":    "catalog",
		"workers":        "workers",
		"metrics":        "metrics",
	} {
		if err := a.v.BindPFlag(key, flags.Lookup(flag)); err != nil {
			panic(err)
		}
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newRunCmd(a),
		newSubmitCmd(a),
		newCatalogCmd(a),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), version)
			return err
		},
	}
}
