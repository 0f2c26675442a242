package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raphi011/wsi/internal/config"
	"github.com/raphi011/wsi/internal/doctor"
	"github.com/raphi011/wsi/internal/history"
	"github.com/raphi011/wsi/internal/log"
	"github.com/raphi011/wsi/internal/output"
)

func newDoctorCmd(a *app) *cobra.Command {
	var (
		fix       bool
		reset     bool
		outFormat = output.FormatTable
	)

	cmd := &cobra.Command{
		Use:     "doctor",
		Short:   "Check git, config, cache and history for problems",
		GroupID: GroupCache,
		Args:    cobra.NoArgs,
		Long: `Check the environment and wsi's saved state for problems.

Reports a missing git binary, an invalid config file, cached roots and
repositories that no longer exist, and stale 'wsi find' history. With --fix,
stale cache and history entries are removed; surviving roots keep their
scan time.`,
		Example: `  wsi doctor                   # Report problems
  wsi doctor --fix             # Remove stale entries
  wsi doctor --reset           # Discard cache and history`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			historyFile, err := history.DefaultPath()
			if err != nil {
				return fmt.Errorf("locate history: %w", err)
			}

			if reset {
				if err := doctor.Reset(ctx, store, historyFile); err != nil {
					return err
				}
				log.FromContext(ctx).Println("Cache and history reset")
				return nil
			}

			// setup only warns about a broken config; report it here
			_, configErr := config.Load(a.configPath)

			report, err := doctor.Run(ctx, doctor.Options{
				Store:       store,
				HistoryFile: historyFile,
				ConfigErr:   configErr,
				Fix:         fix,
			})
			if err != nil {
				return err
			}

			if outFormat.IsStructured() {
				return out.Encode(outFormat, report)
			}
			report.Print(out.Writer())
			return nil
		},
	}

	cmd.Flags().BoolVar(&fix, "fix", false, "Remove stale cache and history entries")
	cmd.Flags().BoolVar(&reset, "reset", false, "Discard the whole cache and history")
	cmd.Flags().VarP(&outFormat, "format", "f", "Output format: table, json, yaml")
	cmd.MarkFlagsMutuallyExclusive("fix", "reset")
	cmd.RegisterFlagCompletionFunc("format", completeFormats)

	return cmd
}
