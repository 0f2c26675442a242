package main

import (
	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/raphi011/wsi/internal/config"
	"github.com/raphi011/wsi/internal/log"
	"github.com/raphi011/wsi/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "config",
		Short:   "Manage configuration",
		Aliases: []string{"cfg"},
		GroupID: GroupConfig,
		Long: `Manage wsi configuration.

Global config: ~/.config/wsi/config.toml (or --config)
Local config:  .wsi.toml in a scan root ([scan] overrides only)`,
		Example: `  wsi config init          # Create default global config
  wsi config init --local  # Print a .wsi.toml template
  wsi config show          # Show effective config`,
	}

	cmd.AddCommand(newConfigInitCmd(a))
	cmd.AddCommand(newConfigShowCmd())

	return cmd
}

func newConfigInitCmd(a *app) *cobra.Command {
	var (
		force  bool
		stdout bool
		local  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create default config file",
		Args:  cobra.NoArgs,
		Example: `  wsi config init           # Create global config
  wsi config init -f        # Overwrite existing config
  wsi config init -s        # Print config to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			if local {
				out.Print(config.DefaultLocalConfig())
				return nil
			}
			if stdout {
				out.Print(config.DefaultConfig())
				return nil
			}

			path, err := config.Init(a.configPath, force)
			if err != nil {
				return err
			}
			log.FromContext(ctx).Printf("Created config file: %s\n", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite existing config")
	cmd.Flags().BoolVarP(&stdout, "stdout", "s", false, "Print config to stdout")
	cmd.Flags().BoolVar(&local, "local", false, "Print a per-root .wsi.toml template")

	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [root]",
		Short: "Show effective configuration",
		Args:  cobra.MaximumNArgs(1),
		Long: `Show effective configuration as TOML.

With a root, .wsi.toml overrides found there are merged in.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := output.FromContext(ctx)

			cfg := config.FromContext(ctx)
			if cfg == nil {
				d := config.Default()
				cfg = &d
			}
			if len(args) == 1 {
				if resolver := config.ResolverFromContext(ctx); resolver != nil {
					merged, err := resolver.ConfigForRoot(absRoot(args[0]))
					if err != nil {
						return err
					}
					cfg = merged
				}
			}

			return toml.NewEncoder(out.Writer()).Encode(cfg)
		},
	}
}
