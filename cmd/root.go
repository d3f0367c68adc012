// File: cmd/root.go
package cmd

import (
	"context"
	"fmt"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/ghostwriter/internal/config"
	"github.com/xkilldash9x/ghostwriter/internal/observability"
)

// ctxKey namespaces the context values this package owns.
type ctxKey int

// configKey carries the loaded *config.Config from PersistentPreRunE to the
// subcommand RunE functions.
const configKey ctxKey = iota

// NewRootCommand builds the full ghostwriter command tree. Every call
// returns a pristine instance, so tests and interactive callers never share
// flag state.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "ghostwriter",
		Short: "Ghostwriter types like a person: rhythm, pauses, and mistakes included.",
		Long: `Ghostwriter simulates human typing. Given text and a target speed it
generates a per-keystroke schedule of delays, key holds, and occasional
self-corrected typos, then acts it out against a live Chrome tab, the
terminal, or an offline recorder.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Runs before every subcommand: load config, bind flag
			// overrides, and stand up the logger.
			v := viper.New()
			config.SetDefaults(v)

			if err := loadConfigFile(v, cfgFile); err != nil {
				return err
			}

			// Command-line flags outrank the config file and environment.
			flags := cmd.Root().PersistentFlags()
			for key, name := range map[string]string{
				"logger.level":       "log-level",
				"session.seed":       "seed",
				"session.target_wpm": "wpm",
				"session.preset":     "preset",
			} {
				if err := v.BindPFlag(key, flags.Lookup(name)); err != nil {
					return fmt.Errorf("failed to bind --%s: %w", name, err)
				}
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				// Fall back to a plain logger so the failure still reaches
				// the usual sink.
				observability.InitializeLogger(config.LoggerConfig{Level: "info", Format: "console", ServiceName: "ghostwriter"})
				return fmt.Errorf("failed to load config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting ghostwriter", zap.String("version", Version))

			// Stash the validated config for the subcommands.
			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.ghostwriter.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().Int64("seed", 0, "random seed; 0 draws one from the clock")
	rootCmd.PersistentFlags().Float64("wpm", 0, "target words per minute")
	rootCmd.PersistentFlags().String("preset", "", "persona preset: casual, average, fast, pro, godlike (overrides --wpm)")
	rootCmd.SetVersionTemplate(`ghostwriter version {{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newTypeCmd())
	rootCmd.AddCommand(newSimulateCmd())
	rootCmd.AddCommand(newReplayCmd(NewStoreProvider()))
	rootCmd.AddCommand(newProfileCmd())

	return rootCmd
}

// Execute runs the CLI under the given signal-aware context. The caller
// owns the exit code.
func Execute(ctx context.Context) error {
	root := NewRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		observability.GetLogger().Error("Command failed", zap.Error(err))
		return err
	}
	return nil
}

// loadConfigFile points viper at the named config file, or at the default
// search path ($HOME, then the working directory) when none is given, and
// layers the GHOSTWRITER_* environment on top.
func loadConfigFile(v *viper.Viper, cfgFile string) error {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := homedir.Dir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigName(".ghostwriter")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("GHOSTWRITER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
		// No config file on the search path; defaults and env apply.
	}
	return nil
}

// getConfigFromContext pulls the configuration stashed by the root
// PersistentPreRunE. Subcommands must be executed through the root command
// for it to exist.
func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, fmt.Errorf("configuration missing from command context")
	}
	return cfg, nil
}
