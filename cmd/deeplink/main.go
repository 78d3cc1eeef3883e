package main

import (
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	"github.com/bft-labs/deeplink/internal/cliconfig"
	"github.com/bft-labs/deeplink/pkg/log"
)

const helpDescription = `
Route deeplinks through a set of demo screens.

Each mounted screen registers a handler with the dispatcher. A link that no
screen fully handles stays pending and is replayed to screens mounted later.

Input:
  - Positional arguments are dispatched in order.
  - With no arguments, or with "-", lines from stdin are dispatched.
  - ":mount <screen>", ":unmount <screen>" and ":status" lines drive the stage.
`

var exampleUsage = strings.TrimSpace(`
  deeplink app://inbox/42
  deeplink --config $HOME/.deeplink/config.toml --watch --metrics-addr :9102 -
  printf 'app://settings/privacy\n:mount settings\n' | deeplink
`)

func getVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" {
		return info.Main.Version
	}
	return "dev"
}

func newRootCommand() *cobra.Command {
	cfg := cliconfig.DefaultConfig()
	var cfgPath string

	root := &cobra.Command{
		Use:           "deeplink [link...]",
		Short:         "Route deeplinks through cooperating screens",
		Long:          strings.TrimSpace(helpDescription),
		Example:       exampleUsage,
		Version:       fmt.Sprintf("%s %s/%s", getVersion(), runtime.GOOS, runtime.GOARCH),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgFile := cfgPath
			if cfgFile == "" {
				cfgFile = cliconfig.DefaultConfigPath()
			}

			changed := map[string]bool{}
			cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

			if cfgFile != "" && cliconfig.FileExists(cfgFile) {
				fc, err := cliconfig.LoadFileConfig(cfgFile)
				if err != nil {
					return fmt.Errorf("load config: %w", err)
				}
				if err := cliconfig.ApplyFileConfig(&cfg, fc, changed); err != nil {
					return err
				}
			} else {
				cfgFile = ""
			}

			// DEEPLINK_* override the file, flags override both
			if err := cliconfig.ApplyEnvConfig(&cfg, changed); err != nil {
				return err
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			zl := cliconfig.Logger(cfg.Level())
			zl.Debug().Interface("config", cfg).Str("path", cfgFile).Msg("configuration")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, runConfig{
				Config:     cfg,
				ConfigPath: cfgFile,
				Args:       args,
				In:         cmd.InOrStdin(),
				Out:        cmd.OutOrStdout(),
				Logger:     log.NewZerologAdapterWithLogger(zl),
			})
		},
	}

	root.Flags().StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.deeplink/config.toml)")
	root.Flags().StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
	root.Flags().BoolVar(&cfg.Strict, "strict", cfg.Strict, "panic on unregister of an unknown handler")
	root.Flags().BoolVar(&cfg.Watch, "watch", cfg.Watch, "reload screens when the config file changes")
	root.Flags().DurationVar(&cfg.Debounce, "debounce", cfg.Debounce, "delay before reloading a changed config file")
	root.Flags().StringVar(&cfg.MetricsAddr, "metrics-addr", cfg.MetricsAddr, "serve /metrics and /debug/deeplink on this address")

	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		zl := cliconfig.Logger(zerolog.InfoLevel)
		zl.Error().Err(err).Msg("deeplink")
		os.Exit(1)
	}
}
