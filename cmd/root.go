package cmd

import (
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rowanarora/personal-website/internal/config"
)

//nolint:gochecknoglobals // Cobra boilerplate
var configFile string

//nolint:gochecknoglobals // Cobra boilerplate
var v = viper.New()

//nolint:gochecknoglobals // Cobra boilerplate
var rootCmd = &cobra.Command{
	Use:   "portfolio",
	Short: "Serve Rowan Arora's portfolio site",
	Long: `portfolio serves a single-page personal portfolio: profile, experience,
projects and the latest public GitHub repositories.

Running it without a subcommand is the same as "portfolio serve".`,
	SilenceUsage: true,
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		config.SetDefaults(v)
		return config.ReadFile(v, configFile)
	},
	RunE: runServe,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

//nolint:gochecknoinits // Cobra boilerplate
func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configFile, "config", "", "config file (default is ./.portfolio.yaml or $HOME/.portfolio.yaml)")
	flags.String("log-level", "info", "log level: debug, info, warn or error")
	flags.Bool("debug", false, "gin debug mode and human-readable logs")
	_ = v.BindPFlag("log-level", flags.Lookup("log-level"))
	_ = v.BindPFlag("debug", flags.Lookup("debug"))

	addServeFlags(rootCmd)
}

// newLogger writes JSON logs to w, or text logs in debug mode.
func newLogger(cfg config.Config, w io.Writer) *slog.Logger {
	level, _ := config.ParseLevel(cfg.LogLevel)
	opts := &slog.HandlerOptions{Level: level, ReplaceAttr: errorMessage}

	var handler slog.Handler = slog.NewJSONHandler(w, opts)
	if cfg.Debug {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// errorMessage logs errors by message. The text handler would otherwise
// format wrapped errors with %+v and print their stack traces.
func errorMessage(_ []string, a slog.Attr) slog.Attr {
	if a.Value.Kind() != slog.KindAny {
		return a
	}
	if err, ok := a.Value.Any().(error); ok {
		return slog.String(a.Key, err.Error())
	}
	return a
}
