// cmd/notifydocs/root.go
package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"notifydocs/internal/builder"
	"notifydocs/internal/config"
	"notifydocs/internal/scaffold"
)

// settings are the tool's own options. They come from flags and from
// NOTIFYDOCS_* environment variables.
type settings struct {
	Config   string `mapstructure:"config"`
	Theme    string `mapstructure:"theme"`
	Debug    bool   `mapstructure:"debug"`
	Unsafe   bool   `mapstructure:"unsafe"`
	LogLevel string `mapstructure:"log-level"`
	Port     int    `mapstructure:"port"`
	Format   string `mapstructure:"format"`
}

type app struct {
	v   *viper.Viper
	cfg settings
	log zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{v: viper.New()}

	rootCmd := &cobra.Command{
		Use:           "notifydocs",
		Short:         "notifydocs builds the use-notify documentation site",
		Long:          "notifydocs renders Markdown content into a static documentation site\nwith the navigation, sidebars and footer declared in site.yaml.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("config", configFile, "site config file")
	flags.String("theme", scaffold.DefaultTheme, "theme directory under templates/")
	flags.Bool("debug", false, "enable debug logging")
	flags.Bool("unsafe", false, "disable HTML sanitization, allowing all raw HTML")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(
		newBuildCmd(a),
		newServeCmd(a),
		newCheckCmd(a),
		newConfigCmd(a),
		newNewCmd(a),
	)
	return rootCmd
}

func (a *app) initialize(cmd *cobra.Command) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("failed to bind flags: %w", err)
	}
	a.v.SetEnvPrefix("NOTIFYDOCS")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if err := a.v.Unmarshal(&a.cfg); err != nil {
		return fmt.Errorf("unable to decode settings: %w", err)
	}

	level, err := zerolog.ParseLevel(a.cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", a.cfg.LogLevel, err)
	}
	if a.cfg.Debug {
		level = zerolog.DebugLevel
	}
	a.log = newLogger(cmd.ErrOrStderr(), level)
	return nil
}

func newLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
		Level(level).With().Timestamp().Logger()
}

func (a *app) buildOptions() builder.BuildOptions {
	return builder.BuildOptions{
		Unsafe: a.cfg.Unsafe,
		Logger: a.log,
	}
}

// loadSite reads and validates the site config.
func (a *app) loadSite() (config.SiteConfig, error) {
	site, err := config.LoadSiteConfig(a.cfg.Config)
	if err != nil {
		return config.SiteConfig{}, fmt.Errorf("failed to load site config: %w", err)
	}
	if err := config.Validate(site); err != nil {
		return site, err
	}
	return site, nil
}

// buildInto renders the site into dir.
func (a *app) buildInto(dir string, site config.SiteConfig, opts builder.BuildOptions) (int, error) {
	tmpl, err := builder.LoadTemplates(templateDir, a.cfg.Theme)
	if err != nil {
		return 0, fmt.Errorf("failed to load templates: %w", err)
	}
	pageCount, err := builder.BuildSite(dir, contentDir, staticDir, site, tmpl, opts)
	if err != nil {
		return 0, fmt.Errorf("site generation failed: %w", err)
	}
	return pageCount, nil
}
