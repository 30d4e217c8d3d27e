// cmd/notifydocs/commands.go
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"notifydocs/internal/builder"
	"notifydocs/internal/config"
	"notifydocs/internal/linkcheck"
	"notifydocs/internal/scaffold"
	"notifydocs/internal/server"
)

func newBuildCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "build",
		Short: "Generate the site into public/",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := a.loadSite()
			if err != nil {
				return err
			}
			opts := a.buildOptions()
			opts.CleanDestination = true
			pageCount, err := a.buildInto(outputDir, site, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✅ Success! Generated %d pages.\n", pageCount)
			return nil
		},
	}
}

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run a local preview server with auto-rebuild",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			buildFunc := func(opts builder.BuildOptions) error {
				site, err := a.loadSite()
				if err != nil {
					return err
				}
				pageCount, err := a.buildInto(outputDir, site, opts)
				if err != nil {
					return err
				}
				a.log.Info().Int("pages", pageCount).Msg("site built")
				return nil
			}
			cfg := server.Config{
				Port:       a.cfg.Port,
				OutputDir:  outputDir,
				WatchPaths: []string{contentDir, templateDir, staticDir, a.cfg.Config},
			}
			return server.Run(cmd.Context(), cfg, buildFunc, a.buildOptions())
		},
	}
	cmd.Flags().Int("port", 1313, "port for the preview server")
	return cmd
}

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the site config and verify that every declared link resolves",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			site, err := a.loadSite()
			var verr *config.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems {
					fmt.Fprintln(out, "config:", p)
				}
				return fmt.Errorf("%d config problem(s)", len(verr.Problems))
			}
			if err != nil {
				return err
			}

			dir, err := os.MkdirTemp("", "notifydocs-check-")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)

			if _, err := a.buildInto(dir, site, a.buildOptions()); err != nil {
				return err
			}
			problems := linkcheck.Check(site, dir)
			for _, p := range problems {
				fmt.Fprintln(out, "link:", p)
			}
			if len(problems) > 0 {
				return fmt.Errorf("%d broken link(s)", len(problems))
			}
			fmt.Fprintln(out, "✅ Config valid, all links resolve.")
			return nil
		},
	}
}

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective site config",
		Long:  "Print the site config as YAML or JSON. Without a site file the built-in use-notify config is printed.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			site, err := config.LoadSiteConfig(a.cfg.Config)
			if errors.Is(err, os.ErrNotExist) {
				a.log.Debug().Str("path", a.cfg.Config).Msg("no site file, using built-in config")
				site, err = config.Default(), nil
			}
			if err != nil {
				return err
			}

			var data []byte
			switch a.cfg.Format {
			case "yaml":
				data, err = config.Marshal(site)
			case "json":
				data, err = config.MarshalJSON(site)
			default:
				return fmt.Errorf("unknown format %q, want yaml or json", a.cfg.Format)
			}
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().String("format", "yaml", "output format: yaml or json")
	return cmd
}

func newNewCmd(a *app) *cobra.Command {
	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Create a new site or page",
	}
	newCmd.AddCommand(
		&cobra.Command{
			Use:   "site <name>",
			Short: "Create a new site scaffold",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := scaffold.CreateNewSite(args[0], a.log); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Site scaffolded. You can now:\n  cd %s\n  notifydocs serve\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "page <section> <title>",
			Short: "Create a page from the default archetype",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				path, err := scaffold.CreateNewContent(args[0], args[1], a.cfg.Config, a.log)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Created:", path)
				return nil
			},
		},
	)
	return newCmd
}
