package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"scopetree/internal/config"
	"scopetree/internal/driver"
	"scopetree/internal/snapshot"
)

// settings is the loaded scopetree.toml, nil when there is none.
var settings *config.Manifest

func configFileName() string { return config.FileName }

func loadSettings(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	noConfig, err := pf.GetBool("no-config")
	if err != nil {
		return fmt.Errorf("failed to get no-config flag: %w", err)
	}
	if noConfig {
		settings = nil
		return nil
	}
	path, err := pf.GetString("config")
	if err != nil {
		return fmt.Errorf("failed to get config flag: %w", err)
	}
	if path != "" {
		m, err := config.Load(path)
		if err != nil {
			return err
		}
		settings = m
		return nil
	}
	m, _, err := config.Discover(".")
	if err != nil {
		return err
	}
	settings = m
	return nil
}

// buildFlags registers the flags shared by the commands that build trees.
func buildFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceP("define", "D", nil, "conditional compilation flag treated as set (repeatable)")
	f.Bool("include-inactive", false, "keep scopes for inactive #if branches")
	f.Bool("delay-bodies", false, "skip function bodies until a query needs them")
	f.Bool("verify", false, "check tree invariants and report violations")
}

// buildOptions merges the settings file with the command line; explicit
// flags win.
func buildOptions(cmd *cobra.Command) (driver.BuildOptions, error) {
	var opts driver.BuildOptions
	f := cmd.Flags()

	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return opts, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}
	opts.Parse.MaxDiagnostics = maxDiagnostics
	opts.EnableTimings = timings

	if settings != nil {
		b := settings.Config.Build
		opts.Parse.Defines = settings.Config.DefineSet()
		opts.Parse.DelayBodies = b.DelayBodies
		opts.IncludeInactive = b.IncludeInactive
		opts.Verify = b.Verify
	}

	if f.Changed("define") {
		defines, err := f.GetStringSlice("define")
		if err != nil {
			return opts, fmt.Errorf("failed to get define flag: %w", err)
		}
		set := make(map[string]bool, len(defines))
		for _, d := range defines {
			set[d] = true
		}
		opts.Parse.Defines = set
	}
	for _, b := range []struct {
		name string
		dst  *bool
	}{
		{"include-inactive", &opts.IncludeInactive},
		{"delay-bodies", &opts.Parse.DelayBodies},
		{"verify", &opts.Verify},
	} {
		if !f.Changed(b.name) {
			continue
		}
		v, err := f.GetBool(b.name)
		if err != nil {
			return opts, fmt.Errorf("failed to get %s flag: %w", b.name, err)
		}
		*b.dst = v
	}
	return opts, nil
}

// jobsFlag returns --jobs, falling back to [build].jobs.
func jobsFlag(cmd *cobra.Command) (int, error) {
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return 0, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if !cmd.Flags().Changed("jobs") && settings != nil && settings.Defined("build", "jobs") {
		jobs = settings.Config.Build.Jobs
	}
	return jobs, nil
}

// openCache resolves --cache: "" disables it, "auto" uses the user cache
// directory, anything else is a directory path.
func openCache(cmd *cobra.Command) (*snapshot.Cache, error) {
	dir, err := cmd.Flags().GetString("cache")
	if err != nil {
		return nil, fmt.Errorf("failed to get cache flag: %w", err)
	}
	switch dir {
	case "":
		return nil, nil
	case "auto":
		return snapshot.OpenCache("scopetree")
	default:
		return snapshot.OpenCacheDir(dir)
	}
}
