package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"scopetree/internal/diagfmt"
	"scopetree/internal/driver"
	"scopetree/internal/observ"
	"scopetree/internal/snapshot"
)

var dumpCmd = &cobra.Command{
	Use:   "dump [flags] file.swift",
	Short: "Build the scope tree of a file and print it",
	Long: `Dump builds the scope tree of a source file and prints it as indented
text, as a tree with connectors, or as a msgpack snapshot`,
	Args: cobra.ExactArgs(1),
	RunE: runDump,
}

func init() {
	buildFlags(dumpCmd)
	dumpCmd.Flags().String("format", "pretty", "output format (text|pretty|msgpack)")
	dumpCmd.Flags().Bool("expand-all", true, "expand every scope before printing; otherwise only the root's children are shown")
	dumpCmd.Flags().Bool("addresses", false, "print the id of every scope")
	dumpCmd.Flags().Bool("names", false, "list the names each scope introduces")
	dumpCmd.Flags().StringP("output", "o", "", "write to this file instead of stdout")
}

func runDump(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	format, err := f.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	expandAll, err := f.GetBool("expand-all")
	if err != nil {
		return fmt.Errorf("failed to get expand-all flag: %w", err)
	}
	addresses, err := f.GetBool("addresses")
	if err != nil {
		return fmt.Errorf("failed to get addresses flag: %w", err)
	}
	if !f.Changed("addresses") && settings != nil {
		addresses = settings.Config.Dump.Addresses
	}
	names, err := f.GetBool("names")
	if err != nil {
		return fmt.Errorf("failed to get names flag: %w", err)
	}
	output, err := f.GetString("output")
	if err != nil {
		return fmt.Errorf("failed to get output flag: %w", err)
	}
	switch format {
	case "text", "pretty", "msgpack":
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	opts.ExpandAll = expandAll
	opts.Snapshot = format == "msgpack"

	res, err := driver.BuildFile(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if err := printDiagnostics(cmd, res.Bag, res.FileSet); err != nil {
		return err
	}

	out := io.Writer(os.Stdout)
	color := false
	if output != "" {
		file, err := os.Create(output) // #nosec G304 -- path comes from the command line
		if err != nil {
			return fmt.Errorf("failed to create output: %w", err)
		}
		defer file.Close()
		out = file
	} else if color, err = useColor(cmd, os.Stdout); err != nil {
		return err
	}

	switch format {
	case "text":
		err = res.Tree.Dump(out, res.Tree.Root())
	case "pretty":
		err = diagfmt.ScopeTree(out, res.Tree, res.Tree.Root(), diagfmt.TreeOpts{
			Color:     color,
			Addresses: addresses,
			Names:     names,
		})
	case "msgpack":
		err = snapshot.Encode(out, res.Snapshot)
	}
	if err != nil {
		return err
	}

	if err := printPhaseTimings(cmd, res.Timing); err != nil {
		return err
	}
	if res.Bag.HasErrors() {
		return driver.ErrHasErrors
	}
	return nil
}

// printPhaseTimings writes the per-phase report of a single-file run to
// stderr when --timings is set.
func printPhaseTimings(cmd *cobra.Command, report *observ.Report) error {
	if report == nil {
		return nil
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if quiet {
		return nil
	}
	return report.WriteText(cmd.ErrOrStderr())
}
