package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scopetree/internal/diagfmt"
	"scopetree/internal/driver"
	"scopetree/internal/snapshot"
)

var growCmd = &cobra.Command{
	Use:   "grow [flags] base.swift extra.swift...",
	Short: "Build a tree and extend it with appended declarations",
	Long: `Grow builds the scope tree of base.swift, then appends every extra file
to it in order and extends the tree incrementally after each one. With
--verify every step is checked against a fresh build of the whole text`,
	Args: cobra.MinimumNArgs(2),
	RunE: runGrow,
}

func init() {
	buildFlags(growCmd)
	growCmd.Flags().Bool("expand-all", false, "expand every scope after each step")
	growCmd.Flags().Bool("print", false, "print the final tree")
	growCmd.Flags().Int("max-diffs", 10, "maximum number of differences to show per step")
}

func runGrow(cmd *cobra.Command, args []string) error {
	f := cmd.Flags()
	expandAll, err := f.GetBool("expand-all")
	if err != nil {
		return fmt.Errorf("failed to get expand-all flag: %w", err)
	}
	printTree, err := f.GetBool("print")
	if err != nil {
		return fmt.Errorf("failed to get print flag: %w", err)
	}
	maxDiffs, err := f.GetInt("max-diffs")
	if err != nil {
		return fmt.Errorf("failed to get max-diffs flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	opts.ExpandAll = expandAll

	res, steps, growErr := driver.Grow(cmd.Context(), args[0], args[1:], opts)
	if res != nil {
		if err := printDiagnostics(cmd, res.Bag, res.FileSet); err != nil {
			return err
		}
	}

	mismatched := 0
	for _, step := range steps {
		if len(step.Diffs) > 0 {
			mismatched++
		}
		if quiet && len(step.Diffs) == 0 {
			continue
		}
		fmt.Fprintf(os.Stdout, "%s: +%d decls, %d -> %d scopes, %.2f ms\n",
			step.Path, step.Decls, step.Before, step.After, toMillis(step.Elapsed))
		if len(step.Diffs) > 0 {
			fmt.Fprint(os.Stdout, snapshot.Format(step.Diffs, maxDiffs))
		}
	}
	if growErr != nil {
		return growErr
	}

	if printTree {
		color, err := useColor(cmd, os.Stdout)
		if err != nil {
			return err
		}
		if err := diagfmt.ScopeTree(os.Stdout, res.Tree, res.Tree.Root(), diagfmt.TreeOpts{Color: color}); err != nil {
			return err
		}
	}
	if err := printPhaseTimings(cmd, res.Timing); err != nil {
		return err
	}
	if mismatched > 0 {
		return fmt.Errorf("%d of %d steps differ from a fresh build", mismatched, len(steps))
	}
	if res.Bag.HasErrors() {
		return driver.ErrHasErrors
	}
	return nil
}
