package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scopetree/internal/buildpipeline"
	"scopetree/internal/diag"
	"scopetree/internal/driver"
)

var indexCmd = &cobra.Command{
	Use:   "index [flags] directory",
	Short: "Build the scope trees of every source file in a directory",
	Long: `Index builds the scope tree of every *.swift file under a directory in
parallel. With --cache, files whose snapshot is already stored are skipped`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	buildFlags(indexCmd)
	indexCmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	mode := uiModeAuto
	indexCmd.Flags().Var(&mode, "ui", "progress UI (auto|on|off)")
	indexCmd.Flags().String("cache", "", `snapshot cache directory ("auto" for the user cache dir, empty to disable)`)
	indexCmd.Flags().Bool("expand-all", true, "expand every scope of every file")
}

func runIndex(cmd *cobra.Command, args []string) error {
	dir := args[0]
	f := cmd.Flags()

	mode := uiModeFlag(f)
	expandAll, err := f.GetBool("expand-all")
	if err != nil {
		return fmt.Errorf("failed to get expand-all flag: %w", err)
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return fmt.Errorf("failed to get quiet flag: %w", err)
	}
	showTimings, err := cmd.Root().PersistentFlags().GetBool("timings")
	if err != nil {
		return fmt.Errorf("failed to get timings flag: %w", err)
	}
	jobs, err := jobsFlag(cmd)
	if err != nil {
		return err
	}
	cache, err := openCache(cmd)
	if err != nil {
		return err
	}
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	opts.ExpandAll = expandAll
	opts.Cache = cache

	st, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("failed to stat path: %w", err)
	}
	if !st.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	req := &buildpipeline.IndexRequest{Dir: dir, Options: opts, Jobs: jobs}
	var res buildpipeline.IndexResult
	if mode.useTUI() && !quiet {
		files, err := buildpipeline.ListFiles(req)
		if err != nil {
			return err
		}
		res, err = runIndexWithUI(cmd.Context(), "index "+dir, files, req)
		if err != nil {
			return err
		}
	} else {
		res, err = buildpipeline.Index(cmd.Context(), req)
		if err != nil {
			return err
		}
	}

	bags := make([]*diag.Bag, 0, len(res.Results))
	for i, r := range res.Results {
		if r == nil {
			continue
		}
		bags = append(bags, r.Bag)
		if !quiet {
			fmt.Fprintln(os.Stdout, describeIndexed(res.Files[i], r))
		}
	}
	if err := printDiagnostics(cmd, mergeDiagnostics(opts.Parse.MaxDiagnostics, bags...), res.FileSet); err != nil {
		return err
	}
	if !quiet {
		fmt.Fprintf(os.Stdout, "indexed %d files (%d cached, %d failed) in %.1f ms\n",
			len(res.Results), res.CacheHits, res.Failed, toMillis(res.Elapsed))
	}
	if showTimings {
		printStageTimings(cmd.ErrOrStderr(), res.Timings)
	}
	if res.Failed > 0 {
		return fmt.Errorf("%d files failed", res.Failed)
	}
	return nil
}

func describeIndexed(file string, r *driver.BuildResult) string {
	var line string
	switch {
	case r.CacheHit && r.Snapshot != nil:
		line = fmt.Sprintf("%s: %d scopes (cached)", file, len(r.Snapshot.Nodes))
	case r.Tree != nil:
		line = fmt.Sprintf("%s: %d scopes", file, r.Tree.Live())
	default:
		line = file + ": failed"
	}
	if r.Bag != nil {
		if n := r.Bag.Count(diag.SevError); n > 0 {
			line += fmt.Sprintf(", %d errors", n)
		}
	}
	return line
}
