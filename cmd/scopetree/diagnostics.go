package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scopetree/internal/diag"
	"scopetree/internal/diagfmt"
	"scopetree/internal/source"
)

// printDiagnostics выводит диагностику в stderr, если в ней есть ошибки
// или предупреждения. --diag-format short prints one line per entry.
func printDiagnostics(cmd *cobra.Command, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || fs == nil {
		return nil
	}
	pf := cmd.Root().PersistentFlags()
	noWarnings, err := pf.GetBool("no-warnings")
	if err != nil {
		return fmt.Errorf("failed to get no-warnings flag: %w", err)
	}
	format, err := pf.GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	if noWarnings {
		bag.Filter(func(d diag.Diagnostic) bool { return d.Severity != diag.SevWarning })
	}
	if !bag.HasErrors() && !bag.HasWarnings() {
		return nil
	}
	bag.Sort()
	bag.Dedup()

	switch format {
	case "short":
		if out := diag.FormatGoldenDiagnostics(bag.Items(), fs, false); out != "" {
			fmt.Fprintln(os.Stderr, out)
		}
		return nil
	case "pretty":
		color, err := useColor(cmd, os.Stderr)
		if err != nil {
			return err
		}
		diagfmt.Pretty(os.Stderr, bag, fs, diagfmt.PrettyOpts{
			Color:     color,
			Context:   2,
			ShowNotes: true,
			ShowFixes: true,
		})
		return nil
	default:
		return fmt.Errorf("unknown diagnostics format: %s (expected pretty|short)", format)
	}
}

// mergeDiagnostics collects the diagnostics of several files into one bag.
func mergeDiagnostics(limit int, bags ...*diag.Bag) *diag.Bag {
	all := diag.NewBag(limit * max(len(bags), 1))
	for _, b := range bags {
		if b != nil {
			all.Merge(b)
		}
	}
	return all
}
