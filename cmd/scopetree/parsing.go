package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scopetree/internal/diagfmt"
	"scopetree/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.swift",
	Short: "Parse a source file and print its syntax outline",
	Args:  cobra.ExactArgs(1),
	RunE:  runParse,
}

func init() {
	buildFlags(parseCmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}
	result, err := driver.Parse(args[0], opts.Parse)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}
	if err := diagfmt.FormatASTPretty(os.Stdout, result.Builder, result.FileID, result.FileSet); err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return driver.ErrHasErrors
	}
	return nil
}
