package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"scopetree/internal/diagfmt"
	"scopetree/internal/driver"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.swift",
	Short: "Tokenize a source file",
	Long: `Tokenize prints the token stream of a file, indented by brace depth.
A '{' opens the scope its contents are attached to`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Tokenize(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}
	if err := printDiagnostics(cmd, result.Bag, result.FileSet); err != nil {
		return err
	}

	switch format {
	case "pretty":
		if err := diagfmt.FormatTokensPretty(os.Stdout, result.Tokens, result.FileSet); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "%d tokens, max brace depth %d\n", len(result.Tokens), result.MaxDepth)
	case "json":
		return diagfmt.FormatTokensJSON(os.Stdout, result.Tokens, result.FileSet)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if result.Bag.HasErrors() {
		return driver.ErrHasErrors
	}
	return nil
}
