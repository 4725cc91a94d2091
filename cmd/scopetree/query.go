package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"scopetree/internal/driver"
)

var queryCmd = &cobra.Command{
	Use:   "query [flags] file.swift LINE:COL",
	Short: "Show the scopes around a position and the names visible there",
	Args:  cobra.ExactArgs(2),
	RunE:  runQuery,
}

func init() {
	buildFlags(queryCmd)
	queryCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

type queryScope struct {
	ID    uint32 `json:"id"`
	Kind  string `json:"kind"`
	Range string `json:"range"`
	What  string `json:"what,omitempty"`
}

type queryName struct {
	Name  string `json:"name"`
	Scope uint32 `json:"scope"`
	At    string `json:"at,omitempty"`
}

type queryPayload struct {
	File       string       `json:"file"`
	Position   string       `json:"position"`
	Offset     uint32       `json:"offset"`
	BodyParsed bool         `json:"body_parsed,omitempty"`
	Chain      []queryScope `json:"chain"`
	Names      []queryName  `json:"names"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	pos, err := driver.ParseLineCol(args[1])
	if err != nil {
		return err
	}
	opts, err := buildOptions(cmd)
	if err != nil {
		return err
	}

	res, err := driver.BuildFile(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}
	if err := printDiagnostics(cmd, res.Bag, res.FileSet); err != nil {
		return err
	}
	q, err := res.Query(pos)
	if err != nil {
		return err
	}
	payload := newQueryPayload(res, q)

	switch format {
	case "pretty":
		renderQueryPretty(os.Stdout, payload)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(payload); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	return printPhaseTimings(cmd, res.Timing)
}

func newQueryPayload(res *driver.BuildResult, q *driver.QueryResult) queryPayload {
	tree := res.Tree
	p := queryPayload{
		File:       res.File.Path,
		Position:   q.Pos.String(),
		Offset:     q.Offset,
		BodyParsed: q.BodyParsed,
		Chain:      make([]queryScope, 0, len(q.Chain)),
		Names:      make([]queryName, 0, len(q.Names)),
	}
	for _, id := range q.Chain {
		p.Chain = append(p.Chain, queryScope{
			ID:    uint32(id),
			Kind:  tree.Kind(id).String(),
			Range: tree.FormatRange(tree.SourceRange(id)),
			What:  tree.Describe(id),
		})
	}
	for _, n := range q.Names {
		qn := queryName{Name: n.Name, Scope: uint32(n.Scope)}
		if n.Span.IsValid() {
			qn.At = tree.FormatRange(n.Span)
		}
		p.Names = append(p.Names, qn)
	}
	return p
}

func renderQueryPretty(out io.Writer, p queryPayload) {
	fmt.Fprintf(out, "%s:%s (offset %d)\n", p.File, p.Position, p.Offset)
	if p.BodyParsed {
		fmt.Fprintln(out, "parsed a delayed body")
	}
	fmt.Fprintln(out, "scopes:")
	for _, s := range p.Chain {
		line := fmt.Sprintf("  %s #%d %s", s.Kind, s.ID, s.Range)
		if s.What != "" {
			line += " " + s.What
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintln(out, "visible:")
	seen := make(map[string]bool, len(p.Names))
	for _, n := range p.Names {
		mark := ""
		if seen[n.Name] {
			mark = " (shadowed)"
		}
		seen[n.Name] = true
		if n.At != "" {
			fmt.Fprintf(out, "  %s from #%d at %s%s\n", n.Name, n.Scope, n.At, mark)
		} else {
			fmt.Fprintf(out, "  %s from #%d%s\n", n.Name, n.Scope, mark)
		}
	}
}
