package main

import (
	"cmp"
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"scopetree/internal/snapshot"
	"scopetree/internal/version"
)

// versionInfo is what the version command knows about this binary.
type versionInfo struct {
	Version   string
	GitCommit string
	BuildDate string
	GoVersion string
	Schema    uint16
}

// versionPayload is the --format=json shape.
type versionPayload struct {
	Tool      string `json:"tool"`
	Version   string `json:"version"`
	Schema    uint16 `json:"snapshot_schema"`
	GitCommit string `json:"git_commit,omitempty"`
	BuildDate string `json:"build_date,omitempty"`
	GoVersion string `json:"go_version,omitempty"`
}

type versionOptions struct {
	format  string
	details bool
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show the scopetree version and snapshot schema",
	Args:  cobra.NoArgs,
	RunE:  runVersion,
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	versionCmd.Flags().Bool("full", false, "include commit, build date and Go version")
}

func runVersion(cmd *cobra.Command, _ []string) error {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("failed to get full flag: %w", err)
	}
	opts := versionOptions{format: strings.ToLower(format), details: full}
	info := collectVersionInfo()
	switch opts.format {
	case "json":
		return renderVersionJSON(cmd.OutOrStdout(), info, opts)
	case "pretty":
		renderVersionPretty(cmd.OutOrStdout(), info, opts)
		return nil
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}

// collectVersionInfo берёт ldflags, а коммит и дату при их отсутствии
// достаёт из vcs-информации сборки
func collectVersionInfo() versionInfo {
	info := versionInfo{
		Version:   cmp.Or(strings.TrimSpace(version.Version), "dev"),
		GitCommit: strings.TrimSpace(version.GitCommit),
		BuildDate: strings.TrimSpace(version.BuildDate),
		GoVersion: runtime.Version(),
		Schema:    snapshot.SchemaVersion,
	}
	if bi, ok := debug.ReadBuildInfo(); ok {
		for _, s := range bi.Settings {
			switch s.Key {
			case "vcs.revision":
				info.GitCommit = cmp.Or(info.GitCommit, s.Value)
			case "vcs.time":
				info.BuildDate = cmp.Or(info.BuildDate, s.Value)
			}
		}
	}
	return info
}

func renderVersionPretty(out io.Writer, info versionInfo, opts versionOptions) {
	fmt.Fprintf(out, "scopetree %s (snapshot schema %d)\n", version.Colored(), info.Schema)
	if !opts.details {
		return
	}
	fmt.Fprintf(out, "commit: %s\n", cmp.Or(info.GitCommit, "unknown"))
	fmt.Fprintf(out, "built:  %s\n", cmp.Or(info.BuildDate, "unknown"))
	fmt.Fprintf(out, "go:     %s\n", info.GoVersion)
}

func renderVersionJSON(out io.Writer, info versionInfo, opts versionOptions) error {
	payload := versionPayload{Tool: "scopetree", Version: info.Version, Schema: info.Schema}
	if opts.details {
		payload.GitCommit = cmp.Or(info.GitCommit, "unknown")
		payload.BuildDate = cmp.Or(info.BuildDate, "unknown")
		payload.GoVersion = info.GoVersion
	}
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(payload)
}
