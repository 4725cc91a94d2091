package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"scopetree/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "scopetree",
	Short: "Lazy lexical scope trees for Swift-like sources",
	Long: `scopetree builds the lexical scope tree of a source file on demand,
answers "what is visible here" queries and extends the tree incrementally
when declarations are appended`,
	SilenceUsage:      true,
	PersistentPreRunE: prepareRun,
}

// cleanups запускаются после Execute, даже если команда вернула ошибку
var cleanups []func()

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(version.String() + "\n")

	// Добавляем команды
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(growCmd)
	rootCmd.AddCommand(indexCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("diag-format", "pretty", "diagnostics format (pretty|short)")
	pf.Bool("no-warnings", false, "hide warnings")
	pf.String("config", "", "path to "+configFileName()+" (default: search upward from the working directory)")
	pf.Bool("no-config", false, "ignore any settings file")

	// Трассировка
	pf.String("trace", "", "write trace events to this file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage mode (stream|ring|both)")
	pf.String("trace-format", "auto", "trace output format (auto|text|ndjson|chrome)")
	pf.Int("trace-ring-size", 4096, "ring buffer size for --trace-mode=ring|both")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval (0=off)")

	// Профилирование
	pf.String("cpu-profile", "", "write a CPU profile to this file")
	pf.String("mem-profile", "", "write a heap profile to this file on exit")
	pf.String("runtime-trace", "", "write a Go runtime trace to this file")
}

// main runs the root command, then the cleanups registered by prepareRun,
// and exits with status 1 on error.
func main() {
	err := rootCmd.Execute()
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	if err != nil {
		os.Exit(1)
	}
}

// prepareRun loads settings and starts tracing and profiling for every
// subcommand.
func prepareRun(cmd *cobra.Command, _ []string) error {
	if err := loadSettings(cmd); err != nil {
		return err
	}
	traceCleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, traceCleanup)
	profCleanup, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, profCleanup)
	return nil
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// useColor resolves --color (or [dump].color from the settings file) for f.
func useColor(cmd *cobra.Command, f *os.File) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	if !cmd.Root().PersistentFlags().Changed("color") && settings != nil && settings.Config.Dump.Color != "" {
		colorFlag = settings.Config.Dump.Color
	}
	switch colorFlag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "", "auto":
		return isTerminal(f), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}
