package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
)

const (
	ExitSuccess = 0
	ExitError   = 1
)

// ErrDeliveryFailed is returned when at least one notification could not be delivered
var ErrDeliveryFailed = errors.New("one or more notifications failed")

// Options holds the command-line settings of a run
type Options struct {
	ConfigPath    string
	EnvFile       string
	DatesFile     string
	LedgerPath    string
	LedgerBackend string
	DryRun        bool
	Format        string
	MetricsFile   string
	ICSFile       string
	LogLevel      string
	LogFormat     string
	Verbose       bool

	// LogOutput receives log lines; stderr when nil
	LogOutput io.Writer
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	opts := &Options{}

	cmd := &cobra.Command{
		Use:   "futsal-watch",
		Short: "Notify newly opened futsal tournament slots on LaBOLA",
		Long: `A CLI tool that checks LaBOLA for futsal tournament slots on a list of dates
and pushes a LINE message for every slot not reported before.
Each run reports only slots that were never delivered successfully.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, opts)
		},
	}

	// Define flags
	cmd.Flags().StringVar(&opts.ConfigPath, "config", "", "Path to a YAML config file")
	cmd.Flags().StringVar(&opts.EnvFile, "env-file", ".env", "Dotenv file seeding LINE credentials")
	cmd.Flags().StringVar(&opts.DatesFile, "dates-file", "", "Date list file, one YYYYMMDD per line (default data/dates.txt)")
	cmd.Flags().StringVar(&opts.LedgerPath, "ledger", "", "Ledger location (default data/sent_urls.txt)")
	cmd.Flags().StringVar(&opts.LedgerBackend, "ledger-backend", "", "Ledger backend: file or sqlite")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Print messages without sending or recording them")
	cmd.Flags().StringVar(&opts.Format, "format", "text", "Output format: text or json")
	cmd.Flags().StringVar(&opts.MetricsFile, "metrics-file", "", "Write run metrics to this file in Prometheus text format")
	cmd.Flags().StringVar(&opts.ICSFile, "ics", "", "Write delivered events to this iCalendar file")
	cmd.Flags().StringVar(&opts.LogLevel, "log-level", "info", "Log level: debug, info, warn or error")
	cmd.Flags().StringVar(&opts.LogFormat, "log-format", "json", "Log format: json or console")
	cmd.Flags().BoolVar(&opts.Verbose, "verbose", false, "Enable verbose logging (same as --log-level debug)")

	return cmd
}

// runCheck is the main command logic
func runCheck(cmd *cobra.Command, opts *Options) error {
	format := OutputFormat(strings.ToLower(opts.Format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", opts.Format)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := Run(ctx, opts, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	if result.Failed > 0 {
		return ErrDeliveryFailed
	}
	return nil
}

// Execute runs the CLI
func Execute() {
	if err := NewRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
	os.Exit(ExitSuccess)
}
