package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pfrederiksen/futsal-watch/internal/calendar"
	"github.com/pfrederiksen/futsal-watch/internal/config"
	"github.com/pfrederiksen/futsal-watch/internal/event"
	"github.com/pfrederiksen/futsal-watch/internal/ledger"
	"github.com/pfrederiksen/futsal-watch/internal/line"
	"github.com/pfrederiksen/futsal-watch/internal/logger"
	"github.com/pfrederiksen/futsal-watch/internal/metrics"
	"github.com/pfrederiksen/futsal-watch/internal/notifier"
	"github.com/pfrederiksen/futsal-watch/internal/scraper"
	"github.com/pfrederiksen/futsal-watch/internal/storage"
)

// Run performs one complete check: scrape every date, deliver unseen events and
// record the delivered ones. The summary is written to out.
//
// Errors are returned only for setup failures. Failed fetches, malformed cards and
// failed deliveries are logged and reflected in the result.
func Run(ctx context.Context, opts *Options, out io.Writer) (*RunResult, error) {
	started := time.Now()
	runID := uuid.NewString()

	log, err := newLogger(opts)
	if err != nil {
		return nil, err
	}
	log = log.With(logger.Fields{"run_id": runID})

	if err := config.LoadEnvFile(opts.EnvFile); err != nil {
		return nil, err
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	m := metrics.New()

	dates := loadDates(cfg.DatesFile, log)

	store, err := storage.Open(storage.Backend(cfg.Ledger.Backend), cfg.Ledger.Path)
	if err != nil {
		return nil, fmt.Errorf("opening ledger store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Warn("Error closing ledger store", logger.Fields{"error": err.Error()})
		}
	}()

	led, err := ledger.Open(store)
	if err != nil {
		return nil, err
	}
	m.SetLedgerEntries(led.Len())
	log.Debug("Ledger loaded", logger.Fields{
		"backend": cfg.Ledger.Backend,
		"path":    cfg.Ledger.Path,
		"entries": led.Len(),
	})

	sc, err := scraper.New(cfg.ScraperConfig(), scraper.WithLogger(log), scraper.WithMetrics(m))
	if err != nil {
		return nil, fmt.Errorf("initializing scraper: %w", err)
	}

	log.Info("Scraping events", logger.Fields{"dates": len(dates)})
	found := uniqueByURL(slices.Collect(sc.Events(ctx, dates)))
	for range found {
		m.EventFound()
	}

	result := &RunResult{
		RunID:     runID,
		CheckedAt: started.UTC(),
		Dates:     dates,
		Found:     len(found),
		DryRun:    opts.DryRun,
	}

	fresh := led.FilterNew(found)
	if len(fresh) > 0 {
		d := &notifier.Dispatcher{
			Ledger:     led,
			Notifier:   newNotifier(cfg, opts, out, log),
			Log:        log,
			Metrics:    m,
			SkipCommit: opts.DryRun,
		}
		res := d.Run(ctx, fresh)
		result.Delivered = res.Delivered
		result.FailedEvents = res.Failed
	}
	result.NewEvents = fresh
	result.Sent = len(result.Delivered)
	result.Failed = len(result.FailedEvents)

	log.Info("Run complete", logger.Fields{
		"found":  result.Found,
		"new":    len(fresh),
		"sent":   result.Sent,
		"failed": result.Failed,
	})

	// dry runs deliver nothing, so there is nothing to put in the calendar
	if opts.ICSFile != "" && !opts.DryRun && len(result.Delivered) > 0 {
		if err := calendar.WriteFile(opts.ICSFile, result.Delivered, cfg.Notify.FallbackFacility); err != nil {
			log.Warn("Failed to write calendar file", logger.Fields{
				"path":  opts.ICSFile,
				"error": err.Error(),
			})
		}
	}

	m.RunFinished(started)
	if opts.MetricsFile != "" {
		if err := m.WriteTextfile(opts.MetricsFile); err != nil {
			log.Warn("Failed to write metrics file", logger.Fields{
				"path":  opts.MetricsFile,
				"error": err.Error(),
			})
		}
	}

	if err := WriteOutput(out, result, outputFormat(opts), opts.Verbose); err != nil {
		return result, fmt.Errorf("writing output: %w", err)
	}

	return result, nil
}

// uniqueByURL keeps the first event for each URL. A slot can be listed under
// several dates.
func uniqueByURL(events []*event.Event) []*event.Event {
	seen := make(map[string]struct{}, len(events))
	unique := make([]*event.Event, 0, len(events))
	for _, evt := range events {
		if _, ok := seen[evt.URL]; ok {
			continue
		}
		seen[evt.URL] = struct{}{}
		unique = append(unique, evt)
	}
	return unique
}

func outputFormat(opts *Options) OutputFormat {
	if opts.Format == "" {
		return FormatText
	}
	return OutputFormat(strings.ToLower(opts.Format))
}

func newLogger(opts *Options) (*logger.Logger, error) {
	level, err := logger.ParseLevel(opts.LogLevel)
	if err != nil {
		return nil, err
	}
	if opts.Verbose {
		level = logger.LevelDebug
	}

	w := opts.LogOutput
	if w == nil {
		w = os.Stderr
	}
	return logger.NewWithFormat(level, logger.Format(opts.LogFormat), w)
}

// loadConfig reads the config file and applies flag overrides
func loadConfig(opts *Options) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}

	if opts.DatesFile != "" {
		cfg.DatesFile = opts.DatesFile
	}
	if opts.LedgerPath != "" {
		cfg.Ledger.Path = opts.LedgerPath
	}
	if opts.LedgerBackend != "" {
		cfg.Ledger.Backend = opts.LedgerBackend
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// loadDates reads the date list; a missing or unreadable file yields no dates
func loadDates(path string, log *logger.Logger) []string {
	list, err := event.LoadDates(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			log.Warn("Dates file not found, nothing to check", logger.Fields{"path": path})
		} else {
			log.Error("Failed to read dates file", logger.Fields{"path": path}, err)
		}
		return nil
	}

	for _, raw := range list.Invalid {
		log.Warn("Invalid date format", logger.Fields{"line": raw})
	}
	if len(list.Dates) == 0 {
		log.Warn("No dates to scrape", logger.Fields{"path": path})
	}
	return list.Dates
}

// newNotifier picks the delivery channel for this run
func newNotifier(cfg *config.Config, opts *Options, out io.Writer, log *logger.Logger) notifier.Notifier {
	if opts.DryRun {
		w := out
		if outputFormat(opts) == FormatJSON {
			// keep stdout valid JSON
			w = os.Stderr
		}
		return notifier.NewDryRunNotifier(w, cfg.Notify.FallbackFacility)
	}

	creds := config.CredentialsFromEnv()
	client, err := line.NewClient(creds.ChannelAccessToken, creds.UserID,
		line.WithBaseURL(cfg.Notify.BaseURL),
		line.WithTimeout(cfg.Notify.Timeout),
	)
	if err != nil {
		return notifier.Unavailable(err)
	}
	return notifier.NewLineNotifier(client, cfg.Notify.FallbackFacility)
}
