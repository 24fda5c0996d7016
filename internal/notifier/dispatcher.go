package notifier

import (
	"context"
	"errors"

	"github.com/pfrederiksen/futsal-watch/internal/event"
	"github.com/pfrederiksen/futsal-watch/internal/ledger"
	"github.com/pfrederiksen/futsal-watch/internal/line"
	"github.com/pfrederiksen/futsal-watch/internal/logger"
	"github.com/pfrederiksen/futsal-watch/internal/metrics"
)

// Dispatcher delivers unseen events and commits them to the ledger
type Dispatcher struct {
	Ledger   *ledger.Ledger
	Notifier Notifier
	Log      *logger.Logger
	Metrics  *metrics.Metrics

	// SkipCommit leaves the ledger untouched after a delivery (dry runs)
	SkipCommit bool
}

// Result counts the outcome of a dispatch
type Result struct {
	Delivered []*event.Event
	Failed    []*event.Event
}

// Dispatch delivers every event the ledger has not seen, in order, and returns the
// number of successful and failed deliveries
func (d *Dispatcher) Dispatch(ctx context.Context, events []*event.Event) (succeeded, failed int) {
	res := d.Run(ctx, events)
	return len(res.Delivered), len(res.Failed)
}

// Run is Dispatch returning the events themselves
func (d *Dispatcher) Run(ctx context.Context, events []*event.Event) *Result {
	log := d.Log
	if log == nil {
		log = logger.Default()
	}

	res := &Result{}
	attempted := make(map[string]struct{})
	configReported := false

	for _, evt := range d.Ledger.FilterNew(events) {
		// the same URL can be listed under several dates
		if _, ok := attempted[evt.URL]; ok || !d.Ledger.IsNew(evt) {
			log.Debug("Skipping event already handled this run", logger.Fields{"url": evt.URL})
			continue
		}
		attempted[evt.URL] = struct{}{}

		err := d.Notifier.Notify(ctx, evt)
		if err != nil {
			d.Metrics.NotificationSent(false)
			res.Failed = append(res.Failed, evt)

			if errors.Is(err, line.ErrMissingCredentials) {
				if !configReported {
					log.Error("Notification channel not configured", nil, err)
					configReported = true
				}
				continue
			}

			log.Error("Failed to deliver notification", logger.Fields{
				"url":   evt.URL,
				"date":  evt.Date,
				"title": evt.Title,
			}, err)
			continue
		}

		d.Metrics.NotificationSent(true)
		res.Delivered = append(res.Delivered, evt)
		log.Info("Notification delivered", logger.Fields{
			"url":  evt.URL,
			"date": evt.Date,
		})

		if d.SkipCommit {
			continue
		}
		if err := d.Ledger.Commit(evt.URL); err != nil {
			// delivered but not recorded: the next run will repeat it
			log.Error("Failed to record delivered event", logger.Fields{"url": evt.URL}, err)
		}
	}

	d.Metrics.SetLedgerEntries(d.Ledger.Len())
	return res
}
