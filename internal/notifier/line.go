package notifier

import (
	"context"

	"github.com/pfrederiksen/futsal-watch/internal/event"
	"github.com/pfrederiksen/futsal-watch/internal/line"
)

// Pusher sends a text message; *line.Client implements it
type Pusher interface {
	PushText(ctx context.Context, text string) error
}

// LineNotifier pushes events as LINE text messages
type LineNotifier struct {
	client   Pusher
	fallback string
}

// NewLineNotifier creates a notifier that formats events with fallback as the
// facility shown when none was extracted
func NewLineNotifier(client Pusher, fallback string) *LineNotifier {
	if fallback == "" {
		fallback = line.DefaultFallbackFacility
	}
	return &LineNotifier{client: client, fallback: fallback}
}

// Notify pushes the formatted event
func (n *LineNotifier) Notify(ctx context.Context, evt *event.Event) error {
	return n.client.PushText(ctx, line.FormatEvent(evt, n.fallback))
}
