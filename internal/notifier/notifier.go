package notifier

import (
	"context"

	"github.com/pfrederiksen/futsal-watch/internal/event"
)

// Notifier defines the interface for delivering event notifications
type Notifier interface {
	// Notify delivers a notification for a single event
	Notify(ctx context.Context, evt *event.Event) error
}

// unavailable fails every delivery with the same configuration error
type unavailable struct {
	err error
}

// Unavailable returns a Notifier that never reaches the network and fails each
// delivery with err. It stands in for a channel whose setup failed.
func Unavailable(err error) Notifier {
	return &unavailable{err: err}
}

func (n *unavailable) Notify(ctx context.Context, evt *event.Event) error {
	return n.err
}
