package notifier

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/pfrederiksen/futsal-watch/internal/event"
	"github.com/pfrederiksen/futsal-watch/internal/line"
)

// DryRunNotifier prints what would be sent without contacting LINE
type DryRunNotifier struct {
	out      io.Writer
	fallback string
	count    int
}

// NewDryRunNotifier creates a new dry-run notifier writing to out (stdout if nil)
func NewDryRunNotifier(out io.Writer, fallback string) *DryRunNotifier {
	if out == nil {
		out = os.Stdout
	}
	if fallback == "" {
		fallback = line.DefaultFallbackFacility
	}
	return &DryRunNotifier{out: out, fallback: fallback}
}

// Notify prints the message that would be pushed
func (n *DryRunNotifier) Notify(ctx context.Context, evt *event.Event) error {
	n.count++
	msg := line.FormatEvent(evt, n.fallback)
	if _, err := fmt.Fprintf(n.out, "--- Message %d ---\n%s\n\n", n.count, msg); err != nil {
		return fmt.Errorf("writing dry-run output: %w", err)
	}
	return nil
}
