package line

import (
	"fmt"
	"strings"

	"github.com/pfrederiksen/futsal-watch/internal/event"
)

// DefaultFallbackFacility is shown when no facility could be extracted
const DefaultFallbackFacility = "代々木"

// FormatEvent formats a single event as a LINE text message.
// An empty facility is replaced by fallback.
func FormatEvent(evt *event.Event, fallback string) string {
	var msg strings.Builder

	facility := evt.Facility
	if facility == "" {
		facility = fallback
	}

	msg.WriteString("🏃 フットサル募集【新着】\n")
	msg.WriteString("\n")
	msg.WriteString(fmt.Sprintf("📅 %s\n", event.FormatDate(evt.Date)))
	msg.WriteString(fmt.Sprintf("📍 %s\n", facility))
	msg.WriteString(fmt.Sprintf("📝 %s\n", evt.Title))
	msg.WriteString("\n")
	msg.WriteString(fmt.Sprintf("🔗 %s", evt.URL))

	return msg.String()
}
