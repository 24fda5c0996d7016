package scraper

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/futsal-watch/internal/event"
	"github.com/pfrederiksen/futsal-watch/internal/filter"
	"github.com/pfrederiksen/futsal-watch/internal/logger"
	"golang.org/x/net/html"
)

var (
	errNoTitle = errors.New("card has no title element")
	errNoLink  = errors.New("title element has no link")
)

// ParseEvents extracts the qualifying events from a search page, in card order
func (s *Scraper) ParseEvents(doc *goquery.Document, date string) []*event.Event {
	events := make([]*event.Event, 0)

	doc.Find(s.cfg.Selectors.Card).Each(func(i int, card *goquery.Selection) {
		fields := logger.Fields{"date": date, "card": i}

		evt, decision, err := s.parseCard(card, date)
		if err != nil {
			s.metrics.CardEvaluated("malformed")
			s.log.Warn("Skipping malformed card", logger.Fields{"date": date, "card": i, "reason": err.Error()})
			return
		}

		fields["reason"] = decision.Reason
		if evt == nil {
			s.metrics.CardEvaluated("rejected")
			s.log.Debug("Card rejected", fields)
			return
		}

		fields["url"] = evt.URL
		s.metrics.CardEvaluated("accepted")
		s.log.Debug("Card accepted", fields)
		events = append(events, evt)
	})

	return events
}

// parseCard reads one card. It returns a nil event with the decision when the card
// is rejected, and an error when the card lacks its title link.
func (s *Scraper) parseCard(card *goquery.Selection, date string) (*event.Event, filter.Decision, error) {
	titleEl := card.Find(s.cfg.Selectors.Title).First()
	if titleEl.Length() == 0 {
		return nil, filter.Decision{}, errNoTitle
	}

	link := titleEl.Find("a[href]").First()
	if link.Length() == 0 && titleEl.Is("a[href]") {
		link = titleEl
	}
	if link.Length() == 0 {
		return nil, filter.Decision{}, errNoLink
	}

	href, _ := link.Attr("href")
	title := collapseSpace(link.Text())
	text := joinedText(card)

	status := ""
	if s.cfg.Selectors.Status != "" {
		status = strings.TrimSpace(card.Find(s.cfg.Selectors.Status).First().Text())
	}

	decision := s.cfg.Rules.Evaluate(filter.Card{Status: status, Text: text})
	if !decision.Accepted {
		return nil, decision, nil
	}

	if title == "" {
		return nil, filter.Decision{Accepted: false, Reason: "empty title"}, nil
	}

	eventURL, err := s.absoluteURL(href)
	if err != nil {
		return nil, decision, err
	}

	facility := s.resolveFacility(card, text)

	return event.NewEvent(title, facility, eventURL, date), decision, nil
}

// absoluteURL resolves href against the site's base origin
func (s *Scraper) absoluteURL(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parsing href %q: %w", href, err)
	}

	abs := s.base.ResolveReference(ref)
	if abs.Scheme != "http" && abs.Scheme != "https" {
		return "", fmt.Errorf("unsupported link scheme in %q", href)
	}
	return abs.String(), nil
}

// joinedText returns every text node under sel, trimmed and joined by single spaces.
// Script and style contents are skipped.
func joinedText(sel *goquery.Selection) string {
	var parts []string

	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			if t := collapseSpace(n.Data); t != "" {
				parts = append(parts, t)
			}
			return
		case html.ElementNode:
			if n.Data == "script" || n.Data == "style" {
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	for _, n := range sel.Nodes {
		walk(n)
	}

	return strings.Join(parts, " ")
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
