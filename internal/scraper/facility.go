package scraper

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/width"
)

// bracketedNamePattern matches a 【name】 group, shortest first
var bracketedNamePattern = regexp.MustCompile(`【(.+?)】`)

// Lookup is the result of one facility heuristic
type Lookup struct {
	Value string
	Found bool
}

func found(v string) Lookup {
	return Lookup{Value: v, Found: true}
}

var notFound = Lookup{}

// resolveFacility tries the organizer field first, then a bracketed name in the
// card text. It returns "" when neither matches.
func (s *Scraper) resolveFacility(card *goquery.Selection, text string) string {
	resolvers := []func() Lookup{
		func() Lookup { return organizerField(card, s.cfg.Selectors.Text, s.cfg.OrganizerLabel) },
		func() Lookup { return bracketedName(text) },
	}

	for _, resolve := range resolvers {
		if l := resolve(); l.Found {
			return l.Value
		}
	}
	return ""
}

// organizerField finds the first text element starting with label. A nested link's
// text wins over the remainder of the element's text.
func organizerField(card *goquery.Selection, textSelector, label string) Lookup {
	if textSelector == "" || label == "" {
		return notFound
	}

	result := notFound
	card.Find(textSelector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		rest, ok := cutLabel(joinedText(el), label)
		if !ok {
			return true
		}

		if link := el.Find("a").First(); link.Length() > 0 {
			if name := collapseSpace(link.Text()); name != "" {
				result = found(name)
				return false
			}
		}

		if rest = strings.TrimSpace(rest); rest != "" {
			result = found(rest)
			return false
		}
		return true
	})

	return result
}

// bracketedName returns the first 【name】 group in text
func bracketedName(text string) Lookup {
	m := bracketedNamePattern.FindStringSubmatch(text)
	if m == nil {
		return notFound
	}
	if name := strings.TrimSpace(m[1]); name != "" {
		return found(name)
	}
	return notFound
}

// cutLabel reports whether text starts with label, comparing full-width and
// half-width forms as equal, and returns the text after it.
func cutLabel(text, label string) (string, bool) {
	runes := []rune(strings.TrimSpace(text))
	n := len([]rune(label))
	if len(runes) < n {
		return "", false
	}
	if width.Fold.String(string(runes[:n])) != width.Fold.String(label) {
		return "", false
	}
	return string(runes[n:]), true
}
