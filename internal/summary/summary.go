// Package summary composes the short share blurb for a selected event.
package summary

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/lvasseur/go-landslides/internal/models"
)

// ErrNoSelection is returned when a summary is requested but no event is
// resolved. Guarding before composing is the caller's contract.
var ErrNoSelection = errors.New("no event selected")

const hashtagSuffix = "#landslides #druids"

// Compose renders the deterministic share text for one event:
// "{title} on {YYYY-MM-DD} by {source}. {hashtags}". The output is a plain
// single-line string with control characters stripped.
func Compose(e models.Event) string {
	text := fmt.Sprintf("%s on %s by %s. %s",
		e.Title, e.Date.Format("2006-01-02"), e.SourceName, hashtagSuffix)
	return sanitize(text)
}

// ShareURL wraps a composed summary in a Twitter intent link. Pure string
// transform; no network interaction.
func ShareURL(text string) string {
	v := url.Values{"text": {text}}
	return "https://twitter.com/intent/tweet?" + v.Encode()
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 || r == 0x7f {
			return ' '
		}
		return r
	}, s)
}
