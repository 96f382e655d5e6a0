package source

import (
	"context"
	"fmt"
	"github.com/PuerkitoBio/goquery"
	"github.com/clambin/aws4home/internal/event"
	"net/http"
	"strings"
	"time"
)

// DefaultProgrammeTable is the (zero-based) index of the table holding the broadcast schedule.
const DefaultProgrammeTable = 4

// Programme scrapes a broadcast schedule from an HTML page. The schedule is held in the TableIndex'th table
// of the page. Each row after the header holds the date, the time, the channel and the title of a broadcast.
type Programme struct {
	HTTPClient *http.Client
	URL        string
	TableIndex int
	Location   *time.Location
}

// broadcast times look like "01.03.2024" + "20.15 Uhr", i.e. "01.03.202420.15Uhr" once whitespace is removed.
const broadcastTimestamp = "2.1.200615.04Uhr"

// Fetch returns the broadcasts listed on the page, in the order they are listed.
func (p Programme) Fetch(ctx context.Context) (event.Events, error) {
	body, err := get(ctx, p.HTTPClient, p.URL)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: html: %w", ErrSourceUnavailable, err)
	}
	return p.parse(doc)
}

func (p Programme) parse(doc *goquery.Document) (event.Events, error) {
	tables := doc.Find("table")
	if tables.Length() <= p.TableIndex {
		return nil, fmt.Errorf("%w: page has %d tables, expected at least %d", ErrParse, tables.Length(), p.TableIndex+1)
	}

	loc := p.Location
	if loc == nil {
		loc = time.UTC
	}

	rows := tables.Eq(p.TableIndex).Find("tr")
	if rows.Length() == 0 {
		return nil, fmt.Errorf("%w: table %d has no rows", ErrParse, p.TableIndex)
	}

	var events event.Events
	var parseErr error
	rows.Slice(1, goquery.ToEnd).EachWithBreak(func(i int, row *goquery.Selection) bool {
		var e event.Event
		if e, parseErr = parseBroadcast(row.Find("td"), loc); parseErr != nil {
			parseErr = fmt.Errorf("row %d: %w", i+1, parseErr)
			return false
		}
		events = append(events, e)
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return events, nil
}

func parseBroadcast(cells *goquery.Selection, loc *time.Location) (event.Event, error) {
	if cells.Length() < 4 {
		return event.Event{}, fmt.Errorf("%w: expected 4 columns, got %d", ErrParse, cells.Length())
	}
	when := strings.TrimSpace(cells.Eq(0).Text()) + strings.TrimSpace(cells.Eq(1).Text())
	when = strings.NewReplacer("\n", "", " ", "", "\u00a0", "").Replace(when)
	// repeat broadcasts list both dates, separated by a "/". The second one is the broadcast.
	if _, after, found := strings.Cut(when, "/"); found {
		when = after
	}
	start, err := time.ParseInLocation(broadcastTimestamp, when, loc)
	if err != nil {
		return event.Event{}, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return event.Event{
		Start: start,
		Label: strings.TrimSpace(cells.Eq(3).Text()) + " (" + strings.TrimSpace(cells.Eq(2).Text()) + ")",
	}, nil
}
