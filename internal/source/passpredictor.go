package source

import (
	"context"
	"encoding/json"
	"fmt"
	"github.com/clambin/aws4home/internal/event"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Format identifies the response format of a pass prediction service.
type Format int

const (
	// Astroviewer returns passes with compact local timestamps (YYYYMMDDHHMMSS) for the requested time zone.
	Astroviewer Format = iota
	// OpenNotify returns passes as an epoch rise time plus a duration, for the requested altitude.
	OpenNotify
)

var formatNames = map[Format]string{
	Astroviewer: "astroviewer",
	OpenNotify:  "open-notify",
}

func (f Format) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return "unknown"
}

// ParseFormat returns the Format for its name.
func ParseFormat(s string) (Format, error) {
	for f, name := range formatNames {
		if name == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("invalid format %q", s)
}

func (f Format) MarshalText() ([]byte, error) {
	return []byte(f.String()), nil
}

func (f *Format) UnmarshalText(text []byte) (err error) {
	*f, err = ParseFormat(string(text))
	return err
}

// PassPredictor returns the predicted passes of a satellite over a location.
type PassPredictor struct {
	HTTPClient *http.Client
	URL        string
	Format     Format
	Latitude   float64
	Longitude  float64
	Altitude   float64
	Location   *time.Location
}

const compactTimestamp = "20060102150405"

// Fetch returns the predicted passes, in the order returned by the service.
func (p PassPredictor) Fetch(ctx context.Context) (event.Events, error) {
	target, err := p.target()
	if err != nil {
		return nil, err
	}
	body, err := get(ctx, p.HTTPClient, target)
	if err != nil {
		return nil, err
	}
	defer func() { _ = body.Close() }()

	switch p.Format {
	case OpenNotify:
		var response openNotifyResponse
		if err = json.NewDecoder(body).Decode(&response); err != nil {
			return nil, fmt.Errorf("%w: decode: %w", ErrSourceUnavailable, err)
		}
		return response.events(p.location()), nil
	default:
		var response astroviewerResponse
		if err = json.NewDecoder(body).Decode(&response); err != nil {
			return nil, fmt.Errorf("%w: decode: %w", ErrSourceUnavailable, err)
		}
		return response.events(p.location())
	}
}

func (p PassPredictor) target() (string, error) {
	u, err := url.Parse(p.URL)
	if err != nil {
		return "", fmt.Errorf("url: %w", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(p.Latitude, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Longitude, 'f', -1, 64))
	switch p.Format {
	case OpenNotify:
		q.Set("alt", strconv.FormatFloat(p.Altitude, 'f', -1, 64))
	default:
		q.Set("tz", p.location().String())
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (p PassPredictor) location() *time.Location {
	if p.Location == nil {
		return time.UTC
	}
	return p.Location
}

type astroviewerResponse struct {
	Passes []struct {
		Begin string `json:"begin"`
		End   string `json:"end"`
	} `json:"passes"`
}

func (r astroviewerResponse) events(loc *time.Location) (event.Events, error) {
	events := make(event.Events, 0, len(r.Passes))
	for _, pass := range r.Passes {
		begin, err := time.ParseInLocation(compactTimestamp, pass.Begin, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: begin: %w", ErrParse, err)
		}
		end, err := time.ParseInLocation(compactTimestamp, pass.End, loc)
		if err != nil {
			return nil, fmt.Errorf("%w: end: %w", ErrParse, err)
		}
		events = append(events, event.Event{Start: begin, End: end})
	}
	return events, nil
}

type openNotifyResponse struct {
	Response []struct {
		RiseTime int64 `json:"risetime"`
		Duration int64 `json:"duration"`
	} `json:"response"`
}

func (r openNotifyResponse) events(loc *time.Location) event.Events {
	events := make(event.Events, 0, len(r.Response))
	for _, pass := range r.Response {
		start := time.Unix(pass.RiseTime, 0).In(loc)
		events = append(events, event.Event{
			Start: start,
			End:   start.Add(time.Duration(pass.Duration) * time.Second),
		})
	}
	return events
}
