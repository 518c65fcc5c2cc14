// Package neo fetches the NASA NeoWs feed for a date window and ranks the
// near-Earth objects it reports by estimated diameter.
//
// A call makes exactly one GET request. An unsuccessful HTTP status or a day
// missing from the payload yields an empty result, not an error; transport,
// read and decode failures are returned as *FetchError.
package neo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/davidsl88/asteroids/internal/metrics"
)

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 10 << 20 // 10 MiB
	userAgent      = "asteroids/1.0"
)

// HTTPClient is the subset of *http.Client used by Fetcher.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient sets the client used for feed requests.
func WithHTTPClient(c HTTPClient) Option {
	return func(f *Fetcher) {
		if c != nil {
			f.client = c
		}
	}
}

// WithTimeout bounds each feed request. Non-positive values keep the default.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithClock overrides the source of "today".
func WithClock(now func() time.Time) Option {
	return func(f *Fetcher) {
		if now != nil {
			f.now = now
		}
	}
}

// Fetcher retrieves and ranks NEO records. It holds no per-call state and is
// safe for concurrent use.
type Fetcher struct {
	cfg     ClientConfig
	client  HTTPClient
	timeout time.Duration
	now     func() time.Time
	logger  *slog.Logger
}

// NewFetcher creates a Fetcher for the given client configuration.
func NewFetcher(cfg ClientConfig, logger *slog.Logger, opts ...Option) *Fetcher {
	f := &Fetcher{
		cfg:     cfg,
		client:  &http.Client{},
		timeout: defaultTimeout,
		now:     time.Now,
		logger:  logger.With("component", "neo"),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Timeout returns the per-request deadline.
func (f *Fetcher) Timeout() time.Duration {
	return f.timeout
}

// FetchTop queries the feed for [today, today+days] (UTC) and returns the
// TopCount largest objects by average diameter, largest first.
func (f *Fetcher) FetchTop(ctx context.Context, days int) ([]Record, error) {
	start := today(f.now())
	end := start.AddDate(0, 0, days)

	logger := f.logger.With(
		"days", days,
		"start_date", start.Format(DateLayout),
		"end_date", end.Format(DateLayout),
	)

	endpoint, err := BuildURL(f.cfg, start, end)
	if err != nil {
		return nil, &FetchError{Op: "request", Err: err}
	}

	began := time.Now()
	feed, ok, err := f.get(ctx, endpoint, logger)
	if err != nil {
		outcome := metrics.FeedOutcomeTransport
		var fe *FetchError
		if errors.As(err, &fe) && fe.Op == "decode" {
			outcome = metrics.FeedOutcomeDecode
		}
		metrics.ObserveFeedRequest(outcome, time.Since(began))
		logger.Error("feed request failed", "error", err)
		return nil, err
	}
	if !ok {
		metrics.ObserveFeedRequest(metrics.FeedOutcomeUpstreamStatus, time.Since(began))
		return []Record{}, nil
	}

	records, err := collect(feed, start, days)
	if err != nil {
		var missing *missingDayError
		if errors.As(err, &missing) {
			metrics.ObserveFeedRequest(metrics.FeedOutcomeDateMismatch, time.Since(began))
			logger.Warn("feed payload is missing a requested day", "day", missing.day)
			return []Record{}, nil
		}
		metrics.ObserveFeedRequest(metrics.FeedOutcomeDecode, time.Since(began))
		logger.Error("feed payload rejected", "error", err)
		return nil, &FetchError{Op: "decode", URL: redact(endpoint), Err: err}
	}

	metrics.ObserveFeedRequest(metrics.FeedOutcomeOK, time.Since(began))
	metrics.SetFeedRecords(len(records))

	top := SelectTop(records, TopCount)
	logger.Debug("feed ranked", "count", len(records), "returned", len(top))
	return top, nil
}

// get performs the request. ok is false when the feed answered with a
// non-2xx status.
func (f *Fetcher) get(ctx context.Context, endpoint string, logger *slog.Logger) (*feedResponse, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	safeURL := redact(endpoint)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, false, &FetchError{Op: "request", URL: safeURL, Err: err}
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		var ue *url.Error
		if errors.As(err, &ue) {
			ue.URL = safeURL
		}
		return nil, false, &FetchError{Op: "request", URL: safeURL, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodyBytes))
		logger.Warn("feed returned unsuccessful status", "status", resp.StatusCode)
		return nil, false, nil
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, false, &FetchError{Op: "read", URL: safeURL, Err: err}
	}
	if len(body) > maxBodyBytes {
		return nil, false, &FetchError{Op: "read", URL: safeURL, Err: fmt.Errorf("response exceeds %d byte limit", maxBodyBytes)}
	}

	var feed feedResponse
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, false, &FetchError{Op: "decode", URL: safeURL, Err: err}
	}

	return &feed, true, nil
}

type missingDayError struct {
	day string
}

func (e *missingDayError) Error() string {
	return fmt.Sprintf("day %s not present in feed", e.day)
}

// collect flattens every requested day of the payload. A single missing day
// invalidates the whole window.
func collect(feed *feedResponse, start time.Time, days int) ([]Record, error) {
	var records []Record
	for i := 0; i <= days; i++ {
		day := start.AddDate(0, 0, i).Format(DateLayout)

		objects, ok := feed.NearEarthObjects[day]
		if !ok {
			return nil, &missingDayError{day: day}
		}

		for _, obj := range objects {
			if obj == nil {
				continue
			}
			rec, err := buildRecord(obj)
			if err != nil {
				return nil, fmt.Errorf("day %s: %w", day, err)
			}
			records = append(records, rec)
		}
	}
	return records, nil
}

func buildRecord(obj *feedObject) (Record, error) {
	if obj.Name == nil {
		return Record{}, fmt.Errorf("%w: object without name", ErrMalformedPayload)
	}
	name := *obj.Name

	if obj.EstimatedDiameter == nil || obj.EstimatedDiameter.Kilometers == nil ||
		obj.EstimatedDiameter.Kilometers.Min == nil || obj.EstimatedDiameter.Kilometers.Max == nil {
		return Record{}, fmt.Errorf("%w: %q has no kilometre diameter estimate", ErrMalformedPayload, name)
	}
	km := obj.EstimatedDiameter.Kilometers

	if len(obj.CloseApproachData) == 0 || obj.CloseApproachData[0] == nil {
		return Record{}, fmt.Errorf("%w: %q has no close approach data", ErrMalformedPayload, name)
	}
	approach := obj.CloseApproachData[0]

	if approach.RelativeVelocity == nil || approach.RelativeVelocity.KilometersPerHour == nil {
		return Record{}, fmt.Errorf("%w: %q has no relative velocity", ErrMalformedPayload, name)
	}
	if approach.Date == nil {
		return Record{}, fmt.Errorf("%w: %q has no close approach date", ErrMalformedPayload, name)
	}
	date, err := time.Parse(DateLayout, *approach.Date)
	if err != nil {
		return Record{}, fmt.Errorf("%w: %q close approach date %q: %v", ErrMalformedPayload, name, *approach.Date, err)
	}

	return Record{
		Name:     name,
		Diameter: AverageDiameter(*km.Min, *km.Max),
		Velocity: *approach.RelativeVelocity.KilometersPerHour,
		Date:     date,
	}, nil
}

func today(now time.Time) time.Time {
	y, m, d := now.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
