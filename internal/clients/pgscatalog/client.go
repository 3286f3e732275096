package pgscatalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/time/rate"

	"github.com/yungbote/pgscatalog-etl/internal/platform/logger"
)

const (
	DefaultBaseURL          = "https://www.pgscatalog.org/rest"
	DefaultRateLimitBackoff = 60 * time.Second

	maxErrorBody = 512
)

// ErrEmptyPage marks a page whose results list is missing or empty.
// The end of a collection is signalled by a null next cursor instead.
var ErrEmptyPage = errors.New("pgscatalog: page has no results")

// FetchError is a non-429, non-2xx upstream response.
type FetchError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *FetchError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pgscatalog GET %s: http %d", e.Endpoint, e.Status)
	}
	return fmt.Sprintf("pgscatalog GET %s: http %d: %s", e.Endpoint, e.Status, e.Body)
}

func (e *FetchError) HTTPStatusCode() int { return e.Status }

// Recorder receives fetch events; observability.Metrics implements it.
type Recorder interface {
	PageFetched(collection string)
	RateLimited(collection string)
}

type nopRecorder struct{}

func (nopRecorder) PageFetched(string) {}
func (nopRecorder) RateLimited(string) {}

type Config struct {
	BaseURL          string
	RateLimitBackoff time.Duration
	// RequestsPerSecond paces outgoing requests; 0 disables pacing.
	RequestsPerSecond float64
	HTTPClient        *http.Client
	// Sleep waits out a 429 backoff. Tests replace it.
	Sleep    func(ctx context.Context, d time.Duration) error
	Recorder Recorder
}

type Client struct {
	log     *logger.Logger
	cfg     Config
	http    *http.Client
	limiter *rate.Limiter
	tracer  trace.Tracer
}

func New(log *logger.Logger, cfg Config) (*Client, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid catalog base url: %w", err)
	}
	if cfg.RateLimitBackoff <= 0 {
		cfg.RateLimitBackoff = DefaultRateLimitBackoff
	}
	if cfg.Sleep == nil {
		cfg.Sleep = sleepCtx
	}
	if cfg.Recorder == nil {
		cfg.Recorder = nopRecorder{}
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		// No overall timeout: large pages are slow and the run has no deadline.
		httpClient = &http.Client{}
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	return &Client{
		log:     log.With("client", "PGSCatalogClient"),
		cfg:     cfg,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, 1),
		tracer:  otel.Tracer("github.com/yungbote/pgscatalog-etl/internal/clients/pgscatalog"),
	}, nil
}

func (c *Client) BaseURL() string { return c.cfg.BaseURL }

func (c *Client) TraitsURL() string          { return c.cfg.BaseURL + "/trait/all" }
func (c *Client) TraitCategoriesURL() string { return c.cfg.BaseURL + "/trait_category/all" }
func (c *Client) ScoresURL() string          { return c.cfg.BaseURL + "/score/all" }
func (c *Client) PublicationsURL() string    { return c.cfg.BaseURL + "/publication/all" }
func (c *Client) PerformancesURL() string    { return c.cfg.BaseURL + "/performance/all" }

// GetAncestryCategories fetches the symbol-keyed ancestry reference map.
func (c *Client) GetAncestryCategories(ctx context.Context) (map[string]AncestryCategory, error) {
	out := map[string]AncestryCategory{}
	if err := c.getJSON(ctx, "ancestry_categories", c.cfg.BaseURL+"/ancestry_categories", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPerformance fetches a single performance record by PPM id.
func (c *Client) GetPerformance(ctx context.Context, ppmID string) (*Performance, error) {
	ppmID = strings.TrimSpace(ppmID)
	if ppmID == "" {
		return nil, fmt.Errorf("ppm id required")
	}
	var out Performance
	if err := c.getJSON(ctx, "performance", c.cfg.BaseURL+"/performance/"+url.PathEscape(ppmID), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func fetchPage[T any](ctx context.Context, c *Client, pageURL string) (*Page[T], error) {
	collection := collectionOf(pageURL)
	ctx, span := c.tracer.Start(ctx, "pgscatalog.fetch_page", trace.WithAttributes(
		attribute.String("pgs.collection", collection),
		attribute.String("http.url", pageURL),
	))
	defer span.End()

	var page Page[T]
	if err := c.getJSON(ctx, collection, pageURL, &page); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if len(page.Results) == 0 {
		err := fmt.Errorf("%w: %s", ErrEmptyPage, pageURL)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("pgs.results", len(page.Results)))
	c.cfg.Recorder.PageFetched(collection)
	c.log.Debug("Fetched page", "collection", collection, "results", len(page.Results), "count", page.Count)
	return &page, nil
}

// getJSON retries the same URL indefinitely while the server answers 429.
func (c *Client) getJSON(ctx context.Context, collection, endpoint string, out any) error {
	ctx = defaultCtx(ctx)
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return err
		}
		req.Header.Set("Accept", "application/json")

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("pgscatalog GET %s: %w", endpoint, err)
		}
		if resp.StatusCode == http.StatusTooManyRequests {
			_, _ = io.Copy(io.Discard, resp.Body)
			resp.Body.Close()
			c.cfg.Recorder.RateLimited(collection)
			c.log.Warn("Rate limited by catalog; backing off", "collection", collection, "backoff", c.cfg.RateLimitBackoff.String())
			if err := c.cfg.Sleep(ctx, c.cfg.RateLimitBackoff); err != nil {
				return err
			}
			continue
		}

		raw, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			body := strings.TrimSpace(string(raw))
			if len(body) > maxErrorBody {
				body = body[:maxErrorBody]
			}
			return &FetchError{Endpoint: endpoint, Status: resp.StatusCode, Body: body}
		}
		if readErr != nil {
			return fmt.Errorf("pgscatalog GET %s: read body: %w", endpoint, readErr)
		}
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("pgscatalog GET %s: decode: %w", endpoint, err)
		}
		return nil
	}
}

// collectionOf names the collection a page URL belongs to, e.g. "score"
// for ".../rest/score/all?offset=50".
func collectionOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "unknown"
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if p := parts[i]; p != "" && p != "all" {
			return p
		}
	}
	return "unknown"
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func defaultCtx(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}
