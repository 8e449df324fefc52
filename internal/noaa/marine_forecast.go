package noaa

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"

	"github.com/ngmaloney/marine-outlook/internal/database"
	"github.com/ngmaloney/marine-outlook/internal/observability"
)

// maxPageBytes caps how much of an upstream response is read.
const maxPageBytes = 5 << 20

var zoneCodeRe = regexp.MustCompile(`^[A-Z]{3}\d{3}$`)

// PageCache stores raw pages between fetches, keyed by zone and synopsis
// zone.
type PageCache interface {
	Get(ctx context.Context, zone, synopsisZone string) (*database.StoredPage, error)
	Put(ctx context.Context, p database.StoredPage) error
	IsFresh(p database.StoredPage, ttl time.Duration) bool
}

// NOAAMarineClient implements MarineClient against forecast.weather.gov,
// falling back to the coded text product and then to the cache.
type NOAAMarineClient struct {
	baseURL        string
	textProductURL string
	httpClient     *http.Client
	userAgent      string
	limiter        *rate.Limiter
	clock          clockwork.Clock

	cache    PageCache
	cacheTTL time.Duration

	logger  *slog.Logger
	metrics *observability.Metrics
}

// Option configures a NOAAMarineClient.
type Option func(*NOAAMarineClient)

// WithBaseURL sets the forecast site root.
func WithBaseURL(u string) Option {
	return func(c *NOAAMarineClient) { c.baseURL = strings.TrimRight(u, "/") }
}

// WithTextProductURL sets the root of the coded text product tree. An empty
// URL disables the text product fallback.
func WithTextProductURL(u string) Option {
	return func(c *NOAAMarineClient) { c.textProductURL = strings.TrimRight(u, "/") }
}

// WithUserAgent sets the User-Agent sent upstream.
func WithUserAgent(ua string) Option {
	return func(c *NOAAMarineClient) { c.userAgent = ua }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *NOAAMarineClient) { c.httpClient.Timeout = d }
}

// WithRatePerMinute limits upstream requests. Zero or less removes the limit.
func WithRatePerMinute(n int) Option {
	return func(c *NOAAMarineClient) {
		if n <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), 1)
	}
}

// WithCache serves pages younger than ttl from cache and keeps expired
// pages as a last resort.
func WithCache(cache PageCache, ttl time.Duration) Option {
	return func(c *NOAAMarineClient) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithClock sets the time source used to stamp fetched pages.
func WithClock(clock clockwork.Clock) Option {
	return func(c *NOAAMarineClient) { c.clock = clock }
}

// WithLogger sets the client logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *NOAAMarineClient) { c.logger = l }
}

// WithMetrics records page sources and fetch errors.
func WithMetrics(m *observability.Metrics) Option {
	return func(c *NOAAMarineClient) { c.metrics = m }
}

// NewMarineClient creates a new NOAA marine forecast client
func NewMarineClient(opts ...Option) *NOAAMarineClient {
	c := &NOAAMarineClient{
		baseURL:        "https://forecast.weather.gov",
		textProductURL: "https://tgftp.nws.noaa.gov/data/forecasts/marine",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		userAgent: "MarineOutlook/1.0 (github.com/ngmaloney/marine-outlook)",
		limiter:   rate.NewLimiter(rate.Every(20*time.Second), 1),
		clock:     clockwork.NewRealClock(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NormalizeZone upper-cases and validates a zone code.
func NormalizeZone(zone string) (string, error) {
	zone = strings.ToUpper(strings.TrimSpace(zone))
	if zone == "" {
		return "", ErrZoneRequired
	}
	if !zoneCodeRe.MatchString(zone) {
		return "", fmt.Errorf("%w: %q", ErrInvalidZone, zone)
	}
	return zone, nil
}

// FetchForecastPage retrieves the forecast page for a marine zone
func (c *NOAAMarineClient) FetchForecastPage(ctx context.Context, zone, synopsisZone string) (*Page, error) {
	zone, err := NormalizeZone(zone)
	if err != nil {
		return nil, err
	}
	if synopsisZone != "" {
		if synopsisZone, err = NormalizeZone(synopsisZone); err != nil {
			return nil, fmt.Errorf("synopsis zone: %w", err)
		}
	}

	cached := c.cachedPage(ctx, zone, synopsisZone)
	if cached != nil && c.cache.IsFresh(*cached, c.cacheTTL) {
		c.countPage(SourceCache)
		return pageFromStore(cached, SourceCache), nil
	}

	page, fetchErr := c.fetchPage(ctx, c.ForecastURL(zone, synopsisZone), zone, synopsisZone, SourceNetwork)
	if fetchErr != nil && c.textProductURL != "" && ctx.Err() == nil {
		c.logger.Warn("forecast page fetch failed, trying text product", "zone", zone, "error", fetchErr)
		var textErr error
		page, textErr = c.fetchPage(ctx, c.TextProductURL(zone), zone, synopsisZone, SourceTextProduct)
		if textErr != nil {
			fetchErr = errors.Join(fetchErr, textErr)
		} else {
			fetchErr = nil
		}
	}

	if fetchErr != nil {
		if c.metrics != nil {
			c.metrics.FetchErrors.Inc()
		}
		if cached != nil {
			c.logger.Warn("serving stale forecast page", "zone", zone, "fetched_at", cached.FetchedAt, "error", fetchErr)
			c.countPage(SourceStale)
			stale := pageFromStore(cached, SourceStale)
			stale.Stale = true
			return stale, nil
		}
		return nil, fmt.Errorf("fetching forecast for %s: %w", zone, fetchErr)
	}

	if c.cache != nil {
		err := c.cache.Put(ctx, database.StoredPage{
			Zone:         page.Zone,
			SynopsisZone: page.SynopsisZone,
			SourceURL:    page.URL,
			HTML:         page.HTML,
			FetchedAt:    page.FetchedAt,
		})
		if err != nil {
			c.logger.Warn("caching forecast page failed", "zone", zone, "error", err)
		}
	}
	c.countPage(page.Source)
	return page, nil
}

// ForecastURL builds the printable marine forecast URL for a zone.
func (c *NOAAMarineClient) ForecastURL(zone, synopsisZone string) string {
	q := url.Values{}
	q.Set("mz", strings.ToLower(zone))
	if synopsisZone != "" {
		q.Set("syn", strings.ToLower(synopsisZone))
	}
	return c.baseURL + "/shmrn.php?" + q.Encode()
}

// TextProductURL builds the coded text product URL for a zone.
// Format: https://tgftp.nws.noaa.gov/data/forecasts/marine/coastal/an/anz254.txt
func (c *NOAAMarineClient) TextProductURL(zone string) string {
	return fmt.Sprintf("%s/%s/%s/%s.txt",
		c.textProductURL, determineZoneType(zone), getZonePrefix(zone), strings.ToLower(zone))
}

func (c *NOAAMarineClient) fetchPage(ctx context.Context, pageURL, zone, synopsisZone, source string) (*Page, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "text/html,text/plain")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s returned status %d for zone %s", pageURL, resp.StatusCode, zone)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	return &Page{
		Zone:         zone,
		SynopsisZone: synopsisZone,
		URL:          pageURL,
		HTML:         string(body),
		FetchedAt:    c.clock.Now().UTC(),
		Source:       source,
	}, nil
}

func (c *NOAAMarineClient) cachedPage(ctx context.Context, zone, synopsisZone string) *database.StoredPage {
	if c.cache == nil {
		return nil
	}
	p, err := c.cache.Get(ctx, zone, synopsisZone)
	if err != nil {
		if !errors.Is(err, database.ErrPageNotFound) {
			c.logger.Warn("reading cached forecast page failed", "zone", zone, "error", err)
		}
		return nil
	}
	return p
}

func (c *NOAAMarineClient) countPage(source string) {
	if c.metrics != nil {
		c.metrics.PagesFetched.WithLabelValues(source).Inc()
	}
}

func pageFromStore(p *database.StoredPage, source string) *Page {
	return &Page{
		Zone:         p.Zone,
		SynopsisZone: p.SynopsisZone,
		URL:          p.SourceURL,
		HTML:         p.HTML,
		FetchedAt:    p.FetchedAt,
		Source:       source,
	}
}

// determineZoneType returns the forecast type based on zone prefix
func determineZoneType(zone string) string {
	zone = strings.ToUpper(zone)
	if strings.HasPrefix(zone, "AN") || strings.HasPrefix(zone, "GM") {
		return "coastal"
	}
	return "offshore"
}

// getZonePrefix returns the two-letter prefix for the zone directory
func getZonePrefix(zone string) string {
	if len(zone) < 2 {
		return "an"
	}
	return strings.ToLower(zone[:2])
}
