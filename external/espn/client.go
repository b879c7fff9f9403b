package espn

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	crerr "github.com/cockroachdb/errors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/riskibarqy/nfl-league/internal/domain/nfl"
	"github.com/riskibarqy/nfl-league/internal/metrics"
	"github.com/riskibarqy/nfl-league/internal/platform/logging"
	"github.com/riskibarqy/nfl-league/internal/platform/resilience"
	"github.com/riskibarqy/nfl-league/internal/usecase"
)

const (
	defaultSiteBaseURL      = "https://site.api.espn.com/apis/site/v2/sports/football/nfl"
	defaultStandingsBaseURL = "https://site.api.espn.com/apis/v2/sports/football/nfl"
	defaultCoreBaseURL      = "https://sports.core.api.espn.com/v2/sports/football/leagues/nfl"
	defaultTimeout          = 20 * time.Second
	maxBodyBytes            = 6 << 20
)

const (
	ResourceScoreboard = "scoreboard"
	ResourceTeams      = "teams"
	ResourceStandings  = "standings"
	ResourcePredictor  = "predictor"
)

var espnTracer = otel.Tracer("nfl-league/external/espn")

var _ usecase.SourceFetcher = (*Client)(nil)

type ClientConfig struct {
	HTTPClient       *http.Client
	SiteBaseURL      string
	StandingsBaseURL string
	CoreBaseURL      string
	Timeout          time.Duration
	Logger           *logging.Logger
	Metrics          *metrics.Metrics
	CircuitBreaker   resilience.CircuitBreakerConfig
}

// Client reads the public ESPN NFL JSON endpoints. It is safe for concurrent
// use; identical in-flight GETs share one round trip, which a caller cancelling
// its own context does not abort.
type Client struct {
	httpClient       *http.Client
	siteBaseURL      string
	standingsBaseURL string
	coreBaseURL      string
	logger           *logging.Logger
	metrics          *metrics.Metrics
	breaker          *resilience.CircuitBreaker
	flight           resilience.Group[response]
}

type response struct {
	body       []byte
	statusCode int
}

func NewClient(cfg ClientConfig) *Client {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout:   cfg.Timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	if httpClient.Timeout <= 0 {
		httpClient.Timeout = defaultTimeout
	}

	m := cfg.Metrics
	breaker := resilience.NewCircuitBreaker(cfg.CircuitBreaker, func(from, to resilience.CircuitState) {
		logger.Warn("espn circuit breaker changed state", "from", from, "to", to)
		m.ObserveCircuitTransition(string(from), string(to))
	})

	return &Client{
		httpClient:       httpClient,
		siteBaseURL:      normalizeBaseURL(cfg.SiteBaseURL, defaultSiteBaseURL),
		standingsBaseURL: normalizeBaseURL(cfg.StandingsBaseURL, defaultStandingsBaseURL),
		coreBaseURL:      normalizeBaseURL(cfg.CoreBaseURL, defaultCoreBaseURL),
		logger:           logger,
		metrics:          m,
		breaker:          breaker,
	}
}

func normalizeBaseURL(value, fallback string) string {
	value = strings.TrimRight(strings.TrimSpace(value), "/")
	if value == "" {
		return fallback
	}
	return value
}

func (c *Client) FetchGames(ctx context.Context, week int) ([]nfl.RawGame, error) {
	if week < nfl.FirstWeek || week > nfl.LastWeek {
		return nil, fmt.Errorf("%w: week must be between %d and %d, got=%d", usecase.ErrInvalidInput, nfl.FirstWeek, nfl.LastWeek, week)
	}

	seasonType, providerWeek := SeasonWeek(week)
	query := url.Values{}
	query.Set("seasontype", strconv.Itoa(seasonType))
	query.Set("week", strconv.Itoa(providerWeek))

	var games []nfl.RawGame
	_, err := c.fetch(ctx, request{
		resource: ResourceScoreboard,
		endpoint: c.siteBaseURL + "/scoreboard",
		query:    query,
	}, func(raw []byte) (err error) {
		games, err = DecodeScoreboard(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return games, nil
}

func (c *Client) FetchTeams(ctx context.Context) ([]nfl.RawTeam, error) {
	var teams []nfl.RawTeam
	_, err := c.fetch(ctx, request{
		resource: ResourceTeams,
		endpoint: c.siteBaseURL + "/teams",
	}, func(raw []byte) (err error) {
		teams, err = DecodeTeams(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (c *Client) FetchStandings(ctx context.Context) ([]nfl.RawStanding, error) {
	query := url.Values{}
	query.Set("seasontype", strconv.Itoa(SeasonTypeRegular))

	var standings []nfl.RawStanding
	_, err := c.fetch(ctx, request{
		resource: ResourceStandings,
		endpoint: c.standingsBaseURL + "/standings",
		query:    query,
	}, func(raw []byte) (err error) {
		standings, err = DecodeStandings(raw)
		return err
	})
	if err != nil {
		return nil, err
	}
	return standings, nil
}

// FetchPrediction returns nil without error when the event has no predictor.
func (c *Client) FetchPrediction(ctx context.Context, eventID int64) (*nfl.RawPrediction, error) {
	if eventID <= 0 {
		return nil, fmt.Errorf("%w: event id must be greater than zero", usecase.ErrInvalidInput)
	}

	var prediction *nfl.RawPrediction
	found, err := c.fetch(ctx, request{
		resource:   ResourcePredictor,
		endpoint:   fmt.Sprintf("%s/events/%d/competitions/%d/predictor", c.coreBaseURL, eventID, eventID),
		notFoundOK: true,
	}, func(raw []byte) (err error) {
		prediction, err = DecodePrediction(raw)
		return err
	})
	if err != nil || !found {
		return nil, err
	}
	return prediction, nil
}

type request struct {
	resource   string
	endpoint   string
	query      url.Values
	notFoundOK bool
}

func (r request) url() string {
	if encoded := r.query.Encode(); encoded != "" {
		return r.endpoint + "?" + encoded
	}
	return r.endpoint
}

// fetch performs one GET and hands the body to decode. It reports found=false
// only for a 404 on a request that allows it.
func (c *Client) fetch(ctx context.Context, req request, decode func([]byte) error) (bool, error) {
	fullURL := req.url()
	ctx, span := espnTracer.Start(ctx, "espn.Client."+req.resource,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("espn.resource", req.resource),
			attribute.String("url.full", fullURL),
		),
	)
	defer span.End()

	start := time.Now()
	// Identical requests share one GET; it runs on a detached context so one
	// caller's cancellation does not fail the others. The HTTP client timeout bounds it.
	sharedCtx := context.WithoutCancel(ctx)
	resp, err, shared := c.flight.Do(fullURL, func() (response, error) {
		return c.guardedRequest(sharedCtx, fullURL)
	})
	raw, statusCode := resp.body, resp.statusCode
	span.SetAttributes(
		attribute.Int("http.response.status_code", statusCode),
		attribute.Bool("espn.shared", shared),
	)

	if crerr.Is(err, resilience.ErrCircuitOpen) {
		c.metrics.ObserveProviderCall(req.resource, metrics.OutcomeRejected, time.Since(start))
		fetchErr := &FetchError{Resource: req.resource, URL: fullURL, Err: err}
		span.RecordError(fetchErr)
		span.SetStatus(codes.Error, "espn circuit open")
		c.logger.WarnContext(ctx, "espn circuit breaker rejected request", "resource", req.resource, "state", c.breaker.State())
		return false, fetchErr
	}

	if err != nil && req.notFoundOK && statusCode == http.StatusNotFound {
		c.metrics.ObserveProviderCall(req.resource, metrics.OutcomeNotFound, time.Since(start))
		c.logger.DebugContext(ctx, "espn resource not published", "resource", req.resource, "url", fullURL)
		return false, nil
	}
	if err == nil {
		if decodeErr := decode(raw); decodeErr != nil {
			err = crerr.Wrap(decodeErr, "decode provider payload")
		}
	}
	if err != nil {
		c.metrics.ObserveProviderCall(req.resource, metrics.OutcomeError, time.Since(start))
		fetchErr := &FetchError{Resource: req.resource, URL: fullURL, StatusCode: statusCode, Err: err}
		span.RecordError(fetchErr)
		span.SetStatus(codes.Error, "espn request failed")
		c.logger.WarnContext(ctx, "espn request failed", "resource", req.resource, "url", fullURL, "status", statusCode, "error", err)
		return false, fetchErr
	}

	c.metrics.ObserveProviderCall(req.resource, metrics.OutcomeOK, time.Since(start))
	c.logger.DebugContext(ctx, "espn request succeeded", "resource", req.resource, "url", fullURL, "bytes", len(raw))
	return true, nil
}

// guardedRequest runs one GET behind the circuit breaker. Only transport errors,
// 429 and 5xx count as upstream failures.
func (c *Client) guardedRequest(ctx context.Context, fullURL string) (response, error) {
	if err := c.breaker.Allow(); err != nil {
		return response{}, err
	}
	raw, statusCode, err := c.executeRequest(ctx, fullURL)
	c.breaker.Done(err != nil && isUpstreamFailure(statusCode))
	return response{body: raw, statusCode: statusCode}, err
}

func isUpstreamFailure(statusCode int) bool {
	return statusCode == 0 || statusCode == http.StatusTooManyRequests || statusCode >= http.StatusInternalServerError
}

func (c *Client) executeRequest(ctx context.Context, fullURL string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, 0, crerr.Wrap(err, "build request")
	}
	req.Header.Set("accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, crerr.Wrap(err, "send request")
	}
	raw, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	_ = resp.Body.Close()
	if readErr != nil {
		return nil, resp.StatusCode, crerr.Wrap(readErr, "read response body")
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, resp.StatusCode, crerr.Newf("provider status=%d body=%s", resp.StatusCode, abbreviateBody(raw))
	}
	return raw, resp.StatusCode, nil
}

func abbreviateBody(body []byte) string {
	text := strings.TrimSpace(string(body))
	if len(text) <= 240 {
		return text
	}
	return text[:240] + "..."
}
