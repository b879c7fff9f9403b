package espn

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/riskibarqy/nfl-league/internal/metrics"
	"github.com/riskibarqy/nfl-league/internal/platform/resilience"
	"github.com/riskibarqy/nfl-league/internal/usecase"
)

const predictorPath = "/core/events/401437654/competitions/401437654/predictor"

type fixtureServer struct {
	*httptest.Server

	mu       sync.Mutex
	requests []string
}

func (s *fixtureServer) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.requests))
	copy(out, s.requests)
	return out
}

// newFixtureServer serves the testdata payloads on the three ESPN base paths.
// Predictors other than event 401437654 answer 404.
func newFixtureServer(t *testing.T) *fixtureServer {
	t.Helper()

	fixtures := map[string][]byte{
		"/site/scoreboard":         readFixture(t, "scoreboard_week1.json"),
		"/site/teams":              readFixture(t, "teams.json"),
		"/standings-api/standings": readFixture(t, "standings.json"),
		predictorPath:              readFixture(t, "predictor_401437654.json"),
	}

	srv := &fixtureServer{}
	srv.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srv.mu.Lock()
		srv.requests = append(srv.requests, r.URL.RequestURI())
		srv.mu.Unlock()

		body, ok := fixtures[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newFixtureClient(srv *httptest.Server, m *metrics.Metrics) *Client {
	return NewClient(ClientConfig{
		HTTPClient:       srv.Client(),
		SiteBaseURL:      srv.URL + "/site/",
		StandingsBaseURL: srv.URL + "/standings-api",
		CoreBaseURL:      srv.URL + "/core",
		Timeout:          5 * time.Second,
		Metrics:          m,
	})
}

func TestNewClient_Defaults(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	if client.siteBaseURL != defaultSiteBaseURL || client.standingsBaseURL != defaultStandingsBaseURL || client.coreBaseURL != defaultCoreBaseURL {
		t.Fatalf("unexpected default base urls: %s %s %s", client.siteBaseURL, client.standingsBaseURL, client.coreBaseURL)
	}
	if client.httpClient.Timeout != defaultTimeout {
		t.Fatalf("expected default timeout=%s, got=%s", defaultTimeout, client.httpClient.Timeout)
	}
}

func TestClient_FetchGamesBuildsSeasonQuery(t *testing.T) {
	t.Parallel()

	srv := newFixtureServer(t)
	client := newFixtureClient(srv.Server, nil)

	games, err := client.FetchGames(context.Background(), 1)
	if err != nil {
		t.Fatalf("fetch games: %v", err)
	}
	if len(games) != 16 {
		t.Fatalf("expected 16 games, got=%d", len(games))
	}

	if _, err := client.FetchGames(context.Background(), 20); err != nil {
		t.Fatalf("fetch postseason games: %v", err)
	}

	requests := srv.requested()
	if len(requests) != 2 {
		t.Fatalf("expected 2 requests, got=%v", requests)
	}
	if requests[0] != "/site/scoreboard?seasontype=2&week=1" {
		t.Fatalf("unexpected regular season request: %s", requests[0])
	}
	if requests[1] != "/site/scoreboard?seasontype=3&week=2" {
		t.Fatalf("unexpected postseason request: %s", requests[1])
	}
}

func TestClient_FetchGamesRejectsInvalidWeek(t *testing.T) {
	t.Parallel()

	client := NewClient(ClientConfig{})
	if _, err := client.FetchGames(context.Background(), 0); !errors.Is(err, usecase.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestClient_FetchTeamsAndStandings(t *testing.T) {
	t.Parallel()

	srv := newFixtureServer(t)
	client := newFixtureClient(srv.Server, nil)

	teams, err := client.FetchTeams(context.Background())
	if err != nil {
		t.Fatalf("fetch teams: %v", err)
	}
	if len(teams) != 32 {
		t.Fatalf("expected 32 teams, got=%d", len(teams))
	}

	standings, err := client.FetchStandings(context.Background())
	if err != nil {
		t.Fatalf("fetch standings: %v", err)
	}
	if len(standings) != 32 {
		t.Fatalf("expected 32 standings, got=%d", len(standings))
	}

	requests := srv.requested()
	if requests[1] != "/standings-api/standings?seasontype=2" {
		t.Fatalf("unexpected standings request: %s", requests[1])
	}
}

func TestClient_FetchPrediction(t *testing.T) {
	t.Parallel()

	srv := newFixtureServer(t)
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	client := newFixtureClient(srv.Server, m)

	prediction, err := client.FetchPrediction(context.Background(), 401437654)
	if err != nil {
		t.Fatalf("fetch prediction: %v", err)
	}
	if prediction == nil || len(prediction.AwayTeam.Statistics) == 0 {
		t.Fatalf("expected predictor payload, got=%+v", prediction)
	}

	missing, err := client.FetchPrediction(context.Background(), 401437655)
	if err != nil {
		t.Fatalf("expected 404 predictor to be absent without error, got %v", err)
	}
	if missing != nil {
		t.Fatalf("expected nil prediction, got=%+v", missing)
	}

	if got := testutil.ToFloat64(m.ProviderCallsTotal.WithLabelValues(ResourcePredictor, metrics.OutcomeOK)); got != 1 {
		t.Fatalf("expected one ok predictor call, got=%v", got)
	}
	if got := testutil.ToFloat64(m.ProviderCallsTotal.WithLabelValues(ResourcePredictor, metrics.OutcomeNotFound)); got != 1 {
		t.Fatalf("expected one not_found predictor call, got=%v", got)
	}
}

func TestClient_StatusFailureIsFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	m := metrics.New(prometheus.NewRegistry())
	client := NewClient(ClientConfig{HTTPClient: srv.Client(), SiteBaseURL: srv.URL, Metrics: m})

	_, err := client.FetchTeams(context.Background())
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fetchErr.Resource != ResourceTeams || fetchErr.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("unexpected fetch error: %+v", fetchErr)
	}
	if !strings.HasSuffix(fetchErr.URL, "/teams") {
		t.Fatalf("unexpected fetch error url: %s", fetchErr.URL)
	}
	if !strings.Contains(err.Error(), "upstream unavailable") {
		t.Fatalf("expected body excerpt in error, got %v", err)
	}
	if got := testutil.ToFloat64(m.ProviderCallsTotal.WithLabelValues(ResourceTeams, metrics.OutcomeError)); got != 1 {
		t.Fatalf("expected one failed call, got=%v", got)
	}
}

func TestClient_ScoreboardNotFoundIsFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), SiteBaseURL: srv.URL})
	_, err := client.FetchGames(context.Background(), 3)

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404 FetchError, got %v", err)
	}
}

func TestClient_UndecodableBodyIsFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"children": "oops"`))
	}))
	defer srv.Close()

	client := NewClient(ClientConfig{HTTPClient: srv.Client(), StandingsBaseURL: srv.URL})
	_, err := client.FetchStandings(context.Background())

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusOK || fetchErr.Resource != ResourceStandings {
		t.Fatalf("unexpected fetch error: %+v", fetchErr)
	}
}

func TestClient_TransportFailureIsFetchError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	baseURL := srv.URL
	srv.Close()

	client := NewClient(ClientConfig{SiteBaseURL: baseURL, Timeout: time.Second})
	_, err := client.FetchTeams(context.Background())
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected ErrFetchFailed, got %v", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.StatusCode != 0 {
		t.Fatalf("expected FetchError without status, got %v", err)
	}
}

func TestClient_CircuitBreakerStopsCallingFailingUpstream(t *testing.T) {
	t.Parallel()

	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	m := metrics.New(prometheus.NewRegistry())
	client := NewClient(ClientConfig{
		HTTPClient:  srv.Client(),
		CoreBaseURL: srv.URL,
		Metrics:     m,
		CircuitBreaker: resilience.CircuitBreakerConfig{
			Enabled:          true,
			FailureThreshold: 2,
			OpenTimeout:      time.Minute,
			HalfOpenMaxReq:   1,
		},
	})

	for eventID := int64(401437654); eventID < 401437656; eventID++ {
		if _, err := client.FetchPrediction(context.Background(), eventID); !errors.Is(err, usecase.ErrFetchFailed) {
			t.Fatalf("expected fetch failure for %d, got %v", eventID, err)
		}
	}

	_, err := client.FetchPrediction(context.Background(), 401437656)
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected circuit open error, got %v", err)
	}
	if !errors.Is(err, usecase.ErrFetchFailed) {
		t.Fatalf("expected rejected call to still be a fetch failure, got %v", err)
	}
	if got := hits.Load(); got != 2 {
		t.Fatalf("expected upstream to be hit twice, got %d", got)
	}
	if got := testutil.ToFloat64(m.ProviderCallsTotal.WithLabelValues(ResourcePredictor, metrics.OutcomeRejected)); got != 1 {
		t.Fatalf("expected one rejected call, got=%v", got)
	}
	if got := testutil.ToFloat64(m.CircuitTransitions.WithLabelValues("closed", "open")); got != 1 {
		t.Fatalf("expected one closed->open transition, got=%v", got)
	}
}

func TestClient_NotFoundDoesNotTripBreaker(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	client := NewClient(ClientConfig{
		HTTPClient:     srv.Client(),
		CoreBaseURL:    srv.URL,
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: true, FailureThreshold: 1},
	})

	for i := 0; i < 3; i++ {
		prediction, err := client.FetchPrediction(context.Background(), 401437660)
		if err != nil || prediction != nil {
			t.Fatalf("expected unpublished predictor, got %v %v", prediction, err)
		}
	}
	if state := client.breaker.State(); state != resilience.CircuitStateClosed {
		t.Fatalf("expected closed breaker, got %s", state)
	}
}

func TestClient_SharedRequestSurvivesCancelledCaller(t *testing.T) {
	teams := readFixture(t, "teams.json")
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	var hits atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		select {
		case started <- struct{}{}:
		default:
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(teams)
	}))
	defer srv.Close()
	client := newFixtureClient(srv, nil)

	firstCtx, cancelFirst := context.WithCancel(context.Background())
	firstDone := make(chan struct{})
	go func() {
		defer close(firstDone)
		_, _ = client.FetchTeams(firstCtx)
	}()
	<-started

	secondErr := make(chan error, 1)
	go func() {
		_, err := client.FetchTeams(context.Background())
		secondErr <- err
	}()
	time.Sleep(50 * time.Millisecond)
	cancelFirst()
	time.Sleep(50 * time.Millisecond)
	close(release)

	select {
	case err := <-secondErr:
		if err != nil {
			t.Fatalf("expected shared request to succeed after first caller cancelled, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("second caller did not return")
	}
	<-firstDone
	if got := hits.Load(); got != 1 {
		t.Fatalf("expected one upstream request, got %d", got)
	}
}
