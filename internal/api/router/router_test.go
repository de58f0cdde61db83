package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/carebridge/complaint-intake/internal/complaint"
	"github.com/carebridge/complaint-intake/internal/dialogue"
	"github.com/carebridge/complaint-intake/internal/intake"
	"github.com/carebridge/complaint-intake/internal/nlu"
	"github.com/carebridge/complaint-intake/internal/session"
	"github.com/carebridge/complaint-intake/pkg/logging"
)

type staticPort struct{}

func (staticPort) Classify(ctx context.Context, text string) (*nlu.Classification, error) {
	return &nlu.Classification{
		Domain:      complaint.DomainManagement,
		Subcategory: complaint.SubWaitTime,
		Description: text,
	}, nil
}

func (staticPort) SelectMissingFields(ctx context.Context, rec *complaint.Record, candidates []string) ([]string, error) {
	return candidates, nil
}

func (staticPort) GenerateQuestion(ctx context.Context, fieldPath, conversationContext string) (string, error) {
	return "Could you share the " + fieldPath + "?", nil
}

func (staticPort) ExtractValue(ctx context.Context, question, fieldPath, reply string) (string, error) {
	return reply, nil
}

func (staticPort) JudgeValidity(ctx context.Context, question, reply, recordContext string) (*nlu.Judgement, error) {
	return &nlu.Judgement{}, nil
}

func (staticPort) ClassifyIntent(ctx context.Context, question, reply string) (string, error) {
	return nlu.IntentAnswer, nil
}

func (staticPort) ExtractContact(ctx context.Context, reply string) (*nlu.ContactDetails, error) {
	return &nlu.ContactDetails{}, nil
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	logger := logging.Default()

	engine := dialogue.NewEngine(staticPort{})
	service := intake.NewService(engine, session.NewStore(client, time.Hour), nil, logger)

	return New(&Config{
		Logger:             logger,
		IntakeHandler:      intake.NewHandler(service, logger),
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: []string{"https://feedback.example.org"},
	})
}

func TestRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if body := rr.Body.String(); body != `{"status":"ok"}` {
		t.Errorf("unexpected health body: %s", body)
	}
}

func TestRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
}

func TestRouterIntakeRoutes(t *testing.T) {
	router := newTestRouter(t)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/intake/start", nil))
	if rr.Code != http.StatusCreated {
		t.Fatalf("start: expected status %d, got %d", http.StatusCreated, rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/intake/start", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET start: expected status %d, got %d", http.StatusMethodNotAllowed, rr.Code)
	}

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown route: expected status %d, got %d", http.StatusNotFound, rr.Code)
	}
}

func TestRouterCORSPreflight(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/intake/message", nil)
	req.Header.Set("Origin", "https://feedback.example.org")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight: expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://feedback.example.org" {
		t.Errorf("allow-origin = %q", got)
	}
}
