package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"imperilator/internal/calculator"
	"imperilator/internal/measure"
	"imperilator/internal/observability"
	"imperilator/internal/testutil"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	observability.Logger = zap.NewNop()

	store := calculator.NewStore(zap.NewNop(), 0)
	reg := observability.NewRegistry()
	if err := calculator.RegisterCollectors(reg, store); err != nil {
		t.Fatalf("registering collectors: %v", err)
	}
	return NewRouter(calculator.NewHandler(store), observability.PrometheusHandler(reg))
}

func TestNewRouterHealthEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/health", nil), router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	if body := w.Body.String(); body != "ok" {
		t.Fatalf("expected body %q, got %q", "ok", body)
	}
}

func TestNewRouterMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/sessions", nil), router)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/metrics", nil), router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	body := w.Body.String()
	if !strings.Contains(body, "calculator_active_sessions 1") {
		t.Fatalf("expected active sessions gauge in metrics output, got:\n%s", body)
	}
	if !strings.Contains(body, "go_goroutines") {
		t.Fatal("expected Go runtime collector in metrics output")
	}
}

func TestNewRouterScriptSetsHeaderAndOmitsRequestIDInBody(t *testing.T) {
	router := newTestRouter(t)

	req := testutil.NewJSONRequest(t, http.MethodPost, "/calculator/evaluate", calculator.ScriptRequest{
		Tokens: []measure.InputToken{
			measure.NewToken(measure.PadScalar, "2"),
			measure.NewToken(measure.PadOperator, "+"),
			measure.NewToken(measure.PadScalar, "3"),
		},
	})
	w := testutil.ExecuteRequest(req, router)

	testutil.CheckResponseCode(t, http.StatusOK, w.Code)

	requestID := w.Result().Header.Get("X-Request-ID")
	if requestID == "" {
		t.Fatal("expected X-Request-ID header to be set")
	}
	if _, err := uuid.Parse(requestID); err != nil {
		t.Fatalf("expected valid UUID in X-Request-ID, got %q: %v", requestID, err)
	}

	var payload map[string]any
	testutil.DecodeJSONBody(t, w.Body, &payload)

	if _, ok := payload["request_id"]; ok {
		t.Fatal("did not expect request_id field in success JSON body")
	}
	if got := payload["result"]; got != "5" {
		t.Fatalf("expected result %q, got %#v", "5", got)
	}
}

func TestNewRouterSessionFlow(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodPost, "/sessions", nil), router)
	testutil.CheckResponseCode(t, http.StatusCreated, w.Code)
	var view calculator.SessionView
	testutil.DecodeJSONBody(t, w.Body, &view)

	for _, tok := range []measure.InputToken{
		measure.NewToken(measure.PadFeet, "6"),
		measure.NewToken(measure.PadOperator, "/"),
		measure.NewToken(measure.PadFeet, "2"),
		measure.NewToken(measure.PadOperator, "="),
	} {
		w = testutil.ExecuteRequest(testutil.NewJSONRequest(t, http.MethodPost, "/sessions/"+view.ID+"/tokens", tok), router)
		testutil.CheckResponseCode(t, http.StatusOK, w.Code)
	}

	testutil.DecodeJSONBody(t, w.Body, &view)
	if view.Expression != "3" {
		t.Fatalf("expected expression %q after evaluation, got %q", "3", view.Expression)
	}
}

func TestNewRouterUnknownRoute(t *testing.T) {
	router := newTestRouter(t)

	w := testutil.ExecuteRequest(httptest.NewRequest(http.MethodGet, "/calculator/add", nil), router)

	testutil.CheckResponseCode(t, http.StatusNotFound, w.Code)
}
