package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
	apperrors "github.com/toldwithlove/toldwithlove/internal/errors"
	"github.com/toldwithlove/toldwithlove/internal/genai"
	"github.com/toldwithlove/toldwithlove/internal/genai/driver"
	"github.com/toldwithlove/toldwithlove/internal/intake"
	"github.com/toldwithlove/toldwithlove/internal/server/handlers"
)

type fixedDriver struct {
	text string
	err  error
}

func (d fixedDriver) Complete(ctx context.Context, req *driver.Request) (*driver.Response, error) {
	if d.err != nil {
		return nil, d.err
	}
	return &driver.Response{Text: d.text}, nil
}

func (d fixedDriver) Name() string { return "fixed" }

func testServer(t *testing.T, drv driver.Driver) *Server {
	t.Helper()

	cfg := genai.Defaults()
	cfg.APIKey = "test-key"

	rules, err := intake.DefaultRules()
	if err != nil {
		t.Fatalf("failed to load default rules: %v", err)
	}

	srv := New("127.0.0.1", 0, Deps{
		Rules:     rules,
		Generator: genai.NewWithDriver(drv, cfg, nil),
		Artifacts: artifact.NewStore(artifact.DefaultCapacity),
		BaseURL:   "http://stories.test",
	})
	t.Cleanup(handlers.ResetHTTPErrorResponder)
	return srv
}

func TestServerUsesStandardErrorHandlers(t *testing.T) {
	srv := testServer(t, fixedDriver{text: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/does-not-exist", nil)
	rec := httptest.NewRecorder()

	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}

	var body apperrors.HTTPErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}

	if body.Error.Code != "NOT_FOUND" {
		t.Fatalf("expected error code NOT_FOUND, got %s", body.Error.Code)
	}
}

const tallyPayload = `{
	"eventBody": {
		"event": {
			"formId": "form1",
			"formResponses": [{
				"responseId": "resp#42!",
				"submittedAt": "2026-03-01T12:00:00Z",
				"answers": [
					{"fieldId": "Your_Name", "value": "Sam"},
					{"fieldId": "Partner_Name", "value": "Riley"},
					{"fieldId": "Setting", "value": "Lisbon"}
				]
			}]
		}
	}
}`

func TestWebhookThenStoryRoundTrip(t *testing.T) {
	srv := testServer(t, fixedDriver{text: "# A Lisbon Story\n\nSam met Riley."})

	req := httptest.NewRequest(http.MethodPost, "/webhook/tally", strings.NewReader(tallyPayload))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp handlers.WebhookResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("failed to decode webhook response: %v", err)
	}
	if !resp.Success {
		t.Fatalf("expected success response")
	}
	if resp.StoryURL != "http://stories.test/story/resp42" {
		t.Fatalf("unexpected story url: %s", resp.StoryURL)
	}
	if resp.DownloadURL != "http://stories.test/download/resp42" {
		t.Fatalf("unexpected download url: %s", resp.DownloadURL)
	}

	pageReq := httptest.NewRequest(http.MethodGet, "/story/resp42", nil)
	pageRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(pageRec, pageReq)

	if pageRec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for story page, got %d", pageRec.Code)
	}
	if !strings.Contains(pageRec.Body.String(), "A Lisbon Story") {
		t.Fatalf("story page missing title: %s", pageRec.Body.String())
	}

	dlReq := httptest.NewRequest(http.MethodGet, "/download/resp42?format=text", nil)
	dlRec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(dlRec, dlReq)

	if dlRec.Code != http.StatusOK {
		t.Fatalf("expected status 200 for text download, got %d", dlRec.Code)
	}
	if ct := dlRec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("unexpected content type: %s", ct)
	}
	if !strings.Contains(dlRec.Body.String(), "Sam met Riley.") {
		t.Fatalf("text download missing body: %s", dlRec.Body.String())
	}
}

func TestWebhookRejectsGarbagePayload(t *testing.T) {
	srv := testServer(t, fixedDriver{text: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/webhook/tally", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var body apperrors.HTTPErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error response: %v", err)
	}
	if body.Error.Code != "VALIDATION_FAILED" {
		t.Fatalf("expected VALIDATION_FAILED, got %s", body.Error.Code)
	}
}

func TestStoryNotFound(t *testing.T) {
	srv := testServer(t, fixedDriver{text: "unused"})

	req := httptest.NewRequest(http.MethodGet, "/story/missing123", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestBillingRoutesAbsentWithoutStripe(t *testing.T) {
	srv := testServer(t, fixedDriver{text: "unused"})

	req := httptest.NewRequest(http.MethodPost, "/webhook/stripe", strings.NewReader("{}"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404 when billing disabled, got %d", rec.Code)
	}
}
