package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
)

func storyTestRouter(h *Stories) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/story/{id}", h.StoryHandler)
	r.Get("/download/{id}", h.DownloadHandler)
	return r
}

func seededStories(t *testing.T, disablePDF bool) *Stories {
	t.Helper()
	store := artifact.NewStore(artifact.DefaultCapacity)
	store.Put(&artifact.Artifact{
		ID:        "abc123",
		Title:     "A Story for Two",
		Text:      "Once upon a time in Paris, two people met at a cafe.",
		Kind:      "love_story",
		CreatedAt: time.Now().UTC(),
	})
	return &Stories{Artifacts: store, DisablePDF: disablePDF}
}

func TestStoryHandlerRendersHTML(t *testing.T) {
	router := storyTestRouter(seededStories(t, false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/story/abc123", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Fatalf("expected HTML content type, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "A Story for Two") {
		t.Fatal("expected page to contain the story title")
	}
}

func TestStoryHandlerUnknownIDReturns404(t *testing.T) {
	router := storyTestRouter(seededStories(t, false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/story/missing", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", rec.Code)
	}
}

func TestDownloadHandlerServesPDFByDefault(t *testing.T) {
	router := storyTestRouter(seededStories(t, false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/abc123", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Fatalf("expected application/pdf, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "story_abc123.pdf") {
		t.Fatalf("unexpected content disposition: %s", cd)
	}
}

func TestDownloadHandlerTextFormat(t *testing.T) {
	router := storyTestRouter(seededStories(t, false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/abc123?format=text", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain, got %s", ct)
	}
	if !strings.Contains(rec.Body.String(), "Once upon a time in Paris") {
		t.Fatal("expected body to contain the story text")
	}
}

func TestDownloadHandlerPDFDisabledFallsBackToText(t *testing.T) {
	router := storyTestRouter(seededStories(t, true))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/abc123?format=pdf", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Fatalf("expected text/plain fallback, got %s", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "story_abc123.txt") {
		t.Fatalf("unexpected content disposition: %s", cd)
	}
}

func TestDownloadHandlerRejectsUnknownFormat(t *testing.T) {
	router := storyTestRouter(seededStories(t, false))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/download/abc123?format=docx", nil))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}
}
