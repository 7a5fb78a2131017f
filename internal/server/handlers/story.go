package handlers

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
	apperrors "github.com/toldwithlove/toldwithlove/internal/errors"
	"github.com/toldwithlove/toldwithlove/internal/metrics"
	"github.com/toldwithlove/toldwithlove/internal/observability"
	"github.com/toldwithlove/toldwithlove/internal/output"
	"github.com/toldwithlove/toldwithlove/internal/store"
)

// Stories serves generated stories: the HTML page and the PDF/text
// downloads. Lookups try the in-memory store first, then the mirror, then
// the database, re-warming the store on a hit.
type Stories struct {
	Artifacts *artifact.Store
	Mirror    *artifact.Mirror
	DB        *store.Store

	// DisablePDF forces plain-text downloads even when a PDF is requested.
	DisablePDF bool
}

func (h *Stories) lookup(r *http.Request, id string) (*artifact.Artifact, bool) {
	if a, ok := h.Artifacts.Get(id); ok {
		return a, true
	}

	if h.Mirror != nil {
		if a, ok := h.Mirror.Load(id); ok {
			h.Artifacts.Put(a)
			return a, true
		}
	}

	if h.DB != nil {
		rec, err := h.DB.GetStory(r.Context(), id)
		if err != nil {
			if logger := observability.ServerLogger; logger != nil {
				logger.Error("Story lookup failed",
					zap.String("story_id", id),
					zap.Error(err))
			}
			return nil, false
		}
		if rec != nil {
			a := &artifact.Artifact{
				ID:        rec.ID,
				Title:     rec.Title,
				Text:      rec.Content,
				Kind:      rec.ContentType,
				Fields:    rec.Fields,
				CreatedAt: rec.CreatedAt,
			}
			h.Artifacts.Put(a)
			return a, true
		}
	}

	return nil, false
}

// StoryHandler serves GET /story/{id} as an HTML page.
func (h *Stories) StoryHandler(w http.ResponseWriter, r *http.Request) {
	id := artifact.SanitizeID(chi.URLParam(r, "id"))

	a, ok := h.lookup(r, id)
	if !ok {
		respondWithError(w, r, apperrors.NewNotFoundError("Story not found"))
		return
	}

	page, err := output.RenderHTML(a)
	if err != nil {
		respondWithError(w, r, apperrors.WrapInternal(r.Context(), err, "Unable to render story page"))
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(page)
}

// DownloadHandler serves GET /download/{id}: a PDF by default, plain text
// with ?format=text.
func (h *Stories) DownloadHandler(w http.ResponseWriter, r *http.Request) {
	id := artifact.SanitizeID(chi.URLParam(r, "id"))

	a, ok := h.lookup(r, id)
	if !ok {
		respondWithError(w, r, apperrors.NewNotFoundError("Story not found"))
		return
	}

	format := strings.ToLower(r.URL.Query().Get("format"))
	switch format {
	case "", "pdf":
		if h.DisablePDF {
			h.serveText(w, a, id)
			return
		}
		doc, err := output.RenderPDF(a)
		if err != nil {
			respondWithError(w, r, apperrors.WrapInternal(r.Context(), err, "Unable to render story PDF"))
			return
		}
		metrics.RecordDownload("pdf")
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="story_`+id+`.pdf"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(doc)
	case "text", "txt":
		h.serveText(w, a, id)
	default:
		respondWithError(w, r, apperrors.NewInvalidInputError("Unsupported download format: "+format))
	}
}

func (h *Stories) serveText(w http.ResponseWriter, a *artifact.Artifact, id string) {
	metrics.RecordDownload("text")
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="story_`+id+`.txt"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(output.RenderText(a))
}
