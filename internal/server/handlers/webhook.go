package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/toldwithlove/toldwithlove/internal/artifact"
	"github.com/toldwithlove/toldwithlove/internal/billing"
	"github.com/toldwithlove/toldwithlove/internal/content"
	apperrors "github.com/toldwithlove/toldwithlove/internal/errors"
	"github.com/toldwithlove/toldwithlove/internal/genai"
	"github.com/toldwithlove/toldwithlove/internal/intake"
	"github.com/toldwithlove/toldwithlove/internal/metrics"
	"github.com/toldwithlove/toldwithlove/internal/observability"
	"github.com/toldwithlove/toldwithlove/internal/store"
)

const maxWebhookBody = 1 << 20

// WebhookResponse is the acknowledgement returned to the form provider.
type WebhookResponse struct {
	Success     bool   `json:"success"`
	Message     string `json:"message"`
	StoryURL    string `json:"story_url,omitempty"`
	DownloadURL string `json:"download_url,omitempty"`
}

// Webhook handles inbound Tally form submissions: normalize, check quota,
// generate, store, and answer with the story links.
type Webhook struct {
	Rules     *intake.RuleTable
	Generator *genai.Generator
	Artifacts *artifact.Store
	Mirror    *artifact.Mirror
	DB        *store.Store
	BaseURL   string
}

// TallyHandler processes one Tally webhook delivery.
func (h *Webhook) TallyHandler(w http.ResponseWriter, r *http.Request) {
	logger := observability.ServerLogger

	body, err := io.ReadAll(io.LimitReader(r.Body, maxWebhookBody))
	if err != nil {
		metrics.RecordWebhookSubmission("tally", false)
		respondWithError(w, r, apperrors.WrapInvalidInput(r.Context(), err, "Unable to read webhook body"))
		return
	}

	envelope, err := intake.DecodeWebhook(body)
	if err != nil {
		metrics.RecordWebhookSubmission("tally", false)
		respondWithError(w, r, apperrors.WrapValidationError(r.Context(), err, "Malformed webhook payload"))
		return
	}

	submission, err := intake.Normalize(envelope, h.Rules)
	if err != nil {
		metrics.RecordWebhookSubmission("tally", false)
		var verr *intake.ValidationError
		if errors.As(err, &verr) {
			respondWithError(w, r, apperrors.WrapValidationError(r.Context(), err, "Submission is missing required fields"))
			return
		}
		respondWithError(w, r, apperrors.WrapValidationError(r.Context(), err, "Submission could not be processed"))
		return
	}
	metrics.RecordWebhookSubmission("tally", true)

	if len(submission.Report.Dropped) > 0 && logger != nil {
		logger.Warn("Dropped unmapped submission fields",
			zap.Strings("fields", submission.Report.Dropped),
			zap.String("submission_id", submission.SubmissionID))
	}

	email := submission.Fields.Get(intake.KeyEmail)
	if err := h.checkQuota(r.Context(), email); err != nil {
		respondWithError(w, r, err)
		return
	}

	// The story form carries no content_type field; only an explicit value
	// routes a submission to the universal builder.
	contentType := content.TypeLoveStory
	if raw := submission.Fields.Get(intake.KeyContentType); raw != "" {
		contentType = content.ParseType(raw)
	}
	storyID := artifact.SanitizeID(submission.SubmissionID)

	text, genErr := h.generate(r.Context(), submission.Fields, contentType)
	if genErr != nil {
		respondWithError(w, r, apperrors.WrapGenerationFailed(r.Context(), genErr, "Story generation failed"))
		return
	}

	a := &artifact.Artifact{
		ID:        storyID,
		Title:     artifact.TitleFromText(text, contentType.Title()),
		Text:      text,
		Kind:      string(contentType),
		Fields:    submission.Fields,
		CreatedAt: time.Now().UTC(),
	}
	h.persist(r.Context(), a, email)

	response := WebhookResponse{
		Success:     true,
		Message:     "Your story has been created!",
		StoryURL:    h.BaseURL + "/story/" + storyID,
		DownloadURL: h.BaseURL + "/download/" + storyID,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(response)
}

func (h *Webhook) generate(ctx context.Context, fields intake.FieldSet, contentType content.Type) (string, error) {
	start := time.Now()

	var (
		text string
		err  error
	)
	if contentType == content.TypeLoveStory {
		prompt := content.BuildLoveStoryPrompt(fields)
		text, err = h.Generator.GenerateLoveStory(ctx, content.LoveStorySystemPersona, prompt)
	} else {
		prompt := content.BuildPrompt(fields, contentType)
		text, err = h.Generator.Generate(ctx, content.SystemPersona, prompt)
	}

	metrics.RecordGeneration(string(contentType), err == nil, time.Since(start))
	return text, err
}

// checkQuota enforces the monthly story allowance when the submission
// identifies a user. Anonymous submissions pass through.
func (h *Webhook) checkQuota(ctx context.Context, email string) error {
	if email == "" || h.DB == nil {
		return nil
	}

	user, err := h.DB.EnsureUser(ctx, email, "")
	if err != nil {
		// Quota state being unavailable must not block generation.
		if logger := observability.ServerLogger; logger != nil {
			logger.Warn("Quota lookup failed", zap.Error(err))
		}
		return nil
	}

	plan := billing.ParsePlan(user.Plan)
	if !plan.Allows(user.StoriesThisMonth) {
		return apperrors.NewQuotaExceededError("Monthly story limit reached for your plan")
	}
	return nil
}

// persist records the artifact everywhere it lives: the serving store, the
// mirror, and the database. Only the in-memory store is load-bearing for
// the response; the rest log and continue.
func (h *Webhook) persist(ctx context.Context, a *artifact.Artifact, email string) {
	logger := observability.ServerLogger

	h.Artifacts.Put(a)

	if h.Mirror != nil {
		if err := h.Mirror.Write(a); err != nil && logger != nil {
			logger.Error("Failed to mirror story record",
				zap.String("story_id", a.ID),
				zap.Error(err))
		}
	}

	if h.DB != nil {
		rec := &store.StoryRecord{
			ID:          a.ID,
			UserEmail:   email,
			Title:       a.Title,
			Content:     a.Text,
			ContentType: a.Kind,
			Fields:      a.Fields,
			CreatedAt:   a.CreatedAt,
		}
		if err := h.DB.InsertStory(ctx, rec); err != nil && logger != nil {
			logger.Error("Failed to persist story",
				zap.String("story_id", a.ID),
				zap.Error(err))
		}

		if email != "" {
			if err := h.DB.RecordStoryUse(ctx, email); err != nil && logger != nil {
				logger.Warn("Failed to record story use",
					zap.String("story_id", a.ID),
					zap.Error(err))
			}
		}
	}
}
