package intake

import (
	"encoding/json"
	"fmt"
)

// WebhookEnvelope is the Tally webhook event wrapper. Only the fields this
// service consumes are declared; unknown fields are ignored by the decoder.
type WebhookEnvelope struct {
	EventBody EventBody `json:"eventBody"`
}

type EventBody struct {
	Event Event `json:"event"`
}

type Event struct {
	FormID        string         `json:"formId"`
	FormResponses []FormResponse `json:"formResponses"`
}

// FormResponse is one submission of the form, newest first.
type FormResponse struct {
	ResponseID  string   `json:"responseId"`
	SubmittedAt string   `json:"submittedAt"`
	Answers     []Answer `json:"answers"`
}

// Submission is a normalized form submission ready for prompt building.
type Submission struct {
	Fields       FieldSet
	SubmissionID string
	SubmittedAt  string
	FormID       string
	Report       Report
}

// DecodeWebhook parses a raw Tally webhook body.
func DecodeWebhook(body []byte) (*WebhookEnvelope, error) {
	var envelope WebhookEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("decode webhook payload: %w", err)
	}
	return &envelope, nil
}

// Normalize converts a webhook envelope into a validated Submission. The
// newest form response is used. Field identifiers are resolved through the
// rule table, absent keys receive their defaults, and the required story
// keys are validated. A *ValidationError is returned when required keys are
// empty after defaulting.
func Normalize(envelope *WebhookEnvelope, rules *RuleTable) (*Submission, error) {
	if envelope == nil {
		return nil, fmt.Errorf("webhook envelope is required")
	}
	responses := envelope.EventBody.Event.FormResponses
	if len(responses) == 0 {
		return nil, fmt.Errorf("no form responses found in webhook payload")
	}

	latest := responses[0]
	fields, report := rules.MapAnswers(latest.Answers)
	fields.ApplyStoryDefaults()

	if err := fields.ValidateStory(); err != nil {
		return nil, err
	}

	return &Submission{
		Fields:       fields,
		SubmissionID: latest.ResponseID,
		SubmittedAt:  latest.SubmittedAt,
		FormID:       envelope.EventBody.Event.FormID,
		Report:       report,
	}, nil
}
