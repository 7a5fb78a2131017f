package intake

import (
	"testing"

	"github.com/stretchr/testify/require"
)

const sampleWebhook = `{
  "eventBody": {
    "event": {
      "formId": "form-1",
      "formResponses": [
        {
          "responseId": "resp-abc-123",
          "submittedAt": "2025-06-01T12:00:00Z",
          "answers": [
            {"fieldId": "your_name", "value": "Alex"},
            {"fieldId": "partner_name", "value": "Jordan"},
            {"fieldId": "setting", "value": "Paris"},
            {"fieldId": "Where_did_you_meet", "value": "at a bookstore"}
          ]
        }
      ]
    }
  }
}`

func TestNormalizeFillsDefaultsAndMetadata(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	envelope, err := DecodeWebhook([]byte(sampleWebhook))
	require.NoError(t, err)

	sub, err := Normalize(envelope, rules)
	require.NoError(t, err)

	require.Equal(t, "Alex", sub.Fields.Get(KeyName1))
	require.Equal(t, "Jordan", sub.Fields.Get(KeyName2))
	require.Equal(t, "Paris", sub.Fields.Get(KeySetting))
	require.Equal(t, "at a bookstore", sub.Fields.Get(KeyHowMet))

	// Unsupplied keys take their defaults.
	require.Equal(t, "medium", sub.Fields.Get(KeyStoryLength))
	require.Equal(t, "reading and writing", sub.Fields.Get(KeySharedInterest))

	require.Equal(t, "resp-abc-123", sub.SubmissionID)
	require.Equal(t, "form-1", sub.FormID)
}

func TestNormalizeRejectsExplicitlyEmptyRequiredField(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	envelope := &WebhookEnvelope{}
	envelope.EventBody.Event.FormResponses = []FormResponse{{
		ResponseID: "resp-1",
		Answers: []Answer{
			{FieldID: "your_name", Value: ""},
			{FieldID: "partner_name", Value: "Jordan"},
			{FieldID: "setting", Value: "Paris"},
		},
	}}

	_, err = Normalize(envelope, rules)
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	require.Equal(t, []Key{KeyName1}, verr.Missing)
}

func TestNormalizeRequiresFormResponses(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	_, err = Normalize(&WebhookEnvelope{}, rules)
	require.Error(t, err)
}

func TestDecodeWebhookRejectsGarbage(t *testing.T) {
	_, err := DecodeWebhook([]byte("not json"))
	require.Error(t, err)
}
