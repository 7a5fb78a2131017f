package intake

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResolveKnownAlias(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	key, kind, ok := rules.Resolve("Partner_Name")
	require.True(t, ok)
	require.Equal(t, KeyName2, key)
	require.Equal(t, MatchAlias, kind)
}

func TestResolveKeywordHeuristicBeatsLocationWords(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	// "where" suggests setting, but the meet keyword is more specific and
	// must win for identifiers like this one.
	key, kind, ok := rules.Resolve("Where_did_you_meet")
	require.True(t, ok)
	require.Equal(t, KeyHowMet, key)
	require.Equal(t, MatchKeyword, kind)
}

func TestResolveUnknownIdentifier(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	_, _, ok := rules.Resolve("favorite_color")
	require.False(t, ok)
}

func TestMapAnswersDropsUnresolvableAndReports(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	fields, report := rules.MapAnswers([]Answer{
		{FieldID: "your_name", Value: "Alex"},
		{FieldID: "favorite_color", Value: "blue"},
		{FieldID: "Where_did_you_meet", Value: "at a bookstore"},
	})

	require.Equal(t, "Alex", fields.Get(KeyName1))
	require.Equal(t, "at a bookstore", fields.Get(KeyHowMet))
	require.NotContains(t, fields, Key("favorite_color"))

	require.Equal(t, []string{"favorite_color"}, report.Dropped)
	require.Equal(t, KeyHowMet, report.Guessed["Where_did_you_meet"])
}

func TestMapAnswersSecondBareNameBecomesPartner(t *testing.T) {
	rules, err := DefaultRules()
	require.NoError(t, err)

	fields, _ := rules.MapAnswers([]Answer{
		{FieldID: "What is their name", Value: "Alex"},
		{FieldID: "And the other name", Value: "Jordan"},
	})

	require.Equal(t, "Alex", fields.Get(KeyName1))
	require.Equal(t, "Jordan", fields.Get(KeyName2))
}

func TestParseRulesRejectsEmptyTable(t *testing.T) {
	_, err := ParseRules([]byte("keywords: []\n"))
	require.Error(t, err)
}
