package intake

import (
	_ "embed"
	"fmt"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

// AliasRule maps a set of known field-identifier aliases to one key.
type AliasRule struct {
	Key      Key      `yaml:"key"`
	Patterns []string `yaml:"patterns"`
}

// KeywordRule maps identifier substrings to a key. Keyword rules run only
// when no alias rule matched, in declaration order.
type KeywordRule struct {
	Key      Key      `yaml:"key"`
	Contains []string `yaml:"contains"`
}

// RuleTable is the ordered field-mapping rule set. Rules are data, not code:
// new form aliases are additive edits to rules.yaml.
type RuleTable struct {
	Aliases  []AliasRule   `yaml:"aliases"`
	Keywords []KeywordRule `yaml:"keywords"`
}

// MatchKind records which stage resolved an identifier.
type MatchKind string

const (
	MatchAlias   MatchKind = "alias"
	MatchKeyword MatchKind = "keyword"
)

// ParseRules decodes a rule table from YAML.
func ParseRules(data []byte) (*RuleTable, error) {
	var table RuleTable
	if err := yaml.Unmarshal(data, &table); err != nil {
		return nil, fmt.Errorf("parse mapping rules: %w", err)
	}
	if len(table.Aliases) == 0 {
		return nil, fmt.Errorf("mapping rules define no aliases")
	}
	return &table, nil
}

var (
	defaultRules     *RuleTable
	defaultRulesErr  error
	defaultRulesOnce sync.Once
)

// DefaultRules returns the embedded rule table.
func DefaultRules() (*RuleTable, error) {
	defaultRulesOnce.Do(func() {
		defaultRules, defaultRulesErr = ParseRules(defaultRulesYAML)
	})
	return defaultRules, defaultRulesErr
}

// Resolve maps a raw field identifier to an internal key. Alias rules are
// checked first in declaration order, matching case-insensitively in either
// direction (alias within identifier, or identifier within alias, as short
// form identifiers abbreviate aliases). Keyword rules run as a fallback.
func (t *RuleTable) Resolve(fieldID string) (Key, MatchKind, bool) {
	ident := strings.ToLower(strings.TrimSpace(fieldID))
	if ident == "" {
		return "", "", false
	}

	for _, rule := range t.Aliases {
		for _, pattern := range rule.Patterns {
			if strings.Contains(ident, pattern) || strings.Contains(pattern, ident) {
				return rule.Key, MatchAlias, true
			}
		}
	}

	for _, rule := range t.Keywords {
		for _, fragment := range rule.Contains {
			if strings.Contains(ident, fragment) {
				return rule.Key, MatchKeyword, true
			}
		}
	}

	return "", "", false
}

// Report describes how a submission's identifiers were resolved. Dropped and
// guessed identifiers are surfaced for logging rather than silently
// discarded; the mapping itself still proceeds.
type Report struct {
	// Dropped lists identifiers no rule resolved.
	Dropped []string
	// Guessed maps identifiers resolved by keyword heuristics (not a known
	// alias) to the key chosen for them.
	Guessed map[string]Key
}

// Answer is a single field/value pair from a form response.
type Answer struct {
	FieldID string `json:"fieldId"`
	Value   string `json:"value"`
}

// MapAnswers resolves each answer to an internal key. Later answers do not
// overwrite earlier ones for the same key; the first resolution wins, which
// keeps two "name"-flavored fields from collapsing into one.
func (t *RuleTable) MapAnswers(answers []Answer) (FieldSet, Report) {
	fields := make(FieldSet, len(answers))
	report := Report{Guessed: make(map[string]Key)}

	for _, answer := range answers {
		key, kind, ok := t.Resolve(answer.FieldID)
		if !ok {
			report.Dropped = append(report.Dropped, answer.FieldID)
			continue
		}
		if kind == MatchKeyword {
			report.Guessed[answer.FieldID] = key
		}
		if _, exists := fields[key]; exists {
			// A second bare "name" field is almost always the partner.
			if key == KeyName1 {
				if _, taken := fields[KeyName2]; !taken {
					fields[KeyName2] = answer.Value
					continue
				}
			}
			continue
		}
		fields[key] = answer.Value
	}

	return fields, report
}
