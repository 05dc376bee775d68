package results

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/xkilldash9x/sonarlens/api/schemas"
)

// Normalizer converts raw wire issues into immutable normalized records,
// enriching each with a descriptive rule name from a read-only lookup table.
type Normalizer struct {
	ruleNames map[string]string
}

// NewNormalizer builds a Normalizer over the given rule-name table, merged
// on top of the built-in one. Passing nil uses the built-in table alone.
// The merged table is copied; later mutation of the argument has no effect.
func NewNormalizer(overrides map[string]string) *Normalizer {
	merged := make(map[string]string, len(defaultRuleNames)+len(overrides))
	for id, name := range defaultRuleNames {
		merged[id] = name
	}
	for id, name := range overrides {
		merged[id] = name
	}
	return &Normalizer{ruleNames: merged}
}

// LoadRuleNames reads a JSON object of rule-id to display-name pairs from
// path, for use as NewNormalizer overrides.
func LoadRuleNames(path string) (map[string]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rule-name file: %w", err)
	}
	var names map[string]string
	if err := json.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("parsing rule-name file %s: %w", path, err)
	}
	return names, nil
}

// Normalize converts one raw issue. A rule identifier with no table entry
// leaves RuleName empty; that is not an error. Security hotspots are folded
// into the vulnerability type with the hotspot flag set.
func (n *Normalizer) Normalize(raw schemas.RawIssue) schemas.Issue {
	issueType := schemas.IssueType(raw.Type)
	isHotspot := issueType == schemas.TypeSecurityHotspot
	if isHotspot {
		issueType = schemas.TypeVulnerability
	}

	return schemas.Issue{
		Key:          raw.Key,
		Rule:         raw.Rule,
		RuleName:     n.ruleNames[raw.Rule],
		Severity:     schemas.Severity(raw.Severity),
		Type:         issueType,
		Status:       raw.Status,
		Component:    raw.Component,
		FileName:     FileName(raw.Component),
		Line:         raw.Line,
		Message:      raw.Message,
		Author:       raw.Author,
		Tags:         raw.Tags,
		IsHotspot:    isHotspot,
		CreationDate: raw.CreationDate,
		UpdateDate:   raw.UpdateDate,
	}
}

// FileName extracts the display file name from a project-qualified component
// path, i.e. the substring after the last colon. A component with no
// separator is returned unchanged.
func FileName(component string) string {
	if idx := strings.LastIndex(component, ":"); idx >= 0 {
		return component[idx+1:]
	}
	return component
}
