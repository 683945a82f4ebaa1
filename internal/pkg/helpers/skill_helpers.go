package helpers

import (
	"sort"
	"strings"
)

// NormalizeSkillLabel trims and lower-cases a free-text skill label.
func NormalizeSkillLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// NormalizeSkillLabels returns the distinct normalized labels. Blank labels are dropped.
// The result is sorted so callers get a stable argument order for SQL.
func NormalizeSkillLabels(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		normalized := NormalizeSkillLabel(label)
		if normalized == "" {
			continue
		}
		if _, ok := seen[normalized]; ok {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	sort.Strings(out)
	return out
}
