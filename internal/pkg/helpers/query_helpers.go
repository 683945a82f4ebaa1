package helpers

import "strings"

// SplitCSV splits a comma-separated query value, trimming entries and dropping blanks.
func SplitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LowerAll lower-cases every value.
func LowerAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strings.ToLower(v)
	}
	return out
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// ContainsPattern builds an ILIKE pattern matching value anywhere, escaping LIKE metacharacters.
func ContainsPattern(value string) string {
	return "%" + likeEscaper.Replace(value) + "%"
}
