// Package strings provides string normalization shared by domain models.
package strings

import (
	"strings"
)

// NormalizeTags trims each tag, collapses inner whitespace and drops empties and
// case-insensitive duplicates. The first spelling of a tag wins and order is kept.
//
//	NormalizeTags([]string{" Go ", "go", "machine   learning", ""})
//	// []string{"Go", "machine learning"}
func NormalizeTags(values []string) []string {
	if len(values) == 0 {
		return values
	}

	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		tag := strings.Join(strings.Fields(v), " ")
		if tag == "" {
			continue
		}
		key := strings.ToLower(tag)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, tag)
	}
	return result
}
