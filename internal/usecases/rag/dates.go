package rag

import "regexp"

// Patterns like "Feb 25", "February 25-28", "25 Feb", "2026".
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\s+\d{1,2}(-\d{1,2})?\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)[a-z]*\b`),
	regexp.MustCompile(`\b\d{4}\b`),
}

// ExtractDateMentions pulls date-like phrases out of a chat query so
// the prompt can steer the model toward transit analysis.
func ExtractDateMentions(query string) []string {
	var dates []string
	for _, pattern := range datePatterns {
		dates = append(dates, pattern.FindAllString(query, -1)...)
	}
	return dates
}
