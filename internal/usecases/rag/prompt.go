package rag

import (
	"fmt"
	"strings"

	"github.com/prabhat9478/jyotish-web/internal/domain"
)

// BuildSystemPrompt assembles the chat system prompt from the chart
// summary, retrieved report excerpts and any date mentions in the query.
func BuildSystemPrompt(chart *domain.ChartData, results []*domain.SearchResult, query string) string {
	var sb strings.Builder

	sb.WriteString("You are an expert Vedic astrologer assistant. You have access to the birth chart data and previously generated reports for this person.\n\n")

	sb.WriteString("## Birth Chart Summary\n")
	sb.WriteString(fmt.Sprintf("- Lagna: %s\n", chart.Lagna.Sign))
	if sun, ok := chart.Planets["Sun"]; ok {
		sb.WriteString(fmt.Sprintf("- Sun: %s in %dth house\n", sun.Sign, sun.House))
	}
	if moon, ok := chart.Planets["Moon"]; ok {
		sb.WriteString(fmt.Sprintf("- Moon: %s in %dth house, %s nakshatra\n", moon.Sign, moon.House, moon.Nakshatra))
	}
	sb.WriteString(fmt.Sprintf("- Active Dasha: %s - %s\n", chart.Dashas.Current.Mahadasha, chart.Dashas.Current.Antardasha))

	sb.WriteString("\n## Retrieved Report Context\n")
	sb.WriteString(buildContext(results))
	sb.WriteString("\n")

	if dates := ExtractDateMentions(query); len(dates) > 0 {
		sb.WriteString(fmt.Sprintf("\n## Date Context\nUser is asking about: %s\n", strings.Join(dates, ", ")))
	}

	sb.WriteString(`
Answer the user's question based on:
1. The birth chart data above
2. The retrieved report excerpts
3. Your knowledge of Vedic astrology principles

If the query mentions specific dates, provide transit analysis for those dates.
Cite your sources when referencing report content.
Be conversational but accurate.`)

	return sb.String()
}

// buildContext renders the retrieved chunks as numbered sources.
func buildContext(results []*domain.SearchResult) string {
	if len(results) == 0 {
		return "No specific reports found for this query."
	}

	parts := make([]string, 0, len(results))
	for i, result := range results {
		parts = append(parts, fmt.Sprintf("[Source %d - Similarity: %.1f%%]\n%s",
			i+1, result.Similarity*100, result.Content))
	}
	return strings.Join(parts, "\n\n---\n\n")
}
