package rag

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Chunk sizing in approximate tokens, one token taken as four characters.
const (
	chunkSizeTokens    = 500
	chunkOverlapTokens = 50
	charsPerToken      = 4
)

var (
	paragraphSplitRe = regexp.MustCompile(`\n{2,}`)
	sectionTitleRe   = regexp.MustCompile(`(?m)^##?\s+(.+)$`)
)

// TextChunk is one slice of report content before embedding.
type TextChunk struct {
	Content      string
	Index        int
	ReportType   string
	SectionTitle string
}

// ChunkText splits report content into overlapping chunks along
// paragraph boundaries. Deterministic: the same input always yields the
// same chunks. Chunks carry a tail of the previous chunk as overlap so
// context is not lost at boundaries.
func ChunkText(text, reportType string) []TextChunk {
	paragraphs := splitParagraphs(text)

	// Unsegmentable input still yields one verbatim chunk so that a
	// report is never silently unindexed.
	if len(paragraphs) == 0 {
		return []TextChunk{{
			Content:      text,
			Index:        0,
			ReportType:   reportType,
			SectionTitle: ExtractSectionTitle(text),
		}}
	}

	var chunks []TextChunk
	var current string
	index := 0

	flush := func() {
		content := strings.TrimSpace(current)
		if content == "" {
			return
		}
		chunks = append(chunks, TextChunk{
			Content:      content,
			Index:        index,
			ReportType:   reportType,
			SectionTitle: ExtractSectionTitle(content),
		})
	}

	for _, paragraph := range paragraphs {
		paragraphTokens := float64(len(paragraph)) / charsPerToken
		currentTokens := float64(len(current)) / charsPerToken

		if current != "" && currentTokens+paragraphTokens > chunkSizeTokens {
			flush()
			overlap := tailOverlap(current, chunkOverlapTokens*charsPerToken)
			current = overlap + "\n\n" + paragraph
			index++
			continue
		}

		if current == "" {
			current = paragraph
		} else {
			current += "\n\n" + paragraph
		}
	}

	flush()
	return chunks
}

// splitParagraphs splits on blank lines and drops whitespace-only parts.
func splitParagraphs(text string) []string {
	parts := paragraphSplitRe.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

// tailOverlap returns roughly the last maxBytes of s, never cutting a
// multi-byte rune in half.
func tailOverlap(s string, maxBytes int) string {
	if len(s) <= maxBytes {
		return s
	}
	start := len(s) - maxBytes
	for start < len(s) && !utf8.RuneStart(s[start]) {
		start++
	}
	return s[start:]
}

// ExtractSectionTitle pulls the first markdown # or ## heading out of a
// chunk. Empty when the chunk has no heading.
func ExtractSectionTitle(content string) string {
	match := sectionTitleRe.FindStringSubmatch(content)
	if match == nil {
		return ""
	}
	return strings.TrimSpace(match[1])
}
