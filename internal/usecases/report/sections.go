package report

import (
	"regexp"
	"strings"
)

var headingRe = regexp.MustCompile(`^#{1,2}\s+(.+)$`)

// Section is one titled block of a rendered report, used by the
// report viewer.
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// SplitSections breaks report markdown into sections at # and ##
// headings. Content before the first heading becomes an untitled
// section.
func SplitSections(content string) []Section {
	lines := strings.Split(content, "\n")

	var sections []Section
	current := Section{}
	var body []string

	flush := func() {
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		if current.Title != "" || current.Body != "" {
			sections = append(sections, current)
		}
		body = body[:0]
	}

	for _, line := range lines {
		if match := headingRe.FindStringSubmatch(line); match != nil {
			flush()
			current = Section{Title: strings.TrimSpace(match[1])}
			continue
		}
		body = append(body, line)
	}
	flush()

	return sections
}
