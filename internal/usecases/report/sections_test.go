package report

import "testing"

func TestSplitSections(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Section
	}{
		{
			name:    "two headed sections",
			content: "## A\nfoo\n\n## B\nbar",
			want: []Section{
				{Title: "A", Body: "foo"},
				{Title: "B", Body: "bar"},
			},
		},
		{
			name:    "preamble before first heading",
			content: "intro text\n# First\nbody",
			want: []Section{
				{Title: "", Body: "intro text"},
				{Title: "First", Body: "body"},
			},
		},
		{
			name:    "no headings",
			content: "just plain text",
			want: []Section{
				{Title: "", Body: "just plain text"},
			},
		},
		{
			name:    "empty content",
			content: "",
			want:    nil,
		},
		{
			name:    "h3 stays in body",
			content: "## Top\n### Sub\ndetail",
			want: []Section{
				{Title: "Top", Body: "### Sub\ndetail"},
			},
		},
		{
			name:    "heading with no body",
			content: "## Lone",
			want: []Section{
				{Title: "Lone", Body: ""},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitSections(tt.content)
			if len(got) != len(tt.want) {
				t.Fatalf("got %d sections, want %d: %+v", len(got), len(tt.want), got)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("section %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}
