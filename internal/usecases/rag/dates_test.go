package rag

import (
	"reflect"
	"testing"
)

func TestExtractDateMentions(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{
			name:  "month day",
			query: "What happens on Feb 25?",
			want:  []string{"Feb 25"},
		},
		{
			name:  "month day range",
			query: "Is February 25-28 good for travel?",
			want:  []string{"February 25-28"},
		},
		{
			name:  "day month",
			query: "Anything special on 14 March?",
			want:  []string{"14 March"},
		},
		{
			name:  "bare year",
			query: "How does 2026 look for my career?",
			want:  []string{"2026"},
		},
		{
			name:  "multiple mentions",
			query: "Compare Jan 5 against the year 2025",
			want:  []string{"Jan 5", "2025"},
		},
		{
			name:  "no dates",
			query: "Tell me about my moon sign",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDateMentions(tt.query)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractDateMentions(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}
