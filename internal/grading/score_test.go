package grading

import "testing"

func TestExtractScore(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  float64
		found bool
	}{
		{
			name:  "slash ten",
			text:  "Score: 8/10. The annotation is clear.",
			want:  8,
			found: true,
		},
		{
			name:  "out of ten",
			text:  "I'd rate this a 9 out of 10 overall.",
			want:  9,
			found: true,
		},
		{
			name:  "rating of decimal",
			text:  "This deserves a rating of 7.5 for clarity.",
			want:  7.5,
			found: true,
		},
		{
			name:  "score is",
			text:  "The score is 6 because key details are missing.",
			want:  6,
			found: true,
		},
		{
			name:  "bare number in range",
			text:  "4",
			want:  4,
			found: true,
		},
		{
			name:  "bare number out of range",
			text:  "42",
			found: false,
		},
		{
			name:  "no number at all",
			text:  "The annotation fails to capture the description.",
			found: false,
		},
		{
			name:  "slash-ten beats later numbers",
			text:  "On my 5-point mental scale this is a 3, so 6/10 overall.",
			want:  6,
			found: true,
		},
		{
			name:  "out-of-range slash-ten does not fall through",
			text:  "Score: 15/10, off the charts! Seriously though, maybe 9.",
			found: false,
		},
		{
			name:  "zero is a valid score",
			text:  "Score: 0/10, the annotation is unrelated.",
			want:  0,
			found: true,
		},
		{
			name:  "decimal slash ten",
			text:  "I give it 8.5 / 10.",
			want:  8.5,
			found: true,
		},
		{
			name:  "case insensitive keyword",
			text:  "GRADE: 7",
			want:  7,
			found: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, found := ExtractScore(tt.text)
			if found != tt.found {
				t.Fatalf("ExtractScore(%q) found = %v, want %v", tt.text, found, tt.found)
			}
			if found && got != tt.want {
				t.Errorf("ExtractScore(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}
