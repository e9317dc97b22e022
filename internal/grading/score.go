package grading

import (
	"regexp"
	"strconv"
)

// Score pattern families, most specific first. The bare-number fallback can
// pick up any numeral in the grader's prose; it stays last and range-gated,
// a known precision limit.
var scorePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*10`),
	regexp.MustCompile(`(?i)(?:score|rating|grade)\s*(?::|of|is)\s*(\d+(?:\.\d+)?)`),
	regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s+out\s+of\s+10`),
	regexp.MustCompile(`\b(\d+(?:\.\d+)?)\b`),
}

// ExtractScore scans text with the pattern families in order, stopping at
// the first family that matches at all. Within that family the first
// candidate inside [0, 10] wins; if none is in range the score is absent.
func ExtractScore(text string) (float64, bool) {
	for _, re := range scorePatterns {
		matches := re.FindAllStringSubmatch(text, -1)
		if len(matches) == 0 {
			continue
		}

		for _, match := range matches {
			value, err := strconv.ParseFloat(match[1], 64)
			if err != nil {
				continue
			}
			if value >= 0 && value <= 10 {
				return value, true
			}
		}

		// The family matched but nothing was in range; later, looser
		// families must not override that.
		return 0, false
	}

	return 0, false
}
