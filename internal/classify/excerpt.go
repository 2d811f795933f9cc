package classify

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// minMeaningfulLine drops short lines that are almost always headers.
const minMeaningfulLine = 15

// boilerplatePatterns match common document headers in Arabic and
// English: religious openings, government letterheads, dates and page
// numbers.
var boilerplatePatterns = []*regexp.Regexp{
	regexp.MustCompile(`^بسم الله`),
	regexp.MustCompile(`^المملكة العربية`),
	regexp.MustCompile(`^وزارة`),
	regexp.MustCompile(`^هيئة`),
	regexp.MustCompile(`^\d+[/-]\d+[/-]\d+`),
	regexp.MustCompile(`(?i)^page\s*\d+`),
}

// extractMeaningfulContent returns the most content-rich portion of a
// document, skipping headers and metadata lines, capped at maxChars
// runes. Lengths are measured in runes so Arabic text is not penalized.
func extractMeaningfulContent(text string, maxChars int) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	var meaningful []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if utf8.RuneCountInString(line) < minMeaningfulLine {
			continue
		}
		if matchesBoilerplate(line) {
			continue
		}
		meaningful = append(meaningful, line)
	}

	content := strings.Join(meaningful, " ")
	if utf8.RuneCountInString(content) < 100 {
		content = strings.ReplaceAll(text, "\n", " ")
	}
	return truncateRunes(content, maxChars)
}

func matchesBoilerplate(line string) bool {
	for _, p := range boilerplatePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// truncateRunes cuts s to at most n runes without splitting a rune.
func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
