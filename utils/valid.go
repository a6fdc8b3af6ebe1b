package utils

import (
	"regexp"
	"strings"
	"unicode"
)

var scriptRegex = regexp.MustCompile(`(?i)<script[^>]*>.*?</script>`)

// SanitizeInput trims, strips control characters and script tags from free text
// such as meeting discussions and attendance reasons. The rest is stored verbatim;
// escaping is left to whoever renders it.
func SanitizeInput(input string) string {
	input = strings.TrimSpace(input)
	input = scriptRegex.ReplaceAllString(input, "")
	input = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && r != '\n' && r != '\t' {
			return -1
		}
		return r
	}, input)
	return input
}

