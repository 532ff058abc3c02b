package preprocess

import (
	"html"
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

var (
	urlPattern     = regexp.MustCompile(`https?://\S+|www\.\S+`)
	emailPattern   = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)
	mentionPattern = regexp.MustCompile(`@\w+`)
	hashtagPattern = regexp.MustCompile(`#\w+`)
	emojiPattern   = regexp.MustCompile(`[\x{1F300}-\x{1FAFF}\x{2600}-\x{27BF}]`)
	htmlTagPattern = regexp.MustCompile(`<[^>]+>`)
)

// normalizeText produces the cleaned form of a raw comment: HTML entities
// and tags removed, URLs stripped, NFC normalized, optionally lowercased,
// whitespace collapsed.
func normalizeText(raw string, lowercase bool) string {
	s := html.UnescapeString(raw)
	s = htmlTagPattern.ReplaceAllString(s, " ")
	s = urlPattern.ReplaceAllString(s, " ")
	s = norm.NFC.String(s)
	if lowercase {
		s = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(s), " ")
}

// extractPatterns pulls special token classes out of the raw text before
// cleaning destroys them.
func extractPatterns(raw string) map[string][]string {
	patterns := map[string][]string{}
	for name, re := range map[string]*regexp.Regexp{
		"urls":     urlPattern,
		"emails":   emailPattern,
		"mentions": mentionPattern,
		"hashtags": hashtagPattern,
		"emojis":   emojiPattern,
	} {
		if m := re.FindAllString(raw, -1); len(m) > 0 {
			patterns[name] = m
		}
	}
	return patterns
}
