package markdown

import (
	"context"
	"fmt"
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
)

// DefaultSanitizeTimeout bounds a whole sanitization run.
const DefaultSanitizeTimeout = 100 * time.Millisecond

var (
	headerPattern      = regexp.MustCompile(`(?m)^[ \t]*#{1,6}[ \t]+`)
	boldStarPattern    = regexp.MustCompile(`\*\*([^*\n]+?)\*\*`)
	boldUnderPattern   = regexp.MustCompile(`__([^_\n]+?)__`)
	italicStarPattern  = regexp.MustCompile(`\*([^*\s](?:[^*\n]*[^*\s])?)\*`)
	italicUnderPattern = regexp.MustCompile(`(^|[^\w])_([^_\s](?:[^_\n]*[^_\s])?)_([^\w]|$)`)
	linkPattern        = regexp.MustCompile(`\[([^\]\n]+)\]\([^)\n]*\)`)
	fencedCodePattern  = regexp.MustCompile("(?s)```.*?```")
	inlineCodePattern  = regexp.MustCompile("`([^`\n]+)`")
	listMarkerPattern  = regexp.MustCompile(`(?m)^[ \t]*(?:[-*+]|\d+[.)])[ \t]+`)
	spacePattern       = regexp.MustCompile(`[ \t\f\v\r]+`)
	lineEdgePattern    = regexp.MustCompile(` ?\n ?`)
	blankRunPattern    = regexp.MustCompile(`\n{3,}`)
)

// ErrSanitizeTimeout is returned when a description could not be reduced to
// plain text within the configured budget.
var ErrSanitizeTimeout = fmt.Errorf("description sanitization timed out")

// DescriptionSanitizer reduces tracker rich text (HTML and Markdown) to the
// plain text stored on tickets. Passes run in a fixed order and the whole
// run is bounded by a timeout.
type DescriptionSanitizer struct {
	timeout time.Duration
	strip   *bluemonday.Policy
}

func NewDescriptionSanitizer(timeout time.Duration) *DescriptionSanitizer {
	if timeout <= 0 {
		timeout = DefaultSanitizeTimeout
	}
	strip := bluemonday.StrictPolicy()
	strip.AddSpaceWhenStrippingTag(true)
	return &DescriptionSanitizer{timeout: timeout, strip: strip}
}

type sanitizePass struct {
	name string
	fn   func(string) string
}

func (s *DescriptionSanitizer) passes() []sanitizePass {
	return []sanitizePass{
		{"decode_entities", html.UnescapeString},
		{"strip_html", s.stripTags},
		{"strip_headers", func(in string) string { return headerPattern.ReplaceAllString(in, "") }},
		{"strip_emphasis", stripEmphasis},
		{"flatten_links", func(in string) string { return linkPattern.ReplaceAllString(in, "$1") }},
		{"drop_fenced_code", func(in string) string { return fencedCodePattern.ReplaceAllString(in, "") }},
		{"strip_inline_code", func(in string) string { return inlineCodePattern.ReplaceAllString(in, "$1") }},
		{"strip_list_markers", func(in string) string { return listMarkerPattern.ReplaceAllString(in, "") }},
		{"collapse_whitespace", collapseWhitespace},
		{"trim", strings.TrimSpace},
	}
}

// Sanitize runs every pass in order. It fails with ErrSanitizeTimeout when
// the budget is exhausted or ctx is done before the last pass completes.
func (s *DescriptionSanitizer) Sanitize(ctx context.Context, input string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out := input
	for _, pass := range s.passes() {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("%w before %s: %v", ErrSanitizeTimeout, pass.name, err)
		}
		out = pass.fn(out)
	}
	if err := ctx.Err(); err != nil {
		return "", fmt.Errorf("%w: %v", ErrSanitizeTimeout, err)
	}
	return out, nil
}

// stripTags removes markup without decoding entities a second time.
// bluemonday unescapes text while parsing and escapes it again on output,
// so ampersands are protected on the way in and the output is unescaped once.
func (s *DescriptionSanitizer) stripTags(in string) string {
	return html.UnescapeString(s.strip.Sanitize(strings.ReplaceAll(in, "&", "&amp;")))
}

func stripEmphasis(in string) string {
	out := boldStarPattern.ReplaceAllString(in, "$1")
	out = boldUnderPattern.ReplaceAllString(out, "$1")
	out = italicStarPattern.ReplaceAllString(out, "$1")
	return italicUnderPattern.ReplaceAllString(out, "$1$2$3")
}

func collapseWhitespace(in string) string {
	out := spacePattern.ReplaceAllString(in, " ")
	out = lineEdgePattern.ReplaceAllString(out, "\n")
	return blankRunPattern.ReplaceAllString(out, "\n\n")
}
