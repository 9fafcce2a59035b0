// Package html converts HTML article bodies to plain text.
//
// Links are unwrapped to their anchor text with the href discarded, and
// images are dropped from the flow entirely. Block-level structure is
// preserved as line breaks; text is never reflowed or wrapped.
package html

import (
	"html"
	"regexp"
	"strings"

	"github.com/ragdoc-labs/ragdoc-cli/internal/core/domain"
)

// Normaliser strips HTML from article bodies.
type Normaliser struct{}

// New creates an HTML normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Normalise returns the document with PlainText populated from RawContent.
// The input document is not modified.
func (n *Normaliser) Normalise(doc domain.Document) domain.Document {
	doc.PlainText = StripHTML(doc.RawContent)
	return doc
}

// Pre-compiled regular expressions for HTML stripping.
var (
	scriptTag         = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleTag          = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	noscriptTag       = regexp.MustCompile(`(?is)<noscript[^>]*>.*?</noscript>`)
	headTag           = regexp.MustCompile(`(?is)<head[^>]*>.*?</head>`)
	htmlComments      = regexp.MustCompile(`(?s)<!--.*?-->`)
	imgTags           = regexp.MustCompile(`(?i)<img[^>]*>`)
	figureTag         = regexp.MustCompile(`(?is)<figure[^>]*>.*?</figure>`)
	openBlockElements = regexp.MustCompile(`(?i)<(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|ul|ol)[^>]*>`)
	blockElements     = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|blockquote|pre|table|section|article|ul|ol)>`)
	brTags            = regexp.MustCompile(`(?i)<br\s*/?>`)
	hrTags            = regexp.MustCompile(`(?i)<hr\s*/?>`)
	allTags           = regexp.MustCompile(`<[^>]+>`)
	multiSpaces       = regexp.MustCompile(`[ \t]+`)
	multiNewlines     = regexp.MustCompile(`\n{3,}`)
)

// StripHTML removes markup and extracts the readable text content.
// Anchor tags are unwrapped (their text kept, the href dropped) and image
// elements, including captioned figures, leave no trace in the flow.
func StripHTML(content string) string {
	// Remove content-free elements entirely.
	content = scriptTag.ReplaceAllString(content, "")
	content = styleTag.ReplaceAllString(content, "")
	content = noscriptTag.ReplaceAllString(content, "")
	content = headTag.ReplaceAllString(content, "")
	content = htmlComments.ReplaceAllString(content, "")

	// Drop images from the flow.
	content = figureTag.ReplaceAllString(content, "")
	content = imgTags.ReplaceAllString(content, "")

	// Preserve block structure as line breaks.
	content = openBlockElements.ReplaceAllString(content, "\n")
	content = blockElements.ReplaceAllString(content, "\n")
	content = brTags.ReplaceAllString(content, "\n")
	content = hrTags.ReplaceAllString(content, "\n")

	// Strip all remaining tags. Unwraps anchors, emphasis, spans.
	content = allTags.ReplaceAllString(content, "")

	// Decode HTML entities.
	content = html.UnescapeString(content)

	// Collapse horizontal whitespace but never reflow lines.
	content = multiSpaces.ReplaceAllString(content, " ")
	content = multiNewlines.ReplaceAllString(content, "\n\n")

	// Trim each line and drop empty ones.
	lines := strings.Split(content, "\n")
	result := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}

	return strings.Join(result, "\n")
}
