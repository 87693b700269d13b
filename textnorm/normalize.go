package textnorm

import (
	"regexp"
	"strings"
)

// imagePattern matches Markdown image references, with or without the
// pandoc width/height attribute block, and bracket-brace footnote spans.
var imagePattern = regexp.MustCompile(`!\[(.*?)\]\(.*?\)\{width=".*?" height=".*?"\}|!\[.*?\]\(.*?\)|\[.*?\]\{.*?\}`)

var (
	// legacyNoisePattern reproduces the upstream character class
	// [>*|image|data|media|png]: regex alternation inside a class is
	// just the set of its letters, so the individual characters
	// > * | i m a g e d t p n c are stripped anywhere in a line.
	legacyNoisePattern = regexp.MustCompile(`[>*|imagedtpnc]`)

	// correctedNoisePattern is what the class was presumably meant to
	// be: whole markup words plus the three punctuation characters.
	correctedNoisePattern = regexp.MustCompile(`image|data|media|png|[>*|]`)
)

// Normalizer cleans extracted document text before classification.
type Normalizer struct {
	corrected bool
}

// New returns a Normalizer. With corrected set, noise stripping removes
// the whole words image/data/media/png; otherwise the legacy per-letter
// behavior is kept for parity with the published model's training data.
func New(corrected bool) *Normalizer {
	return &Normalizer{corrected: corrected}
}

// StripMarkup removes image references and bracket-brace spans from one line.
func StripMarkup(line string) string {
	return imagePattern.ReplaceAllString(line, "")
}

func (n *Normalizer) stripNoise(line string) string {
	if n.corrected {
		return correctedNoisePattern.ReplaceAllString(line, "")
	}
	return legacyNoisePattern.ReplaceAllString(line, "")
}

// Normalize processes text line by line, preserving line order: markup is
// stripped, lines that are then blank or a lone ">" are dropped, noise
// characters are removed, and the survivors are rejoined with newlines.
func (n *Normalizer) Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")

	var kept []string
	for _, line := range strings.Split(text, "\n") {
		cleaned := StripMarkup(line)

		trimmed := strings.TrimSpace(cleaned)
		if trimmed == "" || trimmed == ">" {
			continue
		}

		kept = append(kept, n.stripNoise(cleaned))
	}

	return strings.Join(kept, "\n")
}
