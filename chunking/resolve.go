package chunking

import "github.com/poiesic/docingest/core"

// ResolveStrategy picks the concrete strategy used for a whole document.
// Fenced code takes precedence over paragraph and sentence splitting so that
// code blocks are never cut. An explicit markdown request keeps markdown
// segmentation, which already leaves fences intact.
func ResolveStrategy(content string, requested core.Strategy) core.Strategy {
	switch requested {
	case core.StrategyCode:
		return core.StrategyCode
	case core.StrategyMarkdown:
		return core.StrategyMarkdown
	}

	if HasCodeFence(content) {
		return core.StrategyCode
	}

	if requested == core.StrategySentence {
		return core.StrategySentence
	}
	return core.StrategyParagraph
}

// Segments cuts content into candidate segments for a resolved strategy.
// Paragraph segmentation falls back to sentences for paragraphs longer than
// maxChars only when the caller asked for auto resolution.
func Segments(content string, resolved, requested core.Strategy, maxChars int) []Segment {
	switch resolved {
	case core.StrategyCode:
		return SplitCode(content, maxChars)
	case core.StrategyMarkdown:
		return SplitMarkdown(content)
	case core.StrategySentence:
		return sentenceSegments(content)
	default:
		return proseSegments(content, maxChars, requested.IsAuto())
	}
}

// separator joins consecutive segments inside one chunk.
func separator(resolved core.Strategy) string {
	if resolved == core.StrategySentence {
		return " "
	}
	return "\n\n"
}
