package chunking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/poiesic/docingest/core"
)

func TestSplitParagraphs(t *testing.T) {
	text := "First para.\n\nSecond para.\r\n\r\nThird\n  \t\nFourth\nstill fourth\n\n\n\n"
	got := SplitParagraphs(text)
	assert.Equal(t, []string{"First para.", "Second para.", "Third", "Fourth\nstill fourth"}, got)

	assert.Empty(t, SplitParagraphs(""))
	assert.Empty(t, SplitParagraphs("  \n\n \t "))
}

func TestSplitSentences(t *testing.T) {
	text := "Hello world. This is it! Is it? 42 is the answer. e.g. the lowercase stays."
	got := SplitSentences(text)
	assert.Equal(t, []string{
		"Hello world.",
		"This is it!",
		"Is it?",
		"42 is the answer. e.g. the lowercase stays.",
	}, got)
}

func TestSplitSentences_NoBoundary(t *testing.T) {
	assert.Equal(t, []string{"Version 1.5 is out."}, SplitSentences("Version 1.5 is out."))
	assert.Equal(t, []string{"no punctuation here"}, SplitSentences("  no punctuation here  "))
	assert.Empty(t, SplitSentences(""))
}

func TestSplitSentences_Unicode(t *testing.T) {
	got := SplitSentences("Première phrase. Élan suivant.\nÜber alles.")
	assert.Equal(t, []string{"Première phrase.", "Élan suivant.", "Über alles."}, got)
}

func TestSplitMarkdown(t *testing.T) {
	text := "Intro text.\n\n# One\nbody one\n\n```\n# not a heading\n```\n\n#hashtag is not a heading\n\n## Two\nbody two"
	got := SplitMarkdown(text)
	assert.Equal(t, []Segment{
		{Text: "Intro text.", Kind: SegmentText},
		{Text: "# One\nbody one\n\n```\n# not a heading\n```\n\n#hashtag is not a heading", Kind: SegmentSection},
		{Text: "## Two\nbody two", Kind: SegmentSection},
	}, got)
}

func TestSplitMarkdown_NoHeadings(t *testing.T) {
	got := SplitMarkdown("just text\n\nmore text")
	assert.Equal(t, []Segment{{Text: "just text\n\nmore text", Kind: SegmentText}}, got)
}

func TestSplitCode(t *testing.T) {
	text := "Intro paragraph.\n\n```go\nfunc main() {}\n\n// still code\n```\n\nOutro."
	got := SplitCode(text, 1000)
	assert.Equal(t, []Segment{
		{Text: "Intro paragraph.", Kind: SegmentText},
		{Text: "```go\nfunc main() {}\n\n// still code\n```", Kind: SegmentCode},
		{Text: "Outro.", Kind: SegmentText},
	}, got)
}

func TestSplitCode_UnclosedFence(t *testing.T) {
	got := SplitCode("Text.\n\n```\ncode without end\n\nmore", 1000)
	assert.Equal(t, []Segment{
		{Text: "Text.", Kind: SegmentText},
		{Text: "```\ncode without end\n\nmore", Kind: SegmentCode},
	}, got)
}

func TestSplitCode_LongerClosingRunRequired(t *testing.T) {
	text := "````\n```\ninner\n```\n````\nafter"
	got := SplitCode(text, 1000)
	assert.Equal(t, []Segment{
		{Text: "````\n```\ninner\n```\n````", Kind: SegmentCode},
		{Text: "after", Kind: SegmentText},
	}, got)
}

func TestSplitCode_SentenceFallbackBetweenFences(t *testing.T) {
	text := "First sentence here. Second sentence here.\n\n```\nx\n```"
	got := SplitCode(text, 25)
	assert.Equal(t, []Segment{
		{Text: "First sentence here.", Kind: SegmentText},
		{Text: "Second sentence here.", Kind: SegmentText},
		{Text: "```\nx\n```", Kind: SegmentCode},
	}, got)
}

func TestHasCodeFence(t *testing.T) {
	assert.True(t, HasCodeFence("a\n```\nb\n```"))
	assert.True(t, HasCodeFence("   ```sh\necho"))
	assert.False(t, HasCodeFence("inline `code` only"))
	assert.False(t, HasCodeFence("    ```\nindented four spaces is not a fence"))
}

func TestResolveStrategy(t *testing.T) {
	plain := "Just some prose.\n\nAnother paragraph."
	fenced := "Prose.\n\n```\ncode\n```"

	tests := []struct {
		name      string
		content   string
		requested core.Strategy
		want      core.Strategy
	}{
		{"auto plain", plain, core.StrategyAuto, core.StrategyParagraph},
		{"semantic plain", plain, core.StrategySemantic, core.StrategyParagraph},
		{"empty request", plain, "", core.StrategyParagraph},
		{"paragraph plain", plain, core.StrategyParagraph, core.StrategyParagraph},
		{"sentence plain", plain, core.StrategySentence, core.StrategySentence},
		{"markdown plain", plain, core.StrategyMarkdown, core.StrategyMarkdown},
		{"code plain", plain, core.StrategyCode, core.StrategyCode},
		{"auto fenced", fenced, core.StrategyAuto, core.StrategyCode},
		{"paragraph fenced", fenced, core.StrategyParagraph, core.StrategyCode},
		{"sentence fenced", fenced, core.StrategySentence, core.StrategyCode},
		{"markdown fenced", fenced, core.StrategyMarkdown, core.StrategyMarkdown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStrategy(tt.content, tt.requested))
		})
	}
}
