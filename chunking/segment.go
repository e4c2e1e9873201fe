package chunking

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// SegmentKind classifies a candidate segment.
type SegmentKind int

const (
	// SegmentText is ordinary prose.
	SegmentText SegmentKind = iota
	// SegmentSection is a markdown section beginning with its heading line.
	SegmentSection
	// SegmentCode is a fenced code block, including its fences.
	SegmentCode
)

// Segment is a trimmed, non-empty candidate span of the source text.
type Segment struct {
	Text string
	Kind SegmentKind
}

var (
	paragraphBreakRe = regexp.MustCompile(`\r?\n(?:[ \t]*\r?\n)+`)
	headingRe        = regexp.MustCompile(`^#+[ \t]`)
)

// SplitParagraphs splits text on runs of two or more line breaks.
// Lines holding only spaces or tabs count as breaks.
func SplitParagraphs(text string) []string {
	var out []string
	for _, p := range paragraphBreakRe.Split(text, -1) {
		out = appendTrimmed(out, p)
	}
	return out
}

// SplitSentences splits text after '.', '!' or '?' when the punctuation is
// followed by whitespace and then an uppercase letter or a digit.
// Abbreviations followed by lowercase text stay in one sentence.
func SplitSentences(text string) []string {
	var out []string
	start := 0
	for i := 0; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		i += size
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		j := skipSpace(text, i)
		if j == i || j >= len(text) {
			continue
		}
		next, _ := utf8.DecodeRuneInString(text[j:])
		if !unicode.IsUpper(next) && !unicode.IsDigit(next) {
			continue
		}

		out = appendTrimmed(out, text[start:i])
		start = j
		i = j
	}
	return appendTrimmed(out, text[start:])
}

// SplitMarkdown splits text immediately before every line-start heading
// marker. Markers inside fenced code are ignored. Text before the first
// heading becomes a SegmentText; every other segment is a SegmentSection.
func SplitMarkdown(text string) []Segment {
	fences := fenceSpans(text)

	var starts []int
	forEachLine(text, func(start, end int) {
		if headingRe.MatchString(text[start:end]) && !insideSpan(fences, start) {
			starts = append(starts, start)
		}
	})

	if len(starts) == 0 {
		return appendSegment(nil, text, SegmentText)
	}

	out := appendSegment(nil, text[:starts[0]], SegmentText)
	for i, start := range starts {
		end := len(text)
		if i+1 < len(starts) {
			end = starts[i+1]
		}
		out = appendSegment(out, text[start:end], SegmentSection)
	}
	return out
}

// SplitCode keeps every fenced code block as one SegmentCode. Text between
// fences is split into paragraphs, and paragraphs longer than maxChars are
// further split into sentences.
func SplitCode(text string, maxChars int) []Segment {
	var out []Segment
	prev := 0
	for _, sp := range fenceSpans(text) {
		out = append(out, proseSegments(text[prev:sp.start], maxChars, true)...)
		out = appendSegment(out, text[sp.start:sp.end], SegmentCode)
		prev = sp.end
	}
	return append(out, proseSegments(text[prev:], maxChars, true)...)
}

// HasCodeFence reports whether text contains a fenced code block.
func HasCodeFence(text string) bool {
	return len(fenceSpans(text)) > 0
}

func proseSegments(text string, maxChars int, sentenceFallback bool) []Segment {
	var out []Segment
	for _, p := range SplitParagraphs(text) {
		if sentenceFallback && utf8.RuneCountInString(p) > maxChars {
			for _, s := range SplitSentences(p) {
				out = append(out, Segment{Text: s, Kind: SegmentText})
			}
			continue
		}
		out = append(out, Segment{Text: p, Kind: SegmentText})
	}
	return out
}

func sentenceSegments(text string) []Segment {
	var out []Segment
	for _, s := range SplitSentences(text) {
		out = append(out, Segment{Text: s, Kind: SegmentText})
	}
	return out
}

type span struct {
	start, end int
}

// fenceSpans returns the byte spans of fenced code blocks. A fence opens on
// a line starting (after at most three spaces) with three or more backticks
// and closes on a line holding only a backtick run at least as long. An
// unclosed fence runs to the end of text.
func fenceSpans(text string) []span {
	var spans []span
	open, openLen := -1, 0
	forEachLine(text, func(start, end int) {
		n, rest := fenceRun(text[start:end])
		if n < 3 {
			return
		}
		switch {
		case open < 0:
			open, openLen = start, n
		case n >= openLen && strings.TrimSpace(rest) == "":
			spans = append(spans, span{start: open, end: end})
			open = -1
		}
	})
	if open >= 0 {
		spans = append(spans, span{start: open, end: len(text)})
	}
	return spans
}

// fenceRun returns the length of the backtick run opening line and the text after it.
func fenceRun(line string) (int, string) {
	line = strings.TrimRight(line, "\r")
	indent := 0
	for indent < len(line) && indent < 3 && line[indent] == ' ' {
		indent++
	}
	line = line[indent:]
	n := 0
	for n < len(line) && line[n] == '`' {
		n++
	}
	return n, line[n:]
}

func forEachLine(text string, fn func(start, end int)) {
	for pos := 0; pos < len(text); {
		end, next := len(text), len(text)
		if i := strings.IndexByte(text[pos:], '\n'); i >= 0 {
			end, next = pos+i, pos+i+1
		}
		fn(pos, end)
		pos = next
	}
}

func insideSpan(spans []span, pos int) bool {
	for _, sp := range spans {
		if pos >= sp.start && pos < sp.end {
			return true
		}
	}
	return false
}

func skipSpace(text string, i int) int {
	for i < len(text) {
		r, size := utf8.DecodeRuneInString(text[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}

func appendTrimmed(out []string, s string) []string {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, s)
	}
	return out
}

func appendSegment(out []Segment, s string, kind SegmentKind) []Segment {
	if s = strings.TrimSpace(s); s != "" {
		out = append(out, Segment{Text: s, Kind: kind})
	}
	return out
}
