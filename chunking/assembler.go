// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package chunking

import (
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/poiesic/docingest/core"
	"github.com/poiesic/docingest/textmetrics"
)

// Assembler merges segments into chunks and attaches chunk metadata.
// An Assembler holds no per-document state and is safe for concurrent use.
type Assembler struct {
	counter textmetrics.TokenCounter
	logger  *slog.Logger
}

// AssemblerOption configures an Assembler.
type AssemblerOption func(*Assembler)

// WithTokenCounter sets the counter used for ChunkMeta.EstTokens.
// The default is textmetrics.HeuristicCounter.
func WithTokenCounter(counter textmetrics.TokenCounter) AssemblerOption {
	return func(a *Assembler) {
		if counter != nil {
			a.counter = counter
		}
	}
}

// WithLogger sets the logger for the assembler.
func WithLogger(logger *slog.Logger) AssemblerOption {
	return func(a *Assembler) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAssembler creates an Assembler with the given options.
func NewAssembler(opts ...AssemblerOption) *Assembler {
	a := &Assembler{
		counter: textmetrics.HeuristicCounter{},
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = a.logger.With("component", "chunking")
	return a
}

var defaultAssembler = NewAssembler()

// Chunk splits content with a default Assembler.
func Chunk(content string, opts core.ChunkingOptions) ([]core.Chunk, error) {
	return defaultAssembler.Chunk(content, opts)
}

// Chunk splits content into ordered chunks.
//
// Omitted options are filled with defaults and the result is validated before
// any work is done; invalid options return an error wrapping
// core.ErrConfiguration. Empty or whitespace-only content yields no chunks.
func (a *Assembler) Chunk(content string, opts core.ChunkingOptions) ([]core.Chunk, error) {
	opts = opts.WithDefaults()
	if err := core.ValidateChunkingOptions(opts); err != nil {
		return nil, err
	}

	if strings.TrimSpace(content) == "" {
		return nil, nil
	}

	resolved := ResolveStrategy(content, opts.Strategy)
	segments := Segments(content, resolved, opts.Strategy, opts.ChunkSize)

	b := &builder{
		size:    opts.ChunkSize,
		overlap: opts.Overlap,
		sep:     separator(resolved),
	}
	for _, seg := range segments {
		b.add(seg)
	}
	b.flush()

	chunks := make([]core.Chunk, len(b.chunks))
	for i, c := range b.chunks {
		chunks[i] = core.Chunk{
			Index:   i,
			Text:    c.text,
			Overlap: c.overlap,
			Meta: core.ChunkMeta{
				Strategy:   resolved,
				EstTokens:  a.counter.CountTokens(c.text),
				ReadingSec: textmetrics.EstimateReadingSeconds(c.text),
			},
		}
	}

	a.logger.Debug("chunked document",
		"requested", opts.Strategy,
		"strategy", resolved,
		"segments", len(segments),
		"chunks", len(chunks))

	return chunks, nil
}

type pendingChunk struct {
	text    string
	overlap int
}

// builder accumulates segments into chunks for one document.
type builder struct {
	size    int
	overlap int
	sep     string

	buf        strings.Builder
	bufLen     int
	bufOverlap int
	chunks     []pendingChunk
}

func (b *builder) add(seg Segment) {
	segLen := utf8.RuneCountInString(seg.Text)

	switch {
	case seg.Kind == SegmentCode:
		// Code blocks stand alone and never share overlap with neighbours.
		b.flush()
		b.chunks = append(b.chunks, pendingChunk{text: seg.Text})
	case b.bufLen == 0:
		b.write(seg.Text, segLen)
	case b.bufLen+utf8.RuneCountInString(b.sep)+segLen <= b.size:
		b.write(b.sep, utf8.RuneCountInString(b.sep))
		b.write(seg.Text, segLen)
	case seg.Kind == SegmentSection:
		b.flush()
		b.write(seg.Text, segLen)
	default:
		b.flush()
		prev := b.chunks[len(b.chunks)-1].text
		if tail := lastRunes(prev, b.overlap); tail != "" {
			n := utf8.RuneCountInString(tail)
			b.write(tail, n)
			b.bufOverlap = n
			b.write(b.sep, utf8.RuneCountInString(b.sep))
		}
		b.write(seg.Text, segLen)
	}
}

func (b *builder) write(s string, n int) {
	b.buf.WriteString(s)
	b.bufLen += n
}

func (b *builder) flush() {
	if b.bufLen > 0 {
		b.chunks = append(b.chunks, pendingChunk{text: b.buf.String(), overlap: b.bufOverlap})
	}
	b.buf.Reset()
	b.bufLen = 0
	b.bufOverlap = 0
}

// lastRunes returns the last n runes of s.
func lastRunes(s string, n int) string {
	i := len(s)
	for ; n > 0 && i > 0; n-- {
		_, size := utf8.DecodeLastRuneInString(s[:i])
		i -= size
	}
	return s[i:]
}
