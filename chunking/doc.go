// Package chunking splits document text into bounded, overlapping chunks.
//
// Chunking happens in two stages. A segmenter first cuts the text into an
// ordered list of candidate segments (paragraphs, sentences, markdown sections
// or fenced code blocks). The Assembler then merges consecutive segments into
// chunks close to the configured size, seeding every new chunk with the tail of
// the previous one.
//
// The strategy for a document is resolved once, up front, by ResolveStrategy:
//
//	requested            content has ``` fences   resolved
//	code                 any                      code
//	markdown             any                      markdown
//	auto / semantic      no                       paragraph (sentence fallback)
//	paragraph            no                       paragraph
//	sentence             no                       sentence
//	auto..sentence       yes                      code
//
// Segments are never cut internally. A segment larger than the chunk size is
// emitted as a chunk of its own. Fenced code blocks always stand alone and
// never carry or receive overlap. A markdown section starting with a heading
// that does not fit in the current chunk opens a new chunk at the heading,
// without overlap.
//
// Sizes and overlaps are measured in Unicode code points.
package chunking
