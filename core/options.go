package core

import (
	"fmt"
	"strings"
)

// Strategy names a segmentation algorithm.
type Strategy string

const (
	// StrategyAuto picks a concrete strategy from the shape of the content.
	StrategyAuto Strategy = "auto"
	// StrategySemantic is accepted as an alias of StrategyAuto.
	StrategySemantic Strategy = "semantic"
	// StrategyParagraph splits on blank lines.
	StrategyParagraph Strategy = "paragraph"
	// StrategySentence splits on terminal punctuation.
	StrategySentence Strategy = "sentence"
	// StrategyMarkdown splits before markdown headings.
	StrategyMarkdown Strategy = "markdown"
	// StrategyCode keeps fenced code blocks intact.
	StrategyCode Strategy = "code"
)

var strategies = []Strategy{
	StrategyAuto,
	StrategySemantic,
	StrategyParagraph,
	StrategySentence,
	StrategyMarkdown,
	StrategyCode,
}

// IsAuto reports whether the strategy asks for content-based resolution.
func (s Strategy) IsAuto() bool {
	return s == StrategyAuto || s == StrategySemantic || s == ""
}

// IsConcrete reports whether s names an actual segmenter.
func (s Strategy) IsConcrete() bool {
	switch s {
	case StrategyParagraph, StrategySentence, StrategyMarkdown, StrategyCode:
		return true
	}
	return false
}

// ParseStrategy parses a strategy name case-insensitively.
// The empty string parses to StrategyAuto.
func ParseStrategy(name string) (Strategy, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return StrategyAuto, nil
	}
	for _, s := range strategies {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrUnknownStrategy, name)
}

// DocumentType is an informational hint about the source format.
type DocumentType string

const (
	DocumentTypeText     DocumentType = "TEXT"
	DocumentTypeMarkdown DocumentType = "MARKDOWN"
	DocumentTypeHTML     DocumentType = "HTML"
	DocumentTypeJSON     DocumentType = "JSON"
	DocumentTypePDF      DocumentType = "PDF"
	DocumentTypeDOCX     DocumentType = "DOCX"
	DocumentTypeXLSX     DocumentType = "XLSX"
	DocumentTypeCSV      DocumentType = "CSV"
)

var documentTypes = []DocumentType{
	DocumentTypeText,
	DocumentTypeMarkdown,
	DocumentTypeHTML,
	DocumentTypeJSON,
	DocumentTypePDF,
	DocumentTypeDOCX,
	DocumentTypeXLSX,
	DocumentTypeCSV,
}

// ParseDocumentType parses a document type case-insensitively.
// The empty string parses to DocumentTypeText.
func ParseDocumentType(name string) (DocumentType, error) {
	name = strings.ToUpper(strings.TrimSpace(name))
	if name == "" {
		return DocumentTypeText, nil
	}
	for _, dt := range documentTypes {
		if string(dt) == name {
			return dt, nil
		}
	}
	return "", fmt.Errorf("%w: %w: %q", ErrConfiguration, ErrUnknownDocumentType, name)
}

// DocumentTypeFromExtension maps a file extension (with or without the dot)
// to a document type. Unknown extensions map to DocumentTypeText.
func DocumentTypeFromExtension(ext string) DocumentType {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "md", "markdown", "mdx":
		return DocumentTypeMarkdown
	case "html", "htm":
		return DocumentTypeHTML
	case "json", "jsonl":
		return DocumentTypeJSON
	case "pdf":
		return DocumentTypePDF
	case "docx":
		return DocumentTypeDOCX
	case "xlsx":
		return DocumentTypeXLSX
	case "csv":
		return DocumentTypeCSV
	default:
		return DocumentTypeText
	}
}

const (
	// DefaultChunkSize is the target chunk length in characters.
	DefaultChunkSize = 1200
	// DefaultOverlap is the number of characters carried into the next chunk.
	DefaultOverlap = 200
)

// ChunkingOptions configures the chunk assembler.
type ChunkingOptions struct {
	ChunkSize    int          // Target chunk length in characters
	Overlap      int          // Characters of trailing context repeated in the next chunk
	Strategy     Strategy     // Requested strategy; empty means auto
	DocumentType DocumentType // Informational only
}

// DefaultChunkingOptions returns the default chunking configuration.
func DefaultChunkingOptions() ChunkingOptions {
	return ChunkingOptions{
		ChunkSize:    DefaultChunkSize,
		Overlap:      DefaultOverlap,
		Strategy:     StrategyAuto,
		DocumentType: DocumentTypeText,
	}
}

// WithDefaults returns a copy with omitted fields filled in.
// A zero ChunkSize, empty Strategy and empty DocumentType are replaced by their
// defaults. Overlap is kept as given because zero is a meaningful value.
func (o ChunkingOptions) WithDefaults() ChunkingOptions {
	if o.ChunkSize == 0 {
		o.ChunkSize = DefaultChunkSize
	}
	if o.Strategy == "" {
		o.Strategy = StrategyAuto
	}
	if o.DocumentType == "" {
		o.DocumentType = DocumentTypeText
	}
	return o
}
