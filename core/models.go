package core

import (
	"encoding/binary"
	"strconv"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for stored chunk records.
// It is derived from content so that re-ingesting identical input yields identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// RecordID returns the ID of the chunk at index within a document.
func RecordID(documentID string, index int, content string) ID {
	return IDFromContent(documentID + "\x00" + strconv.Itoa(index) + "\x00" + content)
}

// DefaultScope is the scope assigned to records when the caller supplies none.
const DefaultScope = "business"

// ChunkMeta is the metadata attached to every chunk.
type ChunkMeta struct {
	Strategy   Strategy // Concrete strategy that produced the chunk
	EstTokens  int      // Estimated token count of the chunk text
	ReadingSec int      // Estimated reading time in seconds
}

// Chunk is a bounded span of a document's text produced by the assembler.
// Chunks are ordered; Overlap counts the leading characters copied from the
// end of the previous chunk.
type Chunk struct {
	Index   int
	Text    string
	Overlap int
	Meta    ChunkMeta
}

// StorageRecord is the unit handed to the chunk store.
// Records are built once per ingestion call and are not mutated afterwards;
// stores stamp InsertedAt on their own copy.
type StorageRecord struct {
	Id           ID
	DocumentID   string
	Index        int
	Content      string
	Embedding    []float32
	Meta         ChunkMeta
	DocumentType DocumentType // Informational hint carried to the document manifest
	Scope        string
	BusinessID   string   // Empty when not set
	DatasetID    string   // Empty when not set
	AgentKeys    []string // Tags routing the chunk to consumers
	InsertedAt   time.Time
}

// DocumentManifest summarizes a stored document.
type DocumentManifest struct {
	DocumentID   string
	DocumentType DocumentType
	Scope        string
	BusinessID   string
	DatasetID    string
	ChunkCount   int
	UpdatedAt    time.Time
}
