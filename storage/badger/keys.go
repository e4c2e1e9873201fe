package badger

import (
	"encoding/binary"
	"strings"
)

// Key prefixes for different data types
const (
	chunkPrefix    = "chunk:"
	manifestPrefix = "doc:"
)

// keySeparator ends the document ID inside chunk keys. Document IDs must not
// contain it, otherwise the prefix of one document could match another.
const keySeparator = 0x00

// makeChunkPrefix generates the key prefix shared by all chunks of a document.
// Format: chunk:<documentID>\x00
func makeChunkPrefix(documentID string) []byte {
	buf := make([]byte, 0, len(chunkPrefix)+len(documentID)+1)
	buf = append(buf, chunkPrefix...)
	buf = append(buf, documentID...)
	return append(buf, keySeparator)
}

// makeChunkKey generates the key of one chunk.
// Format: chunk:<documentID>\x00<index>
// The index is written BigEndian so lexicographic order is index order.
func makeChunkKey(documentID string, index int) []byte {
	prefix := makeChunkPrefix(documentID)
	buf := make([]byte, len(prefix)+4)
	offset := copy(buf, prefix)
	binary.BigEndian.PutUint32(buf[offset:], uint32(index))
	return buf
}

// makeManifestKey generates the key of a document manifest.
// Format: doc:<documentID>
func makeManifestKey(documentID string) []byte {
	return []byte(manifestPrefix + documentID)
}

// validDocumentID reports whether id can be used in keys.
func validDocumentID(id string) bool {
	return id != "" && !strings.ContainsRune(id, keySeparator)
}
