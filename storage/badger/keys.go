package badger

import "encoding/binary"

// Key prefixes for different data types
const (
	chunkPrefix    = "chunk"
	manifestKeyStr = "chunkman"
	pubEntryPrefix = "publog"
)

// makeChunkKey generates a key for a chunk by index.
// The index is BigEndian so lexicographic iteration visits chunks in order.
func makeChunkKey(index int) []byte {
	return makeIndexedKey(chunkPrefix, index)
}

// makePublicationKey generates a key for a publication entry by chunk index.
func makePublicationKey(index int) []byte {
	return makeIndexedKey(pubEntryPrefix, index)
}

// makeManifestKey generates the key for the segmentation manifest.
func makeManifestKey() []byte {
	return []byte(manifestKeyStr)
}

func makeIndexedKey(prefix string, index int) []byte {
	p := prefix + ":"
	buf := make([]byte, len(p)+8)
	offset := copy(buf, p)
	binary.BigEndian.PutUint64(buf[offset:], uint64(index))
	return buf
}
