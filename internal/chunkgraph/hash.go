package chunkgraph

import (
	"encoding/hex"
	"hash"
)

// HashFunc returns a fresh hash.Hash.
type HashFunc func() hash.Hash

// renderedHashLength is how many characters of the full chunk hash make up
// the rendered hash.
const renderedHashLength = 20

// fillHashes computes every hash the compiler left empty. Chunk hashes
// cover the chunk's module ids and code in order; the build hash covers all
// chunk hashes in order.
func fillHashes(c *Compilation, newHash HashFunc, contentHashType string) {
	for _, chunk := range c.Chunks {
		if chunk.Hash == "" {
			chunk.Hash = digestChunk(newHash, chunk)
		}
		if chunk.RenderedHash == "" {
			chunk.RenderedHash = truncate(chunk.Hash, renderedHashLength)
		}
		if chunk.ContentHash == nil {
			chunk.ContentHash = make(map[string]string)
		}
		if chunk.ContentHash[contentHashType] == "" {
			chunk.ContentHash[contentHashType] = digestChunk(newHash, chunk)
		}
	}

	if c.Hash == "" {
		h := newHash()
		for _, chunk := range c.Chunks {
			h.Write([]byte(chunk.ID))
			h.Write([]byte{0})
			h.Write([]byte(chunk.Hash))
			h.Write([]byte{0})
		}
		c.Hash = hex.EncodeToString(h.Sum(nil))
	}
}

func digestChunk(newHash HashFunc, chunk *Chunk) string {
	h := newHash()
	for _, m := range chunk.Modules {
		h.Write([]byte(m.ID))
		h.Write([]byte{0})
		h.Write([]byte(m.Code))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
