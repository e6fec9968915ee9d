package indexer

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// SplitLines splits content into chunks of one line each. Lines are trimmed
// and empty lines dropped; the remaining order defines the chunk index.
func SplitLines(content string) []string {
	lines := strings.Split(content, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// ChunkID returns the stable document ID of the chunk at index.
func ChunkID(index int) string {
	return fmt.Sprintf("chunk_%d", index)
}

// BuildChunks turns the lines of a source into chunks tagged with the
// source file's base name.
func BuildChunks(lines []string, sourcePath string) []Chunk {
	source := filepath.Base(sourcePath)
	chunks := make([]Chunk, len(lines))
	for i, line := range lines {
		chunks[i] = Chunk{
			ID:     ChunkID(i),
			Index:  i,
			Text:   line,
			Source: source,
		}
	}
	return chunks
}

// Metadata is the document metadata stored with a chunk.
func (c Chunk) Metadata() map[string]string {
	return map[string]string{
		"source":      c.Source,
		"chunk_index": strconv.Itoa(c.Index),
	}
}
