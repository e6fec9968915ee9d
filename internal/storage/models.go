package storage

import "time"

// SourceRecord is the last successful ingest into a collection.
type SourceRecord struct {
	Collection string
	Path       string    // Path as given to the ingest command
	Name       string    // File base name, stored as chunk metadata
	Hash       string    // SHA256 hex string of file content
	ChunkCount int
	IngestedAt time.Time
}

// ChunkRecord is one chunk written to the collection by the last ingest.
type ChunkRecord struct {
	ID         string // chunk_<index>, same as the vector store document ID
	ChunkIndex int
	Text       string
}
