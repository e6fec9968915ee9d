package indexer

// Chunk is one line of a source document.
type Chunk struct {
	ID     string // chunk_<Index>
	Index  int    // Position among the non-empty lines (starts at 0)
	Text   string // Trimmed line text
	Source string // Base name of the source file
}

// Result summarizes an ingest run.
type Result struct {
	Collection string
	Source     string
	Chunks     int // Chunks written in this run
	Deleted    int // Stale chunks removed from the collection
	Count      int // Documents in the collection after the run
	Skipped    bool
	Stats      ChunkStats
}
