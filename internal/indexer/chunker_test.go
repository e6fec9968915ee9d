package indexer

import (
	"reflect"
	"testing"
)

func TestSplitLines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "plain lines",
			content: "one\ntwo\nthree",
			want:    []string{"one", "two", "three"},
		},
		{
			name:    "blank and whitespace lines dropped",
			content: "  one  \n\n   \n\ttwo\n\n",
			want:    []string{"one", "two"},
		},
		{
			name:    "windows line endings",
			content: "one\r\ntwo\r\n",
			want:    []string{"one", "two"},
		},
		{
			name:    "empty content",
			content: "",
			want:    []string{},
		},
		{
			name:    "only whitespace",
			content: "\n \n\t\n",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SplitLines(tt.content)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SplitLines() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestBuildChunks(t *testing.T) {
	chunks := BuildChunks([]string{"I am Alex.", "I live in Lisbon."}, "/home/alex/aboutme.txt")

	if len(chunks) != 2 {
		t.Fatalf("BuildChunks() returned %d chunks, want 2", len(chunks))
	}

	for i, chunk := range chunks {
		if chunk.ID != ChunkID(i) {
			t.Errorf("chunk %d ID = %s, want %s", i, chunk.ID, ChunkID(i))
		}
		if chunk.Index != i {
			t.Errorf("chunk %d Index = %d", i, chunk.Index)
		}
		if chunk.Source != "aboutme.txt" {
			t.Errorf("chunk %d Source = %s, want aboutme.txt", i, chunk.Source)
		}
	}

	want := map[string]string{"source": "aboutme.txt", "chunk_index": "1"}
	if got := chunks[1].Metadata(); !reflect.DeepEqual(got, want) {
		t.Errorf("Metadata() = %v, want %v", got, want)
	}
}

func TestChunkID(t *testing.T) {
	if got := ChunkID(0); got != "chunk_0" {
		t.Errorf("ChunkID(0) = %s", got)
	}
	if got := ChunkID(12); got != "chunk_12" {
		t.Errorf("ChunkID(12) = %s", got)
	}
}
