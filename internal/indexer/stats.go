package indexer

import (
	"math"
	"sort"
	"unicode/utf8"
)

// TokensPerRune is an approximation for token counting (4 chars per token).
const TokensPerRune = 4.0

// ChunkStats contains statistics about estimated token counts per chunk.
type ChunkStats struct {
	Min  int     `json:"min"`
	Max  int     `json:"max"`
	Mean float64 `json:"mean"`
	P95  int     `json:"p95"`
}

// estimateTokens approximates the token count of s from its rune count.
func estimateTokens(s string) int {
	n := int(math.Round(float64(utf8.RuneCountInString(s)) / TokensPerRune))
	if n < 1 {
		return 1
	}
	return n
}

// computeChunkStats computes min, max, mean and p95 token estimates.
func computeChunkStats(chunks []Chunk) ChunkStats {
	if len(chunks) == 0 {
		return ChunkStats{}
	}

	sorted := make([]int, len(chunks))
	sum := 0
	for i, chunk := range chunks {
		sorted[i] = estimateTokens(chunk.Text)
		sum += sorted[i]
	}
	sort.Ints(sorted)

	p95Index := int(math.Ceil(float64(len(sorted))*0.95)) - 1
	if p95Index < 0 {
		p95Index = 0
	}

	mean := float64(sum) / float64(len(sorted))
	return ChunkStats{
		Min:  sorted[0],
		Max:  sorted[len(sorted)-1],
		Mean: math.Round(mean*100) / 100, // Round to 2 decimal places
		P95:  sorted[p95Index],
	}
}
