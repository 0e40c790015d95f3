package domain

// MaxChunkSize is the most records a store accepts in one write transaction.
const MaxChunkSize = 500

// Chunks splits recs into consecutive slices of at most size elements.
// Sizes outside 1..MaxChunkSize are clamped to MaxChunkSize.
func Chunks(recs []Record, size int) [][]Record {
	if size <= 0 || size > MaxChunkSize {
		size = MaxChunkSize
	}

	chunks := make([][]Record, 0, (len(recs)+size-1)/size)
	for start := 0; start < len(recs); start += size {
		end := min(start+size, len(recs))
		chunks = append(chunks, recs[start:end])
	}
	return chunks
}
