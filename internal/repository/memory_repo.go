package repository

import "context"

// MemoryResult is one similar past expense surfaced from the vector store.
type MemoryResult struct {
	Content   string
	Category  string
	Timestamp int64
}

// MemoryRepo is the vector-memory boundary (backed by Qdrant). The analysis
// prompt uses it for description-similarity recall; all failures are
// tolerated by callers.
type MemoryRepo interface {
	SaveMemory(ctx context.Context, userID string, expenseID uint, description string, category string, vector []float32) error
	SearchSimilar(ctx context.Context, userID string, limit int, queryVector []float32) ([]MemoryResult, error)
	Delete(ctx context.Context, id int64) error
}
