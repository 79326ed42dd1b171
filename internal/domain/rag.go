package domain

import (
	"encoding/json"
	"time"
)

// Chunk is a persisted document chunk with its embedding vector.
type Chunk struct {
	ChunkID   string          `json:"chunk_id"`
	Content   string          `json:"content"`
	Metadata  json.RawMessage `json:"metadata,omitempty"`
	Embedding []float32       `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

// ScoredChunk pairs a chunk with a relevance score.
type ScoredChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// RagReference is one source chunk cited in a retrieval answer.
type RagReference struct {
	ChunkID string  `json:"chunk_id"`
	Content string  `json:"content"`
	Score   float64 `json:"score"`
}

// RagAnswer is the result of a retrieval-augmented query.
type RagAnswer struct {
	Answer     string         `json:"answer"`
	References []RagReference `json:"references"`
}
