package store

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/ClarenceZzz/assistant-demo/internal/domain"
)

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite store.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory databases live per connection; a second connection would see
	// an empty schema.
	if strings.Contains(dsn, ":memory:") || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// migrate runs database migrations.
func (s *SQLiteStore) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS conversations (
			conversation_id TEXT PRIMARY KEY,
			user_id TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			metadata TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS messages (
			message_id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			role TEXT NOT NULL,
			content TEXT NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (conversation_id) REFERENCES conversations(conversation_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_messages_conversation ON messages(conversation_id, created_at)`,
		`CREATE TABLE IF NOT EXISTS events (
			event_id TEXT PRIMARY KEY,
			conversation_id TEXT NOT NULL,
			ts INTEGER NOT NULL,
			type TEXT NOT NULL,
			payload TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_conversation ON events(conversation_id, ts)`,
		`CREATE TABLE IF NOT EXISTS chunks (
			chunk_id TEXT PRIMARY KEY,
			content TEXT NOT NULL,
			metadata TEXT,
			embedding BLOB NOT NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, m := range migrations {
		if _, err := s.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\n%s", err, m)
		}
	}

	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// CreateConversation creates a new conversation.
func (s *SQLiteStore) CreateConversation(ctx context.Context, conv *domain.Conversation) error {
	metadata := ""
	if conv.Metadata != nil {
		metadata = string(conv.Metadata)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO conversations (conversation_id, user_id, created_at, metadata) VALUES (?, ?, ?, ?)`,
		conv.ConversationID, conv.UserID, conv.CreatedAt, metadata)
	return err
}

// GetConversation retrieves a conversation by ID. Returns nil when not found.
func (s *SQLiteStore) GetConversation(ctx context.Context, conversationID string) (*domain.Conversation, error) {
	var conv domain.Conversation
	var metadata sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT conversation_id, user_id, created_at, metadata FROM conversations WHERE conversation_id = ?`,
		conversationID).Scan(&conv.ConversationID, &conv.UserID, &conv.CreatedAt, &metadata)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if metadata.Valid && metadata.String != "" {
		conv.Metadata = []byte(metadata.String)
	}
	return &conv, nil
}

// GetOrCreateConversation gets an existing conversation or creates a new one.
func (s *SQLiteStore) GetOrCreateConversation(ctx context.Context, conversationID, userID string) (*domain.Conversation, error) {
	conv, err := s.GetConversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	if conv != nil {
		return conv, nil
	}

	conv = &domain.Conversation{
		ConversationID: conversationID,
		UserID:         userID,
		CreatedAt:      time.Now(),
	}
	if err := s.CreateConversation(ctx, conv); err != nil {
		return nil, err
	}
	return conv, nil
}

// CreateMessage creates a new message.
func (s *SQLiteStore) CreateMessage(ctx context.Context, msg *domain.StoredMessage) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (message_id, conversation_id, role, content, created_at) VALUES (?, ?, ?, ?, ?)`,
		msg.MessageID, msg.ConversationID, msg.Role, msg.Content, msg.CreatedAt)
	return err
}

// GetMessages retrieves messages for a conversation in chronological order.
func (s *SQLiteStore) GetMessages(ctx context.Context, conversationID string, limit int) ([]domain.StoredMessage, error) {
	query := `SELECT message_id, conversation_id, role, content, created_at FROM messages WHERE conversation_id = ? ORDER BY created_at ASC, message_id ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, conversationID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []domain.StoredMessage
	for rows.Next() {
		var msg domain.StoredMessage
		if err := rows.Scan(&msg.MessageID, &msg.ConversationID, &msg.Role, &msg.Content, &msg.CreatedAt); err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	return messages, rows.Err()
}

// CreateEvent creates a new event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *domain.Event) error {
	payload := ""
	if event.Payload != nil {
		payload = string(event.Payload)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO events (event_id, conversation_id, ts, type, payload) VALUES (?, ?, ?, ?, ?)`,
		event.EventID, event.ConversationID, event.Ts, event.Type, payload)
	return err
}

// GetEvents retrieves events for a conversation.
func (s *SQLiteStore) GetEvents(ctx context.Context, conversationID string, afterTs int64, types []string, limit int) ([]domain.Event, error) {
	query := `SELECT event_id, conversation_id, ts, type, payload FROM events WHERE conversation_id = ?`
	args := []interface{}{conversationID}

	if afterTs > 0 {
		query += ` AND ts > ?`
		args = append(args, afterTs)
	}

	if len(types) > 0 {
		placeholders := make([]string, len(types))
		for i, t := range types {
			placeholders[i] = "?"
			args = append(args, t)
		}
		query += fmt.Sprintf(" AND type IN (%s)", strings.Join(placeholders, ","))
	}

	query += ` ORDER BY ts ASC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		var payload sql.NullString
		if err := rows.Scan(&event.EventID, &event.ConversationID, &event.Ts, &event.Type, &payload); err != nil {
			return nil, err
		}
		if payload.Valid && payload.String != "" {
			event.Payload = []byte(payload.String)
		}
		events = append(events, event)
	}
	return events, rows.Err()
}

// CreateChunk persists a document chunk and its embedding.
func (s *SQLiteStore) CreateChunk(ctx context.Context, chunk *domain.Chunk) error {
	if len(chunk.Embedding) == 0 {
		return fmt.Errorf("chunk embedding is required")
	}
	metadata := ""
	if chunk.Metadata != nil {
		metadata = string(chunk.Metadata)
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO chunks (chunk_id, content, metadata, embedding, created_at) VALUES (?, ?, ?, ?, ?)`,
		chunk.ChunkID, chunk.Content, metadata, encodeVector(chunk.Embedding), chunk.CreatedAt)
	return err
}

// SearchChunks scores every stored chunk against the query embedding by
// cosine similarity and returns the topK best matches, best first.
func (s *SQLiteStore) SearchChunks(ctx context.Context, embedding []float32, topK int) ([]domain.ScoredChunk, error) {
	if topK <= 0 {
		return nil, nil
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT chunk_id, content, metadata, embedding, created_at FROM chunks`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scored []domain.ScoredChunk
	for rows.Next() {
		var chunk domain.Chunk
		var metadata sql.NullString
		var blob []byte
		if err := rows.Scan(&chunk.ChunkID, &chunk.Content, &metadata, &blob, &chunk.CreatedAt); err != nil {
			return nil, err
		}
		if metadata.Valid && metadata.String != "" {
			chunk.Metadata = []byte(metadata.String)
		}
		chunk.Embedding, err = decodeVector(blob)
		if err != nil {
			return nil, fmt.Errorf("chunk %s: %w", chunk.ChunkID, err)
		}
		scored = append(scored, domain.ScoredChunk{
			Chunk: chunk,
			Score: cosineSimilarity(embedding, chunk.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	sort.Slice(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > topK {
		scored = scored[:topK]
	}
	return scored, nil
}

// encodeVector packs a float32 vector into a little-endian blob.
func encodeVector(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// decodeVector unpacks a little-endian blob into a float32 vector.
func decodeVector(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("invalid embedding blob length %d", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return v, nil
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
