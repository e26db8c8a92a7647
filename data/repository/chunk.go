package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/learnhub/learnhub/data"
	"github.com/learnhub/learnhub/structs"
)

// ChunkRepository defines document chunk persistence operations.
type ChunkRepository interface {
	Create(ctx context.Context, chunk *structs.Chunk) error
	ListAll(ctx context.Context) ([]*structs.Chunk, error)
	DeleteBySource(ctx context.Context, source string) error
	Count(ctx context.Context) (int64, error)
}

type chunkRepository struct {
	d *data.Data
}

// NewChunkRepository creates a chunk repository.
func NewChunkRepository(d *data.Data) ChunkRepository {
	return &chunkRepository{d: d}
}

func (r *chunkRepository) Create(ctx context.Context, chunk *structs.Chunk) error {
	embedding, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("failed to encode embedding: %w", err)
	}

	row := r.d.DB().QueryRowContext(ctx, r.d.Rebind(`
		INSERT INTO chunks (source, position, content, embedding, created_at)
		VALUES (?, ?, ?, ?, ?)
		RETURNING id
	`),
		chunk.Source,
		chunk.Position,
		chunk.Content,
		string(embedding),
		formatTime(chunk.CreatedAt),
	)
	if err := row.Scan(&chunk.ID); err != nil {
		return fmt.Errorf("failed to create chunk: %w", err)
	}
	return nil
}

// ListAll loads every chunk with its embedding. The corpus is small
// enough that similarity search scans it in memory.
func (r *chunkRepository) ListAll(ctx context.Context) ([]*structs.Chunk, error) {
	rows, err := r.d.DB().QueryContext(ctx, `
		SELECT id, source, position, content, embedding, created_at FROM chunks ORDER BY id ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list chunks: %w", err)
	}
	defer rows.Close()

	var chunks []*structs.Chunk
	for rows.Next() {
		var (
			chunk     structs.Chunk
			embedding string
			createdAt string
		)
		if err := rows.Scan(&chunk.ID, &chunk.Source, &chunk.Position, &chunk.Content, &embedding, &createdAt); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(embedding), &chunk.Embedding); err != nil {
			return nil, fmt.Errorf("failed to decode embedding for chunk %d: %w", chunk.ID, err)
		}
		chunk.CreatedAt = parseTime(createdAt)
		chunks = append(chunks, &chunk)
	}
	return chunks, rows.Err()
}

func (r *chunkRepository) DeleteBySource(ctx context.Context, source string) error {
	_, err := r.d.DB().ExecContext(ctx, r.d.Rebind(`
		DELETE FROM chunks WHERE source = ?
	`), source)
	return err
}

func (r *chunkRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.d.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM chunks`).Scan(&n)
	return n, err
}
