package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/learnhub/learnhub/ai"
	"github.com/learnhub/learnhub/cache"
	"github.com/learnhub/learnhub/config"
	"github.com/learnhub/learnhub/data/repository"
	"github.com/learnhub/learnhub/logging/logger"
	"github.com/learnhub/learnhub/structs"
)

// AskRequest is the chat question payload.
type AskRequest struct {
	Question string `json:"question" binding:"required"`
}

// SourceRef names a retrieved document and its best similarity score.
type SourceRef struct {
	Source string  `json:"source"`
	Score  float64 `json:"score"`
}

// Answer is a chat response with the sources it was grounded on.
type Answer struct {
	Answer  string      `json:"answer"`
	Sources []SourceRef `json:"sources,omitempty"`
	Cached  bool        `json:"cached"`
}

// ChatHealth reports the readiness of the chat subsystem.
type ChatHealth struct {
	AIConfigured bool  `json:"ai_configured"`
	ChunkCount   int64 `json:"chunk_count"`
}

const (
	chatSystemPrompt = `You are a helpful tutor for LearnHub, a platform for learning backend development.
Answer using only the provided context. If the context does not contain the answer, say so briefly.`
	answerCacheTTL = time.Hour
	chunkSize      = 800
)

// ChatService answers questions over the ingested document corpus.
type ChatService struct {
	cfg     *config.AI
	chunks  repository.ChunkRepository
	ai      *ai.Client
	answers *cache.Cache[Answer]
	log     *logger.Logger
}

// NewChatService creates the chat service.
func NewChatService(cfg *config.AI, chunks repository.ChunkRepository, aiClient *ai.Client, rc *redis.Client, log *logger.Logger) *ChatService {
	return &ChatService{
		cfg:     cfg,
		chunks:  chunks,
		ai:      aiClient,
		answers: cache.NewCache[Answer](rc, "learnhub:chat"),
		log:     log,
	}
}

// Ask answers a question by retrieving the most similar document
// chunks and prompting the chat model with them as context. Identical
// questions are served from the cache.
func (s *ChatService) Ask(ctx context.Context, req *AskRequest) (*Answer, error) {
	if s.ai == nil || !s.ai.Enabled() {
		return nil, ErrAIUnavailable
	}

	question := strings.TrimSpace(req.Question)
	cacheKey := questionKey(question)

	if cached, err := s.answers.Get(ctx, cacheKey); err == nil {
		cached.Cached = true
		return cached, nil
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		s.log.Warn(ctx, "answer cache read failed", "error", err)
	}

	vectors, err := s.ai.Embed(ctx, []string{question}, "search_query")
	if err != nil {
		return nil, err
	}

	chunks, err := s.chunks.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	top := topChunks(chunks, vectors[0], s.retrievalK())

	messages := []ai.Message{
		{Role: "system", Content: chatSystemPrompt},
		{Role: "user", Content: buildPrompt(question, top)},
	}
	text, err := s.ai.ChatCompletion(ctx, messages)
	if err != nil {
		return nil, err
	}

	answer := &Answer{Answer: text, Sources: sourceRefs(top)}
	if err := s.answers.Set(ctx, cacheKey, answer, answerCacheTTL); err != nil {
		s.log.Warn(ctx, "answer cache write failed", "error", err)
	}
	return answer, nil
}

// Ingest splits a document into chunks, embeds them and stores the
// vectors, replacing any previous chunks from the same source.
func (s *ChatService) Ingest(ctx context.Context, source, text string) (int, error) {
	if s.ai == nil || !s.ai.Enabled() {
		return 0, ErrAIUnavailable
	}

	parts := splitChunks(text, chunkSize)
	if len(parts) == 0 {
		return 0, fmt.Errorf("document %q is empty", source)
	}

	vectors, err := s.ai.Embed(ctx, parts, "search_document")
	if err != nil {
		return 0, err
	}

	if err := s.chunks.DeleteBySource(ctx, source); err != nil {
		return 0, err
	}

	now := time.Now().UTC()
	for i, part := range parts {
		chunk := &structs.Chunk{
			Source:    source,
			Position:  i,
			Content:   part,
			Embedding: vectors[i],
			CreatedAt: now,
		}
		if err := s.chunks.Create(ctx, chunk); err != nil {
			return i, err
		}
	}

	s.log.Info(ctx, "document ingested", "source", source, "chunks", len(parts))
	return len(parts), nil
}

// Health reports whether the chat subsystem can answer questions.
func (s *ChatService) Health(ctx context.Context) (*ChatHealth, error) {
	n, err := s.chunks.Count(ctx)
	if err != nil {
		return nil, err
	}
	return &ChatHealth{
		AIConfigured: s.ai != nil && s.ai.Enabled(),
		ChunkCount:   n,
	}, nil
}

func (s *ChatService) retrievalK() int {
	if s.cfg != nil && s.cfg.RetrievalK > 0 {
		return s.cfg.RetrievalK
	}
	return 4
}

func questionKey(question string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(question)))
	return hex.EncodeToString(sum[:])
}

type scoredChunk struct {
	chunk *structs.Chunk
	score float64
}

func topChunks(chunks []*structs.Chunk, query []float64, k int) []scoredChunk {
	scored := make([]scoredChunk, 0, len(chunks))
	for _, c := range chunks {
		scored = append(scored, scoredChunk{chunk: c, score: cosineSimilarity(query, c.Embedding)})
	}
	sort.Slice(scored, func(i, j int) bool { return scored[i].score > scored[j].score })

	if k > len(scored) {
		k = len(scored)
	}
	return scored[:k]
}

func cosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func buildPrompt(question string, chunks []scoredChunk) string {
	var b strings.Builder
	b.WriteString("Context:\n")
	for i, sc := range chunks {
		fmt.Fprintf(&b, "[%d] (%s) %s\n", i+1, sc.chunk.Source, sc.chunk.Content)
	}
	b.WriteString("\nQuestion: ")
	b.WriteString(question)
	return b.String()
}

// sourceRefs deduplicates by document, keeping each source's best score.
func sourceRefs(chunks []scoredChunk) []SourceRef {
	seen := make(map[string]bool)
	var sources []SourceRef
	for _, sc := range chunks {
		if !seen[sc.chunk.Source] {
			seen[sc.chunk.Source] = true
			sources = append(sources, SourceRef{Source: sc.chunk.Source, Score: sc.score})
		}
	}
	return sources
}

// splitChunks breaks text on paragraph boundaries into pieces of at
// most max bytes. Oversized paragraphs are split mid-text.
func splitChunks(text string, max int) []string {
	var chunks []string
	var current strings.Builder

	flush := func() {
		if s := strings.TrimSpace(current.String()); s != "" {
			chunks = append(chunks, s)
		}
		current.Reset()
	}

	for _, para := range strings.Split(text, "\n\n") {
		para = strings.TrimSpace(para)
		if para == "" {
			continue
		}
		for len(para) > max {
			flush()
			chunks = append(chunks, strings.TrimSpace(para[:max]))
			para = strings.TrimSpace(para[max:])
		}
		if current.Len()+len(para)+2 > max {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString("\n\n")
		}
		current.WriteString(para)
	}
	flush()
	return chunks
}
