package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/repositories"
)

var (
	ErrEmptyText             = errors.New("text is empty")
	ErrUnknownEmbeddingModel = errors.New("unknown embedding model")
)

type Embedder interface {
	GenerateEmbeddings(ctx context.Context, text string, model models.EmbeddingModel) ([][]float64, error)
}

type EmbeddingService struct {
	embedder Embedder
	sessions repositories.SessionRepository
}

func NewEmbeddingService(embedder Embedder, sessions repositories.SessionRepository) *EmbeddingService {
	return &EmbeddingService{embedder: embedder, sessions: sessions}
}

// Generate model 为空时使用会话中的选择
func (s *EmbeddingService) Generate(ctx context.Context, sessionID, text string, model models.EmbeddingModel) ([]models.EmbeddingVisualization, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, ErrEmptyText
	}
	if model == "" {
		sess, err := s.sessions.Get(ctx, sessionID)
		switch {
		case err == nil:
			model = sess.EmbeddingModel
		case errors.Is(err, repositories.ErrSessionNotFound):
			model = models.EmbeddingModels[0]
		default:
			return nil, err
		}
	}
	if !model.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEmbeddingModel, model)
	}

	vectors, err := s.embedder.GenerateEmbeddings(ctx, text, model)
	if err != nil {
		log.Errorf("Error generating embeddings: session=%s model=%s: %v", sessionID, model, err)
		return nil, err
	}
	result := Visualize(trimmed, vectors)

	_, err = s.sessions.Update(context.WithoutCancel(ctx), sessionID, func(sess *models.Session) error {
		sess.EmbeddingModel = model
		sess.Embeddings = result
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record embeddings: %w", err)
	}
	return result, nil
}

// Visualize 第 i 个向量对应第 i 个词，词不够时用 "Word <i+1>"
func Visualize(text string, vectors [][]float64) []models.EmbeddingVisualization {
	words := strings.Fields(text)
	out := make([]models.EmbeddingVisualization, 0, len(vectors))
	for i, v := range vectors {
		word := fmt.Sprintf("Word %d", i+1)
		if i < len(words) {
			word = words[i]
		}
		out = append(out, models.EmbeddingVisualization{Word: word, Vector: v})
	}
	return out
}
