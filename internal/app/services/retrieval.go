package services

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/repositories"
)

var ErrRetrieveFailed = errors.New("retrieve failed")

type FileGetter interface {
	GetFile(ctx context.Context, folderTitle, fileTitle string) (string, error)
}

type RetrievalService struct {
	files    FileGetter
	sessions repositories.SessionRepository
}

func NewRetrievalService(files FileGetter, sessions repositories.SessionRepository) *RetrievalService {
	return &RetrievalService{files: files, sessions: sessions}
}

// Retrieve 不做缓存，每次都请求远端；返回的 URL 不校验内容类型
func (s *RetrievalService) Retrieve(ctx context.Context, sessionID, folderTitle, fileTitle string) (string, error) {
	url, err := s.files.GetFile(ctx, folderTitle, fileTitle)
	if err != nil {
		log.Errorf("Error retrieving file: session=%s: %v", sessionID, err)
		return "", fmt.Errorf("%w: %w", ErrRetrieveFailed, err)
	}
	_, err = s.sessions.Update(context.WithoutCancel(ctx), sessionID, func(sess *models.Session) error {
		sess.RetrievedFileURL = url
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("record retrieved url: %w", err)
	}
	return url, nil
}
