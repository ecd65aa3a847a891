package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/repositories"
	"llm-dashboard/internal/pkg/code"
)

var ErrEmptyMessage = errors.New("message is empty")

type Chatter interface {
	Chat(ctx context.Context, llm models.LLM, userMessage string) (string, error)
}

// ConversationService 对话控制：追加用户消息 -> 调用远端 -> 追加回复或错误占位
type ConversationService struct {
	chat     Chatter
	sessions repositories.SessionRepository
}

func NewConversationService(chat Chatter, sessions repositories.SessionRepository) *ConversationService {
	return &ConversationService{chat: chat, sessions: sessions}
}

// SendMessage llm 为空时使用会话当前选择的模型。
// 远端失败不返回 error，而是在日志里追加固定的错误文案；返回值是追加的 bot 消息。
func (s *ConversationService) SendMessage(ctx context.Context, sessionID, text string, llm models.LLM) (models.Message, error) {
	if strings.TrimSpace(text) == "" {
		return models.Message{}, ErrEmptyMessage
	}

	_, err := s.sessions.Update(ctx, sessionID, func(sess *models.Session) error {
		if llm == "" {
			llm = sess.SelectedLLM
		}
		sess.Append(models.SenderUser, text)
		sess.Busy = true
		return nil
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("append user message: %w", err)
	}

	content := code.MsgChatErr
	reply, err := s.chat.Chat(ctx, llm, text)
	if err != nil {
		log.Errorf("Error sending message: session=%s model=%s: %v", sessionID, llm, err)
	} else {
		content = reply
	}

	// 请求可能已被取消，状态收尾不能跟着失败
	var botMsg models.Message
	_, err = s.sessions.Update(context.WithoutCancel(ctx), sessionID, func(sess *models.Session) error {
		botMsg = sess.Append(models.SenderBot, content)
		sess.Busy = false
		return nil
	})
	if err != nil {
		return models.Message{}, fmt.Errorf("append bot message: %w", err)
	}
	return botMsg, nil
}

func (s *ConversationService) SelectModel(ctx context.Context, sessionID string, llm models.LLM) (*models.Session, error) {
	if !llm.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLLM, llm)
	}
	return s.sessions.Update(ctx, sessionID, func(sess *models.Session) error {
		sess.SelectedLLM = llm
		return nil
	})
}

func (s *ConversationService) Messages(ctx context.Context, sessionID string) ([]models.Message, error) {
	sess, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrSessionNotFound) {
			return []models.Message{}, nil
		}
		return nil, err
	}
	return sess.Messages, nil
}
