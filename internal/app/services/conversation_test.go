package services

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/repositories"
	"llm-dashboard/internal/pkg/code"
)

func TestSendMessageAppendsUserAndBot(t *testing.T) {
	f, api := newFakeRemote(t, func(w http.ResponseWriter, r *http.Request) {
		var req models.ChatRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.UserMessage != "hello" {
			t.Errorf("unexpected userMessage %q", req.UserMessage)
		}
		writeJSON(w, http.StatusOK, `{"message":"hi there"}`)
	})
	repo := repositories.NewMemorySessionRepository()
	svc := NewConversationService(api, repo)
	ctx := context.Background()

	reply, err := svc.SendMessage(ctx, "s1", "hello", "")
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Sender != models.SenderBot || reply.Content != "hi there" {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if got := f.recorded()[0].Path; got != "/gpt4/chatbot" {
		t.Fatalf("default model should be GPT-4, got path %s", got)
	}

	sess, err := repo.Get(ctx, "s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	want := []models.Message{
		{Sender: models.SenderUser, Content: "hello"},
		{Sender: models.SenderBot, Content: "hi there"},
	}
	if len(sess.Messages) != len(want) {
		t.Fatalf("expected %d messages, got %+v", len(want), sess.Messages)
	}
	for i := range want {
		if sess.Messages[i] != want[i] {
			t.Fatalf("message %d: expected %+v, got %+v", i, want[i], sess.Messages[i])
		}
	}
	if sess.Busy {
		t.Fatalf("busy flag must be cleared")
	}
}

func TestSendMessageRemoteFailureAppendsErrorText(t *testing.T) {
	_, api := newFakeRemote(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, `{}`)
	})
	repo := repositories.NewMemorySessionRepository()
	svc := NewConversationService(api, repo)
	ctx := context.Background()

	reply, err := svc.SendMessage(ctx, "s1", "hello", models.LLMMistral)
	if err != nil {
		t.Fatalf("remote failure must not surface as error, got %v", err)
	}
	if reply.Content != code.MsgChatErr {
		t.Fatalf("expected error text, got %q", reply.Content)
	}
	sess, _ := repo.Get(ctx, "s1")
	if len(sess.Messages) != 2 || sess.Busy {
		t.Fatalf("expected 2 messages and busy cleared, got %+v busy=%v", sess.Messages, sess.Busy)
	}
}

func TestSendMessageUnknownModel(t *testing.T) {
	f, api := newFakeRemote(t, nil)
	repo := repositories.NewMemorySessionRepository()
	svc := NewConversationService(api, repo)

	reply, err := svc.SendMessage(context.Background(), "s1", "hello", models.LLM("Claude"))
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	if reply.Content != code.MsgChatErr {
		t.Fatalf("expected error text, got %q", reply.Content)
	}
	if n := len(f.recorded()); n != 0 {
		t.Fatalf("unknown model must not reach the remote, got %d requests", n)
	}
}

func TestSendMessageRejectsBlank(t *testing.T) {
	f, api := newFakeRemote(t, nil)
	repo := repositories.NewMemorySessionRepository()
	svc := NewConversationService(api, repo)

	if _, err := svc.SendMessage(context.Background(), "s1", "   ", ""); !errors.Is(err, ErrEmptyMessage) {
		t.Fatalf("expected ErrEmptyMessage, got %v", err)
	}
	if _, err := repo.Get(context.Background(), "s1"); !errors.Is(err, repositories.ErrSessionNotFound) {
		t.Fatalf("blank message must not touch the session, got %v", err)
	}
	if len(f.recorded()) != 0 {
		t.Fatalf("blank message must not reach the remote")
	}
}

func TestSelectModelRoutesFollowingMessages(t *testing.T) {
	f, api := newFakeRemote(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, `{"message":"ok"}`)
	})
	svc := NewConversationService(api, repositories.NewMemorySessionRepository())
	ctx := context.Background()

	if _, err := svc.SelectModel(ctx, "s1", models.LLM("Claude")); !errors.Is(err, ErrUnknownLLM) {
		t.Fatalf("expected ErrUnknownLLM, got %v", err)
	}
	if _, err := svc.SelectModel(ctx, "s1", models.LLMGPT4Turbo); err != nil {
		t.Fatalf("select: %v", err)
	}
	if _, err := svc.SendMessage(ctx, "s1", "hello", ""); err != nil {
		t.Fatalf("send: %v", err)
	}
	if got := f.recorded()[0].Path; got != "/gpt4o/chatbot" {
		t.Fatalf("expected GPT-4 Turbo path, got %s", got)
	}
}

func TestMessagesEmptyForNewSession(t *testing.T) {
	svc := NewConversationService(nil, repositories.NewMemorySessionRepository())
	msgs, err := svc.Messages(context.Background(), "unknown")
	if err != nil {
		t.Fatalf("messages: %v", err)
	}
	if msgs == nil || len(msgs) != 0 {
		t.Fatalf("expected empty non-nil slice, got %#v", msgs)
	}
}
