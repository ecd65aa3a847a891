package models

import "time"

// Session 单个浏览器会话的看板状态
type Session struct {
	ID               string                   `json:"id"`
	Messages         []Message                `json:"messages"`
	SelectedLLM      LLM                      `json:"selected_llm"`
	Busy             bool                     `json:"busy"`
	RetrievedFileURL string                   `json:"retrieved_file_url,omitempty"`
	TrainingFile     *TrainingFile            `json:"training_file,omitempty"`
	TrainingTaskID   string                   `json:"training_task_id,omitempty"`
	EmbeddingModel   EmbeddingModel           `json:"embedding_model"`
	Embeddings       []EmbeddingVisualization `json:"embeddings,omitempty"`
	CreatedAt        time.Time                `json:"created_at"`
	UpdatedAt        time.Time                `json:"updated_at"`
}

func NewSession(id string) *Session {
	now := time.Now()
	return &Session{
		ID:             id,
		Messages:       make([]Message, 0),
		SelectedLLM:    DefaultLLM(),
		EmbeddingModel: EmbeddingModels[0],
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}

// Append 消息日志只追加
func (s *Session) Append(sender Sender, content string) Message {
	msg := Message{Sender: sender, Content: content}
	s.Messages = append(s.Messages, msg)
	return msg
}

// Clone 深拷贝，调用方可以随意修改返回值
func (s *Session) Clone() *Session {
	cp := *s
	cp.Messages = make([]Message, len(s.Messages))
	copy(cp.Messages, s.Messages)
	if s.TrainingFile != nil {
		tf := *s.TrainingFile
		cp.TrainingFile = &tf
	}
	if s.Embeddings != nil {
		cp.Embeddings = make([]EmbeddingVisualization, len(s.Embeddings))
		for i, e := range s.Embeddings {
			vec := make([]float64, len(e.Vector))
			copy(vec, e.Vector)
			cp.Embeddings[i] = EmbeddingVisualization{Word: e.Word, Vector: vec}
		}
	}
	return &cp
}
