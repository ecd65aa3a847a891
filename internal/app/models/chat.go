package models

import "time"

// Sender 消息发送方
type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

type Message struct {
	Sender  Sender `json:"sender"`
	Content string `json:"content"`
}

// LLM 可选的远端对话模型
type LLM string

const (
	LLMGPT4      LLM = "GPT-4"
	LLMGPT4Turbo LLM = "GPT-4 Turbo"
	LLMMistral   LLM = "Mistral"
)

// LLMOptions 顺序即下拉框顺序，第一个为默认值
var LLMOptions = []LLM{LLMGPT4, LLMGPT4Turbo, LLMMistral}

var llmPaths = map[LLM]string{
	LLMGPT4:      "/gpt4/chatbot",
	LLMGPT4Turbo: "/gpt4o/chatbot",
	LLMMistral:   "/mistral/chatbot",
}

func DefaultLLM() LLM {
	return LLMOptions[0]
}

// ChatPath 返回模型对应的远端路径
func (l LLM) ChatPath() (string, bool) {
	p, ok := llmPaths[l]
	return p, ok
}

func (l LLM) Valid() bool {
	_, ok := llmPaths[l]
	return ok
}

// ChatRequest 远端 chatbot 请求体
type ChatRequest struct {
	UserMessage string `json:"userMessage"`
}

// ChatReply 远端 chatbot 响应体
type ChatReply struct {
	Message string `json:"message"`
}

// SendMessageRequest 看板对话请求
type SendMessageRequest struct {
	Message string `json:"message" binding:"required"`
	Model   LLM    `json:"model,omitempty"` // 为空时使用会话中选中的模型
}

type SelectModelRequest struct {
	Model LLM `json:"model" binding:"required"`
}

type SendMessageResponse struct {
	Reply    Message   `json:"reply"`
	Messages []Message `json:"messages"`
	SentAt   time.Time `json:"sent_at"`
}
