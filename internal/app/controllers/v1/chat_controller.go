package v1

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"llm-dashboard/internal/app/controllers"
	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/services"
	"llm-dashboard/internal/pkg/code"
)

type ChatController struct {
	conversation *services.ConversationService
	files        *services.FileTransferService
}

func NewChatController(conversation *services.ConversationService, files *services.FileTransferService) *ChatController {
	return &ChatController{conversation: conversation, files: files}
}

func (c *ChatController) Models(ctx *gin.Context) {
	controllers.Response(ctx, code.Success, code.MsgSuccess, gin.H{
		"models":  models.LLMOptions,
		"default": models.DefaultLLM(),
	})
}

func (c *ChatController) SelectModel(ctx *gin.Context) {
	var req models.SelectModelRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controllers.BadRequest(ctx, err)
		return
	}
	sess, err := c.conversation.SelectModel(ctx.Request.Context(), controllers.SessionID(ctx), req.Model)
	if err != nil {
		if errors.Is(err, services.ErrUnknownLLM) {
			controllers.ResponseWithErr(ctx, code.ModelErr, "invalid model", err.Error(), gin.H{"models": models.LLMOptions})
			return
		}
		controllers.ResponseWithErr(ctx, code.SessionErr, "failed to select model", err.Error(), nil)
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, gin.H{"selected_llm": sess.SelectedLLM})
}

func (c *ChatController) Messages(ctx *gin.Context) {
	msgs, err := c.conversation.Messages(ctx.Request.Context(), controllers.SessionID(ctx))
	if err != nil {
		controllers.ResponseWithErr(ctx, code.SessionErr, "failed to load messages", err.Error(), nil)
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, gin.H{"messages": msgs})
}

// SendMessage 远端失败时仍返回成功，错误文案作为 bot 消息出现在日志里
func (c *ChatController) SendMessage(ctx *gin.Context) {
	var req models.SendMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controllers.BadRequest(ctx, err)
		return
	}
	sessionID := controllers.SessionID(ctx)
	reply, err := c.conversation.SendMessage(ctx.Request.Context(), sessionID, req.Message, req.Model)
	if err != nil {
		if errors.Is(err, services.ErrEmptyMessage) {
			controllers.ResponseWithErr(ctx, code.ParamErr, code.MsgParamErr, err.Error(), nil)
			return
		}
		log.Errorf("send message: session=%s: %v", sessionID, err)
		controllers.ResponseWithErr(ctx, code.SessionErr, code.MsgChatErr, err.Error(), nil)
		return
	}
	msgs, err := c.conversation.Messages(ctx.Request.Context(), sessionID)
	if err != nil {
		controllers.ResponseWithErr(ctx, code.SessionErr, "failed to load messages", err.Error(), nil)
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, models.SendMessageResponse{
		Reply:    reply,
		Messages: msgs,
		SentAt:   time.Now(),
	})
}

// Upload 对话框附件上传，表单字段 file
func (c *ChatController) Upload(ctx *gin.Context) {
	file, closeFn, err := formFile(ctx)
	if err != nil {
		controllers.ResponseWithErr(ctx, code.NoFileErr, "no file chosen", err.Error(), nil)
		return
	}
	defer closeFn()

	sessionID := controllers.SessionID(ctx)
	result, err := c.files.UploadChatFile(ctx.Request.Context(), sessionID, file)
	msgs, _ := c.conversation.Messages(ctx.Request.Context(), sessionID)
	if err != nil {
		controllers.ResponseWithErr(ctx, code.RemoteErr, code.MsgUploadErr, err.Error(), gin.H{"messages": msgs})
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, gin.H{
		"upload":   result,
		"messages": msgs,
	})
}
