package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"llm-dashboard/internal/app/controllers"
	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/repositories"
	"llm-dashboard/internal/pkg/code"
)

type SessionController struct {
	sessions repositories.SessionRepository
}

func NewSessionController(sessions repositories.SessionRepository) *SessionController {
	return &SessionController{sessions: sessions}
}

func (c *SessionController) Get(ctx *gin.Context) {
	id := controllers.SessionID(ctx)
	sess, err := c.sessions.Get(ctx.Request.Context(), id)
	if errors.Is(err, repositories.ErrSessionNotFound) {
		sess, err = models.NewSession(id), nil
	}
	if err != nil {
		controllers.ResponseWithErr(ctx, code.SessionErr, "failed to load session", err.Error(), nil)
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, sess)
}

// Reset 相当于刷新页面：丢弃消息日志和所有选择
func (c *SessionController) Reset(ctx *gin.Context) {
	if err := c.sessions.Delete(ctx.Request.Context(), controllers.SessionID(ctx)); err != nil {
		controllers.ResponseWithErr(ctx, code.SessionErr, "failed to reset session", err.Error(), nil)
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, nil)
}
