package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"llm-dashboard/internal/app/controllers"
	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/services"
	"llm-dashboard/internal/pkg/code"
)

type EmbeddingController struct {
	service *services.EmbeddingService
}

func NewEmbeddingController(service *services.EmbeddingService) *EmbeddingController {
	return &EmbeddingController{service: service}
}

func (c *EmbeddingController) Models(ctx *gin.Context) {
	controllers.Response(ctx, code.Success, code.MsgSuccess, gin.H{"models": models.EmbeddingModels})
}

func (c *EmbeddingController) Generate(ctx *gin.Context) {
	var req models.EmbeddingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		controllers.BadRequest(ctx, err)
		return
	}
	result, err := c.service.Generate(ctx.Request.Context(), controllers.SessionID(ctx), req.Text, req.Model)
	switch {
	case err == nil:
		controllers.Response(ctx, code.Success, code.MsgSuccess, gin.H{"embeddings": result})
	case errors.Is(err, services.ErrEmptyText):
		controllers.ResponseWithErr(ctx, code.ParamErr, code.MsgParamErr, err.Error(), nil)
	case errors.Is(err, services.ErrUnknownEmbeddingModel):
		controllers.ResponseWithErr(ctx, code.ModelErr, "invalid model", err.Error(), gin.H{"models": models.EmbeddingModels})
	default:
		controllers.ResponseWithErr(ctx, code.RemoteErr, code.MsgEmbeddingErr, err.Error(), nil)
	}
}
