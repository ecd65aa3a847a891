package v1

import (
	"errors"

	"github.com/gin-gonic/gin"

	"llm-dashboard/internal/app/controllers"
	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/services"
	"llm-dashboard/internal/pkg/code"
)

type FileController struct {
	retrieval *services.RetrievalService
}

func NewFileController(retrieval *services.RetrievalService) *FileController {
	return &FileController{retrieval: retrieval}
}

// Retrieve 标题原样交给服务层，由远端绑定负责编码
func (c *FileController) Retrieve(ctx *gin.Context) {
	folderTitle := ctx.Param("folderTitle")
	fileTitle := ctx.Param("fileTitle")
	url, err := c.retrieval.Retrieve(ctx.Request.Context(), controllers.SessionID(ctx), folderTitle, fileTitle)
	if errors.Is(err, services.ErrInvalidTitle) {
		controllers.ResponseWithErr(ctx, code.ParamErr, code.MsgRetrieveErr, err.Error(), gin.H{"alert": code.MsgRetrieveErr})
		return
	}
	if err != nil {
		controllers.ResponseWithErr(ctx, code.RemoteErr, code.MsgRetrieveErr, err.Error(), gin.H{"alert": code.MsgRetrieveErr})
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, models.RetrieveResponse{
		FolderTitle: folderTitle,
		FileTitle:   fileTitle,
		URL:         url,
	})
}
