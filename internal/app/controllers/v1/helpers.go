package v1

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/services"
)

const uploadFormField = "file"

// formFile 取出 multipart 中的文件，调用方负责 close
func formFile(ctx *gin.Context) (*models.UploadFile, func(), error) {
	fh, err := ctx.FormFile(uploadFormField)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", services.ErrNoFileChosen, err)
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("open uploaded file: %w", err)
	}
	return &models.UploadFile{
		Name:        fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Reader:      f,
	}, func() { _ = f.Close() }, nil
}
