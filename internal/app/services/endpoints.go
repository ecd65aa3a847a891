package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/imroc/req/v3"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/pkg/transport"
)

var (
	ErrUnknownLLM   = errors.New("invalid LLM selected")
	ErrNoFileChosen = errors.New("no file chosen")
	ErrInvalidTitle = errors.New("invalid folder or file title")
)

const (
	uploadPath   = "/upload/upload"
	retrievePath = "/retrieve/retrieve/{folderTitle}/{fileTitle}"

	uploadFileField = "image"
	uploadNameField = "newFileName"
)

type RemoteOptions struct {
	EmbeddingsPath string
	FineTuningPath string
}

// RemoteAPI 远端接口绑定，每个方法只发一次请求
type RemoteAPI struct {
	client *transport.Client
	opts   RemoteOptions
}

func NewRemoteAPI(client *transport.Client, opts RemoteOptions) *RemoteAPI {
	return &RemoteAPI{client: client, opts: opts}
}

// Chat 按模型查表得到路径，未知模型不发请求
func (a *RemoteAPI) Chat(ctx context.Context, llm models.LLM, userMessage string) (string, error) {
	path, ok := llm.ChatPath()
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownLLM, llm)
	}
	var reply models.ChatReply
	if err := a.postJSON(ctx, path, &models.ChatRequest{UserMessage: userMessage}, &reply); err != nil {
		return "", fmt.Errorf("chat with %s: %w", llm, err)
	}
	return reply.Message, nil
}

// UploadFile newFileName 为空时不附带该字段
func (a *RemoteAPI) UploadFile(ctx context.Context, file *models.UploadFile, newFileName string) error {
	if file == nil || file.Reader == nil {
		return ErrNoFileChosen
	}
	r := a.client.R(ctx).SetFileUpload(req.FileUpload{
		ParamName:   uploadFileField,
		FileName:    file.Name,
		FileSize:    file.Size,
		ContentType: file.ContentType,
		GetFileContent: func() (io.ReadCloser, error) {
			return io.NopCloser(file.Reader), nil
		},
	})
	if newFileName != "" {
		r.SetFormData(map[string]string{uploadNameField: newFileName})
	}
	if err := transport.Check(r.Post(uploadPath)); err != nil {
		return fmt.Errorf("upload %s: %w", file.Name, err)
	}
	return nil
}

// GetFile 路径参数由 req 按段做百分号编码；PathEscape 不处理 "." 和 ".."，这里直接拒绝
func (a *RemoteAPI) GetFile(ctx context.Context, folderTitle, fileTitle string) (string, error) {
	for _, title := range []string{folderTitle, fileTitle} {
		if title == "" || title == "." || title == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidTitle, title)
		}
	}
	resp, err := a.client.R(ctx).
		SetPathParams(map[string]string{
			"folderTitle": folderTitle,
			"fileTitle":   fileTitle,
		}).
		Get(retrievePath)
	if err = transport.Check(resp, err); err != nil {
		return "", fmt.Errorf("retrieve %s/%s: %w", folderTitle, fileTitle, err)
	}
	var reply models.RetrieveReply
	if err = json.Unmarshal(resp.Bytes(), &reply); err != nil {
		return "", fmt.Errorf("decode retrieve response: %w", err)
	}
	return reply.URL, nil
}

func (a *RemoteAPI) GenerateEmbeddings(ctx context.Context, text string, model models.EmbeddingModel) ([][]float64, error) {
	var reply models.EmbeddingReply
	body := map[string]string{"text": text, "model": string(model)}
	if err := a.postJSON(ctx, a.opts.EmbeddingsPath, body, &reply); err != nil {
		return nil, fmt.Errorf("generate embeddings: %w", err)
	}
	return reply.Embeddings, nil
}

// StartTraining 远端响应只用于日志
func (a *RemoteAPI) StartTraining(ctx context.Context, params models.TrainingParams) (json.RawMessage, error) {
	resp, err := a.client.R(ctx).SetBody(&params).Post(a.opts.FineTuningPath)
	if err = transport.Check(resp, err); err != nil {
		return nil, fmt.Errorf("start fine-tuning: %w", err)
	}
	return json.RawMessage(resp.Bytes()), nil
}

func (a *RemoteAPI) postJSON(ctx context.Context, path string, body, out interface{}) error {
	resp, err := a.client.R(ctx).SetBody(body).Post(path)
	if err = transport.Check(resp, err); err != nil {
		return err
	}
	if err = json.Unmarshal(resp.Bytes(), out); err != nil {
		return fmt.Errorf("decode response from %s: %w", path, err)
	}
	return nil
}
