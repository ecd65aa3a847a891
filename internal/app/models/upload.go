package models

import (
	"io"
)

// UploadFile 本地文件句柄，仅在一次请求内有效，不落盘
type UploadFile struct {
	Name        string
	ContentType string
	Size        int64
	Reader      io.Reader
}

type UploadResult struct {
	FileName string `json:"file_name"`
	// NewFileName 生成的重命名，训练文件上传时为空
	NewFileName string `json:"new_file_name,omitempty"`
}

// TrainingFile 微调训练文件状态
type TrainingFile struct {
	Name        string `json:"name"`
	Uploaded    bool   `json:"uploaded"`
	UploadError string `json:"upload_error,omitempty"`
}

// RetrieveReply 远端 retrieve 响应体
type RetrieveReply struct {
	URL string `json:"url"`
}

type RetrieveResponse struct {
	FolderTitle string `json:"folder_title"`
	FileTitle   string `json:"file_title"`
	URL         string `json:"url"`
}
