package services

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/repositories"
	"llm-dashboard/internal/pkg/code"
	"llm-dashboard/pkg/util"
)

type Uploader interface {
	UploadFile(ctx context.Context, file *models.UploadFile, newFileName string) error
}

type FileTransferService struct {
	uploader Uploader
	sessions repositories.SessionRepository
	now      func() time.Time
}

func NewFileTransferService(uploader Uploader, sessions repositories.SessionRepository) *FileTransferService {
	return &FileTransferService{uploader: uploader, sessions: sessions, now: time.Now}
}

// UploadChatFile 对话框附件：总是带生成的重命名，结果写入消息日志
func (s *FileTransferService) UploadChatFile(ctx context.Context, sessionID string, file *models.UploadFile) (models.UploadResult, error) {
	if file == nil || file.Reader == nil {
		return models.UploadResult{}, ErrNoFileChosen
	}
	newFileName := util.UploadName(file.Name, s.now())
	uploadErr := s.uploader.UploadFile(ctx, file, newFileName)

	_, err := s.sessions.Update(context.WithoutCancel(ctx), sessionID, func(sess *models.Session) error {
		if uploadErr != nil {
			sess.Append(models.SenderBot, code.MsgUploadErr)
			return nil
		}
		sess.Append(models.SenderUser, "Uploaded file: "+newFileName)
		return nil
	})
	if err != nil {
		return models.UploadResult{}, fmt.Errorf("record upload: %w", err)
	}
	if uploadErr != nil {
		log.Errorf("Error uploading file: session=%s file=%s: %v", sessionID, file.Name, uploadErr)
		return models.UploadResult{}, uploadErr
	}
	return models.UploadResult{FileName: file.Name, NewFileName: newFileName}, nil
}

// UploadTrainingFile 训练数据：不重命名，成功只记日志；失败会标记到会话，阻止后续开始训练
func (s *FileTransferService) UploadTrainingFile(ctx context.Context, sessionID string, file *models.UploadFile) (*models.TrainingFile, error) {
	if file == nil || file.Reader == nil {
		return nil, ErrNoFileChosen
	}
	uploadErr := s.uploader.UploadFile(ctx, file, "")
	if uploadErr != nil {
		log.Errorf("Error uploading file: session=%s file=%s: %v", sessionID, file.Name, uploadErr)
	} else {
		log.Infof("Training file uploaded successfully: %s", file.Name)
	}

	tf := &models.TrainingFile{Name: file.Name, Uploaded: uploadErr == nil}
	if uploadErr != nil {
		tf.UploadError = uploadErr.Error()
	}
	_, err := s.sessions.Update(context.WithoutCancel(ctx), sessionID, func(sess *models.Session) error {
		sess.TrainingFile = tf
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("record training file: %w", err)
	}
	return tf, uploadErr
}
