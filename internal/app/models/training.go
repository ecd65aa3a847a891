package models

import (
	"fmt"
	"math"
	"time"
)

// BaseModel 微调基座模型
type BaseModel string

const (
	BaseModelGPT2    BaseModel = "GPT-2"
	BaseModelBERT    BaseModel = "BERT"
	BaseModelRoBERTa BaseModel = "RoBERTa"
	BaseModelT5      BaseModel = "T5"
)

var BaseModels = []BaseModel{BaseModelGPT2, BaseModelBERT, BaseModelRoBERTa, BaseModelT5}

const (
	MinLearningRate = 0.00001
	MaxLearningRate = 0.1
	MinEpochs       = 1
	MaxEpochs       = 10
	MinBatchSize    = 8
	MaxBatchSize    = 128
	BatchSizeStep   = 8
)

type TrainingParams struct {
	BaseModel    BaseModel `json:"baseModel"`
	LearningRate float64   `json:"learningRate"`
	Epochs       int       `json:"epochs"`
	BatchSize    int       `json:"batchSize"`
	TrainingFile string    `json:"trainingFile"`
}

// DefaultTrainingParams 与界面滑块初始值一致
func DefaultTrainingParams() TrainingParams {
	return TrainingParams{
		BaseModel:    BaseModelGPT2,
		LearningRate: 0.0001,
		Epochs:       3,
		BatchSize:    32,
	}
}

// Validate 验证训练参数，TrainingFile 由会话填充，不在此校验
func (p *TrainingParams) Validate() error {
	valid := false
	for _, m := range BaseModels {
		if p.BaseModel == m {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("unknown base model %q", p.BaseModel)
	}
	if math.IsNaN(p.LearningRate) || p.LearningRate < MinLearningRate || p.LearningRate > MaxLearningRate {
		return fmt.Errorf("learning rate %v out of range [%v, %v]", p.LearningRate, MinLearningRate, MaxLearningRate)
	}
	if p.Epochs < MinEpochs || p.Epochs > MaxEpochs {
		return fmt.Errorf("epochs %d out of range [%d, %d]", p.Epochs, MinEpochs, MaxEpochs)
	}
	if p.BatchSize < MinBatchSize || p.BatchSize > MaxBatchSize || p.BatchSize%BatchSizeStep != 0 {
		return fmt.Errorf("batch size %d must be a multiple of %d in [%d, %d]", p.BatchSize, BatchSizeStep, MinBatchSize, MaxBatchSize)
	}
	return nil
}

// StartTrainingRequest 看板请求，未填字段取默认值
type StartTrainingRequest struct {
	BaseModel    BaseModel `json:"baseModel"`
	LearningRate float64   `json:"learningRate"`
	Epochs       int       `json:"epochs"`
	BatchSize    int       `json:"batchSize"`
}

func (r StartTrainingRequest) Params() TrainingParams {
	p := DefaultTrainingParams()
	if r.BaseModel != "" {
		p.BaseModel = r.BaseModel
	}
	if r.LearningRate != 0 {
		p.LearningRate = r.LearningRate
	}
	if r.Epochs != 0 {
		p.Epochs = r.Epochs
	}
	if r.BatchSize != 0 {
		p.BatchSize = r.BatchSize
	}
	return p
}

type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
	TaskStatusCancelled TaskStatus = "cancelled"
)

func (s TaskStatus) Finished() bool {
	return s == TaskStatusCompleted || s == TaskStatusFailed || s == TaskStatusCancelled
}

type TrainingLog struct {
	Epoch    int     `json:"epoch"`
	Loss     float64 `json:"loss"`
	Accuracy float64 `json:"accuracy"`
}

// TrainingTask 训练任务快照
//
// Progress 和 Logs 由本地定时器生成，只是占位动画，与远端真实训练状态无关。
type TrainingTask struct {
	ID        string         `json:"id"`
	SessionID string         `json:"session_id"`
	Params    TrainingParams `json:"params"`
	Status    TaskStatus     `json:"status"`
	Progress  int            `json:"progress"`
	Logs      []TrainingLog  `json:"logs"`
	Simulated bool           `json:"simulated"`
	Error     string         `json:"error,omitempty"`
	StartedAt time.Time      `json:"started_at"`
	EndedAt   *time.Time     `json:"ended_at,omitempty"`
}
