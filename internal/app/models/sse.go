package models

// ProgressEvent 训练进度
type ProgressEvent struct {
	TaskID   string     `json:"taskId"`
	Status   TaskStatus `json:"status"`
	Progress int        `json:"progress"`
}

// TrainingLogEvent 新增的一条训练日志
type TrainingLogEvent struct {
	TaskID string      `json:"taskId"`
	Log    TrainingLog `json:"log"`
}

// HeartbeatEvent 无字段
type HeartbeatEvent struct{}
