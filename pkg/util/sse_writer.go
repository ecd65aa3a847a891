package util

import (
	"encoding/json"
	"fmt"
	"net/http"

	"llm-dashboard/internal/app/models"
)

// WriteSSE 输出一条扁平化事件：{"type": eventType, ...data 字段}
func WriteSSE(w http.ResponseWriter, eventType string, data interface{}) error {
	var event map[string]interface{}

	switch v := data.(type) {
	case models.ProgressEvent:
		event = map[string]interface{}{
			"type":     eventType,
			"taskId":   v.TaskID,
			"status":   v.Status,
			"progress": v.Progress,
		}
	case models.TrainingLogEvent:
		event = map[string]interface{}{
			"type":     eventType,
			"taskId":   v.TaskID,
			"epoch":    v.Log.Epoch,
			"loss":     v.Log.Loss,
			"accuracy": v.Log.Accuracy,
		}
	case models.HeartbeatEvent:
		event = map[string]interface{}{
			"type": eventType,
		}
	default:
		if m, ok := data.(map[string]interface{}); ok {
			m["type"] = eventType
			event = m
		} else {
			return fmt.Errorf("unsupported event data type: %T", data)
		}
	}

	bytes, err := json.Marshal(event)
	if err != nil {
		return err
	}

	if _, err = fmt.Fprintf(w, "data: %s\n\n", bytes); err != nil {
		return err
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

func WriteProgress(w http.ResponseWriter, taskID string, status models.TaskStatus, progress int) error {
	return WriteSSE(w, "progress", models.ProgressEvent{
		TaskID:   taskID,
		Status:   status,
		Progress: progress,
	})
}

func WriteTrainingLog(w http.ResponseWriter, taskID string, l models.TrainingLog) error {
	return WriteSSE(w, "training-log", models.TrainingLogEvent{TaskID: taskID, Log: l})
}

func WriteHeartbeat(w http.ResponseWriter) error {
	return WriteSSE(w, "heartbeat", models.HeartbeatEvent{})
}

func WriteDone(w http.ResponseWriter) {
	_, _ = fmt.Fprintf(w, "data: [DONE]\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}
