package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"

	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/repositories"
	"llm-dashboard/pkg/util"
)

var (
	ErrNoTrainingFile          = errors.New("no training file uploaded")
	ErrTrainingFileNotUploaded = errors.New("training file upload failed")
	ErrTrainingInProgress      = errors.New("training already in progress")
	ErrInvalidTrainingParams   = errors.New("invalid training parameters")
	ErrTaskNotFound            = errors.New("training task not found")
)

const (
	progressStep    = 10
	progressDone    = 100
	logsPerEpoch    = 10
	subscriberQueue = 16
)

type TrainingStarter interface {
	StartTraining(ctx context.Context, params models.TrainingParams) (json.RawMessage, error)
}

// TrainingEvent 推送给订阅者的进度或日志，Log 为空表示进度变化
type TrainingEvent struct {
	TaskID   string
	Status   models.TaskStatus
	Progress int
	Log      *models.TrainingLog
}

type trainingTask struct {
	mu          sync.RWMutex
	info        models.TrainingTask
	cancel      chan struct{}
	cancelOnce  sync.Once
	subscribers map[chan TrainingEvent]struct{}
}

func (t *trainingTask) snapshot() models.TrainingTask {
	t.mu.RLock()
	defer t.mu.RUnlock()
	cp := t.info
	cp.Logs = make([]models.TrainingLog, len(t.info.Logs))
	copy(cp.Logs, t.info.Logs)
	return cp
}

// publish 通道满时丢弃，不阻塞定时器；调用方持有写锁
func (t *trainingTask) publish(ev TrainingEvent) {
	for ch := range t.subscribers {
		select {
		case ch <- ev:
		default:
		}
	}
}

// finish 调用方持有写锁；已结束的任务不会被再次结束
func (t *trainingTask) finish(status models.TaskStatus, errMsg string) bool {
	if t.info.Status.Finished() {
		return false
	}
	now := time.Now()
	t.info.Status = status
	t.info.Error = errMsg
	t.info.EndedAt = &now
	t.publish(TrainingEvent{TaskID: t.info.ID, Status: status, Progress: t.info.Progress})
	for ch := range t.subscribers {
		close(ch)
		delete(t.subscribers, ch)
	}
	return true
}

// FineTuningService 微调任务管理。
//
// 远端只负责接收训练参数；本地进度条由定时器和随机数驱动，仅作占位动画，
// 不代表远端真实的训练状态。
type FineTuningService struct {
	remote   TrainingStarter
	sessions repositories.SessionRepository
	tick     time.Duration
	random   func() float64

	tasks sync.Map // taskID -> *trainingTask
	wg    conc.WaitGroup
}

func NewFineTuningService(remote TrainingStarter, sessions repositories.SessionRepository, tick time.Duration) *FineTuningService {
	if tick <= 0 {
		tick = time.Second
	}
	return &FineTuningService{
		remote:   remote,
		sessions: sessions,
		tick:     tick,
		random:   rand.Float64,
	}
}

func (s *FineTuningService) StartTraining(ctx context.Context, sessionID string, params models.TrainingParams) (models.TrainingTask, error) {
	taskID := uuid.New().String()
	var task *trainingTask

	_, err := s.sessions.Update(ctx, sessionID, func(sess *models.Session) error {
		if sess.TrainingFile == nil || sess.TrainingFile.Name == "" {
			return ErrNoTrainingFile
		}
		if !sess.TrainingFile.Uploaded {
			return fmt.Errorf("%w: %s", ErrTrainingFileNotUploaded, sess.TrainingFile.UploadError)
		}
		if prev, ok := s.load(sess.TrainingTaskID); ok && !prev.snapshot().Status.Finished() {
			return ErrTrainingInProgress
		}
		params.TrainingFile = sess.TrainingFile.Name
		if err := params.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidTrainingParams, err)
		}
		task = &trainingTask{
			info: models.TrainingTask{
				ID:        taskID,
				SessionID: sessionID,
				Params:    params,
				Status:    models.TaskStatusPending,
				Logs:      make([]models.TrainingLog, 0),
				Simulated: true,
				StartedAt: time.Now(),
			},
			cancel:      make(chan struct{}),
			subscribers: make(map[chan TrainingEvent]struct{}),
		}
		s.tasks.Store(taskID, task)
		sess.TrainingTaskID = taskID
		return nil
	})
	if err != nil {
		if task != nil {
			s.fail(task, err)
		}
		if errors.Is(err, ErrNoTrainingFile) {
			log.Info("Please upload a training file first")
		}
		return models.TrainingTask{}, err
	}

	log.Debugf("Starting fine-tuning: task=%s params=%s", taskID, util.GetJson(params))
	resp, err := s.remote.StartTraining(ctx, params)
	if err != nil {
		log.Errorf("Error starting fine-tuning: session=%s: %v", sessionID, err)
		s.fail(task, err)
		return task.snapshot(), err
	}
	log.Infof("Fine-tuning started: task=%s response=%s", taskID, string(resp))

	task.mu.Lock()
	if task.info.Status == models.TaskStatusPending {
		task.info.Status = models.TaskStatusRunning
		task.publish(TrainingEvent{TaskID: taskID, Status: models.TaskStatusRunning})
	}
	task.mu.Unlock()

	s.wg.Go(func() { s.simulate(task) })
	return task.snapshot(), nil
}

func (s *FineTuningService) fail(task *trainingTask, err error) {
	task.mu.Lock()
	defer task.mu.Unlock()
	task.finish(models.TaskStatusFailed, err.Error())
}

func (s *FineTuningService) simulate(task *trainingTask) {
	ticker := time.NewTicker(s.tick)
	defer ticker.Stop()
	for {
		select {
		case <-task.cancel:
			return
		case <-ticker.C:
			if s.step(task) {
				return
			}
		}
	}
}

// step 每个 tick 追加一条日志；进度到 100 时结束，否则 +10
func (s *FineTuningService) step(task *trainingTask) bool {
	task.mu.Lock()
	defer task.mu.Unlock()
	if task.info.Status.Finished() {
		return true
	}

	entry := models.TrainingLog{
		Epoch:    len(task.info.Logs)/logsPerEpoch + 1,
		Loss:     s.random() * 0.5,
		Accuracy: 0.5 + s.random()*0.5,
	}
	task.info.Logs = append(task.info.Logs, entry)
	task.publish(TrainingEvent{TaskID: task.info.ID, Status: task.info.Status, Progress: task.info.Progress, Log: &entry})

	if task.info.Progress >= progressDone {
		task.info.Progress = progressDone
		task.finish(models.TaskStatusCompleted, "")
		log.Infof("[Task %s] simulated training finished", task.info.ID)
		return true
	}
	task.info.Progress += progressStep
	task.publish(TrainingEvent{TaskID: task.info.ID, Status: task.info.Status, Progress: task.info.Progress})
	return false
}

func (s *FineTuningService) load(taskID string) (*trainingTask, bool) {
	if taskID == "" {
		return nil, false
	}
	v, ok := s.tasks.Load(taskID)
	if !ok {
		return nil, false
	}
	return v.(*trainingTask), true
}

func (s *FineTuningService) TrainingStatus(taskID string) (models.TrainingTask, error) {
	task, ok := s.load(taskID)
	if !ok {
		return models.TrainingTask{}, ErrTaskNotFound
	}
	return task.snapshot(), nil
}

// Subscribe 返回事件通道，任务结束后通道关闭。已结束的任务只收到一条最终状态。
func (s *FineTuningService) Subscribe(taskID string) (<-chan TrainingEvent, func(), error) {
	task, ok := s.load(taskID)
	if !ok {
		return nil, nil, ErrTaskNotFound
	}
	ch := make(chan TrainingEvent, subscriberQueue)

	task.mu.Lock()
	defer task.mu.Unlock()
	if task.info.Status.Finished() {
		ch <- TrainingEvent{TaskID: taskID, Status: task.info.Status, Progress: task.info.Progress}
		close(ch)
		return ch, func() {}, nil
	}
	task.subscribers[ch] = struct{}{}
	unsubscribe := func() {
		task.mu.Lock()
		defer task.mu.Unlock()
		if _, ok := task.subscribers[ch]; ok {
			delete(task.subscribers, ch)
			close(ch)
		}
	}
	return ch, unsubscribe, nil
}

func (s *FineTuningService) CancelTraining(taskID string) (models.TrainingTask, error) {
	task, ok := s.load(taskID)
	if !ok {
		return models.TrainingTask{}, ErrTaskNotFound
	}
	s.cancel(task)
	return task.snapshot(), nil
}

func (s *FineTuningService) cancel(task *trainingTask) {
	task.mu.Lock()
	cancelled := task.finish(models.TaskStatusCancelled, "")
	task.mu.Unlock()
	if cancelled {
		log.Infof("[Task %s] cancelled", task.info.ID)
	}
	task.cancelOnce.Do(func() { close(task.cancel) })
}

// CleanupCompletedTasks 删除结束超过 maxAge 的任务
func (s *FineTuningService) CleanupCompletedTasks(maxAge time.Duration) int {
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	s.tasks.Range(func(key, value interface{}) bool {
		info := value.(*trainingTask).snapshot()
		if info.EndedAt != nil && info.EndedAt.Before(cutoff) {
			s.tasks.Delete(key)
			removed++
		}
		return true
	})
	return removed
}

// RunJanitor 定期清理已结束任务，ctx 结束后返回
func (s *FineTuningService) RunJanitor(ctx context.Context, maxAge time.Duration) {
	if maxAge <= 0 {
		return
	}
	s.wg.Go(func() {
		ticker := time.NewTicker(maxAge)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := s.CleanupCompletedTasks(maxAge); n > 0 {
					log.Infof("cleaned up %d finished training tasks", n)
				}
			}
		}
	})
}

// Close 取消所有任务并等待定时器退出；janitor 需先取消其 ctx
func (s *FineTuningService) Close() {
	s.tasks.Range(func(_, value interface{}) bool {
		s.cancel(value.(*trainingTask))
		return true
	})
	s.wg.Wait()
}
