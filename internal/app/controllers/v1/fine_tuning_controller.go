package v1

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"llm-dashboard/internal/app/controllers"
	"llm-dashboard/internal/app/models"
	"llm-dashboard/internal/app/services"
	"llm-dashboard/internal/pkg/code"
	"llm-dashboard/pkg/util"
)

const heartbeatInterval = 15 * time.Second

type FineTuningController struct {
	files    *services.FileTransferService
	training *services.FineTuningService
}

func NewFineTuningController(files *services.FileTransferService, training *services.FineTuningService) *FineTuningController {
	return &FineTuningController{files: files, training: training}
}

func (c *FineTuningController) Models(ctx *gin.Context) {
	controllers.Response(ctx, code.Success, code.MsgSuccess, gin.H{
		"models":   models.BaseModels,
		"defaults": models.DefaultTrainingParams(),
	})
}

// Upload 训练数据上传，不重命名
func (c *FineTuningController) Upload(ctx *gin.Context) {
	file, closeFn, err := formFile(ctx)
	if err != nil {
		controllers.ResponseWithErr(ctx, code.NoFileErr, "no file chosen", err.Error(), nil)
		return
	}
	defer closeFn()

	tf, err := c.files.UploadTrainingFile(ctx.Request.Context(), controllers.SessionID(ctx), file)
	if err != nil {
		controllers.ResponseWithErr(ctx, code.RemoteErr, code.MsgUploadErr, err.Error(), gin.H{"training_file": tf})
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, gin.H{"training_file": tf})
}

func (c *FineTuningController) Start(ctx *gin.Context) {
	var req models.StartTrainingRequest
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&req); err != nil {
			controllers.BadRequest(ctx, err)
			return
		}
	}
	task, err := c.training.StartTraining(ctx.Request.Context(), controllers.SessionID(ctx), req.Params())
	switch {
	case err == nil:
		controllers.Response(ctx, code.Success, code.MsgSuccess, task)
	case errors.Is(err, services.ErrNoTrainingFile):
		controllers.ResponseWithErr(ctx, code.NoFileErr, code.MsgNoFile, err.Error(), gin.H{"alert": code.MsgNoFile})
	case errors.Is(err, services.ErrTrainingFileNotUploaded),
		errors.Is(err, services.ErrTrainingInProgress):
		controllers.ResponseWithErr(ctx, code.TrainingErr, code.MsgTrainingErr, err.Error(), nil)
	case errors.Is(err, services.ErrInvalidTrainingParams):
		controllers.ResponseWithErr(ctx, code.ParamErr, code.MsgParamErr, err.Error(), nil)
	default:
		controllers.ResponseWithErr(ctx, code.RemoteErr, code.MsgTrainingErr, err.Error(), task)
	}
}

// ownTask 其他会话的任务按不存在处理
func (c *FineTuningController) ownTask(ctx *gin.Context) (models.TrainingTask, bool) {
	task, err := c.training.TrainingStatus(ctx.Param("id"))
	if err != nil || task.SessionID != controllers.SessionID(ctx) {
		controllers.ResponseWithErr(ctx, code.NotFoundErr, "task not found", services.ErrTaskNotFound.Error(), nil)
		return models.TrainingTask{}, false
	}
	return task, true
}

func (c *FineTuningController) Status(ctx *gin.Context) {
	task, ok := c.ownTask(ctx)
	if !ok {
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, task)
}

func (c *FineTuningController) Cancel(ctx *gin.Context) {
	task, ok := c.ownTask(ctx)
	if !ok {
		return
	}
	task, err := c.training.CancelTraining(task.ID)
	if err != nil {
		controllers.ResponseWithErr(ctx, code.NotFoundErr, "task not found", err.Error(), nil)
		return
	}
	controllers.Response(ctx, code.Success, code.MsgSuccess, task)
}

// Stream 以 SSE 推送进度和日志，任务结束后输出 [DONE]
func (c *FineTuningController) Stream(ctx *gin.Context) {
	task, ok := c.ownTask(ctx)
	if !ok {
		return
	}
	events, unsubscribe, err := c.training.Subscribe(task.ID)
	if err != nil {
		controllers.ResponseWithErr(ctx, code.NotFoundErr, "task not found", err.Error(), nil)
		return
	}
	defer unsubscribe()
	// 订阅之后再取快照，避免中间的事件丢失
	if snap, err := c.training.TrainingStatus(task.ID); err == nil {
		task = snap
	}

	ctx.Header("Content-Type", "text/event-stream; charset=utf-8")
	ctx.Header("Cache-Control", "no-cache")
	ctx.Header("Connection", "keep-alive")

	w := ctx.Writer
	// 先补发已有日志，客户端中途连接也能看到完整曲线
	for _, l := range task.Logs {
		if err = util.WriteTrainingLog(w, task.ID, l); err != nil {
			return
		}
	}
	if err = util.WriteProgress(w, task.ID, task.Status, task.Progress); err != nil {
		return
	}

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()
	for {
		select {
		case <-ctx.Request.Context().Done():
			log.Debugf("[Task %s] stream client gone", task.ID)
			return
		case <-heartbeat.C:
			if err = util.WriteHeartbeat(w); err != nil {
				return
			}
		case ev, ok := <-events:
			if !ok {
				util.WriteDone(w)
				return
			}
			if ev.Log != nil {
				err = util.WriteTrainingLog(w, ev.TaskID, *ev.Log)
			} else {
				err = util.WriteProgress(w, ev.TaskID, ev.Status, ev.Progress)
			}
			if err != nil {
				log.Warnf("[Task %s] write event: %v", ev.TaskID, err)
				return
			}
		}
	}
}
