package routers

import (
	"sync"

	"github.com/gin-gonic/gin"

	"llm-dashboard/internal/app/controllers"
	v1 "llm-dashboard/internal/app/controllers/v1"
	"llm-dashboard/internal/app/services"
	"llm-dashboard/pkg/config"
)

var apiOnce sync.Once
var g *gin.Engine

// SetUp 基于全局服务构建路由，services.Init 需先执行
func SetUp() *gin.Engine {
	apiOnce.Do(func() {
		g = NewRouter(services.Default, config.GetServerConf().AllowOrigin)
	})

	return g
}

// NewRouter allowOrigin 为空时不启用跨域中间件
func NewRouter(svc *services.Services, allowOrigin string) *gin.Engine {
	r := gin.Default()
	// 按原始路径匹配，标题里的 %2F 不会被拆成多段
	r.UseRawPath = true
	r.UnescapePathValues = true

	// 挂在 engine 上，未注册 OPTIONS 路由的预检请求也能经过
	if allowOrigin != "" {
		r.Use(controllers.CorsMiddleware(allowOrigin))
	}

	mainGroup := r.Group("/dashboard")
	mainGroup.GET("/health", controllers.Health)

	api := mainGroup.Group("/api", controllers.SessionMiddleware())

	session := v1.NewSessionController(svc.Sessions)
	api.GET("/session", session.Get)
	api.DELETE("/session", session.Reset)

	chat := v1.NewChatController(svc.Conversation, svc.FileTransfer)
	chatGroup := api.Group("/chat")
	{
		chatGroup.GET("/models", chat.Models)
		chatGroup.PUT("/model", chat.SelectModel)
		chatGroup.GET("/messages", chat.Messages)
		chatGroup.POST("/messages", chat.SendMessage)
		chatGroup.POST("/upload", chat.Upload)
	}

	files := v1.NewFileController(svc.Retrieval)
	api.GET("/files/:folderTitle/:fileTitle", files.Retrieve)

	embedding := v1.NewEmbeddingController(svc.Embedding)
	api.GET("/embeddings/models", embedding.Models)
	api.POST("/embeddings", embedding.Generate)

	fineTuning := v1.NewFineTuningController(svc.FileTransfer, svc.FineTuning)
	fineTuningGroup := api.Group("/finetune")
	{
		fineTuningGroup.GET("/models", fineTuning.Models)
		fineTuningGroup.POST("/upload", fineTuning.Upload)
		fineTuningGroup.POST("/start", fineTuning.Start)
		fineTuningGroup.GET("/:id", fineTuning.Status)
		fineTuningGroup.GET("/:id/stream", fineTuning.Stream)
		fineTuningGroup.DELETE("/:id", fineTuning.Cancel)
	}

	return r
}
