package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"

	"llm-dashboard/internal/app/routers"
	"llm-dashboard/internal/app/services"
	"llm-dashboard/internal/pkg/storage"
	"llm-dashboard/pkg/config"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	// .env 可选，不存在时忽略
	_ = godotenv.Load()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("init config: %v", err)
	}
	if !strings.Contains(config.GetRunMode(), "dev") {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := services.Init(); err != nil {
		log.Fatalf("init services: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	services.Default.FineTuning.RunJanitor(ctx, config.GetTrainingConf().MaxAge)

	srv := &http.Server{
		Addr:    config.GetServerConf().Addr,
		Handler: routers.SetUp(),
	}
	go func() {
		log.Infof("dashboard listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	// 先结束训练任务，SSE 连接随之收到 [DONE]
	services.Default.FineTuning.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Errorf("server shutdown: %v", err)
	}
	storage.CloseRedis()
}
