package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"llm-dashboard/pkg/config"
)

var RDB *redis.Client

// InitRedis 仅在 server.store 为 redis 时调用
func InitRedis() error {
	if RDB != nil {
		return nil
	}
	conf := config.GetRedisConf()
	client := redis.NewClient(&redis.Options{
		Addr:     conf.Addr,
		Password: conf.Password,
		DB:       conf.DB,
	})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		log.Errorf("redis connect fail:%s", err.Error())
		return fmt.Errorf("failed to connect redis %s: %w", conf.Addr, err)
	}
	RDB = client
	log.Info("redis connection success")
	return nil
}

func CloseRedis() {
	if RDB == nil {
		return
	}
	if err := RDB.Close(); err != nil {
		log.Warnf("close redis: %v", err)
	}
	RDB = nil
}
