package config

import (
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const DefaultBaseURL = "https://chrome-24hourgpt-5bb1bcb92d7e.herokuapp.com"

var runMode string

type settings struct {
	RunMode string `mapstructure:"run_mode"`
	Log     struct {
		Level string `mapstructure:"level"`
		JSON  bool   `mapstructure:"json"`
	} `mapstructure:"log"`
	Server   Server   `mapstructure:"server"`
	Remote   Remote   `mapstructure:"remote"`
	Redis    Redis    `mapstructure:"redis"`
	Training Training `mapstructure:"training"`
}

func GetRunMode() string {
	return runMode
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("run_mode", "release")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.json", false)

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.store", "memory")

	v.SetDefault("remote.base_url", DefaultBaseURL)
	v.SetDefault("remote.timeout", 60*time.Second)
	v.SetDefault("remote.embeddings_path", "/embeddings/generate")
	v.SetDefault("remote.fine_tuning_path", "/finetune/start")

	v.SetDefault("redis.addr", "127.0.0.1:6379")
	v.SetDefault("redis.ttl", 24*time.Hour)

	v.SetDefault("training.tick", time.Second)
	v.SetDefault("training.max_age", time.Hour)
}

// Init 读取配置文件，path 为空时只使用默认值和环境变量
func Init(path string) error {
	v := viper.New()
	setDefaults(v)

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// 与前端保持一致的环境变量名
	if err := v.BindEnv("remote.base_url", "API_BASE_URL"); err != nil {
		return err
	}

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("read config %s: %w", path, err)
		}
	}

	// Unmarshal 基于 AllSettings，默认值、配置文件和环境变量逐项合并
	var all settings
	if err := v.Unmarshal(&all); err != nil {
		return fmt.Errorf("unmarshal config: %w", err)
	}
	runMode = all.RunMode
	serverConf = all.Server
	remoteConf = all.Remote
	redisConf = all.Redis
	trainingConf = all.Training
	remoteConf.BaseURL = strings.TrimRight(remoteConf.BaseURL, "/")

	initLog(all.Log.Level, all.Log.JSON)
	return nil
}

func initLog(level string, json bool) {
	lvl, err := log.ParseLevel(level)
	if err != nil {
		lvl = log.InfoLevel
	}
	log.SetLevel(lvl)
	if json {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
