package config

import "time"

var remoteConf Remote

// Remote 远端 LLM 服务
type Remote struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	EmbeddingsPath string        `mapstructure:"embeddings_path"`
	FineTuningPath string        `mapstructure:"fine_tuning_path"`
}

func GetRemoteConf() Remote {
	return remoteConf
}
