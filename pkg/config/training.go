package config

import "time"

var trainingConf Training

// Training 微调进度模拟参数
type Training struct {
	Tick   time.Duration `mapstructure:"tick"`
	MaxAge time.Duration `mapstructure:"max_age"`
}

func GetTrainingConf() Training {
	return trainingConf
}
