package config

var serverConf Server

type Server struct {
	Addr string `mapstructure:"addr"`
	// Store 会话存储: memory | redis
	Store string `mapstructure:"store"`
	// AllowOrigin 为空时不启用跨域
	AllowOrigin string `mapstructure:"allow_origin"`
}

func GetServerConf() Server {
	return serverConf
}
