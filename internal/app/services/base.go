package services

import (
	"fmt"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"

	"llm-dashboard/internal/app/repositories"
	"llm-dashboard/internal/pkg/storage"
	"llm-dashboard/internal/pkg/transport"
	"llm-dashboard/pkg/config"
)

var initOnce sync.Once

type Services struct {
	Sessions     repositories.SessionRepository
	Conversation *ConversationService
	FileTransfer *FileTransferService
	Retrieval    *RetrievalService
	Embedding    *EmbeddingService
	FineTuning   *FineTuningService
}

var Default *Services

func New(remote *RemoteAPI, sessions repositories.SessionRepository) *Services {
	return &Services{
		Sessions:     sessions,
		Conversation: NewConversationService(remote, sessions),
		FileTransfer: NewFileTransferService(remote, sessions),
		Retrieval:    NewRetrievalService(remote, sessions),
		Embedding:    NewEmbeddingService(remote, sessions),
		FineTuning:   NewFineTuningService(remote, sessions, config.GetTrainingConf().Tick),
	}
}

// Init 按配置构建全局服务，只执行一次
func Init() error {
	var err error
	initOnce.Do(func() {
		remoteConf := config.GetRemoteConf()
		client := transport.New(transport.Options{
			BaseURL: remoteConf.BaseURL,
			Timeout: remoteConf.Timeout,
			Debug:   strings.Contains(config.GetRunMode(), "dev"),
		})
		remote := NewRemoteAPI(client, RemoteOptions{
			EmbeddingsPath: remoteConf.EmbeddingsPath,
			FineTuningPath: remoteConf.FineTuningPath,
		})

		var sessions repositories.SessionRepository
		switch store := config.GetServerConf().Store; store {
		case "", "memory":
			sessions = repositories.NewMemorySessionRepository()
		case "redis":
			if err = storage.InitRedis(); err != nil {
				return
			}
			sessions = repositories.NewRedisSessionRepository(storage.RDB, config.GetRedisConf().TTL)
		default:
			err = fmt.Errorf("unknown session store %q", store)
			return
		}
		log.Infof("remote base url: %s, session store: %s", client.BaseURL(), config.GetServerConf().Store)
		Default = New(remote, sessions)
	})
	return err
}
