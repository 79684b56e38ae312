package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/logger"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/session"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/document"
)

// env 一次命令执行的运行环境：配置、日志、文档存储与会话
type env struct {
	log   *zap.Logger
	store *document.JSONStore
	sess  *session.Session
}

// setupEnv 按标志装配运行环境
func setupEnv() (*env, error) {
	if inputPath == "" {
		return nil, fmt.Errorf("--input is required")
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	log := logger.NewLogger(debugMode)

	store, err := document.NewJSONStore(inputPath, log)
	if err != nil {
		return nil, err
	}

	sess := session.New(cfg, store, document.NewStaticFontLoader(log), log)
	log.Debug("session created", zap.String("id", sess.ID))

	return &env{log: log, store: store, sess: sess}, nil
}

func (e *env) close() {
	_ = e.log.Sync()
}
