package session

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/config"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/detect"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/document"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/rejoin"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/textwidth"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/wrap"
)

// Session 一次控制面激活期间的全部状态：配置、协作方和由同一个
// 宽度缓存串起来的核心组件。显式传递，不放包级全局。
type Session struct {
	ID     string
	Config *config.Processing

	Store  document.NodeStore
	Fonts  document.FontLoader
	Logger *zap.Logger

	Estimator   *textwidth.Estimator
	Simulator   *wrap.Simulator
	Detector    *detect.Detector
	Joiner      *rejoin.Joiner
	Synthesizer *rejoin.Synthesizer
}

// New 组装一次会话。宽度估算器与断行模式缓存在会话内共享，
// 跨会话不共享，因此无需加锁。
func New(cfg *config.Processing, store document.NodeStore, fonts document.FontLoader, logger *zap.Logger) *Session {
	estimator := textwidth.NewEstimator(cfg.FontWidthMultiplier)
	patterns := wrap.NewPatternCache()
	simulator := wrap.NewSimulator(estimator, patterns)
	joiner := rejoin.NewJoiner(estimator)

	return &Session{
		ID:          uuid.NewString(),
		Config:      cfg,
		Store:       store,
		Fonts:       fonts,
		Logger:      logger,
		Estimator:   estimator,
		Simulator:   simulator,
		Detector:    detect.NewDetector(estimator, simulator),
		Joiner:      joiner,
		Synthesizer: rejoin.NewSynthesizer(joiner, cfg),
	}
}
