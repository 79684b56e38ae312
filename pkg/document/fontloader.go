package document

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// StaticFontLoader 针对离线文档导出的 FontLoader：所有字体视为已
// 安装，但仍然尊重节点上的缺失字体标记。宿主内运行时会换成真正的
// 异步加载实现。
type StaticFontLoader struct {
	logger *zap.Logger
}

func NewStaticFontLoader(logger *zap.Logger) *StaticFontLoader {
	return &StaticFontLoader{logger: logger}
}

// EnsureLoaded 枚举节点用到的全部字体并确认可用。
// 混合样式的节点可能使用多个字体，必须全部检查。
func (l *StaticFontLoader) EnsureLoaded(ctx context.Context, block *TextBlock) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if block.HasMissingFont {
		return fmt.Errorf("block %s: %w", block.ID, ErrMissingFont)
	}

	for _, family := range block.FontFamilies {
		l.logger.Debug("font available",
			zap.String("block", block.ID),
			zap.String("family", family))
	}
	return nil
}
