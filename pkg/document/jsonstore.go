package document

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"go.uber.org/zap"
)

// Export 文档导出文件的顶层结构
type Export struct {
	Name   string       `json:"name,omitempty"`
	Blocks []*TextBlock `json:"blocks"`
}

// JSONStore 基于 JSON 导出文件的 NodeStore 实现，供 CLI 在
// 宿主环境之外运行。变更先写入内存，Flush 时落盘。
type JSONStore struct {
	path   string
	export *Export
	index  map[string]*TextBlock
	dirty  bool
	logger *zap.Logger
}

// NewJSONStore 读取导出文件并建立 ID 索引
func NewJSONStore(path string, logger *zap.Logger) (*JSONStore, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read document export %s: %w", path, err)
	}

	var export Export
	if err := json.Unmarshal(data, &export); err != nil {
		return nil, fmt.Errorf("failed to parse document export %s: %w", path, err)
	}

	index := make(map[string]*TextBlock, len(export.Blocks))
	for _, b := range export.Blocks {
		index[b.ID] = b
	}

	logger.Debug("document export loaded",
		zap.String("path", path),
		zap.Int("blocks", len(export.Blocks)))

	return &JSONStore{
		path:   path,
		export: &export,
		index:  index,
		logger: logger,
	}, nil
}

// Blocks 按文档顺序返回全部文本块快照
func (s *JSONStore) Blocks(_ context.Context) ([]*TextBlock, error) {
	blocks := make([]*TextBlock, len(s.export.Blocks))
	copy(blocks, s.export.Blocks)
	return blocks, nil
}

// Apply 应用一个变更集。resize mode 先于内容写入——在仍受宽度
// 约束时改写内容会触发一次中间重新换行。
func (s *JSONStore) Apply(_ context.Context, id string, change *ChangeSet) error {
	block, ok := s.index[id]
	if !ok {
		return fmt.Errorf("apply %s: %w", id, ErrNotFound)
	}
	if change.IsEmpty() {
		return nil
	}

	ApplyChange(block, change)
	s.dirty = true

	s.logger.Debug("change applied",
		zap.String("id", id),
		zap.Bool("textChanged", change.NewText != nil),
		zap.Bool("resizeModeChanged", change.NewResizeMode != nil))
	return nil
}

// Dirty 是否存在尚未落盘的变更
func (s *JSONStore) Dirty() bool {
	return s.dirty
}

// Flush 把累积的变更写回导出文件
func (s *JSONStore) Flush() error {
	if !s.dirty {
		return nil
	}

	data, err := json.MarshalIndent(s.export, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode document export: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write document export %s: %w", s.path, err)
	}

	s.dirty = false
	s.logger.Info("document export saved", zap.String("path", s.path))
	return nil
}
