package document

import (
	"context"

	"github.com/rivo/uniseg"
)

// ResizeMode 文本块相对于容器的尺寸行为
type ResizeMode string

const (
	// ResizeFixed 固定尺寸，文本在容器内换行
	ResizeFixed ResizeMode = "FIXED"
	// ResizeAutoHeight 宽度固定，高度随内容增长
	ResizeAutoHeight ResizeMode = "AUTO_HEIGHT"
	// ResizeAutoWidthHeight 宽度和高度都随内容增长（不会产生布局换行）
	ResizeAutoWidthHeight ResizeMode = "AUTO_WIDTH_AND_HEIGHT"
)

// IssueKind 检测到的换行问题类型
type IssueKind string

const (
	// IssueAutoWidth 自动宽度模式下仍包含硬换行
	IssueAutoWidth IssueKind = "auto_width"
	// IssueEdgeBreak 疑似因容器宽度限制产生的边缘换行
	IssueEdgeBreak IssueKind = "edge_break"
	// IssueSoftBreak 包含配置的软换行字符
	IssueSoftBreak IssueKind = "soft_break"
)

// TextBlock 是分析的基本单位，由外部文档模型持有。
// 核心逻辑只读取快照并提出替换内容，从不构造或销毁节点。
type TextBlock struct {
	ID               string     `json:"id"`
	Name             string     `json:"name"`
	Content          string     `json:"content"`
	ContainerWidth   float64    `json:"container_width"`
	FontSizePx       float64    `json:"font_size_px"`
	FontFamilies     []string   `json:"font_families,omitempty"`
	ResizeMode       ResizeMode `json:"resize_mode"`
	Locked           bool       `json:"locked"`
	Visible          bool       `json:"visible"`
	HasMissingFont   bool       `json:"has_missing_font"`
	ParagraphSpacing float64    `json:"paragraph_spacing"`
}

// CharCount 返回用户感知的字符数（grapheme cluster 数）。
// minCharacters 阈值按这个计数判断，组合字符和 emoji 只算一个。
func (b *TextBlock) CharCount() int {
	return uniseg.GraphemeClusterCount(b.Content)
}

// Issue 一次分析调用产生的问题记录，产生后不再修改。
// 同一个 TextBlock 可以同时存在多个 Issue。
type Issue struct {
	Kind          IssueKind `json:"kind"`
	Confidence    float64   `json:"confidence"`
	AffectedLines []int     `json:"affected_lines,omitempty"`
	Count         int       `json:"count,omitempty"`
}

// ChangeSet 对一个文本块的变更提案。
// 只有与当前值不同的字段才会被填充；由 apply 协作方消费一次。
type ChangeSet struct {
	NewText       *string
	NewResizeMode *ResizeMode
}

// IsEmpty 判断变更集是否没有任何实际变更
func (c *ChangeSet) IsEmpty() bool {
	return c == nil || (c.NewText == nil && c.NewResizeMode == nil)
}

// BlockMutator 文本块的可变目标。宿主内是真正的节点 setter，
// 离线实现直接改写快照字段。
type BlockMutator interface {
	SetResizeMode(ResizeMode)
	SetContent(string)
}

func (b *TextBlock) SetResizeMode(mode ResizeMode) { b.ResizeMode = mode }

func (b *TextBlock) SetContent(content string) { b.Content = content }

// ApplyChange 按宿主要求的顺序施加变更：resize mode 先于内容写入。
// 在仍受宽度约束时改写内容会触发一次中间的重新换行。
func ApplyChange(target BlockMutator, change *ChangeSet) {
	if change.NewResizeMode != nil {
		target.SetResizeMode(*change.NewResizeMode)
	}
	if change.NewText != nil {
		target.SetContent(*change.NewText)
	}
}

// SkipReason 节点被跳过的原因（非致命，计入统计）
type SkipReason string

const (
	SkipMissingFont SkipReason = "missing_font"
	SkipLocked      SkipReason = "locked"
	SkipHidden      SkipReason = "hidden"
	SkipTooShort    SkipReason = "too_short"
)

// AnalysisResult 单个节点的分析结果，顺序与输入一致
type AnalysisResult struct {
	Block      *TextBlock
	Issues     []Issue
	Skipped    bool
	SkipReason SkipReason
	Err        error
}

// HasIssues 节点是否至少被标记了一个问题
func (r *AnalysisResult) HasIssues() bool {
	return !r.Skipped && r.Err == nil && len(r.Issues) > 0
}

// ProcessResult 单个节点的应用结果
type ProcessResult struct {
	BlockID    string
	Name       string
	Applied    bool
	Change     *ChangeSet
	SkipReason SkipReason
	Err        error
}

// NodeStore 文档模型协作方。Apply 必须先设置 resize mode 再写入内容，
// 因为在仍受宽度约束时改写内容会触发一次中间的重新换行。
type NodeStore interface {
	Blocks(ctx context.Context) ([]*TextBlock, error)
	Apply(ctx context.Context, id string, change *ChangeSet) error
}

// FontLoader 字体协作方：在修改节点内容之前确保其全部字体已加载。
// 混合样式的节点需要枚举所有使用到的字体。
type FontLoader interface {
	EnsureLoaded(ctx context.Context, block *TextBlock) error
}
