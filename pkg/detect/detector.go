package detect

import (
	"strings"

	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/internal/config"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/document"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/textwidth"
	"github.com/miralkashiwagi/figma-extention-line-break-cleaner/pkg/wrap"
)

// 各检测项的置信度。多个问题并存时按置信度降序应用。
const (
	autoWidthConfidence = 0.9
	softBreakConfidence = 0.8
	edgeBreakConfidence = 0.75
)

// Detector 把文本块当前的换行状态与换行模拟对比，归类为零个或
// 多个问题。除宽度缓存外是纯函数。
type Detector struct {
	estimator *textwidth.Estimator
	simulator *wrap.Simulator
}

func NewDetector(estimator *textwidth.Estimator, simulator *wrap.Simulator) *Detector {
	return &Detector{estimator: estimator, simulator: simulator}
}

// Skippable 返回节点应当被跳过的原因。跳过在上游作为 "skipped"
// 上报，不算问题。
func Skippable(block *document.TextBlock, cfg *config.Processing) (document.SkipReason, bool) {
	switch {
	case block.HasMissingFont:
		return document.SkipMissingFont, true
	case block.Locked:
		return document.SkipLocked, true
	case !block.Visible:
		return document.SkipHidden, true
	case block.CharCount() < cfg.MinCharacters:
		return document.SkipTooShort, true
	}
	return "", false
}

// Detect 分析一个文本块，返回检出的问题列表（可能为空）。
func (d *Detector) Detect(block *document.TextBlock, cfg *config.Processing) []document.Issue {
	if _, skip := Skippable(block, cfg); skip {
		return nil
	}

	var issues []document.Issue

	if cfg.DetectionEnabled(config.DetectionAutoWidth) {
		if issue, ok := d.detectAutoWidth(block); ok {
			issues = append(issues, issue)
		}
	}
	if cfg.DetectionEnabled(config.DetectionEdgeBreak) {
		if issue, ok := d.detectEdgeBreak(block, cfg); ok {
			issues = append(issues, issue)
		}
	}
	if cfg.DetectionEnabled(config.DetectionSoftBreak) {
		if issue, ok := d.detectSoftBreak(block, cfg); ok {
			issues = append(issues, issue)
		}
	}
	return issues
}

// detectAutoWidth 自动宽度模式下不应存在硬换行；补救动作固定为
// 转 AUTO_HEIGHT 并清除附带的换行。
func (d *Detector) detectAutoWidth(block *document.TextBlock) (document.Issue, bool) {
	if block.ResizeMode != document.ResizeAutoWidthHeight {
		return document.Issue{}, false
	}
	if !strings.Contains(block.Content, "\n") {
		return document.Issue{}, false
	}

	// 每个硬换行影响它结束的那一行
	breaks := strings.Count(block.Content, "\n")
	affected := make([]int, breaks)
	for i := range affected {
		affected[i] = i
	}
	return document.Issue{
		Kind:          document.IssueAutoWidth,
		Confidence:    autoWidthConfidence,
		AffectedLines: affected,
	}, true
}

// detectEdgeBreak 只对宽度受限的模式有意义。模拟换行后，任何一个
// 非空行的修剪宽度与容器宽之比达到阈值，就视为存在边缘换行。
func (d *Detector) detectEdgeBreak(block *document.TextBlock, cfg *config.Processing) (document.Issue, bool) {
	if block.ResizeMode != document.ResizeFixed && block.ResizeMode != document.ResizeAutoHeight {
		return document.Issue{}, false
	}
	if block.ContainerWidth <= 0 {
		return document.Issue{}, false
	}

	lines := d.simulator.Simulate(block.Content, block.ContainerWidth, block.FontSizePx, cfg.SoftBreakRunes())

	var affected []int
	for _, line := range lines {
		trimmed := strings.TrimSpace(line.Text)
		if trimmed == "" {
			continue
		}
		ratio := d.estimator.EstimateWidth(trimmed, block.FontSizePx) / block.ContainerWidth
		if ratio >= cfg.LineBreakThreshold {
			affected = append(affected, line.Index)
		}
	}
	if len(affected) == 0 {
		return document.Issue{}, false
	}
	return document.Issue{
		Kind:          document.IssueEdgeBreak,
		Confidence:    edgeBreakConfidence,
		AffectedLines: affected,
	}, true
}

// detectSoftBreak 段落间距非零时软换行有排版意义，不报告。
func (d *Detector) detectSoftBreak(block *document.TextBlock, cfg *config.Processing) (document.Issue, bool) {
	if block.ParagraphSpacing != 0 {
		return document.Issue{}, false
	}

	softBreaks := cfg.SoftBreakRunes()
	if len(softBreaks) == 0 {
		return document.Issue{}, false
	}

	soft := make(map[rune]bool, len(softBreaks))
	for _, r := range softBreaks {
		soft[r] = true
	}

	count := 0
	var affected []int
	lineIdx := 0
	for _, r := range block.Content {
		if soft[r] {
			count++
			affected = append(affected, lineIdx)
			lineIdx++
		} else if r == '\n' {
			lineIdx++
		}
	}
	if count == 0 {
		return document.Issue{}, false
	}
	return document.Issue{
		Kind:          document.IssueSoftBreak,
		Confidence:    softBreakConfidence,
		AffectedLines: affected,
		Count:         count,
	}, true
}
